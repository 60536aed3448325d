package player

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kz-league/backend/internal/steamid"
)

type fakeRepo struct {
	players map[uint64]*Player
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{players: map[uint64]*Player{}}
}

func (r *fakeRepo) Upsert(_ context.Context, id steamid.SteamID, name string, ip *string) (*Player, bool, error) {
	if p, ok := r.players[id.Uint64()]; ok {
		p.Name = name
		if ip != nil {
			p.IPAddress = ip
		}
		p.LastJoinedAt = time.Now()
		return p, false, nil
	}
	p := &Player{
		ID:            id,
		Name:          name,
		IPAddress:     ip,
		Preferences:   []byte("{}"),
		FirstJoinedAt: time.Now(),
		LastJoinedAt:  time.Now(),
	}
	r.players[id.Uint64()] = p
	return p, true, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id steamid.SteamID) (*Player, error) {
	if p, ok := r.players[id.Uint64()]; ok {
		return p, nil
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) GetByName(_ context.Context, name string) (*Player, error) {
	for _, p := range r.players {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) UpdatePreferences(_ context.Context, id steamid.SteamID, preferences []byte) error {
	p, ok := r.players[id.Uint64()]
	if !ok {
		return ErrNotFound
	}
	p.Preferences = preferences
	return nil
}

func (r *fakeRepo) List(_ context.Context, _ ListFilters) ([]*Player, int64, error) {
	out := make([]*Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func testPlayerID(t *testing.T, id uint64) steamid.SteamID {
	t.Helper()
	sid, err := steamid.FromUint64(id)
	require.NoError(t, err)
	return sid
}

func TestJoin_CreatesOnFirstSight(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	id := testPlayerID(t, 76561197960265729)

	p, err := svc.Join(context.Background(), id, "alice", nil)
	require.NoError(t, err)
	require.Equal(t, "alice", p.Name)

	again, err := svc.Join(context.Background(), id, "alice-renamed", nil)
	require.NoError(t, err)
	require.Equal(t, "alice-renamed", again.Name)
	require.Len(t, repo.players, 1, "second join must update, not duplicate")
}

func TestLeave_RejectsInvalidPreferencesJSON(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	id := testPlayerID(t, 76561197960265729)
	_, err := svc.Join(context.Background(), id, "alice", nil)
	require.NoError(t, err)

	err = svc.Leave(context.Background(), id, "alice", []byte("not json"))
	require.ErrorIs(t, err, ErrInvalidPreferences)
}

func TestLeave_PersistsValidPreferences(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	id := testPlayerID(t, 76561197960265729)
	_, err := svc.Join(context.Background(), id, "alice", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Leave(context.Background(), id, "alice", []byte(`{"sensitivity":2.5}`)))

	prefs, err := svc.Preferences(context.Background(), id)
	require.NoError(t, err)
	require.JSONEq(t, `{"sensitivity":2.5}`, string(prefs))
}

func TestLeave_EmptyPreferencesLeavesExistingUntouched(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	id := testPlayerID(t, 76561197960265729)
	_, err := svc.Join(context.Background(), id, "alice", nil)
	require.NoError(t, err)
	require.NoError(t, svc.SetPreferences(context.Background(), id, []byte(`{"k":"v"}`)))

	require.NoError(t, svc.Leave(context.Background(), id, "alice", nil))

	prefs, err := svc.Preferences(context.Background(), id)
	require.NoError(t, err)
	require.JSONEq(t, `{"k":"v"}`, string(prefs))
}

func TestSetPreferences_RejectsInvalidJSON(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	id := testPlayerID(t, 76561197960265729)
	_, err := svc.Join(context.Background(), id, "alice", nil)
	require.NoError(t, err)

	err = svc.SetPreferences(context.Background(), id, []byte("{broken"))
	require.ErrorIs(t, err, ErrInvalidPreferences)
}
