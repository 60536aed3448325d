package ban

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kz-league/backend/internal/steamid"
)

type fakeRepo struct {
	bans map[uuid.UUID]*Ban
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bans: map[uuid.UUID]*Ban{}}
}

func (r *fakeRepo) Create(_ context.Context, b *Ban) error {
	r.bans[b.ID] = b
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Ban, error) {
	if b, ok := r.bans[id]; ok {
		return b, nil
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) Update(_ context.Context, b *Ban) error {
	r.bans[b.ID] = b
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.bans, id)
	return nil
}

func (r *fakeRepo) List(_ context.Context, _ ListFilters) ([]*Ban, int64, error) {
	out := make([]*Ban, 0, len(r.bans))
	for _, b := range r.bans {
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) IsBanned(_ context.Context, player steamid.SteamID, t time.Time) (bool, error) {
	for _, b := range r.bans {
		if b.PlayerID == player && b.Active(t) {
			return true, nil
		}
	}
	return false, nil
}

func testPlayer(t *testing.T, id uint64) steamid.SteamID {
	t.Helper()
	sid, err := steamid.FromUint64(id)
	require.NoError(t, err)
	return sid
}

func TestCreate_AssignsIDAndPersists(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	player := testPlayer(t, 76561197960265729)
	admin := testPlayer(t, 76561197960265730)

	b, err := svc.Create(context.Background(), player, admin, "cheating", nil)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, b.ID)
	require.Equal(t, player, b.PlayerID)
	require.Equal(t, admin, b.BannedBy)

	stored, err := svc.Get(context.Background(), b.ID)
	require.NoError(t, err)
	require.Equal(t, b.ID, stored.ID)
}

func TestIsBanned_PermanentBanAlwaysActive(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	player := testPlayer(t, 76561197960265729)
	admin := testPlayer(t, 76561197960265730)

	_, err := svc.Create(context.Background(), player, admin, "cheating", nil)
	require.NoError(t, err)

	banned, err := svc.IsBanned(context.Background(), player)
	require.NoError(t, err)
	require.True(t, banned)
}

func TestIsBanned_ExpiredBanNotActive(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	player := testPlayer(t, 76561197960265729)
	admin := testPlayer(t, 76561197960265730)

	past := time.Now().Add(-time.Hour)
	_, err := svc.Create(context.Background(), player, admin, "cheating", &past)
	require.NoError(t, err)

	banned, err := svc.IsBanned(context.Background(), player)
	require.NoError(t, err)
	require.False(t, banned)
}

func TestIsBanned_UnbannedPlayerNotActive(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	other := testPlayer(t, 76561197960265731)

	banned, err := svc.IsBanned(context.Background(), other)
	require.NoError(t, err)
	require.False(t, banned)
}

func TestDelete_RemovesBan(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	player := testPlayer(t, 76561197960265729)
	admin := testPlayer(t, 76561197960265730)

	b, err := svc.Create(context.Background(), player, admin, "cheating", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), b.ID))
	_, err = svc.Get(context.Background(), b.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
