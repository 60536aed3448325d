package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kz-league/backend/internal/steamid"
)

type fakeRepo struct {
	servers map[uint16]*Server
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{servers: map[uint16]*Server{}}
}

func (r *fakeRepo) Create(_ context.Context, s *Server) error {
	r.servers[s.ID] = s
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uint16) (*Server, error) {
	if s, ok := r.servers[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) GetByName(_ context.Context, name string) (*Server, error) {
	for _, s := range r.servers {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) ListWithAccessKey(_ context.Context) ([]*Server, error) {
	out := make([]*Server, 0, len(r.servers))
	for _, s := range r.servers {
		if s.AccessKeyHash != nil {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, s *Server) error {
	r.servers[s.ID] = s
	return nil
}

func (r *fakeRepo) SetAccessKeyHash(_ context.Context, id uint16, hash *string) error {
	s, ok := r.servers[id]
	if !ok {
		return ErrNotFound
	}
	s.AccessKeyHash = hash
	return nil
}

func (r *fakeRepo) List(_ context.Context, _ ListFilters) ([]*Server, int64, error) {
	out := make([]*Server, 0, len(r.servers))
	for _, s := range r.servers {
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) IsOwner(_ context.Context, id uint16, ownerID steamid.SteamID) (bool, error) {
	s, ok := r.servers[id]
	if !ok {
		return false, ErrNotFound
	}
	return s.OwnerID == ownerID, nil
}

func testOwner(t *testing.T, id uint64) steamid.SteamID {
	t.Helper()
	sid, err := steamid.FromUint64(id)
	require.NoError(t, err)
	return sid
}

func TestApprove_GeneratesRetrievableAccessKey(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	owner := testOwner(t, 76561197960265729)

	entity, accessKey, err := svc.Approve(context.Background(), 1, "eu-1", "1.2.3.4", 27015, owner)
	require.NoError(t, err)
	require.NotEmpty(t, accessKey)
	require.NotNil(t, entity.AccessKeyHash)

	resolved, err := svc.ResolveAccessKey(context.Background(), accessKey)
	require.NoError(t, err)
	require.Equal(t, entity.ID, resolved.ID)
}

func TestResolveAccessKey_WrongKeyRejected(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	owner := testOwner(t, 76561197960265729)

	_, _, err := svc.Approve(context.Background(), 1, "eu-1", "1.2.3.4", 27015, owner)
	require.NoError(t, err)

	_, err = svc.ResolveAccessKey(context.Background(), "not-the-real-key")
	require.ErrorIs(t, err, ErrInvalidAccessKey)
}

func TestRotateKey_InvalidatesPreviousKey(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	owner := testOwner(t, 76561197960265729)

	_, oldKey, err := svc.Approve(context.Background(), 1, "eu-1", "1.2.3.4", 27015, owner)
	require.NoError(t, err)

	newKey, err := svc.RotateKey(context.Background(), 1)
	require.NoError(t, err)
	require.NotEqual(t, oldKey, newKey)

	_, err = svc.ResolveAccessKey(context.Background(), oldKey)
	require.ErrorIs(t, err, ErrInvalidAccessKey)

	resolved, err := svc.ResolveAccessKey(context.Background(), newKey)
	require.NoError(t, err)
	require.Equal(t, uint16(1), resolved.ID)
}

func TestClearKey_RemovesAccess(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	owner := testOwner(t, 76561197960265729)

	_, key, err := svc.Approve(context.Background(), 1, "eu-1", "1.2.3.4", 27015, owner)
	require.NoError(t, err)

	require.NoError(t, svc.ClearKey(context.Background(), 1))

	_, err = svc.ResolveAccessKey(context.Background(), key)
	require.ErrorIs(t, err, ErrInvalidAccessKey)
}

func TestReassignOwner_UpdatesOwnership(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	owner := testOwner(t, 76561197960265729)
	newOwner := testOwner(t, 76561197960265730)

	_, _, err := svc.Approve(context.Background(), 1, "eu-1", "1.2.3.4", 27015, owner)
	require.NoError(t, err)

	require.NoError(t, svc.ReassignOwner(context.Background(), 1, newOwner))

	isOwner, err := svc.IsOwner(context.Background(), 1, newOwner)
	require.NoError(t, err)
	require.True(t, isOwner)

	wasOwner, err := svc.IsOwner(context.Background(), 1, owner)
	require.NoError(t, err)
	require.False(t, wasOwner)
}
