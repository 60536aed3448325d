package record

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kz-league/backend/internal/steamid"
)

// fakeTx runs fn inline; the submission pipeline only needs the closure to
// execute, not real rollback semantics, since the fake repo has no partial
// failure modes to roll back from.
type fakeTx struct{}

func (fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeRepo is an in-memory Repository keyed the way the real GORM tables
// are: best rows by (filter, player), records by id.
type fakeRepo struct {
	records  map[uuid.UUID]*Record
	bestNub  map[[2]uint64]*BestNubRecords
	bestPro  map[[2]uint64]*BestProRecords
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		records: map[uuid.UUID]*Record{},
		bestNub: map[[2]uint64]*BestNubRecords{},
		bestPro: map[[2]uint64]*BestProRecords{},
	}
}

func key(filterID uint32, playerID steamid.SteamID) [2]uint64 {
	return [2]uint64{uint64(filterID), playerID.Uint64()}
}

func (r *fakeRepo) Insert(_ context.Context, row *Record) error {
	r.records[row.ID] = row
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Record, error) {
	if row, ok := r.records[id]; ok {
		return row, nil
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) ListByPlayerAndFilterIDs(context.Context, steamid.SteamID, []uint32) ([]*Record, error) {
	return nil, nil
}

func (r *fakeRepo) List(context.Context, ListFilters) ([]*Record, int64, error) {
	return nil, 0, nil
}

func (r *fakeRepo) GetBestNub(_ context.Context, filterID uint32, playerID steamid.SteamID) (*BestNubRecords, error) {
	if row, ok := r.bestNub[key(filterID, playerID)]; ok {
		return row, nil
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) UpsertBestNub(_ context.Context, row *BestNubRecords) error {
	r.bestNub[key(row.FilterID, row.PlayerID)] = row
	return nil
}

func (r *fakeRepo) GetBestPro(_ context.Context, filterID uint32, playerID steamid.SteamID) (*BestProRecords, error) {
	if row, ok := r.bestPro[key(filterID, playerID)]; ok {
		return row, nil
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) UpsertBestPro(_ context.Context, row *BestProRecords) error {
	r.bestPro[key(row.FilterID, row.PlayerID)] = row
	return nil
}

// DenseRank returns 0 while the player has no best row (upsertBest then
// reports rank 1) and 1 once a row exists (a one-player leaderboard never
// moves off rank 1); this is enough to exercise the improved/not-improved branches in
// upsertBest without reimplementing the SQL window function.
func (r *fakeRepo) DenseRank(_ context.Context, filterID uint32, playerID steamid.SteamID, pro bool) (int, error) {
	if pro {
		if _, ok := r.bestPro[key(filterID, playerID)]; ok {
			return 1, nil
		}
		return 0, nil
	}
	if _, ok := r.bestNub[key(filterID, playerID)]; ok {
		return 1, nil
	}
	return 0, nil
}

func (r *fakeRepo) TopNub(_ context.Context, filterID uint32) (*BestNubRecords, error) {
	for _, row := range r.bestNub {
		if row.FilterID == filterID {
			return row, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) TopPro(_ context.Context, filterID uint32) (*BestProRecords, error) {
	for _, row := range r.bestPro {
		if row.FilterID == filterID {
			return row, nil
		}
	}
	return nil, ErrNotFound
}

func newTestPlayer(t *testing.T, id uint64) steamid.SteamID {
	t.Helper()
	sid, err := steamid.FromUint64(id)
	require.NoError(t, err)
	return sid
}

func TestSubmit_FirstRunCreatesNubAndPro(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeTx{}, nil)
	player := newTestPlayer(t, 76561197960265729)

	result, err := svc.Submit(context.Background(), NewRecord{
		FilterID:  1,
		PlayerID:  player,
		ServerID:  1,
		TimeSecs:  30.5,
		Teleports: 0,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, result.RecordID)

	require.Equal(t, 1, result.PBData.NubRank)
	require.Equal(t, float64(1000), result.PBData.NubPoints)
	require.Equal(t, 1, result.PBData.ProRank)
	require.Equal(t, float64(1000), result.PBData.ProPoints)

	stored, err := repo.GetByID(context.Background(), result.RecordID)
	require.NoError(t, err)
	require.Equal(t, player, stored.PlayerID)
}

func TestSubmit_TeleportRunSkipsPro(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeTx{}, nil)
	player := newTestPlayer(t, 76561197960265729)

	result, err := svc.Submit(context.Background(), NewRecord{
		FilterID:  1,
		PlayerID:  player,
		ServerID:  1,
		TimeSecs:  42.0,
		Teleports: 3,
	})
	require.NoError(t, err)

	require.Equal(t, 1, result.PBData.NubRank)
	require.Zero(t, result.PBData.ProRank)
	require.Zero(t, result.PBData.ProPoints)

	_, err = repo.GetBestPro(context.Background(), 1, player)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSubmit_SlowerRunDoesNotOverwriteBest(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeTx{}, nil)
	player := newTestPlayer(t, 76561197960265729)

	first, err := svc.Submit(context.Background(), NewRecord{
		FilterID: 1, PlayerID: player, ServerID: 1, TimeSecs: 20.0,
	})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), NewRecord{
		FilterID: 1, PlayerID: player, ServerID: 1, TimeSecs: 25.0,
	})
	require.NoError(t, err)

	best, err := repo.GetBestNub(context.Background(), 1, player)
	require.NoError(t, err)
	require.Equal(t, first.RecordID, best.RecordID, "slower run must not replace the existing best")
	require.Equal(t, 20.0, best.TimeSecs)
}

func TestSubmit_FasterRunOverwritesBest(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeTx{}, nil)
	player := newTestPlayer(t, 76561197960265729)

	_, err := svc.Submit(context.Background(), NewRecord{
		FilterID: 1, PlayerID: player, ServerID: 1, TimeSecs: 25.0,
	})
	require.NoError(t, err)

	second, err := svc.Submit(context.Background(), NewRecord{
		FilterID: 1, PlayerID: player, ServerID: 1, TimeSecs: 20.0,
	})
	require.NoError(t, err)

	best, err := repo.GetBestNub(context.Background(), 1, player)
	require.NoError(t, err)
	require.Equal(t, second.RecordID, best.RecordID)
	require.Equal(t, 20.0, best.TimeSecs)
}

func TestSubmit_DistinctPlayersEachGetOwnBest(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, fakeTx{}, nil)
	alice := newTestPlayer(t, 76561197960265729)
	bob := newTestPlayer(t, 76561197960265730)

	_, err := svc.Submit(context.Background(), NewRecord{FilterID: 1, PlayerID: alice, ServerID: 1, TimeSecs: 20.0})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), NewRecord{FilterID: 1, PlayerID: bob, ServerID: 1, TimeSecs: 30.0})
	require.NoError(t, err)

	aliceBest, err := repo.GetBestNub(context.Background(), 1, alice)
	require.NoError(t, err)
	bobBest, err := repo.GetBestNub(context.Background(), 1, bob)
	require.NoError(t, err)

	require.NotEqual(t, aliceBest.RecordID, bobBest.RecordID)
}
