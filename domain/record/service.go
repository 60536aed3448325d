package record

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kz-league/backend/domain/common"
	"github.com/kz-league/backend/internal/steamid"
)

// NewRecord is the submission pipeline's input.
type NewRecord struct {
	FilterID        uint32
	PlayerID        steamid.SteamID
	ServerID        uint16
	PluginVersionID uint64
	Styles          Styles
	Teleports       uint32
	TimeSecs        float64
}

// Service is the record-submission pipeline and leaderboard read path.
type Service interface {
	// Submit generates a UUIDv7 id, inserts the Records row, upserts
	// BestNubRecords, and (when teleports == 0) BestProRecords, all within
	// one transaction, then returns freshly queried dense ranks.
	Submit(ctx context.Context, in NewRecord) (*SubmissionResult, error)

	Get(ctx context.Context, id uuid.UUID) (*Record, error)

	// List implements get_records(params).
	List(ctx context.Context, filters ListFilters) (common.Page[*Record], error)

	// TopForFilter returns the best-overall and best-pro rows for a filter,
	// used by WantCourseTop/WantWorldRecords.
	TopForFilter(ctx context.Context, filterID uint32) (nub *BestNubRecords, pro *BestProRecords, err error)

	// PersonalBest is WantPersonalBest: like TopForFilter but scoped to one
	// player.
	PersonalBest(ctx context.Context, filterID uint32, playerID steamid.SteamID) (nub *Record, pro *Record, err error)

	ListForPlayer(ctx context.Context, playerID steamid.SteamID, filterIDs []uint32) ([]*Record, error)
}

type service struct {
	repo         Repository
	tx           Transactor
	distribution Distribution
}

// NewService constructs the record Service. distribution may be nil, in
// which case DefaultDistribution is used.
func NewService(repo Repository, tx Transactor, distribution Distribution) Service {
	if distribution == nil {
		distribution = DefaultDistribution
	}
	return &service{repo: repo, tx: tx, distribution: distribution}
}

func (s *service) Submit(ctx context.Context, in NewRecord) (*SubmissionResult, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("record: submit: generate id: %w", err)
	}

	row := &Record{
		ID:              id,
		FilterID:        in.FilterID,
		PlayerID:        in.PlayerID,
		ServerID:        in.ServerID,
		Styles:          in.Styles,
		Teleports:       in.Teleports,
		TimeSecs:        in.TimeSecs,
		PluginVersionID: in.PluginVersionID,
		SubmittedAt:     time.Now(),
	}

	result := &SubmissionResult{RecordID: id}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Insert(ctx, row); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}

		nubRank, nubPoints, err := s.upsertBest(ctx, row, false)
		if err != nil {
			return err
		}
		result.PBData.NubRank = nubRank
		result.PBData.NubPoints = nubPoints

		if !row.HasTeleports() {
			proRank, proPoints, err := s.upsertBest(ctx, row, true)
			if err != nil {
				return err
			}
			result.PBData.ProRank = proRank
			result.PBData.ProPoints = proPoints
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record: submit: %w", err)
	}
	return result, nil
}

// upsertBest recomputes and, if improved, upserts the best-nub (pro=false)
// or best-pro (pro=true) row for row's (filter, player), then returns the
// freshly queried dense rank and the points at that rank.
func (s *service) upsertBest(ctx context.Context, row *Record, pro bool) (rank int, points float64, err error) {
	improved := true

	if pro {
		existing, err := s.repo.GetBestPro(ctx, row.FilterID, row.PlayerID)
		if err != nil && err != ErrNotFound {
			return 0, 0, fmt.Errorf("get best pro: %w", err)
		}
		if existing != nil && existing.TimeSecs <= row.TimeSecs {
			improved = false
		}
	} else {
		existing, err := s.repo.GetBestNub(ctx, row.FilterID, row.PlayerID)
		if err != nil && err != ErrNotFound {
			return 0, 0, fmt.Errorf("get best nub: %w", err)
		}
		if existing != nil && existing.TimeSecs <= row.TimeSecs {
			improved = false
		}
	}

	if improved {
		rank, err := s.repo.DenseRank(ctx, row.FilterID, row.PlayerID, pro)
		if err != nil {
			return 0, 0, fmt.Errorf("dense rank: %w", err)
		}
		if rank == 0 {
			rank = 1 // first entry for this player at this filter
		}
		points = s.distribution.PointsForRank(rank, row.TimeSecs)

		best := Best{FilterID: row.FilterID, PlayerID: row.PlayerID, RecordID: row.ID, Points: points, TimeSecs: row.TimeSecs}
		if pro {
			if err := s.repo.UpsertBestPro(ctx, &BestProRecords{Best: best}); err != nil {
				return 0, 0, fmt.Errorf("upsert best pro: %w", err)
			}
		} else {
			if err := s.repo.UpsertBestNub(ctx, &BestNubRecords{Best: best}); err != nil {
				return 0, 0, fmt.Errorf("upsert best nub: %w", err)
			}
		}
		return rank, points, nil
	}

	rank, err = s.repo.DenseRank(ctx, row.FilterID, row.PlayerID, pro)
	if err != nil {
		return 0, 0, fmt.Errorf("dense rank: %w", err)
	}
	points = s.distribution.PointsForRank(rank, row.TimeSecs)
	return rank, points, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filters ListFilters) (common.Page[*Record], error) {
	filters.Limit = common.ClampLimit(filters.Limit)
	filters.Offset = common.ClampOffset(filters.Offset)
	if filters.SortBy == "" {
		filters.SortBy = SortByTime
	}
	if filters.SortOrder == "" {
		switch filters.SortBy {
		case SortByDate:
			filters.SortOrder = Desc
		default:
			filters.SortOrder = Asc
		}
	}

	rows, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return common.Page[*Record]{}, err
	}
	return common.Page[*Record]{Total: total, Values: rows}, nil
}

func (s *service) TopForFilter(ctx context.Context, filterID uint32) (*BestNubRecords, *BestProRecords, error) {
	nub, err := s.repo.TopNub(ctx, filterID)
	if err != nil && err != ErrNotFound {
		return nil, nil, err
	}
	pro, err := s.repo.TopPro(ctx, filterID)
	if err != nil && err != ErrNotFound {
		return nil, nil, err
	}
	return nub, pro, nil
}

func (s *service) PersonalBest(ctx context.Context, filterID uint32, playerID steamid.SteamID) (*Record, *Record, error) {
	var nub, pro *Record

	if best, err := s.repo.GetBestNub(ctx, filterID, playerID); err == nil {
		if r, err := s.repo.GetByID(ctx, best.RecordID); err == nil {
			nub = r
		}
	} else if err != ErrNotFound {
		return nil, nil, err
	}

	if best, err := s.repo.GetBestPro(ctx, filterID, playerID); err == nil {
		if r, err := s.repo.GetByID(ctx, best.RecordID); err == nil {
			pro = r
		}
	} else if err != ErrNotFound {
		return nil, nil, err
	}

	return nub, pro, nil
}

func (s *service) ListForPlayer(ctx context.Context, playerID steamid.SteamID, filterIDs []uint32) ([]*Record, error) {
	return s.repo.ListByPlayerAndFilterIDs(ctx, playerID, filterIDs)
}
