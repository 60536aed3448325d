package record

import (
	"context"

	"github.com/google/uuid"

	"github.com/kz-league/backend/internal/steamid"
)

// SortBy selects the leaderboard's primary sort column.
type SortBy string

const (
	SortByTime SortBy = "time"
	SortByDate SortBy = "date"
)

// SortOrder is ascending or descending.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// ListFilters scopes GET /records.
type ListFilters struct {
	Top          bool
	PlayerID     *steamid.SteamID
	ServerID     *uint16
	FilterID     *uint32 // resolved from map_id/course_id/mode before querying
	HasTeleports *bool
	MaxRank      *int
	SortBy       SortBy
	SortOrder    SortOrder
	Limit        int
	Offset       int
}

// Transactor runs fn within a single database transaction, rolling back on
// error. The submission pipeline uses it so the Records insert and the
// best-table upserts commit atomically: a reader seeing the record is
// guaranteed to see the updated best row.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repository defines data access for the Records log and its two derived
// best tables.
type Repository interface {
	// Insert appends r to the Records log within the ambient transaction
	// carried by ctx (see internal/infra/repository.TxManager).
	Insert(ctx context.Context, r *Record) error

	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	ListByPlayerAndFilterIDs(ctx context.Context, playerID steamid.SteamID, filterIDs []uint32) ([]*Record, error)

	// List serves the GET /records façade and the WS WantCourseTop/
	// WantWorldRecords/WantPersonalBest family.
	List(ctx context.Context, filters ListFilters) ([]*Record, int64, error)

	GetBestNub(ctx context.Context, filterID uint32, playerID steamid.SteamID) (*BestNubRecords, error)
	UpsertBestNub(ctx context.Context, row *BestNubRecords) error
	GetBestPro(ctx context.Context, filterID uint32, playerID steamid.SteamID) (*BestProRecords, error)
	UpsertBestPro(ctx context.Context, row *BestProRecords) error

	// DenseRank returns the 1-based dense rank of playerID within filterID's
	// best-nub (pro=false) or best-pro (pro=true) leaderboard, ordered by
	// time ASC, record_id ASC. Returns 0 if playerID has no entry.
	DenseRank(ctx context.Context, filterID uint32, playerID steamid.SteamID, pro bool) (int, error)

	// TopNub/TopPro return the single best row for a filter, used by
	// WantWorldRecords/WantCourseTop.
	TopNub(ctx context.Context, filterID uint32) (*BestNubRecords, error)
	TopPro(ctx context.Context, filterID uint32) (*BestProRecords, error)
}
