package player

import (
	"context"

	"github.com/kz-league/backend/internal/steamid"
)

// ListFilters scopes the paginated player listing (GET /players).
type ListFilters struct {
	Limit  int
	Offset int
}

// Repository defines data access for the player registry.
type Repository interface {
	// Upsert creates the player row if absent, otherwise updates name and
	// ip_address and bumps last_joined_at. Returns the resulting row and
	// whether it was newly created.
	Upsert(ctx context.Context, id steamid.SteamID, name string, ip *string) (*Player, bool, error)

	GetByID(ctx context.Context, id steamid.SteamID) (*Player, error)
	GetByName(ctx context.Context, name string) (*Player, error)

	UpdatePreferences(ctx context.Context, id steamid.SteamID, preferences []byte) error

	List(ctx context.Context, filters ListFilters) ([]*Player, int64, error)
}
