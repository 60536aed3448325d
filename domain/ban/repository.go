package ban

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kz-league/backend/internal/steamid"
)

// ListFilters scopes the GET /bans listing.
type ListFilters struct {
	PlayerID *steamid.SteamID
	Limit    int
	Offset   int
}

// Repository defines data access for player bans.
type Repository interface {
	Create(ctx context.Context, b *Ban) error
	GetByID(ctx context.Context, id uuid.UUID) (*Ban, error)
	Update(ctx context.Context, b *Ban) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters ListFilters) ([]*Ban, int64, error)

	// IsBanned reports whether player has any ban active at instant t,
	// consumed by PlayerJoinAck.is_banned and the GET /players IP-redaction
	// rule's callers.
	IsBanned(ctx context.Context, player steamid.SteamID, t time.Time) (bool, error)
}
