package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kz-league/backend/internal/steamid"
)

// Repository persists WebSessions rows.
type Repository interface {
	Create(ctx context.Context, id uuid.UUID, playerID steamid.SteamID, expiresAt time.Time) error
	GetByID(ctx context.Context, id uuid.UUID) (*WebSession, error)

	// Renew bumps expires_at for a single session, used by the session-manager
	// middleware after a successful authenticated request.
	Renew(ctx context.Context, id uuid.UUID, expiresAt time.Time) error

	// Expire sets expires_at = now() for one session.
	Expire(ctx context.Context, id uuid.UUID, now time.Time) error

	// ExpireAllForPlayer sets expires_at = now() for every session belonging
	// to playerID, used by logout(all=true).
	ExpireAllForPlayer(ctx context.Context, playerID steamid.SteamID, now time.Time) error
}
