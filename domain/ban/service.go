package ban

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kz-league/backend/internal/steamid"
)

// Service is the ban-subsystem's business logic: CRUD gated by the
// PlayerBans permission at the HTTP layer, plus the is-banned predicate
// consumed by the WS dispatcher's PlayerJoin handler.
type Service interface {
	Create(ctx context.Context, playerID, bannedBy steamid.SteamID, reason string, expiresAt *time.Time) (*Ban, error)
	Get(ctx context.Context, id uuid.UUID) (*Ban, error)
	Update(ctx context.Context, b *Ban) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters ListFilters) ([]*Ban, int64, error)
	IsBanned(ctx context.Context, player steamid.SteamID) (bool, error)
}

type service struct {
	repo Repository
}

// NewService constructs the ban Service over a Repository.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, playerID, bannedBy steamid.SteamID, reason string, expiresAt *time.Time) (*Ban, error) {
	b := &Ban{
		ID:        uuid.Must(uuid.NewV7()),
		PlayerID:  playerID,
		BannedBy:  bannedBy,
		Reason:    reason,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("ban: create: %w", err)
	}
	return b, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Ban, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Update(ctx context.Context, b *Ban) error {
	return s.repo.Update(ctx, b)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]*Ban, int64, error) {
	if filters.Limit <= 0 {
		filters.Limit = 100
	}
	return s.repo.List(ctx, filters)
}

func (s *service) IsBanned(ctx context.Context, player steamid.SteamID) (bool, error) {
	return s.repo.IsBanned(ctx, player, time.Now())
}
