package player

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kz-league/backend/internal/steamid"
)

// Service is the player-registry business logic consumed by both the WS
// dispatcher (PlayerJoin/PlayerLeave/WantPreferences) and the HTTP façade
// (GET /players, PUT .../preferences).
type Service interface {
	// Join upserts the player row on first sight and returns it, mirroring
	// the WS PlayerJoin handler's "upsert player (creating on first sight)"
	// requirement.
	Join(ctx context.Context, id steamid.SteamID, name string, ip *string) (*Player, error)

	// Leave persists the updated name and preferences blob the client sends
	// on PlayerLeave.
	Leave(ctx context.Context, id steamid.SteamID, name string, preferences []byte) error

	Get(ctx context.Context, id steamid.SteamID) (*Player, error)
	GetByName(ctx context.Context, name string) (*Player, error)

	Preferences(ctx context.Context, id steamid.SteamID) ([]byte, error)
	SetPreferences(ctx context.Context, id steamid.SteamID, preferences []byte) error

	List(ctx context.Context, filters ListFilters) ([]*Player, int64, error)
}

type service struct {
	repo Repository
}

// NewService constructs the player Service over a Repository.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Join(ctx context.Context, id steamid.SteamID, name string, ip *string) (*Player, error) {
	p, _, err := s.repo.Upsert(ctx, id, name, ip)
	if err != nil {
		return nil, fmt.Errorf("player: join: %w", err)
	}
	return p, nil
}

func (s *service) Leave(ctx context.Context, id steamid.SteamID, name string, preferences []byte) error {
	if len(preferences) > 0 && !json.Valid(preferences) {
		return ErrInvalidPreferences
	}
	if _, _, err := s.repo.Upsert(ctx, id, name, nil); err != nil {
		return fmt.Errorf("player: leave: upsert name: %w", err)
	}
	if len(preferences) == 0 {
		return nil
	}
	if err := s.repo.UpdatePreferences(ctx, id, preferences); err != nil {
		return fmt.Errorf("player: leave: update preferences: %w", err)
	}
	return nil
}

func (s *service) Get(ctx context.Context, id steamid.SteamID) (*Player, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByName(ctx context.Context, name string) (*Player, error) {
	return s.repo.GetByName(ctx, name)
}

func (s *service) Preferences(ctx context.Context, id steamid.SteamID) ([]byte, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.Preferences, nil
}

func (s *service) SetPreferences(ctx context.Context, id steamid.SteamID, preferences []byte) error {
	if !json.Valid(preferences) {
		return ErrInvalidPreferences
	}
	return s.repo.UpdatePreferences(ctx, id, preferences)
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]*Player, int64, error) {
	if filters.Limit <= 0 {
		filters.Limit = 100
	}
	return s.repo.List(ctx, filters)
}
