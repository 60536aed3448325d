package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kz-league/backend/domain/auth"
	"github.com/kz-league/backend/internal/steamid"
)

// AuthGormRepository implements auth.Repository using GORM.
type AuthGormRepository struct {
	db *gorm.DB
}

// NewAuthGormRepository constructs an AuthGormRepository.
func NewAuthGormRepository(db *gorm.DB) auth.Repository {
	return &AuthGormRepository{db: db}
}

func (r *AuthGormRepository) Create(ctx context.Context, id uuid.UUID, playerID steamid.SteamID, expiresAt time.Time) error {
	row := &auth.WebSession{
		ID:        id,
		PlayerID:  uint64(playerID),
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	if err := dbFromContext(ctx, r.db).Create(row).Error; err != nil {
		return fmt.Errorf("auth: create session: %w", err)
	}
	return nil
}

func (r *AuthGormRepository) GetByID(ctx context.Context, id uuid.UUID) (*auth.WebSession, error) {
	var row auth.WebSession
	err := dbFromContext(ctx, r.db).Where("id = ?", id).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, auth.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("auth: get session: %w", err)
	}
	return &row, nil
}

func (r *AuthGormRepository) Renew(ctx context.Context, id uuid.UUID, expiresAt time.Time) error {
	res := dbFromContext(ctx, r.db).Model(&auth.WebSession{}).Where("id = ?", id).Update("expires_at", expiresAt)
	if res.Error != nil {
		return fmt.Errorf("auth: renew session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return auth.ErrSessionNotFound
	}
	return nil
}

func (r *AuthGormRepository) Expire(ctx context.Context, id uuid.UUID, now time.Time) error {
	res := dbFromContext(ctx, r.db).Model(&auth.WebSession{}).Where("id = ?", id).Update("expires_at", now)
	if res.Error != nil {
		return fmt.Errorf("auth: expire session: %w", res.Error)
	}
	return nil
}

func (r *AuthGormRepository) ExpireAllForPlayer(ctx context.Context, playerID steamid.SteamID, now time.Time) error {
	err := dbFromContext(ctx, r.db).Model(&auth.WebSession{}).
		Where("player_id = ?", uint64(playerID)).
		Update("expires_at", now).Error
	if err != nil {
		return fmt.Errorf("auth: expire all sessions: %w", err)
	}
	return nil
}
