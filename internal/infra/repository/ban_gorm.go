package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kz-league/backend/domain/ban"
	"github.com/kz-league/backend/internal/steamid"
)

// BanGormRepository implements ban.Repository using GORM.
type BanGormRepository struct {
	db *gorm.DB
}

// NewBanGormRepository constructs a BanGormRepository.
func NewBanGormRepository(db *gorm.DB) ban.Repository {
	return &BanGormRepository{db: db}
}

func (r *BanGormRepository) Create(ctx context.Context, b *ban.Ban) error {
	if err := dbFromContext(ctx, r.db).Create(b).Error; err != nil {
		return fmt.Errorf("ban: create: %w", err)
	}
	return nil
}

func (r *BanGormRepository) GetByID(ctx context.Context, id uuid.UUID) (*ban.Ban, error) {
	var b ban.Ban
	err := dbFromContext(ctx, r.db).Where("id = ?", id).First(&b).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ban.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ban: get by id: %w", err)
	}
	return &b, nil
}

func (r *BanGormRepository) Update(ctx context.Context, b *ban.Ban) error {
	if err := dbFromContext(ctx, r.db).Save(b).Error; err != nil {
		return fmt.Errorf("ban: update: %w", err)
	}
	return nil
}

func (r *BanGormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := dbFromContext(ctx, r.db).Delete(&ban.Ban{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("ban: delete: %w", err)
	}
	return nil
}

func (r *BanGormRepository) List(ctx context.Context, filters ban.ListFilters) ([]*ban.Ban, int64, error) {
	db := dbFromContext(ctx, r.db).Model(&ban.Ban{})
	if filters.PlayerID != nil {
		db = db.Where("player_id = ?", uint64(*filters.PlayerID))
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("ban: list: count: %w", err)
	}

	var rows []*ban.Ban
	err := db.Order("created_at DESC").Limit(filters.Limit).Offset(filters.Offset).Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("ban: list: %w", err)
	}
	return rows, total, nil
}

func (r *BanGormRepository) IsBanned(ctx context.Context, playerID steamid.SteamID, t time.Time) (bool, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&ban.Ban{}).
		Where("player_id = ? AND (expires_at IS NULL OR expires_at > ?)", uint64(playerID), t).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("ban: is banned: %w", err)
	}
	return count > 0, nil
}
