package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/kz-league/backend/domain/player"
	"github.com/kz-league/backend/internal/steamid"
)

// PlayerGormRepository implements player.Repository using GORM.
type PlayerGormRepository struct {
	db *gorm.DB
}

// NewPlayerGormRepository constructs a PlayerGormRepository.
func NewPlayerGormRepository(db *gorm.DB) player.Repository {
	return &PlayerGormRepository{db: db}
}

func (r *PlayerGormRepository) Upsert(ctx context.Context, id steamid.SteamID, name string, ip *string) (*player.Player, bool, error) {
	db := dbFromContext(ctx, r.db)
	now := time.Now()

	var existing player.Player
	err := db.Where("id = ?", uint64(id)).First(&existing).Error
	switch {
	case err == nil:
		existing.Name = name
		if ip != nil {
			existing.IPAddress = ip
		}
		existing.LastJoinedAt = now
		if err := db.Save(&existing).Error; err != nil {
			return nil, false, fmt.Errorf("player: upsert: update: %w", err)
		}
		return &existing, false, nil
	case err == gorm.ErrRecordNotFound:
		p := &player.Player{
			ID:            id,
			Name:          name,
			IPAddress:     ip,
			Preferences:   []byte("{}"),
			FirstJoinedAt: now,
			LastJoinedAt:  now,
		}
		if err := db.Create(p).Error; err != nil {
			return nil, false, fmt.Errorf("player: upsert: create: %w", err)
		}
		return p, true, nil
	default:
		return nil, false, fmt.Errorf("player: upsert: lookup: %w", err)
	}
}

func (r *PlayerGormRepository) GetByID(ctx context.Context, id steamid.SteamID) (*player.Player, error) {
	var p player.Player
	err := dbFromContext(ctx, r.db).Where("id = ?", uint64(id)).First(&p).Error
	if err == gorm.ErrRecordNotFound {
		return nil, player.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("player: get by id: %w", err)
	}
	return &p, nil
}

func (r *PlayerGormRepository) GetByName(ctx context.Context, name string) (*player.Player, error) {
	var p player.Player
	err := dbFromContext(ctx, r.db).Where("name = ?", name).First(&p).Error
	if err == gorm.ErrRecordNotFound {
		return nil, player.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("player: get by name: %w", err)
	}
	return &p, nil
}

func (r *PlayerGormRepository) UpdatePreferences(ctx context.Context, id steamid.SteamID, preferences []byte) error {
	res := dbFromContext(ctx, r.db).Model(&player.Player{}).
		Where("id = ?", uint64(id)).
		Update("preferences", preferences)
	if res.Error != nil {
		return fmt.Errorf("player: update preferences: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return player.ErrNotFound
	}
	return nil
}

func (r *PlayerGormRepository) List(ctx context.Context, filters player.ListFilters) ([]*player.Player, int64, error) {
	db := dbFromContext(ctx, r.db).Model(&player.Player{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("player: list: count: %w", err)
	}

	var rows []*player.Player
	err := db.Order("last_joined_at DESC").Limit(filters.Limit).Offset(filters.Offset).Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("player: list: %w", err)
	}
	return rows, total, nil
}
