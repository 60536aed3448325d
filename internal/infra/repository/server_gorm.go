package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/kz-league/backend/domain/server"
	"github.com/kz-league/backend/internal/steamid"
)

// ServerGormRepository implements server.Repository using GORM.
type ServerGormRepository struct {
	db *gorm.DB
}

// NewServerGormRepository constructs a ServerGormRepository.
func NewServerGormRepository(db *gorm.DB) server.Repository {
	return &ServerGormRepository{db: db}
}

func (r *ServerGormRepository) Create(ctx context.Context, s *server.Server) error {
	err := dbFromContext(ctx, r.db).Create(s).Error
	if err == nil {
		return nil
	}
	if isUniqueViolation(err, "idx_servers_name") {
		return server.ErrDuplicateName
	}
	if isUniqueViolation(err, "host") {
		return server.ErrDuplicateHostPort
	}
	return fmt.Errorf("server: create: %w", err)
}

func (r *ServerGormRepository) GetByID(ctx context.Context, id uint16) (*server.Server, error) {
	var s server.Server
	err := dbFromContext(ctx, r.db).Where("id = ?", id).First(&s).Error
	if err == gorm.ErrRecordNotFound {
		return nil, server.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("server: get by id: %w", err)
	}
	return &s, nil
}

func (r *ServerGormRepository) GetByName(ctx context.Context, name string) (*server.Server, error) {
	var s server.Server
	err := dbFromContext(ctx, r.db).Where("name = ?", name).First(&s).Error
	if err == gorm.ErrRecordNotFound {
		return nil, server.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("server: get by name: %w", err)
	}
	return &s, nil
}

func (r *ServerGormRepository) ListWithAccessKey(ctx context.Context) ([]*server.Server, error) {
	var rows []*server.Server
	err := dbFromContext(ctx, r.db).Where("access_key_hash IS NOT NULL").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("server: list with access key: %w", err)
	}
	return rows, nil
}

func (r *ServerGormRepository) Update(ctx context.Context, s *server.Server) error {
	if err := dbFromContext(ctx, r.db).Save(s).Error; err != nil {
		return fmt.Errorf("server: update: %w", err)
	}
	return nil
}

func (r *ServerGormRepository) SetAccessKeyHash(ctx context.Context, id uint16, hash *string) error {
	res := dbFromContext(ctx, r.db).Model(&server.Server{}).Where("id = ?", id).Update("access_key_hash", hash)
	if res.Error != nil {
		return fmt.Errorf("server: set access key hash: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return server.ErrNotFound
	}
	return nil
}

func (r *ServerGormRepository) List(ctx context.Context, filters server.ListFilters) ([]*server.Server, int64, error) {
	db := dbFromContext(ctx, r.db).Model(&server.Server{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("server: list: count: %w", err)
	}

	var rows []*server.Server
	err := db.Order("id ASC").Limit(filters.Limit).Offset(filters.Offset).Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("server: list: %w", err)
	}
	return rows, total, nil
}

func (r *ServerGormRepository) IsOwner(ctx context.Context, id uint16, ownerID steamid.SteamID) (bool, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&server.Server{}).
		Where("id = ? AND owner_id = ?", id, uint64(ownerID)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("server: is owner: %w", err)
	}
	return count > 0, nil
}

// isUniqueViolation is a best-effort check over the Postgres unique-
// violation error text, avoiding a hard dependency on the pgconn error type.
func isUniqueViolation(err error, constraintHint string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") && strings.Contains(msg, constraintHint)
}
