package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/kz-league/backend/domain/plugin"
)

// PluginGormRepository implements plugin.Repository using GORM.
type PluginGormRepository struct {
	db *gorm.DB
}

// NewPluginGormRepository constructs a PluginGormRepository.
func NewPluginGormRepository(db *gorm.DB) plugin.Repository {
	return &PluginGormRepository{db: db}
}

func (r *PluginGormRepository) GetVersionBySemVer(ctx context.Context, semver string) (*plugin.Version, error) {
	var v plugin.Version
	err := dbFromContext(ctx, r.db).Where("semver = ?", semver).First(&v).Error
	if err == gorm.ErrRecordNotFound {
		return nil, plugin.ErrUnknownVersion
	}
	if err != nil {
		return nil, fmt.Errorf("plugin: get version by semver: %w", err)
	}
	return &v, nil
}

func (r *PluginGormRepository) GetVersionByID(ctx context.Context, id uint64) (*plugin.Version, error) {
	var v plugin.Version
	err := dbFromContext(ctx, r.db).Where("id = ?", id).First(&v).Error
	if err == gorm.ErrRecordNotFound {
		return nil, plugin.ErrUnknownVersion
	}
	if err != nil {
		return nil, fmt.Errorf("plugin: get version by id: %w", err)
	}
	return &v, nil
}

func (r *PluginGormRepository) ListChecksums(ctx context.Context, pluginVersionID uint64, kind plugin.ChecksumKind) ([]*plugin.Checksum, error) {
	var rows []*plugin.Checksum
	err := dbFromContext(ctx, r.db).
		Where("plugin_version_id = ? AND kind = ?", pluginVersionID, kind).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("plugin: list checksums: %w", err)
	}
	return rows, nil
}

func (r *PluginGormRepository) GetChecksum(ctx context.Context, pluginVersionID uint64, kind plugin.ChecksumKind, subject string) (*plugin.Checksum, error) {
	var c plugin.Checksum
	err := dbFromContext(ctx, r.db).
		Where("plugin_version_id = ? AND kind = ? AND subject = ?", pluginVersionID, kind, subject).
		First(&c).Error
	if err != nil {
		return nil, fmt.Errorf("plugin: get checksum: %w", err)
	}
	return &c, nil
}
