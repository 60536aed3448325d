package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kz-league/backend/domain/record"
	"github.com/kz-league/backend/internal/steamid"
)

// RecordGormRepository implements record.Repository using GORM.
type RecordGormRepository struct {
	db *gorm.DB
}

// NewRecordGormRepository constructs a RecordGormRepository.
func NewRecordGormRepository(db *gorm.DB) record.Repository {
	return &RecordGormRepository{db: db}
}

func (r *RecordGormRepository) Insert(ctx context.Context, row *record.Record) error {
	if err := dbFromContext(ctx, r.db).Create(row).Error; err != nil {
		return fmt.Errorf("record: insert: %w", err)
	}
	return nil
}

func (r *RecordGormRepository) GetByID(ctx context.Context, id uuid.UUID) (*record.Record, error) {
	var row record.Record
	err := dbFromContext(ctx, r.db).Where("id = ?", id).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, record.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("record: get by id: %w", err)
	}
	return &row, nil
}

func (r *RecordGormRepository) ListByPlayerAndFilterIDs(ctx context.Context, playerID steamid.SteamID, filterIDs []uint32) ([]*record.Record, error) {
	db := dbFromContext(ctx, r.db).Where("player_id = ?", uint64(playerID))
	if len(filterIDs) > 0 {
		db = db.Where("filter_id IN ?", filterIDs)
	}
	var rows []*record.Record
	if err := db.Order("submitted_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("record: list by player: %w", err)
	}
	return rows, nil
}

func (r *RecordGormRepository) List(ctx context.Context, filters record.ListFilters) ([]*record.Record, int64, error) {
	base := dbFromContext(ctx, r.db)

	orderColumn := "time_secs"
	if filters.SortBy == record.SortByDate {
		orderColumn = "submitted_at"
	}
	direction := "ASC"
	if filters.SortOrder == record.Desc {
		direction = "DESC"
	}

	if filters.Top {
		table := "best_nub_records"
		if filters.HasTeleports != nil && !*filters.HasTeleports {
			table = "best_pro_records"
		}

		query := base.Table(table).
			Select("record_id AS id, filter_id, player_id, 0 AS server_id, 0 AS styles, 0 AS teleports, time_secs, 0 AS plugin_version_id, time_secs AS submitted_at")
		query = applyRecordFilters(query, filters, true)

		var total int64
		if err := base.Table(table).Scopes(func(d *gorm.DB) *gorm.DB { return applyRecordFilters(d, filters, true) }).Count(&total).Error; err != nil {
			return nil, 0, fmt.Errorf("record: list (top): count: %w", err)
		}

		var rows []*record.Record
		err := query.Order(fmt.Sprintf("%s %s", orderColumn, direction)).
			Limit(filters.Limit).Offset(filters.Offset).
			Find(&rows).Error
		if err != nil {
			return nil, 0, fmt.Errorf("record: list (top): %w", err)
		}
		return rows, total, nil
	}

	query := base.Model(&record.Record{})
	query = applyRecordFilters(query, filters, false)

	var total int64
	if err := applyRecordFilters(base.Model(&record.Record{}), filters, false).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("record: list: count: %w", err)
	}

	var rows []*record.Record
	err := query.Order(fmt.Sprintf("%s %s", orderColumn, direction)).
		Limit(filters.Limit).Offset(filters.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("record: list: %w", err)
	}
	return rows, total, nil
}

func applyRecordFilters(db *gorm.DB, filters record.ListFilters, top bool) *gorm.DB {
	if filters.FilterID != nil {
		db = db.Where("filter_id = ?", *filters.FilterID)
	}
	if filters.PlayerID != nil {
		db = db.Where("player_id = ?", uint64(*filters.PlayerID))
	}
	if !top {
		if filters.ServerID != nil {
			db = db.Where("server_id = ?", *filters.ServerID)
		}
		if filters.HasTeleports != nil {
			if *filters.HasTeleports {
				db = db.Where("teleports > 0")
			} else {
				db = db.Where("teleports = 0")
			}
		}
	}
	return db
}

func (r *RecordGormRepository) GetBestNub(ctx context.Context, filterID uint32, playerID steamid.SteamID) (*record.BestNubRecords, error) {
	var row record.BestNubRecords
	err := dbFromContext(ctx, r.db).
		Where("filter_id = ? AND player_id = ?", filterID, uint64(playerID)).
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, record.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("record: get best nub: %w", err)
	}
	return &row, nil
}

func (r *RecordGormRepository) UpsertBestNub(ctx context.Context, row *record.BestNubRecords) error {
	err := dbFromContext(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "filter_id"}, {Name: "player_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"record_id", "points", "time_secs"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("record: upsert best nub: %w", err)
	}
	return nil
}

func (r *RecordGormRepository) GetBestPro(ctx context.Context, filterID uint32, playerID steamid.SteamID) (*record.BestProRecords, error) {
	var row record.BestProRecords
	err := dbFromContext(ctx, r.db).
		Where("filter_id = ? AND player_id = ?", filterID, uint64(playerID)).
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, record.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("record: get best pro: %w", err)
	}
	return &row, nil
}

func (r *RecordGormRepository) UpsertBestPro(ctx context.Context, row *record.BestProRecords) error {
	err := dbFromContext(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "filter_id"}, {Name: "player_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"record_id", "points", "time_secs"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("record: upsert best pro: %w", err)
	}
	return nil
}

// denseRank is the shared dense_rank() window-function query over a best
// table, ordered by time_secs ASC, record_id ASC.
func (r *RecordGormRepository) denseRank(ctx context.Context, table string, filterID uint32, playerID steamid.SteamID) (int, error) {
	type rankRow struct {
		PlayerID uint64
		Rank     int
	}
	var rows []rankRow
	sql := fmt.Sprintf(`
		SELECT player_id, DENSE_RANK() OVER (ORDER BY time_secs ASC, record_id ASC) AS rank
		FROM %s
		WHERE filter_id = ?
	`, table)
	if err := dbFromContext(ctx, r.db).Raw(sql, filterID).Scan(&rows).Error; err != nil {
		return 0, fmt.Errorf("record: dense rank: %w", err)
	}
	for _, row := range rows {
		if row.PlayerID == uint64(playerID) {
			return row.Rank, nil
		}
	}
	return 0, nil
}

func (r *RecordGormRepository) DenseRank(ctx context.Context, filterID uint32, playerID steamid.SteamID, pro bool) (int, error) {
	table := "best_nub_records"
	if pro {
		table = "best_pro_records"
	}
	return r.denseRank(ctx, table, filterID, playerID)
}

func (r *RecordGormRepository) TopNub(ctx context.Context, filterID uint32) (*record.BestNubRecords, error) {
	var row record.BestNubRecords
	err := dbFromContext(ctx, r.db).Where("filter_id = ?", filterID).
		Order("time_secs ASC, record_id ASC").First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, record.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("record: top nub: %w", err)
	}
	return &row, nil
}

func (r *RecordGormRepository) TopPro(ctx context.Context, filterID uint32) (*record.BestProRecords, error) {
	var row record.BestProRecords
	err := dbFromContext(ctx, r.db).Where("filter_id = ?", filterID).
		Order("time_secs ASC, record_id ASC").First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, record.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("record: top pro: %w", err)
	}
	return &row, nil
}
