package db

import (
	"gorm.io/gorm"

	"github.com/kz-league/backend/domain/auth"
	"github.com/kz-league/backend/domain/ban"
	"github.com/kz-league/backend/domain/mapcatalog"
	"github.com/kz-league/backend/domain/player"
	"github.com/kz-league/backend/domain/plugin"
	"github.com/kz-league/backend/domain/record"
	"github.com/kz-league/backend/domain/server"
)

// AutoMigrate creates or updates every domain table GORM knows how to
// derive from its model's tags, including the best-record tables'
// composite (filter_id, player_id) primary keys. Dense ranks are computed
// by queries in the record repository; no views are created.
func AutoMigrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&player.Player{},
		&player.InGameSession{},
		&player.CourseSession{},
		&server.Server{},
		&auth.WebSession{},
		&mapcatalog.Map{},
		&mapcatalog.Course{},
		&mapcatalog.Filter{},
		&record.Record{},
		&record.BestNubRecords{},
		&record.BestProRecords{},
		&ban.Ban{},
		&plugin.Version{},
		&plugin.Checksum{},
	)
}
