// Package ban implements the player-ban subsystem: CRUD over the Bans
// table plus the plain "is currently banned" predicate the WS dispatcher's
// PlayerJoin handler relies on.
package ban

import (
	"time"

	"github.com/google/uuid"

	"github.com/kz-league/backend/internal/steamid"
)

// Ban is a row in the Bans table.
type Ban struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PlayerID  steamid.SteamID `gorm:"column:player_id;not null;index"`
	BannedBy  steamid.SteamID `gorm:"column:banned_by;not null"`
	Reason    string          `gorm:"not null"`
	ExpiresAt *time.Time      `gorm:"column:expires_at"` // nil means permanent
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName pins the GORM table name.
func (Ban) TableName() string { return "bans" }

// Active reports whether the ban is in effect at instant t.
func (b Ban) Active(t time.Time) bool {
	return b.ExpiresAt == nil || b.ExpiresAt.After(t)
}
