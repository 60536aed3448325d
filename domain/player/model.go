// Package player implements the player registry: lazily created player
// rows, the opaque client-owned preferences blob, and the in-game session
// rollups telemetry feeds while a player is connected to a server.
package player

import (
	"encoding/json"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/kz-league/backend/internal/permission"
	"github.com/kz-league/backend/internal/steamid"
)

// Player is a row in the Players table.
type Player struct {
	ID            steamid.SteamID `gorm:"column:id;primaryKey"`
	Name          string          `gorm:"not null"`
	IPAddress     *string         `gorm:"column:ip_address"` // net.IP, stored as text; nil when unknown
	Preferences   json.RawMessage `gorm:"type:jsonb;not null;default:'{}'"`
	Permissions   permission.Set  `gorm:"column:permissions;not null;default:0"`
	FirstJoinedAt time.Time       `gorm:"not null"`
	LastJoinedAt  time.Time       `gorm:"not null"`
}

// TableName pins the GORM table name.
func (Player) TableName() string { return "players" }

// IP parses the stored IPAddress, returning nil when absent or malformed.
func (p Player) IP() net.IP {
	if p.IPAddress == nil {
		return nil
	}
	return net.ParseIP(*p.IPAddress)
}

// bhopCounterCount is the fixed number of bhop counter slots in the
// session rollup. The slots are not labelled; no JumpType type is defined.
const bhopCounterCount = 9

// InGameSession is the telemetry rollup opened implicitly on player join
// and closed by the next leave or map-change.
type InGameSession struct {
	SessionID      uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PlayerID       steamid.SteamID `gorm:"not null;index"`
	ServerID       uint16          `gorm:"not null;index"`
	ActiveSecs     float64         `gorm:"not null;default:0"`
	SpectatingSecs float64         `gorm:"not null;default:0"`
	AfkSecs        float64         `gorm:"not null;default:0"`
	BhopCounters   [bhopCounterCount]uint32 `gorm:"-"` // not persisted
	Perfs          uint32          `gorm:"not null;default:0"`
	OpenedAt       time.Time       `gorm:"not null"`
	ClosedAt       *time.Time
}

// TableName pins the GORM table name.
func (InGameSession) TableName() string { return "in_game_sessions" }

// CourseSession is the per-course session rollup, carrying the same base
// shape as InGameSession plus course/mode/run counters.
type CourseSession struct {
	SessionID    uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PlayerID     steamid.SteamID `gorm:"not null;index"`
	ServerID     uint16          `gorm:"not null;index"`
	CourseID     uint32          `gorm:"not null;index"`
	Mode         string          `gorm:"not null"`
	PlaytimeSecs float64         `gorm:"not null;default:0"`
	StartedRuns  uint32          `gorm:"not null;default:0"`
	FinishedRuns uint32          `gorm:"not null;default:0"`
	OpenedAt     time.Time       `gorm:"not null"`
	ClosedAt     *time.Time
}

// TableName pins the GORM table name.
func (CourseSession) TableName() string { return "course_sessions" }

// Valid enforces started_runs >= finished_runs.
func (c CourseSession) Valid() bool {
	return c.StartedRuns >= c.FinishedRuns
}
