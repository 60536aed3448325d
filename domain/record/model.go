// Package record implements the record-submission pipeline and the
// leaderboard read path: the Records append-only log and its two derived
// best tables, BestNubRecords and BestProRecords.
package record

import (
	"time"

	"github.com/google/uuid"

	"github.com/kz-league/backend/internal/steamid"
)

// Styles is a bitset of plugin-defined style flags (bhop styles like
// sideways, w-only, half-sideways); the member bits are owned by the
// plugin, not this catalogue, so unlike permission.Set no names are pinned
// here.
type Styles uint64

// Record is a row in the append-only Records table. ID is a UUIDv7 so the
// primary-key ordering equals submission order.
type Record struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	FilterID        uint32          `gorm:"column:filter_id;not null;index"`
	PlayerID        steamid.SteamID `gorm:"column:player_id;not null;index"`
	ServerID        uint16          `gorm:"column:server_id;not null"`
	Styles          Styles          `gorm:"column:styles;not null;default:0"`
	Teleports       uint32          `gorm:"not null"`
	TimeSecs        float64         `gorm:"column:time_secs;not null"`
	PluginVersionID uint64          `gorm:"column:plugin_version_id;not null"`
	SubmittedAt     time.Time       `gorm:"column:submitted_at;not null;index"`
}

// TableName pins the GORM table name.
func (Record) TableName() string { return "records" }

// HasTeleports reports whether the run used any teleports; BestProRecords
// only ever derives from runs where this is false.
func (r Record) HasTeleports() bool { return r.Teleports > 0 }

// Best is the shared shape of BestNubRecords and BestProRecords: one row
// per (filter_id, player_id), holding the winning record and its derived
// points.
type Best struct {
	FilterID uint32          `gorm:"column:filter_id;primaryKey"`
	PlayerID steamid.SteamID `gorm:"column:player_id;primaryKey"`
	RecordID uuid.UUID       `gorm:"type:uuid;column:record_id;not null"`
	Points   float64         `gorm:"not null"`
	TimeSecs float64         `gorm:"column:time_secs;not null"`
}

// BestNubRecords holds the best run per (filter, player) irrespective of
// teleports.
type BestNubRecords struct {
	Best
}

// TableName pins the GORM table name.
func (BestNubRecords) TableName() string { return "best_nub_records" }

// BestProRecords holds the best run per (filter, player) among runs with
// zero teleports.
type BestProRecords struct {
	Best
}

// TableName pins the GORM table name.
func (BestProRecords) TableName() string { return "best_pro_records" }

// PBData is the submission result's rank/points summary, returned to both
// the HTTP façade and the WS NewRecordAck reply.
type PBData struct {
	NubPoints float64 `json:"nub_points"`
	NubRank   int     `json:"nub_rank"`
	ProPoints float64 `json:"pro_points,omitempty"`
	ProRank   int     `json:"pro_rank,omitempty"`
}

// SubmissionResult is the record-submission pipeline's return value.
type SubmissionResult struct {
	RecordID uuid.UUID
	PBData   PBData
}
