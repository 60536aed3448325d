// Package dto holds the HTTP façade's request/response shapes, kept
// separate from the domain models so wire-format changes never ripple into
// core service signatures.
package dto

import (
	"time"

	"github.com/google/uuid"
)

// Page is the {total, values} pagination envelope rendered on the wire.
type Page[T any] struct {
	Total  int64 `json:"total"`
	Values []T   `json:"values"`
}

// PlayerResponse is a single player row, with IPAddress populated only for
// callers holding the PlayerBans permission.
type PlayerResponse struct {
	ID            uint64 `json:"id"`
	Name          string `json:"name"`
	IPAddress     *string `json:"ip_address,omitempty"`
	FirstJoinedAt time.Time `json:"first_joined_at"`
	LastJoinedAt  time.Time `json:"last_joined_at"`
}

// PreferencesResponse wraps the opaque client preferences blob.
type PreferencesResponse struct {
	Preferences any `json:"preferences"`
}

// ServerResponse is a single server row. AccessKey is only ever populated
// on the Approve response, never on reads; RotateKey replies with its own
// access_key body.
type ServerResponse struct {
	ID              uint16     `json:"id"`
	Name            string     `json:"name"`
	Host            string     `json:"host"`
	Port            uint16     `json:"port"`
	OwnerID         uint64     `json:"owner_id"`
	ApprovedAt      time.Time  `json:"approved_at"`
	LastConnectedAt *time.Time `json:"last_connected_at,omitempty"`
	AccessKey       string     `json:"access_key,omitempty"`
}

// ApproveServerRequest is POST /servers' body.
type ApproveServerRequest struct {
	ID      uint16 `json:"id"`
	Name    string `json:"name"`
	Host    string `json:"host"`
	Port    uint16 `json:"port"`
	OwnerID uint64 `json:"owner_id"`
}

// UpdateServerRequest is PATCH /servers/{id}'s body.
type UpdateServerRequest struct {
	Name    *string `json:"name"`
	Host    *string `json:"host"`
	Port    *uint16 `json:"port"`
	OwnerID *uint64 `json:"owner_id"`
}

// MapResponse is a single map row.
type MapResponse struct {
	ID           uint32   `json:"id"`
	Name         string   `json:"name"`
	GlobalStatus string   `json:"global_status"`
	WorkshopID   uint64   `json:"workshop_id"`
	Mappers      []string `json:"mappers"`
	Description  string   `json:"description"`
}

// PutMapRequest is PUT /maps' body.
type PutMapRequest struct {
	Name         string   `json:"name"`
	GlobalStatus string   `json:"global_status"`
	WorkshopID   uint64   `json:"workshop_id"`
	Checksum     string   `json:"checksum"`
	Mappers      []string `json:"mappers"`
	Description  string   `json:"description"`
}

// RecordResponse is a single record row.
type RecordResponse struct {
	ID              uuid.UUID `json:"id"`
	FilterID        uint32    `json:"filter_id"`
	PlayerID        uint64    `json:"player_id"`
	ServerID        uint16    `json:"server_id"`
	Teleports       uint32    `json:"teleports"`
	TimeSecs        float64   `json:"time_secs"`
	PluginVersionID uint64    `json:"plugin_version_id"`
	SubmittedAt     time.Time `json:"submitted_at"`
}

// SubmitRecordRequest is the server-authenticated record submission body,
// mirroring the WS NewRecord payload.
type SubmitRecordRequest struct {
	FilterID        uint32  `json:"filter_id"`
	PlayerID        uint64  `json:"player_id"`
	Styles          uint64  `json:"styles"`
	Teleports       uint32  `json:"teleports"`
	TimeSecs        float64 `json:"time_secs"`
	PluginVersionID uint64  `json:"plugin_version_id"`
}

// SubmitRecordResponse mirrors record.SubmissionResult.
type SubmitRecordResponse struct {
	RecordID  uuid.UUID `json:"record_id"`
	NubPoints float64   `json:"nub_points"`
	NubRank   int       `json:"nub_rank"`
	ProPoints float64   `json:"pro_points,omitempty"`
	ProRank   int       `json:"pro_rank,omitempty"`
}

// BanResponse is a single ban row.
type BanResponse struct {
	ID        uuid.UUID  `json:"id"`
	PlayerID  uint64     `json:"player_id"`
	BannedBy  uint64     `json:"banned_by"`
	Reason    string     `json:"reason"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// CreateBanRequest is POST /bans' body.
type CreateBanRequest struct {
	PlayerID uint64     `json:"player_id"`
	Reason   string     `json:"reason"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// UpdateBanRequest is PATCH /bans/{id}'s body.
type UpdateBanRequest struct {
	Reason    *string    `json:"reason"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// RefreshKeyRequest is POST /plugin/auth's body.
type RefreshKeyRequest struct {
	Key           string `json:"key"`
	PluginVersion string `json:"plugin_version"`
}

// RefreshKeyResponse wraps the minted server JWT.
type RefreshKeyResponse struct {
	Token string `json:"token"`
}
