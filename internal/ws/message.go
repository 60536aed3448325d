// Package ws implements the per-connection WebSocket protocol core: frame
// decoding, the handshake, the heartbeat/debounce dispatch loop, and the
// incoming-message table, wired onto github.com/gofiber/contrib/websocket.
package ws

import (
	"encoding/json"
	"time"
)

// Envelope is the wire frame: a correlation id, a kind tag, and an opaque
// payload decoded once the kind is known. Replies carry
// the correlation id of the request they answer; unsolicited frames zero
// it.
type Envelope struct {
	ID      uint64          `json:"id"`
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// Incoming message kinds.
const (
	KindHello                     = "hello"
	KindMapChange                 = "map_change"
	KindWantMapInfo                = "want_map_info"
	KindPlayerJoin                 = "player_join"
	KindPlayerLeave                = "player_leave"
	KindWantPreferences            = "want_preferences"
	KindWantWorldRecordsForCache   = "want_world_records_for_cache"
	KindWantCourseTop              = "want_course_top"
	KindWantPlayerRecords          = "want_player_records"
	KindWantPersonalBest           = "want_personal_best"
	KindWantWorldRecords           = "want_world_records"
	KindNewRecord                  = "new_record"
)

// Outgoing message kinds.
const (
	KindAckHello       = "ack_hello"
	KindMapInfo        = "map_info"
	KindPlayerJoinAck  = "player_join_ack"
	KindPreferences    = "preferences"
	KindRecordsBatch   = "world_records_for_cache"
	KindCourseTop      = "course_top"
	KindPlayerRecords  = "player_records"
	KindPersonalBest   = "personal_best"
	KindWorldRecords   = "world_records"
	KindNewRecordAck   = "new_record_ack"
	KindError          = "error"
)

// HelloPayload is the client's first frame.
type HelloPayload struct {
	PluginVersion         string                    `json:"plugin_version"`
	PluginVersionChecksum []byte                    `json:"plugin_version_checksum"`
	Map                   string                    `json:"map"`
	Players               map[uint64]HelloPlayerInfo `json:"players"`
}

// HelloPlayerInfo is the per-player fragment of HelloPayload.Players.
type HelloPlayerInfo struct {
	Name string `json:"name"`
}

// MapInfoPayload describes a resolved map, or is omitted/null when the
// lookup yields None.
type MapInfoPayload struct {
	ID           uint32   `json:"id"`
	Name         string   `json:"name"`
	GlobalStatus string   `json:"global_status"`
	Mappers      []string `json:"mappers,omitempty"`
}

// AckHelloPayload is the handshake's server reply.
type AckHelloPayload struct {
	HeartbeatIntervalSecs int             `json:"heartbeat_interval_secs"`
	Map                   *MapInfoPayload `json:"map"`
}

// MapChangePayload carries the new current map's name.
type MapChangePayload struct {
	NewMap string `json:"new_map"`
}

// WantMapInfoPayload resolves a map by id or name; callers decide which by
// whether Map parses as an integer.
type WantMapInfoPayload struct {
	Map string `json:"map"`
}

// PlayerJoinPayload is a player connecting to the game server.
type PlayerJoinPayload struct {
	ID   uint64  `json:"id"`
	Name string  `json:"name"`
	IP   *string `json:"ip,omitempty"`
}

// PlayerJoinAckPayload replies with ban status and stored preferences.
type PlayerJoinAckPayload struct {
	IsBanned    bool            `json:"is_banned"`
	Preferences json.RawMessage `json:"preferences,omitempty"`
}

// PlayerLeavePayload is a player disconnecting, carrying the final name and
// preferences blob to persist.
type PlayerLeavePayload struct {
	ID          uint64          `json:"id"`
	Name        string          `json:"name"`
	Preferences json.RawMessage `json:"preferences,omitempty"`
}

// WantPreferencesPayload requests a stored preferences document.
type WantPreferencesPayload struct {
	PlayerID uint64 `json:"player_id"`
}

// PreferencesPayload is the reply to WantPreferences.
type PreferencesPayload struct {
	Preferences json.RawMessage `json:"preferences,omitempty"`
}

// WantWorldRecordsForCachePayload requests every best-overall record for a
// map, for the plugin's local cache warm-up.
type WantWorldRecordsForCachePayload struct {
	MapID uint32 `json:"map_id"`
}

// RecordPayload is the WS wire shape of a single record or best-table row.
type RecordPayload struct {
	ID          string    `json:"id"`
	FilterID    uint32    `json:"filter_id"`
	PlayerID    uint64    `json:"player_id"`
	ServerID    uint16    `json:"server_id,omitempty"`
	Teleports   uint32    `json:"teleports"`
	TimeSecs    float64   `json:"time_secs"`
	SubmittedAt time.Time `json:"submitted_at,omitempty"`
}

// RecordsBatchPayload is the reply to WantWorldRecordsForCache.
type RecordsBatchPayload struct {
	Records []RecordPayload `json:"records"`
}

// WantCourseTopPayload requests both leaderboards for a (map, course,
// mode). The reply carries at most the top row of each leaderboard; Limit
// and Offset are not applied.
type WantCourseTopPayload struct {
	Map    string `json:"map"`
	Course string `json:"course"`
	Mode   string `json:"mode"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// CourseTopPayload replies with both leaderboards; either slice may be
// empty when the map/course lookup misses.
type CourseTopPayload struct {
	Nub []RecordPayload `json:"nub"`
	Pro []RecordPayload `json:"pro"`
}

// WantPlayerRecordsPayload streams every record a player holds on a map.
type WantPlayerRecordsPayload struct {
	MapID    uint32 `json:"map_id"`
	PlayerID uint64 `json:"player_id"`
}

// PlayerRecordsPayload is the reply to WantPlayerRecords.
type PlayerRecordsPayload struct {
	Records []RecordPayload `json:"records"`
}

// WantPersonalBestPayload is WantCourseTop scoped to one player.
type WantPersonalBestPayload struct {
	Player uint64 `json:"player"`
	Map    string `json:"map"`
	Course string `json:"course"`
	Mode   string `json:"mode"`
	Styles uint64 `json:"styles"`
}

// PersonalBestPayload replies with at most one row per leaderboard.
type PersonalBestPayload struct {
	Nub *RecordPayload `json:"nub"`
	Pro *RecordPayload `json:"pro"`
}

// WantWorldRecordsPayload requests the single top record, overall and pro.
type WantWorldRecordsPayload struct {
	Map    string `json:"map"`
	Course string `json:"course"`
	Mode   string `json:"mode"`
}

// WorldRecordsPayload is the reply to WantWorldRecords.
type WorldRecordsPayload struct {
	Nub *RecordPayload `json:"nub"`
	Pro *RecordPayload `json:"pro"`
}

// NewRecordPayload is a run submission from the game server.
type NewRecordPayload struct {
	PlayerID  uint64            `json:"player_id"`
	FilterID  uint32            `json:"filter_id"`
	ModeMD5   []byte            `json:"mode_md5"`
	Styles    map[string][]byte `json:"styles"`
	Teleports uint32            `json:"teleports"`
	Time      float64           `json:"time"`
}

// NewRecordAckPayload is the reply to NewRecord.
type NewRecordAckPayload struct {
	RecordID string  `json:"record_id"`
	NubRank  int     `json:"nub_rank"`
	NubPoints float64 `json:"nub_points"`
	ProRank  int     `json:"pro_rank,omitempty"`
	ProPoints float64 `json:"pro_points,omitempty"`
}

// ErrorPayload is sent in reply to a request that failed to decode or
// dispatch; it never closes the connection outside the handshake.
type ErrorPayload struct {
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}
