// Package auth implements the Steam OpenID login flow, browser sessions,
// server JWT issuance, and the composable authorization strategies gating
// privileged HTTP endpoints.
package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/kz-league/backend/internal/permission"
	"github.com/kz-league/backend/internal/steamid"
)

// User is the authenticated principal carried by a Session.
type User struct {
	SteamID     steamid.SteamID
	Permissions permission.Set
}

// Session is the value returned by Login and installed as a request
// extension by the session-manager middleware.
type Session struct {
	ID        uuid.UUID
	User      User
	ExpiresAt time.Time
}

// WebSession is the WebSessions table row.
type WebSession struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	PlayerID  uint64    `gorm:"column:player_id;not null;index"` // steamid.SteamID, stored as uint64
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

// TableName pins the GORM table name.
func (WebSession) TableName() string { return "web_sessions" }

// ServerTokenClaims is the server-auth JWT's custom payload.
type ServerTokenClaims struct {
	ServerID        uint16 `json:"server_id"`
	PluginVersionID uint64 `json:"plugin_version_id"`
}

const (
	// BrowserSessionTTL is how long a freshly issued or renewed browser
	// session stays valid.
	BrowserSessionTTL = 14 * 24 * time.Hour
	// ServerTokenTTL is the default expiry of a server access JWT minted by
	// refresh_key.
	ServerTokenTTL = 30 * time.Minute
)

// CookieName is the HTTP cookie carrying the browser session id.
const CookieName = "kz-auth"
