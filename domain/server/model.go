// Package server implements the approved game-server registry: creation
// ("approve"), key rotation/clearing, and ownership reassignment.
package server

import (
	"net"
	"strconv"
	"time"

	"github.com/kz-league/backend/internal/steamid"
)

// Server is a row in the Servers table.
type Server struct {
	ID              uint16 `gorm:"primaryKey"` // non-zero
	Name            string `gorm:"not null;uniqueIndex"`
	Host            string `gorm:"not null;uniqueIndex:idx_server_host_port"` // IP or hostname; combined with Port below for the unique index
	Port            uint16 `gorm:"not null;uniqueIndex:idx_server_host_port"`
	OwnerID         steamid.SteamID `gorm:"column:owner_id;not null;index"`
	AccessKeyHash   *string         `gorm:"column:access_key_hash"` // bcrypt hash of the opaque access key, nil when cleared
	ApprovedAt      time.Time       `gorm:"not null"`
	LastConnectedAt *time.Time
}

// TableName pins the GORM table name.
func (Server) TableName() string { return "servers" }

// HostPort renders the host:port pair used for the uniqueness invariant.
func (s Server) HostPort() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(int(s.Port)))
}
