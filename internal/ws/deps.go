package ws

import (
	"time"

	"github.com/kz-league/backend/domain/ban"
	"github.com/kz-league/backend/domain/mapcatalog"
	"github.com/kz-league/backend/domain/player"
	"github.com/kz-league/backend/domain/plugin"
	"github.com/kz-league/backend/domain/record"
	"github.com/kz-league/backend/internal/pkg/logger"
)

// Deps bundles the domain services one connection's dispatch loop needs.
// Built once at process startup and shared read-only across every
// connection.
type Deps struct {
	Players player.Service
	Maps    mapcatalog.Service
	Records record.Service
	Bans    ban.Service
	Plugins plugin.Service
	Logger  *logger.Logger

	// Local disables plugin-checksum verification.
	Local bool

	// HeartbeatInterval and Debounce are the two compile-time constants
	// governing the dispatch loop.
	HeartbeatInterval time.Duration
	Debounce          time.Duration
}
