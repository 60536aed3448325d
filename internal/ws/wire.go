package ws

import (
	"time"

	"github.com/google/wire"

	"github.com/kz-league/backend/domain/ban"
	"github.com/kz-league/backend/domain/mapcatalog"
	"github.com/kz-league/backend/domain/player"
	"github.com/kz-league/backend/domain/plugin"
	"github.com/kz-league/backend/domain/record"
	"github.com/kz-league/backend/internal/pkg/logger"
)

// HeartbeatInterval and Debounce are the compile-time constants governing
// the WS dispatch loop.
const (
	HeartbeatInterval = 30 * time.Second
	Debounce          = 100 * time.Millisecond
)

// ProviderSet is the Wire provider set for the WS protocol core.
var ProviderSet = wire.NewSet(
	NewDeps,
)

// NewDeps assembles Deps from the domain services, reading Local off the
// app environment the same way the HTTP façade reads secure-cookie policy.
func NewDeps(players player.Service, maps mapcatalog.Service, records record.Service, bans ban.Service, plugins plugin.Service, log *logger.Logger, local bool) Deps {
	return Deps{
		Players:           players,
		Maps:              maps,
		Records:           records,
		Bans:              bans,
		Plugins:           plugins,
		Logger:            log,
		Local:             local,
		HeartbeatInterval: HeartbeatInterval,
		Debounce:          Debounce,
	}
}
