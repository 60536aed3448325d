package auth

import (
	"github.com/google/wire"

	"github.com/kz-league/backend/domain/player"
	"github.com/kz-league/backend/domain/server"
	"github.com/kz-league/backend/internal/config"
)

// ProviderSet is the Wire provider set for the auth domain service. The
// plugin package satisfies PluginVersionResolver structurally, so its
// service is passed straight through.
var ProviderSet = wire.NewSet(
	ProvideService,
)

// ProvideService wires the session service from config-derived JWT settings.
func ProvideService(sessions Repository, players player.Service, servers server.Service, pluginVers PluginVersionResolver, cfg *config.Config) Service {
	return NewService(sessions, players, servers, pluginVers, cfg.Auth.JWTSecret, cfg.Auth.PublicURL)
}
