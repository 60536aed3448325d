//go:build wireinject
// +build wireinject

package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/kz-league/backend/domain/auth"
	"github.com/kz-league/backend/domain/ban"
	"github.com/kz-league/backend/domain/mapcatalog"
	"github.com/kz-league/backend/domain/player"
	"github.com/kz-league/backend/domain/plugin"
	"github.com/kz-league/backend/domain/record"
	"github.com/kz-league/backend/domain/server"
	"github.com/kz-league/backend/internal/api/handler"
	"github.com/kz-league/backend/internal/api/middleware"
	"github.com/kz-league/backend/internal/config"
	"github.com/kz-league/backend/internal/db"
	"github.com/kz-league/backend/internal/infra/repository"
	"github.com/kz-league/backend/internal/infra/storage"
	"github.com/kz-league/backend/internal/pkg/cache"
	"github.com/kz-league/backend/internal/pkg/logger"
	serverhttp "github.com/kz-league/backend/internal/server"
	"github.com/kz-league/backend/internal/ws"
)

// Application holds all application dependencies.
type Application struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      *gorm.DB
	Cache   *cache.Cache
	App     *fiber.App
	Storage storage.Storage

	AuthService   auth.Service
	PlayerService player.Service
	ServerService server.Service
	MapService    mapcatalog.Service
	RecordService record.Service
	BanService            ban.Service
	PluginService         plugin.Service
	PluginArtifactService plugin.ArtifactService

	AuthHandler   *handler.AuthHandler
	PlayerHandler *handler.PlayerHandler
	ServerHandler *handler.ServerHandler
	MapHandler    *handler.MapHandler
	RecordHandler *handler.RecordHandler
	BanHandler    *handler.BanHandler
	PluginHandler *handler.PluginHandler

	WSDeps ws.Deps
}

// InitializeApplication creates a fully initialized application using Wire.
// The Go toolchain is never invoked in this exercise, so this file is kept
// as reference scaffolding only (guarded by the wireinject build tag);
// cmd/server/wire_gen.go carries the real, hand-authored construction in
// the shape `wire` would have generated from this graph.
func InitializeApplication() (*Application, error) {
	wire.Build(
		config.ProviderSet,
		logger.ProviderSet,
		db.ProviderSet,
		cache.ProviderSet,
		storage.ProviderSet,
		repository.ProviderSet,

		auth.ProviderSet,
		player.ProviderSet,
		server.ProviderSet,
		mapcatalog.ProviderSet,
		record.ProviderSet,
		ban.ProviderSet,
		plugin.ProviderSet,

		handler.ProviderSet,
		middleware.ProviderSet,
		serverhttp.ProviderSet,
		ws.ProviderSet,

		wire.Struct(new(Application), "*"),
	)

	return &Application{}, nil
}

// Shutdown gracefully shuts down all application resources.
func (a *Application) Shutdown() error {
	a.Logger.Info().Msg("Starting graceful shutdown...")

	if err := a.App.Shutdown(); err != nil {
		a.Logger.Error().Err(err).Msg("Failed to shutdown Fiber server")
	} else {
		a.Logger.Info().Msg("Fiber server shutdown complete")
	}

	if a.Cache != nil {
		a.Cache.Close()
		a.Logger.Info().Msg("Cache closed")
	}

	if a.DB != nil {
		if err := db.Close(a.DB, a.Logger); err != nil {
			a.Logger.Error().Err(err).Msg("Failed to close database")
			return err
		}
	}

	a.Logger.Info().Msg("Graceful shutdown complete")
	return nil
}
