package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kz-league/backend/domain/auth"
	"github.com/kz-league/backend/domain/server"
	"github.com/kz-league/backend/internal/api/handler"
	"github.com/kz-league/backend/internal/api/middleware"
	"github.com/kz-league/backend/internal/config"
	"github.com/kz-league/backend/internal/permission"
	"github.com/kz-league/backend/internal/pkg/httpproblem"
	"github.com/kz-league/backend/internal/ws"
)

// SetupRoutes wires every HTTP path in the league's route table to its
// handler, gating writes behind the permission/ownership strategies, with a
// flat per-group route registration split across session auth and
// server-JWT auth.
func SetupRoutes(
	app *fiber.App,
	cfg *config.Config,
	authService auth.Service,
	servers server.Service,
	authHandler *handler.AuthHandler,
	playerHandler *handler.PlayerHandler,
	serverHandler *handler.ServerHandler,
	mapHandler *handler.MapHandler,
	recordHandler *handler.RecordHandler,
	banHandler *handler.BanHandler,
	pluginHandler *handler.PluginHandler,
	wsDeps ws.Deps,
	wsShutdown <-chan struct{},
) {
	secureCookies := cfg.App.Env == "production"

	app.Use(middleware.SessionMiddleware(authService, cfg.Auth.CookieDomain, secureCookies))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"name": cfg.App.Name, "status": "ok"})
	})

	requireServerJWT := middleware.RequireServerJWT(cfg.Auth.JWTSecret)
	requireServers := middleware.RequireStrategy(auth.HasPermissions{Required: permission.Servers}, "")
	requireMapPool := middleware.RequireStrategy(auth.HasPermissions{Required: permission.MapPool}, "")
	requireBans := middleware.RequireStrategy(auth.HasPermissions{Required: permission.PlayerBans}, "")
	requireOwnerOrServers := func(pathParam string) fiber.Handler {
		return middleware.RequireStrategy(auth.Either{
			A: auth.IsServerOwner{Servers: servers},
			B: auth.HasPermissions{Required: permission.Servers},
		}, pathParam)
	}

	authGroup := app.Group("/auth")
	authGroup.Get("/login", authHandler.Login)
	authGroup.Get("/callback", authHandler.Callback)
	authGroup.Get("/logout", authHandler.Logout)

	app.Post("/plugin/auth", authHandler.RefreshKey)

	players := app.Group("/players")
	players.Get("/", playerHandler.List)
	players.Get("/:identifier", playerHandler.Get)
	players.Get("/:identifier/preferences", playerHandler.Preferences)
	players.Put("/:steam_id/preferences", requireServerJWT, playerHandler.SetPreferences)

	servers_ := app.Group("/servers")
	servers_.Get("/", serverHandler.List)
	servers_.Get("/:identifier", serverHandler.Get)
	servers_.Post("/", requireServers, serverHandler.Create)
	servers_.Patch("/:id", requireOwnerOrServers("id"), serverHandler.Update)
	servers_.Put("/:id/key", requireOwnerOrServers("id"), serverHandler.RotateKey)
	servers_.Delete("/:id/key", requireServers, serverHandler.ClearKey)

	maps := app.Group("/maps")
	maps.Get("/", mapHandler.List)
	maps.Get("/:identifier", mapHandler.Get)
	maps.Put("/", requireMapPool, mapHandler.Put)
	maps.Patch("/:id", requireMapPool, mapHandler.Patch)

	records := app.Group("/records")
	records.Get("/", recordHandler.List)
	records.Get("/:id", recordHandler.Get)
	records.Get("/:id/replay", recordHandler.Replay)
	records.Post("/", requireServerJWT, recordHandler.Submit)

	bans := app.Group("/bans")
	bans.Get("/", requireBans, banHandler.List)
	bans.Post("/", requireBans, banHandler.Create)
	bans.Patch("/:id", requireBans, banHandler.Patch)
	bans.Delete("/:id", requireBans, banHandler.Delete)

	pluginVersions := app.Group("/plugin-versions")
	pluginVersions.Get("/:semver/binary", pluginHandler.Download)
	pluginVersions.Put("/:semver/binary", requireServers, pluginHandler.Upload)

	app.Use("/servers/ws", ws.RequireUpgradeAuth(cfg.Auth.JWTSecret))
	app.Get("/servers/ws", ws.Handler(wsDeps, wsShutdown))

	app.Use(func(c *fiber.Ctx) error {
		doc := httpproblem.NotFound("no route matches " + c.Path()).ToDocument(c.Path())
		return c.Status(fiber.StatusNotFound).
			Set(fiber.HeaderContentType, "application/problem+json").
			JSON(doc)
	})
}
