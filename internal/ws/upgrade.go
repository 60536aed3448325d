package ws

import (
	"strings"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/kz-league/backend/domain/auth"
)

const localsClaims = "ws_server_claims"

// RequireUpgradeAuth validates the upgrade request's bearer server JWT and
// stashes the claims for the handler, mirroring
// internal/api/middleware.ServerJWTMiddleware but scoped to the
// upgrade-only route group: the server's access JWT is validated at the
// HTTP upgrade, before any WS frame is read.
func RequireUpgradeAuth(jwtSecret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		authHeader := c.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing or malformed bearer token")
		}

		claims, err := auth.DecodeServerToken(parts[1], jwtSecret)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired server token")
		}

		c.Locals(localsClaims, claims)
		return c.Next()
	}
}

// Handler returns the Fiber handler upgrading the connection and running
// Run for its lifetime. shutdown is the process-wide graceful-shutdown
// signal.
func Handler(deps Deps, shutdown <-chan struct{}) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		claims, ok := conn.Locals(localsClaims).(auth.ServerTokenClaims)
		if !ok {
			closeConn(conn, 1008, CloseUnauthorized)
			return
		}
		Run(conn, deps, claims.ServerID, shutdown)
	})
}
