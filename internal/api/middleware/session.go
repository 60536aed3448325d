// Package middleware implements the HTTP façade's cross-cutting concerns:
// browser/server session extraction, authorization-strategy gating, and
// problem+json error rendering, extending the request via Fiber's Locals.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kz-league/backend/domain/auth"
	"github.com/kz-league/backend/internal/pkg/httpproblem"
	"github.com/kz-league/backend/internal/pkg/logger"
)

const (
	localsSession    = "session"
	localsServerJWT  = "server_claims"
)

// SessionMiddleware extracts the kz-auth cookie, resolves it to a live
// Session via authService, and renews the cookie's expiry. Missing or
// invalid cookies are not rejected here -- RequireStrategy is what turns
// "no session" into a 401/403; this middleware only populates the request
// extension when a session is present.
func SessionMiddleware(authService auth.Service, cookieDomain string, secure bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cookieValue := c.Cookies(auth.CookieName)
		if cookieValue == "" {
			return c.Next()
		}

		session, err := authService.ExtractSession(c.Context(), cookieValue)
		if err != nil {
			return c.Next()
		}

		c.Locals(localsSession, session)
		c.Cookie(&fiber.Cookie{
			Name:     auth.CookieName,
			Value:    session.ID.String(),
			Expires:  session.ExpiresAt,
			Domain:   cookieDomain,
			HTTPOnly: true,
			Secure:   secure,
			SameSite: "Lax",
		})
		return c.Next()
	}
}

// ServerJWTMiddleware extracts and validates the Bearer server access token
// on WS-upgrade and server-only HTTP routes.
func ServerJWTMiddleware(jwtSecret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return writeProblem(c, httpproblem.Unauthorized("missing or malformed bearer token"))
		}

		claims, err := auth.DecodeServerToken(parts[1], jwtSecret)
		if err != nil {
			return writeProblem(c, httpproblem.Unauthorized("invalid or expired server token"))
		}

		c.Locals(localsServerJWT, claims)
		return c.Next()
	}
}

// SessionFromContext returns the Session attached by SessionMiddleware, if
// any.
func SessionFromContext(c *fiber.Ctx) *auth.Session {
	session, _ := c.Locals(localsSession).(*auth.Session)
	return session
}

// ServerClaimsFromContext returns the server JWT claims attached by
// ServerJWTMiddleware, if any.
func ServerClaimsFromContext(c *fiber.Ctx) (auth.ServerTokenClaims, bool) {
	claims, ok := c.Locals(localsServerJWT).(auth.ServerTokenClaims)
	return claims, ok
}

// RequireStrategy gates a route behind an authorization Strategy, resolving
// pathParam (if non-empty) from the named route parameter.
func RequireStrategy(strategy auth.Strategy, pathParamName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := SessionFromContext(c)
		if session == nil {
			return writeProblem(c, httpproblem.Unauthorized("authentication required"))
		}

		pathParam := ""
		if pathParamName != "" {
			pathParam = c.Params(pathParamName)
		}

		allowed, err := strategy.Allow(c.Context(), session, pathParam)
		if err != nil {
			return writeProblem(c, httpproblem.Internal("authorization check failed", err))
		}
		if !allowed {
			return writeProblem(c, httpproblem.Forbidden("insufficient permissions", nil, session.User.Permissions.Names()))
		}
		return c.Next()
	}
}

// RequireServerJWT gates a route behind a valid Bearer server access token.
func RequireServerJWT(jwtSecret []byte) fiber.Handler {
	return ServerJWTMiddleware(jwtSecret)
}

// writeProblem renders err as application/problem+json.
func writeProblem(c *fiber.Ctx, err *httpproblem.Error) error {
	doc := err.ToDocument(c.Path())
	return c.Status(err.Status()).
		Set(fiber.HeaderContentType, "application/problem+json").
		JSON(doc)
}

// RequestLogger logs every request except those to "/" with
// traceID/clientIP, mirroring the
// teacher's internal/server.requestLogger but delegated here so the
// ambient logging concern lives alongside the other façade middleware.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		tracedLog := log.WithTrace(c)
		if c.Path() != "/" {
			tracedLog.Info().
				Str("method", c.Method()).
				Str("path", c.Path()).
				Int("status", c.Response().StatusCode()).
				Msg("HTTP request")
		}
		return err
	}
}
