package handler

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/kz-league/backend/domain/auth"
	"github.com/kz-league/backend/internal/api/dto"
	"github.com/kz-league/backend/internal/api/middleware"
	"github.com/kz-league/backend/internal/pkg/httpproblem"
	"github.com/kz-league/backend/internal/pkg/logger"
)

// AuthHandler serves the Steam OpenID login round trip, session
// invalidation, and the server plugin-auth key exchange.
type AuthHandler struct {
	authService  auth.Service
	logger       *logger.Logger
	cookieDomain string
	secureCookie bool
}

// NewAuthHandler constructs the AuthHandler.
func NewAuthHandler(authService auth.Service, log *logger.Logger, cookieDomain string, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, logger: log, cookieDomain: cookieDomain, secureCookie: secureCookie}
}

// Login handles GET /auth/login?return_to=<url>.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	returnTo := c.Query("return_to", "/")
	return c.Redirect(h.authService.LoginURL(returnTo), fiber.StatusFound)
}

// Callback handles GET /auth/callback?<openid params>.
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	log := h.logger.WithTrace(c)

	params := make(map[string][]string, len(c.Queries()))
	c.Request().URI().QueryArgs().VisitAll(func(key, value []byte) {
		params[string(key)] = append(params[string(key)], string(value))
	})

	steamID, err := h.authService.VerifyOpenID(c.UserContext(), url.Values(params))
	if err != nil {
		log.Warn().Err(err).Msg("steam openid verification failed")
		return writeProblem(c, httpproblem.Unauthorized("steam openid verification failed"))
	}

	clientIP := c.IP()
	session, err := h.authService.Login(c.UserContext(), steamID, steamID.String(), &clientIP)
	if err != nil {
		return writeProblem(c, httpproblem.Internal("login failed", err))
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    session.ID.String(),
		Expires:  session.ExpiresAt,
		Domain:   h.cookieDomain,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: "Lax",
	})

	redirectTo := c.Query("redirect_to", "/")
	return c.Redirect(redirectTo, fiber.StatusFound)
}

// Logout handles GET /auth/logout?all=<bool>.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	session := middleware.SessionFromContext(c)
	if session == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}

	all := c.QueryBool("all", false)
	if err := h.authService.Logout(c.UserContext(), session.ID, all); err != nil {
		return writeProblem(c, httpproblem.Internal("logout failed", err))
	}

	c.ClearCookie(auth.CookieName)
	return c.SendStatus(fiber.StatusNoContent)
}

// RefreshKey handles POST /plugin/auth.
func (h *AuthHandler) RefreshKey(c *fiber.Ctx) error {
	var req dto.RefreshKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return writeProblem(c, httpproblem.Validation("malformed request body"))
	}

	token, err := h.authService.RefreshKey(c.UserContext(), req.Key, req.PluginVersion)
	if err != nil {
		return writeProblem(c, httpproblem.Unauthorized(err.Error()))
	}

	return c.JSON(dto.RefreshKeyResponse{Token: token})
}
