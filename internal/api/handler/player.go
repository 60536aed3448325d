package handler

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/kz-league/backend/domain/player"
	"github.com/kz-league/backend/internal/api/dto"
	"github.com/kz-league/backend/internal/api/middleware"
	"github.com/kz-league/backend/internal/identifier"
	"github.com/kz-league/backend/internal/permission"
	"github.com/kz-league/backend/internal/pkg/httpproblem"
	"github.com/kz-league/backend/internal/pkg/logger"
	"github.com/kz-league/backend/internal/steamid"
)

// PlayerHandler serves the player registry's read endpoints and the
// server-authenticated preferences write.
type PlayerHandler struct {
	players player.Service
	logger  *logger.Logger
}

// NewPlayerHandler constructs the PlayerHandler.
func NewPlayerHandler(players player.Service, log *logger.Logger) *PlayerHandler {
	return &PlayerHandler{players: players, logger: log}
}

// List handles GET /players?limit&offset.
func (h *PlayerHandler) List(c *fiber.Ctx) error {
	filters := player.ListFilters{
		Limit:  c.QueryInt("limit", 100),
		Offset: c.QueryInt("offset", 0),
	}

	rows, total, err := h.players.List(c.UserContext(), filters)
	if err != nil {
		return writeProblem(c, httpproblem.Internal("list players failed", err))
	}

	includeIP := sessionHasPermission(c, permission.PlayerBans)
	values := make([]dto.PlayerResponse, 0, len(rows))
	for _, p := range rows {
		values = append(values, playerToDTO(p, includeIP))
	}
	return c.JSON(dto.Page[dto.PlayerResponse]{Total: total, Values: values})
}

// Get handles GET /players/{id|name}.
func (h *PlayerHandler) Get(c *fiber.Ctx) error {
	ident := identifier.ParseFromPathParam(c.Params("identifier"))

	var p *player.Player
	var err error
	if id, ok := ident.ID(); ok {
		sid, sErr := steamid.FromUint64(id)
		if sErr != nil {
			return writeProblem(c, httpproblem.Validation("invalid steam id"))
		}
		p, err = h.players.Get(c.UserContext(), sid)
	} else {
		name, _ := ident.Name()
		p, err = h.players.GetByName(c.UserContext(), name)
	}
	if err != nil {
		return mapDomainError(c, err, []error{player.ErrNotFound}, "player not found")
	}

	includeIP := sessionHasPermission(c, permission.PlayerBans)
	return c.JSON(playerToDTO(p, includeIP))
}

// errInvalidSteamID marks a path parameter that failed to resolve to a
// SteamID, distinct from player.ErrNotFound so callers render 400 not 404.
var errInvalidSteamID = errors.New("handler: invalid steam id")

// Preferences handles GET /players/{id|name}/preferences.
func (h *PlayerHandler) Preferences(c *fiber.Ctx) error {
	sid, resolveErr := resolveSteamIDParam(c.UserContext(), h.players, c.Params("identifier"))
	if resolveErr != nil {
		if errors.Is(resolveErr, errInvalidSteamID) {
			return writeProblem(c, httpproblem.Validation("invalid steam id"))
		}
		return mapDomainError(c, resolveErr, []error{player.ErrNotFound}, "player not found")
	}

	raw, perr := h.players.Preferences(c.UserContext(), sid)
	if perr != nil {
		return mapDomainError(c, perr, []error{player.ErrNotFound}, "player not found")
	}

	var decoded any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return c.JSON(dto.PreferencesResponse{Preferences: decoded})
}

// SetPreferences handles PUT /players/{steam_id}/preferences (server JWT).
func (h *PlayerHandler) SetPreferences(c *fiber.Ctx) error {
	if _, ok := middleware.ServerClaimsFromContext(c); !ok {
		return writeProblem(c, httpproblem.Unauthorized("server token required"))
	}

	parsed, err := strconv.ParseUint(c.Params("steam_id"), 10, 64)
	if err != nil {
		return writeProblem(c, httpproblem.Validation("invalid steam id"))
	}
	sid, err := steamid.FromUint64(parsed)
	if err != nil {
		return writeProblem(c, httpproblem.Validation("invalid steam id"))
	}

	body := c.Body()
	if err := h.players.SetPreferences(c.UserContext(), sid, body); err != nil {
		return mapDomainError(c, err, []error{player.ErrNotFound}, "player not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func playerToDTO(p *player.Player, includeIP bool) dto.PlayerResponse {
	out := dto.PlayerResponse{
		ID:            p.ID.Uint64(),
		Name:          p.Name,
		FirstJoinedAt: p.FirstJoinedAt,
		LastJoinedAt:  p.LastJoinedAt,
	}
	if includeIP {
		out.IPAddress = p.IPAddress
	}
	return out
}

func sessionHasPermission(c *fiber.Ctx, bit permission.Set) bool {
	session := middleware.SessionFromContext(c)
	return session != nil && session.User.Permissions.Has(bit)
}

// resolveSteamIDParam resolves an {id|name} path param to a SteamID,
// consulting the player service for the name case.
func resolveSteamIDParam(ctx context.Context, players player.Service, raw string) (steamid.SteamID, error) {
	ident := identifier.ParseFromPathParam(raw)
	if id, ok := ident.ID(); ok {
		sid, err := steamid.FromUint64(id)
		if err != nil {
			return 0, errInvalidSteamID
		}
		return sid, nil
	}
	name, _ := ident.Name()
	p, err := players.GetByName(ctx, name)
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}
