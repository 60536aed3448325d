package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/kz-league/backend/domain/ban"
	"github.com/kz-league/backend/internal/api/dto"
	"github.com/kz-league/backend/internal/api/middleware"
	"github.com/kz-league/backend/internal/pkg/httpproblem"
	"github.com/kz-league/backend/internal/pkg/logger"
	"github.com/kz-league/backend/internal/steamid"
)

// BanHandler serves the player-ban subsystem, gated end-to-end by the
// PlayerBans permission.
type BanHandler struct {
	bans   ban.Service
	logger *logger.Logger
}

// NewBanHandler constructs the BanHandler.
func NewBanHandler(bans ban.Service, log *logger.Logger) *BanHandler {
	return &BanHandler{bans: bans, logger: log}
}

// List handles GET /bans.
func (h *BanHandler) List(c *fiber.Ctx) error {
	filters := ban.ListFilters{
		Limit:  c.QueryInt("limit", 100),
		Offset: c.QueryInt("offset", 0),
	}
	if raw := c.QueryInt("player", 0); raw != 0 {
		if sid, err := steamid.FromUint64(uint64(raw)); err == nil {
			filters.PlayerID = &sid
		}
	}

	rows, total, err := h.bans.List(c.UserContext(), filters)
	if err != nil {
		return writeProblem(c, httpproblem.Internal("list bans failed", err))
	}
	values := make([]dto.BanResponse, 0, len(rows))
	for _, b := range rows {
		values = append(values, banToDTO(b))
	}
	return c.JSON(dto.Page[dto.BanResponse]{Total: total, Values: values})
}

// Create handles POST /bans (bans permission).
func (h *BanHandler) Create(c *fiber.Ctx) error {
	session := middleware.SessionFromContext(c)
	if session == nil {
		return writeProblem(c, httpproblem.Unauthorized("authentication required"))
	}

	var req dto.CreateBanRequest
	if err := c.BodyParser(&req); err != nil {
		return writeProblem(c, httpproblem.Validation("malformed request body"))
	}

	playerID, err := steamid.FromUint64(req.PlayerID)
	if err != nil {
		return writeProblem(c, httpproblem.Validation("invalid player_id"))
	}

	b, berr := h.bans.Create(c.UserContext(), playerID, session.User.SteamID, req.Reason, req.ExpiresAt)
	if berr != nil {
		return writeProblem(c, httpproblem.Internal("create ban failed", berr))
	}
	return c.Status(fiber.StatusCreated).JSON(banToDTO(b))
}

// Patch handles PATCH /bans/{id} (bans permission).
func (h *BanHandler) Patch(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return writeProblem(c, httpproblem.Validation("invalid ban id"))
	}

	b, gerr := h.bans.Get(c.UserContext(), id)
	if gerr != nil {
		return mapDomainError(c, gerr, []error{ban.ErrNotFound}, "ban not found")
	}

	var req dto.UpdateBanRequest
	if perr := c.BodyParser(&req); perr != nil {
		return writeProblem(c, httpproblem.Validation("malformed request body"))
	}
	if req.Reason != nil {
		b.Reason = *req.Reason
	}
	if req.ExpiresAt != nil {
		b.ExpiresAt = req.ExpiresAt
	}

	if uerr := h.bans.Update(c.UserContext(), b); uerr != nil {
		return writeProblem(c, httpproblem.Internal("update ban failed", uerr))
	}
	return c.JSON(banToDTO(b))
}

// Delete handles DELETE /bans/{id} (bans permission).
func (h *BanHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return writeProblem(c, httpproblem.Validation("invalid ban id"))
	}
	if derr := h.bans.Delete(c.UserContext(), id); derr != nil {
		return mapDomainError(c, derr, []error{ban.ErrNotFound}, "ban not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func banToDTO(b *ban.Ban) dto.BanResponse {
	return dto.BanResponse{
		ID:        b.ID,
		PlayerID:  b.PlayerID.Uint64(),
		BannedBy:  b.BannedBy.Uint64(),
		Reason:    b.Reason,
		ExpiresAt: b.ExpiresAt,
		CreatedAt: b.CreatedAt,
	}
}
