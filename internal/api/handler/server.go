package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/kz-league/backend/domain/server"
	"github.com/kz-league/backend/internal/api/dto"
	"github.com/kz-league/backend/internal/identifier"
	"github.com/kz-league/backend/internal/pkg/httpproblem"
	"github.com/kz-league/backend/internal/pkg/logger"
	"github.com/kz-league/backend/internal/steamid"
)

// ServerHandler serves the approved-server registry.
type ServerHandler struct {
	servers server.Service
	logger  *logger.Logger
}

// NewServerHandler constructs the ServerHandler.
func NewServerHandler(servers server.Service, log *logger.Logger) *ServerHandler {
	return &ServerHandler{servers: servers, logger: log}
}

// List handles GET /servers?limit&offset.
func (h *ServerHandler) List(c *fiber.Ctx) error {
	filters := server.ListFilters{
		Limit:  c.QueryInt("limit", 100),
		Offset: c.QueryInt("offset", 0),
	}
	rows, total, err := h.servers.List(c.UserContext(), filters)
	if err != nil {
		return writeProblem(c, httpproblem.Internal("list servers failed", err))
	}
	values := make([]dto.ServerResponse, 0, len(rows))
	for _, s := range rows {
		values = append(values, serverToDTO(s, ""))
	}
	return c.JSON(dto.Page[dto.ServerResponse]{Total: total, Values: values})
}

// Get handles GET /servers/{id|name}.
func (h *ServerHandler) Get(c *fiber.Ctx) error {
	srv, err := h.resolve(c, "identifier")
	if err != nil {
		return mapDomainError(c, err, []error{server.ErrNotFound}, "server not found")
	}
	return c.JSON(serverToDTO(srv, ""))
}

// Create handles POST /servers (admin).
func (h *ServerHandler) Create(c *fiber.Ctx) error {
	var req dto.ApproveServerRequest
	if err := c.BodyParser(&req); err != nil {
		return writeProblem(c, httpproblem.Validation("malformed request body"))
	}

	ownerID, err := steamid.FromUint64(req.OwnerID)
	if err != nil {
		return writeProblem(c, httpproblem.Validation("invalid owner_id"))
	}

	srv, accessKey, err := h.servers.Approve(c.UserContext(), req.ID, req.Name, req.Host, req.Port, ownerID)
	if err != nil {
		return writeProblem(c, httpproblem.Conflict(err.Error()))
	}
	return c.Status(fiber.StatusCreated).JSON(serverToDTO(srv, accessKey))
}

// Update handles PATCH /servers/{id} (owner or admin).
func (h *ServerHandler) Update(c *fiber.Ctx) error {
	srv, err := h.resolve(c, "id")
	if err != nil {
		return mapDomainError(c, err, []error{server.ErrNotFound}, "server not found")
	}

	var req dto.UpdateServerRequest
	if err := c.BodyParser(&req); err != nil {
		return writeProblem(c, httpproblem.Validation("malformed request body"))
	}
	if req.Name != nil {
		srv.Name = *req.Name
	}
	if req.Host != nil {
		srv.Host = *req.Host
	}
	if req.Port != nil {
		srv.Port = *req.Port
	}
	if req.OwnerID != nil {
		newOwner, oerr := steamid.FromUint64(*req.OwnerID)
		if oerr != nil {
			return writeProblem(c, httpproblem.Validation("invalid owner_id"))
		}
		if err := h.servers.ReassignOwner(c.UserContext(), srv.ID, newOwner); err != nil {
			return writeProblem(c, httpproblem.Internal("reassign owner failed", err))
		}
		srv.OwnerID = newOwner
	}

	return c.JSON(serverToDTO(srv, ""))
}

// RotateKey handles PUT /servers/{id}/key (owner or admin).
func (h *ServerHandler) RotateKey(c *fiber.Ctx) error {
	id, ok := parseServerIDParam(c.Params("id"))
	if !ok {
		return writeProblem(c, httpproblem.Validation("invalid server id"))
	}
	accessKey, rerr := h.servers.RotateKey(c.UserContext(), id)
	if rerr != nil {
		return mapDomainError(c, rerr, []error{server.ErrNotFound}, "server not found")
	}
	return c.JSON(fiber.Map{"access_key": accessKey})
}

// ClearKey handles DELETE /servers/{id}/key (admin).
func (h *ServerHandler) ClearKey(c *fiber.Ctx) error {
	id, ok := parseServerIDParam(c.Params("id"))
	if !ok {
		return writeProblem(c, httpproblem.Validation("invalid server id"))
	}
	if cerr := h.servers.ClearKey(c.UserContext(), id); cerr != nil {
		return mapDomainError(c, cerr, []error{server.ErrNotFound}, "server not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ServerHandler) resolve(c *fiber.Ctx, paramName string) (*server.Server, error) {
	ident := identifier.ParseFromPathParam(c.Params(paramName))
	if id, ok := ident.ID(); ok {
		return h.servers.Get(c.UserContext(), uint16(id))
	}
	name, _ := ident.Name()
	return h.servers.GetByName(c.UserContext(), name)
}

func parseServerIDParam(raw string) (uint16, bool) {
	id, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		return 0, false
	}
	return uint16(id), true
}

func serverToDTO(s *server.Server, accessKey string) dto.ServerResponse {
	return dto.ServerResponse{
		ID:              s.ID,
		Name:            s.Name,
		Host:            s.Host,
		Port:            s.Port,
		OwnerID:         s.OwnerID.Uint64(),
		ApprovedAt:      s.ApprovedAt,
		LastConnectedAt: s.LastConnectedAt,
		AccessKey:       accessKey,
	}
}
