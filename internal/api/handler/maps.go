package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kz-league/backend/domain/mapcatalog"
	"github.com/kz-league/backend/internal/api/dto"
	"github.com/kz-league/backend/internal/identifier"
	"github.com/kz-league/backend/internal/pkg/httpproblem"
	"github.com/kz-league/backend/internal/pkg/logger"
)

// MapHandler serves the map catalogue's HTTP surface. Course/filter
// management is WS-only; it has no HTTP route.
type MapHandler struct {
	maps   mapcatalog.Service
	logger *logger.Logger
}

// NewMapHandler constructs the MapHandler.
func NewMapHandler(maps mapcatalog.Service, log *logger.Logger) *MapHandler {
	return &MapHandler{maps: maps, logger: log}
}

// List handles GET /maps?global_status&limit&offset.
func (h *MapHandler) List(c *fiber.Ctx) error {
	filters := mapcatalog.ListFilters{
		Limit:  c.QueryInt("limit", 100),
		Offset: c.QueryInt("offset", 0),
	}
	if raw := c.Query("global_status"); raw != "" {
		status := mapcatalog.GlobalStatus(raw)
		filters.GlobalStatus = &status
	}

	rows, total, err := h.maps.ListMaps(c.UserContext(), filters)
	if err != nil {
		return writeProblem(c, httpproblem.Internal("list maps failed", err))
	}
	values := make([]dto.MapResponse, 0, len(rows))
	for _, m := range rows {
		values = append(values, mapToDTO(m))
	}
	return c.JSON(dto.Page[dto.MapResponse]{Total: total, Values: values})
}

// Get handles GET /maps/{id|name}.
func (h *MapHandler) Get(c *fiber.Ctx) error {
	ident := identifier.ParseFromPathParam(c.Params("identifier"))

	var m *mapcatalog.Map
	var err error
	if id, ok := ident.ID(); ok {
		m, err = h.maps.GetMap(c.UserContext(), uint32(id))
	} else {
		name, _ := ident.Name()
		m, err = h.maps.GetMapByName(c.UserContext(), name)
	}
	if err != nil {
		return mapDomainError(c, err, []error{mapcatalog.ErrMapNotFound}, "map not found")
	}
	return c.JSON(mapToDTO(m))
}

// Put handles PUT /maps (maps permission): create-or-replace by name.
func (h *MapHandler) Put(c *fiber.Ctx) error {
	var req dto.PutMapRequest
	if err := c.BodyParser(&req); err != nil {
		return writeProblem(c, httpproblem.Validation("malformed request body"))
	}

	m := &mapcatalog.Map{
		Name:         req.Name,
		GlobalStatus: mapcatalog.GlobalStatus(req.GlobalStatus),
		WorkshopID:   req.WorkshopID,
		Checksum:     req.Checksum,
		Mappers:      req.Mappers,
		Description:  req.Description,
	}

	existing, err := h.maps.GetMapByName(c.UserContext(), req.Name)
	switch {
	case err == nil:
		m.ID = existing.ID
		if uerr := h.maps.UpdateMap(c.UserContext(), m); uerr != nil {
			return writeProblem(c, httpproblem.Validation(uerr.Error()))
		}
		return c.JSON(mapToDTO(m))
	case err == mapcatalog.ErrMapNotFound:
		if cerr := h.maps.CreateMap(c.UserContext(), m); cerr != nil {
			return writeProblem(c, httpproblem.Validation(cerr.Error()))
		}
		return c.Status(fiber.StatusCreated).JSON(mapToDTO(m))
	default:
		return writeProblem(c, httpproblem.Internal("put map failed", err))
	}
}

// Patch handles PATCH /maps/{id} (maps permission).
func (h *MapHandler) Patch(c *fiber.Ctx) error {
	ident := identifier.ParseFromPathParam(c.Params("id"))
	id, ok := ident.ID()
	if !ok {
		return writeProblem(c, httpproblem.Validation("invalid map id"))
	}

	m, err := h.maps.GetMap(c.UserContext(), uint32(id))
	if err != nil {
		return mapDomainError(c, err, []error{mapcatalog.ErrMapNotFound}, "map not found")
	}

	var req dto.PutMapRequest
	if err := c.BodyParser(&req); err != nil {
		return writeProblem(c, httpproblem.Validation("malformed request body"))
	}
	if req.Name != "" {
		m.Name = req.Name
	}
	if req.GlobalStatus != "" {
		m.GlobalStatus = mapcatalog.GlobalStatus(req.GlobalStatus)
	}
	if req.WorkshopID != 0 {
		m.WorkshopID = req.WorkshopID
	}
	if req.Checksum != "" {
		m.Checksum = req.Checksum
	}
	if len(req.Mappers) > 0 {
		m.Mappers = req.Mappers
	}
	if req.Description != "" {
		m.Description = req.Description
	}

	if err := h.maps.UpdateMap(c.UserContext(), m); err != nil {
		return writeProblem(c, httpproblem.Validation(err.Error()))
	}
	return c.JSON(mapToDTO(m))
}

func mapToDTO(m *mapcatalog.Map) dto.MapResponse {
	return dto.MapResponse{
		ID:           m.ID,
		Name:         m.Name,
		GlobalStatus: string(m.GlobalStatus),
		WorkshopID:   m.WorkshopID,
		Mappers:      m.Mappers,
		Description:  m.Description,
	}
}
