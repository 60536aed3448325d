package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/kz-league/backend/domain/mapcatalog"
	"github.com/kz-league/backend/domain/record"
	"github.com/kz-league/backend/internal/api/dto"
	"github.com/kz-league/backend/internal/api/middleware"
	"github.com/kz-league/backend/internal/pkg/httpproblem"
	"github.com/kz-league/backend/internal/pkg/logger"
	"github.com/kz-league/backend/internal/steamid"
)

// RecordHandler serves the record submission pipeline and the leaderboard
// read path.
type RecordHandler struct {
	records record.Service
	maps    mapcatalog.Service
	logger  *logger.Logger
}

// NewRecordHandler constructs the RecordHandler.
func NewRecordHandler(records record.Service, maps mapcatalog.Service, log *logger.Logger) *RecordHandler {
	return &RecordHandler{records: records, maps: maps, logger: log}
}

// List handles GET /records?top&player&server&map&course&mode&has_teleports&sort_by&sort_order&limit&offset.
func (h *RecordHandler) List(c *fiber.Ctx) error {
	filters := record.ListFilters{
		Top:       c.QueryBool("top", false),
		SortBy:    record.SortBy(c.Query("sort_by")),
		SortOrder: record.SortOrder(c.Query("sort_order")),
		Limit:     c.QueryInt("limit", 100),
		Offset:    c.QueryInt("offset", 0),
	}

	if raw := c.Query("player"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			if sid, err := steamid.FromUint64(id); err == nil {
				filters.PlayerID = &sid
			}
		}
	}
	if raw := c.Query("server"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 16); err == nil {
			serverID := uint16(id)
			filters.ServerID = &serverID
		}
	}
	if raw := c.Query("has_teleports"); raw != "" {
		v := c.QueryBool("has_teleports")
		filters.HasTeleports = &v
	}

	courseID, cerr := strconv.ParseUint(c.Query("course"), 10, 32)
	if cerr == nil {
		mode := mapcatalog.Mode(c.Query("mode", string(mapcatalog.Vanilla)))
		teleports := filters.HasTeleports == nil || *filters.HasTeleports
		f, ferr := h.maps.ResolveFilter(c.UserContext(), uint32(courseID), mode, teleports)
		if ferr != nil {
			return mapDomainError(c, ferr, []error{mapcatalog.ErrFilterNotFound}, "filter not found")
		}
		filters.FilterID = &f.ID
	}

	page, err := h.records.List(c.UserContext(), filters)
	if err != nil {
		return writeProblem(c, httpproblem.Internal("list records failed", err))
	}

	values := make([]dto.RecordResponse, 0, len(page.Values))
	for _, r := range page.Values {
		values = append(values, recordToDTO(r))
	}
	return c.JSON(dto.Page[dto.RecordResponse]{Total: page.Total, Values: values})
}

// Get handles GET /records/{id}.
func (h *RecordHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return writeProblem(c, httpproblem.Validation("invalid record id"))
	}
	r, rerr := h.records.Get(c.UserContext(), id)
	if rerr != nil {
		return mapDomainError(c, rerr, []error{record.ErrNotFound}, "record not found")
	}
	return c.JSON(recordToDTO(r))
}

// Replay handles GET /records/{id}/replay, a 503 stub until a replay store
// is added.
func (h *RecordHandler) Replay(c *fiber.Ctx) error {
	doc := (&httpproblem.Error{
		Kind:   httpproblem.KindUpstream,
		Title:  "replay storage not available",
		Detail: "replay retrieval is not implemented yet",
	}).ToDocument(c.Path())
	doc.Status = fiber.StatusServiceUnavailable
	return c.Status(fiber.StatusServiceUnavailable).
		Set(fiber.HeaderContentType, "application/problem+json").
		JSON(doc)
}

// Submit handles the server-authenticated record submission used by the WS
// façade's HTTP fallback and by integration tests.
func (h *RecordHandler) Submit(c *fiber.Ctx) error {
	claims, ok := middleware.ServerClaimsFromContext(c)
	if !ok {
		return writeProblem(c, httpproblem.Unauthorized("server token required"))
	}

	var req dto.SubmitRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return writeProblem(c, httpproblem.Validation("malformed request body"))
	}

	playerID, err := steamid.FromUint64(req.PlayerID)
	if err != nil {
		return writeProblem(c, httpproblem.Validation("invalid player_id"))
	}

	result, serr := h.records.Submit(c.UserContext(), record.NewRecord{
		FilterID:        req.FilterID,
		PlayerID:        playerID,
		ServerID:        claims.ServerID,
		PluginVersionID: claims.PluginVersionID,
		Styles:          record.Styles(req.Styles),
		Teleports:       req.Teleports,
		TimeSecs:        req.TimeSecs,
	})
	if serr != nil {
		return writeProblem(c, httpproblem.Internal("submit record failed", serr))
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SubmitRecordResponse{
		RecordID:  result.RecordID,
		NubPoints: result.PBData.NubPoints,
		NubRank:   result.PBData.NubRank,
		ProPoints: result.PBData.ProPoints,
		ProRank:   result.PBData.ProRank,
	})
}

func recordToDTO(r *record.Record) dto.RecordResponse {
	return dto.RecordResponse{
		ID:              r.ID,
		FilterID:        r.FilterID,
		PlayerID:        r.PlayerID.Uint64(),
		ServerID:        r.ServerID,
		Teleports:       r.Teleports,
		TimeSecs:        r.TimeSecs,
		PluginVersionID: r.PluginVersionID,
		SubmittedAt:     r.SubmittedAt,
	}
}
