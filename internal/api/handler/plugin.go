package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kz-league/backend/domain/plugin"
	"github.com/kz-league/backend/internal/pkg/httpproblem"
	"github.com/kz-league/backend/internal/pkg/logger"
)

// PluginHandler serves the plugin binary artifact upload/download path game
// servers and administrators use.
type PluginHandler struct {
	artifacts plugin.ArtifactService
	logger    *logger.Logger
}

// NewPluginHandler constructs the PluginHandler.
func NewPluginHandler(artifacts plugin.ArtifactService, log *logger.Logger) *PluginHandler {
	return &PluginHandler{artifacts: artifacts, logger: log}
}

// Download handles GET /plugin-versions/{semver}/binary: redirects to the
// stored artifact's public URL.
func (h *PluginHandler) Download(c *fiber.Ctx) error {
	semver := c.Params("semver")
	url, ok, err := h.artifacts.DownloadURL(c.UserContext(), semver)
	if err != nil {
		return writeProblem(c, httpproblem.Internal("resolve plugin artifact failed", err))
	}
	if !ok {
		return writeProblem(c, httpproblem.NotFound("no binary artifact stored for "+semver))
	}
	return c.Redirect(url, fiber.StatusFound)
}

// Upload handles PUT /plugin-versions/{semver}/binary (servers permission):
// stores the plugin binary artifact, replacing any prior upload for semver.
func (h *PluginHandler) Upload(c *fiber.Ctx) error {
	semver := c.Params("semver")

	fh, err := c.FormFile("file")
	if err != nil {
		return writeProblem(c, httpproblem.Validation("missing file field"))
	}
	f, err := fh.Open()
	if err != nil {
		return writeProblem(c, httpproblem.Internal("open upload failed", err))
	}
	defer f.Close()

	url, err := h.artifacts.Upload(c.UserContext(), semver, f, fh.Size, fh.Header.Get("Content-Type"))
	if err != nil {
		return writeProblem(c, httpproblem.Internal("upload plugin artifact failed", err))
	}
	return c.JSON(fiber.Map{"url": url})
}
