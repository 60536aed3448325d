package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/kz-league/backend/internal/pkg/httpproblem"
)

// writeProblem renders a *httpproblem.Error as application/problem+json.
func writeProblem(c *fiber.Ctx, err *httpproblem.Error) error {
	doc := err.ToDocument(c.Path())
	return c.Status(err.Status()).
		Set(fiber.HeaderContentType, "application/problem+json").
		JSON(doc)
}

// mapDomainError renders err as a problem document, using notFound when err
// matches one of the domain's not-found sentinels (via errors.Is), falling
// back to an internal error otherwise.
func mapDomainError(c *fiber.Ctx, err error, notFoundSentinels []error, notFoundDetail string) error {
	for _, sentinel := range notFoundSentinels {
		if errors.Is(err, sentinel) {
			return writeProblem(c, httpproblem.NotFound(notFoundDetail))
		}
	}
	return writeProblem(c, httpproblem.Internal("unexpected error", err))
}
