package server

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/kz-league/backend/internal/config"
	"github.com/kz-league/backend/internal/middleware"
	"github.com/kz-league/backend/internal/pkg/httpproblem"
	"github.com/kz-league/backend/internal/pkg/logger"
)

// NewFiberApp creates and configures a new Fiber app
func NewFiberApp(cfg *config.Config, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		ServerHeader:          cfg.App.Name,
		DisableStartupMessage: false,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           60 * time.Second,
		BodyLimit:             3 * 1024 * 1024,
		// StreamRequestBody:     true,            // Stream request body to reduce memory usage for large uploads
		ErrorHandler: customErrorHandler(log),
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	// Recover middleware - must be first
	app.Use(recover.New(recover.Config{
		EnableStackTrace: cfg.App.Env == "development",
	}))

	// Trace middleware - add traceID and clientIP to all requests
	app.Use(middleware.TraceMiddleware())

	// Request logging middleware
	app.Use(requestLogger(log))

	// CORS middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Compression middleware
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	return app
}

// requestLogger logs every HTTP request except /health with traceID and clientIP
func requestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Process request
		err := c.Next()

		// Log request with trace info
		duration := time.Since(start)
		tracedLog := log.WithTrace(c)

		if c.Path() != "/health" {
			tracedLog.Info().
				Str("method", c.Method()).
				Str("path", c.Path()).
				Int("status", c.Response().StatusCode()).
				Dur("duration", duration).
				Str("user_agent", c.Get("User-Agent")).
				Msg("HTTP request")
		}

		return err
	}
}

// customErrorHandler handles Fiber errors with traceID and clientIP,
// rendering every response as application/problem+json.
func customErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var problem *httpproblem.Error

		switch e := err.(type) {
		case *httpproblem.Error:
			problem = e
		case *fiber.Error:
			problem = fiberErrorToProblem(e)
		default:
			problem = httpproblem.Internal("an unexpected error occurred", err)
		}

		tracedLog := log.WithTrace(c)
		tracedLog.Error().
			Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", problem.Status()).
			Msg("Request error")

		doc := problem.ToDocument(c.Path())
		return c.Status(problem.Status()).
			Set(fiber.HeaderContentType, "application/problem+json").
			JSON(doc)
	}
}

func fiberErrorToProblem(e *fiber.Error) *httpproblem.Error {
	switch e.Code {
	case fiber.StatusNotFound:
		return httpproblem.NotFound(e.Message)
	case fiber.StatusUnauthorized:
		return httpproblem.Unauthorized(e.Message)
	case fiber.StatusForbidden:
		return httpproblem.Forbidden(e.Message, nil, nil)
	case fiber.StatusConflict:
		return httpproblem.Conflict(e.Message)
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return httpproblem.Validation(e.Message)
	default:
		return httpproblem.Internal(e.Message, e)
	}
}
