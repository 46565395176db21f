package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/resource-store/internal/config"
	"github.com/resource-store/internal/delivery/http/handler"
	"github.com/resource-store/internal/delivery/http/middleware"
	"github.com/resource-store/internal/metrics"
	"github.com/resource-store/internal/pkg/errors"
	"github.com/resource-store/internal/pkg/utils"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	resourceHandler *handler.ResourceHandler
	ingestHandler   *handler.IngestHandler
	healthHandler   *handler.HealthHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	resourceHandler *handler.ResourceHandler,
	ingestHandler *handler.IngestHandler,
	healthHandler *handler.HealthHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Resource Store",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    8 * 1024 * 1024,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:             app,
		config:          cfg,
		logger:          logger,
		resourceHandler: resourceHandler,
		ingestHandler:   ingestHandler,
		healthHandler:   healthHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	if s.config.Metrics.Enabled {
		s.app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	}

	api := s.app.Group("/api/v1")

	// Health check
	api.Get("/health", s.healthHandler.Health)

	// Resources
	resources := api.Group("/resources")
	resources.Get("/", s.resourceHandler.List)
	resources.Get("/search", s.resourceHandler.Search)
	resources.Get("/count", s.resourceHandler.Count)
	resources.Post("/nearby", s.resourceHandler.Nearby)
	resources.Post("/", s.resourceHandler.Create)
	resources.Put("/batch", s.resourceHandler.SaveAll)
	resources.Post("/delete", s.resourceHandler.DeleteByIDs)
	resources.Delete("/", s.resourceHandler.DeleteAll)
	resources.Get("/:id", s.resourceHandler.Get)
	resources.Get("/:id/exists", s.resourceHandler.Exists)
	resources.Patch("/:id", s.resourceHandler.Update)
	resources.Delete("/:id", s.resourceHandler.Delete)

	api.Get("/resource-types", s.resourceHandler.ResourceTypes)

	// Ingestion
	if s.ingestHandler != nil {
		ingest := api.Group("/ingest")
		ingest.Post("/places", s.ingestHandler.IngestPlaces)
		ingest.Post("/sync", s.ingestHandler.Sync)
	}
}

// App exposes the fiber app, mostly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - кастомный обработчик ошибок
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if e, ok := err.(*fiber.Error); ok {
			if e.Code >= 500 {
				logger.Error("HTTP Error", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(e.Code).JSON(utils.ErrorResponse{
				Error: errors.New(codeForStatus(e.Code), e.Message, e.Code),
			})
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return utils.SendError(c, err)
	}
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "REQUEST_TOO_LARGE"
	case fiber.StatusBadRequest:
		return "INVALID_REQUEST"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}
