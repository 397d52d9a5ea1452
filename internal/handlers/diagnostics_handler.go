package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"portfolio/internal/config"
	"portfolio/internal/repositories"
)

const (
	maxListedCollections = 10
	diagnosticsTimeout   = 5 * time.Second
)

// DiagnosticsHandler serves the liveness and database diagnostic routes.
type DiagnosticsHandler struct {
	db     repositories.Database
	cfg    config.DatabaseConfig
	logger *zap.Logger
}

// NewDiagnosticsHandler creates a new DiagnosticsHandler.
func NewDiagnosticsHandler(db repositories.Database, cfg config.DatabaseConfig, logger *zap.Logger) *DiagnosticsHandler {
	return &DiagnosticsHandler{db: db, cfg: cfg, logger: logger}
}

// RegisterRoutes registers the diagnostic routes with the Fiber app.
func (h *DiagnosticsHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleRoot)
	router.Get("/test", h.HandleTest)
}

// HandleRoot is the liveness check.
func (h *DiagnosticsHandler) HandleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Portfolio Backend is running"})
}

// HandleTest reports database connectivity. It always answers 200; failures
// are rendered into the body.
func (h *DiagnosticsHandler) HandleTest(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), diagnosticsTimeout)
	defer cancel()
	return c.JSON(h.diagnose(ctx))
}

func (h *DiagnosticsHandler) diagnose(ctx context.Context) (report fiber.Map) {
	report = fiber.Map{
		"backend":           "✅ Running",
		"database":          "❌ Not Available",
		"database_url":      "❌ Not Set",
		"database_name":     "❌ Not Set",
		"connection_status": "Not Connected",
		"collections":       []string{},
	}
	if h.cfg.URL != "" {
		report["database_url"] = "✅ Set"
	}
	if h.cfg.Name != "" {
		report["database_name"] = h.cfg.Name
	}

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("diagnostics panicked", zap.Any("panic", r))
			report["database"] = "❌ Error: " + truncate(fmt.Sprint(r), maxErrorExcerpt)
		}
	}()

	if !repositories.Available(h.db) {
		return report
	}
	report["driver"] = h.db.Driver()
	report["database"] = "✅ Available"

	names, err := h.db.CollectionNames(ctx)
	if err != nil {
		h.logger.Warn("listing collections failed", zap.Error(err))
		report["database"] = "⚠️ Connected but error: " + truncate(err.Error(), maxErrorExcerpt)
		return report
	}
	if len(names) > maxListedCollections {
		names = names[:maxListedCollections]
	}
	report["collections"] = names
	report["connection_status"] = "Connected"
	report["database"] = "✅ Connected & Working"
	return report
}
