// Package server assembles the HTTP API.
package server

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"portfolio/internal/config"
	"portfolio/internal/handlers"
	"portfolio/internal/middleware"
	"portfolio/internal/models"
	"portfolio/internal/repositories"
	"portfolio/internal/services"
	"portfolio/internal/validation"
)

// Dependencies are the process-wide collaborators the API is built from.
type Dependencies struct {
	Config    *config.Config
	Database  repositories.Database
	GitHub    services.GitHubClient
	Publisher services.EventPublisher // optional
	Logger    *zap.Logger
	Registry  *prometheus.Registry // optional; a fresh registry is used when nil
}

// New builds the fiber app with every route registered.
func New(deps Dependencies) (*fiber.App, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	timeout := deps.Config.Database.Timeout
	validator := validation.New()

	projects, err := newCollectionService[models.Project](deps.Database, timeout, logger)
	if err != nil {
		return nil, err
	}
	testimonials, err := newCollectionService[models.Testimonial](deps.Database, timeout, logger)
	if err != nil {
		return nil, err
	}
	guestbook, err := newCollectionService[models.GuestbookEntry](deps.Database, timeout, logger)
	if err != nil {
		return nil, err
	}
	bucket, err := newCollectionService[models.BucketItem](deps.Database, timeout, logger)
	if err != nil {
		return nil, err
	}
	uses, err := newCollectionService[models.UseItem](deps.Database, timeout, logger)
	if err != nil {
		return nil, err
	}
	blog, err := newCollectionService[models.BlogPost](deps.Database, timeout, logger)
	if err != nil {
		return nil, err
	}
	messages, err := newCollectionService[models.ContactMessage](deps.Database, timeout, logger)
	if err != nil {
		return nil, err
	}

	contactService := services.NewContactService(messages, deps.Publisher, logger)
	githubService := services.NewGitHubService(deps.GitHub, logger)

	app := fiber.New(fiber.Config{
		AppName:      "Portfolio API",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: handlers.ErrorHandler(logger),
		UnescapePath: true, // route params such as blog slugs arrive decoded
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(logger))
	app.Use(middleware.NewMetrics(registry).Handler())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS,HEAD",
		AllowHeaders: "*",
	}))

	handlers.NewDiagnosticsHandler(deps.Database, deps.Config.Database, logger).RegisterRoutes(app)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := app.Group("/api")
	handlers.NewCollectionHandler(projects, validator, logger, handlers.CollectionOptions{
		Path:         "/projects",
		DefaultLimit: 50,
		Filters:      []handlers.BoolFilter{{Name: "featured"}},
	}).RegisterRoutes(api)
	handlers.NewCollectionHandler(testimonials, validator, logger, handlers.CollectionOptions{
		Path:         "/testimonials",
		DefaultLimit: 50,
	}).RegisterRoutes(api)
	handlers.NewCollectionHandler(guestbook, validator, logger, handlers.CollectionOptions{
		Path:         "/guestbook",
		DefaultLimit: 100,
	}).RegisterRoutes(api)
	handlers.NewCollectionHandler(bucket, validator, logger, handlers.CollectionOptions{
		Path:         "/bucket",
		DefaultLimit: 100,
	}).RegisterRoutes(api)
	handlers.NewCollectionHandler(uses, validator, logger, handlers.CollectionOptions{
		Path:         "/uses",
		DefaultLimit: 200,
	}).RegisterRoutes(api)
	handlers.NewBlogHandler(blog, validator, logger).RegisterRoutes(api)
	handlers.NewContactHandler(contactService, validator, logger).RegisterRoutes(api)
	handlers.NewGitHubHandler(githubService, logger).RegisterRoutes(api)

	return app, nil
}

func newCollectionService[T models.Entity](db repositories.Database, timeout time.Duration, logger *zap.Logger) (*services.CollectionService[T], error) {
	repo, err := repositories.NewRepository[T](db)
	if err != nil {
		return nil, fmt.Errorf("init %s repository: %w", models.CollectionOf[T](), err)
	}
	return services.NewCollectionService[T](repo, timeout, logger), nil
}
