package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"portfolio/internal/content"
	"portfolio/internal/models"
	"portfolio/internal/repositories"
	"portfolio/internal/serialize"
	"portfolio/internal/services"
	"portfolio/internal/validation"
)

// BlogHandler handles HTTP requests for blog posts.
type BlogHandler struct {
	*CollectionHandler[models.BlogPost]
	service *services.CollectionService[models.BlogPost]
	logger  *zap.Logger
}

// NewBlogHandler creates a new BlogHandler. Listing shows only published
// posts unless ?published= says otherwise.
func NewBlogHandler(service *services.CollectionService[models.BlogPost], validator *validation.Validator, logger *zap.Logger) *BlogHandler {
	published := true
	return &BlogHandler{
		CollectionHandler: NewCollectionHandler(service, validator, logger, CollectionOptions{
			Path:         "/blog",
			DefaultLimit: 50,
			Filters:      []BoolFilter{{Name: "published", Default: &published}},
		}),
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the blog routes with the Fiber app.
func (h *BlogHandler) RegisterRoutes(router fiber.Router) {
	h.CollectionHandler.RegisterRoutes(router)
	router.Get("/blog/:slug", h.HandleGetBySlug)
}

// HandleGetBySlug retrieves the first post with the given slug, published or
// not. With ?render=html the markdown content is also returned as HTML.
func (h *BlogHandler) HandleGetBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	doc, err := h.service.FindOne(c.UserContext(), repositories.Filter{"slug": slug})
	if errors.Is(err, services.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Post not found"})
	}
	if err != nil {
		return respondError(c, h.logger, err)
	}

	view, err := serialize.Document(doc)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	if c.Query("render") == "html" {
		source := ""
		if doc.Data.Content != nil {
			source = *doc.Data.Content
		}
		html, err := content.RenderMarkdown(source)
		if err != nil {
			return respondError(c, h.logger, err)
		}
		view["content_html"] = html
	}
	return c.JSON(view)
}
