package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"portfolio/internal/models"
	"portfolio/internal/repositories"
	"portfolio/internal/serialize"
	"portfolio/internal/services"
	"portfolio/internal/validation"
)

// BoolFilter is a boolean query parameter that restricts a list to documents
// whose field of the same name equals the given value.
type BoolFilter struct {
	Name    string
	Default *bool // applied when the parameter is absent
}

// CollectionOptions configures the routes of one collection.
type CollectionOptions struct {
	Path         string
	DefaultLimit int // also the ceiling for ?limit=
	Filters      []BoolFilter
}

// CollectionHandler serves list and create for one entity type.
type CollectionHandler[T models.Entity] struct {
	service   *services.CollectionService[T]
	validator *validation.Validator
	logger    *zap.Logger
	opts      CollectionOptions
}

// NewCollectionHandler creates a new CollectionHandler.
func NewCollectionHandler[T models.Entity](service *services.CollectionService[T], validator *validation.Validator, logger *zap.Logger, opts CollectionOptions) *CollectionHandler[T] {
	return &CollectionHandler[T]{
		service:   service,
		validator: validator,
		logger:    logger,
		opts:      opts,
	}
}

// RegisterRoutes registers the collection routes with the Fiber app.
func (h *CollectionHandler[T]) RegisterRoutes(router fiber.Router) {
	routes := router.Group(h.opts.Path)
	routes.Get("/", h.HandleList)
	routes.Post("/", h.HandleCreate)
}

// HandleList retrieves documents, optionally filtered and limited.
func (h *CollectionHandler[T]) HandleList(c *fiber.Ctx) error {
	limit, err := queryLimit(c, h.opts.DefaultLimit, h.opts.DefaultLimit)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	filter, err := h.filter(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	docs, err := h.service.List(c.UserContext(), filter, limit)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	views, err := serialize.Documents(docs)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(views)
}

// HandleCreate validates the body and stores a new document.
func (h *CollectionHandler[T]) HandleCreate(c *fiber.Ctx) error {
	entity, err := validation.Decode[T](h.validator, c.Body())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	id, err := h.service.Create(c.UserContext(), &entity)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"id": id})
}

func (h *CollectionHandler[T]) filter(c *fiber.Ctx) (repositories.Filter, error) {
	filter := repositories.Filter{}
	for _, f := range h.opts.Filters {
		value, ok, err := queryBool(c, f.Name)
		if err != nil {
			return nil, err
		}
		switch {
		case ok:
			filter[f.Name] = value
		case f.Default != nil:
			filter[f.Name] = *f.Default
		}
	}
	return filter, nil
}
