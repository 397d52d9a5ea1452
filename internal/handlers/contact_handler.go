package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"portfolio/internal/models"
	"portfolio/internal/services"
	"portfolio/internal/validation"
)

// ContactHandler handles contact form submissions.
type ContactHandler struct {
	service   *services.ContactService
	validator *validation.Validator
	logger    *zap.Logger
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(service *services.ContactService, validator *validation.Validator, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		service:   service,
		validator: validator,
		logger:    logger,
	}
}

// RegisterRoutes registers the contact route with the Fiber app.
func (h *ContactHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/contact", h.HandleSubmit)
}

// HandleSubmit stores a contact message and acknowledges it.
func (h *ContactHandler) HandleSubmit(c *fiber.Ctx) error {
	msg, err := validation.Decode[models.ContactMessage](h.validator, c.Body())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	id, err := h.service.Submit(c.UserContext(), &msg)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"id":     id,
		"status": "received",
	})
}
