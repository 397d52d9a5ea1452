package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"portfolio/internal/services"
	"portfolio/pkg/github"
)

const defaultRepoLimit = 12

// GitHubHandler proxies reshaped GitHub data.
type GitHubHandler struct {
	service *services.GitHubService
	logger  *zap.Logger
}

// NewGitHubHandler creates a new GitHubHandler.
func NewGitHubHandler(service *services.GitHubService, logger *zap.Logger) *GitHubHandler {
	return &GitHubHandler{service: service, logger: logger}
}

// RegisterRoutes registers the GitHub routes with the Fiber app.
func (h *GitHubHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/stats/github", h.HandleStats)
	router.Get("/github/repos", h.HandleRepos)
}

// HandleStats returns follower, repository and star counts for ?user=.
func (h *GitHubHandler) HandleStats(c *fiber.Ctx) error {
	user, err := requiredQuery(c, "user")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	stats, err := h.service.UserStats(c.UserContext(), user)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(stats)
}

// HandleRepos returns the most recently updated repositories of ?user=.
func (h *GitHubHandler) HandleRepos(c *fiber.Ctx) error {
	user, err := requiredQuery(c, "user")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	limit, err := queryLimit(c, defaultRepoLimit, github.MaxPerPage)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	repos, err := h.service.Repositories(c.UserContext(), user, limit)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(repos)
}
