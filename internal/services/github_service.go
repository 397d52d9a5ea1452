package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"portfolio/pkg/github"
)

// GitHubClient is the subset of the GitHub API the stats service needs.
type GitHubClient interface {
	GetUser(ctx context.Context, username string) (*github.User, error)
	ListRepositories(ctx context.Context, username string, perPage int) ([]github.Repository, error)
}

// GitHubStats is the aggregated profile summary.
type GitHubStats struct {
	Followers   int `json:"followers"`
	PublicRepos int `json:"public_repos"`
	Stars       int `json:"stars"`
}

// RepoSummary is the reduced projection of a repository. Every field is
// always present in the JSON encoding.
type RepoSummary struct {
	Name            *string  `json:"name"`
	FullName        *string  `json:"full_name"`
	Description     *string  `json:"description"`
	HTMLURL         *string  `json:"html_url"`
	Language        *string  `json:"language"`
	StargazersCount *int     `json:"stargazers_count"`
	ForksCount      *int     `json:"forks_count"`
	Topics          []string `json:"topics"`
	Homepage        *string  `json:"homepage"`
}

// GitHubService aggregates and reshapes GitHub data.
type GitHubService struct {
	client GitHubClient
	logger *zap.Logger
}

// NewGitHubService creates a GitHubService.
func NewGitHubService(client GitHubClient, logger *zap.Logger) *GitHubService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GitHubService{client: client, logger: logger}
}

// UserStats returns follower and repository counts for username plus the star
// total across its 100 most recently updated repositories. Only the profile
// fetch can fail the call; a failed repository fetch counts as zero stars.
func (s *GitHubService) UserStats(ctx context.Context, username string) (*GitHubStats, error) {
	user, err := s.client.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}

	stars := 0
	repos, err := s.client.ListRepositories(ctx, username, github.MaxPerPage)
	if err != nil {
		var upstream *github.UpstreamError
		if errors.As(err, &upstream) {
			s.logger.Warn("repository fetch rejected, reporting zero stars",
				zap.String("user", username), zap.Int("status", upstream.StatusCode))
		} else {
			s.logger.Warn("repository fetch failed, reporting zero stars",
				zap.String("user", username), zap.Error(err))
		}
	} else {
		for _, repo := range repos {
			if repo.StargazersCount != nil {
				stars += *repo.StargazersCount
			}
		}
	}

	return &GitHubStats{
		Followers:   user.Followers,
		PublicRepos: user.PublicRepos,
		Stars:       stars,
	}, nil
}

// Repositories returns up to limit (at most 100) of username's most recently
// updated repositories in reduced form.
func (s *GitHubService) Repositories(ctx context.Context, username string, limit int) ([]RepoSummary, error) {
	if limit > github.MaxPerPage {
		limit = github.MaxPerPage
	}
	repos, err := s.client.ListRepositories(ctx, username, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]RepoSummary, 0, len(repos))
	for _, repo := range repos {
		if limit > 0 && len(summaries) >= limit {
			break
		}
		topics := repo.Topics
		if topics == nil {
			topics = []string{}
		}
		summaries = append(summaries, RepoSummary{
			Name:            repo.Name,
			FullName:        repo.FullName,
			Description:     repo.Description,
			HTMLURL:         repo.HTMLURL,
			Language:        repo.Language,
			StargazersCount: repo.StargazersCount,
			ForksCount:      repo.ForksCount,
			Topics:          topics,
			Homepage:        repo.Homepage,
		})
	}
	return summaries, nil
}
