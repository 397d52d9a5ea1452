package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// DefaultBaseURL is the public GitHub REST API.
const DefaultBaseURL = "https://api.github.com"

// MaxPerPage is the largest page size GitHub accepts.
const MaxPerPage = 100

// maxErrorBody bounds how much of an upstream error body is kept.
const maxErrorBody = 64 * 1024

var (
	// ErrTimeout means GitHub did not answer within the client timeout.
	ErrTimeout = errors.New("github request timed out")
	// ErrUnreachable means the request failed before any response arrived.
	ErrUnreachable = errors.New("github unreachable")
)

// UpstreamError carries a non-success response from GitHub unchanged.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("github responded with status %d", e.StatusCode)
}

// User is the subset of a GitHub user profile the API reads.
type User struct {
	Login       string `json:"login"`
	Followers   int    `json:"followers"`
	PublicRepos int    `json:"public_repos"`
}

// Repository is the subset of a GitHub repository the API exposes. Pointer
// fields stay nil when GitHub omits or nulls them.
type Repository struct {
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

// Config holds GitHub client settings.
type Config struct {
	BaseURL string
	Token   string // optional; raises the rate limit when set
	Timeout time.Duration
}

// Client calls the GitHub REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a Client. A zero Timeout defaults to 10 seconds.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		token:   strings.TrimSpace(cfg.Token),
		http:    &http.Client{Timeout: timeout},
	}
}

// GetUser fetches the profile of username.
func (c *Client) GetUser(ctx context.Context, username string) (*User, error) {
	var user User
	if err := c.get(ctx, "/users/"+url.PathEscape(username), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListRepositories fetches up to perPage of username's repositories, most
// recently updated first. perPage is capped at MaxPerPage.
func (c *Client) ListRepositories(ctx context.Context, username string, perPage int) ([]Repository, error) {
	if perPage <= 0 || perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	query := url.Values{}
	query.Set("per_page", strconv.Itoa(perPage))
	query.Set("sort", "updated")

	var repos []Repository
	if err := c.get(ctx, "/users/"+url.PathEscape(username)+"/repos", query, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build github request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: GET %s: %v", ErrTimeout, path, err)
		}
		return fmt.Errorf("%w: GET %s: %v", ErrUnreachable, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: reading GET %s: %v", ErrTimeout, path, err)
		}
		return fmt.Errorf("decode github response for %s: %w", path, err)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
