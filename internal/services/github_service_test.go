package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"portfolio/internal/services"
	"portfolio/pkg/github"
)

// MockGitHubClient is a mock implementation of services.GitHubClient
type MockGitHubClient struct {
	mock.Mock
}

func (m *MockGitHubClient) GetUser(ctx context.Context, username string) (*github.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*github.User), args.Error(1)
}

func (m *MockGitHubClient) ListRepositories(ctx context.Context, username string, perPage int) ([]github.Repository, error) {
	args := m.Called(ctx, username, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]github.Repository), args.Error(1)
}

func ptr[T any](v T) *T { return &v }

func TestGitHubService_UserStats(t *testing.T) {
	client := new(MockGitHubClient)
	service := services.NewGitHubService(client, nil)

	client.On("GetUser", mock.Anything, "octo").Return(&github.User{Login: "octo", Followers: 10, PublicRepos: 3}, nil).Once()
	client.On("ListRepositories", mock.Anything, "octo", 100).Return([]github.Repository{
		{Name: ptr("a"), StargazersCount: ptr(5)},
		{Name: ptr("b"), StargazersCount: ptr(7)},
		{Name: ptr("c")},
	}, nil).Once()

	stats, err := service.UserStats(context.Background(), "octo")

	require.NoError(t, err)
	assert.Equal(t, &services.GitHubStats{Followers: 10, PublicRepos: 3, Stars: 12}, stats)
	client.AssertExpectations(t)
}

func TestGitHubService_UserStatsRepoFailureMeansZeroStars(t *testing.T) {
	client := new(MockGitHubClient)
	service := services.NewGitHubService(client, nil)

	client.On("GetUser", mock.Anything, "octo").Return(&github.User{Followers: 1, PublicRepos: 2}, nil).Once()
	client.On("ListRepositories", mock.Anything, "octo", 100).
		Return(nil, &github.UpstreamError{StatusCode: 500, Body: "boom"}).Once()

	stats, err := service.UserStats(context.Background(), "octo")

	require.NoError(t, err)
	assert.Equal(t, 0, stats.Stars)
	assert.Equal(t, 1, stats.Followers)
	assert.Equal(t, 2, stats.PublicRepos)
}

func TestGitHubService_UserStatsProfileFailure(t *testing.T) {
	client := new(MockGitHubClient)
	service := services.NewGitHubService(client, nil)

	upstream := &github.UpstreamError{StatusCode: 404, Body: `{"message":"Not Found"}`}
	client.On("GetUser", mock.Anything, "ghost").Return(nil, upstream).Once()

	stats, err := service.UserStats(context.Background(), "ghost")

	assert.Nil(t, stats)
	assert.ErrorIs(t, err, upstream)
	client.AssertNotCalled(t, "ListRepositories", mock.Anything, mock.Anything, mock.Anything)
}

func TestGitHubService_Repositories(t *testing.T) {
	client := new(MockGitHubClient)
	service := services.NewGitHubService(client, nil)

	client.On("ListRepositories", mock.Anything, "octo", 2).Return([]github.Repository{
		{Name: ptr("a"), FullName: ptr("octo/a"), StargazersCount: ptr(1), Topics: []string{"go"}},
		{Name: ptr("b"), FullName: ptr("octo/b")},
	}, nil).Once()

	repos, err := service.Repositories(context.Background(), "octo", 2)

	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "octo/a", *repos[0].FullName)
	assert.Equal(t, []string{"go"}, repos[0].Topics)
	assert.Equal(t, []string{}, repos[1].Topics)
	assert.Nil(t, repos[1].Description)
	client.AssertExpectations(t)
}

func TestGitHubService_RepositoriesCapsLimit(t *testing.T) {
	client := new(MockGitHubClient)
	service := services.NewGitHubService(client, nil)

	client.On("ListRepositories", mock.Anything, "octo", 100).Return([]github.Repository{}, nil).Once()

	repos, err := service.Repositories(context.Background(), "octo", 500)

	require.NoError(t, err)
	assert.Empty(t, repos)
	client.AssertExpectations(t)
}
