// internal/mirror/mock_test.go
package mirror

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github-commit-mirror/internal/database"
)

// MockQuerier is a mock of the database.Querier interface.
type MockQuerier struct {
	mock.Mock
}

func (m *MockQuerier) UpsertUser(ctx context.Context, githubUsername string) (database.User, error) {
	args := m.Called(ctx, githubUsername)
	return args.Get(0).(database.User), args.Error(1)
}

func (m *MockQuerier) CreateUserStubs(ctx context.Context, githubUsernames []string) error {
	args := m.Called(ctx, githubUsernames)
	return args.Error(0)
}

func (m *MockQuerier) GetUserByUsername(ctx context.Context, githubUsername string) (database.User, error) {
	args := m.Called(ctx, githubUsername)
	return args.Get(0).(database.User), args.Error(1)
}

func (m *MockQuerier) UpsertRepository(ctx context.Context, arg database.UpsertRepositoryParams) (database.Repository, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Repository), args.Error(1)
}

func (m *MockQuerier) GetRepositoryByFullName(ctx context.Context, fullName string) (database.Repository, error) {
	args := m.Called(ctx, fullName)
	return args.Get(0).(database.Repository), args.Error(1)
}

func (m *MockQuerier) ListRepositoriesByUserID(ctx context.Context, userID int64) ([]database.Repository, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]database.Repository), args.Error(1)
}

func (m *MockQuerier) ListAllRepositories(ctx context.Context) ([]database.Repository, error) {
	args := m.Called(ctx)
	return args.Get(0).([]database.Repository), args.Error(1)
}

func (m *MockQuerier) DeleteRepositoriesByOwner(ctx context.Context, githubUsername string) (int64, error) {
	args := m.Called(ctx, githubUsername)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuerier) DeleteRepositoriesByFullNames(ctx context.Context, fullNames []string) (int64, error) {
	args := m.Called(ctx, fullNames)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuerier) InsertCommits(ctx context.Context, rows []database.InsertCommitParams) ([]database.Commit, error) {
	args := m.Called(ctx, rows)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.Commit), args.Error(1)
}

func (m *MockQuerier) ListCommitsByRepositoryID(ctx context.Context, repositoryID int64) ([]database.Commit, error) {
	args := m.Called(ctx, repositoryID)
	return args.Get(0).([]database.Commit), args.Error(1)
}

func (m *MockQuerier) UpdateCommitStats(ctx context.Context, arg database.UpdateCommitStatsParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}

func (m *MockQuerier) DeleteCommit(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuerier) DeleteDuplicateCommits(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuerier) ListTopCommitAuthors(ctx context.Context, arg database.ListTopCommitAuthorsParams) ([]database.TopCommitAuthorsRow, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]database.TopCommitAuthorsRow), args.Error(1)
}

var _ database.Querier = (*MockQuerier)(nil)
