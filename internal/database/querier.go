// internal/database/querier.go
package database

import "context"

// Querier defines every store operation the application performs. Handlers
// and the reconciliation pipeline depend on this interface rather than on
// *Queries so tests can substitute a mock.
type Querier interface {
	UpsertUser(ctx context.Context, githubUsername string) (User, error)
	CreateUserStubs(ctx context.Context, githubUsernames []string) error
	GetUserByUsername(ctx context.Context, githubUsername string) (User, error)

	UpsertRepository(ctx context.Context, arg UpsertRepositoryParams) (Repository, error)
	GetRepositoryByFullName(ctx context.Context, fullName string) (Repository, error)
	ListRepositoriesByUserID(ctx context.Context, userID int64) ([]Repository, error)
	ListAllRepositories(ctx context.Context) ([]Repository, error)
	DeleteRepositoriesByOwner(ctx context.Context, githubUsername string) (int64, error)
	DeleteRepositoriesByFullNames(ctx context.Context, fullNames []string) (int64, error)

	InsertCommits(ctx context.Context, rows []InsertCommitParams) ([]Commit, error)
	ListCommitsByRepositoryID(ctx context.Context, repositoryID int64) ([]Commit, error)
	UpdateCommitStats(ctx context.Context, arg UpdateCommitStatsParams) error
	DeleteCommit(ctx context.Context, id int64) error
	DeleteDuplicateCommits(ctx context.Context) (int64, error)
	ListTopCommitAuthors(ctx context.Context, arg ListTopCommitAuthorsParams) ([]TopCommitAuthorsRow, error)
}

var _ Querier = (*Queries)(nil)
