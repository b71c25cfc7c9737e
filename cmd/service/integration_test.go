//go:build integration

// cmd/service/integration_test.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github-commit-mirror/internal/database"
	"github-commit-mirror/internal/github"
	"github-commit-mirror/internal/mirror"
	"github-commit-mirror/internal/model"
)

func setupTestDatabase(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()

	pgContainer, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(context.Background()))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	m, err := migrate.New("file://../../migrations", connStr)
	require.NoError(t, err)
	require.NoError(t, m.Up())

	dbpool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(dbpool.Close)

	return dbpool
}

// fakeGitHub serves a repository "alpha" with two branches sharing two
// commits; main additionally has a merge commit, dev has its own tip.
func fakeGitHub(t *testing.T) *httptest.Server {
	t.Helper()

	const (
		commitTmpl = `{
			"sha": %q,
			"commit": {"message": %q, "committer": {"date": %q}},
			"author": {"login": %q},
			"committer": {"login": %q},
			"parents": [%s]
		}`
	)
	c1 := fmt.Sprintf(commitTmpl, "c1", "initial", "2024-01-01T10:00:00Z", "alice", "alice", `{"sha": "c0"}`)
	c2 := fmt.Sprintf(commitTmpl, "c2", "feature", "2024-01-02T10:00:00Z", "alice", "alice", `{"sha": "c1"}`)
	c3 := fmt.Sprintf(commitTmpl, "c3", "merge dev into main", "2024-01-03T10:00:00Z", "alice", "alice", `{"sha": "c2"}, {"sha": "c4"}`)
	c4 := fmt.Sprintf(commitTmpl, "c4", "dev work", "2024-01-03T09:00:00Z", "bob", "bob", `{"sha": "c2"}`)

	details := map[string]string{
		"c1": `{"sha": "c1", "stats": {"additions": 10, "deletions": 2}, "parents": [{"sha": "c0"}]}`,
		"c2": `{"sha": "c2", "stats": {"additions": 5, "deletions": 1}, "parents": [{"sha": "c1"}]}`,
		"c4": `{"sha": "c4", "stats": {"additions": 7, "deletions": 0}, "parents": [{"sha": "c2"}]}`,
		"c5": `{"sha": "c5", "stats": {"additions": 3, "deletions": 3}, "parents": [{"sha": "c4"}]}`,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api/v3")
		switch {
		case path == "/repos/test-owner/alpha/branches":
			fmt.Fprintln(w, `[{"name": "main"}, {"name": "dev"}]`)
		case path == "/repos/test-owner/alpha/commits" && r.URL.Query().Get("sha") == "main":
			fmt.Fprintf(w, "[%s, %s, %s]\n", c3, c2, c1)
		case path == "/repos/test-owner/alpha/commits" && r.URL.Query().Get("sha") == "dev":
			fmt.Fprintf(w, "[%s, %s, %s]\n", c4, c2, c1)
		case strings.HasPrefix(path, "/repos/test-owner/alpha/commits/"):
			sha := strings.TrimPrefix(path, "/repos/test-owner/alpha/commits/")
			body, ok := details[sha]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprintln(w, `{"message": "No commit found"}`)
				return
			}
			fmt.Fprintln(w, body)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestMirror_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	dbpool := setupTestDatabase(ctx, t)
	server := fakeGitHub(t)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ghClient, err := github.NewEnterpriseClient(server.URL, "", logger)
	require.NoError(t, err)

	service := mirror.NewService(dbpool, ghClient, logger, time.Minute, 2)
	q := database.New(dbpool)

	repoAlpha := model.Repository{
		Name:     "alpha",
		FullName: "test-owner/alpha",
		URL:      "https://github.com/test-owner/alpha",
	}

	// --- installation.created: fetch, dedup, filter, persist, backfill ---
	require.NoError(t, service.ProcessInstallation(ctx, "test-owner", []model.Repository{repoAlpha}))

	owner, err := q.GetUserByUsername(ctx, "test-owner")
	require.NoError(t, err)

	repo, err := q.GetRepositoryByFullName(ctx, "test-owner/alpha")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, repo.UserID)

	commits, err := q.ListCommitsByRepositoryID(ctx, repo.ID)
	require.NoError(t, err)
	require.Len(t, commits, 3, "merge commit c3 must not be persisted")
	for _, c := range commits {
		assert.NotEqual(t, "c3", c.CommitHash)
		require.NotNil(t, c.LinesAdded, "stats must be backfilled for %s", c.CommitHash)
		require.NotNil(t, c.LinesRemoved)
	}

	// Commit-author stubs were created lazily.
	_, err = q.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	_, err = q.GetUserByUsername(ctx, "bob")
	require.NoError(t, err)

	// --- idempotence: reprocessing an unchanged remote adds nothing ---
	require.NoError(t, service.ProcessInstallation(ctx, "test-owner", []model.Repository{repoAlpha}))
	commits, err = q.ListCommitsByRepositoryID(ctx, repo.ID)
	require.NoError(t, err)
	assert.Len(t, commits, 3)

	// --- push: payload commits are persisted and backfilled ---
	pushCommits := []model.Commit{
		{SHA: "c5", Message: "hotfix", CommitDate: time.Date(2024, 1, 4, 10, 0, 0, 0, time.UTC), ParentCount: 1},
	}
	require.NoError(t, service.ProcessPush(ctx, "alice", "test-owner", repoAlpha, pushCommits))

	commits, err = q.ListCommitsByRepositoryID(ctx, repo.ID)
	require.NoError(t, err)
	require.Len(t, commits, 4)
	assert.Equal(t, "c5", commits[0].CommitHash) // ordered by commit_date DESC
	require.NotNil(t, commits[0].LinesAdded)
	assert.EqualValues(t, 3, *commits[0].LinesAdded)

	// Alice pushed, but octocat-style ownership stays with the installed
	// account; otherwise the delete below would miss the repository.
	repo, err = q.GetRepositoryByFullName(ctx, "test-owner/alpha")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, repo.UserID, "a contributor push must not re-parent the repository")

	// A second installed account, untouched by the delete below.
	other, err := q.UpsertUser(ctx, "other-owner")
	require.NoError(t, err)
	otherRepo, err := q.UpsertRepository(ctx, database.UpsertRepositoryParams{
		UserID:   other.ID,
		Name:     "gamma",
		FullName: "other-owner/gamma",
		URL:      "https://github.com/other-owner/gamma",
	})
	require.NoError(t, err)
	otherCommits, err := q.InsertCommits(ctx, []database.InsertCommitParams{
		{RepositoryID: otherRepo.ID, CommitHash: "d1", Message: "unrelated", CommitDate: time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)
	require.Len(t, otherCommits, 1)

	// --- installation.deleted: the account's repos and commits go away,
	// and only theirs ---
	deleted, err := q.DeleteRepositoriesByOwner(ctx, "test-owner")
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	commits, err = q.ListCommitsByRepositoryID(ctx, repo.ID)
	require.NoError(t, err)
	assert.Empty(t, commits, "commits cascade with their repository")

	survivors, err := q.ListCommitsByRepositoryID(ctx, otherRepo.ID)
	require.NoError(t, err)
	assert.Len(t, survivors, 1, "other accounts' data must survive the delete")
	_, err = q.GetRepositoryByFullName(ctx, "other-owner/gamma")
	require.NoError(t, err)
}
