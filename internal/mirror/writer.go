// internal/mirror/writer.go
package mirror

import (
	"context"
	"log/slog"
	"sort"

	"github-commit-mirror/internal/database"
	"github-commit-mirror/internal/model"
)

// RepoCommits pairs one repository with its filtered commit list, ready for
// persistence.
type RepoCommits struct {
	Repo    model.Repository
	Commits []model.Commit
}

// ReconcileResult is what one reconciliation transaction produced: the rows
// the backfill stage works from, with generated identifiers.
type ReconcileResult struct {
	Owner   database.User
	Repos   []database.Repository
	Commits []database.Commit
}

// Writer persists a batch of repositories and their commits. It performs no
// transaction management itself; callers hand it a Querier that is already
// inside (or outside) a transaction.
type Writer struct {
	logger *slog.Logger
}

// NewWriter creates a Writer.
func NewWriter(logger *slog.Logger) *Writer {
	return &Writer{logger: logger}
}

// Reconcile runs the four ordered write steps for an installation batch:
// upsert the owning user, upsert each repository, set-insert author stubs,
// then bulk-insert commits with repository foreign keys resolved via the
// name→id mapping from step two. Run it against a transaction-bound Querier
// to get the all-or-nothing guarantee.
func (w *Writer) Reconcile(ctx context.Context, q database.Querier, ownerLogin string, batch []RepoCommits) (*ReconcileResult, error) {
	owner, err := q.UpsertUser(ctx, ownerLogin)
	if err != nil {
		return nil, err
	}

	nameToID := make(map[string]int64, len(batch))
	repos := make([]database.Repository, 0, len(batch))
	for _, rc := range batch {
		repo, err := q.UpsertRepository(ctx, database.UpsertRepositoryParams{
			UserID:   owner.ID,
			Name:     rc.Repo.Name,
			FullName: rc.Repo.FullName,
			URL:      rc.Repo.URL,
		})
		if err != nil {
			return nil, err
		}
		nameToID[rc.Repo.Name] = repo.ID
		repos = append(repos, repo)
	}

	if logins := collectAuthorLogins(batch); len(logins) > 0 {
		if err := q.CreateUserStubs(ctx, logins); err != nil {
			return nil, err
		}
	}

	var rows []database.InsertCommitParams
	for _, rc := range batch {
		repoID := nameToID[rc.Repo.Name]
		for _, c := range rc.Commits {
			rows = append(rows, database.InsertCommitParams{
				RepositoryID: repoID,
				CommitHash:   c.SHA,
				Message:      c.Message,
				Author:       c.Author,
				Committer:    c.Committer,
				CommitDate:   c.CommitDate,
			})
		}
	}

	commits, err := q.InsertCommits(ctx, rows)
	if err != nil {
		return nil, err
	}

	w.logger.Info("Reconciled batch",
		"owner", ownerLogin, "repos", len(repos), "commits", len(commits))

	return &ReconcileResult{Owner: owner, Repos: repos, Commits: commits}, nil
}

// ReconcilePush persists the commits delivered in a push payload: upsert
// the sender, upsert the repository by URL, drop merge commits, insert the
// rest. The sender only becomes the repository's owner when the repository
// was not mirrored before; an existing row keeps its owner. Returns only
// the rows actually inserted (repeat deliveries are no-ops).
func (w *Writer) ReconcilePush(ctx context.Context, q database.Querier, senderLogin string, repo model.Repository, commits []model.Commit) (*ReconcileResult, error) {
	user, err := q.UpsertUser(ctx, senderLogin)
	if err != nil {
		return nil, err
	}

	dbRepo, err := q.UpsertRepository(ctx, database.UpsertRepositoryParams{
		UserID:   user.ID,
		Name:     repo.Name,
		FullName: repo.FullName,
		URL:      repo.URL,
	})
	if err != nil {
		return nil, err
	}

	eligible := DropMergeCommits(DedupBySHA(commits))
	rows := make([]database.InsertCommitParams, 0, len(eligible))
	for _, c := range eligible {
		rows = append(rows, database.InsertCommitParams{
			RepositoryID: dbRepo.ID,
			CommitHash:   c.SHA,
			Message:      c.Message,
			Author:       c.Author,
			Committer:    c.Committer,
			CommitDate:   c.CommitDate,
		})
	}

	created, err := q.InsertCommits(ctx, rows)
	if err != nil {
		return nil, err
	}

	w.logger.Info("Reconciled push",
		"repo", repo.FullName, "delivered", len(commits), "inserted", len(created))

	return &ReconcileResult{
		Owner:   user,
		Repos:   []database.Repository{dbRepo},
		Commits: created,
	}, nil
}

// collectAuthorLogins gathers the distinct commit-author handles across the
// batch, sorted for deterministic insert order.
func collectAuthorLogins(batch []RepoCommits) []string {
	set := make(map[string]struct{})
	for _, rc := range batch {
		for _, c := range rc.Commits {
			if c.Author != nil {
				set[*c.Author] = struct{}{}
			}
		}
	}
	logins := make([]string, 0, len(set))
	for login := range set {
		logins = append(logins, login)
	}
	sort.Strings(logins)
	return logins
}
