// internal/mirror/service.go
package mirror

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/go-github/v80/github"
	"github.com/jackc/pgx/v5/pgxpool"

	"github-commit-mirror/internal/database"
	custom_errors "github-commit-mirror/internal/errors"
	"github-commit-mirror/internal/model"
)

// APIClient is the full remote capability the mirror needs.
type APIClient interface {
	CommitLister
	StatsFetcher
}

// Service wires the fetch → filter → write → backfill pipeline to the
// webhook event stream. Every event handler hands the actual work to the
// Dispatcher and returns immediately; failures are logged at the task
// boundary and never reach the transport.
type Service struct {
	pool       *pgxpool.Pool
	db         database.Querier
	gh         APIClient
	fetcher    *Fetcher
	writer     *Writer
	backfiller *Backfiller
	dispatch   *Dispatcher
	logger     *slog.Logger
}

// NewService creates the Service and its pipeline stages.
func NewService(pool *pgxpool.Pool, gh APIClient, logger *slog.Logger, eventTimeout time.Duration, backfillConcurrency int) *Service {
	return &Service{
		pool:       pool,
		db:         database.New(pool),
		gh:         gh,
		fetcher:    NewFetcher(gh, logger),
		writer:     NewWriter(logger),
		backfiller: NewBackfiller(gh, logger, backfillConcurrency),
		dispatch:   NewDispatcher(logger, eventTimeout),
		logger:     logger,
	}
}

// Drain waits for in-flight event tasks to finish, bounded by ctx.
func (s *Service) Drain(ctx context.Context) error {
	return s.dispatch.Drain(ctx)
}

// InstallationCreated mirrors every repository granted to a new installation.
func (s *Service) InstallationCreated(ctx context.Context, ev *github.InstallationEvent) {
	login := ev.GetInstallation().GetAccount().GetLogin()
	if login == "" {
		s.logger.Error("Dropping event", "error", &custom_errors.ErrMissingAccount{Event: "installation.created"})
		return
	}
	repos := repositoriesFromInstallation(login, ev.Repositories)

	s.dispatch.Submit("installation.created", func(ctx context.Context) error {
		return s.ProcessInstallation(ctx, login, repos)
	})
}

// InstallationDeleted removes every repository and commit mirrored for the
// installation's account.
func (s *Service) InstallationDeleted(ctx context.Context, ev *github.InstallationEvent) {
	login := ev.GetInstallation().GetAccount().GetLogin()
	if login == "" {
		s.logger.Error("Dropping event", "error", &custom_errors.ErrMissingAccount{Event: "installation.deleted"})
		return
	}

	s.dispatch.Submit("installation.deleted", func(ctx context.Context) error {
		n, err := s.db.DeleteRepositoriesByOwner(ctx, login)
		if err != nil {
			return err
		}
		s.logger.Info("Deleted installation data", "owner", login, "repositories", n)
		return nil
	})
}

// RepositoriesAdded mirrors the repositories newly granted to an existing
// installation; same pipeline as installation.created, scoped down.
func (s *Service) RepositoriesAdded(ctx context.Context, ev *github.InstallationRepositoriesEvent) {
	login := ev.GetInstallation().GetAccount().GetLogin()
	if login == "" {
		s.logger.Error("Dropping event", "error", &custom_errors.ErrMissingAccount{Event: "installation_repositories.added"})
		return
	}
	repos := repositoriesFromInstallation(login, ev.RepositoriesAdded)

	s.dispatch.Submit("installation_repositories.added", func(ctx context.Context) error {
		return s.ProcessInstallation(ctx, login, repos)
	})
}

// RepositoriesRemoved drops the mirrored rows for repositories revoked from
// an installation.
func (s *Service) RepositoriesRemoved(ctx context.Context, ev *github.InstallationRepositoriesEvent) {
	fullNames := make([]string, 0, len(ev.RepositoriesRemoved))
	for _, r := range ev.RepositoriesRemoved {
		if fn := r.GetFullName(); fn != "" {
			fullNames = append(fullNames, fn)
		}
	}
	if len(fullNames) == 0 {
		s.logger.Info("No repositories to remove")
		return
	}

	s.dispatch.Submit("installation_repositories.removed", func(ctx context.Context) error {
		n, err := s.db.DeleteRepositoriesByFullNames(ctx, fullNames)
		if err != nil {
			return err
		}
		s.logger.Info("Removed repositories", "requested", len(fullNames), "deleted", n)
		return nil
	})
}

// Push persists the commits delivered in the payload; no remote fetch is
// needed for the rows themselves, only for the stats backfill.
func (s *Service) Push(ctx context.Context, ev *github.PushEvent) {
	ownerLogin := ev.GetRepo().GetOwner().GetLogin()
	senderLogin := ev.GetSender().GetLogin()
	if senderLogin == "" {
		senderLogin = ownerLogin
	}
	if ownerLogin == "" || senderLogin == "" {
		s.logger.Error("Dropping event", "error", &custom_errors.ErrMissingAccount{Event: "push"})
		return
	}

	repo := repositoryFromPush(ev.GetRepo())
	commits := commitsFromPush(ev.Commits)

	s.dispatch.Submit("push", func(ctx context.Context) error {
		return s.ProcessPush(ctx, senderLogin, ownerLogin, repo, commits)
	})
}

// ProcessInstallation runs the full pipeline for a set of repositories: fetch
// all branches' commits, drop merges, reconcile in one transaction, then
// backfill stats. A fetch failure on one repository skips that repository
// only.
func (s *Service) ProcessInstallation(ctx context.Context, login string, repos []model.Repository) error {
	batch := make([]RepoCommits, 0, len(repos))
	for _, repo := range repos {
		commits, err := s.fetcher.FetchRepositoryCommits(ctx, login, repo.Name)
		if err != nil {
			s.logger.Error("Failed to fetch commits, skipping repository",
				"owner", login, "repo", repo.Name, "error", err)
			continue
		}
		batch = append(batch, RepoCommits{Repo: repo, Commits: DropMergeCommits(commits)})
	}

	res, err := s.reconcile(ctx, login, batch)
	if err != nil {
		return err
	}

	s.backfiller.Run(ctx, s.db, login, res)
	return nil
}

// ProcessPush persists a push payload's commits transactionally and
// backfills their stats.
func (s *Service) ProcessPush(ctx context.Context, senderLogin, ownerLogin string, repo model.Repository, commits []model.Commit) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // Rollback is a no-op if the transaction is already committed.

	res, err := s.writer.ReconcilePush(ctx, database.New(tx), senderLogin, repo, commits)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.backfiller.Run(ctx, s.db, ownerLogin, res)
	return nil
}

// reconcile wraps the writer's batch in a DB transaction.
func (s *Service) reconcile(ctx context.Context, login string, batch []RepoCommits) (*ReconcileResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) // Rollback is a no-op if the transaction is already committed.

	res, err := s.writer.Reconcile(ctx, database.New(tx), login, batch)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return res, nil
}
