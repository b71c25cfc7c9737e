// internal/mirror/backfill.go
package mirror

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github-commit-mirror/internal/database"
	"github-commit-mirror/internal/model"
)

// StatsFetcher is the remote capability the backfill needs: a single-commit
// lookup that includes line-change stats.
type StatsFetcher interface {
	GetCommit(ctx context.Context, owner, name, sha string) (model.CommitDetail, error)
}

// Backfiller fills in lines-added/lines-removed for already-persisted
// commits. It runs after the reconciliation transaction has committed and is
// deliberately not transactional: partial completion is fine and a later
// re-run picks up the rest.
type Backfiller struct {
	gh          StatsFetcher
	logger      *slog.Logger
	concurrency int
}

// NewBackfiller creates a Backfiller that works on up to concurrency
// repositories at a time.
func NewBackfiller(gh StatsFetcher, logger *slog.Logger, concurrency int) *Backfiller {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Backfiller{gh: gh, logger: logger, concurrency: concurrency}
}

// Run backfills stats for every commit in the result, one task per
// repository. A failure on one commit is logged and skipped; it never
// aborts the loop for sibling commits or sibling repositories. Each commit
// row is touched by exactly one task, so concurrent tasks cannot conflict.
func (b *Backfiller) Run(ctx context.Context, q database.Querier, ownerLogin string, res *ReconcileResult) {
	byRepo := make(map[int64][]database.Commit)
	for _, c := range res.Commits {
		byRepo[c.RepositoryID] = append(byRepo[c.RepositoryID], c)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for _, repo := range res.Repos {
		commits := byRepo[repo.ID]
		if len(commits) == 0 {
			continue
		}
		g.Go(func() error {
			b.backfillRepo(gctx, q, ownerLogin, repo, commits)
			return nil
		})
	}

	_ = g.Wait()
	b.logger.Info("Stats backfill finished", "owner", ownerLogin, "repos", len(byRepo))
}

func (b *Backfiller) backfillRepo(ctx context.Context, q database.Querier, ownerLogin string, repo database.Repository, commits []database.Commit) {
	logger := b.logger.With("owner", ownerLogin, "repo", repo.Name)

	var updated, skipped int
	for _, c := range commits {
		if ctx.Err() != nil {
			logger.Warn("Backfill interrupted", "reason", ctx.Err(), "remaining", len(commits)-updated-skipped)
			return
		}

		detail, err := b.gh.GetCommit(ctx, ownerLogin, repo.Name, c.CommitHash)
		if err != nil {
			logger.Error("Failed to fetch commit stats", "sha", c.CommitHash, "error", err)
			skipped++
			continue
		}

		// Push payloads carry no parent lists, so a merge commit can slip
		// into the store on that path. The detail fetch is the first point
		// where the parent count is known; evict the row here.
		if detail.ParentCount > 1 {
			if err := q.DeleteCommit(ctx, c.ID); err != nil {
				logger.Error("Failed to delete merge commit", "sha", c.CommitHash, "error", err)
			} else {
				logger.Info("Removed merge commit discovered during backfill", "sha", c.CommitHash)
			}
			skipped++
			continue
		}

		err = q.UpdateCommitStats(ctx, database.UpdateCommitStatsParams{
			ID:           c.ID,
			LinesAdded:   int32(detail.Additions),
			LinesRemoved: int32(detail.Deletions),
		})
		if err != nil {
			logger.Error("Failed to update commit stats", "sha", c.CommitHash, "error", err)
			skipped++
			continue
		}
		updated++
	}

	logger.Info("Backfilled repository stats", "updated", updated, "skipped", skipped)
}
