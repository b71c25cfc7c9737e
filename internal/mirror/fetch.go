// internal/mirror/fetch.go
package mirror

import (
	"context"
	"log/slog"

	"github-commit-mirror/internal/model"
)

// CommitLister is the remote API capability the fetcher needs.
type CommitLister interface {
	ListBranches(ctx context.Context, owner, name string) ([]string, error)
	ListCommits(ctx context.Context, owner, name, branch string) ([]model.Commit, error)
}

// Fetcher retrieves the full commit graph of a repository across all of its
// branches.
type Fetcher struct {
	gh     CommitLister
	logger *slog.Logger
}

// NewFetcher creates a Fetcher backed by the given API capability.
func NewFetcher(gh CommitLister, logger *slog.Logger) *Fetcher {
	return &Fetcher{gh: gh, logger: logger}
}

// FetchRepositoryCommits enumerates every branch of owner/name, fetches
// each branch's history, and returns the combined sequence deduplicated by
// hash. Merge commits are still present; filtering is the next stage's job.
func (f *Fetcher) FetchRepositoryCommits(ctx context.Context, owner, name string) ([]model.Commit, error) {
	logger := f.logger.With("owner", owner, "repo", name)

	branches, err := f.gh.ListBranches(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	logger.Info("Enumerated branches", "count", len(branches))

	var all []model.Commit
	for _, branch := range branches {
		commits, err := f.gh.ListCommits(ctx, owner, name, branch)
		if err != nil {
			return nil, err
		}
		all = append(all, commits...)
	}

	deduped := DedupBySHA(all)
	logger.Info("Fetched commits", "total", len(all), "distinct", len(deduped))
	return deduped, nil
}
