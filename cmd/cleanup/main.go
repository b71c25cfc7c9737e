// cmd/cleanup/main.go
//
// One-off maintenance for the mirror store: removes duplicate commit rows
// left over from before the (repository_id, commit_hash) constraint, and
// sweeps out merge commits that arrived via push payloads, which carry no
// parent information.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github-commit-mirror/internal/config"
	"github-commit-mirror/internal/database"
	custom_errors "github-commit-mirror/internal/errors"
	"github-commit-mirror/internal/github"
)

func main() {
	dedupe := flag.Bool("dedupe", false, "remove duplicate commit rows, keeping the earliest per (repository, hash)")
	merges := flag.Bool("merges", false, "scan the API for merge commits that leaked into the store and delete them")
	flag.Parse()

	if !*dedupe && !*merges {
		fmt.Fprintln(os.Stderr, "nothing to do: pass -dedupe and/or -merges")
		os.Exit(2)
	}

	if err := run(*dedupe, *merges); err != nil {
		slog.Error("Cleanup failed", "error", err)
		os.Exit(1)
	}
}

func run(dedupe, merges bool) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx := context.Background()
	dbpool, err := pgxpool.New(ctx, cfg.DBURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbpool.Close()

	q := database.New(dbpool)

	if dedupe {
		n, err := q.DeleteDuplicateCommits(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete duplicate commits: %w", err)
		}
		logger.Info("Removed duplicate commits", "deleted", n)
	}

	if merges {
		gh := github.NewClient(cfg.GithubToken, logger)
		if err := sweepMergeCommits(ctx, q, gh, logger); err != nil {
			return err
		}
	}

	return nil
}

// sweepMergeCommits walks every mirrored repository and deletes commit rows
// whose detail fetch reports more than one parent. Per-commit fetch
// failures are logged and skipped so one bad hash never stops the sweep.
func sweepMergeCommits(ctx context.Context, q database.Querier, gh *github.Client, logger *slog.Logger) error {
	repos, err := q.ListAllRepositories(ctx)
	if err != nil {
		return fmt.Errorf("failed to list repositories: %w", err)
	}

	for _, repo := range repos {
		owner, name, err := splitFullName(repo.FullName)
		if err != nil {
			logger.Error("Skipping repository", "full_name", repo.FullName, "error", err)
			continue
		}

		commits, err := q.ListCommitsByRepositoryID(ctx, repo.ID)
		if err != nil {
			logger.Error("Failed to list commits, skipping repository", "repo", repo.FullName, "error", err)
			continue
		}

		var deleted int
		for _, c := range commits {
			detail, err := gh.GetCommit(ctx, owner, name, c.CommitHash)
			if err != nil {
				logger.Error("Failed to fetch commit, skipping", "repo", repo.FullName, "sha", c.CommitHash, "error", err)
				continue
			}
			if detail.ParentCount <= 1 {
				continue
			}
			if err := q.DeleteCommit(ctx, c.ID); err != nil {
				logger.Error("Failed to delete merge commit", "repo", repo.FullName, "sha", c.CommitHash, "error", err)
				continue
			}
			deleted++
		}
		logger.Info("Swept repository", "repo", repo.FullName, "scanned", len(commits), "merge_commits_deleted", deleted)
	}

	return nil
}

func splitFullName(fullName string) (owner, name string, err error) {
	parts := strings.Split(fullName, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", &custom_errors.ErrInvalidFullName{FullName: fullName}
	}
	return parts[0], parts[1], nil
}
