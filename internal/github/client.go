// internal/github/client.go
package github

import (
	"context"
	"log/slog"

	"github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github-commit-mirror/internal/model"
)

const perPage = 100 // Max page size the commits and branches endpoints allow

// Client is a wrapper around the go-github client.
type Client struct {
	gh     *github.Client
	logger *slog.Logger
}

// NewClient creates and configures a new Client instance.
// The provided token is used to create an authenticated http.Client.
func NewClient(token string, logger *slog.Logger) *Client {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		gh:     github.NewClient(tc),
		logger: logger,
	}
}

// NewEnterpriseClient creates a Client pointed at a GitHub Enterprise (or
// test) endpoint instead of github.com.
func NewEnterpriseClient(baseURL, token string, logger *slog.Logger) (*Client, error) {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	gh, err := github.NewClient(tc).WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return nil, err
	}

	return &Client{
		gh:     gh,
		logger: logger,
	}, nil
}

// ListBranches returns the names of all branches of a repository.
// It handles API pagination transparently.
func (c *Client) ListBranches(ctx context.Context, owner, name string) ([]string, error) {
	var branches []string

	opts := &github.BranchListOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	for {
		c.logger.Debug("Fetching branches page", "owner", owner, "repo", name, "page", opts.Page)

		page, resp, err := c.gh.Repositories.ListBranches(ctx, owner, name, opts)
		if err != nil {
			return nil, err
		}

		for _, b := range page {
			branches = append(branches, b.GetName())
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return branches, nil
}

// ListCommits fetches the commit history of one branch and translates it to
// our internal model. It handles API pagination transparently.
func (c *Client) ListCommits(ctx context.Context, owner, name, branch string) ([]model.Commit, error) {
	var allCommits []model.Commit

	opts := &github.CommitsListOptions{
		SHA:         branch,
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	for {
		c.logger.Debug("Fetching commits page", "owner", owner, "repo", name, "branch", branch, "page", opts.Page)

		commits, resp, err := c.gh.Repositories.ListCommits(ctx, owner, name, opts)
		if err != nil {
			return nil, err
		}

		for _, commit := range commits {
			allCommits = append(allCommits, toInternalCommit(commit))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allCommits, nil
}

// GetCommit fetches a single commit by hash, including its line-change
// stats and parent list.
func (c *Client) GetCommit(ctx context.Context, owner, name, sha string) (model.CommitDetail, error) {
	commit, _, err := c.gh.Repositories.GetCommit(ctx, owner, name, sha, nil)
	if err != nil {
		return model.CommitDetail{}, err
	}

	return model.CommitDetail{
		SHA:         commit.GetSHA(),
		Additions:   commit.GetStats().GetAdditions(),
		Deletions:   commit.GetStats().GetDeletions(),
		ParentCount: len(commit.Parents),
	}, nil
}

// toInternalCommit translates a github.RepositoryCommit object to our internal model.Commit.
func toInternalCommit(c *github.RepositoryCommit) model.Commit {
	return model.Commit{
		SHA:         c.GetSHA(),
		Message:     c.GetCommit().GetMessage(),
		Author:      loginOrNil(c.GetAuthor().GetLogin()),
		Committer:   loginOrNil(c.GetCommitter().GetLogin()),
		CommitDate:  c.GetCommit().GetCommitter().GetDate().Time,
		ParentCount: len(c.Parents),
	}
}

// loginOrNil maps an absent platform account to a nil handle.
func loginOrNil(login string) *string {
	if login == "" {
		return nil
	}
	return &login
}
