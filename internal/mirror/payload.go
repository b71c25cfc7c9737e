// internal/mirror/payload.go
package mirror

import (
	"fmt"

	"github.com/google/go-github/v80/github"

	"github-commit-mirror/internal/model"
)

// repositoriesFromInstallation converts the repository stubs carried by
// installation payloads. These stubs have no html_url, so the canonical URL
// is derived from the full name.
func repositoriesFromInstallation(ownerLogin string, repos []*github.Repository) []model.Repository {
	out := make([]model.Repository, 0, len(repos))
	for _, r := range repos {
		name := r.GetName()
		if name == "" {
			continue // a nameless stub would synthesize a malformed URL
		}
		fullName := r.GetFullName()
		if fullName == "" {
			fullName = fmt.Sprintf("%s/%s", ownerLogin, name)
		}
		out = append(out, model.Repository{
			Name:     name,
			FullName: fullName,
			URL:      "https://github.com/" + fullName,
		})
	}
	return out
}

// repositoryFromPush converts the repository record of a push payload.
func repositoryFromPush(r *github.PushEventRepository) model.Repository {
	return model.Repository{
		Name:     r.GetName(),
		FullName: r.GetFullName(),
		URL:      r.GetHTMLURL(),
	}
}

// commitsFromPush converts push payload commits. The payload carries no
// parent lists, so the parent count defaults to one; merge commits that
// arrive this way are evicted by the backfill stage once the detail fetch
// reveals their parents.
func commitsFromPush(commits []*github.HeadCommit) []model.Commit {
	out := make([]model.Commit, 0, len(commits))
	for _, c := range commits {
		out = append(out, model.Commit{
			SHA:         c.GetID(),
			Message:     c.GetMessage(),
			Author:      loginOrNil(c.GetAuthor().GetLogin()),
			Committer:   loginOrNil(c.GetCommitter().GetLogin()),
			CommitDate:  c.GetTimestamp().Time,
			ParentCount: 1,
		})
	}
	return out
}

func loginOrNil(login string) *string {
	if login == "" {
		return nil
	}
	return &login
}
