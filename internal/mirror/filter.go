// internal/mirror/filter.go
package mirror

import "github-commit-mirror/internal/model"

// DedupBySHA collapses commits sharing a hash to one representative each,
// keeping the first occurrence. Input order otherwise survives, so the
// branch fetch order decides which copy wins; commit content is identical
// across branches for the same hash, so the choice carries no meaning.
func DedupBySHA(commits []model.Commit) []model.Commit {
	seen := make(map[string]struct{}, len(commits))
	out := make([]model.Commit, 0, len(commits))
	for _, c := range commits {
		if _, ok := seen[c.SHA]; ok {
			continue
		}
		seen[c.SHA] = struct{}{}
		out = append(out, c)
	}
	return out
}

// DropMergeCommits returns the subset of commits with at most one parent.
// It is a pure filter: no side effects, same output on repeated runs.
func DropMergeCommits(commits []model.Commit) []model.Commit {
	out := make([]model.Commit, 0, len(commits))
	for _, c := range commits {
		if c.IsMerge() {
			continue
		}
		out = append(out, c)
	}
	return out
}
