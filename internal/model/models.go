// internal/model/models.go
package model

import "time"

// Repository is the payload-level view of a repository as it arrives in a
// webhook event: just enough identity to mirror it.
type Repository struct {
	Name     string
	FullName string // "owner/name"
	URL      string
}

// Commit is a single commit as fetched from the API or delivered in a push
// payload, before persistence. Author and Committer hold platform logins and
// are nil when the commit does not map to a known account.
type Commit struct {
	SHA         string
	Message     string
	Author      *string
	Committer   *string
	CommitDate  time.Time
	ParentCount int
}

// IsMerge reports whether the commit joins two or more parents.
func (c Commit) IsMerge() bool {
	return c.ParentCount > 1
}

// CommitDetail is the enriched view of a single commit returned by the
// detail endpoint, used by the stats backfill.
type CommitDetail struct {
	SHA         string
	Additions   int
	Deletions   int
	ParentCount int
}
