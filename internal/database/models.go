// internal/database/models.go
package database

import "time"

// User is a row in the users table. Users are created lazily: on first
// reference as an installation owner or as a commit author.
type User struct {
	ID             int64
	GithubUsername string
	CreatedAt      time.Time
}

// Repository is a row in the repositories table, owned by exactly one user
// and uniquely identified by its URL.
type Repository struct {
	ID        int64
	UserID    int64
	Name      string
	FullName  string
	URL       string
	CreatedAt time.Time
}

// Commit is a row in the commits table. LinesAdded and LinesRemoved stay
// nil until the stats backfill fills them in.
type Commit struct {
	ID           int64
	RepositoryID int64
	CommitHash   string
	Message      string
	Author       *string
	Committer    *string
	CommitDate   time.Time
	LinesAdded   *int32
	LinesRemoved *int32
	CreatedAt    time.Time
}

// TopCommitAuthorsRow is one entry of the commit-count-by-author ranking.
type TopCommitAuthorsRow struct {
	Author      string
	CommitCount int64
}
