// internal/database/commits.go
package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// InsertCommitParams is one commit row to bulk-insert. Stats columns are
// left NULL for the backfill to fill in.
type InsertCommitParams struct {
	RepositoryID int64
	CommitHash   string
	Message      string
	Author       *string
	Committer    *string
	CommitDate   time.Time
}

const insertCommits = `
INSERT INTO commits (repository_id, commit_hash, message, author, committer, commit_date)
SELECT * FROM unnest(
    $1::bigint[], $2::text[], $3::text[], $4::text[], $5::text[], $6::timestamptz[]
)
ON CONFLICT (repository_id, commit_hash) DO NOTHING
RETURNING id, repository_id, commit_hash, message, author, committer, commit_date,
          lines_added, lines_removed, created_at
`

// InsertCommits bulk-inserts the given rows in one statement. Rows that
// collide on (repository_id, commit_hash) are skipped, so re-processing an
// unchanged repository is a no-op; only the rows actually inserted are
// returned.
func (q *Queries) InsertCommits(ctx context.Context, params []InsertCommitParams) ([]Commit, error) {
	if len(params) == 0 {
		return nil, nil
	}

	repoIDs := make([]int64, len(params))
	hashes := make([]string, len(params))
	messages := make([]string, len(params))
	authors := make([]*string, len(params))
	committers := make([]*string, len(params))
	dates := make([]time.Time, len(params))
	for i, p := range params {
		repoIDs[i] = p.RepositoryID
		hashes[i] = p.CommitHash
		messages[i] = p.Message
		authors[i] = p.Author
		committers[i] = p.Committer
		dates[i] = p.CommitDate
	}

	rows, err := q.db.Query(ctx, insertCommits, repoIDs, hashes, messages, authors, committers, dates)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCommits(rows)
}

const listCommitsByRepositoryID = `
SELECT id, repository_id, commit_hash, message, author, committer, commit_date,
       lines_added, lines_removed, created_at
FROM commits
WHERE repository_id = $1
ORDER BY commit_date DESC
`

func (q *Queries) ListCommitsByRepositoryID(ctx context.Context, repositoryID int64) ([]Commit, error) {
	rows, err := q.db.Query(ctx, listCommitsByRepositoryID, repositoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCommits(rows)
}

// UpdateCommitStatsParams carries backfilled line counts for one commit.
type UpdateCommitStatsParams struct {
	ID           int64
	LinesAdded   int32
	LinesRemoved int32
}

const updateCommitStats = `
UPDATE commits
SET lines_added = $2, lines_removed = $3
WHERE id = $1
`

func (q *Queries) UpdateCommitStats(ctx context.Context, arg UpdateCommitStatsParams) error {
	_, err := q.db.Exec(ctx, updateCommitStats, arg.ID, arg.LinesAdded, arg.LinesRemoved)
	return err
}

const deleteCommit = `
DELETE FROM commits
WHERE id = $1
`

func (q *Queries) DeleteCommit(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, deleteCommit, id)
	return err
}

const deleteDuplicateCommits = `
DELETE FROM commits
WHERE id IN (
    SELECT id FROM (
        SELECT id,
               ROW_NUMBER() OVER (
                   PARTITION BY repository_id, commit_hash
                   ORDER BY created_at, id
               ) AS rn
        FROM commits
    ) ranked
    WHERE rn > 1
)
`

// DeleteDuplicateCommits removes all but the earliest row per
// (repository, hash). The unique constraint prevents new duplicates; this
// cleans up rows that predate it.
func (q *Queries) DeleteDuplicateCommits(ctx context.Context) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteDuplicateCommits)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListTopCommitAuthorsParams bounds the author ranking for one repository.
type ListTopCommitAuthorsParams struct {
	RepositoryID int64
	Limit        int32
}

const listTopCommitAuthors = `
SELECT author, COUNT(*) AS commit_count
FROM commits
WHERE repository_id = $1 AND author IS NOT NULL
GROUP BY author
ORDER BY commit_count DESC, author
LIMIT $2
`

func (q *Queries) ListTopCommitAuthors(ctx context.Context, arg ListTopCommitAuthorsParams) ([]TopCommitAuthorsRow, error) {
	rows, err := q.db.Query(ctx, listTopCommitAuthors, arg.RepositoryID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TopCommitAuthorsRow
	for rows.Next() {
		var r TopCommitAuthorsRow
		if err := rows.Scan(&r.Author, &r.CommitCount); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanCommits(rows pgx.Rows) ([]Commit, error) {
	var commits []Commit
	for rows.Next() {
		var c Commit
		if err := rows.Scan(
			&c.ID, &c.RepositoryID, &c.CommitHash, &c.Message, &c.Author,
			&c.Committer, &c.CommitDate, &c.LinesAdded, &c.LinesRemoved, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		commits = append(commits, c)
	}
	return commits, rows.Err()
}
