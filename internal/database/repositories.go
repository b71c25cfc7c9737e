// internal/database/repositories.go
package database

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// UpsertRepositoryParams identifies a repository by its natural key (URL)
// plus the owning user.
type UpsertRepositoryParams struct {
	UserID   int64
	Name     string
	FullName string
	URL      string
}

const upsertRepository = `
INSERT INTO repositories (user_id, name, full_name, url)
VALUES ($1, $2, $3, $4)
ON CONFLICT (url) DO UPDATE SET
    name      = EXCLUDED.name,
    full_name = EXCLUDED.full_name
RETURNING id, user_id, name, full_name, url, created_at
`

// UpsertRepository creates or refreshes a repository keyed by URL, so
// re-installation of an already-known repository never duplicates it. The
// conflict clause never touches user_id: a push by a contributor must not
// re-parent a repository away from its installed owner.
func (q *Queries) UpsertRepository(ctx context.Context, arg UpsertRepositoryParams) (Repository, error) {
	row := q.db.QueryRow(ctx, upsertRepository, arg.UserID, arg.Name, arg.FullName, arg.URL)
	var r Repository
	err := row.Scan(&r.ID, &r.UserID, &r.Name, &r.FullName, &r.URL, &r.CreatedAt)
	return r, err
}

const getRepositoryByFullName = `
SELECT id, user_id, name, full_name, url, created_at
FROM repositories
WHERE full_name = $1
`

func (q *Queries) GetRepositoryByFullName(ctx context.Context, fullName string) (Repository, error) {
	row := q.db.QueryRow(ctx, getRepositoryByFullName, fullName)
	var r Repository
	err := row.Scan(&r.ID, &r.UserID, &r.Name, &r.FullName, &r.URL, &r.CreatedAt)
	return r, err
}

const listRepositoriesByUserID = `
SELECT id, user_id, name, full_name, url, created_at
FROM repositories
WHERE user_id = $1
ORDER BY full_name
`

func (q *Queries) ListRepositoriesByUserID(ctx context.Context, userID int64) ([]Repository, error) {
	rows, err := q.db.Query(ctx, listRepositoriesByUserID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRepositories(rows)
}

const listAllRepositories = `
SELECT id, user_id, name, full_name, url, created_at
FROM repositories
ORDER BY full_name
`

func (q *Queries) ListAllRepositories(ctx context.Context) ([]Repository, error) {
	rows, err := q.db.Query(ctx, listAllRepositories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRepositories(rows)
}

const deleteRepositoriesByOwner = `
DELETE FROM repositories
WHERE user_id IN (SELECT id FROM users WHERE github_username = $1)
`

// DeleteRepositoriesByOwner removes every repository owned by the given
// account. Commits go with them via the ON DELETE CASCADE constraint.
func (q *Queries) DeleteRepositoriesByOwner(ctx context.Context, githubUsername string) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteRepositoriesByOwner, githubUsername)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const deleteRepositoriesByFullNames = `
DELETE FROM repositories
WHERE full_name = ANY($1::text[])
`

// DeleteRepositoriesByFullNames removes the named repositories and, via
// cascade, their commits.
func (q *Queries) DeleteRepositoriesByFullNames(ctx context.Context, fullNames []string) (int64, error) {
	if len(fullNames) == 0 {
		return 0, nil
	}
	tag, err := q.db.Exec(ctx, deleteRepositoriesByFullNames, fullNames)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanRepositories(rows pgx.Rows) ([]Repository, error) {
	var repos []Repository
	for rows.Next() {
		var r Repository
		if err := rows.Scan(&r.ID, &r.UserID, &r.Name, &r.FullName, &r.URL, &r.CreatedAt); err != nil {
			return nil, err
		}
		repos = append(repos, r)
	}
	return repos, rows.Err()
}
