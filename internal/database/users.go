// internal/database/users.go
package database

import "context"

const upsertUser = `
INSERT INTO users (github_username)
VALUES ($1)
ON CONFLICT (github_username) DO UPDATE SET github_username = EXCLUDED.github_username
RETURNING id, github_username, created_at
`

// UpsertUser creates the user if absent and returns the row either way.
// The no-op update on conflict makes RETURNING yield the existing row.
func (q *Queries) UpsertUser(ctx context.Context, githubUsername string) (User, error) {
	row := q.db.QueryRow(ctx, upsertUser, githubUsername)
	var u User
	err := row.Scan(&u.ID, &u.GithubUsername, &u.CreatedAt)
	return u, err
}

const createUserStubs = `
INSERT INTO users (github_username)
SELECT unnest($1::text[])
ON CONFLICT (github_username) DO NOTHING
`

// CreateUserStubs set-inserts users for the given logins; already-known
// logins are silently skipped.
func (q *Queries) CreateUserStubs(ctx context.Context, githubUsernames []string) error {
	if len(githubUsernames) == 0 {
		return nil
	}
	_, err := q.db.Exec(ctx, createUserStubs, githubUsernames)
	return err
}

const getUserByUsername = `
SELECT id, github_username, created_at
FROM users
WHERE github_username = $1
`

func (q *Queries) GetUserByUsername(ctx context.Context, githubUsername string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByUsername, githubUsername)
	var u User
	err := row.Scan(&u.ID, &u.GithubUsername, &u.CreatedAt)
	return u, err
}
