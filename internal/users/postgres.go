package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store on pgx. The users table is owned by
// the account-management layer; this store only reads from it.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an existing connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// GetUser reads one user record.
func (s *PostgresStore) GetUser(ctx context.Context, id string) (User, bool, error) {
	var (
		u        User
		parentID *string
		role     string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, parent_id, username, role, is_active, is_bet_locked
		 FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &parentID, &u.Username, &role, &u.IsActive, &u.IsBetLocked)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, fmt.Errorf("get user %s: %w", id, err)
	}

	if parentID != nil {
		u.ParentID = *parentID
	}
	u.Role = Role(role)
	return u, true, nil
}
