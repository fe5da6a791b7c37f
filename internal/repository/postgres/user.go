package postgres

import (
	"context"
	"database/sql"

	"habitbot/internal/domain"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// EnsureUserExists creates user if not exists, keeping a stored name untouched
func (r *UserRepo) EnsureUserExists(ctx context.Context, userID, name string) error {
	query := `
		INSERT INTO users (user_id, name)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, userID, name)
	return err
}

// UpsertUser creates user or refreshes its display name
func (r *UserRepo) UpsertUser(ctx context.Context, userID, name string) error {
	query := `
		INSERT INTO users (user_id, name)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET name = EXCLUDED.name
	`
	_, err := r.db.ExecContext(ctx, query, userID, name)
	return err
}

// GetUser returns the user or nil when it doesn't exist
func (r *UserRepo) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	var u domain.User
	query := `SELECT user_id, name, created_at FROM users WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&u.ID, &u.Name, &u.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// ListUsers returns all known users in creation order
func (r *UserRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	query := `SELECT user_id, name, created_at FROM users ORDER BY created_at, user_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}
