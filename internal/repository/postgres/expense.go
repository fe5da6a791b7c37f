package postgres

import (
	"context"
	"database/sql"
	"time"

	"habitbot/internal/domain"
)

// ExpenseRepo implements repository.ExpenseRepository and repository.CategoryRepository
type ExpenseRepo struct {
	db *sql.DB
}

// NewExpenseRepo creates a new expense repository
func NewExpenseRepo(db *sql.DB) *ExpenseRepo {
	return &ExpenseRepo{db: db}
}

// SaveExpense appends an expense and fills its ID and CreatedAt
func (r *ExpenseRepo) SaveExpense(ctx context.Context, e *domain.Expense) error {
	query := `
		INSERT INTO expenses (user_id, amount, category, description, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	var description sql.NullString
	if e.Description != "" {
		description = sql.NullString{String: e.Description, Valid: true}
	}

	return r.db.QueryRowContext(ctx, query, e.UserID, e.Amount, e.Category, description, e.Date).
		Scan(&e.ID, &e.CreatedAt)
}

// GetExpenses returns expenses between from and to inclusive,
// newest date first and most recently created first within a date
func (r *ExpenseRepo) GetExpenses(ctx context.Context, userID string, from, to time.Time) ([]domain.Expense, error) {
	query := `
		SELECT id, user_id, amount, category, description, date, created_at
		FROM expenses
		WHERE user_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		var e domain.Expense
		var description sql.NullString
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Category, &description, &e.Date, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Description = description.String
		expenses = append(expenses, e)
	}

	return expenses, rows.Err()
}

// SaveCategory stores a custom category
func (r *ExpenseRepo) SaveCategory(ctx context.Context, userID, name string) error {
	query := `
		INSERT INTO expense_categories (user_id, name)
		VALUES ($1, $2)
	`
	_, err := r.db.ExecContext(ctx, query, userID, name)
	return err
}

// GetCategories returns custom category names in creation order
func (r *ExpenseRepo) GetCategories(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT name
		FROM expense_categories
		WHERE user_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}
