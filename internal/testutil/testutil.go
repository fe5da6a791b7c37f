package testutil

import (
	"time"

	"habitbot/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// FixedNow returns a clock func pinned to t
func FixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// NewTestUser creates a test user
func NewTestUser(userID, name string) *domain.User {
	return &domain.User{
		ID:        userID,
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// NewTestExpense creates a test expense; amount is a decimal literal like "12.50"
func NewTestExpense(id int64, userID, amount, category, description string, date time.Time) domain.Expense {
	return domain.Expense{
		ID:          id,
		UserID:      userID,
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
		Description: description,
		Date:        date,
		CreatedAt:   date,
	}
}
