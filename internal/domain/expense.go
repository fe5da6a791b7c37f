package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is one append-only ledger entry
type Expense struct {
	ID          int64
	UserID      string
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        time.Time
	CreatedAt   time.Time
}

// CategoryTotal is the aggregate of one category over a date range
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

// ExpenseSummary is the total and per-category breakdown over a date range
type ExpenseSummary struct {
	Total      decimal.Decimal
	Categories []CategoryTotal
}
