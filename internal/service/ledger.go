package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"
	"time"

	"habitbot/internal/domain"
	"habitbot/internal/repository"

	"github.com/shopspring/decimal"
)

// DefaultExportDays is the range covered by an export when none is given
const DefaultExportDays = 30

// MaxAmount is the largest amount the expenses.amount NUMERIC(12,2) column holds
var MaxAmount = decimal.RequireFromString("9999999999.99")

// LedgerService handles expense recording and aggregation
type LedgerService struct {
	expenseRepo repository.ExpenseRepository
	clock
}

// NewLedgerService creates a new ledger service
func NewLedgerService(expenseRepo repository.ExpenseRepository, location *time.Location) *LedgerService {
	return &LedgerService{
		expenseRepo: expenseRepo,
		clock:       newClock(location),
	}
}

// AddExpense validates and stores an expense dated today
func (s *LedgerService) AddExpense(ctx context.Context, userID string, amount decimal.Decimal, category, description string) (*domain.Expense, error) {
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return nil, invalid("amount must be positive")
	}
	if amount.GreaterThan(MaxAmount) {
		return nil, invalid("amount is too large")
	}

	category = strings.TrimSpace(category)
	if category == "" {
		return nil, invalid("category required")
	}

	expense := &domain.Expense{
		UserID:      userID,
		Amount:      amount,
		Category:    category,
		Description: strings.TrimSpace(description),
		Date:        s.today().Date,
	}

	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("save expense: %w", err)
	}

	return expense, nil
}

// TodayExpenses returns today's expenses, most recent first
func (s *LedgerService) TodayExpenses(ctx context.Context, userID string) ([]domain.Expense, error) {
	today := s.today().Date
	return s.expenseRepo.GetExpenses(ctx, userID, today, today)
}

// Summary aggregates the trailing days ending today, inclusive
func (s *LedgerService) Summary(ctx context.Context, userID string, days int) (domain.ExpenseSummary, error) {
	expenses, err := s.rangeExpenses(ctx, userID, days)
	if err != nil {
		return domain.ExpenseSummary{}, err
	}
	return SummarizeExpenses(expenses), nil
}

// ExportCSV renders the trailing days as CSV and returns the row count
func (s *LedgerService) ExportCSV(ctx context.Context, userID string, days int) (string, int, error) {
	if days < 1 {
		days = DefaultExportDays
	}

	expenses, err := s.rangeExpenses(ctx, userID, days)
	if err != nil {
		return "", 0, err
	}

	content, err := ExpensesCSV(expenses)
	if err != nil {
		return "", 0, err
	}
	return content, len(expenses), nil
}

// ExpensesCSV renders expenses in the given order with a Date,Category,Amount,Description header
func ExpensesCSV(expenses []domain.Expense) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Date", "Category", "Amount", "Description"}); err != nil {
		return "", err
	}
	for _, e := range expenses {
		row := []string{
			domain.DayOf(e.Date).DateString(),
			e.Category,
			e.Amount.StringFixed(2),
			e.Description,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}

	return buf.String(), nil
}

func (s *LedgerService) rangeExpenses(ctx context.Context, userID string, days int) ([]domain.Expense, error) {
	if days < 1 {
		days = 1
	}

	today := s.today()
	from := today.AddDays(-(days - 1))

	expenses, err := s.expenseRepo.GetExpenses(ctx, userID, from.Date, today.Date)
	if err != nil {
		return nil, fmt.Errorf("get expenses: %w", err)
	}
	return expenses, nil
}

// SummarizeExpenses totals expenses per category, largest first, ties by name
func SummarizeExpenses(expenses []domain.Expense) domain.ExpenseSummary {
	summary := domain.ExpenseSummary{Total: decimal.Zero}
	index := make(map[string]int)

	for _, e := range expenses {
		summary.Total = summary.Total.Add(e.Amount)

		i, ok := index[e.Category]
		if !ok {
			i = len(summary.Categories)
			index[e.Category] = i
			summary.Categories = append(summary.Categories, domain.CategoryTotal{Category: e.Category, Total: decimal.Zero})
		}
		summary.Categories[i].Total = summary.Categories[i].Total.Add(e.Amount)
		summary.Categories[i].Count++
	}

	sort.SliceStable(summary.Categories, func(a, b int) bool {
		ca, cb := summary.Categories[a], summary.Categories[b]
		if cmp := ca.Total.Cmp(cb.Total); cmp != 0 {
			return cmp > 0
		}
		return ca.Category < cb.Category
	})

	return summary
}
