package repository

import (
	"context"
	"time"

	"habitbot/internal/domain"
)

// UserRepository defines user data operations
type UserRepository interface {
	EnsureUserExists(ctx context.Context, userID, name string) error
	UpsertUser(ctx context.Context, userID, name string) error
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// RecordRepository defines goals, diary and vocabulary data operations
type RecordRepository interface {
	SaveGoals(ctx context.Context, userID string, goals [domain.GoalsPerDay]string, date time.Time) error
	GetGoals(ctx context.Context, userID string, date time.Time) (*domain.DailyGoals, error)
	SaveDiary(ctx context.Context, userID, content string, date time.Time) error
	GetDiary(ctx context.Context, userID string, date time.Time) (*domain.DiaryEntry, error)
	AddVocabulary(ctx context.Context, userID, words string, date time.Time) error
	GetVocabulary(ctx context.Context, userID string, date time.Time) ([]domain.VocabularyRecord, error)
}

// ExpenseRepository defines expense data operations
type ExpenseRepository interface {
	SaveExpense(ctx context.Context, expense *domain.Expense) error
	GetExpenses(ctx context.Context, userID string, from, to time.Time) ([]domain.Expense, error)
}

// CategoryRepository defines custom category data operations
type CategoryRepository interface {
	SaveCategory(ctx context.Context, userID, name string) error
	GetCategories(ctx context.Context, userID string) ([]string, error)
}
