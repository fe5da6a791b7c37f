package testutil

import (
	"context"
	"time"

	"habitbot/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) EnsureUserExists(ctx context.Context, userID, name string) error {
	args := m.Called(ctx, userID, name)
	return args.Error(0)
}

func (m *MockUserRepository) UpsertUser(ctx context.Context, userID, name string) error {
	args := m.Called(ctx, userID, name)
	return args.Error(0)
}

func (m *MockUserRepository) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

// MockRecordRepository is a mock for RecordRepository
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) SaveGoals(ctx context.Context, userID string, goals [domain.GoalsPerDay]string, date time.Time) error {
	args := m.Called(ctx, userID, goals, date)
	return args.Error(0)
}

func (m *MockRecordRepository) GetGoals(ctx context.Context, userID string, date time.Time) (*domain.DailyGoals, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyGoals), args.Error(1)
}

func (m *MockRecordRepository) SaveDiary(ctx context.Context, userID, content string, date time.Time) error {
	args := m.Called(ctx, userID, content, date)
	return args.Error(0)
}

func (m *MockRecordRepository) GetDiary(ctx context.Context, userID string, date time.Time) (*domain.DiaryEntry, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DiaryEntry), args.Error(1)
}

func (m *MockRecordRepository) AddVocabulary(ctx context.Context, userID, words string, date time.Time) error {
	args := m.Called(ctx, userID, words, date)
	return args.Error(0)
}

func (m *MockRecordRepository) GetVocabulary(ctx context.Context, userID string, date time.Time) ([]domain.VocabularyRecord, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VocabularyRecord), args.Error(1)
}

// MockExpenseRepository is a mock for ExpenseRepository and CategoryRepository
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) SaveExpense(ctx context.Context, expense *domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) GetExpenses(ctx context.Context, userID string, from, to time.Time) ([]domain.Expense, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) SaveCategory(ctx context.Context, userID, name string) error {
	args := m.Called(ctx, userID, name)
	return args.Error(0)
}

func (m *MockExpenseRepository) GetCategories(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
