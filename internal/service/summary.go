package service

import (
	"context"
	"fmt"
	"strings"

	"habitbot/internal/domain"
	"habitbot/internal/repository"

	"go.uber.org/zap"
)

// SummaryService assembles a user's day
type SummaryService struct {
	userRepo    repository.UserRepository
	records     *RecordService
	expenseRepo repository.ExpenseRepository
	logger      *zap.Logger
}

// NewSummaryService creates a new summary service
func NewSummaryService(
	userRepo repository.UserRepository,
	records *RecordService,
	expenseRepo repository.ExpenseRepository,
	logger *zap.Logger,
) *SummaryService {
	return &SummaryService{
		userRepo:    userRepo,
		records:     records,
		expenseRepo: expenseRepo,
		logger:      logger,
	}
}

// Today collects goals, diary, vocabulary and expenses recorded today
func (s *SummaryService) Today(ctx context.Context, userID string) (*domain.DailySummary, error) {
	today := s.records.today()

	user, err := s.userRepo.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	summary := &domain.DailySummary{UserName: userID, Date: today.Date}
	if user != nil && user.Name != "" {
		summary.UserName = user.Name
	}

	if summary.Goals, err = s.records.GoalsOn(ctx, userID, today); err != nil {
		return nil, fmt.Errorf("get goals: %w", err)
	}
	if summary.Diary, err = s.records.TodayDiary(ctx, userID); err != nil {
		return nil, fmt.Errorf("get diary: %w", err)
	}
	if summary.Vocabulary, err = s.records.TodayVocabulary(ctx, userID); err != nil {
		return nil, fmt.Errorf("get vocabulary: %w", err)
	}
	if summary.Expenses, err = s.expenseRepo.GetExpenses(ctx, userID, today.Date, today.Date); err != nil {
		return nil, fmt.Errorf("get expenses: %w", err)
	}

	s.logger.Debug("Daily summary assembled",
		zap.String("user_id", userID),
		zap.Bool("empty", summary.IsEmpty()),
		zap.Int("expenses", len(summary.Expenses)),
	)

	return summary, nil
}

// FormatDailySummary renders the chat version of a daily summary
func FormatDailySummary(s *domain.DailySummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 %s's summary for today\n\n", s.UserName)

	b.WriteString("🎯 Goals:\n")
	for i := 0; i < domain.GoalsPerDay; i++ {
		goal := "Not set"
		if s.Goals != nil && s.Goals.Goals[i] != "" {
			goal = s.Goals.Goals[i]
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, goal)
	}

	b.WriteString("\n📝 Diary:\n")
	if s.Diary != nil && s.Diary.Content != "" {
		b.WriteString(s.Diary.Content)
	} else {
		b.WriteString("Not recorded")
	}

	b.WriteString("\n\n📚 Vocabulary:\n")
	if len(s.Vocabulary) > 0 {
		b.WriteString(strings.Join(s.Vocabulary, ", "))
	} else {
		b.WriteString("Not recorded")
	}

	b.WriteString("\n\n💰 Expenses:\n")
	if len(s.Expenses) > 0 {
		items := make([]string, 0, len(s.Expenses))
		for _, e := range s.Expenses {
			items = append(items, fmt.Sprintf("%s: %s", e.Category, FormatAmount(e.Amount)))
		}
		b.WriteString(strings.Join(items, ", "))
	} else {
		b.WriteString("Not recorded")
	}

	b.WriteString("\n\n💪 Keep it up!")
	return b.String()
}
