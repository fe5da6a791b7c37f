package service

import (
	"context"
	"fmt"
	"time"

	"habitbot/internal/domain"
	"habitbot/internal/repository"
)

// RecordService handles goals, diary and vocabulary for the current day
type RecordService struct {
	recordRepo repository.RecordRepository
	clock
}

// NewRecordService creates a new record service
func NewRecordService(recordRepo repository.RecordRepository, location *time.Location) *RecordService {
	return &RecordService{
		recordRepo: recordRepo,
		clock:      newClock(location),
	}
}

// TodayGoals returns today's goals or nil
func (s *RecordService) TodayGoals(ctx context.Context, userID string) (*domain.DailyGoals, error) {
	return s.recordRepo.GetGoals(ctx, userID, s.today().Date)
}

// GoalsOn returns the goals for the given day or nil
func (s *RecordService) GoalsOn(ctx context.Context, userID string, day domain.Day) (*domain.DailyGoals, error) {
	return s.recordRepo.GetGoals(ctx, userID, day.Date)
}

// YesterdayGoals returns the goals set the day before today or nil
func (s *RecordService) YesterdayGoals(ctx context.Context, userID string) (*domain.DailyGoals, error) {
	return s.GoalsOn(ctx, userID, s.today().AddDays(-1))
}

// SaveGoals stores today's goals, replacing any set earlier
func (s *RecordService) SaveGoals(ctx context.Context, userID string, goals [domain.GoalsPerDay]string) error {
	if err := s.recordRepo.SaveGoals(ctx, userID, goals, s.today().Date); err != nil {
		return fmt.Errorf("save goals: %w", err)
	}
	return nil
}

// TodayDiary returns today's diary or nil
func (s *RecordService) TodayDiary(ctx context.Context, userID string) (*domain.DiaryEntry, error) {
	return s.recordRepo.GetDiary(ctx, userID, s.today().Date)
}

// SaveDiary stores today's diary verbatim
func (s *RecordService) SaveDiary(ctx context.Context, userID, content string) error {
	if err := s.recordRepo.SaveDiary(ctx, userID, content, s.today().Date); err != nil {
		return fmt.Errorf("save diary: %w", err)
	}
	return nil
}

// AddVocabulary appends one submission for today; words are not split
func (s *RecordService) AddVocabulary(ctx context.Context, userID, words string) error {
	if err := s.recordRepo.AddVocabulary(ctx, userID, words, s.today().Date); err != nil {
		return fmt.Errorf("add vocabulary: %w", err)
	}
	return nil
}

// TodayVocabulary returns today's submissions in the order they were made
func (s *RecordService) TodayVocabulary(ctx context.Context, userID string) ([]string, error) {
	records, err := s.recordRepo.GetVocabulary(ctx, userID, s.today().Date)
	if err != nil {
		return nil, err
	}

	words := make([]string, 0, len(records))
	for _, r := range records {
		words = append(words, r.Words)
	}
	return words, nil
}
