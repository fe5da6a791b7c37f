package domain

import "time"

// DailyGoals holds the goals a user set for one day
type DailyGoals struct {
	UserID    string
	Goals     [GoalsPerDay]string
	Date      time.Time
	CreatedAt time.Time
}

// DiaryEntry is the diary text a user wrote for one day
type DiaryEntry struct {
	UserID    string
	Content   string
	Date      time.Time
	CreatedAt time.Time
}

// VocabularyRecord is one vocabulary submission, possibly several comma-separated words
type VocabularyRecord struct {
	ID        int64
	UserID    string
	Words     string
	Date      time.Time
	CreatedAt time.Time
}

// DailySummary aggregates everything a user recorded today
type DailySummary struct {
	UserName   string
	Date       time.Time
	Goals      *DailyGoals
	Diary      *DiaryEntry
	Vocabulary []string
	Expenses   []Expense
}

// IsEmpty reports whether nothing was recorded
func (s DailySummary) IsEmpty() bool {
	return s.Goals == nil && s.Diary == nil && len(s.Vocabulary) == 0 && len(s.Expenses) == 0
}

// PromptKind selects the text the AI assistant generates
type PromptKind string

const (
	PromptMorning    PromptKind = "morning"
	PromptEvening    PromptKind = "evening"
	PromptVocabulary PromptKind = "vocabulary"
	PromptSummary    PromptKind = "summary"
	PromptChat       PromptKind = "chat"
)

// Task is a named scheduler job
type Task string

const (
	TaskMorning    Task = "morning"
	TaskEvening    Task = "evening"
	TaskSummary    Task = "summary"
	TaskVocabulary Task = "vocabulary"
)
