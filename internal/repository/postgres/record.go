package postgres

import (
	"context"
	"database/sql"
	"time"

	"habitbot/internal/domain"
)

// RecordRepo implements repository.RecordRepository
type RecordRepo struct {
	db *sql.DB
}

// NewRecordRepo creates a new record repository
func NewRecordRepo(db *sql.DB) *RecordRepo {
	return &RecordRepo{db: db}
}

// SaveGoals stores the goals for a day, overwriting an existing row
func (r *RecordRepo) SaveGoals(ctx context.Context, userID string, goals [domain.GoalsPerDay]string, date time.Time) error {
	query := `
		INSERT INTO daily_goals (user_id, goal1, goal2, goal3, date)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, date)
		DO UPDATE SET goal1 = EXCLUDED.goal1, goal2 = EXCLUDED.goal2, goal3 = EXCLUDED.goal3, created_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, userID, goals[0], goals[1], goals[2], date)
	return err
}

// GetGoals returns the goals for a day or nil when none were set
func (r *RecordRepo) GetGoals(ctx context.Context, userID string, date time.Time) (*domain.DailyGoals, error) {
	g := domain.DailyGoals{UserID: userID}
	query := `
		SELECT goal1, goal2, goal3, date, created_at
		FROM daily_goals
		WHERE user_id = $1 AND date = $2
	`
	err := r.db.QueryRowContext(ctx, query, userID, date).Scan(
		&g.Goals[0], &g.Goals[1], &g.Goals[2], &g.Date, &g.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &g, nil
}

// SaveDiary stores the diary for a day, overwriting an existing row
func (r *RecordRepo) SaveDiary(ctx context.Context, userID, content string, date time.Time) error {
	query := `
		INSERT INTO diaries (user_id, content, date)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, date)
		DO UPDATE SET content = EXCLUDED.content, created_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, userID, content, date)
	return err
}

// GetDiary returns the diary for a day or nil when none was written
func (r *RecordRepo) GetDiary(ctx context.Context, userID string, date time.Time) (*domain.DiaryEntry, error) {
	d := domain.DiaryEntry{UserID: userID}
	query := `
		SELECT content, date, created_at
		FROM diaries
		WHERE user_id = $1 AND date = $2
	`
	err := r.db.QueryRowContext(ctx, query, userID, date).Scan(&d.Content, &d.Date, &d.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &d, nil
}

// AddVocabulary appends a vocabulary submission
func (r *RecordRepo) AddVocabulary(ctx context.Context, userID, words string, date time.Time) error {
	query := `
		INSERT INTO vocabulary_records (user_id, words, date)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.ExecContext(ctx, query, userID, words, date)
	return err
}

// GetVocabulary returns all submissions of a day in creation order
func (r *RecordRepo) GetVocabulary(ctx context.Context, userID string, date time.Time) ([]domain.VocabularyRecord, error) {
	query := `
		SELECT id, user_id, words, date, created_at
		FROM vocabulary_records
		WHERE user_id = $1 AND date = $2
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, userID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.VocabularyRecord
	for rows.Next() {
		var v domain.VocabularyRecord
		if err := rows.Scan(&v.ID, &v.UserID, &v.Words, &v.Date, &v.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, v)
	}

	return records, rows.Err()
}
