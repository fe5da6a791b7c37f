package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"habitbot/internal/charts"
	"habitbot/internal/domain"
	"habitbot/internal/mail"
	"habitbot/internal/service"

	"go.uber.org/zap"
)

// PollInterval is how often the scheduler checks for due tasks
const PollInterval = time.Minute

// Users lists and looks up known users
type Users interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
}

// Messenger pushes an unsolicited message to a user
type Messenger interface {
	Push(ctx context.Context, userID, text string) error
}

// Composer produces reminder and insight texts, falling back when generation fails
type Composer interface {
	Compose(ctx context.Context, kind domain.PromptKind, userName, extra string) string
}

// Goals reads the goals a user set yesterday
type Goals interface {
	YesterdayGoals(ctx context.Context, userID string) (*domain.DailyGoals, error)
}

// Summaries assembles a user's day
type Summaries interface {
	Today(ctx context.Context, userID string) (*domain.DailySummary, error)
}

// Mailer delivers the summary email
type Mailer interface {
	Configured() bool
	Send(ctx context.Context, msg mail.Message) error
}

// Config holds the daily trigger times as HH:MM in Location
type Config struct {
	Location    *time.Location
	MorningTime string
	EveningTime string
	SummaryTime string
}

// Deps are the collaborators used by scheduled tasks
type Deps struct {
	Users     Users
	Messenger Messenger
	Composer  Composer
	Goals     Goals
	Summaries Summaries
	Mailer    Mailer
}

type slot struct {
	task   domain.Task
	hour   int
	minute int
}

// Scheduler fires the daily tasks and fans them out to every user
type Scheduler struct {
	Deps
	slots    []slot
	location *time.Location
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// New creates a scheduler; it fails on a malformed trigger time
func New(cfg Config, deps Deps, logger *zap.Logger) (*Scheduler, error) {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	s := &Scheduler{
		Deps:     deps,
		location: loc,
		interval: PollInterval,
		now:      time.Now,
		logger:   logger,
	}

	for _, t := range []struct {
		task  domain.Task
		value string
	}{
		{domain.TaskMorning, cfg.MorningTime},
		{domain.TaskEvening, cfg.EveningTime},
		{domain.TaskSummary, cfg.SummaryTime},
	} {
		hour, minute, err := ParseClock(t.value)
		if err != nil {
			return nil, fmt.Errorf("%s time: %w", t.task, err)
		}
		s.slots = append(s.slots, slot{task: t.task, hour: hour, minute: minute})
	}

	return s, nil
}

// ParseClock parses an HH:MM time of day
func ParseClock(value string) (int, int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	return t.Hour(), t.Minute(), nil
}

// Start polls for due tasks until ctx is cancelled
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Scheduler started",
		zap.String("timezone", s.location.String()),
		zap.Int("tasks", len(s.slots)),
	)

	prev := s.now()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")
			return
		case <-ticker.C:
			cur := s.now()
			for _, task := range s.dueTasks(prev, cur) {
				s.RunTask(ctx, task)
			}
			prev = cur
		}
	}
}

// dueTasks returns the tasks whose time of day falls in (prev, cur]
func (s *Scheduler) dueTasks(prev, cur time.Time) []domain.Task {
	if !cur.After(prev) {
		return nil
	}

	prev = prev.In(s.location)
	cur = cur.In(s.location)

	var due []domain.Task
	for _, sl := range s.slots {
		// walk each calendar day the window touches; a task fires at most once per window
		for day := domain.DayOf(prev).Date; !day.After(cur); day = day.AddDate(0, 0, 1) {
			at := time.Date(day.Year(), day.Month(), day.Day(), sl.hour, sl.minute, 0, 0, s.location)
			if at.After(prev) && !at.After(cur) {
				due = append(due, sl.task)
				break
			}
		}
	}
	return due
}

// RunTask runs task for every known user; one user's failure does not stop the others
func (s *Scheduler) RunTask(ctx context.Context, task domain.Task) {
	users, err := s.Users.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list users for task",
			zap.String("task", string(task)),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Running scheduled task",
		zap.String("task", string(task)),
		zap.Int("users", len(users)),
	)

	failed, skipped := 0, 0
	for i := range users {
		if ctx.Err() != nil {
			break
		}
		err := s.runSafely(ctx, task, &users[i])
		if errors.Is(err, mail.ErrNotConfigured) {
			skipped++
			continue
		}
		if err != nil {
			failed++
			s.logger.Error("Scheduled task failed for user",
				zap.String("task", string(task)),
				zap.String("user_id", users[i].ID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("Scheduled task finished",
		zap.String("task", string(task)),
		zap.Int("users", len(users)),
		zap.Int("failed", failed),
		zap.Int("skipped", skipped),
	)
}

// RunForUser runs task for a single user; used by the test menu
func (s *Scheduler) RunForUser(ctx context.Context, task domain.Task, userID string) error {
	user, err := s.Users.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		user = &domain.User{ID: userID}
	}
	return s.runSafely(ctx, task, user)
}

func (s *Scheduler) runSafely(ctx context.Context, task domain.Task, user *domain.User) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s task: %v", task, r)
		}
	}()
	return s.run(ctx, task, user)
}

func (s *Scheduler) run(ctx context.Context, task domain.Task, user *domain.User) error {
	name := displayName(user)

	switch task {
	case domain.TaskMorning:
		goals, err := s.Goals.YesterdayGoals(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("get yesterday goals: %w", err)
		}
		return s.push(ctx, user.ID, s.Composer.Compose(ctx, domain.PromptMorning, name, formatGoals(goals)))
	case domain.TaskEvening:
		return s.push(ctx, user.ID, s.Composer.Compose(ctx, domain.PromptEvening, name, ""))
	case domain.TaskVocabulary:
		return s.push(ctx, user.ID, s.Composer.Compose(ctx, domain.PromptVocabulary, name, ""))
	case domain.TaskSummary:
		return s.sendSummary(ctx, user.ID)
	}
	return fmt.Errorf("unknown task %q", task)
}

func (s *Scheduler) push(ctx context.Context, userID, text string) error {
	if err := s.Messenger.Push(ctx, userID, text); err != nil {
		return fmt.Errorf("push message: %w", err)
	}
	return nil
}

func (s *Scheduler) sendSummary(ctx context.Context, userID string) error {
	if !s.Mailer.Configured() {
		s.logger.Debug("Mail not configured, skipping summary", zap.String("user_id", userID))
		return mail.ErrNotConfigured
	}

	summary, err := s.Summaries.Today(ctx, userID)
	if err != nil {
		return fmt.Errorf("assemble summary: %w", err)
	}

	insight := ""
	if !summary.IsEmpty() {
		insight = s.Composer.Compose(ctx, domain.PromptSummary, summary.UserName, service.FormatDailySummary(summary))
	}

	var inline, attachments []mail.Attachment
	if len(summary.Expenses) > 0 {
		content, err := service.ExpensesCSV(summary.Expenses)
		if err != nil {
			return err
		}
		attachments = append(attachments, mail.Attachment{
			Name:    fmt.Sprintf("expenses_%s.csv", summary.Date.Format("20060102")),
			Content: []byte(content),
		})

		png, err := charts.CategoryPie(service.SummarizeExpenses(summary.Expenses).Categories)
		switch {
		case err == nil:
			inline = append(inline, mail.Attachment{Name: mail.ChartName, Content: png})
		case !errors.Is(err, charts.ErrNoData):
			s.logger.Warn("Failed to render category chart",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}
	}

	html, err := mail.RenderSummary(summary, insight, len(inline) > 0)
	if err != nil {
		return err
	}

	err = s.Mailer.Send(ctx, mail.Message{
		Subject:     mail.Subject(summary),
		HTML:        html,
		Inline:      inline,
		Attachments: attachments,
	})
	if err != nil {
		return fmt.Errorf("send summary: %w", err)
	}
	return nil
}

func displayName(u *domain.User) string {
	if u == nil || u.Name == "" {
		return "there"
	}
	return u.Name
}

func formatGoals(g *domain.DailyGoals) string {
	if g == nil {
		return ""
	}
	var lines []string
	for i, goal := range g.Goals {
		if goal != "" {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, goal))
		}
	}
	return strings.Join(lines, "\n")
}
