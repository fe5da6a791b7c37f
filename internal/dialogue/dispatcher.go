package dialogue

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"habitbot/internal/domain"
	"habitbot/internal/mail"
	"habitbot/internal/service"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	expenseSummaryDays = 7
	categoryHintLimit  = 10
	inlineExportLimit  = 1000
)

// ApologyReply is sent when handling a message fails unexpectedly
const ApologyReply = "Sorry, something went wrong while handling your message. Please try again later."

// States is the per-user conversation state store
type States interface {
	Get(userID string) (domain.ConversationState, bool)
	Set(userID string, state domain.ConversationState)
	Clear(userID string)
	Lock(userID string) func()
}

// Records persists goals, diary and vocabulary for today
type Records interface {
	TodayGoals(ctx context.Context, userID string) (*domain.DailyGoals, error)
	SaveGoals(ctx context.Context, userID string, goals [domain.GoalsPerDay]string) error
	TodayDiary(ctx context.Context, userID string) (*domain.DiaryEntry, error)
	SaveDiary(ctx context.Context, userID, content string) error
	AddVocabulary(ctx context.Context, userID, words string) error
}

// Summaries assembles a user's day
type Summaries interface {
	Today(ctx context.Context, userID string) (*domain.DailySummary, error)
}

// Ledger records and aggregates expenses
type Ledger interface {
	AddExpense(ctx context.Context, userID string, amount decimal.Decimal, category, description string) (*domain.Expense, error)
	TodayExpenses(ctx context.Context, userID string) ([]domain.Expense, error)
	Summary(ctx context.Context, userID string, days int) (domain.ExpenseSummary, error)
	ExportCSV(ctx context.Context, userID string, days int) (string, int, error)
}

// Categories is the per-user category registry
type Categories interface {
	UserCategories(ctx context.Context, userID string) ([]string, error)
	AddCategory(ctx context.Context, userID, name string) error
}

// Generator produces AI text
type Generator interface {
	Generate(ctx context.Context, kind domain.PromptKind, userName, extra string) (string, error)
}

// Trigger runs a scheduled task for a single user
type Trigger interface {
	RunForUser(ctx context.Context, task domain.Task, userID string) error
}

// Exporter publishes an export file and returns a download link
type Exporter interface {
	Publish(ctx context.Context, userID, filename string, content []byte) (string, error)
}

// Message is one inbound text from a user
type Message struct {
	UserID   string
	UserName string
	Text     string
}

// Deps are the collaborators of a Dispatcher; Exporter may be nil, Location defaults to UTC
type Deps struct {
	Location   *time.Location
	States     States
	Records    Records
	Summaries  Summaries
	Ledger     Ledger
	Categories Categories
	Generator  Generator
	Trigger    Trigger
	Exporter   Exporter
}

// Dispatcher routes each message to a command or to the user's active dialogue
type Dispatcher struct {
	Deps
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewDispatcher creates a new dispatcher
func NewDispatcher(deps Deps, logger *zap.Logger) *Dispatcher {
	location := deps.Location
	if location == nil {
		location = time.UTC
	}
	return &Dispatcher{
		Deps:     deps,
		location: location,
		logger:   logger,
		now:      time.Now,
	}
}

// Handle processes one message and always returns exactly one reply
func (d *Dispatcher) Handle(ctx context.Context, msg Message) (reply string) {
	unlock := d.States.Lock(msg.UserID)
	defer unlock()

	text := strings.TrimSpace(msg.Text)
	cmd, isCommand := ResolveCommand(text)
	current, active := d.States.Get(msg.UserID)

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Panic while handling message",
				zap.String("user_id", msg.UserID),
				zap.String("command", cmd.String()),
				zap.String("state", string(current.Kind)),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			reply = ApologyReply
		}
	}()

	var err error
	switch {
	case isCommand:
		reply, err = d.handleCommand(ctx, msg, cmd)
	case active && isCancel(text):
		d.States.Clear(msg.UserID)
		reply = cancelReply(current.Kind)
	case active:
		reply, err = d.handleState(ctx, msg, text, current)
	default:
		reply = d.defaultReply(ctx, msg, text)
	}

	if err != nil {
		d.logger.Error("Failed to handle message",
			zap.String("user_id", msg.UserID),
			zap.String("command", cmd.String()),
			zap.String("state", string(current.Kind)),
			zap.Error(err),
		)
		return ApologyReply
	}

	return reply
}

func (d *Dispatcher) handleCommand(ctx context.Context, msg Message, cmd Command) (string, error) {
	switch cmd {
	case CommandHelp:
		return helpText, nil
	case CommandGoals:
		return d.startGoals(ctx, msg)
	case CommandDiary:
		return d.startDiary(ctx, msg)
	case CommandVocabulary:
		d.States.Set(msg.UserID, domain.ConversationState{Kind: domain.DialogueVocabularyEntry})
		return fmt.Sprintf("OK %s! Send the words you studied today (several at once is fine, separate them with commas):", displayName(msg)), nil
	case CommandSummary:
		summary, err := d.Summaries.Today(ctx, msg.UserID)
		if err != nil {
			return "", err
		}
		if msg.UserName != "" {
			summary.UserName = msg.UserName
		}
		return service.FormatDailySummary(summary), nil
	case CommandExpense:
		return d.startExpense(ctx, msg)
	case CommandExpenseSummary:
		summary, err := d.Ledger.Summary(ctx, msg.UserID, expenseSummaryDays)
		if err != nil {
			return "", err
		}
		return service.FormatExpenseSummary(summary, expenseSummaryDays), nil
	case CommandExportExpense:
		return d.export(ctx, msg)
	case CommandTest:
		d.States.Set(msg.UserID, domain.ConversationState{Kind: domain.DialogueTestMenu})
		return fmt.Sprintf(testMenuText, displayName(msg)), nil
	}

	return "", fmt.Errorf("unhandled command %s", cmd)
}

func (d *Dispatcher) handleState(ctx context.Context, msg Message, text string, current domain.ConversationState) (string, error) {
	switch current.Kind {
	case domain.DialogueGoalEntry:
		return d.continueGoals(ctx, msg, text, current)
	case domain.DialogueDiaryEntry:
		if err := d.Records.SaveDiary(ctx, msg.UserID, text); err != nil {
			return "", err
		}
		d.States.Clear(msg.UserID)
		return fmt.Sprintf("✅ Diary saved!\n\n%s's diary for today:\n%s\n\nThanks for sharing your day! 📝", displayName(msg), text), nil
	case domain.DialogueVocabularyEntry:
		if err := d.Records.AddVocabulary(ctx, msg.UserID, text); err != nil {
			return "", err
		}
		d.States.Clear(msg.UserID)
		return fmt.Sprintf("✅ Vocabulary saved!\n\nWords %s studied today:\n%s\n\nKeep up the good work! 📚", displayName(msg), text), nil
	case domain.DialogueExpenseEntry:
		return d.continueExpense(ctx, msg, text)
	case domain.DialogueTestMenu:
		defer d.States.Clear(msg.UserID)
		return d.runTest(ctx, msg, text)
	}

	d.States.Clear(msg.UserID)
	return "", fmt.Errorf("unknown dialogue kind %q", current.Kind)
}

func (d *Dispatcher) startGoals(ctx context.Context, msg Message) (string, error) {
	goals, err := d.Records.TodayGoals(ctx, msg.UserID)
	if err != nil {
		return "", err
	}

	if goals != nil && hasAny(goals.Goals) {
		var b strings.Builder
		fmt.Fprintf(&b, "📋 %s's goals for today:\n\n", displayName(msg))
		for i, g := range goals.Goals {
			if g == "" {
				g = "Not set"
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, g)
		}
		b.WriteString("\nWant to set them again? Reply \"reset goals\".")
		return b.String(), nil
	}

	d.States.Set(msg.UserID, domain.ConversationState{Kind: domain.DialogueGoalEntry})
	return fmt.Sprintf("OK %s! Let's set today's %d goals.\n\nPlease enter goal 1:", displayName(msg), domain.GoalsPerDay), nil
}

func (d *Dispatcher) continueGoals(ctx context.Context, msg Message, text string, current domain.ConversationState) (string, error) {
	if current.Step < 0 || current.Step >= domain.GoalsPerDay {
		d.States.Clear(msg.UserID)
		return "", fmt.Errorf("goal step %d out of range", current.Step)
	}

	current.Goals[current.Step] = text
	current.Step++

	if current.Step < domain.GoalsPerDay {
		d.States.Set(msg.UserID, current)
		return fmt.Sprintf("Great! Please enter goal %d:", current.Step+1), nil
	}

	if err := d.Records.SaveGoals(ctx, msg.UserID, current.Goals); err != nil {
		return "", err
	}
	d.States.Clear(msg.UserID)

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Goals saved!\n\n%s's goals for today:\n", displayName(msg))
	for i, g := range current.Goals {
		fmt.Fprintf(&b, "%d. %s\n", i+1, g)
	}
	b.WriteString("\nYou can do it! 💪")
	return b.String(), nil
}

func (d *Dispatcher) startDiary(ctx context.Context, msg Message) (string, error) {
	diary, err := d.Records.TodayDiary(ctx, msg.UserID)
	if err != nil {
		return "", err
	}

	if diary != nil && diary.Content != "" {
		return fmt.Sprintf("📝 %s's diary for today:\n\n%s\n\nWant to write it again? Reply \"rewrite diary\".", displayName(msg), diary.Content), nil
	}

	d.States.Set(msg.UserID, domain.ConversationState{Kind: domain.DialogueDiaryEntry})
	return fmt.Sprintf("OK %s! What happened today that is worth writing down?", displayName(msg)), nil
}

func (d *Dispatcher) startExpense(ctx context.Context, msg Message) (string, error) {
	expenses, err := d.Ledger.TodayExpenses(ctx, msg.UserID)
	if err != nil {
		return "", err
	}

	if len(expenses) > 0 {
		summary, err := d.Ledger.Summary(ctx, msg.UserID, 1)
		if err != nil {
			return "", err
		}
		d.States.Set(msg.UserID, domain.ConversationState{Kind: domain.DialogueExpenseEntry})
		return service.FormatDaily(expenses, summary) + "\n\nWant to add another? Send it as: amount category description", nil
	}

	categories, err := d.Categories.UserCategories(ctx, msg.UserID)
	if err != nil {
		return "", err
	}
	if len(categories) > categoryHintLimit {
		categories = categories[:categoryHintLimit]
	}

	lines := make([]string, 0, len(categories))
	for _, c := range categories {
		lines = append(lines, "• "+c)
	}

	d.States.Set(msg.UserID, domain.ConversationState{Kind: domain.DialogueExpenseEntry})
	return fmt.Sprintf(expenseIntroText, displayName(msg), strings.Join(lines, "\n")), nil
}

func (d *Dispatcher) continueExpense(ctx context.Context, msg Message, text string) (string, error) {
	if isFinishExpense(text) {
		d.States.Clear(msg.UserID)
		return "✅ Expense recording finished.", nil
	}

	if name, ok := parseAddCategory(text); ok {
		if name == "" {
			return "Please include the category name, for example: add category Pets", nil
		}
		err := d.Categories.AddCategory(ctx, msg.UserID, name)
		if reason, ok := validationReason(err); ok {
			return "❌ " + reason, nil
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("✅ Category \"%s\" added!", strings.TrimSpace(name)), nil
	}

	parsed, err := service.ParseExpense(text)
	if errors.Is(err, service.ErrParseFailure) {
		return formatHelpText, nil
	}
	if err != nil {
		return "", err
	}

	_, err = d.Ledger.AddExpense(ctx, msg.UserID, parsed.Amount, parsed.Category, parsed.Description)
	if reason, ok := validationReason(err); ok {
		return "❌ " + reason, nil
	}
	if err != nil {
		return "", err
	}

	expenses, err := d.Ledger.TodayExpenses(ctx, msg.UserID)
	if err != nil {
		return "", err
	}
	summary, err := d.Ledger.Summary(ctx, msg.UserID, 1)
	if err != nil {
		return "", err
	}

	return "✅ Expense recorded!\n\n" + service.FormatDaily(expenses, summary) +
		"\n\nSend the next expense to continue, or \"done\" to finish.", nil
}

func (d *Dispatcher) runTest(ctx context.Context, msg Message, text string) (string, error) {
	task, ok := resolveTestTrigger(text)
	if !ok {
		return "Please send one of the test commands: test-morning, test-evening, test-summary, test-vocabulary.", nil
	}

	err := d.Trigger.RunForUser(ctx, task, msg.UserID)
	if errors.Is(err, mail.ErrNotConfigured) {
		return "Email is not configured, so no summary was sent.", nil
	}
	if err != nil {
		return "", fmt.Errorf("run %s for user: %w", task, err)
	}

	switch task {
	case domain.TaskSummary:
		return "Test summary sent!", nil
	case domain.TaskVocabulary:
		return "Test vocabulary reminder sent!", nil
	}
	return fmt.Sprintf("Test %s message sent!", task), nil
}

func (d *Dispatcher) export(ctx context.Context, msg Message) (string, error) {
	content, count, err := d.Ledger.ExportCSV(ctx, msg.UserID, service.DefaultExportDays)
	if err != nil {
		return "", err
	}
	if count == 0 {
		return fmt.Sprintf("No expenses in the last %d days to export.", service.DefaultExportDays), nil
	}

	filename := fmt.Sprintf("expenses_%s.csv", d.now().In(d.location).Format("20060102"))
	header := fmt.Sprintf("📊 Expense export\n\n📁 File: %s\n📄 Records: %d\n📅 Range: last %d days\n\n",
		filename, count, service.DefaultExportDays)

	if d.Exporter != nil {
		url, err := d.Exporter.Publish(ctx, msg.UserID, filename, []byte(content))
		if err == nil {
			return header + "⬇️ Download (valid for 24 hours):\n" + url, nil
		}
		d.logger.Warn("Failed to publish export, sending inline",
			zap.String("user_id", msg.UserID),
			zap.Error(err),
		)
	}

	inline, truncated := truncate(content, inlineExportLimit)
	reply := header + "Copy the CSV below:\n\n" + inline
	if truncated {
		reply += "...\n\n(Truncated.)"
	}
	return reply, nil
}

func (d *Dispatcher) defaultReply(ctx context.Context, msg Message, text string) string {
	answer, err := d.Generator.Generate(ctx, domain.PromptChat, displayName(msg), text)
	if err == nil && strings.TrimSpace(answer) != "" {
		return answer
	}
	if err != nil {
		d.logger.Debug("AI reply unavailable, using fallback",
			zap.String("user_id", msg.UserID),
			zap.Error(err),
		)
	}
	return fmt.Sprintf(fallbackText, displayName(msg), text)
}

func validationReason(err error) (string, bool) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return ve.Reason, true
	}
	return "", false
}

func cancelReply(kind domain.DialogueKind) string {
	switch kind {
	case domain.DialogueGoalEntry:
		return "Goal setting cancelled."
	case domain.DialogueDiaryEntry:
		return "Diary entry cancelled."
	case domain.DialogueVocabularyEntry:
		return "Vocabulary entry cancelled."
	case domain.DialogueExpenseEntry:
		return "Expense recording cancelled."
	}
	return "Cancelled."
}

func displayName(msg Message) string {
	if msg.UserName != "" {
		return msg.UserName
	}
	return "there"
}

func hasAny(goals [domain.GoalsPerDay]string) bool {
	for _, g := range goals {
		if g != "" {
			return true
		}
	}
	return false
}

// truncate cuts s to at most limit runes
func truncate(s string, limit int) (string, bool) {
	runes := []rune(s)
	if len(runes) <= limit {
		return s, false
	}
	return string(runes[:limit]), true
}
