package handler

import (
	"context"
	"strconv"
	"strings"
	"time"

	"habitbot/internal/dialogue"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleTimeout bounds one inbound message, including the AI call
const handleTimeout = 60 * time.Second

// Dispatcher turns one inbound message into one reply
type Dispatcher interface {
	Handle(ctx context.Context, msg dialogue.Message) string
}

// Registrar creates or refreshes a user on follow
type Registrar interface {
	Register(ctx context.Context, userID, name string) error
}

// Handler manages all bot interactions
type Handler struct {
	bot        *tele.Bot
	dispatcher Dispatcher
	users      Registrar
	logger     *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	dispatcher Dispatcher,
	users Registrar,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:        bot,
		dispatcher: dispatcher,
		users:      users,
		logger:     logger,
	}
}

// RegisterHandlers registers all bot handlers; mw wraps message and button handlers
func (h *Handler) RegisterHandlers(mw ...tele.MiddlewareFunc) {
	// Commands
	h.bot.Handle("/start", h.handleStart)

	// Text messages, including /goals style commands
	h.bot.Handle(tele.OnText, h.handleText, mw...)

	// Main menu buttons
	for _, btn := range menuButtons {
		b := btn
		h.bot.Handle(&b, h.handleCallback, mw...)
	}
	h.bot.Handle(tele.OnCallback, h.handleCallback, mw...)

	// Follow / unfollow
	h.bot.Handle(tele.OnMyChatMember, h.handleMembership)
}

// dispatch runs text through the dialogue and returns the reply
func (h *Handler) dispatch(c tele.Context, text string) string {
	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	return h.dispatcher.Handle(ctx, dialogue.Message{
		UserID:   userID(c.Sender()),
		UserName: displayName(c.Sender()),
		Text:     text,
	})
}

func userID(u *tele.User) string {
	return strconv.FormatInt(u.ID, 10)
}

// displayName prefers the full name, then the username
func displayName(u *tele.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.Username
	}
	return name
}

// Inline keyboard buttons; Unique is the command they trigger
var (
	btnGoals = tele.Btn{
		Unique: "goals",
		Text:   "🎯 Goals",
	}
	btnDiary = tele.Btn{
		Unique: "diary",
		Text:   "📝 Diary",
	}
	btnVocabulary = tele.Btn{
		Unique: "vocabulary",
		Text:   "📚 Vocabulary",
	}
	btnExpense = tele.Btn{
		Unique: "expense",
		Text:   "💰 Expense",
	}
	btnExpenseSummary = tele.Btn{
		Unique: "expense_summary",
		Text:   "📈 Spending",
	}
	btnExport = tele.Btn{
		Unique: "export_expense",
		Text:   "📤 Export",
	}
	btnSummary = tele.Btn{
		Unique: "summary",
		Text:   "📊 Summary",
	}
	btnHelp = tele.Btn{
		Unique: "help",
		Text:   "❓ Help",
	}
)

var menuButtons = []tele.Btn{
	btnGoals, btnDiary, btnVocabulary, btnExpense,
	btnExpenseSummary, btnExport, btnSummary, btnHelp,
}

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnGoals, btnDiary),
		menu.Row(btnVocabulary, btnSummary),
		menu.Row(btnExpense, btnExpenseSummary),
		menu.Row(btnExport, btnHelp),
	)
	return menu
}
