package dialogue

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"habitbot/internal/domain"
)

// Command is a stateless or state-entering instruction recognized anywhere in a conversation
type Command int

const (
	CommandNone Command = iota
	CommandHelp
	CommandGoals
	CommandDiary
	CommandVocabulary
	CommandSummary
	CommandExpense
	CommandExpenseSummary
	CommandExportExpense
	CommandTest
)

var commandNames = map[Command]string{
	CommandNone:           "none",
	CommandHelp:           "help",
	CommandGoals:          "goals",
	CommandDiary:          "diary",
	CommandVocabulary:     "vocabulary",
	CommandSummary:        "summary",
	CommandExpense:        "expense",
	CommandExpenseSummary: "expense-summary",
	CommandExportExpense:  "export-expense",
	CommandTest:           "test",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// Keys are normalized: trimmed, lowercased, without the leading slash
var synonyms = map[string]Command{
	"help": CommandHelp, "幫助": CommandHelp, "指令": CommandHelp, "功能": CommandHelp,

	"goals": CommandGoals, "目標": CommandGoals, "設定目標": CommandGoals,

	"diary": CommandDiary, "日記": CommandDiary, "記錄日記": CommandDiary,

	"vocabulary": CommandVocabulary, "單字": CommandVocabulary, "背單字": CommandVocabulary,

	"summary": CommandSummary, "總結": CommandSummary, "今日總結": CommandSummary,

	"expense": CommandExpense, "記帳": CommandExpense, "支出": CommandExpense,

	"expense_summary": CommandExpenseSummary, "expense-summary": CommandExpenseSummary,
	"記帳統計": CommandExpenseSummary, "支出統計": CommandExpenseSummary,

	"export_expense": CommandExportExpense, "export-expense": CommandExportExpense,
	"匯出記帳": CommandExportExpense, "匯出支出": CommandExportExpense,

	"test": CommandTest, "測試": CommandTest,
}

// ResolveCommand maps message text to a command through the synonym table
func ResolveCommand(text string) (Command, bool) {
	key := strings.ToLower(strings.TrimSpace(text))
	if strings.HasPrefix(key, "/") {
		key = strings.TrimPrefix(key, "/")
		// Telegram appends the bot name in groups: /goals@habit_bot
		if i := strings.Index(key, "@"); i > 0 {
			key = key[:i]
		}
	}

	cmd, ok := synonyms[key]
	return cmd, ok
}

var cancelWords = map[string]bool{
	"cancel": true,
	"quit":   true,
	"取消":     true,
	"退出":     true,
}

func isCancel(text string) bool {
	return cancelWords[strings.ToLower(strings.TrimSpace(text))]
}

var finishExpenseWords = map[string]bool{
	"complete": true,
	"done":     true,
	"完成":       true,
}

func isFinishExpense(text string) bool {
	return finishExpenseWords[strings.ToLower(strings.TrimSpace(text))]
}

var testTriggers = map[string]domain.Task{
	"test-morning":    domain.TaskMorning,
	"test-evening":    domain.TaskEvening,
	"test-summary":    domain.TaskSummary,
	"test-vocabulary": domain.TaskVocabulary,
	"測試早晨":            domain.TaskMorning,
	"測試晚上":            domain.TaskEvening,
	"測試總結":            domain.TaskSummary,
	"測試單字":            domain.TaskVocabulary,
}

func resolveTestTrigger(text string) (domain.Task, bool) {
	task, ok := testTriggers[strings.ToLower(strings.TrimSpace(text))]
	return task, ok
}

type categoryPrefix struct {
	text string
	// English prefixes must be followed by whitespace or end the message
	needsSpace bool
}

var addCategoryPrefixes = []categoryPrefix{
	{text: "add category", needsSpace: true},
	{text: "新增分類", needsSpace: false},
}

// parseAddCategory reports whether text is an add-category request and returns the requested name
func parseAddCategory(text string) (string, bool) {
	text = strings.TrimSpace(text)
	for _, p := range addCategoryPrefixes {
		if len(text) < len(p.text) || !strings.EqualFold(text[:len(p.text)], p.text) {
			continue
		}

		rest := text[len(p.text):]
		if p.needsSpace && rest != "" {
			if r, _ := utf8.DecodeRuneInString(rest); !unicode.IsSpace(r) {
				continue
			}
		}
		return strings.TrimSpace(rest), true
	}
	return "", false
}
