package domain

import "time"

// User represents a chat platform user known to the bot
type User struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// DialogueKind identifies the multi-step interaction a user is in
type DialogueKind string

const (
	DialogueGoalEntry       DialogueKind = "goal_entry"
	DialogueDiaryEntry      DialogueKind = "diary_entry"
	DialogueVocabularyEntry DialogueKind = "vocabulary_entry"
	DialogueExpenseEntry    DialogueKind = "expense_entry"
	DialogueTestMenu        DialogueKind = "test_menu"
)

// GoalsPerDay is the number of goals collected by the goal dialogue
const GoalsPerDay = 3

// ConversationState holds temporary data for user's current dialogue
type ConversationState struct {
	Kind  DialogueKind
	Step  int
	Goals [GoalsPerDay]string
}
