package ai

import (
	"fmt"

	"habitbot/internal/domain"
)

type prompt struct {
	system    string
	user      string
	maxTokens int
}

func buildPrompt(kind domain.PromptKind, userName, extra string) (prompt, error) {
	switch kind {
	case domain.PromptMorning:
		user := fmt.Sprintf("Write a warm good-morning greeting for %s that motivates them to set three goals for today. "+
			"Keep it friendly and under 100 words.", userName)
		if extra != "" {
			user += "\n\nTheir goals from yesterday:\n" + extra
		}
		return prompt{
			system:    "You are a warm personal assistant who encourages and motivates.",
			user:      user,
			maxTokens: 150,
		}, nil

	case domain.PromptEvening:
		return prompt{
			system: "You are a warm personal assistant who helps people reflect on their day.",
			user: fmt.Sprintf("Write a short evening prompt for %s encouraging them to write down "+
				"the good moments of today. Keep it under 80 words.", userName),
			maxTokens: 100,
		}, nil

	case domain.PromptVocabulary:
		return prompt{
			system: "You are a friendly study coach who encourages language learning.",
			user: fmt.Sprintf("Write a short reminder for %s to study vocabulary today, "+
				"optionally with one study tip. Keep it under 60 words.", userName),
			maxTokens: 80,
		}, nil

	case domain.PromptSummary:
		return prompt{
			system: "You are a personal growth coach who gives positive, constructive feedback.",
			user: fmt.Sprintf("Here is %s's summary of today:\n\n%s\n\n"+
				"Give a short encouraging analysis with one suggestion. Keep it under 100 words.", userName, extra),
			maxTokens: 120,
		}, nil

	case domain.PromptChat:
		return prompt{
			system: "You are a habit-tracking assistant. Users can send: goals, diary, vocabulary, expense, " +
				"expense-summary, export-expense, summary, help. Answer briefly and point to a command when useful.",
			user:      fmt.Sprintf("%s says: %s", userName, extra),
			maxTokens: 150,
		}, nil
	}

	return prompt{}, fmt.Errorf("unknown prompt kind %q", kind)
}
