package handler

import (
	"context"
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v3"
)

type sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Messenger pushes unsolicited messages to users through the bot
type Messenger struct {
	bot sender
}

// NewMessenger creates a messenger backed by bot
func NewMessenger(bot *tele.Bot) *Messenger {
	return &Messenger{bot: bot}
}

// Push sends text to the chat of userID
func (m *Messenger) Push(ctx context.Context, userID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	chatID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id %q: %w", userID, err)
	}

	if _, err := m.bot.Send(tele.ChatID(chatID), text); err != nil {
		return fmt.Errorf("send to %s: %w", userID, err)
	}
	return nil
}
