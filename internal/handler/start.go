package handler

import (
	"context"
	"fmt"

	"habitbot/internal/dialogue"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const welcomeText = `👋 Hi %s, welcome!

I help you build small daily habits:
🎯 set 3 goals every morning
📝 write a short diary in the evening
📚 log the vocabulary you studied
💰 keep track of your expenses

Pick an action below or send "help" for all commands.`

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	id := userID(sender)
	name := displayName(sender)

	h.logger.Info("User started bot",
		zap.String("user_id", id),
		zap.String("username", sender.Username),
	)

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	if err := h.users.Register(ctx, id, name); err != nil {
		h.logger.Error("Failed to register user",
			zap.String("user_id", id),
			zap.Error(err),
		)
		return c.Send(dialogue.ApologyReply)
	}

	if name == "" {
		name = "there"
	}
	return c.Send(fmt.Sprintf(welcomeText, name), mainMenuMarkup())
}

// handleMembership logs when a user blocks or unblocks the bot; nothing is cleaned up
func (h *Handler) handleMembership(c tele.Context) error {
	update := c.ChatMember()
	if update == nil || update.NewChatMember == nil {
		return nil
	}

	fields := []zap.Field{zap.String("role", string(update.NewChatMember.Role))}
	if update.Sender != nil {
		fields = append(fields, zap.String("user_id", userID(update.Sender)))
	}

	switch update.NewChatMember.Role {
	case tele.Kicked, tele.Left:
		h.logger.Info("User unfollowed bot", fields...)
	case tele.Member:
		h.logger.Info("User followed bot", fields...)
	}
	return nil
}
