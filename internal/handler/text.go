package handler

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleText passes every text message to the dialogue and sends its reply
func (h *Handler) handleText(c tele.Context) error {
	if c.Sender() == nil {
		return nil
	}
	text := strings.TrimSpace(c.Text())
	if text == "" {
		return nil
	}

	requestID := uuid.NewString()
	log := h.logger.With(
		zap.String("request_id", requestID),
		zap.String("user_id", userID(c.Sender())),
	)
	log.Debug("Text received", zap.Int("length", len(text)))

	reply := h.dispatch(c, text)

	if err := c.Send(reply); err != nil {
		log.Error("Failed to send reply", zap.Error(err))
		return err
	}
	return nil
}
