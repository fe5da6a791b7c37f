package handler

import (
	"strings"
	"unicode"

	"habitbot/internal/dialogue"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// callbackCommand extracts the button's unique name; raw data looks like "\funique|payload"
func callbackCommand(cb *tele.Callback) string {
	if cb.Unique != "" {
		return cb.Unique
	}
	data := cleanCallbackData(cb.Data)
	if i := strings.Index(data, "|"); i >= 0 {
		data = data[:i]
	}
	return data
}

// handleCallback runs the command behind a main menu button
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil || c.Sender() == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	command := callbackCommand(callback)
	h.logger.Info("handleCallback: Processing callback",
		zap.String("command", command),
		zap.String("data_raw", callback.Data),
		zap.String("id", callback.ID),
		zap.String("user_id", userID(c.Sender())),
	)

	if _, ok := dialogue.ResolveCommand(command); !ok {
		return c.Respond(&tele.CallbackResponse{Text: "This button is no longer available."})
	}

	// Always acknowledge callback before sending the reply
	if err := c.Respond(); err != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
	}

	return c.Send(h.dispatch(c, command))
}
