package middleware

import (
	"context"
	"strconv"
	"strings"
	"time"

	"habitbot/internal/dialogue"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const ensureTimeout = 5 * time.Second

// UserEnsurer creates a user record on first contact
type UserEnsurer interface {
	EnsureUser(ctx context.Context, userID, name string) error
}

// EnsureUser creates middleware that registers unknown senders before handling
func EnsureUser(users UserEnsurer, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return next(c)
			}

			userID := strconv.FormatInt(sender.ID, 10)
			name := strings.TrimSpace(sender.FirstName + " " + sender.LastName)
			if name == "" {
				name = sender.Username
			}

			ctx, cancel := context.WithTimeout(context.Background(), ensureTimeout)
			defer cancel()

			// Ensure user exists
			if err := users.EnsureUser(ctx, userID, name); err != nil {
				logger.Error("Failed to ensure user exists in middleware",
					zap.String("user_id", userID),
					zap.Error(err),
				)
				return c.Send(dialogue.ApologyReply)
			}

			return next(c)
		}
	}
}
