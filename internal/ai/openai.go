package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"habitbot/internal/domain"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned when no API key is set
var ErrNotConfigured = errors.New("ai: api key not configured")

const requestTimeout = 30 * time.Second

// Config holds OpenAI connection settings
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

type completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Assistant generates short coaching texts with a chat completion model
type Assistant struct {
	client  completer
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewAssistant creates an assistant; without an API key every call falls back
func NewAssistant(cfg Config, logger *zap.Logger) *Assistant {
	a := &Assistant{
		model:   cfg.Model,
		timeout: requestTimeout,
		logger:  logger,
	}
	if a.model == "" {
		a.model = openai.GPT3Dot5Turbo
	}
	if cfg.APIKey == "" {
		return a
	}

	openaiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		openaiCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	a.client = openai.NewClientWithConfig(openaiCfg)
	return a
}

// Enabled reports whether an API key was configured
func (a *Assistant) Enabled() bool {
	return a.client != nil
}

// Generate asks the model for a text of the given kind
func (a *Assistant) Generate(ctx context.Context, kind domain.PromptKind, userName, extra string) (string, error) {
	if a.client == nil {
		return "", ErrNotConfigured
	}

	p, err := buildPrompt(kind, userName, extra)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.system},
			{Role: openai.ChatMessageRoleUser, Content: p.user},
		},
		MaxTokens:   p.maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty choices from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Compose returns generated text or the fallback for kind; it never fails
func (a *Assistant) Compose(ctx context.Context, kind domain.PromptKind, userName, extra string) string {
	text, err := a.Generate(ctx, kind, userName, extra)
	if err != nil {
		if !errors.Is(err, ErrNotConfigured) {
			a.logger.Warn("AI generation failed, using fallback",
				zap.String("kind", string(kind)),
				zap.Error(err),
			)
		}
		return Fallback(kind, userName)
	}
	if text == "" {
		return Fallback(kind, userName)
	}
	return text
}

// Fallback returns the fixed text used when generation is unavailable
func Fallback(kind domain.PromptKind, userName string) string {
	switch kind {
	case domain.PromptMorning:
		return fmt.Sprintf("Hi %s, what are the 3 things you want to get done today?", userName)
	case domain.PromptEvening:
		return fmt.Sprintf("Hi %s, what happened today that is worth writing down?", userName)
	case domain.PromptVocabulary:
		return fmt.Sprintf("Reminder: %s, remember to study your vocabulary!", userName)
	}
	return ""
}
