package testutil

import (
	"context"

	"habitbot/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockGenerator is a mock for the AI text generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, kind domain.PromptKind, userName, extra string) (string, error) {
	args := m.Called(ctx, kind, userName, extra)
	return args.String(0), args.Error(1)
}

// MockTrigger is a mock for the per-user scheduler trigger
type MockTrigger struct {
	mock.Mock
}

func (m *MockTrigger) RunForUser(ctx context.Context, task domain.Task, userID string) error {
	args := m.Called(ctx, task, userID)
	return args.Error(0)
}

// MockExporter is a mock for the export publisher
type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Publish(ctx context.Context, userID, filename string, content []byte) (string, error) {
	args := m.Called(ctx, userID, filename, content)
	return args.String(0), args.Error(1)
}

// MockMessenger is a mock for outbound chat pushes
type MockMessenger struct {
	mock.Mock
}

func (m *MockMessenger) Push(ctx context.Context, userID, text string) error {
	args := m.Called(ctx, userID, text)
	return args.Error(0)
}
