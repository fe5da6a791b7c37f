package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

type fakeSender struct {
	to   []tele.Recipient
	what []interface{}
	err  error
}

func (f *fakeSender) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	f.to = append(f.to, to)
	f.what = append(f.what, what)
	return &tele.Message{}, f.err
}

func TestMessenger_Push(t *testing.T) {
	s := &fakeSender{}
	m := &Messenger{bot: s}

	err := m.Push(context.Background(), "123456789", "Good morning!")

	require.NoError(t, err)
	require.Len(t, s.to, 1)
	assert.Equal(t, "123456789", s.to[0].Recipient())
	assert.Equal(t, "Good morning!", s.what[0])
}

func TestMessenger_Push_Errors(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name   string
		ctx    context.Context
		userID string
		err    error
	}{
		{name: "invalid id", ctx: context.Background(), userID: "U123"},
		{name: "send failure", ctx: context.Background(), userID: "1", err: errors.New("blocked")},
		{name: "cancelled context", ctx: cancelled, userID: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &fakeSender{err: tt.err}
			m := &Messenger{bot: s}

			assert.Error(t, m.Push(tt.ctx, tt.userID, "hi"))
		})
	}
}
