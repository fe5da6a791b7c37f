package testutil

import (
	tele "gopkg.in/telebot.v3"
)

// FakeContext is a telebot context for handler tests; methods not overridden panic
type FakeContext struct {
	tele.Context

	User      *tele.User
	TextValue string
	Cb        *tele.Callback
	Member    *tele.ChatMemberUpdate
	SendErr   error
	Sent      []interface{}
	Options   [][]interface{}
	Answered  []*tele.CallbackResponse
}

var _ tele.Context = (*FakeContext)(nil)

// NewFakeContext creates a context for a text message from user id
func NewFakeContext(id int64, firstName, text string) *FakeContext {
	return &FakeContext{
		User:      &tele.User{ID: id, FirstName: firstName},
		TextValue: text,
	}
}

func (c *FakeContext) Sender() *tele.User {
	return c.User
}

func (c *FakeContext) Text() string {
	return c.TextValue
}

func (c *FakeContext) Callback() *tele.Callback {
	return c.Cb
}

func (c *FakeContext) ChatMember() *tele.ChatMemberUpdate {
	return c.Member
}

func (c *FakeContext) Send(what interface{}, opts ...interface{}) error {
	c.Sent = append(c.Sent, what)
	c.Options = append(c.Options, opts)
	return c.SendErr
}

func (c *FakeContext) Respond(resp ...*tele.CallbackResponse) error {
	if len(resp) == 0 {
		c.Answered = append(c.Answered, nil)
		return nil
	}
	c.Answered = append(c.Answered, resp...)
	return nil
}

// LastSent returns the last sent text or ""
func (c *FakeContext) LastSent() string {
	if len(c.Sent) == 0 {
		return ""
	}
	s, _ := c.Sent[len(c.Sent)-1].(string)
	return s
}
