package chat

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolhub/backend/core"
)

type completerMock struct {
	reply    string
	err      error
	messages []Message
}

func (m *completerMock) Complete(_ context.Context, messages []Message) (string, error) {
	m.messages = messages
	return m.reply, m.err
}

type loggerMock struct {
	buf bytes.Buffer
}

func (l *loggerMock) log(msg string, args ...interface{}) {
	log.New(&l.buf, "", 0).Println(append([]interface{}{msg}, args...)...)
}

func (l *loggerMock) Debug(msg string, args ...interface{}) { l.log(msg, args...) }
func (l *loggerMock) Info(msg string, args ...interface{})  { l.log(msg, args...) }
func (l *loggerMock) Warn(msg string, args ...interface{})  { l.log(msg, args...) }
func (l *loggerMock) Error(msg string, args ...interface{}) { l.log(msg, args...) }
func (l *loggerMock) Fatal(msg string, args ...interface{}) { l.log(msg, args...) }

var _ core.Logger = (*loggerMock)(nil)

func TestCannedReply(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{query: "What is my TIMETABLE?", want: cannedReplies[0].reply},
		{query: "show my schedule", want: cannedReplies[0].reply},
		{query: "when is the next exam", want: cannedReplies[1].reply},
		{query: "attendance please", want: cannedReplies[2].reply},
		{query: "my marks", want: cannedReplies[3].reply},
		{query: "payment due?", want: cannedReplies[4].reply},
		{query: "help", want: cannedReplies[5].reply},
		{query: "hello there", want: defaultReply},
		// first group wins
		{query: "exam schedule", want: cannedReplies[0].reply},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, CannedReply(tt.query))
		})
	}
}

func TestService_Chat(t *testing.T) {
	ctx := context.Background()

	t.Run("missing message", func(t *testing.T) {
		svc := NewService(nil, &loggerMock{})
		for _, msg := range []string{"", "   "} {
			_, err := svc.Chat(ctx, Request{Message: msg})
			assert.Equal(t, ErrMissingMessage, err)
		}
	})

	t.Run("no completer", func(t *testing.T) {
		svc := NewService(nil, &loggerMock{})
		reply, err := svc.Chat(ctx, Request{Message: "my attendance"})
		require.NoError(t, err)
		assert.Equal(t, CannedReply("attendance"), reply.Reply)
	})

	t.Run("completion forwarded with history", func(t *testing.T) {
		completer := &completerMock{reply: "Hi from upstream"}
		svc := NewService(completer, &loggerMock{})

		reply, err := svc.Chat(ctx, Request{
			Message: "and tomorrow?",
			History: []HistoryItem{
				{Sender: "user", Text: "what's on today?"},
				{Sender: "bot", Text: "Maths at 9"},
				{Sender: "user"}, // skipped
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "Hi from upstream", reply.Reply)
		assert.Equal(t, []Message{
			{Role: RoleUser, Content: "what's on today?"},
			{Role: RoleAssistant, Content: "Maths at 9"},
			{Role: RoleUser, Content: "and tomorrow?"},
		}, completer.messages)
	})

	t.Run("upstream failure falls back", func(t *testing.T) {
		logger := &loggerMock{}
		svc := NewService(&completerMock{err: errors.New("503")}, logger)

		reply, err := svc.Chat(ctx, Request{Message: "grade report"})
		require.NoError(t, err)
		assert.Equal(t, CannedReply("grade"), reply.Reply)
		assert.Contains(t, logger.buf.String(), "503")
	})

	t.Run("empty completion falls back", func(t *testing.T) {
		svc := NewService(&completerMock{}, &loggerMock{})
		reply, err := svc.Chat(ctx, Request{Message: "hey"})
		require.NoError(t, err)
		assert.Equal(t, defaultReply, reply.Reply)
	})
}
