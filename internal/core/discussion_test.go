package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnswerer struct {
	reply   Message
	err     error
	onCall  func()
	history []Message
}

func (f *fakeAnswerer) Answer(ctx context.Context, product DisplayProduct, history []Message) (Message, error) {
	f.history = history
	if f.onCall != nil {
		f.onCall()
	}
	return f.reply, f.err
}

type fakeCompleter struct {
	instruction string
	history     []Message
	content     string
	err         error
}

func (f *fakeCompleter) Complete(ctx context.Context, systemInstruction string, history []Message) (string, error) {
	f.instruction = systemInstruction
	f.history = history
	return f.content, f.err
}

func TestBuildProductContext(t *testing.T) {
	t.Run("includes name description and attributed comments", func(t *testing.T) {
		p := DisplayProduct{
			Name:        "Acme",
			Description: "Widgets as a service",
			Comments: []Comment{
				{ID: "7", Body: "<p>Love the &amp; pricing</p>"},
				{ID: "8", Body: "Solid tool"},
			},
		}
		got := BuildProductContext(p)
		assert.Contains(t, got, "Product Name: Acme")
		assert.Contains(t, got, "Description: Widgets as a service")
		assert.Contains(t, got, `"Love the & pricing" - User ID: 7`)
		assert.Contains(t, got, `"Solid tool" - User ID: 8`)
	})

	t.Run("description falls back to summary", func(t *testing.T) {
		got := BuildProductContext(DisplayProduct{Name: "Acme", Summary: "Short pitch"})
		assert.Contains(t, got, "Description: Short pitch")
	})

	t.Run("states missing data explicitly", func(t *testing.T) {
		got := BuildProductContext(DisplayProduct{})
		assert.Contains(t, got, "Product Name: Unknown")
		assert.Contains(t, got, "Description: No description available")
		assert.Contains(t, got, "No user comments available")
	})
}

func TestDiscussionServiceAnswer(t *testing.T) {
	product := DisplayProduct{Name: "Acme", Description: "Widgets"}
	history := []Message{
		{Role: RoleAssistant, Content: "Hi!"},
		{Role: RoleUser, Content: "What is the price?"},
	}

	t.Run("prepends product context and forwards full history", func(t *testing.T) {
		completer := &fakeCompleter{content: "Acme starts at $9/mo."}
		svc := NewDiscussionService(completer)

		reply, err := svc.Answer(context.Background(), product, history)
		require.NoError(t, err)
		assert.Equal(t, RoleAssistant, reply.Role)
		assert.Equal(t, "Acme starts at $9/mo.", reply.Content)

		assert.Contains(t, completer.instruction, "PRODUCT INFORMATION:")
		assert.Contains(t, completer.instruction, "Product Name: Acme")
		assert.Contains(t, completer.instruction, "Do not refer to questions left in the user comments.")
		assert.Equal(t, history, completer.history)
	})

	t.Run("rejects empty history", func(t *testing.T) {
		svc := NewDiscussionService(&fakeCompleter{})
		_, err := svc.Answer(context.Background(), product, nil)
		assert.Error(t, err)
	})

	t.Run("rejects history not ending with user turn", func(t *testing.T) {
		svc := NewDiscussionService(&fakeCompleter{})
		_, err := svc.Answer(context.Background(), product, history[:1])
		assert.Error(t, err)
	})

	t.Run("wraps completer failures", func(t *testing.T) {
		svc := NewDiscussionService(&fakeCompleter{err: errors.New("timeout")})
		_, err := svc.Answer(context.Background(), product, history)
		assert.ErrorContains(t, err, "answer service call failed")
	})
}

func TestDiscussionSession(t *testing.T) {
	acme := DisplayProduct{Name: "Acme"}

	t.Run("seeds a greeting naming the product", func(t *testing.T) {
		s := NewDiscussionSession(acme, &fakeAnswerer{})
		messages := s.Messages()
		require.Len(t, messages, 1)
		assert.Equal(t, RoleAssistant, messages[0].Role)
		assert.Contains(t, messages[0].Content, "Acme")
		assert.False(t, s.Pending())
	})

	t.Run("greeting falls back for a nameless product", func(t *testing.T) {
		s := NewDiscussionSession(DisplayProduct{}, &fakeAnswerer{})
		assert.Contains(t, s.Messages()[0].Content, "this product")
	})

	t.Run("successful turn appends question and answer in order", func(t *testing.T) {
		answerer := &fakeAnswerer{reply: Message{Role: RoleAssistant, Content: "Acme starts at $9/mo."}}
		s := NewDiscussionSession(acme, answerer)

		require.NoError(t, s.Submit(context.Background(), "What is the price?"))

		messages := s.Messages()
		require.Len(t, messages, 3)
		assert.Equal(t, RoleAssistant, messages[0].Role)
		assert.Equal(t, RoleUser, messages[1].Role)
		assert.Equal(t, "What is the price?", messages[1].Content)
		assert.Equal(t, "Acme starts at $9/mo.", messages[2].Content)
		assert.False(t, s.Pending())

		// The answer service saw the greeting and the new question.
		require.Len(t, answerer.history, 2)
	})

	t.Run("failed turn appends the fixed apology", func(t *testing.T) {
		s := NewDiscussionSession(acme, &fakeAnswerer{err: errors.New("boom")})

		require.NoError(t, s.Submit(context.Background(), "What is the price?"))

		messages := s.Messages()
		require.Len(t, messages, 3)
		assert.Equal(t, fallbackAnswer, messages[2].Content)
		assert.False(t, s.Pending())
	})

	t.Run("empty and whitespace input change nothing", func(t *testing.T) {
		s := NewDiscussionSession(acme, &fakeAnswerer{})
		for _, input := range []string{"", "   ", "\n\t"} {
			assert.ErrorIs(t, s.Submit(context.Background(), input), ErrEmptyMessage)
		}
		assert.Len(t, s.Messages(), 1)
		assert.False(t, s.Pending())
	})

	t.Run("session is pending while the answer is in flight", func(t *testing.T) {
		var s *DiscussionSession
		var sawPending bool
		answerer := &fakeAnswerer{reply: Message{Role: RoleAssistant, Content: "ok"}}
		answerer.onCall = func() { sawPending = s.Pending() }
		s = NewDiscussionSession(acme, answerer)

		require.NoError(t, s.Submit(context.Background(), "hello"))
		assert.True(t, sawPending)
		assert.False(t, s.Pending())
	})

	t.Run("closed session rejects turns", func(t *testing.T) {
		s := NewDiscussionSession(acme, &fakeAnswerer{})
		s.Close()
		assert.ErrorIs(t, s.Submit(context.Background(), "hello"), ErrSessionClosed)
	})

	t.Run("result arriving after close is discarded", func(t *testing.T) {
		var s *DiscussionSession
		answerer := &fakeAnswerer{reply: Message{Role: RoleAssistant, Content: "too late"}}
		answerer.onCall = func() { s.Close() }
		s = NewDiscussionSession(acme, answerer)

		assert.ErrorIs(t, s.Submit(context.Background(), "hello"), ErrSessionClosed)

		messages := s.Messages()
		for _, m := range messages {
			assert.False(t, strings.Contains(m.Content, "too late"))
		}
		assert.False(t, s.Pending())
	})
}
