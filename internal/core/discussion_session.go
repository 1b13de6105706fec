package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyMessage  = errors.New("message is empty")
	ErrSessionBusy   = errors.New("an answer is already in flight")
	ErrSessionClosed = errors.New("discussion session is closed")
)

const fallbackAnswer = "Sorry, I had trouble processing your request. Please try again."

// Answerer is the slice of DiscussionService a session needs; tests
// substitute fakes.
type Answerer interface {
	Answer(ctx context.Context, product DisplayProduct, history []Message) (Message, error)
}

// DiscussionSession is one open conversation thread about a single
// product. It lives only while its panel is open: closing discards it,
// reopening starts a fresh session with a new greeting. The session is
// owned by a single actor; the pending gate guarantees at most one
// in-flight answer request by construction.
type DiscussionSession struct {
	product  DisplayProduct
	answerer Answerer
	messages []Message
	pending  bool
	closed   bool
}

func NewDiscussionSession(product DisplayProduct, answerer Answerer) *DiscussionSession {
	name := product.Name
	if name == "" {
		name = "this product"
	}
	greeting := Message{
		Role:    RoleAssistant,
		Content: fmt.Sprintf("Hi there! I'm TechToday's AI assistant. Ask me anything about %s and I'll try to answer it to the best of my ability!", name),
	}
	return &DiscussionSession{
		product:  product,
		answerer: answerer,
		messages: []Message{greeting},
	}
}

func (s *DiscussionSession) Product() DisplayProduct { return s.product }

// Messages returns a copy of the history so callers cannot bypass the
// append-only discipline.
func (s *DiscussionSession) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *DiscussionSession) Pending() bool { return s.pending }

// Close discards the session. An answer already in flight is allowed
// to finish; its result is dropped.
func (s *DiscussionSession) Close() {
	s.closed = true
}

// Submit runs one turn: append the user's message, ask the answer
// service, append its reply. A failed call appends a fixed apology
// instead; the conversation is never rolled back. The session always
// returns to the idle state afterwards.
func (s *DiscussionSession) Submit(ctx context.Context, input string) error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.pending {
		return ErrSessionBusy
	}
	if strings.TrimSpace(input) == "" {
		return ErrEmptyMessage
	}

	s.messages = append(s.messages, Message{Role: RoleUser, Content: input})
	s.pending = true
	defer func() { s.pending = false }()

	reply, err := s.answerer.Answer(ctx, s.product, s.messages)
	if s.closed {
		// The panel went away while the request was in flight; do not
		// touch torn-down state.
		return ErrSessionClosed
	}
	if err != nil {
		s.messages = append(s.messages, Message{Role: RoleAssistant, Content: fallbackAnswer})
		return nil
	}

	s.messages = append(s.messages, reply)
	return nil
}
