package core

import (
	"context"
	"fmt"
	"strings"

	"techtoday.app/daily-digest/internal/utils"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a discussion, role-tagged the way the answer
// service expects it.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer is the external answer service: one "complete
// conversation" call taking a system instruction plus the full
// role-tagged history and returning the assistant's reply text. It is
// slow (seconds-scale) and fallible.
type Completer interface {
	Complete(ctx context.Context, systemInstruction string, history []Message) (string, error)
}

const noCommentsLine = "No user comments available"

const discussionInstructionsTemplate = `You are a helpful AI assistant for TechToday, a tech product discovery platform.
Your task is to answer questions about the following product based on the information provided below.

PRODUCT INFORMATION:
%s

INSTRUCTIONS:
1. When answering questions, prioritize information from the description and user comments.
2. Use specific details and quotes from user comments when relevant.
3. Be factual and only make claims supported by the product information provided.
4. If asked about something not mentioned in the provided information, acknowledge that you don't have that specific information.
5. Keep your answers helpful, informative, and focused on the product.
6. Answer with confidence. Don't use words like "seems" which convey uncertainty.
7. Do not refer to questions left in the user comments.

Remember, your goal is to help users understand this product based solely on the information provided above.`

// DiscussionService answers questions about a product. No conversation
// state is kept server-side, so the product context and the entire
// message history are rebuilt and resent on every turn. History is
// deliberately uncapped, matching the product behavior; the outbound
// payload grows linearly with the conversation.
type DiscussionService struct {
	completer Completer
}

func NewDiscussionService(completer Completer) *DiscussionService {
	return &DiscussionService{completer: completer}
}

// BuildProductContext renders the context block injected before every
// answer-service call: product name, description (tagline summary as
// fallback) and every available comment, sanitized and attributed.
func BuildProductContext(p DisplayProduct) string {
	name := p.Name
	if name == "" {
		name = "Unknown"
	}

	description := p.Description
	if description == "" {
		description = p.Summary
	}
	if description == "" {
		description = "No description available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Product Name: %s\n", name)
	fmt.Fprintf(&b, "Description: %s\n", description)

	if len(p.Comments) == 0 {
		b.WriteString(noCommentsLine)
		return b.String()
	}

	quoted := make([]string, 0, len(p.Comments))
	for _, c := range p.Comments {
		quoted = append(quoted, fmt.Sprintf("%q - User ID: %s", utils.SanitizeHTML(c.Body), c.ID))
	}
	b.WriteString("User Comments: ")
	b.WriteString(strings.Join(quoted, ", "))
	return b.String()
}

// Answer runs one discussion turn: it composes the system instruction
// from the product context and forwards the full history to the answer
// service. The last message must be the user's new turn.
func (s *DiscussionService) Answer(ctx context.Context, product DisplayProduct, history []Message) (Message, error) {
	if len(history) == 0 {
		return Message{}, fmt.Errorf("message history is empty")
	}
	if history[len(history)-1].Role != RoleUser {
		return Message{}, fmt.Errorf("last message in history is not from %q", RoleUser)
	}

	instruction := fmt.Sprintf(discussionInstructionsTemplate, BuildProductContext(product))

	content, err := s.completer.Complete(ctx, instruction, history)
	if err != nil {
		return Message{}, fmt.Errorf("answer service call failed: %w", err)
	}

	return Message{Role: RoleAssistant, Content: content}, nil
}
