package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	"techtoday.app/daily-digest/internal/config"
)

// LLMService backs the Completer interface with Gemini. Model and
// temperature come from configuration.
type LLMService struct {
	client *genai.Client
}

func NewLLMService() *LLMService {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		log.Fatalf("Failed to create GenAI client: %v", err)
	}

	return &LLMService{
		client: client,
	}
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		} else {
			log.Println("GenAI client closed.")
		}
	}
}

// Complete sends one conversation to Gemini and returns the reply
// text. The caller supplies the full history every time; nothing is
// retained between calls.
func (s *LLMService) Complete(ctx context.Context, systemInstruction string, history []Message) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("prompt history is empty for chat completion")
	}

	model := s.client.GenerativeModel(config.AppConfig.ChatModel)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}

	temp := config.AppConfig.ChatTemperature
	model.GenerationConfig = genai.GenerationConfig{
		Temperature: &temp,
	}

	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		contents = append(contents, &genai.Content{
			Role:  genaiRole(msg.Role),
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	chatSession := model.StartChat()
	chatSession.History = contents[:len(contents)-1]

	last := contents[len(contents)-1]
	if last.Role != "user" {
		return "", fmt.Errorf("last message in history is not from 'user', cannot proceed with chat completion")
	}

	resp, err := chatSession.SendMessage(ctx, last.Parts...)
	if err != nil {
		return "", fmt.Errorf("gemini chat SendMessage failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini response was empty or had no valid candidates")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}

	if responseText.Len() == 0 {
		return "", fmt.Errorf("gemini response contained no text parts")
	}

	return responseText.String(), nil
}

// genaiRole maps the wire roles onto what Gemini expects; the
// assistant role is "model" there.
func genaiRole(role string) string {
	if role == RoleAssistant {
		return "model"
	}
	return "user"
}
