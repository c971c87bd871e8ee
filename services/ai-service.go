package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/sony/gobreaker"
)

// AIService drafts task descriptions through an external generative-text
// API. Calls are wrapped in a circuit breaker and never block task CRUD; any
// failure surfaces as a generic error.
type AIService struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	apiURL  string
	apiKey  string
	model   string
}

func NewAIService(client *http.Client, breaker *gobreaker.CircuitBreaker) *AIService {
	model := os.Getenv("GENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &AIService{
		client:  client,
		breaker: breaker,
		apiURL:  os.Getenv("GENAI_API_URL"),
		apiKey:  os.Getenv("GENAI_API_KEY"),
		model:   model,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (s *AIService) GenerateDescription(ctx context.Context, title string) (string, error) {
	if s.apiURL == "" {
		return "", fmt.Errorf("description generation is not configured")
	}

	call := func() (interface{}, error) { return s.requestDescription(ctx, title) }

	var result interface{}
	var err error
	if s.breaker != nil {
		result, err = s.breaker.Execute(call)
	} else {
		result, err = call()
	}
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (s *AIService) requestDescription(ctx context.Context, title string) (string, error) {
	prompt := fmt.Sprintf("Write a short, concrete description for a task titled %q. Two or three sentences, no preamble.", title)
	payload, err := json.Marshal(chatRequest{
		Model:    s.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("generation API returned %d: %s", resp.StatusCode, body)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode generation response: %v", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("generation API returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
