package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hannahhealth/sms-gateway/backend/internal/conversation"
)

// AIChatClient calls the hosted AI chat backend over HTTP. Calls fail fast:
// one attempt with a client timeout, no retries, so the webhook answers
// within a single SMS round trip.
type AIChatClient struct {
	baseURL string
	client  *http.Client
}

// NewAIChatClient creates a client for the AI chat backend
func NewAIChatClient(baseURL string) *AIChatClient {
	return &AIChatClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type chatRequest struct {
	Message             string                 `json:"message"`
	ConversationHistory []conversation.Message `json:"conversationHistory"`
	Context             chatContext            `json:"context"`
}

type chatContext struct {
	SystemPrompt string `json:"systemPrompt"`
	Channel      string `json:"channel"`
}

type chatResponse struct {
	Response string `json:"response"`
	Message  string `json:"message"`
}

// Chat sends one message with trailing history and returns the model reply
func (c *AIChatClient) Chat(ctx context.Context, message string, history []conversation.Message, systemPrompt string) (string, error) {
	reqBody := chatRequest{
		Message:             message,
		ConversationHistory: history,
		Context: chatContext{
			SystemPrompt: systemPrompt,
			Channel:      "sms",
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI backend returned status %d: %s", resp.StatusCode, string(body))
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	// The backend answers with either {response} or {message}
	reply := result.Response
	if reply == "" {
		reply = result.Message
	}
	if reply == "" {
		return "", fmt.Errorf("empty reply from AI backend")
	}

	return reply, nil
}
