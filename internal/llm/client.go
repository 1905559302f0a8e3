// Package llm issues streaming requests to an OpenAI-compatible
// chat-completions endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/fbarret/chatter/internal/stream"
)

// ChatMessage is one turn of the outgoing request window.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type Client struct {
	baseURL string
	token   string
	model   string
	http    *http.Client
	logger  *zap.Logger
}

// New builds a client for the endpoint at baseURL (e.g.
// "https://api.openai.com/v1"). No request timeout is set; streaming
// responses stay open as long as the provider keeps sending.
func New(baseURL, token, model string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		model:   model,
		http:    &http.Client{},
		logger:  logger,
	}
}

func (c *Client) Model() string { return c.model }

// StreamChat sends the message window with stream enabled and assembles the
// framed response. publish receives each growing partial. A transport
// failure or non-2xx status returns an error without any partials; no retry
// is attempted.
func (c *Client) StreamChat(ctx context.Context, messages []ChatMessage, publish func(partial string)) (string, error) {
	body, err := json.Marshal(chatRequest{Model: c.model, Messages: messages, Stream: true})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("completion endpoint returned %d: %s",
			resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	return stream.Assemble(resp.Body, publish), nil
}
