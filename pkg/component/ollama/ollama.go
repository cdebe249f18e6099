// Package ollama provides an Ollama API client for embedding and chat.
package ollama

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ollamaopts "github.com/kart-io/finrag/pkg/options/ollama"
	"github.com/kart-io/finrag/pkg/utils/json"
)

// Client is an Ollama API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	opts       *ollamaopts.Options
}

// New creates a new Ollama client.
func New(opts *ollamaopts.Options) *Client {
	return &Client{
		baseURL: opts.BaseURL,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		opts: opts,
	}
}

// EmbedModel returns the configured embedding model name.
func (c *Client) EmbedModel() string {
	return c.opts.EmbedModel
}

// ChatModel returns the configured chat model name.
func (c *Client) ChatModel() string {
	return c.opts.ChatModel
}

// EmbedRequest is the request body for embedding.
type EmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// EmbedResponse is the response from embedding.
type EmbedResponse struct {
	Model      string      `json:"model"`
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed generates embeddings for the given texts.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	reqBody := EmbedRequest{
		Model: c.opts.EmbedModel,
		Input: texts,
	}

	var embedResp EmbedResponse
	if err := c.post(ctx, "/api/embed", reqBody, &embedResp); err != nil {
		return nil, fmt.Errorf("embed request failed: %w", err)
	}

	if len(embedResp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(embedResp.Embeddings))
	}

	return embedResp.Embeddings, nil
}

// EmbedSingle generates embedding for a single text.
func (c *Client) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return embeddings[0], nil
}

// ChatMessage represents a message in a chat conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// ChatRequest is the request body for chat completion.
type ChatRequest struct {
	Model    string         `json:"model"`
	Messages []ChatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

// ChatResponse is the response from chat completion.
type ChatResponse struct {
	Model     string      `json:"model"`
	CreatedAt string      `json:"created_at"`
	Message   ChatMessage `json:"message"`
	Done      bool        `json:"done"`
}

// Chat generates a chat completion.
func (c *Client) Chat(ctx context.Context, messages []ChatMessage) (string, error) {
	reqBody := ChatRequest{
		Model:    c.opts.ChatModel,
		Messages: messages,
		Stream:   false,
		Options: map[string]any{
			"temperature": c.opts.Temperature,
		},
	}

	var chatResp ChatResponse
	if err := c.post(ctx, "/api/chat", reqBody, &chatResp); err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}

	return chatResp.Message.Content, nil
}

// post executes a JSON POST with retry and decodes the response into out.
func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for i := 0; i <= c.opts.MaxRetries; i++ {
		// Rebuild the request each attempt so the body reader is fresh.
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if i < c.opts.MaxRetries {
				time.Sleep(time.Duration(i+1) * 500 * time.Millisecond)
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			bodyBytes, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return fmt.Errorf("request to %s failed with status %d: %s", path, resp.StatusCode, string(bodyBytes))
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	return lastErr
}

// Ping checks if the Ollama server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("failed to create ping request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping failed with status %d", resp.StatusCode)
	}

	return nil
}

// ListModels lists all available models.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create list models request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list models failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list models failed with status %d", resp.StatusCode)
	}

	var result struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode list models response: %w", err)
	}

	models := make([]string, len(result.Models))
	for i, m := range result.Models {
		models[i] = m.Name
	}

	return models, nil
}

// ModelAvailable reports whether name appears in the model list. A listed
// model may carry a tag suffix such as ":latest" that the configured name
// omits, so the comparison also matches on the tag-stripped form.
func ModelAvailable(models []string, name string) bool {
	for _, m := range models {
		if m == name || strings.SplitN(m, ":", 2)[0] == name {
			return true
		}
	}
	return false
}
