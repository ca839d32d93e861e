// Package assistant calls an OpenAI-compatible completion gateway to
// answer customer questions about the catalog: free-form project advice
// and identify-a-tool-by-description search. The catalog snapshot is
// folded into the system prompt on every call; the assistant has no other
// access to the store.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Patricemapiye-ctrl/navira-forge/config"
	"github.com/Patricemapiye-ctrl/navira-forge/models"
)

// ErrNotConfigured is returned when no gateway API key is set.
var ErrNotConfigured = errors.New("assistant: gateway API key not configured")

// Doer abstracts the HTTP client for testing.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the completion gateway.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	httpc   Doer
}

// New creates a gateway client from configuration.
func New(cfg config.AssistantConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.GatewayURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// WithHTTPClient swaps the underlying HTTP client. Used by tests.
func (c *Client) WithHTTPClient(d Doer) *Client {
	c.httpc = d
	return c
}

// Chat answers a free-form customer message with the catalog as context.
func (c *Client) Chat(ctx context.Context, message string, items []models.InventoryItem) (string, error) {
	system := fmt.Sprintf(`You are a helpful hardware store assistant for Navira Hardware. Your job is to help customers find the right tools and equipment for their projects.

Available inventory:
%s

Guidelines:
- Be friendly, helpful, and knowledgeable about hardware and tools
- When customers describe a job or project, recommend specific tools from the inventory
- If a customer describes a tool they don't know the name of, help identify it
- Explain why you're recommending certain tools
- If a tool isn't in inventory, let them know and suggest alternatives if possible
- Keep responses concise but informative`, inventoryContext(items))

	return c.complete(ctx, system, message)
}

// Identify maps a tool description to likely catalog items, answering in
// JSON with possibleTools, confidence and explanation fields.
func (c *Client) Identify(ctx context.Context, description string, items []models.InventoryItem) (string, error) {
	system := fmt.Sprintf(`You are a hardware tool identifier. Based on the user's description, identify what tool they might be looking for.

Available inventory:
%s

Return a JSON response with:
{
  "possibleTools": ["tool1", "tool2"],
  "confidence": "high/medium/low",
  "explanation": "brief explanation of why these tools match"
}

Only suggest tools that are in the inventory.`, inventoryContext(items))

	return c.complete(ctx, system, description)
}

func inventoryContext(items []models.InventoryItem) string {
	if len(items) == 0 {
		return "No inventory available"
	}

	var b strings.Builder
	for _, item := range items {
		desc := "No description"
		if item.Description != nil && *item.Description != "" {
			desc = *item.Description
		}
		fmt.Fprintf(&b, "- %s (%s): %s - R%.2f\n", item.ItemName, item.Category, desc, item.UnitPrice)
	}
	return strings.TrimRight(b.String(), "\n")
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
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("assistant: gateway request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("assistant: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("assistant: gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("assistant: decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("assistant: gateway error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("assistant: gateway returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}
