// Package grok extracts structured book data from the Grok (xAI) chat
// completions API. Prompts come from internal/prompts and responses are
// parsed with internal/jsonextract, so model chatter around the JSON
// payload is tolerated.
package grok

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lepinkainen/athenaeum/internal/config"
	"github.com/lepinkainen/athenaeum/internal/fetch"
	"github.com/lepinkainen/athenaeum/internal/prompts"
	"github.com/lepinkainen/athenaeum/internal/ratelimit"
)

const (
	defaultBaseURL = "https://api.x.ai/v1"
	// Grok quota is tight; space requests well apart.
	requestIntervalSeconds = 2.0
	defaultTemperature     = 0.2
)

// Client talks to the Grok chat completions endpoint.
type Client struct {
	fetcher   *fetch.Client
	limiter   *ratelimit.Limiter
	templates *prompts.Set
	baseURL   string
	apiKey    string
	model     string
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithModel overrides the model name.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTemplates sets the prompt template set.
func WithTemplates(set *prompts.Set) Option {
	return func(c *Client) {
		if set != nil {
			c.templates = set
		}
	}
}

// WithFetcher sets a custom retrying HTTP client. The Authorization header
// is still added per request.
func WithFetcher(f *fetch.Client) Option {
	return func(c *Client) {
		if f != nil {
			c.fetcher = f
		}
	}
}

// NewClient creates a Grok client. An unusable API key does not fail
// construction; every operation short-circuits to empty instead.
func NewClient(apiKey string, opts ...Option) *Client {
	client := &Client{
		limiter:   ratelimit.NewInterval("Grok", requestIntervalSeconds),
		templates: prompts.Default(),
		baseURL:   defaultBaseURL,
		apiKey:    apiKey,
		model:     config.GrokModel,
	}
	if client.model == "" {
		client.model = "grok-3-mini"
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.fetcher == nil {
		client.fetcher = fetch.New(fetch.WithHeader("Authorization", "Bearer "+apiKey))
	}

	return client
}

// usable reports whether requests should be attempted at all.
func (c *Client) usable() bool {
	if config.HasUsableKey(c.apiKey) {
		return true
	}
	slog.Debug("Grok API key missing or placeholder, skipping request")
	return false
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// complete renders the named template, sends it as a single user message
// and returns the raw response content.
func (c *Client) complete(ctx context.Context, template string, vars map[string]string) (string, error) {
	prompt, err := c.templates.Render(template, vars)
	if err != nil {
		return "", err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	payload := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Stream:      false,
		Temperature: defaultTemperature,
	}

	var resp chatResponse
	if err := c.fetcher.PostJSON(ctx, c.baseURL+"/chat/completions", payload, &resp); err != nil {
		return "", fmt.Errorf("grok completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("grok returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
