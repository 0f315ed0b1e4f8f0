package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"

	"github.com/dyike/StockSage/consts"
)

const (
	DefaultAnthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"
)

type AnthropicConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// LoadAnthropicConfig reads ANTHROPIC_API_KEY and ANTHROPIC_BASE_URL.
func LoadAnthropicConfig() AnthropicConfig {
	return AnthropicConfig{
		APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		BaseURL: os.Getenv("ANTHROPIC_BASE_URL"),
	}
}

// AnthropicClient calls the Messages API once per Generate. It keeps no
// conversation state and never retries.
type AnthropicClient struct {
	client *resty.Client
	model  string
}

var _ Recommender = (*AnthropicClient)(nil)

func NewAnthropicClient(cfg AnthropicConfig) (*AnthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, &MissingKeyError{EnvVar: "ANTHROPIC_API_KEY"}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultAnthropicBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultAnthropicModel
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("x-api-key", cfg.APIKey).
		SetHeader("anthropic-version", anthropicVersion).
		SetHeader("content-type", "application/json")

	return &AnthropicClient{client: client, model: cfg.Model}, nil
}

func (c *AnthropicClient) Name() string {
	return consts.ProviderAnthropic
}

type messageParam struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string         `json:"model"`
	MaxTokens int            `json:"max_tokens"`
	System    string         `json:"system"`
	Messages  []messageParam `json:"messages"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messagesResponse struct {
	ID         string         `json:"id"`
	Model      string         `json:"model"`
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

type errorResponse struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// APIError is a non-2xx answer from the Messages API.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("anthropic http %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("anthropic http %d: %s: %s", e.StatusCode, e.Type, e.Message)
}

// Generate sends prompt as the only user message and returns the text of
// the first content block unchanged.
func (c *AnthropicClient) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	o := applyOptions(opts)
	model := c.model
	if o.model != "" {
		model = o.model
	}

	var result messagesResponse
	var apiErr errorResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(messagesRequest{
			Model:     model,
			MaxTokens: MaxTokens,
			System:    SystemPrompt,
			Messages:  []messageParam{{Role: "user", Content: prompt}},
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/v1/messages")
	if err != nil {
		return "", err
	}

	if resp.IsError() {
		e := &APIError{
			StatusCode: resp.StatusCode(),
			Type:       apiErr.Error.Type,
			Message:    apiErr.Error.Message,
		}
		if e.Message == "" {
			e.Message = truncate(resp.String(), 200)
		}
		return "", e
	}

	if len(result.Content) == 0 {
		return "", ErrEmptyResponse
	}
	return result.Content[0].Text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
