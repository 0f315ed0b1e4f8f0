package llm

import (
	"context"
	"errors"
)

// SystemPrompt is sent with every recommendation request.
const SystemPrompt = "You review stock data and create estimates based on recent; " +
	"Generate buy, sell, or hold recommendations for the next 30 days " +
	"(including prices to buy and/or sell); Be brief and concise"

// PromptPrefix is the instruction line placed above the quote table.
const PromptPrefix = "Generate buy sell recommendations for the next 30 days"

// MaxTokens caps the length of a recommendation.
const MaxTokens = 5000

const (
	DefaultAnthropicModel = "claude-3-5-haiku-latest"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultDeepSeekModel  = "deepseek-chat"
)

var (
	// ErrMissingAPIKey is matched by every MissingKeyError.
	ErrMissingAPIKey = errors.New("missing api key")
	// ErrEmptyResponse means the provider answered without any text.
	ErrEmptyResponse = errors.New("empty response from model")
)

// MissingKeyError names the environment variable that should have held the
// provider credential.
type MissingKeyError struct {
	EnvVar string
}

func (e *MissingKeyError) Error() string {
	return e.EnvVar + " environment variable is required"
}

func (e *MissingKeyError) Is(target error) bool {
	return target == ErrMissingAPIKey
}

// Recommender turns a prompt into a single free-text recommendation.
type Recommender interface {
	Name() string
	Generate(ctx context.Context, prompt string, opts ...Option) (string, error)
}

type options struct {
	model string
}

type Option func(*options)

// WithModel overrides the provider's model for one call. An empty name
// keeps the default.
func WithModel(name string) Option {
	return func(o *options) {
		if name != "" {
			o.model = name
		}
	}
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// BuildPrompt places the instruction line above the rendered table.
func BuildPrompt(table string) string {
	return PromptPrefix + "\n" + table
}
