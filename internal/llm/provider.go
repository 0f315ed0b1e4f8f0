package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"

	"github.com/dyike/StockSage/config"
	"github.com/dyike/StockSage/consts"
)

// NewRecommender builds the client for cfg.LLMProvider. A missing
// credential for the selected provider fails here, before any request.
func NewRecommender(ctx context.Context, cfg *config.Config) (Recommender, error) {
	switch strings.ToLower(cfg.LLMProvider) {
	case "", consts.ProviderAnthropic:
		client, err := NewAnthropicClient(anthropicConfigFor(cfg))
		if err != nil {
			return nil, err
		}
		return client, nil

	case consts.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, &MissingKeyError{EnvVar: "OPENAI_API_KEY"}
		}
		maxTokens := MaxTokens
		chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:   cfg.BackendURL,
			APIKey:    cfg.OpenAIAPIKey,
			Model:     modelOrDefault(cfg.LLMModel, DefaultOpenAIModel),
			MaxTokens: &maxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("create openai chat model: %w", err)
		}
		return NewChatModelRecommender(consts.ProviderOpenAI, chatModel), nil

	case consts.ProviderDeepSeek:
		if cfg.DeepSeekAPIKey == "" {
			return nil, &MissingKeyError{EnvVar: "DEEPSEEK_API_KEY"}
		}
		chatModel, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:    cfg.DeepSeekAPIKey,
			BaseURL:   cfg.BackendURL,
			Model:     modelOrDefault(cfg.LLMModel, DefaultDeepSeekModel),
			MaxTokens: MaxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("create deepseek chat model: %w", err)
		}
		return NewChatModelRecommender(consts.ProviderDeepSeek, chatModel), nil

	default:
		return nil, fmt.Errorf("unknown llm provider %q (want one of %s)",
			cfg.LLMProvider, strings.Join(consts.Providers(), ", "))
	}
}

func modelOrDefault(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

// anthropicConfigFor starts from the process environment and lets non-empty
// config values win, so a Config built without the environment still works.
func anthropicConfigFor(cfg *config.Config) AnthropicConfig {
	ac := LoadAnthropicConfig()
	if cfg.AnthropicAPIKey != "" {
		ac.APIKey = cfg.AnthropicAPIKey
	}
	if cfg.AnthropicBaseURL != "" {
		ac.BaseURL = cfg.AnthropicBaseURL
	}
	ac.Model = cfg.LLMModel
	return ac
}
