package llm

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ChatModelRecommender runs a recommendation through an eino chat model.
type ChatModelRecommender struct {
	name      string
	chatModel model.BaseChatModel
}

var _ Recommender = (*ChatModelRecommender)(nil)

func NewChatModelRecommender(name string, chatModel model.BaseChatModel) *ChatModelRecommender {
	return &ChatModelRecommender{name: name, chatModel: chatModel}
}

func (r *ChatModelRecommender) Name() string {
	return r.name
}

func (r *ChatModelRecommender) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	o := applyOptions(opts)

	messages := []*schema.Message{
		schema.SystemMessage(SystemPrompt),
		schema.UserMessage(prompt),
	}
	modelOpts := []model.Option{model.WithMaxTokens(MaxTokens)}
	if o.model != "" {
		modelOpts = append(modelOpts, model.WithModel(o.model))
	}

	msg, err := r.chatModel.Generate(ctx, messages, modelOpts...)
	if err != nil {
		return "", err
	}
	if msg == nil || msg.Content == "" {
		return "", ErrEmptyResponse
	}
	return msg.Content, nil
}
