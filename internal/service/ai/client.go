package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"personachat/internal/config"
	"personachat/internal/models"
)

// Options control a single completion call.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float32
}

// Client sends chat completions to the configured external provider. The
// provider is opaque to callers; swapping it never touches orchestration.
type Client struct {
	chatModel model.ToolCallingChatModel
}

// NewClient builds the chat model for the configured provider.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	var chatModel model.ToolCallingChatModel
	var err error

	switch cfg.Provider {
	case "openai":
		chatModel, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			Model:  cfg.ChatModel,
			APIKey: cfg.APIKey,
		})
	case "gemini":
		var client *genai.Client
		client, err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey: cfg.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("init gemini client: %w", err)
		}
		chatModel, err = gemini.NewChatModel(ctx, &gemini.Config{
			Client: client,
			Model:  cfg.ChatModel,
		})
	case "claude":
		chatModel, err = claude.NewChatModel(ctx, &claude.Config{
			APIKey:    cfg.APIKey,
			Model:     cfg.ChatModel,
			MaxTokens: cfg.ReplyMaxTokens,
		})
	default:
		return nil, fmt.Errorf("invalid provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s chat model: %w", cfg.Provider, err)
	}

	return &Client{chatModel: chatModel}, nil
}

// Complete sends one completion request built as [system] + mapped history +
// [new user prompt], preserving history order. Returns the generated text,
// or an empty string when the provider returns no content.
func (c *Client) Complete(ctx context.Context, system string, history []models.Message, prompt string, opts Options) (string, error) {
	messages := buildMessages(system, history, prompt)
	callOpts := []model.Option{
		model.WithModel(opts.Model),
		model.WithMaxTokens(opts.MaxTokens),
		model.WithTemperature(opts.Temperature),
	}
	resp, err := c.chatModel.Generate(ctx, messages, callOpts...)
	if err != nil {
		return "", wrapUpstream(err)
	}
	if resp == nil {
		return "", nil
	}
	return resp.Content, nil
}

// buildMessages assembles the wire sequence: system instruction first, the
// caller's history in order with authors mapped to user/assistant, the new
// prompt last.
func buildMessages(system string, history []models.Message, prompt string) []*schema.Message {
	messages := make([]*schema.Message, 0, len(history)+2)
	messages = append(messages, &schema.Message{
		Role:    schema.System,
		Content: system,
	})
	for _, msg := range history {
		role := schema.Assistant
		if msg.Role == models.RoleUser {
			role = schema.User
		}
		messages = append(messages, &schema.Message{
			Role:    role,
			Content: msg.Content,
		})
	}
	messages = append(messages, &schema.Message{
		Role:    schema.User,
		Content: prompt,
	})
	return messages
}
