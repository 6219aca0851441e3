package llm

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// disabledNotice is returned when no API key is configured, so the rest of
// the briefing pipeline keeps working in development.
const disabledNotice = "(briefing generation disabled: no API key configured)"

// Client wraps the OpenAI chat-completion API. A nil inner client means the
// feature is disabled.
type Client struct {
	client *openai.Client
	model  shared.ChatModel
}

// New creates the client. Pass an empty apiKey to disable calls.
func New(apiKey string) *Client {
	if apiKey == "" {
		return &Client{client: nil, model: shared.ChatModelGPT4oMini}
	}
	c := openai.NewClient(option.WithAPIKey(apiKey))
	return &Client{client: &c, model: shared.ChatModelGPT4oMini}
}

// Enabled reports whether completions will actually be requested.
func (c *Client) Enabled() bool { return c.client != nil }

// Complete sends one prompt and returns the model's text response.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.client == nil {
		return disabledNotice, nil
	}

	req := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}

	resp, err := c.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
