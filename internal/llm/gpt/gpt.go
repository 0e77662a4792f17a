package gpt

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/supersafe-ai/guard-agent/internal/llm"
)

func (c *Client) InvokeModel(ctx context.Context, request llm.Request) (*llm.Response, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(request.Prompt),
		},
		MaxCompletionTokens: openai.Int(int64(request.MaxTokens)),
		Temperature:         openai.Float(request.Temperature),
		Model:               openai.ChatModel(c.model),
	}

	output, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("unable to invoke gpt model: %w", err)
	}

	if len(output.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	choice := output.Choices[0]
	return &llm.Response{
		Content:    choice.Message.Content,
		StopReason: fmt.Sprint(choice.FinishReason),
	}, nil
}

// Retries are delegated to the openai client, configured in NewClient.
func (c *Client) InvokeModelWithRetry(ctx context.Context, request llm.Request) (*llm.Response, error) {
	return c.InvokeModel(ctx, request)
}
