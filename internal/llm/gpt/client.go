package gpt

import (
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Client invokes OpenAI chat models for the LLM-backed guard checks. Retry
// behavior lives in the SDK transport.
type Client struct {
	api   openai.Client
	model string
}

func NewClient(apiKey string, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("OpenAI model ID is required")
	}

	api := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(3),
	)

	return &Client{
		api:   api,
		model: model,
	}, nil
}
