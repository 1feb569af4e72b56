package generator

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// GroqBaseURL is the OpenAI-compatible endpoint of Groq Cloud.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// Request is a single chat completion request. An empty System is omitted.
type Request struct {
	Model       string
	System      string
	User        string
	Temperature float64
	MaxTokens   int
	TopP        float64
}

// Completer returns the text of a single chat completion.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// OpenAI is a Completer backed by an OpenAI-compatible API.
type OpenAI struct {
	client *openai.Client
}

// NewOpenAI returns a Completer for the API at baseURL. An empty baseURL selects Groq.
func NewOpenAI(apiKey, baseURL string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL == "" {
		baseURL = GroqBaseURL
	}
	cfg.BaseURL = baseURL
	return &OpenAI{client: openai.NewClientWithConfig(cfg)}
}

// Complete implements Completer.
func (o *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.User})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
		TopP:        float32(req.TopP),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}
