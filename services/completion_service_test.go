package services

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
)

type stubCompleter struct {
	resp openai.ChatCompletionResponse
	err  error

	lastRequest openai.ChatCompletionRequest
}

func (s *stubCompleter) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.lastRequest = request
	return s.resp, s.err
}

func TestCompletionClient_Complete(t *testing.T) {
	ctx := context.Background()
	prompt := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: "system"},
		{Role: openai.ChatMessageRoleUser, Content: "Γεια"},
	}

	t.Run("returns the first choice and passes parameters through", func(t *testing.T) {
		stub := &stubCompleter{
			resp: openai.ChatCompletionResponse{
				Choices: []openai.ChatCompletionChoice{
					{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "Γεια σας!"}},
					{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "δεύτερη επιλογή"}},
				},
			},
		}
		client := &completionClient{client: stub}

		result := client.Complete(ctx, "gpt-3.5-turbo", prompt, 0.7, 500)
		assert.False(t, result.Fallback)
		assert.Empty(t, result.Err)
		assert.Equal(t, "Γεια σας!", result.Text)
		assert.Equal(t, "gpt-3.5-turbo", stub.lastRequest.Model)
		assert.Equal(t, float32(0.7), stub.lastRequest.Temperature)
		assert.Equal(t, 500, stub.lastRequest.MaxTokens)
		assert.Equal(t, prompt, stub.lastRequest.Messages)
	})

	t.Run("API error maps to the Greek fallback with diagnostic detail", func(t *testing.T) {
		stub := &stubCompleter{err: errors.New("429 rate limit exceeded")}
		client := &completionClient{client: stub}

		result := client.Complete(ctx, "gpt-3.5-turbo", prompt, 0.7, 500)
		assert.True(t, result.Fallback)
		assert.Equal(t, FallbackResponse, result.Text)
		assert.Contains(t, result.Err, "rate limit")
	})

	t.Run("empty choice list maps to the fallback", func(t *testing.T) {
		stub := &stubCompleter{resp: openai.ChatCompletionResponse{}}
		client := &completionClient{client: stub}

		result := client.Complete(ctx, "gpt-3.5-turbo", prompt, 0.7, 500)
		assert.True(t, result.Fallback)
		assert.Equal(t, FallbackResponse, result.Text)
		assert.NotEmpty(t, result.Err)
	})
}
