package services

import (
	"context"
	"log"

	openai "github.com/sashabaranov/go-openai"

	"github.com/BigManDrewskii/greekgpt/config"
)

// FallbackResponse is returned to the end user whenever the external
// completion call fails. Chat turns never hard-fail from the user's
// perspective.
const FallbackResponse = "Συγγνώμη, αντιμετωπίζω ένα πρόβλημα αυτή τη στιγμή. Παρακαλώ δοκιμάστε ξανά σε λίγα λεπτά."

// CompletionResult is the outcome of a completion attempt. When the
// external call fails, Fallback is true, Text carries FallbackResponse and
// Err retains the original error text as diagnostic detail. The caller
// decides how to present it; no error is propagated.
type CompletionResult struct {
	Text     string
	Fallback bool
	Err      string
}

// CompletionClient generates assistant replies from an ordered prompt.
type CompletionClient interface {
	Complete(ctx context.Context, model string, messages []openai.ChatCompletionMessage, temperature float32, maxTokens int) CompletionResult
}

// chatCompleter is the slice of *openai.Client the completion client needs.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type completionClient struct {
	client chatCompleter
}

// NewCompletionClient creates a completion client from the given
// credentials. The configuration is held by the client itself, not read
// from global state on each call.
func NewCompletionClient(cfg config.OpenAIConfig) CompletionClient {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &completionClient{client: openai.NewClientWithConfig(clientConfig)}
}

// Complete performs a single synchronous completion attempt. There is no
// retry; a failed attempt maps directly to the fallback result.
func (c *completionClient) Complete(ctx context.Context, model string, messages []openai.ChatCompletionMessage, temperature float32, maxTokens int) CompletionResult {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		log.Printf("ERROR: [CompletionClient] Completion call failed for model '%s': %v", model, err)
		return CompletionResult{Text: FallbackResponse, Fallback: true, Err: err.Error()}
	}
	if len(resp.Choices) == 0 {
		log.Printf("ERROR: [CompletionClient] Completion for model '%s' returned no choices.", model)
		return CompletionResult{Text: FallbackResponse, Fallback: true, Err: "completion returned no choices"}
	}
	return CompletionResult{Text: resp.Choices[0].Message.Content}
}
