package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/diffcommit/diffcommit/internal/pkg/config"
	apperrors "github.com/diffcommit/diffcommit/internal/pkg/errors"
	"github.com/diffcommit/diffcommit/internal/pkg/security"
)

// OpenAIBackend generates messages with any OpenAI-compatible chat completions API.
type OpenAIBackend struct {
	client   *openai.Client
	endpoint string
}

// NewOpenAIBackend creates a hosted OpenAI-compatible backend. endpoint may be
// empty for the public OpenAI API.
func NewOpenAIBackend(credential, endpoint string, opts ...Option) (*OpenAIBackend, error) {
	if err := security.ValidateAPIKeyFormat(string(config.ProviderOpenAI), credential); err != nil {
		return nil, apperrors.NewInvalidBackendConfigError("openai", err)
	}

	o := buildOptions(opts)
	if endpoint == "" {
		endpoint = o.endpoint
	}

	// Create OpenAI client configuration
	clientConfig := openai.DefaultConfig(strings.TrimSpace(credential))

	// Support custom endpoints (for OpenAI-compatible APIs)
	if endpoint != "" {
		if err := validateHTTPURL(endpoint); err != nil {
			return nil, apperrors.NewInvalidBackendConfigError("openai", err)
		}
		clientConfig.BaseURL = strings.TrimRight(endpoint, "/")
	}
	clientConfig.HTTPClient = o.httpClient

	return &OpenAIBackend{
		client:   openai.NewClientWithConfig(clientConfig),
		endpoint: clientConfig.BaseURL,
	}, nil
}

// Name returns the backend name.
func (b *OpenAIBackend) Name() string {
	return string(config.ProviderOpenAI)
}

// Generate sends one chat completion request and normalizes the first choice.
func (b *OpenAIBackend) Generate(ctx context.Context, diff string, cfg config.GenerationConfig) (*Result, error) {
	prompt := BuildPrompt(diff, cfg)

	chatReq := openai.ChatCompletionRequest{
		Model: cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: prompt.System,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt.User,
			},
		},
		Temperature: float32(cfg.Temperature),
		MaxTokens:   cfg.MaxTokens,
	}

	apperrors.LogAPIRequest(b.Name(), b.endpoint, cfg.Model, len(prompt.User))
	startTime := time.Now()

	resp, err := b.client.CreateChatCompletion(ctx, chatReq)

	var stopReason string
	if err == nil && len(resp.Choices) > 0 {
		stopReason = string(resp.Choices[0].FinishReason)
	}
	apperrors.LogCompletion(b.Name(), stopReason, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	if err != nil {
		return nil, wrapOpenAIError(err)
	}

	var text string
	if len(resp.Choices) > 0 {
		text = Normalize(resp.Choices[0].Message.Content)
	}

	apperrors.LogAPIResponse(b.Name(), http.StatusOK, len(text), time.Since(startTime))

	return newResult(text, true, stopReason, resp.Usage.PromptTokens, resp.Usage.CompletionTokens), nil
}

// wrapOpenAIError maps a go-openai error onto the hosted error taxonomy.
func wrapOpenAIError(err error) error {
	if isCanceled(err) {
		apperrors.Debug("OpenAI request cancelled: %v", err)
		return apperrors.NewCancelledError(err)
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		apperrors.Error("OpenAI API Error (%d): %s", apiErr.HTTPStatusCode, apiErr.Message)
		return mapHostedStatus("OpenAI", apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		apperrors.Error("OpenAI API Error (%d): %v", reqErr.HTTPStatusCode, reqErr.Err)
		return mapHostedStatus("OpenAI", reqErr.HTTPStatusCode, reqErr.Error(), err)
	}

	apperrors.Error("Unknown error: %v", err)
	return apperrors.NewUnknownError(err)
}
