package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/tidwall/gjson"

	"github.com/diffcommit/diffcommit/internal/pkg/config"
	apperrors "github.com/diffcommit/diffcommit/internal/pkg/errors"
	"github.com/diffcommit/diffcommit/internal/pkg/security"
)

// DefaultAnthropicEndpoint is the base URL of the Anthropic API.
const DefaultAnthropicEndpoint = "https://api.anthropic.com"

// AnthropicBackend generates messages with the Anthropic Messages API.
type AnthropicBackend struct {
	client   anthropic.Client
	endpoint string
}

// NewAnthropicBackend creates a hosted backend. It fails before any network
// call when the credential is missing or malformed.
func NewAnthropicBackend(credential string, opts ...Option) (*AnthropicBackend, error) {
	if err := security.ValidateAPIKeyFormat(string(config.ProviderAnthropic), credential); err != nil {
		return nil, apperrors.NewInvalidBackendConfigError("anthropic", err)
	}

	o := buildOptions(opts)
	endpoint := o.endpoint
	if endpoint == "" {
		endpoint = DefaultAnthropicEndpoint
	} else if err := validateHTTPURL(endpoint); err != nil {
		return nil, apperrors.NewInvalidBackendConfigError("anthropic", err)
	}

	client := anthropic.NewClient(
		option.WithAPIKey(strings.TrimSpace(credential)),
		option.WithBaseURL(endpoint),
		option.WithHTTPClient(o.httpClient),
		option.WithMaxRetries(0),
	)

	return &AnthropicBackend{
		client:   client,
		endpoint: endpoint,
	}, nil
}

// Name returns the backend name.
func (b *AnthropicBackend) Name() string {
	return string(config.ProviderAnthropic)
}

// Generate sends one Messages request and normalizes the text blocks of the reply.
func (b *AnthropicBackend) Generate(ctx context.Context, diff string, cfg config.GenerationConfig) (res *Result, err error) {
	prompt := BuildPrompt(diff, cfg)

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(cfg.Model),
		MaxTokens:   int64(cfg.MaxTokens),
		Temperature: anthropic.Float(cfg.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: prompt.System},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt.User)),
		},
	}

	apperrors.LogAPIRequest(b.Name(), b.endpoint, cfg.Model, len(prompt.User))
	startTime := time.Now()

	var msg *anthropic.Message
	defer func() {
		// Stop reason and usage are recorded whether or not the call succeeded.
		if msg == nil {
			apperrors.LogCompletion(b.Name(), "", 0, 0)
			return
		}
		apperrors.LogCompletion(b.Name(), string(msg.StopReason), int(msg.Usage.InputTokens), int(msg.Usage.OutputTokens))
	}()

	msg, err = b.client.Messages.New(ctx, params)
	if err != nil {
		return nil, wrapAnthropicError(err)
	}

	var texts []string
	for _, block := range msg.Content {
		if block.Type == "text" {
			texts = append(texts, block.Text)
		}
	}
	text := Normalize(strings.Join(texts, "\n"))

	apperrors.LogAPIResponse(b.Name(), http.StatusOK, len(text), time.Since(startTime))

	// Hosted generations are always treated as finished; the stop reason is only logged.
	return newResult(text, true, string(msg.StopReason), int(msg.Usage.InputTokens), int(msg.Usage.OutputTokens)), nil
}

// wrapAnthropicError maps an SDK error onto the hosted error taxonomy.
func wrapAnthropicError(err error) error {
	if isCanceled(err) {
		apperrors.Debug("Anthropic request cancelled: %v", err)
		return apperrors.NewCancelledError(err)
	}
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		apperrors.Error("Unknown error: %v", err)
		return apperrors.NewUnknownError(err)
	}

	message := backendMessage(apiErr)
	apperrors.Error("Anthropic API Error (%d): %s", apiErr.StatusCode, message)

	return mapHostedStatus("Anthropic", apiErr.StatusCode, message, err)
}

// backendMessage extracts error.message from the API's JSON error body.
func backendMessage(apiErr *anthropic.Error) string {
	if msg := gjson.Get(apiErr.RawJSON(), "error.message").String(); msg != "" {
		return msg
	}
	if msg := apiErr.Error(); msg != "" {
		return msg
	}
	return "Unknown Anthropic API error"
}

// mapHostedStatus turns an HTTP status from a hosted API into an AppError.
func mapHostedStatus(provider string, status int, message string, cause error) error {
	switch status {
	case http.StatusBadRequest:
		return apperrors.NewBadRequestError(cause)
	case http.StatusUnauthorized:
		return apperrors.NewAuthenticationError(cause)
	case http.StatusForbidden:
		return apperrors.NewPermissionDeniedError(cause)
	case http.StatusTooManyRequests:
		return apperrors.NewRateLimitError(cause, message)
	case http.StatusInternalServerError:
		return apperrors.NewBackendServerError(provider, cause)
	default:
		return apperrors.NewAIProviderError(cause, message)
	}
}

// validateHTTPURL checks that raw is an absolute http or https URL.
func validateHTTPURL(raw string) error {
	if _, err := ParseHostname(raw); err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", raw, err)
	}
	return nil
}
