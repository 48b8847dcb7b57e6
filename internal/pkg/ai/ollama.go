package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/diffcommit/diffcommit/internal/pkg/config"
	apperrors "github.com/diffcommit/diffcommit/internal/pkg/errors"
)

// OllamaBackend generates messages with a locally hosted Ollama server.
type OllamaBackend struct {
	client   *api.Client
	hostname string
	model    string
}

// NewOllamaBackend creates a local backend. It fails before any network call
// when the hostname is not an http(s) URL or the model is empty.
func NewOllamaBackend(hostname, model string, opts ...Option) (*OllamaBackend, error) {
	u, err := ParseHostname(hostname)
	if err != nil {
		return nil, apperrors.NewInvalidBackendConfigError("ollama", err)
	}
	if strings.TrimSpace(model) == "" {
		return nil, apperrors.NewInvalidBackendConfigError("ollama", errors.New("model is required"))
	}

	o := buildOptions(opts)

	return &OllamaBackend{
		client:   api.NewClient(u, o.httpClient),
		hostname: u.String(),
		model:    model,
	}, nil
}

// Name returns the backend name.
func (b *OllamaBackend) Name() string {
	return string(config.ProviderOllama)
}

// Generate sends one non-streaming generate request. The configured hosted
// model is ignored in favour of the backend's own model.
func (b *OllamaBackend) Generate(ctx context.Context, diff string, cfg config.GenerationConfig) (*Result, error) {
	prompt := BuildPrompt(diff, cfg)
	stream := false

	req := &api.GenerateRequest{
		Model:  b.model,
		System: prompt.System,
		Prompt: prompt.User,
		Stream: &stream,
		Options: map[string]interface{}{
			"temperature": cfg.Temperature,
			"num_predict": cfg.MaxTokens,
		},
	}

	apperrors.LogAPIRequest(b.Name(), b.hostname+"/api/generate", b.model, len(prompt.User))
	startTime := time.Now()

	var (
		raw      strings.Builder
		final    api.GenerateResponse
		received bool
	)
	err := b.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		raw.WriteString(resp.Response)
		final = resp
		received = true
		return nil
	})

	apperrors.LogCompletion(b.Name(), final.DoneReason, final.PromptEvalCount, final.EvalCount)

	if err != nil {
		return nil, b.wrapError(err)
	}

	text := Normalize(raw.String())
	apperrors.LogAPIResponse(b.Name(), http.StatusOK, len(text), time.Since(startTime))

	return newResult(text, received && final.Done, final.DoneReason, final.PromptEvalCount, final.EvalCount), nil
}

// wrapError maps an Ollama client error onto the local error taxonomy.
func (b *OllamaBackend) wrapError(err error) error {
	if isCanceled(err) {
		apperrors.Debug("Ollama request cancelled: %v", err)
		return apperrors.NewCancelledError(err)
	}
	apperrors.Error("Ollama API Error:\n\n%v", err)

	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusNotFound:
			return apperrors.NewModelNotFoundError(b.model, err)
		case http.StatusInternalServerError:
			return apperrors.NewBackendServerError("Ollama", err)
		default:
			return apperrors.NewLocalProviderError(err)
		}
	}

	if isConnectionError(err) {
		return apperrors.NewServerUnreachableError(b.hostname, err)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return apperrors.NewUnknownError(err)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "404"):
		return apperrors.NewModelNotFoundError(b.model, err)
	case strings.Contains(msg, "500"):
		return apperrors.NewBackendServerError("Ollama", err)
	default:
		return apperrors.NewLocalProviderError(err)
	}
}

// isConnectionError reports whether err means the server could not be reached.
func isConnectionError(err error) bool {
	if isCanceled(err) {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	return strings.Contains(err.Error(), "connection refused")
}

// ParseHostname validates an Ollama hostname and strips trailing slashes.
func ParseHostname(hostname string) (*url.URL, error) {
	hostname = strings.TrimRight(strings.TrimSpace(hostname), "/")
	if hostname == "" {
		return nil, errors.New("hostname is required")
	}

	u, err := url.Parse(hostname)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("URL must start with http:// or https:// (got %q)", hostname)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("URL has no host (got %q)", hostname)
	}
	return u, nil
}
