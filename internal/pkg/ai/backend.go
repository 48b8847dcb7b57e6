// Package ai provides the generation backends and prompt handling for diffcommit.
package ai

import (
	"context"
	"errors"
	"net/http"

	"github.com/diffcommit/diffcommit/internal/pkg/config"
)

// Outcome classifies a finished generation.
type Outcome int

const (
	// OutcomeComplete is usable text from a generation that finished naturally.
	OutcomeComplete Outcome = iota
	// OutcomeIncomplete is usable text from a generation that was cut short.
	OutcomeIncomplete
	// OutcomeEmpty means nothing was left after normalization.
	OutcomeEmpty
)

// String returns the outcome name used in logs and history.
func (o Outcome) String() string {
	switch o {
	case OutcomeComplete:
		return "complete"
	case OutcomeIncomplete:
		return "incomplete"
	case OutcomeEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Result is what a backend produced for one diff.
type Result struct {
	Message      string
	Outcome      Outcome
	StopReason   string
	InputTokens  int
	OutputTokens int
}

// newResult classifies normalized text. finished is false when the backend
// reported that it stopped before completing its output.
func newResult(text string, finished bool, stopReason string, inputTokens, outputTokens int) *Result {
	r := &Result{
		Message:      text,
		StopReason:   stopReason,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
	}
	switch {
	case text == "":
		r.Outcome = OutcomeEmpty
	case !finished:
		r.Outcome = OutcomeIncomplete
	default:
		r.Outcome = OutcomeComplete
	}
	return r
}

// isCanceled reports whether err comes from the caller's context ending.
func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Backend generates a commit message for a diff.
// Generate makes exactly one request and never retries. Failures are
// returned as *errors.AppError values carrying the user-facing message.
type Backend interface {
	Name() string
	Generate(ctx context.Context, diff string, cfg config.GenerationConfig) (*Result, error)
}

// options holds settings shared by every backend constructor.
type options struct {
	endpoint   string
	httpClient *http.Client
}

// Option configures a backend.
type Option func(*options)

// WithEndpoint overrides the base URL of a hosted backend.
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		o.endpoint = endpoint
	}
}

// WithHTTPClient sets the HTTP client used for backend requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

func buildOptions(opts []Option) options {
	o := options{httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = http.DefaultClient
	}
	return o
}
