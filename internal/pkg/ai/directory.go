package ai

import (
	"context"
	"errors"
	"net/http"

	"github.com/ollama/ollama/api"

	apperrors "github.com/diffcommit/diffcommit/internal/pkg/errors"
)

// ModelLister lists the models a local server offers.
type ModelLister interface {
	ListModels(ctx context.Context, hostname string) ([]string, error)
}

// ModelDirectory lists models live from an Ollama server. Results are never cached.
type ModelDirectory struct {
	httpClient *http.Client
}

// NewModelDirectory creates a directory using the given HTTP client (nil for the default).
func NewModelDirectory(httpClient *http.Client) *ModelDirectory {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ModelDirectory{httpClient: httpClient}
}

// ListModels returns the model names installed on the server at hostname, in server order.
func (d *ModelDirectory) ListModels(ctx context.Context, hostname string) ([]string, error) {
	u, err := ParseHostname(hostname)
	if err != nil {
		return nil, err
	}

	resp, err := api.NewClient(u, d.httpClient).List(ctx)
	if err != nil {
		apperrors.Debug("listing models at %s failed: %v", u, err)
		return nil, err
	}

	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// IsNotFound reports whether a directory error is an HTTP 404 from the server.
func IsNotFound(err error) bool {
	var statusErr api.StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}

// IsUnreachable reports whether a directory error means the server could not be reached.
func IsUnreachable(err error) bool {
	return err != nil && !IsNotFound(err) && isConnectionError(err)
}
