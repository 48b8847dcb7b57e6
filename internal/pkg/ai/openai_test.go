package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diffcommit/diffcommit/internal/pkg/config"
	apperrors "github.com/diffcommit/diffcommit/internal/pkg/errors"
)

const testOpenAIKey = "sk-test-openai-key-000000"

func chatCompletion(content, finishReason string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-mini",
		"choices": []map[string]interface{}{
			{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": finishReason,
			},
		},
		"usage": map[string]int{"prompt_tokens": 30, "completion_tokens": 12, "total_tokens": 42},
	})
	return string(body)
}

func openAIGeneration() config.GenerationConfig {
	cfg := defaultGeneration()
	cfg.Provider = config.ProviderOpenAI
	cfg.Model = "gpt-4o-mini"
	return cfg
}

func TestNewOpenAIBackend_FailsFast(t *testing.T) {
	tests := []struct {
		name       string
		credential string
		endpoint   string
	}{
		{"empty key", "", ""},
		{"whitespace key", "   ", ""},
		{"wrong prefix", "pk-123456789", ""},
		{"bad endpoint", testOpenAIKey, "localhost:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewOpenAIBackend(tt.credential, tt.endpoint)
			require.Error(t, err)
			assert.Nil(t, b)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrInvalidBackendConfig))
		})
	}
}

func TestOpenAIBackend_Generate(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer "+testOpenAIKey, r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, chatCompletion("```\nfix(api): handle nil body\n\n* guard against empty payloads\n```", "stop"))
	}))
	defer server.Close()

	b, err := NewOpenAIBackend(testOpenAIKey, server.URL+"/v1/")
	require.NoError(t, err)
	assert.Equal(t, "openai", b.Name())

	res, err := b.Generate(context.Background(), "diff --git a/api.go b/api.go", openAIGeneration())
	require.NoError(t, err)

	assert.Equal(t, "fix(api): handle nil body\n\n- guard against empty payloads", res.Message)
	assert.Equal(t, OutcomeComplete, res.Outcome)
	assert.Equal(t, "stop", res.StopReason)
	assert.Equal(t, 30, res.InputTokens)
	assert.Equal(t, 12, res.OutputTokens)

	assert.Equal(t, "gpt-4o-mini", got["model"])
	assert.EqualValues(t, 1024, got["max_tokens"])

	messages := got["messages"].([]interface{})
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])
	assert.Equal(t, SystemPrompt, messages[0].(map[string]interface{})["content"])
	assert.Equal(t, "user", messages[1].(map[string]interface{})["role"])
	assert.Contains(t, messages[1].(map[string]interface{})["content"], "diff --git a/api.go b/api.go")
}

func TestOpenAIBackend_Generate_Outcomes(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		finish   string
		expected Outcome
	}{
		{"stop", "feat: add flag", "stop", OutcomeComplete},
		{"length is only logged", "feat: add fl", "length", OutcomeComplete},
		{"empty", "", "stop", OutcomeEmpty},
		{"only a fence", "```", "stop", OutcomeEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, chatCompletion(tt.content, tt.finish))
			}))
			defer server.Close()

			b, err := NewOpenAIBackend(testOpenAIKey, server.URL+"/v1")
			require.NoError(t, err)

			res, err := b.Generate(context.Background(), "diff", openAIGeneration())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, res.Outcome)
		})
	}
}

func TestOpenAIBackend_Generate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		code     apperrors.ErrorCode
		contains string
	}{
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			body:   `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`,
			code:   apperrors.ErrAuthenticationFailed,
		},
		{
			name:     "rate limited",
			status:   http.StatusTooManyRequests,
			body:     `{"error":{"message":"Rate limit reached for requests","type":"requests","code":"rate_limit_exceeded"}}`,
			code:     apperrors.ErrRateLimited,
			contains: "Rate limit reached for requests",
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			body:     `{"error":{"message":"boom","type":"server_error"}}`,
			code:     apperrors.ErrBackendServer,
			contains: "OpenAI API server error",
		},
		{
			name:     "unmapped status",
			status:   http.StatusServiceUnavailable,
			body:     `{"error":{"message":"The engine is currently overloaded","type":"server_error"}}`,
			code:     apperrors.ErrAIProviderFailed,
			contains: "The engine is currently overloaded",
		},
		{
			name:   "non JSON error body",
			status: http.StatusBadRequest,
			body:   `<html>bad gateway config</html>`,
			code:   apperrors.ErrBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			b, err := NewOpenAIBackend(testOpenAIKey, server.URL+"/v1")
			require.NoError(t, err)

			_, err = b.Generate(context.Background(), "diff", openAIGeneration())
			require.Error(t, err)

			appErr := apperrors.GetAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.code, appErr.Code)
			if tt.contains != "" {
				assert.Contains(t, appErr.Message, tt.contains)
			}
		})
	}
}
