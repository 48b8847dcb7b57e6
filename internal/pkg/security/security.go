// Package security provides credential validation, masking and storage for diffcommit.
package security

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// AnthropicKeyPrefix is the prefix every Anthropic API key carries.
	AnthropicKeyPrefix = "sk-ant-api"
	// OpenAIKeyPrefix is the prefix of OpenAI-style keys.
	OpenAIKeyPrefix = "sk-"
)

// MaskAPIKey masks an API key, showing only the last 4 characters.
// This should be used when logging or displaying API keys.
func MaskAPIKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

// ValidateAPIKeyFormat validates the format of an API key for a given provider.
// Returns nil if the key format is valid, or an error with the text shown to the user.
func ValidateAPIKeyFormat(provider, apiKey string) error {
	// Ollama doesn't require API key
	if provider == "ollama" {
		return nil
	}

	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return fmt.Errorf("API Key is required")
	}

	switch provider {
	case "anthropic":
		if !strings.HasPrefix(apiKey, AnthropicKeyPrefix) {
			return fmt.Errorf("Invalid Anthropic API Key format. Should start with %s", AnthropicKeyPrefix)
		}
	case "openai":
		if !strings.HasPrefix(apiKey, OpenAIKeyPrefix) {
			return fmt.Errorf("Invalid OpenAI API Key format. Should start with %s", OpenAIKeyPrefix)
		}
	}

	return nil
}

// sensitivePatterns are masked by SanitizeForLogging, in order.
var sensitivePatterns = []struct {
	regex       *regexp.Regexp
	replacement string
}{
	// Anthropic keys (sk-ant-...)
	{regexp.MustCompile(`sk-ant-[a-zA-Z0-9_-]{10,}`), "sk-ant-****"},
	// API keys (sk-...)
	{regexp.MustCompile(`sk-[a-zA-Z0-9]{20,}`), "sk-****"},
	// Bearer tokens
	{regexp.MustCompile(`Bearer\s+[a-zA-Z0-9._-]+`), "Bearer ****"},
	// x-api-key headers
	{regexp.MustCompile(`(?i)(x-api-key)\s*:\s*\S+`), "$1: ****"},
	// Generic API key patterns
	{regexp.MustCompile(`(?i)(api[_-]?key|apikey|api_secret|secret[_-]?key)\s*[:=]\s*["']?[a-zA-Z0-9._-]+["']?`), "$1=****"},
	// Password patterns
	{regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[:=]\s*["']?[^\s"']+["']?`), "$1=****"},
}

// SanitizeForLogging sanitizes a string for safe logging by masking potential secrets.
// It looks for common patterns like API keys, passwords, and tokens.
func SanitizeForLogging(s string) string {
	result := s
	for _, p := range sensitivePatterns {
		result = p.regex.ReplaceAllString(result, p.replacement)
	}
	return result
}
