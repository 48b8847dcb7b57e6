// Package errors provides error types and the user-facing error taxonomy for diffcommit.
package errors

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrorCode represents the category of an error.
type ErrorCode int

// User errors (Exit Code 1)
const (
	ErrNoStagedChanges ErrorCode = iota + 100
	ErrInvalidConfig
	ErrMissingAPIKey
	ErrInvalidArguments
	ErrNoWorkspace
	ErrNoRepository
	ErrInvalidBackendConfig
	ErrNoResult
	ErrCancelled
)

// System errors (Exit Code 2)
const (
	ErrGitCommandFailed ErrorCode = iota + 200
	ErrFileSystemError
	ErrConfigCorruption
	ErrSecretStore
	ErrWriteBack
)

// External errors (Exit Code 3)
const (
	ErrAIProviderFailed ErrorCode = iota + 300
	ErrNetworkError
	ErrRateLimited
	ErrAuthenticationFailed
	ErrBadRequest
	ErrPermissionDenied
	ErrBackendServer
	ErrModelNotFound
	ErrUnknown
)

// ExitCode returns the appropriate exit code for an error code.
func (c ErrorCode) ExitCode() int {
	switch {
	case c >= 100 && c < 200:
		return 1 // User errors
	case c >= 200 && c < 300:
		return 2 // System errors
	case c >= 300:
		return 3 // External errors
	default:
		return 1
	}
}

// String returns a human-readable name for the error code.
func (c ErrorCode) String() string {
	switch c {
	case ErrNoStagedChanges:
		return "NoStagedChanges"
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrMissingAPIKey:
		return "MissingAPIKey"
	case ErrInvalidArguments:
		return "InvalidArguments"
	case ErrNoWorkspace:
		return "NoWorkspace"
	case ErrNoRepository:
		return "NoRepository"
	case ErrInvalidBackendConfig:
		return "InvalidBackendConfig"
	case ErrNoResult:
		return "NoResult"
	case ErrCancelled:
		return "Cancelled"
	case ErrGitCommandFailed:
		return "GitCommandFailed"
	case ErrFileSystemError:
		return "FileSystemError"
	case ErrConfigCorruption:
		return "ConfigCorruption"
	case ErrSecretStore:
		return "SecretStore"
	case ErrWriteBack:
		return "WriteBack"
	case ErrAIProviderFailed:
		return "AIProviderFailed"
	case ErrNetworkError:
		return "NetworkError"
	case ErrRateLimited:
		return "RateLimited"
	case ErrAuthenticationFailed:
		return "AuthenticationFailed"
	case ErrBadRequest:
		return "BadRequest"
	case ErrPermissionDenied:
		return "PermissionDenied"
	case ErrBackendServer:
		return "BackendServer"
	case ErrModelNotFound:
		return "ModelNotFound"
	case ErrUnknown:
		return "Unknown"
	default:
		return "Unknown"
	}
}

// IsWarning reports whether errors with this code are shown at warning level.
func (c ErrorCode) IsWarning() bool {
	return c == ErrNoResult || c == ErrCancelled
}

// AppError represents an application error with context.
// Message is the plain-language text shown to the user.
type AppError struct {
	Code       ErrorCode
	Message    string
	Cause      error
	Context    map[string]interface{}
	Suggestion string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion to the error.
func (e *AppError) WithSuggestion(suggestion string) *AppError {
	e.Suggestion = suggestion
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with context.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts an AppError from an error chain.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Code == code
}

// GetExitCode returns the appropriate exit code for an error.
func GetExitCode(err error) int {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code.ExitCode()
	}
	return 1 // Default to user error
}

// UserMessage returns the text to show in a notification for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if appErr := GetAppError(err); appErr != nil {
		return SanitizeErrorMessage(appErr.Message)
	}
	return SanitizeErrorMessage(err.Error())
}

// reportedError marks an error whose notification has already been shown.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// MarkReported wraps err so the CLI entry point does not print it again.
func MarkReported(err error) error {
	if err == nil || IsReported(err) {
		return err
	}
	return &reportedError{err: err}
}

// IsReported reports whether err has already been shown to the user.
func IsReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}

// Common error constructors

// NewNoStagedChangesError creates an error for an empty diff.
func NewNoStagedChangesError() *AppError {
	return &AppError{
		Code:       ErrNoStagedChanges,
		Message:    "No changes detected",
		Suggestion: "Use 'git add <files>' to stage changes before generating a commit message",
	}
}

// NewNoWorkspaceError creates an error for a missing working directory.
func NewNoWorkspaceError(err error) *AppError {
	return &AppError{
		Code:    ErrNoWorkspace,
		Message: "No workspace folder found",
		Cause:   err,
	}
}

// NewNoRepositoryError creates an error for a directory outside any Git repository.
func NewNoRepositoryError(err error) *AppError {
	return &AppError{
		Code:       ErrNoRepository,
		Message:    "No Git repository found",
		Cause:      err,
		Suggestion: "Run diffcommit inside a Git working tree or pass --repo",
	}
}

// NewMissingAPIKeyError creates an error for a missing credential.
func NewMissingAPIKeyError() *AppError {
	return &AppError{
		Code:       ErrMissingAPIKey,
		Message:    "API Key is required",
		Suggestion: "Store your API key with 'diffcommit key set'",
	}
}

// NewInvalidConfigError creates an error for invalid configuration.
func NewInvalidConfigError(message string) *AppError {
	return &AppError{
		Code:       ErrInvalidConfig,
		Message:    message,
		Suggestion: "Run 'diffcommit config init' to create a valid configuration file",
	}
}

// NewInvalidBackendConfigError creates an error for backend construction failures.
func NewInvalidBackendConfigError(provider string, err error) *AppError {
	return &AppError{
		Code:    ErrInvalidBackendConfig,
		Message: fmt.Sprintf("invalid %s backend configuration", provider),
		Cause:   err,
	}
}

// NewNoResultError creates the warning raised when normalization leaves nothing.
func NewNoResultError() *AppError {
	return &AppError{
		Code:    ErrNoResult,
		Message: "No commit message was generated",
	}
}

// NewCancelledError is raised when the caller's context ends before the backend answers.
func NewCancelledError(err error) *AppError {
	return Wrap(err, ErrCancelled, "Commit message generation was cancelled")
}

// NewGitError creates an error for git command failures.
func NewGitError(err error, output string) *AppError {
	appErr := &AppError{
		Code:    ErrGitCommandFailed,
		Message: "git command failed",
		Cause:   err,
	}
	if output != "" {
		appErr.Context = map[string]interface{}{
			"output": output,
		}
	}
	return appErr
}

// NewWriteBackError creates an error for failures writing the message to its sink.
func NewWriteBackError(err error) *AppError {
	return &AppError{
		Code:    ErrWriteBack,
		Message: fmt.Sprintf("Failed to write commit message: %v", err),
		Cause:   err,
	}
}

// NewPreviewError creates an error for failures opening the preview.
func NewPreviewError(err error) *AppError {
	return &AppError{
		Code:    ErrWriteBack,
		Message: fmt.Sprintf("Failed to open commit message preview: %v", err),
		Cause:   err,
	}
}

// NewSecretStoreError creates an error for secure storage failures.
// action completes the sentence "Failed to ...", e.g. "access secure storage".
func NewSecretStoreError(action string, err error) *AppError {
	return &AppError{
		Code:    ErrSecretStore,
		Message: fmt.Sprintf("Failed to %s: %v", action, err),
		Cause:   err,
	}
}

// Hosted backend errors

// NewBadRequestError maps an HTTP 400 from a hosted backend.
func NewBadRequestError(err error) *AppError {
	return Wrap(err, ErrBadRequest, "Bad request. Review your prompt and try again.")
}

// NewAuthenticationError maps an HTTP 401 from a hosted backend.
func NewAuthenticationError(err error) *AppError {
	return &AppError{
		Code:       ErrAuthenticationFailed,
		Message:    "Invalid API key. Please update your API key and try again.",
		Cause:      err,
		Suggestion: "Run 'diffcommit key set' to store a new key",
	}
}

// NewPermissionDeniedError maps an HTTP 403 from a hosted backend.
func NewPermissionDeniedError(err error) *AppError {
	return Wrap(err, ErrPermissionDenied, "Permission Denied. Review your prompt or API key and try again.")
}

// NewRateLimitError maps an HTTP 429 from a hosted backend.
func NewRateLimitError(err error, backendMessage string) *AppError {
	return Wrap(err, ErrRateLimited, fmt.Sprintf("Rate limit exceeded. Please try again later: %s", backendMessage))
}

// NewBackendServerError maps an HTTP 500 from a backend. provider is the display name.
func NewBackendServerError(provider string, err error) *AppError {
	msg := fmt.Sprintf("%s API server error. Please try again later.", provider)
	if provider == "Ollama" {
		msg = "Ollama server error. Please try again later."
	}
	return Wrap(err, ErrBackendServer, msg)
}

// NewAIProviderError maps any other backend status.
func NewAIProviderError(err error, backendMessage string) *AppError {
	return Wrap(err, ErrAIProviderFailed, fmt.Sprintf("Failed to generate commit message: %s", backendMessage))
}

// NewUnknownError maps failures that did not come from the backend protocol.
func NewUnknownError(err error) *AppError {
	return Wrap(err, ErrUnknown, fmt.Sprintf("Unknown error generating commit message: %v", err))
}

// Local backend errors

// NewServerUnreachableError maps a connection failure to the local server.
func NewServerUnreachableError(hostname string, err error) *AppError {
	return &AppError{
		Code: ErrNetworkError,
		Message: fmt.Sprintf("Unable to connect to Ollama server at %s. "+
			"Please ensure that the Ollama server is running and accessible.", hostname),
		Cause:      err,
		Suggestion: "Start the server with 'ollama serve'",
	}
}

// NewModelNotFoundError maps a 404 from the local server.
func NewModelNotFoundError(model string, err error) *AppError {
	return &AppError{
		Code:       ErrModelNotFound,
		Message:    fmt.Sprintf("Model '%s' not found. Please check if the model is available in Ollama.", model),
		Cause:      err,
		Suggestion: fmt.Sprintf("Pull it with 'ollama pull %s' or run 'diffcommit model change'", model),
	}
}

// NewLocalProviderError maps any other local server failure.
func NewLocalProviderError(err error) *AppError {
	return Wrap(err, ErrAIProviderFailed, fmt.Sprintf("Failed to generate commit message with Ollama:\n\n%v", err))
}

// Model directory errors

// NewModelListError wraps a failure listing the models of the local server.
func NewModelListError(err error) *AppError {
	return Wrap(err, ErrNetworkError, fmt.Sprintf("Failed to fetch Ollama models: %v", err))
}

// NewServerNotFoundError maps a 404 while listing models.
func NewServerNotFoundError(hostname string, err error) *AppError {
	return Wrap(err, ErrNetworkError,
		fmt.Sprintf("Ollama server not found at %s. Please check the hostname and try again.", hostname))
}

// NewServerConnectError maps any other failure while listing models.
func NewServerConnectError(err error) *AppError {
	return Wrap(err, ErrNetworkError, fmt.Sprintf("Failed to connect to Ollama: %v", err))
}

// NewConfigWriteError creates an error for failures persisting configuration.
func NewConfigWriteError(err error) *AppError {
	return Wrap(err, ErrFileSystemError, fmt.Sprintf("Failed to save configuration: %v", err))
}

// FormatError formats an error for user display.
// API keys and other sensitive data are automatically masked.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	appErr := GetAppError(err)
	if appErr != nil {
		sb.WriteString("Error: ")
		sb.WriteString(SanitizeErrorMessage(appErr.Message))

		if appErr.Cause != nil {
			sb.WriteString("\n  Cause: ")
			sb.WriteString(SanitizeErrorMessage(appErr.Cause.Error()))
		}

		if appErr.Suggestion != "" {
			sb.WriteString("\n  Suggestion: ")
			sb.WriteString(appErr.Suggestion)
		}
	} else {
		sb.WriteString("Error: ")
		sb.WriteString(SanitizeErrorMessage(err.Error()))
	}

	return sb.String()
}

// FormatErrorVerbose formats an error with full details for verbose mode.
func FormatErrorVerbose(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	appErr := GetAppError(err)
	if appErr != nil {
		sb.WriteString(fmt.Sprintf("Error [%s]: %s\n", appErr.Code.String(), SanitizeErrorMessage(appErr.Message)))

		if appErr.Cause != nil {
			sb.WriteString(fmt.Sprintf("  Cause: %v\n", SanitizeErrorMessage(appErr.Cause.Error())))
			sb.WriteString("  Error chain:\n")
			printErrorChain(&sb, appErr.Cause, 2)
		}

		if len(appErr.Context) > 0 {
			sb.WriteString("  Context:\n")
			for k, v := range appErr.Context {
				sb.WriteString(fmt.Sprintf("    %s: %v\n", k, SanitizeErrorMessage(fmt.Sprintf("%v", v))))
			}
		}

		if appErr.Suggestion != "" {
			sb.WriteString(fmt.Sprintf("  Suggestion: %s\n", appErr.Suggestion))
		}
	} else {
		sb.WriteString(fmt.Sprintf("Error: %v\n", SanitizeErrorMessage(err.Error())))
		sb.WriteString("  Error chain:\n")
		printErrorChain(&sb, err, 2)
	}

	return sb.String()
}

// printErrorChain prints the error chain with indentation.
func printErrorChain(sb *strings.Builder, err error, indent int) {
	if err == nil {
		return
	}

	prefix := strings.Repeat("  ", indent)
	errMsg := SanitizeErrorMessage(err.Error())
	sb.WriteString(fmt.Sprintf("%s- %T: %v\n", prefix, err, errMsg))

	if unwrapped := errors.Unwrap(err); unwrapped != nil {
		printErrorChain(sb, unwrapped, indent+1)
	}
}

// SanitizeErrorMessage masks any API keys or sensitive data in error messages.
func SanitizeErrorMessage(msg string) string {
	return apiKeyPattern.ReplaceAllStringFunc(msg, func(match string) string {
		if len(match) <= 4 {
			return "****"
		}
		return strings.Repeat("*", len(match)-4) + match[len(match)-4:]
	})
}

// apiKeyPattern matches OpenAI and Anthropic style keys.
var apiKeyPattern = regexp.MustCompile(`sk-[a-zA-Z0-9_-]{20,}`)
