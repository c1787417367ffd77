package errors

import (
	"errors"
	"strings"
)

// Common CLI errors.
var (
	// ErrNoCredentials indicates no token or deploy key is available.
	ErrNoCredentials = errors.New("no credentials configured")

	// ErrNotConfigured indicates a required config value is missing.
	ErrNotConfigured = errors.New("not configured")

	// ErrCheckFailed indicates the check flow found failures.
	ErrCheckFailed = errors.New("check failed")
)

// CLIError wraps an error with a user-facing message and suggestion.
type CLIError struct {
	// Err is the underlying error.
	Err error

	// Message describes what went wrong.
	Message string

	// Suggestion is an actionable hint.
	Suggestion string

	// Details provides additional context (optional).
	Details string
}

func (e *CLIError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if e.Details != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Details)
	}

	if e.Suggestion != "" {
		sb.WriteString("\n\n")
		sb.WriteString(e.Suggestion)
	}

	return sb.String()
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// WrapCredentialError adds guidance to token and auth failures.
func WrapCredentialError(err error) error {
	if err == nil {
		return nil
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "token") && strings.Contains(errStr, "not set") {
		return &CLIError{
			Err:        ErrNoCredentials,
			Message:    "No access token is configured.",
			Details:    err.Error(),
			Suggestion: "Set GITHUB_TOKEN, GITLAB_TOKEN or GIT_TOKEN with a valid personal access token.",
		}
	}
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "unauthorized") ||
		strings.Contains(errStr, "permission denied") || strings.Contains(errStr, "403") {
		return &CLIError{
			Err:        ErrNoCredentials,
			Message:    "The configured credentials were rejected.",
			Details:    err.Error(),
			Suggestion: "Check that the token has not expired and grants access to the repository.",
		}
	}

	return err
}

// NewNotConfiguredError reports a missing config value with the setting
// and environment variable that would supply it.
func NewNotConfiguredError(what, setting, envVar string) error {
	return &CLIError{
		Err:        ErrNotConfigured,
		Message:    what + " is not configured.",
		Suggestion: "Set `" + setting + "` in .ioflow.yaml or export " + envVar + ".",
	}
}

// ExitCode maps an error to a process exit code: 0 for success,
// 2 for configuration or credential problems, 1 otherwise.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrNotConfigured), errors.Is(err, ErrNoCredentials):
		return 2
	default:
		return 1
	}
}
