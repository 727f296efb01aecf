package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for the terminal failure classes of a request. Tool-level
// failures are deliberately not errors: they are converted into structured
// result maps so the model conversation can continue.
var (
	// ErrEmptyInput rejects blank requests before classification runs.
	ErrEmptyInput = errors.New("input must not be empty")

	// ErrMissingCredential means no provider credential is configured;
	// the agentic loop is never entered.
	ErrMissingCredential = errors.New("model provider credential is missing")

	// ErrLoopExceeded means the conversation loop hit its turn cap
	// without reaching a terminal assistant message.
	ErrLoopExceeded = errors.New("conversation exceeded the maximum number of turns")
)

// ProviderError wraps a failure reported by the model client. It aborts
// the request immediately; retry policy belongs to the transport layer.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("provider call failed: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NewProviderError wraps err as a ProviderError.
func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}
