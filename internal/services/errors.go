package services

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrAlreadySettled        = errors.New("a paid payment already exists for this provider")
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrProviderNotConfigured = errors.New("payment provider not configured")
	ErrBadSignature          = errors.New("event verification failed")
)

// ProviderError wraps an upstream provider failure so endpoints can answer 502
// with the provider's message surfaced.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
