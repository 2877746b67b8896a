package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hireloop/questgen/internal/types"
)

// LLM error codes follow the questgen error pattern.
const (
	// Provider errors
	ErrProviderNotFound     types.ErrorCode = "LLM_PROVIDER_NOT_FOUND"
	ErrProviderInitFailed   types.ErrorCode = "LLM_PROVIDER_INIT_FAILED"
	ErrProviderUnavailable  types.ErrorCode = "LLM_PROVIDER_UNAVAILABLE"
	ErrProviderUnauthorized types.ErrorCode = "LLM_PROVIDER_UNAUTHORIZED"
	ErrProviderRateLimited  types.ErrorCode = "LLM_PROVIDER_RATE_LIMITED"

	// Completion errors
	ErrCompletionFailed    types.ErrorCode = "LLM_COMPLETION_FAILED"
	ErrEmptyResponse       types.ErrorCode = "LLM_EMPTY_RESPONSE"
	ErrResponseParseFailed types.ErrorCode = "LLM_RESPONSE_PARSE_FAILED"
	ErrInvalidRequest      types.ErrorCode = "LLM_INVALID_REQUEST"

	// Network errors
	ErrNetworkFailed   types.ErrorCode = "LLM_NETWORK_FAILED"
	ErrTimeoutExceeded types.ErrorCode = "LLM_TIMEOUT_EXCEEDED"
)

// IsRetryable determines if an error is transient and may succeed on retry.
// The retry router uses this to classify model failures.
func IsRetryable(err error) bool {
	var qErr *types.QuestgenError
	if !errors.As(err, &qErr) {
		return false
	}

	if qErr.Retryable {
		return true
	}

	switch qErr.Code {
	case ErrNetworkFailed, ErrTimeoutExceeded, ErrProviderRateLimited, ErrProviderUnavailable, ErrEmptyResponse:
		return true
	default:
		return false
	}
}

// NewAuthError creates an authentication error for a provider.
func NewAuthError(provider string, cause error) *types.QuestgenError {
	return types.WrapError(ErrProviderUnauthorized,
		fmt.Sprintf("provider %s: missing or invalid credentials", provider), cause)
}

// TranslateError converts a raw provider/client error into a classified
// QuestgenError. Classification is best-effort over provider error text; the
// backends do not expose structured codes through the client library.
func TranslateError(provider string, err error) *types.QuestgenError {
	if err == nil {
		return nil
	}

	var qErr *types.QuestgenError
	if errors.As(err, &qErr) {
		return qErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		e := types.WrapError(ErrTimeoutExceeded, fmt.Sprintf("provider %s: request timed out", provider), err)
		e.Retryable = true
		return e
	}
	if errors.Is(err, context.Canceled) {
		return types.WrapError(ErrCompletionFailed, fmt.Sprintf("provider %s: request canceled", provider), err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key") || strings.Contains(msg, "unauthorized") || strings.Contains(msg, "401"):
		return NewAuthError(provider, err)
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "429"):
		e := types.WrapError(ErrProviderRateLimited, fmt.Sprintf("provider %s: rate limited", provider), err)
		e.Retryable = true
		return e
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		e := types.WrapError(ErrTimeoutExceeded, fmt.Sprintf("provider %s: request timed out", provider), err)
		e.Retryable = true
		return e
	case strings.Contains(msg, "connection") || strings.Contains(msg, "network") || strings.Contains(msg, "dial"):
		e := types.WrapError(ErrNetworkFailed, fmt.Sprintf("provider %s: network failure", provider), err)
		e.Retryable = true
		return e
	default:
		return types.WrapError(ErrCompletionFailed, fmt.Sprintf("provider %s: completion failed", provider), err)
	}
}
