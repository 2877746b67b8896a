package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for questgen errors.
type ErrorCode string

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// Store error codes
const (
	STORE_OPEN_FAILED      ErrorCode = "STORE_OPEN_FAILED"
	STORE_QUERY_FAILED     ErrorCode = "STORE_QUERY_FAILED"
	STORE_MIGRATION_FAILED ErrorCode = "STORE_MIGRATION_FAILED"
	POLICY_NOT_FOUND       ErrorCode = "POLICY_NOT_FOUND"
	CANDIDATE_NOT_FOUND    ErrorCode = "CANDIDATE_NOT_FOUND"
	JOB_NOT_FOUND          ErrorCode = "JOB_NOT_FOUND"
)

// Workflow error codes
const (
	WORKFLOW_INVALID_INPUT    ErrorCode = "WORKFLOW_INVALID_INPUT"
	WORKFLOW_ALREADY_RUNNING  ErrorCode = "WORKFLOW_ALREADY_RUNNING"
	WORKFLOW_INTERNAL_FAILURE ErrorCode = "WORKFLOW_INTERNAL_FAILURE"
	QUESTIONS_WRITE_FAILED    ErrorCode = "QUESTIONS_WRITE_FAILED"
)

// QuestgenError represents a structured error with error code, message, and
// optional cause. It supports error wrapping and retryability hints for the
// retry routing logic.
type QuestgenError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *QuestgenError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
func (e *QuestgenError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
func (e *QuestgenError) Is(target error) bool {
	var qErr *QuestgenError
	if errors.As(target, &qErr) {
		return e.Code == qErr.Code
	}
	return false
}

// NewError creates a new non-retryable QuestgenError with the given code and message.
func NewError(code ErrorCode, message string) *QuestgenError {
	return &QuestgenError{
		Code:    code,
		Message: message,
	}
}

// NewRetryableError creates a new retryable QuestgenError with the given code
// and message. Use this for transient errors that may succeed on retry.
func NewRetryableError(code ErrorCode, message string) *QuestgenError {
	return &QuestgenError{
		Code:      code,
		Message:   message,
		Retryable: true,
	}
}

// WrapError creates a new non-retryable QuestgenError that wraps an existing error.
func WrapError(code ErrorCode, message string, cause error) *QuestgenError {
	return &QuestgenError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
