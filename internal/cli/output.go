package cli

import (
	"errors"
	"fmt"
)

// Exit codes. The host treats any non-zero exit as a rejected push; the
// distinction between reject and usage error only helps humans.
const (
	ExitAccept = 0 // push accepted
	ExitReject = 1 // verification rejected the push
	ExitUsage  = 2 // bad invocation or unusable environment
)

// ExitError carries a specific exit code out of a command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. Non-ExitErrors map to
// ExitReject so an unexpected failure can never accept a push.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitReject
}
