package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrPermissionDenied  = errors.New("permission denied")
	ErrProcessFailed     = errors.New("process execution failed")
	ErrSocketUnavailable = errors.New("runtime socket unavailable")
	ErrRuntimeFailed     = errors.New("runtime operation failed")
	ErrConfigInvalid     = errors.New("configuration invalid")
)

type CbenchfError struct {
	Type        error
	Context     string
	Cause       string
	Suggestion  string
	OriginalErr error
}

func (e *CbenchfError) Error() string {
	return e.OriginalErr.Error()
}

func (e *CbenchfError) Unwrap() error {
	return e.OriginalErr
}

// Is reports whether target is the kind of this error, so callers can write
// errors.Is(err, ErrPermissionDenied).
func (e *CbenchfError) Is(target error) bool {
	return e.Type == target
}

// ProcessError records a child process that exited with a non-zero status.
type ProcessError struct {
	Binary   string
	Args     []string
	ExitCode int
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("%s %s exited with status %d", e.Binary, strings.Join(e.Args, " "), e.ExitCode)
}

// ExitCode returns the exit status carried by err, if it wraps a ProcessError.
func ExitCode(err error) (int, bool) {
	var processErr *ProcessError
	if errors.As(err, &processErr) {
		return processErr.ExitCode, true
	}
	return 0, false
}

func NewCbenchfError(errorType error, context, cause, suggestion string, originalErr error) *CbenchfError {
	return &CbenchfError{
		Type:        errorType,
		Context:     context,
		Cause:       cause,
		Suggestion:  suggestion,
		OriginalErr: originalErr,
	}
}

func NewPermissionError(context, cause, suggestion string, originalErr error) *CbenchfError {
	return NewCbenchfError(ErrPermissionDenied, context, cause, suggestion, originalErr)
}

func NewProcessError(context, cause, suggestion string, originalErr error) *CbenchfError {
	return NewCbenchfError(ErrProcessFailed, context, cause, suggestion, originalErr)
}

func NewSocketError(context, cause, suggestion string, originalErr error) *CbenchfError {
	return NewCbenchfError(ErrSocketUnavailable, context, cause, suggestion, originalErr)
}

func NewRuntimeError(context, cause, suggestion string, originalErr error) *CbenchfError {
	return NewCbenchfError(ErrRuntimeFailed, context, cause, suggestion, originalErr)
}

func NewConfigError(context, cause, suggestion string, originalErr error) *CbenchfError {
	return NewCbenchfError(ErrConfigInvalid, context, cause, suggestion, originalErr)
}
