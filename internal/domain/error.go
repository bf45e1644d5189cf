package domain

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeInvalidArgument  ErrorCode = "INVALID_ARGUMENT"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeFailedPrecond    ErrorCode = "FAILED_PRECONDITION"
	CodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	CodeInternal         ErrorCode = "INTERNAL"
	CodeCanceled         ErrorCode = "CANCELED"
	CodeDeadlineExceeded ErrorCode = "DEADLINE_EXCEEDED"
)

var (
	ErrInvalidArguments   = errors.New("invalid arguments")
	ErrSourceNotFound     = errors.New("source not found")
	ErrPromptNotFound     = errors.New("prompt template not found")
	ErrUnknownTool        = errors.New("unknown tool")
	ErrExecutionFailed    = errors.New("execution failed")
	ErrMalformedOutput    = errors.New("malformed output")
	ErrLaunchFailed       = errors.New("launch failed")
	ErrOutputTooLarge     = errors.New("output too large")
	ErrExecutableNotFound = errors.New("executable not found")
	ErrPermissionDenied   = errors.New("permission denied")
)

// Error carries a classification code alongside the message surfaced to callers.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
	Meta    map[string]string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.Op == "" {
		if msg == "" {
			return string(e.Code)
		}
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	if msg == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, msg)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func E(code ErrorCode, op, msg string, cause error) *Error {
	if msg == "" && cause != nil {
		msg = cause.Error()
	}
	return &Error{
		Code:    code,
		Op:      op,
		Message: msg,
		Cause:   cause,
	}
}

func Wrap(code ErrorCode, op string, err error) *Error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		if existing.Op != "" || op == "" {
			return existing
		}
		return &Error{
			Code:    existing.Code,
			Op:      op,
			Message: existing.Message,
			Cause:   existing.Cause,
			Meta:    existing.Meta,
		}
	}
	return E(code, op, "", err)
}

func CodeFrom(err error) (ErrorCode, bool) {
	if err == nil {
		return "", false
	}
	var domainErr *Error
	if errors.As(err, &domainErr) && domainErr.Code != "" {
		return domainErr.Code, true
	}
	switch {
	case errors.Is(err, ErrInvalidArguments), errors.Is(err, ErrSourceNotFound), errors.Is(err, ErrPromptNotFound):
		return CodeInvalidArgument, true
	case errors.Is(err, ErrUnknownTool):
		return CodeNotFound, true
	case errors.Is(err, ErrExecutableNotFound):
		return CodeFailedPrecond, true
	case errors.Is(err, ErrPermissionDenied):
		return CodePermissionDenied, true
	case errors.Is(err, ErrExecutionFailed), errors.Is(err, ErrMalformedOutput),
		errors.Is(err, ErrLaunchFailed), errors.Is(err, ErrOutputTooLarge):
		return CodeInternal, true
	default:
		return "", false
	}
}

// Message returns the caller-facing message of err without the code and op prefixes.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var domainErr *Error
	if errors.As(err, &domainErr) {
		if domainErr.Message != "" {
			return domainErr.Message
		}
		if domainErr.Cause != nil {
			return domainErr.Cause.Error()
		}
	}
	return err.Error()
}
