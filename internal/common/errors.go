package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error codes, one per failure class surfaced to the user.
const (
	CodeAuthentication = "AUTH_ERROR"
	CodeExtraction     = "EXTRACTION_ERROR"
	CodeRequest        = "REQUEST_ERROR"
	CodeRecording      = "RECORDING_ERROR"
	CodeConfiguration  = "CONFIG_ERROR"
)

// Failure classes. Match with errors.Is.
var (
	ErrAuthentication = errors.New("authentication failed")
	ErrExtraction     = errors.New("extraction failed")
	ErrRequest        = errors.New("request failed")
	ErrRecording      = errors.New("recording failed")
	ErrConfiguration  = errors.New("configuration error")
)

// NewAppError builds an AppError whose cause chain contains both kind and err.
func NewAppError(code, message string, kind, err error) *AppError {
	cause := kind
	if err != nil {
		cause = fmt.Errorf("%w: %w", kind, err)
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func NewAuthenticationError(message string, err error) *AppError {
	return NewAppError(CodeAuthentication, message, ErrAuthentication, err)
}

func NewExtractionError(message string, err error) *AppError {
	return NewAppError(CodeExtraction, message, ErrExtraction, err)
}

func NewRequestError(message string, err error) *AppError {
	return NewAppError(CodeRequest, message, ErrRequest, err)
}

func NewRecordingError(message string, err error) *AppError {
	return NewAppError(CodeRecording, message, ErrRecording, err)
}

func NewConfigurationError(message string, err error) *AppError {
	return NewAppError(CodeConfiguration, message, ErrConfiguration, err)
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// UserMessage renders err for display: the AppError message followed by the
// underlying detail, or err.Error() for foreign errors.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return err.Error()
	}
	if appErr.Cause == nil {
		return appErr.Message
	}
	return appErr.Message + ": " + appErr.Cause.Error()
}
