package common

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
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

// GRPCStatus lets status.FromError / status.Code understand AppError values.
func (e *AppError) GRPCStatus() *status.Status {
	return status.New(CodeOf(e.Cause), e.Message)
}

// Error codes carried on AppError.
const (
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeOCRFailed         = "OCR_FAILED"
	CodeQueueFull         = "QUEUE_FULL"
	CodeQueueClosed       = "QUEUE_CLOSED"
	CodeConfig            = "CONFIG_ERROR"
)

// Common application errors
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrOCRFailed         = errors.New("ocr failed")
	ErrQueueFull         = errors.New("queue full")
	ErrQueueClosed       = errors.New("queue closed")
	ErrNotInitialized    = errors.New("engine not initialized")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("resource not found")
	ErrDatabase          = errors.New("database error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewUnsupportedFormatError is returned by the loader for extensions it cannot dispatch.
func NewUnsupportedFormatError(ext string) *AppError {
	return NewAppError(CodeUnsupportedFormat, "Provide PDF/TXT/Image", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext))
}

// NewOCRError wraps a rasterisation or recognition failure.
func NewOCRError(message string, cause error) *AppError {
	return NewAppError(CodeOCRFailed, message, errors.Join(ErrOCRFailed, cause))
}

// CodeOf maps the sentinel errors onto gRPC codes.
func CodeOf(err error) codes.Code {
	switch {
	case err == nil:
		return codes.OK
	case errors.Is(err, ErrUnsupportedFormat), errors.Is(err, ErrInvalidInput):
		return codes.InvalidArgument
	case errors.Is(err, ErrQueueFull):
		return codes.ResourceExhausted
	case errors.Is(err, ErrQueueClosed), errors.Is(err, ErrNotInitialized):
		return codes.Unavailable
	case errors.Is(err, ErrNotFound):
		return codes.NotFound
	default:
		return codes.Internal
	}
}
