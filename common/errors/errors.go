package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// ErrorCode represents application-specific error codes
type ErrorCode string

const (
	// Authentication errors (1xxx)
	ErrCodeUnauthorized ErrorCode = "E1001"
	ErrCodeInvalidToken ErrorCode = "E1002"
	ErrCodeAccessDenied ErrorCode = "E1003"

	// Validation errors (2xxx) - fail fast, before any side effect
	ErrCodeValidation      ErrorCode = "E2001"
	ErrCodeInvalidInput    ErrorCode = "E2002"
	ErrCodeMissingField    ErrorCode = "E2003"
	ErrCodeInvalidDocType  ErrorCode = "E2004"
	ErrCodeInvalidSendDay  ErrorCode = "E2005"
	ErrCodeInvalidEmail    ErrorCode = "E2006"
	ErrCodeInvalidTimeSlot ErrorCode = "E2007"

	// Resolution errors (3xxx) - a referenced entity could not be loaded
	ErrCodeNotFound      ErrorCode = "E3001"
	ErrCodeAlreadyExists ErrorCode = "E3002"

	// Delivery errors (5xxx) - a side channel failed; the job's timestamp
	// must not be written, but sibling jobs in a bulk batch continue
	ErrCodeEmailDelivery ErrorCode = "E5001"
	ErrCodeDriveDelivery ErrorCode = "E5002"
	ErrCodeRenderFailed  ErrorCode = "E5003"
	ErrCodeScrapeFailed  ErrorCode = "E5004"

	// Internal errors (9xxx)
	ErrCodeInternal ErrorCode = "E9001"
	ErrCodeDatabase ErrorCode = "E9002"
	// ErrCodeDeadline is the distinguished timeout case: the delivery may
	// have gone out but was never confirmed. Callers are expected to treat
	// it as likely-sent-unconfirmed rather than a hard failure.
	ErrCodeDeadline ErrorCode = "E9003"
)

// AppError represents an application error with context
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	HTTPStatus int                    `json:"-"`
	Cause      error                  `json:"-"`
	Stack      string                 `json:"-"`
	Fields     map[string]interface{} `json:"fields,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails adds additional details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithField adds a field to the error
func (e *AppError) WithField(key string, value interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// ToJSON converts error to the {error: ...} response format the
// UI collaborator expects on rejection.
func (e *AppError) ToJSON() map[string]interface{} {
	result := map[string]interface{}{
		"error": e.Message,
		"code":  e.Code,
	}
	if e.Details != "" {
		result["details"] = e.Details
	}
	if len(e.Fields) > 0 {
		result["fields"] = e.Fields
	}
	return result
}

// WriteJSON writes error as JSON response
func (e *AppError) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.HTTPStatus)
	json.NewEncoder(w).Encode(e.ToJSON())
}

// ============================================================
// Error constructors
// ============================================================

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: getHTTPStatus(code),
		Stack:      captureStack(2),
	}
}

// Wrap wraps an existing error with AppError
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: getHTTPStatus(code),
		Cause:      err,
		Stack:      captureStack(2),
	}
}

// ============================================================
// Predefined error constructors
// ============================================================

func Unauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message)
}

func InvalidToken() *AppError {
	return New(ErrCodeInvalidToken, "invalid or expired token")
}

func AccessDenied() *AppError {
	return New(ErrCodeAccessDenied, "admin role required")
}

func ValidationError(message string) *AppError {
	return New(ErrCodeValidation, message)
}

func InvalidInput(field, message string) *AppError {
	return New(ErrCodeInvalidInput, message).WithField("field", field)
}

func MissingField(field string) *AppError {
	return New(ErrCodeMissingField, fmt.Sprintf("%s is required", field)).WithField("field", field)
}

func MissingDocumentType() *AppError {
	return New(ErrCodeInvalidDocType, "No document type was specified.")
}

func InvalidDocumentType(docType string) *AppError {
	return New(ErrCodeInvalidDocType, "The document type provided is invalid.").WithField("type", docType)
}

func InvalidSendOutDay(day int) *AppError {
	return New(ErrCodeInvalidSendDay, "send-out day must be between 1 and 28").WithField("day", day)
}

func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func AlreadyExists(resource string) *AppError {
	return New(ErrCodeAlreadyExists, fmt.Sprintf("%s already exists", resource))
}

func EmailError(err error) *AppError {
	return Wrap(err, ErrCodeEmailDelivery, "email delivery failed")
}

func DriveError(err error) *AppError {
	return Wrap(err, ErrCodeDriveDelivery, "folder-store upload failed")
}

func RenderError(err error) *AppError {
	return Wrap(err, ErrCodeRenderFailed, "document rendering failed")
}

func ScrapeError(err error) *AppError {
	return Wrap(err, ErrCodeScrapeFailed, "schedule scrape failed")
}

func Internal(message string) *AppError {
	return New(ErrCodeInternal, message)
}

func DatabaseError(err error) *AppError {
	return Wrap(err, ErrCodeDatabase, "database error")
}

func DeadlineExceeded(err error) *AppError {
	return Wrap(err, ErrCodeDeadline, "deadline exceeded before delivery was confirmed")
}

// FromDelivery classifies a delivery-channel error, promoting context
// deadline expiry to the distinguished deadline code.
func FromDelivery(err error, fallback func(error) *AppError) *AppError {
	if errors.Is(err, context.DeadlineExceeded) {
		return DeadlineExceeded(err)
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return fallback(err)
}

// IsDeadline reports whether err is the distinguished deadline case,
// either one of ours or a raw context.DeadlineExceeded.
func IsDeadline(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code == ErrCodeDeadline {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// ============================================================
// Helper functions
// ============================================================

func getHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeUnauthorized, ErrCodeInvalidToken:
		return http.StatusUnauthorized
	case ErrCodeAccessDenied:
		return http.StatusForbidden
	case ErrCodeValidation, ErrCodeInvalidInput, ErrCodeMissingField,
		ErrCodeInvalidDocType, ErrCodeInvalidSendDay, ErrCodeInvalidEmail, ErrCodeInvalidTimeSlot:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeAlreadyExists:
		return http.StatusConflict
	case ErrCodeEmailDelivery, ErrCodeDriveDelivery, ErrCodeRenderFailed, ErrCodeScrapeFailed:
		return http.StatusBadGateway
	case ErrCodeDeadline:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func captureStack(skip int) string {
	var pcs [32]uintptr
	n := runtime.Callers(skip+1, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var sb strings.Builder
	for {
		frame, more := frames.Next()
		if strings.Contains(frame.File, "runtime/") {
			if !more {
				break
			}
			continue
		}
		sb.WriteString(fmt.Sprintf("%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line))
		if !more {
			break
		}
	}
	return sb.String()
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}

// ToAppError converts any error to AppError
func ToAppError(err error) *AppError {
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Wrap(err, ErrCodeInternal, err.Error())
}
