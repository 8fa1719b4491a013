package apperrors

import (
	"errors"
	"fmt"
)

// Error classes shared by every request flow. Concrete errors report their
// class through errors.Is.
var (
	// ErrValidation is a client-side precondition failure; no request was sent.
	ErrValidation = errors.New("validation failed")

	// ErrTransport indicates the analysis service could not be reached or
	// answered without a usable body.
	ErrTransport = errors.New("transport failure")

	// ErrServerLogic indicates the service answered but rejected the request
	// or omitted expected fields.
	ErrServerLogic = errors.New("server rejected request")
)

// ValidationError carries the user-facing notice for a blocked action.
type ValidationError struct {
	Notice string
}

func (e *ValidationError) Error() string { return e.Notice }

// Is reports membership in the validation class.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Validation returns a ValidationError with a formatted notice.
func Validation(format string, args ...interface{}) error {
	return &ValidationError{Notice: fmt.Sprintf(format, args...)}
}

// Detailer is implemented by errors that carry a message supplied by the
// remote service.
type Detailer interface {
	UserDetail() string
}

// UserMessage returns the server-supplied detail carried by err when there is
// one, the notice of a validation error, or fallback otherwise.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var d Detailer
	if errors.As(err, &d) && d.UserDetail() != "" {
		return d.UserDetail()
	}
	var v *ValidationError
	if errors.As(err, &v) && v.Notice != "" {
		return v.Notice
	}
	return fallback
}

// WrapError wraps an error with a context message.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// WrapErrorf wraps an error with a formatted context message.
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsValidation checks if err is a client-side validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsTransport checks if err is a transport error.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsServerLogic checks if err is a server logic error.
func IsServerLogic(err error) bool {
	return errors.Is(err, ErrServerLogic)
}
