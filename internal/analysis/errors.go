package analysis

import (
	"fmt"

	"github.com/interpretive-systems/futuresight/internal/apperrors"
)

// TransportError means no usable response arrived: the request failed on the
// wire or the service answered non-2xx without a parseable detail.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == apperrors.ErrTransport }

// ServerError means the service answered but rejected the request or left
// out fields the client needs. Detail is the server's own explanation.
type ServerError struct {
	Op         string
	StatusCode int
	Detail     string
}

func (e *ServerError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: status %d: malformed response", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Detail)
}

func (e *ServerError) Is(target error) bool { return target == apperrors.ErrServerLogic }

// UserDetail implements apperrors.Detailer.
func (e *ServerError) UserDetail() string { return e.Detail }
