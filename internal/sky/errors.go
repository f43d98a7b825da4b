package sky

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyText   = errors.New("wish text cannot be empty")
	ErrTextTooLong = errors.New("wish text is too long")
)

// ValidationError rejects a submission before any network call is made
type ValidationError struct {
	Reason error
	Limit  int
}

func (e *ValidationError) Error() string {
	if errors.Is(e.Reason, ErrTextTooLong) {
		return fmt.Sprintf("%v (max %d characters)", e.Reason, e.Limit)
	}
	return e.Reason.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

// TransportError reports a failed or rejected call to the message source
type TransportError struct {
	Op      string // "seed", "submit", "delete"
	Status  int    // HTTP status when known
	Message string // server-supplied error text
	Err     error
}

func (e *TransportError) Error() string {
	switch {
	case e.Message != "" && e.Status != 0:
		return fmt.Sprintf("%s failed (%d): %s", e.Op, e.Status, e.Message)
	case e.Message != "":
		return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%s failed: status %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return e.Op + " failed"
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
