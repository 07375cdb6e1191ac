package dedup

import (
	"fmt"

	"github.com/rohmanhakim/list-crawler/pkg/failure"
)

type StateErrorCause string

const (
	ErrCausePersistFailed StateErrorCause = "failed to persist state"
)

type StateError struct {
	Message string
	Cause   StateErrorCause
	Path    string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("state error: %s: %s", e.Cause, e.Message)
}

func (e *StateError) Severity() failure.Severity {
	return failure.SeverityFatal
}
