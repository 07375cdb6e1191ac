package storage

import (
	"fmt"

	"github.com/rohmanhakim/list-crawler/pkg/failure"
)

type SinkErrorCause string

const (
	ErrCauseOpenFailed    SinkErrorCause = "failed to open output file"
	ErrCauseWriteFailure  SinkErrorCause = "write failed"
	ErrCauseEncodeFailure SinkErrorCause = "failed to encode record"
)

type SinkError struct {
	Message string
	Cause   SinkErrorCause
	Path    string
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("sink error: %s: %s", e.Cause, e.Message)
}

func (e *SinkError) Severity() failure.Severity {
	return failure.SeverityFatal
}
