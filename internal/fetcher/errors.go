package fetcher

import (
	"fmt"

	"github.com/rohmanhakim/list-crawler/pkg/failure"
)

type FetchErrorCause string

const (
	ErrCauseInvalidURL            FetchErrorCause = "invalid url"
	ErrCauseTimeout               FetchErrorCause = "timeout"
	ErrCauseNetworkFailure        FetchErrorCause = "network issues"
	ErrCauseReadResponseBodyError FetchErrorCause = "failed to read response body"
	ErrCauseNonSuccessStatus      FetchErrorCause = "non-success status"
	ErrCauseRequestTooMany        FetchErrorCause = "too many requests"
	ErrCauseRequest5xx            FetchErrorCause = "5xx"
	ErrCauseExhaustedRetries      FetchErrorCause = "exhausted retries"
	ErrCauseNotHTML               FetchErrorCause = "failed to parse response as HTML"
)

// FetchError is recoverable at page granularity: it ends one page's
// pagination chain, never the run.
type FetchError struct {
	Message   string
	Retryable bool
	Cause     FetchErrorCause
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch error: %s", e.Cause)
}

func (e *FetchError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

// IsRetryable reports whether another attempt against the same URL can
// plausibly succeed (timeouts, 429s, 5xx).
func (e *FetchError) IsRetryable() bool {
	return e.Retryable
}
