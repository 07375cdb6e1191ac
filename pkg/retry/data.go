package retry

import (
	"time"

	"github.com/rohmanhakim/list-crawler/pkg/timeutil"
)

// RetryParam holds the parameters for retry logic. They come from the
// caller's configuration; the handler has no defaults of its own.
type RetryParam struct {
	Jitter       time.Duration
	RandomSeed   int64
	MaxAttempts  int
	BackoffParam timeutil.BackoffParam
}

// NewRetryParam builds a RetryParam. A zero randomSeed means the caller
// wants no fixed sequence; the current time is used instead.
func NewRetryParam(
	jitter time.Duration,
	randomSeed int64,
	maxAttempts int,
	backoffParam timeutil.BackoffParam,
) RetryParam {
	if randomSeed == 0 {
		randomSeed = time.Now().UnixNano()
	}
	return RetryParam{
		Jitter:       jitter,
		RandomSeed:   randomSeed,
		MaxAttempts:  maxAttempts,
		BackoffParam: backoffParam,
	}
}
