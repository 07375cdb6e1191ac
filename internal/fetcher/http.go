package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"github.com/rohmanhakim/list-crawler/pkg/failure"
	"github.com/rohmanhakim/list-crawler/pkg/retry"
)

const (
	// DefaultTimeout bounds a single fetch attempt end to end.
	DefaultTimeout = 10 * time.Second
	// DefaultUserAgent identifies the crawler to target servers.
	DefaultUserAgent = "list-crawler/1.0"
)

// HTTPFetcher fetches pages over plain HTTP(S) with per-attempt retry.
// It is the default Fetcher implementation; anything requiring script
// execution or challenge solving belongs in a different implementation
// behind the same interface.
type HTTPFetcher struct {
	client     *http.Client
	userAgent  string
	retryParam retry.RetryParam
	log        *zap.SugaredLogger
}

func NewHTTPFetcher(
	timeout time.Duration,
	userAgent string,
	retryParam retry.RetryParam,
	log *zap.SugaredLogger,
) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HTTPFetcher{
		client:     &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		retryParam: retryParam,
		log:        log,
	}
}

// Fetch retrieves pageURL and parses it into a Document. Transient
// failures (timeouts, 429, 5xx) are retried per the configured retry
// parameters; everything else fails fast.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (Document, failure.ClassifiedError) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return Document{}, &FetchError{
			Message:   fmt.Sprintf("%v", err),
			Retryable: false,
			Cause:     ErrCauseInvalidURL,
		}
	}

	start := time.Now()
	body, fetchErr := retry.Retry(ctx, f.retryParam, func() ([]byte, failure.ClassifiedError) {
		return f.fetchOnce(ctx, pageURL)
	})
	if fetchErr != nil {
		var fe *FetchError
		if errors.As(fetchErr, &fe) {
			return Document{}, fe
		}
		// Retry handler exhausted its attempts; keep the failure
		// page-scoped rather than run-scoped.
		return Document{}, &FetchError{
			Message:   fetchErr.Error(),
			Retryable: false,
			Cause:     ErrCauseExhaustedRetries,
		}
	}

	doc, parseErr := ParseDocument(body, parsed)
	if parseErr != nil {
		return Document{}, &FetchError{
			Message:   fmt.Sprintf("%v", parseErr),
			Retryable: false,
			Cause:     ErrCauseNotHTML,
		}
	}

	f.log.Debugw("fetched page",
		"url", pageURL,
		"bytes", len(body),
		"elapsed", time.Since(start),
	)
	return doc, nil
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context, pageURL string) ([]byte, failure.ClassifiedError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &FetchError{
			Message:   fmt.Sprintf("%v", err),
			Retryable: false,
			Cause:     ErrCauseInvalidURL,
		}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		cause := ErrCauseNetworkFailure
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			cause = ErrCauseTimeout
		}
		return nil, &FetchError{
			Message:   fmt.Sprintf("%v", err),
			Retryable: true,
			Cause:     cause,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classifyStatus(resp.StatusCode)
	}

	// Decode to UTF-8 per the declared or sniffed charset so selector
	// matching sees the text the page intended.
	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, &FetchError{
			Message:   fmt.Sprintf("%v", err),
			Retryable: true,
			Cause:     ErrCauseReadResponseBodyError,
		}
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, &FetchError{
			Message:   fmt.Sprintf("%v", err),
			Retryable: true,
			Cause:     ErrCauseReadResponseBodyError,
		}
	}
	return body, nil
}

func classifyStatus(code int) *FetchError {
	switch {
	case code == http.StatusTooManyRequests:
		return &FetchError{
			Message:   fmt.Sprintf("status %d", code),
			Retryable: true,
			Cause:     ErrCauseRequestTooMany,
		}
	case code >= 500:
		return &FetchError{
			Message:   fmt.Sprintf("status %d", code),
			Retryable: true,
			Cause:     ErrCauseRequest5xx,
		}
	default:
		return &FetchError{
			Message:   fmt.Sprintf("status %d", code),
			Retryable: false,
			Cause:     ErrCauseNonSuccessStatus,
		}
	}
}
