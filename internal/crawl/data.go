package crawl

import "time"

// TerminationReason says why a run stopped. Limit-reached and cancelled
// are normal outcomes, not errors; a run always yields a Summary.
type TerminationReason string

const (
	// ReasonCompleted means the planned page sequence was fully visited.
	// Only generative pagination (url_template, or none at all) can plan
	// its sequence, so only those recipes complete.
	ReasonCompleted TerminationReason = "completed"

	// ReasonExhausted means content-driven pagination ran out of
	// candidates before any limit was hit.
	ReasonExhausted TerminationReason = "exhausted"

	ReasonLimitReached TerminationReason = "limit-reached"
	ReasonCancelled    TerminationReason = "cancelled"
)

// Options are the caller-level controls threaded into the loop at
// construction. There is no ambient configuration.
type Options struct {
	// Force bypasses the page-seen skip so every queued page is fetched
	// again. Item dedup still applies: a revisited page never re-emits
	// items already in the historical set.
	Force bool

	// DryRun suppresses dedup-store persistence. Pair it with a discard
	// sink so the run touches no files at all.
	DryRun bool

	// VerboseSelectors logs per-page selector match counts without
	// altering behavior.
	VerboseSelectors bool

	// Delay is the minimum interval between fetches against one host,
	// applied before every fetch after the first. Jitter widens it.
	Delay  time.Duration
	Jitter time.Duration
}

// Summary is returned from every run, including failed and cancelled
// ones. Pages that were skipped as already seen are counted separately
// from fetch attempts.
type Summary struct {
	PagesFetched    int
	PagesSkipped    int
	ItemsDiscovered int
	PagesFailed     int
	Elapsed         time.Duration
	Reason          TerminationReason
}
