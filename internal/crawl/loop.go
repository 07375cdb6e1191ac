package crawl

import (
	"context"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/rohmanhakim/list-crawler/internal/dedup"
	"github.com/rohmanhakim/list-crawler/internal/extractor"
	"github.com/rohmanhakim/list-crawler/internal/fetcher"
	"github.com/rohmanhakim/list-crawler/internal/pagination"
	"github.com/rohmanhakim/list-crawler/internal/recipe"
	"github.com/rohmanhakim/list-crawler/internal/storage"
	"github.com/rohmanhakim/list-crawler/pkg/failure"
	"github.com/rohmanhakim/list-crawler/pkg/hashutil"
	"github.com/rohmanhakim/list-crawler/pkg/limiter"
	"github.com/rohmanhakim/list-crawler/pkg/urlutil"
)

/*
 Loop is the sole control-plane authority of a list crawl.

 Admission guarantees:
 - Loop is the ONLY component allowed to decide whether a URL is
   fetched. The resolver proposes candidates; it never enqueues.
 - Cross-run dedup (the seen store) and in-run dedup (the queued set)
   are both applied here, before a candidate enters the queue or a
   queued URL reaches the fetcher.
 - One fetch at a time. The fetcher call and the pacing delay are the
   only points where the loop suspends; everything between fetches is
   synchronous.

 Cancellation is observed at the top of each iteration and inside the
 pacing delay. An in-flight fetch/extract/persist cycle always finishes
 so the seen store is never left mid-write.

 Failure policy:
 - A page's fetch failure ends that page's pagination chain and is
   recorded as a failure visit; the run continues with other queued
   URLs.
 - Sink and store write failures are fatal: losing records silently
   would defeat the point of an append-only log.
*/

type Loop struct {
	rec      recipe.Recipe
	fetch    fetcher.Fetcher
	resolver pagination.Resolver
	store    *dedup.Store
	sink     storage.Sink
	pacer    limiter.RateLimiter
	log      *zap.SugaredLogger
	opts     Options
}

func NewLoop(
	rec recipe.Recipe,
	fetch fetcher.Fetcher,
	store *dedup.Store,
	sink storage.Sink,
	log *zap.SugaredLogger,
	opts Options,
) *Loop {
	pacer := limiter.NewHostRateLimiter()
	pacer.SetBaseDelay(opts.Delay)
	pacer.SetJitter(opts.Jitter)

	return &Loop{
		rec:      rec,
		fetch:    fetch,
		resolver: pagination.NewResolver(rec.Pagination),
		store:    store,
		sink:     sink,
		pacer:    pacer,
		log:      log,
		opts:     opts,
	}
}

// Run drives the crawl to completion and returns its summary. The
// summary is meaningful even on error: pages already processed stay
// persisted and counted.
func (l *Loop) Run(ctx context.Context) (Summary, failure.ClassifiedError) {
	started := time.Now()
	summary := Summary{}

	queue := make([]string, 0, len(l.rec.StartURLs))
	queued := make(map[string]struct{})

	enqueue := func(pageURL string) {
		key := urlutil.Canonicalize(pageURL)
		if _, dup := queued[key]; dup {
			return
		}
		queued[key] = struct{}{}
		queue = append(queue, pageURL)
	}

	// INIT: seed the queue. Generative pagination expands each start URL
	// into its full planned sequence here; content-driven strategies
	// seed the start URLs alone and grow the queue per page.
	for _, startURL := range l.rec.StartURLs {
		for _, seeded := range l.resolver.Seed(startURL) {
			enqueue(seeded)
		}
	}

	limitReached := false
	cancelled := false

	for len(queue) > 0 {
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		pageURL := queue[0]
		queue = queue[1:]
		key := urlutil.Canonicalize(pageURL)

		// Resume is silent: an already-seen page is skipped without a
		// fetch, a pacing delay, or a visit record.
		if !l.opts.Force && !l.store.IsNewPage(key) {
			summary.PagesSkipped++
			l.log.Debugw("skipping seen page", "url", pageURL)
			continue
		}

		if summary.PagesFetched > 0 {
			if err := l.pace(ctx, pageURL); err != nil {
				cancelled = true
				break
			}
		}

		doc, fetchErr := l.fetch.Fetch(ctx, pageURL)
		summary.PagesFetched++

		if fetchErr != nil {
			if !failure.IsRecoverable(fetchErr) {
				summary.Elapsed = time.Since(started)
				summary.Reason = l.drainReason(limitReached, cancelled)
				return summary, fetchErr
			}

			summary.PagesFailed++
			l.log.Warnw("fetch failed, abandoning chain", "url", pageURL, "error", fetchErr)

			if err := l.finishCycle(pageURL, key, storage.PageVisit{
				URL:       pageURL,
				Status:    storage.StatusFailure,
				Timestamp: time.Now().UTC(),
			}); err != nil {
				summary.Elapsed = time.Since(started)
				summary.Reason = l.drainReason(limitReached, cancelled)
				return summary, err
			}

			limitReached = l.pageLimitReached(summary)
			if limitReached {
				break
			}
			continue
		}

		// EXTRACT
		items := extractor.ExtractItems(doc, l.rec.ListScopeCSS, l.rec.ItemLinkCSS)
		if l.opts.VerboseSelectors {
			l.log.Infow("selector match counts",
				"url", pageURL,
				"list_scope_css", l.rec.ListScopeCSS,
				"scope_matches", extractor.MatchCount(doc, l.rec.ListScopeCSS),
				"items_extracted", len(items),
			)
		}

		newItems := 0
		for _, item := range items {
			itemKey := urlutil.Canonicalize(item.URL)
			if !l.store.IsNewItem(itemKey) {
				continue
			}
			l.store.MarkItemSeen(itemKey)

			// Dry runs write nothing, so each discovery is surfaced
			// here for inspection instead.
			if l.opts.DryRun {
				l.log.Infow("item discovered",
					"url", item.URL,
					"text", item.Text,
					"source_page", pageURL,
				)
			}

			if err := l.sink.WriteItem(storage.Item{
				URL:        item.URL,
				Text:       item.Text,
				SourcePage: pageURL,
				Timestamp:  time.Now().UTC(),
			}); err != nil {
				summary.Elapsed = time.Since(started)
				summary.Reason = l.drainReason(limitReached, cancelled)
				return summary, err
			}
			newItems++
		}
		summary.ItemsDiscovered += newItems

		// RESOLVE_PAGINATION
		candidates := l.resolver.Resolve(doc)
		if l.opts.DryRun {
			for _, candidate := range candidates {
				l.log.Infow("pagination candidate", "url", candidate, "source_page", pageURL)
			}
		}
		for _, candidate := range candidates {
			candidateKey := urlutil.Canonicalize(candidate)
			if !l.opts.Force && !l.store.IsNewPage(candidateKey) {
				continue
			}
			enqueue(candidate)
		}

		l.log.Infow("page processed",
			"url", pageURL,
			"items_found", len(items),
			"new_items", newItems,
			"pagination_found", len(candidates),
		)

		visit := storage.PageVisit{
			URL:             pageURL,
			Status:          storage.StatusSuccess,
			ItemsFound:      len(items),
			PaginationFound: len(candidates),
			Timestamp:       time.Now().UTC(),
		}
		if hash, err := hashutil.HashBytes(doc.Body(), hashutil.HashAlgoBLAKE3); err == nil {
			visit.ContentHash = hash
		}

		if err := l.finishCycle(pageURL, key, visit); err != nil {
			summary.Elapsed = time.Since(started)
			summary.Reason = l.drainReason(limitReached, cancelled)
			return summary, err
		}

		// APPLY_LIMITS: enforced between pages. The page that crosses
		// max_items keeps all of its newly discovered items, so the
		// overshoot is bounded by one page's worth.
		limitReached = l.pageLimitReached(summary) || l.itemLimitReached(summary)
		if limitReached {
			break
		}
	}

	if err := l.persist(); err != nil {
		summary.Elapsed = time.Since(started)
		summary.Reason = l.drainReason(limitReached, cancelled)
		return summary, err
	}

	summary.Elapsed = time.Since(started)
	summary.Reason = l.drainReason(limitReached, cancelled)
	return summary, nil
}

// pace blocks until the inter-request interval for the page's host has
// elapsed. Returns non-nil only on cancellation.
func (l *Loop) pace(ctx context.Context, pageURL string) error {
	host := hostOf(pageURL)
	delay := l.pacer.ResolveDelay(host)
	if delay <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// finishCycle commits one page's cycle: the visit record, the seen
// mark, and a persist so interruption loses at most this one cycle.
// Failed pages are marked seen too; force re-attempts them.
func (l *Loop) finishCycle(pageURL, key string, visit storage.PageVisit) failure.ClassifiedError {
	if err := l.sink.WritePageVisit(visit); err != nil {
		return err
	}

	l.store.MarkPageSeen(key)
	l.pacer.MarkLastFetchAsNow(hostOf(pageURL))
	return l.persist()
}

func (l *Loop) persist() failure.ClassifiedError {
	if l.opts.DryRun {
		return nil
	}
	return l.store.Persist()
}

func (l *Loop) pageLimitReached(summary Summary) bool {
	return l.rec.Limits.MaxListPages != nil && summary.PagesFetched >= *l.rec.Limits.MaxListPages
}

func (l *Loop) itemLimitReached(summary Summary) bool {
	return l.rec.Limits.MaxItems != nil && summary.ItemsDiscovered >= *l.rec.Limits.MaxItems
}

// drainReason ranks the termination causes: cancellation and limits win
// over a drained queue. A drained queue completes only when the page
// sequence was planned up front; content-driven pagination that ran dry
// is exhausted.
func (l *Loop) drainReason(limitReached, cancelled bool) TerminationReason {
	switch {
	case cancelled:
		return ReasonCancelled
	case limitReached:
		return ReasonLimitReached
	case l.resolver.Generative():
		return ReasonCompleted
	default:
		return ReasonExhausted
	}
}

func hostOf(pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return parsed.Host
}
