package fetcher

import (
	"context"

	"github.com/rohmanhakim/list-crawler/pkg/failure"
)

// Fetcher is the page-fetching collaborator the crawl loop suspends on.
// Implementations own all networking concerns; the engine only consumes
// Documents. The call is the single blocking operation per cycle.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (Document, failure.ClassifiedError)
}
