package storage

import "time"

// VisitStatus is the outcome of one fetch attempt against a list page.
type VisitStatus string

const (
	StatusSuccess VisitStatus = "success"
	StatusFailure VisitStatus = "failure"
)

// Item is one discovered item link. Records are created once and never
// mutated after being written. Identity is the absolute URL.
type Item struct {
	URL        string    `json:"url"`
	Text       string    `json:"text"`
	SourcePage string    `json:"source_page"`
	Timestamp  time.Time `json:"timestamp"`
}

// PageVisit is one fetch attempt against a list page, written exactly
// once per attempt. Skipped pages never produce a record: resume must be
// silent, not noisy.
type PageVisit struct {
	URL             string      `json:"url"`
	Status          VisitStatus `json:"status"`
	ItemsFound      int         `json:"items_found"`
	PaginationFound int         `json:"pagination_found"`
	ContentHash     string      `json:"content_hash,omitempty"`
	Timestamp       time.Time   `json:"timestamp"`
}
