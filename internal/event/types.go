// Package event defines the canonical event model and the core contracts
// shared across adapters, the ingestion orchestrator, and the stores.
package event

import "time"

// Event is the canonical, storeable event record. Empty strings on the
// nullable fields mean "absent" and are persisted as NULL.
type Event struct {
	ID          int64    `json:"id,omitempty"`
	Title       string   `json:"title"`
	OccursAt    string   `json:"occurs_at,omitempty"`
	Venue       string   `json:"venue,omitempty"`
	Location    string   `json:"location,omitempty"`
	URL         string   `json:"url,omitempty"`
	Description string   `json:"description,omitempty"`
	Sources     []string `json:"sources"`
	Categories  []string `json:"categories,omitempty"`
}

// RawEvent is the un-normalized, source-specific record produced by an
// adapter. Adapters fill whichever fields their source exposes; only the
// normalizer interprets them.
type RawEvent struct {
	// Name is the most specific title field (API payloads); Title is the
	// fallback used by page scrapers.
	Name  string
	Title string

	// DateTime is a machine-parseable timestamp. Date and Time are the
	// human-readable fragments used when no timestamp exists.
	DateTime string
	Date     string
	Time     string

	Venue   string
	City    string
	State   string
	Address string

	// Location, when set by an adapter, is a pre-composed address string
	// and wins over the City/State/Address fragments.
	Location string

	// URL may be relative; PageURL is the document it was discovered on.
	URL     string
	PageURL string

	Description string
	Note        string
}

// Filter bounds what an adapter fetches. Zero values mean unbounded.
type Filter struct {
	Keyword   string
	Region    string
	StartTime time.Time
	EndTime   time.Time
}

// FetchResult carries everything an adapter collected, plus a count of
// constituent requests (pages, URLs, cities) that failed along the way.
type FetchResult struct {
	Events          []RawEvent
	FailedFragments int
}

// AdapterFailure records one adapter whose fetch failed entirely.
type AdapterFailure struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// IngestionReport summarizes a single orchestrator run. It replaces any
// print-based progress reporting: callers log it, export it, or publish it.
type IngestionReport struct {
	RunID             string           `json:"run_id"`
	StartedAt         time.Time        `json:"started_at"`
	Duration          time.Duration    `json:"duration"`
	Inserted          int              `json:"inserted"`
	Merged            int              `json:"merged"`
	Skipped           int              `json:"skipped"`
	Dropped           int              `json:"dropped"`
	FailedFragments   int              `json:"failed_fragments"`
	PersistenceErrors int              `json:"persistence_errors"`
	Failures          []AdapterFailure `json:"failures,omitempty"`
}

// UpsertError records a single event that failed to persist.
type UpsertError struct {
	Title string `json:"title"`
	Err   string `json:"error"`
}

// UpsertResult is returned by Store.UpsertBatch.
type UpsertResult struct {
	Inserted int
	Merged   int
	Skipped  int
	Errors   []UpsertError
}

// ListQuery filters and bounds Store.List. Limit is clamped by the store.
type ListQuery struct {
	Source string
	Limit  int
}
