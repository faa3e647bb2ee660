package event

import (
	"context"
	"time"
)

// SourceAdapter fetches zero or more RawEvents for one logical source,
// hiding its pagination and per-site quirks. Fetch returns a non-nil error
// only when every constituent request failed; partial success returns the
// events collected so far plus a FailedFragments count.
type SourceAdapter interface {
	// Name returns the provenance tag recorded on normalized events.
	Name() string
	Fetch(ctx context.Context, f Filter) (FetchResult, error)
}

// Store persists canonical events with merge-on-conflict semantics keyed
// on the (title, occurs_at, venue) identity tuple.
type Store interface {
	UpsertBatch(ctx context.Context, events []Event) (UpsertResult, error)
	List(ctx context.Context, q ListQuery) ([]Event, error)
	Ping(ctx context.Context) error
	Close()
}

// Publisher pushes ingestion reports to Pub/Sub (or similar).
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces run IDs (UUIDs).
type IDGenerator interface {
	NewID() (string, error)
}
