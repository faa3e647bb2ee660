// Package dedup derives the stable identity key used to decide whether
// two events refer to the same real-world event.
package dedup

import (
	"strings"

	"github.com/JakeFAU/events-aggregator/internal/event"
)

// Key is the (title, occurs_at, venue) identity tuple. Two events with
// equal keys are the same event and must collapse into one stored row.
// Note that two events with empty venues and otherwise identical title
// and time compare equal; distinct same-named events at venue-less
// sources will over-merge.
type Key struct {
	Title    string
	OccursAt string
	Venue    string
}

// For builds the identity key for a canonical event.
func For(e event.Event) Key {
	return Key{
		Title:    strings.TrimSpace(e.Title),
		OccursAt: strings.TrimSpace(e.OccursAt),
		Venue:    strings.TrimSpace(e.Venue),
	}
}
