// Package normalize maps source-specific raw records into canonical
// events. It is pure: no I/O, no shared state.
package normalize

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/JakeFAU/events-aggregator/internal/category"
	"github.com/JakeFAU/events-aggregator/internal/event"
)

var whitespace = regexp.MustCompile(`\s+`)

// Normalize builds a canonical event from a raw record and the adapter's
// provenance tag. The second return is false when the record has no
// derivable title and must be dropped.
func Normalize(raw event.RawEvent, sourceTag string) (event.Event, bool) {
	title := firstNonEmpty(clean(raw.Name), clean(raw.Title))
	if title == "" {
		return event.Event{}, false
	}

	venue := clean(raw.Venue)
	description := firstNonEmpty(clean(raw.Description), clean(raw.Note))

	e := event.Event{
		Title:       title,
		OccursAt:    occursAt(raw),
		Venue:       venue,
		Location:    location(raw, venue),
		URL:         resolveURL(raw.URL, raw.PageURL),
		Description: description,
		Sources:     []string{sourceTag},
		Categories:  category.Tags(title, description, venue),
	}
	return e, true
}

// occursAt prefers a machine-parseable timestamp over human-readable
// date/time fragments. Separate fragments are joined date-then-time with
// a single space; a lone fragment is used as-is.
func occursAt(raw event.RawEvent) string {
	if ts := clean(raw.DateTime); ts != "" {
		return ts
	}
	date := clean(raw.Date)
	t := clean(raw.Time)
	switch {
	case date != "" && t != "":
		return date + " " + t
	case date != "":
		return date
	default:
		return t
	}
}

// location composes the venue name with city/state/address fragments,
// skipping absent components so no trailing separators survive. An
// adapter-supplied pre-composed location wins outright.
func location(raw event.RawEvent, venue string) string {
	if loc := clean(raw.Location); loc != "" {
		return loc
	}
	parts := make([]string, 0, 4)
	for _, p := range []string{venue, clean(raw.City), clean(raw.State), clean(raw.Address)} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// resolveURL turns a relative link into an absolute one against the
// originating document. Absolute URLs pass through unchanged.
func resolveURL(raw, pageURL string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if ref.IsAbs() || pageURL == "" {
		return ref.String()
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

func clean(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
