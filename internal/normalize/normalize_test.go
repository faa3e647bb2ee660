package normalize

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/events-aggregator/internal/event"
)

func TestNormalizeDropsEmptyTitle(t *testing.T) {
	t.Parallel()

	_, ok := Normalize(event.RawEvent{Title: "   \t "}, "Ticketmaster")
	require.False(t, ok)

	_, ok = Normalize(event.RawEvent{}, "Ticketmaster")
	require.False(t, ok)
}

func TestNormalizePrefersNameOverTitle(t *testing.T) {
	t.Parallel()

	e, ok := Normalize(event.RawEvent{Name: "API Name", Title: "Scraped Title"}, "Ticketmaster")
	require.True(t, ok)
	require.Equal(t, "API Name", e.Title)
}

func TestNormalizeCollapsesTitleWhitespace(t *testing.T) {
	t.Parallel()

	e, ok := Normalize(event.RawEvent{Title: "  Jazz \n  Night  "}, "thewarfieldtheatre.com")
	require.True(t, ok)
	require.Equal(t, "Jazz Night", e.Title)
}

func TestNormalizeOccursAtPrefersTimestamp(t *testing.T) {
	t.Parallel()

	e, ok := Normalize(event.RawEvent{
		Name:     "Show",
		DateTime: "2026-09-01T20:00:00Z",
		Date:     "Sep 1",
		Time:     "8:00 PM",
	}, "Ticketmaster")
	require.True(t, ok)
	require.Equal(t, "2026-09-01T20:00:00Z", e.OccursAt)
}

func TestNormalizeOccursAtJoinsDateThenTime(t *testing.T) {
	t.Parallel()

	e, ok := Normalize(event.RawEvent{Title: "Show", Date: "Sep 1", Time: "8:00 PM"}, "x")
	require.True(t, ok)
	require.Equal(t, "Sep 1 8:00 PM", e.OccursAt)

	e, ok = Normalize(event.RawEvent{Title: "Show", Date: "Sep 1"}, "x")
	require.True(t, ok)
	require.Equal(t, "Sep 1", e.OccursAt)

	e, ok = Normalize(event.RawEvent{Title: "Show", Time: "8:00 PM"}, "x")
	require.True(t, ok)
	require.Equal(t, "8:00 PM", e.OccursAt)

	e, ok = Normalize(event.RawEvent{Title: "Show"}, "x")
	require.True(t, ok)
	require.Empty(t, e.OccursAt)
}

func TestNormalizeLocationComposition(t *testing.T) {
	t.Parallel()

	e, ok := Normalize(event.RawEvent{
		Name:  "Show",
		Venue: "The Warfield",
		City:  "San Francisco",
		State: "CA",
	}, "Ticketmaster")
	require.True(t, ok)
	require.Equal(t, "The Warfield", e.Venue)
	require.Equal(t, "The Warfield, San Francisco, CA", e.Location)

	// City present but state absent never yields a trailing separator.
	e, ok = Normalize(event.RawEvent{Name: "Show", Venue: "The Warfield", City: "San Francisco"}, "x")
	require.True(t, ok)
	require.Equal(t, "The Warfield, San Francisco", e.Location)

	e, ok = Normalize(event.RawEvent{Name: "Show"}, "x")
	require.True(t, ok)
	require.Empty(t, e.Location)
}

func TestNormalizePrecomposedLocationWins(t *testing.T) {
	t.Parallel()

	e, ok := Normalize(event.RawEvent{
		Title:    "Show",
		Venue:    "The Warfield, San Francisco, CA",
		Location: "982 Market St, San Francisco, CA 94102",
		City:     "Oakland",
	}, "thewarfieldtheatre.com")
	require.True(t, ok)
	require.Equal(t, "982 Market St, San Francisco, CA 94102", e.Location)
}

func TestNormalizeResolvesRelativeURL(t *testing.T) {
	t.Parallel()

	e, ok := Normalize(event.RawEvent{
		Title:   "Show",
		URL:     "/event/12345",
		PageURL: "https://www.thewarfieldtheatre.com/events",
	}, "thewarfieldtheatre.com")
	require.True(t, ok)
	require.Equal(t, "https://www.thewarfieldtheatre.com/event/12345", e.URL)

	e, ok = Normalize(event.RawEvent{
		Title:   "Show",
		URL:     "https://tickets.example.com/e/1",
		PageURL: "https://www.thewarfieldtheatre.com/events",
	}, "thewarfieldtheatre.com")
	require.True(t, ok)
	require.Equal(t, "https://tickets.example.com/e/1", e.URL)
}

func TestNormalizeSetsSourceAndCategories(t *testing.T) {
	t.Parallel()

	e, ok := Normalize(event.RawEvent{Name: "Symphony Gala", Description: "orchestra performance"}, "Ticketmaster")
	require.True(t, ok)
	require.Equal(t, []string{"Ticketmaster"}, e.Sources)
	require.Contains(t, e.Categories, "Music")
}

func TestNormalizeDescriptionFallsBackToNote(t *testing.T) {
	t.Parallel()

	e, ok := Normalize(event.RawEvent{Name: "Show", Note: "doors at 7"}, "Ticketmaster")
	require.True(t, ok)
	require.Equal(t, "doors at 7", e.Description)
}
