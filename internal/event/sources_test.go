package event

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeSourcesAddsNewTags(t *testing.T) {
	t.Parallel()

	merged, changed := MergeSources([]string{"Ticketmaster"}, []string{"thewarfieldtheatre.com"})
	require.True(t, changed)
	require.Equal(t, []string{"Ticketmaster", "thewarfieldtheatre.com"}, merged)
}

func TestMergeSourcesIdempotentOnSubset(t *testing.T) {
	t.Parallel()

	existing := []string{"Ticketmaster", "thewarfieldtheatre.com"}
	merged, changed := MergeSources(existing, []string{"Ticketmaster"})
	require.False(t, changed)
	require.Equal(t, existing, merged)
}

func TestMergeSourcesDeduplicatesExisting(t *testing.T) {
	t.Parallel()

	merged, changed := MergeSources([]string{"a", "a", "b"}, nil)
	require.False(t, changed)
	require.Equal(t, []string{"a", "b"}, merged)
}
