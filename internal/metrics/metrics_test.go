package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JakeFAU/events-aggregator/internal/event"
)

func TestInit(t *testing.T) {
	// Reset collectors for testing purposes.
	ingestEventsTotal = nil
	ingestSourceFailuresTotal = nil
	httpRequestsTotal = nil
	httpRequestDurationSeconds = nil

	// Call Init multiple times to test idempotency.
	Init()
	Init()

	if ingestEventsTotal == nil || ingestSourceFailuresTotal == nil ||
		httpRequestsTotal == nil || httpRequestDurationSeconds == nil {
		t.Fatal("Init() did not initialize metrics collectors")
	}

	ingestEventsTotal.WithLabelValues("Ticketmaster", "inserted").Inc()
	if val := testutil.ToFloat64(ingestEventsTotal); val != 1 {
		t.Errorf("Expected ingestEventsTotal to be 1, got %f", val)
	}
}

func TestObserveOutcome(t *testing.T) {
	Init()

	ObserveOutcome("Warfield", 3, 2, 1, 0)

	if val := testutil.ToFloat64(ingestEventsTotal.WithLabelValues("Warfield", "inserted")); val != 3 {
		t.Errorf("Expected inserted counter to be 3, got %f", val)
	}
	if val := testutil.ToFloat64(ingestEventsTotal.WithLabelValues("Warfield", "merged")); val != 2 {
		t.Errorf("Expected merged counter to be 2, got %f", val)
	}
	if val := testutil.ToFloat64(ingestEventsTotal.WithLabelValues("Warfield", "skipped")); val != 1 {
		t.Errorf("Expected skipped counter to be 1, got %f", val)
	}
	// Zero counts must not create a labeled series.
	if got := testutil.CollectAndCount(ingestEventsTotal); got < 3 {
		t.Errorf("Expected at least 3 series, got %d", got)
	}
}

func TestObserveRun(t *testing.T) {
	Init()

	before := testutil.ToFloat64(ingestRunsTotal)
	ObserveRun(event.IngestionReport{Duration: 2 * time.Second})
	if val := testutil.ToFloat64(ingestRunsTotal); val != before+1 {
		t.Errorf("Expected ingestRunsTotal to be %f, got %f", before+1, val)
	}
	if val := testutil.CollectAndCount(ingestRunDurationSeconds); val <= 0 {
		t.Errorf("Expected ingestRunDurationSeconds to be observed, got %d", val)
	}
}

func TestObserveSourceFailure(t *testing.T) {
	Init()

	ObserveSourceFailure("Fillmore")
	ObserveSourceFailure("Fillmore")
	if val := testutil.ToFloat64(ingestSourceFailuresTotal.WithLabelValues("Fillmore")); val != 2 {
		t.Errorf("Expected source failure counter to be 2, got %f", val)
	}
}

func TestObserveFragmentFailures(t *testing.T) {
	Init()

	ObserveFragmentFailures("Ticketmaster", 4)
	ObserveFragmentFailures("Ticketmaster", 0)
	if val := testutil.ToFloat64(ingestFragmentFailures.WithLabelValues("Ticketmaster")); val != 4 {
		t.Errorf("Expected fragment failure counter to be 4, got %f", val)
	}
}
