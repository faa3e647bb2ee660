package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/events-aggregator/internal/config"
	"github.com/JakeFAU/events-aggregator/internal/event"
	"github.com/JakeFAU/events-aggregator/internal/ingest"
	memorystore "github.com/JakeFAU/events-aggregator/internal/store/memory"
)

type fakeAdapter struct {
	name   string
	result event.FetchResult
	err    error
	gotF   event.Filter
}

func (a *fakeAdapter) Name() string { return a.name }

func (a *fakeAdapter) Fetch(_ context.Context, f event.Filter) (event.FetchResult, error) {
	a.gotF = f
	if a.err != nil {
		return event.FetchResult{}, a.err
	}
	return a.result, nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type fakeIDGen struct{}

func (fakeIDGen) NewID() (string, error) { return "run-api", nil }

type failingStore struct {
	*memorystore.Store
}

func (failingStore) Ping(context.Context) error { return errors.New("dial refused") }

func testConfig() config.Config {
	return config.Config{
		Ingest:  config.IngestConfig{LookaheadDays: 30},
		HTTP:    config.HTTPConfig{TimeoutSeconds: 15},
		Logging: config.LoggingConfig{Development: true},
	}
}

func newTestServer(t *testing.T, store event.Store, adapters ...event.SourceAdapter) *Server {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)}
	orch := ingest.New(adapters, store, nil, fakeIDGen{}, clock, zap.NewNop(), "")
	return NewServer(store, orch, clock, testConfig(), zap.NewNop())
}

func TestServer_Healthz(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, memorystore.New())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ok")
}

func TestServer_Healthz_StoreDown(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, failingStore{memorystore.New()})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_Ingest_ReturnsEventsAndReport(t *testing.T) {
	t.Parallel()

	adapter := &fakeAdapter{name: "Ticketmaster", result: event.FetchResult{Events: []event.RawEvent{
		{Name: "Concert A", DateTime: "2026-09-05T20:00:00Z", Venue: "The Warfield"},
	}}}
	server := newTestServer(t, memorystore.New(), adapter)

	req := httptest.NewRequest(http.MethodPost, "/v1/ingest?keyword=rock", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count  int                   `json:"count"`
		Events []event.Event         `json:"events"`
		Report event.IngestionReport `json:"report"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	require.Len(t, resp.Events, 1)
	require.Equal(t, "Concert A", resp.Events[0].Title)
	require.Equal(t, "run-api", resp.Report.RunID)
	require.Equal(t, 1, resp.Report.Inserted)
	require.Equal(t, "rock", adapter.gotF.Keyword)
}

func TestServer_Ingest_StoreDown(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, failingStore{memorystore.New()}, &fakeAdapter{name: "Ticketmaster"})

	req := httptest.NewRequest(http.MethodPost, "/v1/ingest", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_Ingest_DefaultWindow(t *testing.T) {
	t.Parallel()

	adapter := &fakeAdapter{name: "Ticketmaster"}
	server := newTestServer(t, memorystore.New(), adapter)

	req := httptest.NewRequest(http.MethodPost, "/v1/ingest", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	want := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	require.Equal(t, want, adapter.gotF.StartTime)
	require.Equal(t, want.Add(30*24*time.Hour), adapter.gotF.EndTime)
}

func TestServer_Ingest_ExplicitWindow(t *testing.T) {
	t.Parallel()

	adapter := &fakeAdapter{name: "Ticketmaster"}
	server := newTestServer(t, memorystore.New(), adapter)

	target := "/v1/ingest?start_time=2026-10-01T00:00:00Z&end_time=2026-10-08T00:00:00Z"
	req := httptest.NewRequest(http.MethodPost, target, nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), adapter.gotF.StartTime)
	require.Equal(t, time.Date(2026, 10, 8, 0, 0, 0, 0, time.UTC), adapter.gotF.EndTime)
}

func TestServer_Ingest_BadTimestamp(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, memorystore.New(), &fakeAdapter{name: "Ticketmaster"})

	req := httptest.NewRequest(http.MethodPost, "/v1/ingest?start_time=tomorrow", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "start_time")
}

func TestServer_Ingest_EndBeforeStart(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, memorystore.New(), &fakeAdapter{name: "Ticketmaster"})

	target := "/v1/ingest?start_time=2026-10-08T00:00:00Z&end_time=2026-10-01T00:00:00Z"
	req := httptest.NewRequest(http.MethodPost, target, nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ListEvents(t *testing.T) {
	t.Parallel()

	store := memorystore.New()
	_, err := store.UpsertBatch(context.Background(), []event.Event{
		{Title: "Concert A", OccursAt: "2026-09-05T20:00:00Z", Venue: "The Warfield", Sources: []string{"Ticketmaster"}},
		{Title: "Concert B", OccursAt: "2026-09-06T20:00:00Z", Venue: "The Fillmore", Sources: []string{"Warfield"}},
	})
	require.NoError(t, err)
	server := newTestServer(t, store)

	req := httptest.NewRequest(http.MethodGet, "/v1/events?source=Ticketmaster", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count  int           `json:"count"`
		Events []event.Event `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	require.Equal(t, "Concert A", resp.Events[0].Title)
}

func TestServer_ListEvents_BadLimit(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, memorystore.New())

	req := httptest.NewRequest(http.MethodGet, "/v1/events?limit=lots", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ListEvents_EmptyStore(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, memorystore.New())

	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"count":0,"events":[]}`, rec.Body.String())
}

func TestServer_APIKeyEnforced(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)}
	store := memorystore.New()
	orch := ingest.New(nil, store, nil, fakeIDGen{}, clock, zap.NewNop(), "")
	cfg := testConfig()
	cfg.Auth.Enabled = true
	cfg.Auth.APIKey = "sekrit"
	server := NewServer(store, orch, clock, cfg, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	req.Header.Set("X-API-Key", "sekrit")
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_RequestIDHeader(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, memorystore.New())

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
