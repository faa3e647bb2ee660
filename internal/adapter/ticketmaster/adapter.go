// Package ticketmaster implements the paginated Discovery API source
// adapter. The upstream API has no region concept broader than a single
// city, so the adapter runs one full pagination cycle per configured city
// and concatenates the results.
package ticketmaster

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/JakeFAU/events-aggregator/internal/event"
)

const (
	sourceTag    = "Ticketmaster"
	eventsPath   = "/discovery/v2/events.json"
	timeLayout   = "2006-01-02T15:04:05Z"
	defaultPages = 200
)

// Config controls the Discovery API client.
type Config struct {
	BaseURL   string
	APIKey    string
	StateCode string
	Cities    []string
	PageSize  int
	UserAgent string
	Timeout   time.Duration
}

// Adapter fetches events from a Discovery-v2 shaped API.
type Adapter struct {
	cfg    Config
	client *resty.Client
	logger *zap.Logger
}

// New builds an Adapter. The client timeout is the sole cancellation
// mechanism for in-flight page requests.
func New(cfg Config, logger *zap.Logger) *Adapter {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPages
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout)
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}
	return &Adapter{cfg: cfg, client: client, logger: logger}
}

// Name returns the provenance tag for this source.
func (a *Adapter) Name() string { return sourceTag }

// Fetch drains every page for every configured city. A failure fetching
// one city's pages does not abort the other cities; each failed city is
// counted as one failed fragment. The error is non-nil only when every
// city failed.
func (a *Adapter) Fetch(ctx context.Context, f event.Filter) (event.FetchResult, error) {
	cities := a.cfg.Cities
	if f.Region != "" {
		cities = []string{f.Region}
	}
	if len(cities) == 0 {
		return event.FetchResult{}, &event.SourceUnavailableError{
			Source: sourceTag,
			Err:    fmt.Errorf("no cities configured"),
		}
	}

	var result event.FetchResult
	var lastErr error
	for _, city := range cities {
		raws, err := a.fetchCity(ctx, city, f)
		if err != nil {
			result.FailedFragments++
			lastErr = err
			a.logger.Warn("city fetch failed",
				zap.String("source", sourceTag),
				zap.String("city", city),
				zap.Error(err),
			)
			continue
		}
		a.logger.Debug("city fetched",
			zap.String("city", city),
			zap.Int("events", len(raws)),
		)
		result.Events = append(result.Events, raws...)
	}
	if result.FailedFragments == len(cities) {
		return event.FetchResult{}, &event.SourceUnavailableError{Source: sourceTag, Err: lastErr}
	}
	return result, nil
}

// fetchCity requests page 0, reads total_pages from that first response,
// then requests pages 1..total_pages-1 with the same filter. No event is
// yielded until the whole city is drained.
func (a *Adapter) fetchCity(ctx context.Context, city string, f event.Filter) ([]event.RawEvent, error) {
	var raws []event.RawEvent
	totalPages := 1
	for page := 0; page < totalPages; page++ {
		resp, err := a.fetchPage(ctx, city, f, page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		if page == 0 {
			// Only the first response is trusted for the page count, so a
			// page that erroneously repeats total_pages cannot extend the loop.
			totalPages = resp.Page.TotalPages
		}
		for _, de := range resp.Embedded.Events {
			raws = append(raws, de.toRaw())
		}
	}
	return raws, nil
}

func (a *Adapter) fetchPage(ctx context.Context, city string, f event.Filter, page int) (*discoveryResponse, error) {
	params := map[string]string{
		"apikey": a.cfg.APIKey,
		"size":   strconv.Itoa(a.cfg.PageSize),
		"page":   strconv.Itoa(page),
		"city":   city,
	}
	if a.cfg.StateCode != "" {
		params["stateCode"] = a.cfg.StateCode
	}
	if f.Keyword != "" {
		params["keyword"] = f.Keyword
	}
	if !f.StartTime.IsZero() {
		params["startDateTime"] = f.StartTime.UTC().Format(timeLayout)
	}
	if !f.EndTime.IsZero() {
		params["endDateTime"] = f.EndTime.UTC().Format(timeLayout)
	}

	var out discoveryResponse
	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&out).
		Get(eventsPath)
	if err != nil {
		return nil, fmt.Errorf("get events: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("get events: status %d", resp.StatusCode())
	}
	return &out, nil
}
