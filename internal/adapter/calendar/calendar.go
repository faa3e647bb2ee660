// Package calendar implements the multi-fragment source adapter for
// day-indexed calendar sites: one document per day across a fixed window,
// with per-day failures tolerated.
package calendar

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/events-aggregator/internal/adapter/venuepage"
	"github.com/JakeFAU/events-aggregator/internal/event"
)

// Config describes a calendar site scraped over consecutive days.
type Config struct {
	Source string
	// URLTemplate is a Go time layout; day N's URL is day.Format(URLTemplate),
	// e.g. "https://www.funcheap.com/2006/01/02/".
	URLTemplate string
	Days        int
	Venue       string
	Location    string
	UserAgent   string
	Selectors   venuepage.Selectors
	Timeout     time.Duration
}

// Adapter fetches N consecutive day pages.
type Adapter struct {
	cfg    Config
	clock  event.Clock
	logger *zap.Logger
}

// New builds an Adapter. The clock supplies the window start when the
// filter carries none.
func New(cfg Config, clock event.Clock, logger *zap.Logger) *Adapter {
	if cfg.Days <= 0 {
		cfg.Days = 7
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{cfg: cfg, clock: clock, logger: logger}
}

// Name returns the provenance tag for this calendar.
func (a *Adapter) Name() string { return a.cfg.Source }

// Fetch retrieves every day page in the window. A failure on one URL does
// not abort the remaining URLs; failures accumulate as fragment counts.
// The error is non-nil only when every constituent URL failed.
func (a *Adapter) Fetch(ctx context.Context, f event.Filter) (event.FetchResult, error) {
	start := f.StartTime
	if start.IsZero() {
		start = a.clock.Now()
	}

	opts := venuepage.PageOptions{
		Venue:     a.cfg.Venue,
		Location:  a.cfg.Location,
		UserAgent: a.cfg.UserAgent,
		Selectors: a.cfg.Selectors,
		Timeout:   a.cfg.Timeout,
	}

	var result event.FetchResult
	var lastErr error
	for day := 0; day < a.cfg.Days; day++ {
		pageURL := start.AddDate(0, 0, day).Format(a.cfg.URLTemplate)
		raws, err := venuepage.CollectPage(ctx, pageURL, opts)
		if err != nil {
			result.FailedFragments++
			lastErr = err
			a.logger.Warn("day page fetch failed",
				zap.String("source", a.cfg.Source),
				zap.String("url", pageURL),
				zap.Error(err),
			)
			continue
		}
		result.Events = append(result.Events, raws...)
	}
	if result.FailedFragments == a.cfg.Days {
		return event.FetchResult{}, &event.SourceUnavailableError{Source: a.cfg.Source, Err: lastErr}
	}
	return result, nil
}
