// Package venuepage implements the static-page source adapter: one venue
// events page with no pagination cursor, parsed with per-venue CSS
// selectors.
package venuepage

import (
	"context"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/JakeFAU/events-aggregator/internal/event"
)

// Selectors names the CSS selectors that locate event fragments on a page.
type Selectors struct {
	Container string
	Title     string
	Date      string
	Time      string
	Link      string
}

// PageOptions controls how a single document is fetched and parsed.
type PageOptions struct {
	Venue     string
	Location  string
	UserAgent string
	Selectors Selectors
	Timeout   time.Duration
}

// Config describes one venue events page.
type Config struct {
	Source    string
	URL       string
	Venue     string
	Location  string
	UserAgent string
	Selectors Selectors
	Timeout   time.Duration
}

// Adapter fetches a single fixed events page.
type Adapter struct {
	cfg    Config
	logger *zap.Logger
}

// New builds an Adapter for one venue page.
func New(cfg Config, logger *zap.Logger) *Adapter {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{cfg: cfg, logger: logger}
}

// Name returns the provenance tag for this venue.
func (a *Adapter) Name() string { return a.cfg.Source }

// Fetch retrieves and parses the configured page. With a single
// constituent document, any failure is a SourceUnavailable failure.
func (a *Adapter) Fetch(ctx context.Context, _ event.Filter) (event.FetchResult, error) {
	raws, err := CollectPage(ctx, a.cfg.URL, PageOptions{
		Venue:     a.cfg.Venue,
		Location:  a.cfg.Location,
		UserAgent: a.cfg.UserAgent,
		Selectors: a.cfg.Selectors,
		Timeout:   a.cfg.Timeout,
	})
	if err != nil {
		return event.FetchResult{}, &event.SourceUnavailableError{Source: a.cfg.Source, Err: err}
	}
	a.logger.Debug("venue page fetched",
		zap.String("source", a.cfg.Source),
		zap.Int("events", len(raws)),
	)
	return event.FetchResult{Events: raws}, nil
}

// CollectPage fetches one document and extracts a raw event per container
// match, in document order. The request timeout is the sole cancellation
// mechanism; ctx is only consulted before the fetch starts.
func CollectPage(ctx context.Context, pageURL string, opts PageOptions) ([]event.RawEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("collect %s: %w", pageURL, err)
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	c := colly.NewCollector()
	c.SetRequestTimeout(timeout)
	if opts.UserAgent != "" {
		c.UserAgent = opts.UserAgent
	}

	var raws []event.RawEvent
	c.OnHTML(opts.Selectors.Container, func(el *colly.HTMLElement) {
		raws = append(raws, parseEntry(el, opts, pageURL))
	})

	if err := c.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("visit %s: %w", pageURL, err)
	}
	return raws, nil
}

// parseEntry pulls the raw fields out of one event fragment. Links stay
// relative here; the normalizer resolves them against PageURL.
func parseEntry(el *colly.HTMLElement, opts PageOptions, pageURL string) event.RawEvent {
	sel := opts.Selectors
	raw := event.RawEvent{
		Venue:    opts.Venue,
		Location: opts.Location,
		PageURL:  pageURL,
	}
	if sel.Title != "" {
		raw.Title = joinedText(el.DOM.Find(sel.Title))
	}
	if sel.Date != "" {
		raw.Date = joinedText(el.DOM.Find(sel.Date))
	}
	if sel.Time != "" {
		raw.Time = joinedText(el.DOM.Find(sel.Time))
	}
	if sel.Link != "" {
		if href, ok := el.DOM.Find(sel.Link).First().Attr("href"); ok {
			raw.URL = href
		}
	}
	return raw
}
