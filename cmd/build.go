package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/JakeFAU/events-aggregator/internal/adapter/calendar"
	"github.com/JakeFAU/events-aggregator/internal/adapter/ticketmaster"
	"github.com/JakeFAU/events-aggregator/internal/adapter/venuepage"
	"github.com/JakeFAU/events-aggregator/internal/clock/system"
	"github.com/JakeFAU/events-aggregator/internal/config"
	"github.com/JakeFAU/events-aggregator/internal/event"
	"github.com/JakeFAU/events-aggregator/internal/id/uuid"
	"github.com/JakeFAU/events-aggregator/internal/ingest"
	memorystore "github.com/JakeFAU/events-aggregator/internal/store/memory"
	"github.com/JakeFAU/events-aggregator/internal/store/postgres"

	pubsubpub "github.com/JakeFAU/events-aggregator/internal/publisher/pubsub"
)

// buildStore selects the event store from config.
func buildStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (event.Store, error) {
	switch cfg.DB.Provider {
	case "postgres":
		store, err := postgres.NewStore(ctx, postgres.Config{
			DSN:      cfg.DB.DSN,
			Table:    cfg.DB.Table,
			MaxConns: cfg.DB.MaxConns,
			MinConns: cfg.DB.MinConns,
		})
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
		logger.Info("using postgres event store", zap.String("table", cfg.DB.Table))
		return store, nil
	case "memory":
		logger.Info("using in-memory event store")
		return memorystore.New(), nil
	default:
		return nil, fmt.Errorf("unknown db.provider %q", cfg.DB.Provider)
	}
}

// buildAdapters assembles every enabled source adapter from config.
func buildAdapters(cfg config.Config, clock event.Clock, logger *zap.Logger) []event.SourceAdapter {
	var adapters []event.SourceAdapter

	if cfg.Ticketmaster.Enabled {
		adapters = append(adapters, ticketmaster.New(ticketmaster.Config{
			BaseURL:   cfg.Ticketmaster.BaseURL,
			APIKey:    cfg.Ticketmaster.APIKey,
			StateCode: cfg.Ticketmaster.StateCode,
			Cities:    cfg.Ticketmaster.Cities,
			PageSize:  cfg.Ticketmaster.PageSize,
			UserAgent: cfg.HTTP.UserAgent,
			Timeout:   cfg.FetchTimeout(),
		}, logger))
	}

	for _, v := range cfg.Venues {
		adapters = append(adapters, venuepage.New(venuepage.Config{
			Source:    v.Source,
			URL:       v.URL,
			Venue:     v.Venue,
			Location:  v.Location,
			UserAgent: cfg.HTTP.UserAgent,
			Selectors: toSelectors(v.Selectors),
			Timeout:   cfg.FetchTimeout(),
		}, logger))
	}

	for _, c := range cfg.Calendars {
		adapters = append(adapters, calendar.New(calendar.Config{
			Source:      c.Source,
			URLTemplate: c.URLTemplate,
			Days:        c.Days,
			Venue:       c.Venue,
			Location:    c.Location,
			UserAgent:   cfg.HTTP.UserAgent,
			Selectors:   toSelectors(c.Selectors),
			Timeout:     cfg.FetchTimeout(),
		}, clock, logger))
	}

	return adapters
}

func toSelectors(s config.SelectorConfig) venuepage.Selectors {
	return venuepage.Selectors{
		Container: s.Container,
		Title:     s.Title,
		Date:      s.Date,
		Time:      s.Time,
		Link:      s.Link,
	}
}

// buildPublisher returns a Pub/Sub publisher when enabled, nil otherwise.
func buildPublisher(ctx context.Context, cfg config.Config, logger *zap.Logger) (event.Publisher, func(), error) {
	if !cfg.PubSub.Enabled {
		return nil, func() {}, nil
	}
	pub, err := pubsubpub.New(ctx, cfg.PubSub.ProjectID, cfg.PubSub.TopicName)
	if err != nil {
		return nil, nil, fmt.Errorf("init pubsub publisher: %w", err)
	}
	logger.Info("publishing ingestion reports",
		zap.String("project", cfg.PubSub.ProjectID),
		zap.String("topic", cfg.PubSub.TopicName),
	)
	closer := func() {
		if err := pub.Close(); err != nil {
			logger.Warn("pubsub close failed", zap.Error(err))
		}
	}
	return pub, closer, nil
}

// buildOrchestrator composes the ingestion pipeline from config.
func buildOrchestrator(
	cfg config.Config,
	store event.Store,
	publisher event.Publisher,
	clock event.Clock,
	logger *zap.Logger,
) *ingest.Orchestrator {
	adapters := buildAdapters(cfg, clock, logger)
	logger.Info("sources configured", zap.Int("adapters", len(adapters)))
	return ingest.New(adapters, store, publisher, uuid.Generator{}, clock, logger, cfg.Ingest.ReportTopic)
}

// newClock returns the process-wide wall clock.
func newClock() event.Clock {
	return system.Clock{}
}
