// Package ingest coordinates source adapters, normalization, and the
// event store for a single aggregation run.
package ingest

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/JakeFAU/events-aggregator/internal/event"
	"github.com/JakeFAU/events-aggregator/internal/metrics"
	"github.com/JakeFAU/events-aggregator/internal/normalize"
)

// Orchestrator fans out one fetch per adapter and funnels the results
// through normalization into the store. A failing adapter never aborts
// the run; its failure is recorded on the report instead.
type Orchestrator struct {
	adapters  []event.SourceAdapter
	store     event.Store
	publisher event.Publisher
	idGen     event.IDGenerator
	clock     event.Clock
	logger    *zap.Logger
	topic     string
}

// New creates an Orchestrator. The publisher may be nil, in which case
// run reports are not published.
func New(
	adapters []event.SourceAdapter,
	store event.Store,
	publisher event.Publisher,
	idGen event.IDGenerator,
	clock event.Clock,
	logger *zap.Logger,
	topic string,
) *Orchestrator {
	metrics.Init()
	return &Orchestrator{
		adapters:  adapters,
		store:     store,
		publisher: publisher,
		idGen:     idGen,
		clock:     clock,
		logger:    logger,
		topic:     topic,
	}
}

// adapterResult carries everything one adapter goroutine produced.
type adapterResult struct {
	source          string
	events          []event.Event
	dropped         int
	failedFragments int
	err             error
}

// Run executes one ingestion pass across all adapters and returns the
// run report together with every normalized event that was submitted
// to the store. Adapters are fetched concurrently; normalization and
// persistence happen per adapter as its fetch completes.
func (o *Orchestrator) Run(ctx context.Context, f event.Filter) (event.IngestionReport, []event.Event) {
	runID, err := o.idGen.NewID()
	if err != nil {
		o.logger.Warn("run id generation failed", zap.Error(err))
		runID = "unknown"
	}
	report := event.IngestionReport{
		RunID:     runID,
		StartedAt: o.clock.Now(),
	}

	o.logger.Info("ingestion run started",
		zap.String("run_id", report.RunID),
		zap.Int("adapters", len(o.adapters)),
		zap.String("keyword", f.Keyword),
	)

	results := make([]adapterResult, len(o.adapters))

	var wg sync.WaitGroup
	for i, a := range o.adapters {
		wg.Add(1)
		go func(idx int, adapter event.SourceAdapter) {
			defer wg.Done()
			results[idx] = o.collect(ctx, adapter, f)
		}(i, a)
	}
	wg.Wait()

	var submitted []event.Event
	for _, res := range results {
		if res.err != nil {
			report.Failures = append(report.Failures, event.AdapterFailure{
				Source: res.source,
				Error:  res.err.Error(),
			})
			metrics.ObserveSourceFailure(res.source)
			continue
		}

		report.Dropped += res.dropped
		report.FailedFragments += res.failedFragments
		metrics.ObserveFragmentFailures(res.source, res.failedFragments)

		if len(res.events) == 0 {
			metrics.ObserveOutcome(res.source, 0, 0, 0, res.dropped)
			continue
		}

		upsert, err := o.store.UpsertBatch(ctx, res.events)
		if err != nil {
			o.logger.Error("upsert batch failed",
				zap.String("source", res.source),
				zap.Error(err),
			)
			report.PersistenceErrors += len(res.events)
			continue
		}
		report.Inserted += upsert.Inserted
		report.Merged += upsert.Merged
		report.Skipped += upsert.Skipped
		report.PersistenceErrors += len(upsert.Errors)
		for _, ue := range upsert.Errors {
			o.logger.Warn("event persist failed",
				zap.String("source", res.source),
				zap.String("title", ue.Title),
				zap.String("error", ue.Err),
			)
		}
		metrics.ObserveOutcome(res.source, upsert.Inserted, upsert.Merged, upsert.Skipped, res.dropped)

		submitted = append(submitted, res.events...)
	}

	report.Duration = o.clock.Now().Sub(report.StartedAt)
	metrics.ObserveRun(report)

	o.logger.Info("ingestion run finished",
		zap.String("run_id", report.RunID),
		zap.Duration("duration", report.Duration),
		zap.Int("inserted", report.Inserted),
		zap.Int("merged", report.Merged),
		zap.Int("skipped", report.Skipped),
		zap.Int("dropped", report.Dropped),
		zap.Int("failed_fragments", report.FailedFragments),
		zap.Int("failed_sources", len(report.Failures)),
		zap.Int("persistence_errors", report.PersistenceErrors),
	)

	o.publish(ctx, report)

	return report, submitted
}

// collect fetches one adapter and normalizes its raw events.
func (o *Orchestrator) collect(ctx context.Context, adapter event.SourceAdapter, f event.Filter) adapterResult {
	res := adapterResult{source: adapter.Name()}

	fetched, err := adapter.Fetch(ctx, f)
	if err != nil {
		var unavailable *event.SourceUnavailableError
		if !errors.As(err, &unavailable) {
			unavailable = &event.SourceUnavailableError{Source: res.source, Err: err}
		}
		o.logger.Warn("source unavailable",
			zap.String("source", res.source),
			zap.Error(unavailable),
		)
		res.err = unavailable
		return res
	}

	res.failedFragments = fetched.FailedFragments

	for _, raw := range fetched.Events {
		normalized, ok := normalize.Normalize(raw, res.source)
		if !ok {
			res.dropped++
			continue
		}
		res.events = append(res.events, normalized)
	}

	o.logger.Debug("source collected",
		zap.String("source", res.source),
		zap.Int("events", len(res.events)),
		zap.Int("dropped", res.dropped),
		zap.Int("failed_fragments", res.failedFragments),
	)

	return res
}

// publish ships the run report to the configured topic, best effort.
func (o *Orchestrator) publish(ctx context.Context, report event.IngestionReport) {
	if o.publisher == nil || o.topic == "" {
		return
	}
	id, err := o.publisher.Publish(ctx, o.topic, report)
	if err != nil {
		o.logger.Warn("report publish failed",
			zap.String("run_id", report.RunID),
			zap.Error(err),
		)
		return
	}
	o.logger.Debug("report published",
		zap.String("run_id", report.RunID),
		zap.String("message_id", id),
	)
}
