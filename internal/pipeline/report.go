// Package pipeline orchestrates a report run: load the dataset once, derive
// the two impact tables, and render a chart for each.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/storm-impact-report/internal/aggregate"
	"github.com/couchcryptid/storm-impact-report/internal/chart"
	"github.com/couchcryptid/storm-impact-report/internal/config"
	"github.com/couchcryptid/storm-impact-report/internal/domain"
	"github.com/couchcryptid/storm-impact-report/internal/observability"
)

// RecordLoader supplies the raw storm records.
type RecordLoader interface {
	Load(ctx context.Context) ([]domain.StormRecord, error)
}

// Renderer writes an impact table as a chart artifact.
type Renderer interface {
	Render(table domain.ImpactTable, spec chart.Spec) error
}

// Status is a point-in-time snapshot of run progress, served by /statusz.
type Status struct {
	RecordsLoaded  int64 `json:"records_loaded"`
	ChartsRendered int64 `json:"charts_rendered"`
}

// Report runs the load → aggregate → render pipeline.
type Report struct {
	loader   RecordLoader
	renderer Renderer
	logger   *slog.Logger
	metrics  *observability.Metrics

	topEventTypes        int
	economyTopEventTypes int
	healthChartPath      string
	economyChartPath     string

	ready          atomic.Bool
	recordsLoaded  atomic.Int64
	chartsRendered atomic.Int64
}

// New creates a Report from the configured loader and renderer.
func New(loader RecordLoader, renderer Renderer, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Report {
	return &Report{
		loader:   loader,
		renderer: renderer,
		logger:   logger,
		metrics:  metrics,

		topEventTypes:        cfg.TopEventTypes,
		economyTopEventTypes: cfg.EconomyTopEventTypes,
		healthChartPath:      cfg.HealthChartPath,
		economyChartPath:     cfg.EconomyChartPath,
	}
}

// CheckReadiness returns nil once the dataset has been loaded, or an error
// describing why the run is not yet ready.
func (r *Report) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("dataset has not been loaded yet")
	}
	return nil
}

// CurrentStatus reports run progress.
func (r *Report) CurrentStatus() Status {
	return Status{
		RecordsLoaded:  r.recordsLoaded.Load(),
		ChartsRendered: r.chartsRendered.Load(),
	}
}

// Run executes one complete report: load, aggregate both dimensions, render
// both charts. The two aggregation branches are independent and read-only
// over the loaded records, so they run concurrently.
func (r *Report) Run(ctx context.Context) error {
	start := time.Now()
	r.metrics.RunActive.Set(1)
	defer r.metrics.RunActive.Set(0)

	loadStart := time.Now()
	records, err := r.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	r.metrics.StageDuration.WithLabelValues("load").Observe(time.Since(loadStart).Seconds())
	r.recordsLoaded.Store(int64(len(records)))
	r.ready.Store(true)

	var g errgroup.Group
	g.Go(func() error {
		table := r.aggregateStage("aggregate_health", func() domain.ImpactTable {
			return aggregate.Health(records, r.topEventTypes)
		})
		return r.renderStage(table, chart.Spec{
			Title:       "Population health impact of severe weather events",
			YAxisName:   "fatalities + injuries",
			TotalDigits: 0,
			OutPath:     r.healthChartPath,
		})
	})
	g.Go(func() error {
		table := r.aggregateStage("aggregate_economy", func() domain.ImpactTable {
			return aggregate.Economy(records, r.economyTopEventTypes)
		})
		return r.renderStage(table, chart.Spec{
			Title:       "Economic consequences of severe weather events",
			YAxisName:   "damage (billion USD)",
			TotalDigits: 1,
			TotalSuffix: "B",
			OutPath:     r.economyChartPath,
		})
	})

	if err := g.Wait(); err != nil {
		return err
	}

	r.logger.Info("report complete",
		"records", len(records),
		"charts", r.chartsRendered.Load(),
		"duration", time.Since(start),
	)
	return nil
}

func (r *Report) aggregateStage(stage string, fn func() domain.ImpactTable) domain.ImpactTable {
	start := time.Now()
	table := fn()
	r.metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	r.logger.Debug("aggregation complete", "stage", stage, "event_types", len(table.Groups))
	return table
}

func (r *Report) renderStage(table domain.ImpactTable, spec chart.Spec) error {
	start := time.Now()
	if err := r.renderer.Render(table, spec); err != nil {
		return fmt.Errorf("render %s: %w", spec.OutPath, err)
	}
	r.metrics.StageDuration.WithLabelValues("render").Observe(time.Since(start).Seconds())
	r.metrics.ChartsRendered.Inc()
	r.chartsRendered.Add(1)
	return nil
}
