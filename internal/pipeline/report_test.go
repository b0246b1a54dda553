package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/couchcryptid/storm-impact-report/internal/chart"
	"github.com/couchcryptid/storm-impact-report/internal/config"
	"github.com/couchcryptid/storm-impact-report/internal/domain"
	"github.com/couchcryptid/storm-impact-report/internal/observability"
	"github.com/couchcryptid/storm-impact-report/internal/pipeline"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// --- mocks ---

type mockLoader struct {
	records []domain.StormRecord
	err     error
}

func (m *mockLoader) Load(_ context.Context) ([]domain.StormRecord, error) {
	return m.records, m.err
}

type renderedChart struct {
	table domain.ImpactTable
	spec  chart.Spec
}

type mockRenderer struct {
	mu       sync.Mutex
	rendered []renderedChart
	err      error
}

func (m *mockRenderer) Render(table domain.ImpactTable, spec chart.Spec) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.rendered = append(m.rendered, renderedChart{table: table, spec: spec})
	return nil
}

func (m *mockRenderer) byPath(path string) (renderedChart, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rc := range m.rendered {
		if rc.spec.OutPath == path {
			return rc, true
		}
	}
	return renderedChart{}, false
}

func testConfig() *config.Config {
	return &config.Config{
		TopEventTypes:        10,
		EconomyTopEventTypes: 20,
		HealthChartPath:      "out/health.html",
		EconomyChartPath:     "out/economy.html",
	}
}

// --- tests ---

func TestReport_Run_RendersBothCharts(t *testing.T) {
	records := []domain.StormRecord{
		{EventType: "TORNADO", Fatalities: 5, Injuries: 10, PropertyDamage: 25, PropertyExp: "K"},
		{EventType: "FLOOD", Fatalities: 1, Injuries: 2, PropertyDamage: 2, PropertyExp: "B", CropDamage: 500, CropExp: "M"},
	}

	ldr := &mockLoader{records: records}
	rnd := &mockRenderer{}
	r := pipeline.New(ldr, rnd, testConfig(), slog.Default(), observability.NewMetricsForTesting())

	require.NoError(t, r.Run(context.Background()))

	health, ok := rnd.byPath("out/health.html")
	require.True(t, ok)
	require.Len(t, health.table.Groups, 2)
	assert.Equal(t, "Tornado", health.table.Groups[0].EventType)
	assert.Equal(t, 15.0, health.table.Groups[0].Total)
	assert.Equal(t, 0, health.spec.TotalDigits)

	economy, ok := rnd.byPath("out/economy.html")
	require.True(t, ok)
	require.Len(t, economy.table.Groups, 2)
	assert.Equal(t, "Flood", economy.table.Groups[0].EventType)
	assert.InDelta(t, 2.5, economy.table.Groups[0].Total, 1e-9)
	assert.Equal(t, 1, economy.spec.TotalDigits)
	assert.Equal(t, "B", economy.spec.TotalSuffix)

	status := r.CurrentStatus()
	assert.Equal(t, int64(2), status.RecordsLoaded)
	assert.Equal(t, int64(2), status.ChartsRendered)
}

func TestReport_Run_LoaderErrorIsTerminal(t *testing.T) {
	ldr := &mockLoader{err: errors.New("boom")}
	rnd := &mockRenderer{}
	r := pipeline.New(ldr, rnd, testConfig(), slog.Default(), observability.NewMetricsForTesting())

	err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load dataset")
	assert.Empty(t, rnd.rendered)
}

func TestReport_Run_RenderErrorPropagates(t *testing.T) {
	ldr := &mockLoader{records: []domain.StormRecord{{EventType: "HAIL"}}}
	rnd := &mockRenderer{err: errors.New("disk full")}
	r := pipeline.New(ldr, rnd, testConfig(), slog.Default(), observability.NewMetricsForTesting())

	err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestReport_Readiness(t *testing.T) {
	ldr := &mockLoader{records: []domain.StormRecord{{EventType: "HAIL"}}}
	rnd := &mockRenderer{}
	r := pipeline.New(ldr, rnd, testConfig(), slog.Default(), observability.NewMetricsForTesting())

	require.Error(t, r.CheckReadiness(context.Background()))

	require.NoError(t, r.Run(context.Background()))
	assert.NoError(t, r.CheckReadiness(context.Background()))
}

func TestReport_Run_EmptyDataset(t *testing.T) {
	ldr := &mockLoader{}
	rnd := &mockRenderer{}
	r := pipeline.New(ldr, rnd, testConfig(), slog.Default(), observability.NewMetricsForTesting())

	require.NoError(t, r.Run(context.Background()))

	// Both charts render, just empty.
	assert.Len(t, rnd.rendered, 2)
	for _, rc := range rnd.rendered {
		assert.Empty(t, rc.table.Groups)
	}
}
