package chart

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
)

func testTable() domain.ImpactTable {
	return domain.ImpactTable{Groups: []domain.ImpactGroup{
		{
			EventType: "Tornado",
			Metrics: []domain.MetricValue{
				{Name: domain.MetricFatalities, Value: 5},
				{Name: domain.MetricInjuries, Value: 10},
			},
			Total: 15,
		},
		{
			EventType: "Flood",
			Metrics: []domain.MetricValue{
				{Name: domain.MetricFatalities, Value: 1},
				{Name: domain.MetricInjuries, Value: 2},
			},
			Total: 3,
		},
	}}
}

func TestRender_WritesChartFile(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	path := filepath.Join(t.TempDir(), "charts", "health.html")
	r := NewRenderer(slog.Default())

	err := r.Render(testTable(), Spec{
		Title:       "Health impact by event type",
		YAxisName:   "people affected",
		TotalDigits: 0,
		OutPath:     path,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)

	assert.Contains(t, html, "Health impact by event type")
	assert.Contains(t, html, "Generated 2026-08-30 12:00 UTC")
	assert.Contains(t, html, "Tornado")
	assert.Contains(t, html, "Flood")
	assert.Contains(t, html, domain.MetricFatalities)
	assert.Contains(t, html, domain.MetricInjuries)

	// Cluster totals appear as whole-number labels.
	assert.Contains(t, html, "15")
}

func TestRender_TotalLabelFormatting(t *testing.T) {
	table := domain.ImpactTable{Groups: []domain.ImpactGroup{
		{
			EventType: "Flood",
			Metrics: []domain.MetricValue{
				{Name: domain.MetricPropertyDamage, Value: 144.7},
				{Name: domain.MetricCropDamage, Value: 5.9},
			},
			Total: 150.6,
		},
	}}

	path := filepath.Join(t.TempDir(), "economy.html")
	r := NewRenderer(slog.Default())

	err := r.Render(table, Spec{
		Title:       "Economic impact by event type",
		YAxisName:   "damage (billion USD)",
		TotalDigits: 1,
		TotalSuffix: "B",
		OutPath:     path,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "150.6B")
}

func TestRender_EmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.html")
	r := NewRenderer(slog.Default())

	err := r.Render(domain.ImpactTable{}, Spec{Title: "Empty", OutPath: path})
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
