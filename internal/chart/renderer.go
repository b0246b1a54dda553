// Package chart renders impact tables as stacked bar charts.
//
// Output is a standalone HTML document (ECharts) per table, suitable for
// embedding in a generated report. Clusters follow the table's ranking
// order; the topmost stacked segment of each cluster carries a label with
// the cluster's combined total.
package chart

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
)

// stackName groups all series of a chart into a single stacked bar per cluster.
const stackName = "impact"

// Spec describes one chart artifact.
type Spec struct {
	Title     string
	YAxisName string

	// TotalDigits and TotalSuffix control the per-cluster total label:
	// 0 digits for counts, 1 digit plus a "B" suffix for billions.
	TotalDigits int
	TotalSuffix string

	OutPath string
}

// Renderer writes impact tables as chart files.
type Renderer struct {
	logger *slog.Logger
}

// NewRenderer creates a Renderer.
func NewRenderer(logger *slog.Logger) *Renderer {
	return &Renderer{logger: logger}
}

// Render writes the table as a stacked bar chart to spec.OutPath. An empty
// table renders an empty chart rather than failing.
func (r *Renderer) Render(table domain.ImpactTable, spec Spec) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: spec.Title,
			Width:     "1200px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    spec.Title,
			Subtitle: "Generated " + domain.Now().UTC().Format("2006-01-02 15:04 UTC"),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Rotate: 30, Interval: "0"},
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: spec.YAxisName}),
	)

	categories := make([]string, 0, len(table.Groups))
	for _, g := range table.Groups {
		categories = append(categories, g.EventType)
	}
	bar.SetXAxis(categories)

	metricNames := table.MetricNames()
	for si, name := range metricNames {
		topmost := si == len(metricNames)-1

		data := make([]opts.BarData, 0, len(table.Groups))
		for _, g := range table.Groups {
			d := opts.BarData{Value: g.Metrics[si].Value}
			if topmost {
				// The cluster total rides on the topmost stacked segment.
				d.Label = &opts.Label{
					Show:      opts.Bool(true),
					Position:  "top",
					Formatter: r.formatTotal(g.Total, spec),
				}
			}
			data = append(data, d)
		}

		bar.AddSeries(name, data, charts.WithBarChartOpts(opts.BarChart{Stack: stackName}))
	}

	if err := r.writeFile(bar, spec.OutPath); err != nil {
		return err
	}

	r.logger.Info("chart rendered", "title", spec.Title, "path", spec.OutPath, "clusters", len(table.Groups))
	return nil
}

func (r *Renderer) formatTotal(total float64, spec Spec) string {
	return strconv.FormatFloat(total, 'f', spec.TotalDigits, 64) + spec.TotalSuffix
}

func (r *Renderer) writeFile(bar *charts.Bar, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create chart dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}

	err = bar.Render(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
