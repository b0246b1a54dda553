package domain

// MetricValue is a single named measurement within an impact group.
type MetricValue struct {
	Name  string
	Value float64
}

// ImpactGroup holds the summed metrics for one event type. Total is the sum
// of all metric values and doubles as the ranking key: tables are ordered by
// descending Total.
type ImpactGroup struct {
	EventType string
	Metrics   []MetricValue
	Total     float64
}

// ImpactTable is the aggregated output of one report dimension. Groups are
// ordered by descending Total; every group carries the same metric names in
// the same order.
type ImpactTable struct {
	Groups []ImpactGroup
}

// ImpactRow is the long-form view of an impact table: one row per
// (event type, metric) pair. EventTotal repeats the group total on every row
// so consumers of the flattened form keep the ranking key.
type ImpactRow struct {
	EventType  string
	Metric     string
	Value      float64
	EventTotal float64
}

// Rows flattens the table to long form, preserving group order and the
// metric order within each group.
func (t ImpactTable) Rows() []ImpactRow {
	rows := make([]ImpactRow, 0, 2*len(t.Groups))
	for _, g := range t.Groups {
		for _, m := range g.Metrics {
			rows = append(rows, ImpactRow{
				EventType:  g.EventType,
				Metric:     m.Name,
				Value:      m.Value,
				EventTotal: g.Total,
			})
		}
	}
	return rows
}

// MetricNames returns the metric names shared by all groups, in order.
// Returns nil for an empty table.
func (t ImpactTable) MetricNames() []string {
	if len(t.Groups) == 0 {
		return nil
	}
	names := make([]string, 0, len(t.Groups[0].Metrics))
	for _, m := range t.Groups[0].Metrics {
		names = append(names, m.Name)
	}
	return names
}
