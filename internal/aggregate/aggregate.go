// Package aggregate reduces storm event records to ranked impact tables.
//
// Both aggregators follow the same shape: group by the raw event type label,
// sum a metric pair per group, rank by the combined total, keep the top
// groups, and title-case the label for presentation. Grouping always happens
// on the raw label; two casings of the same word aggregate separately.
package aggregate

import (
	"sort"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
)

// pairSums accumulates two metric sums per event type, preserving first-seen
// group order so the descending sort breaks ties deterministically.
type pairSums struct {
	order []string
	a     map[string]float64
	b     map[string]float64
}

func sumPairs(records []domain.StormRecord, extract func(domain.StormRecord) (float64, float64)) pairSums {
	sums := pairSums{
		a: make(map[string]float64),
		b: make(map[string]float64),
	}
	for _, rec := range records {
		if _, seen := sums.a[rec.EventType]; !seen {
			sums.order = append(sums.order, rec.EventType)
		}
		a, b := extract(rec)
		sums.a[rec.EventType] += a
		sums.b[rec.EventType] += b
	}
	return sums
}

// buildTable ranks the summed groups by descending total, keeps the top
// topGroups, and flattens each into an impact group with the given metric
// names. Groups with a zero total are kept if they fall inside the window.
func buildTable(sums pairSums, nameA, nameB string, topGroups int) domain.ImpactTable {
	groups := make([]domain.ImpactGroup, 0, len(sums.order))
	for _, eventType := range sums.order {
		a := sums.a[eventType]
		b := sums.b[eventType]
		groups = append(groups, domain.ImpactGroup{
			EventType: eventType,
			Metrics: []domain.MetricValue{
				{Name: nameA, Value: a},
				{Name: nameB, Value: b},
			},
			Total: a + b,
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Total > groups[j].Total
	})

	if len(groups) > topGroups {
		groups = groups[:topGroups]
	}

	// Presentation-only normalization, applied after grouping and ranking.
	for i := range groups {
		groups[i].EventType = domain.TitleCaseEventType(groups[i].EventType)
	}

	return domain.ImpactTable{Groups: groups}
}

// Health sums fatalities and injuries per event type and returns the
// topGroups highest-impact event types.
func Health(records []domain.StormRecord, topGroups int) domain.ImpactTable {
	sums := sumPairs(records, func(r domain.StormRecord) (float64, float64) {
		return r.Fatalities, r.Injuries
	})
	return buildTable(sums, domain.MetricFatalities, domain.MetricInjuries, topGroups)
}

// Economy normalizes property and crop damage by their exponent codes, sums
// per event type in billions of dollars, and returns the topGroups
// highest-damage event types.
func Economy(records []domain.StormRecord, topGroups int) domain.ImpactTable {
	sums := sumPairs(records, func(r domain.StormRecord) (float64, float64) {
		return domain.NormalizeDamage(r.PropertyDamage, r.PropertyExp) / 1e9,
			domain.NormalizeDamage(r.CropDamage, r.CropExp) / 1e9
	})
	return buildTable(sums, domain.MetricPropertyDamage, domain.MetricCropDamage, topGroups)
}
