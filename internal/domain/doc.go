// Package domain models the NOAA storm events dataset and the aggregated
// impact tables derived from it.
//
// # Data Source
//
// The input is the National Weather Service storm events archive
// (StormData.csv, distributed as a bzip2 archive), one row per reported
// storm occurrence. The columns this report consumes:
//
//	EVTYPE      free-text event category, inconsistent casing
//	            ("TORNADO", "Tstm Wind", "avalanche", ...)
//	FATALITIES  non-negative count
//	INJURIES    non-negative count
//	PROPDMG     property damage value (decimal)
//	PROPDMGEXP  property damage exponent code
//	CROPDMG     crop damage value (decimal)
//	CROPDMGEXP  crop damage exponent code
//
// # Exponent Codes
//
// Damage values pair with a single-character magnitude code:
//
//	K → ×1,000    M → ×1,000,000    B → ×1,000,000,000
//
// Codes are matched case-insensitively ("k" and "K" are equivalent in the
// archive). The archive also contains stray codes — "+", "?", "0"–"8",
// blanks — with no documented meaning; those multiply by 1, leaving the
// value unchanged. See [DamageMultiplier].
//
// # Missing Values
//
// Empty and "NA" numeric cells are summed as zero rather than excluding the
// row or poisoning the group sum. The loader counts them for observability.
//
// # Impact Tables
//
// Aggregated output is modeled as [ImpactTable]: ordered groups of
// (event type, per-metric sums, group total), sorted by descending total.
// [ImpactTable.Rows] flattens to the long form (one row per event type per
// metric) used at the chart boundary. Within a table every row sharing an
// event type carries the same group total.
//
// Event type labels are title-cased for presentation only, after grouping:
// "TORNADO" and "tornado" aggregate separately and both display as
// "Tornado".
package domain
