package domain

// Metric names used in aggregated impact tables.
const (
	MetricFatalities     = "fatalities"
	MetricInjuries       = "injuries"
	MetricPropertyDamage = "property_damage"
	MetricCropDamage     = "crop_damage"
)

// StormRecord is one reported storm occurrence from the NOAA storm events
// dataset, reduced to the columns the impact report consumes. Damage values
// are kept pre-normalization together with their exponent codes; see
// DamageMultiplier for the normalization rules.
type StormRecord struct {
	EventType      string
	Fatalities     float64
	Injuries       float64
	PropertyDamage float64
	PropertyExp    string
	CropDamage     float64
	CropExp        string
}
