package analytics

// Statistic keys as delivered by the statistics provider. A key that is
// absent, or present with a nil Mean, counts as "unknown" and is excluded
// from any composite that would use it.
const (
	StatNDVI        = "ndvi"
	StatNDWI        = "ndwi"
	StatNDMI        = "ndmi"
	StatEVI         = "evi"
	StatSAVI        = "savi"
	StatRainfall    = "rainfall"
	StatSoilHealth  = "soil_health"
	StatPestRisk    = "pest_risk"
	StatWeatherRisk = "weather_risk"
	StatLST         = "lst"
	StatSARVV       = "sar_vv"
	StatSARVH       = "sar_vh"
	StatElevation   = "elevation"
	StatSlope       = "slope"
)

// IndexStats holds the zonal aggregate of one band or index over the
// selected polygon and time window. Only Mean is required for scoring;
// Std/Min/Max enrich anomaly detection and narration when present.
type IndexStats struct {
	Mean *float64 `json:"mean,omitempty" bson:"mean,omitempty"`
	Std  *float64 `json:"std,omitempty" bson:"std,omitempty"`
	Min  *float64 `json:"min,omitempty" bson:"min,omitempty"`
	Max  *float64 `json:"max,omitempty" bson:"max,omitempty"`
}

// ZonalStatistics is the flat bag of per-index aggregates for one analysis
// request. It is treated as immutable for the duration of a scoring pass.
type ZonalStatistics map[string]IndexStats

// Mean returns the mean for key and whether it is known.
func (z ZonalStatistics) Mean(key string) (float64, bool) {
	s, ok := z[key]
	if !ok || s.Mean == nil {
		return 0, false
	}
	return *s.Mean, true
}

// Empty reports whether the bag carries no usable value at all.
func (z ZonalStatistics) Empty() bool {
	for _, s := range z {
		if s.Mean != nil {
			return false
		}
	}
	return true
}

// ScoreUnknown is the sentinel for a composite whose every input was
// missing. It is deliberately outside [0,100] so that "no data" can never
// be confused with a genuine low score.
const ScoreUnknown = -1.0

// Severity of an alert.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Alert types emitted by the anomaly pass. At most one alert per type
// appears in a report.
const (
	AlertWaterStressCritical      = "water_stress_critical"
	AlertVegetationHealthCritical = "vegetation_health_critical"
	AlertEnvironmentalRiskHigh    = "environmental_risk_high"
	AlertProductivityLow          = "productivity_low"
	AlertDecliningHealth          = "declining_health"
	AlertSpatialAnomaly           = "spatial_anomaly"
)

// Alert is a threshold-triggered finding. Alerts are ephemeral: recomputed
// on every request and never persisted on their own.
type Alert struct {
	Type           string   `json:"type" bson:"type"`
	Severity       Severity `json:"severity" bson:"severity"`
	Message        string   `json:"message" bson:"message"`
	ActionRequired bool     `json:"action_required" bson:"action_required"`
}

// Scores groups the four composite 0-100 indicators. Any of them may be
// ScoreUnknown when its inputs were entirely missing.
type Scores struct {
	VegetationHealth  float64 `json:"vegetation_health" bson:"vegetation_health"`
	WaterStress       float64 `json:"water_stress" bson:"water_stress"`
	Productivity      float64 `json:"productivity" bson:"productivity"`
	EnvironmentalRisk float64 `json:"environmental_risk" bson:"environmental_risk"`
}

// ScoreReport is the engine's full output for one statistics bag.
// Identical inputs always produce an identical report.
type ScoreReport struct {
	GlobalScore     float64  `json:"global_score" bson:"global_score"`
	Scores          Scores   `json:"scores" bson:"scores"`
	Interpretation  string   `json:"interpretation" bson:"interpretation"`
	Alerts          []Alert  `json:"alerts" bson:"alerts"`
	Recommendations []string `json:"recommendations" bson:"recommendations"`

	// Inputs records, per composite, which statistics actually entered the
	// weighted sum. A shorter list than the configured table means the
	// remaining weights were renormalized over what was available, so a
	// degraded score is always distinguishable from a fully-informed one.
	Inputs map[string][]string `json:"inputs" bson:"inputs"`
}

// Unknown reports whether every score in the report is the sentinel.
func (r ScoreReport) Unknown() bool {
	return r.GlobalScore == ScoreUnknown &&
		r.Scores.VegetationHealth == ScoreUnknown &&
		r.Scores.WaterStress == ScoreUnknown &&
		r.Scores.Productivity == ScoreUnknown &&
		r.Scores.EnvironmentalRisk == ScoreUnknown
}
