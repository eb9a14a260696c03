package analytics

import (
	"fmt"
	"sort"
)

// Engine computes composite scores, alerts and recommendations from one
// zonal statistics bag. It owns no mutable state after construction and is
// safe to call from any number of goroutines.
type Engine struct {
	cfg EngineConfig
}

// NewEngine validates cfg and returns a ready engine. Configuration errors
// are rejected here, before any scoring call.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine's effective configuration.
func (e *Engine) Config() EngineConfig { return e.cfg }

// Observation is a statistics bag plus the optional context that enables
// the trend and spatial anomaly passes.
type Observation struct {
	Stats ZonalStatistics

	// NDVISamples is the per-pixel (or per-subregion) NDVI population,
	// when the provider returned a grid alongside the aggregates.
	NDVISamples []float64

	// Trend is the temporal trend of the NDVI mean, when history exists.
	Trend *TrendAnalysis
}

// Score runs one full scoring pass over a statistics bag. It is a pure
// function of its inputs: no I/O, no clock, no shared state.
func (e *Engine) Score(stats ZonalStatistics) ScoreReport {
	return e.ScoreObservation(Observation{Stats: stats})
}

// ScoreObservation is Score plus the trend and spatial anomaly passes.
func (e *Engine) ScoreObservation(obs Observation) ScoreReport {
	stats := obs.Stats
	if len(stats) == 0 || stats.Empty() {
		// Insufficient data: a sentinel report, never a fabricated score.
		return ScoreReport{
			GlobalScore: ScoreUnknown,
			Scores: Scores{
				VegetationHealth:  ScoreUnknown,
				WaterStress:       ScoreUnknown,
				Productivity:      ScoreUnknown,
				EnvironmentalRisk: ScoreUnknown,
			},
			Interpretation:  Interpret(ScoreUnknown),
			Alerts:          []Alert{},
			Recommendations: []string{},
			Inputs:          map[string][]string{},
		}
	}

	inputs := make(map[string][]string)

	vhs, used := combine(
		e.normTerm(stats, StatNDVI, e.cfg.Weights.Vegetation.NDVI),
		e.normTerm(stats, StatEVI, e.cfg.Weights.Vegetation.EVI),
		e.normTerm(stats, StatSAVI, e.cfg.Weights.Vegetation.SAVI),
	)
	inputs["vegetation_health"] = used

	// Water stress is the inverse of the weighted availability.
	avail, used := combine(
		e.normTerm(stats, StatNDWI, e.cfg.Weights.Water.NDWI),
		e.normTerm(stats, StatRainfall, e.cfg.Weights.Water.Rainfall),
	)
	wss := ScoreUnknown
	if avail != ScoreUnknown {
		wss = clamp100(100 - avail)
	}
	inputs["water_stress"] = used

	soil, soilOK := normalized(stats, StatSoilHealth)
	ps, used := combine(
		derivedTerm("vegetation_health", vhs, e.cfg.Weights.Productivity.VegetationHealth),
		invertedTerm("water_availability", wss, e.cfg.Weights.Productivity.WaterAvailability),
		term{name: StatSoilHealth, weight: e.cfg.Weights.Productivity.SoilHealth, value: soil, known: soilOK},
	)
	inputs["productivity"] = used

	pest, pestOK := normalized(stats, StatPestRisk)
	weather, weatherOK := normalized(stats, StatWeatherRisk)
	ers, used := combine(
		derivedTerm("water_stress", wss, e.cfg.Weights.Risk.WaterStress),
		term{name: StatPestRisk, weight: e.cfg.Weights.Risk.PestRisk, value: pest, known: pestOK},
		term{name: StatWeatherRisk, weight: e.cfg.Weights.Risk.WeatherRisk, value: weather, known: weatherOK},
	)
	inputs["environmental_risk"] = used

	global, used := combine(
		derivedTerm("vegetation_health", vhs, e.cfg.Weights.Global.VegetationHealth),
		derivedTerm("productivity", ps, e.cfg.Weights.Global.Productivity),
		invertedTerm("environmental_health", ers, e.cfg.Weights.Global.EnvironmentalHealth),
	)
	inputs["global"] = used

	scores := Scores{
		VegetationHealth:  vhs,
		WaterStress:       wss,
		Productivity:      ps,
		EnvironmentalRisk: ers,
	}

	alerts := e.detectAlerts(scores, obs.Trend, obs.NDVISamples)

	return ScoreReport{
		GlobalScore:     global,
		Scores:          scores,
		Interpretation:  Interpret(global),
		Alerts:          alerts,
		Recommendations: e.recommend(scores, alerts),
		Inputs:          inputs,
	}
}

// term is one weighted contribution to a composite. Unknown terms are
// dropped and the remaining weights renormalized, so a missing input never
// silently counts as zero.
type term struct {
	name   string
	weight float64
	value  float64
	known  bool
}

// combine computes sum(w_i*v_i) / sum(w_i available) over the known terms
// and reports which inputs were used. All terms unknown yields the
// sentinel.
func combine(terms ...term) (float64, []string) {
	sum, wsum := 0.0, 0.0
	used := make([]string, 0, len(terms))
	for _, t := range terms {
		if !t.known || t.weight == 0 {
			continue
		}
		sum += t.weight * t.value
		wsum += t.weight
		used = append(used, t.name)
	}
	if wsum == 0 {
		return ScoreUnknown, []string{}
	}
	return clamp100(sum / wsum), used
}

// normTerm builds the weighted term for one raw statistic, normalized into
// [0,100] by its reference range.
func (e *Engine) normTerm(stats ZonalStatistics, key string, weight float64) term {
	v, ok := normalized(stats, key)
	return term{name: key, weight: weight, value: v, known: ok}
}

// derivedTerm wraps an already-computed composite as an input to a higher
// composite. An unknown composite propagates as an unknown term.
func derivedTerm(name string, score, weight float64) term {
	return term{name: name, weight: weight, value: score, known: score != ScoreUnknown}
}

// invertedTerm contributes 100 minus a stress/risk composite.
func invertedTerm(name string, score, weight float64) term {
	return term{name: name, weight: weight, value: 100 - score, known: score != ScoreUnknown}
}

func normalized(stats ZonalStatistics, key string) (float64, bool) {
	mean, ok := stats.Mean(key)
	if !ok {
		return 0, false
	}
	rng, ok := referenceRanges[key]
	if !ok {
		return 0, false
	}
	return rng.Normalize(mean), true
}

// detectAlerts runs the anomaly pass: fixed absolute thresholds on the
// composites, the NDVI decline check when a trend is available, and the
// z-score check when a pixel population is available. Comparisons are
// strict, one alert per type, critical alerts first.
func (e *Engine) detectAlerts(s Scores, trend *TrendAnalysis, samples []float64) []Alert {
	th := e.cfg.Thresholds
	alerts := make([]Alert, 0, 4)

	if s.WaterStress != ScoreUnknown && s.WaterStress > th.WaterStressCritical {
		alerts = append(alerts, Alert{
			Type:           AlertWaterStressCritical,
			Severity:       SeverityCritical,
			Message:        fmt.Sprintf("Critical water stress detected (%.1f/100)", s.WaterStress),
			ActionRequired: true,
		})
	}
	if s.VegetationHealth != ScoreUnknown && s.VegetationHealth < th.VegetationHealthLow {
		alerts = append(alerts, Alert{
			Type:           AlertVegetationHealthCritical,
			Severity:       SeverityCritical,
			Message:        fmt.Sprintf("Vegetation health critically low (%.1f/100)", s.VegetationHealth),
			ActionRequired: true,
		})
	}
	if s.EnvironmentalRisk != ScoreUnknown && s.EnvironmentalRisk > th.EnvironmentalRiskHigh {
		alerts = append(alerts, Alert{
			Type:           AlertEnvironmentalRiskHigh,
			Severity:       SeverityWarning,
			Message:        fmt.Sprintf("Elevated environmental risk (%.1f/100)", s.EnvironmentalRisk),
			ActionRequired: true,
		})
	}
	if s.Productivity != ScoreUnknown && s.Productivity < th.ProductivityLow {
		alerts = append(alerts, Alert{
			Type:           AlertProductivityLow,
			Severity:       SeverityWarning,
			Message:        fmt.Sprintf("Expected productivity is low (%.1f/100)", s.Productivity),
			ActionRequired: false,
		})
	}
	if trend != nil && trend.Trend == TrendDecreasing && abs(trend.ChangePercent) > th.NDVIDeclinePct {
		alerts = append(alerts, Alert{
			Type:           AlertDecliningHealth,
			Severity:       SeverityWarning,
			Message:        fmt.Sprintf("NDVI declining by %.1f%% over the analysis window", abs(trend.ChangePercent)),
			ActionRequired: false,
		})
	}
	if len(samples) > 0 {
		if an := SpatialAnomalies(samples, th.SpatialZScore); an.Count > 0 {
			sev := SeverityInfo
			if an.Percent > 5 {
				sev = SeverityWarning
			}
			alerts = append(alerts, Alert{
				Type:     AlertSpatialAnomaly,
				Severity: sev,
				Message: fmt.Sprintf("%d of %d pixels deviate more than %.1f sigma from the regional mean (%.1f%%)",
					an.Count, len(samples), th.SpatialZScore, an.Percent),
				ActionRequired: false,
			})
		}
	}

	rank := map[Severity]int{SeverityCritical: 0, SeverityWarning: 1, SeverityInfo: 2}
	sort.SliceStable(alerts, func(i, j int) bool {
		return rank[alerts[i].Severity] < rank[alerts[j].Severity]
	})
	return alerts
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
