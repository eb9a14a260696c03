// Package terroir compares a parcel's multi-source fingerprint against
// reference site profiles and reports similarity and critical gaps.
package terroir

import (
	_ "embed"
	"fmt"
	"math"
	"sort"

	"gopkg.in/yaml.v3"

	"gaiaeye/analytics"
)

//go:embed references.yaml
var referencesYAML []byte

// Fingerprint is the parcel's feature profile fused from satellite
// statistics and soil ground truth. Unset soil values fall back to the
// documented field averages.
type Fingerprint struct {
	NDVI       float64 `json:"ndvi"`
	NDWI       float64 `json:"ndwi"`
	NDMI       float64 `json:"ndmi"`
	SARVV      float64 `json:"sar_vv"`
	SARVH      float64 `json:"sar_vh"`
	LSTCelsius float64 `json:"lst_celsius"`
	RainfallMM float64 `json:"rainfall_mm"`
	Elevation  float64 `json:"elevation_m"`
	Slope      float64 `json:"slope_deg"`

	PHH2O         float64 `json:"ph_h2o"`
	ClayPercent   float64 `json:"clay_percent"`
	DrainageScore float64 `json:"drainage_score"`
}

// SoilProfile is optional ground-truth soil data supplied by the caller.
type SoilProfile struct {
	PHH2O         *float64 `json:"ph_h2o,omitempty"`
	ClayPercent   *float64 `json:"clay_percent,omitempty"`
	DrainageScore *float64 `json:"drainage_score,omitempty"`
}

// Reference is one profiled benchmark site.
type Reference struct {
	ID                string  `yaml:"id" json:"id"`
	Name              string  `yaml:"name" json:"name"`
	Geology           string  `yaml:"geology" json:"geology"`
	ElevationM        float64 `yaml:"elevation_m" json:"elevation_m"`
	SlopeDeg          float64 `yaml:"slope_deg" json:"slope_deg"`
	ClayPercent       float64 `yaml:"clay_percent" json:"clay_percent"`
	DrainageScore     float64 `yaml:"drainage_score" json:"drainage_score"`
	PHH2O             float64 `yaml:"ph_h2o" json:"ph_h2o"`
	ThermalAmplitudeC float64 `yaml:"thermal_amplitude_c" json:"thermal_amplitude_c"`
	RainfallMM        float64 `yaml:"rainfall_mm" json:"rainfall_mm"`
	NDVI              float64 `yaml:"ndvi" json:"ndvi"`
}

// Match is one scored reference comparison.
type Match struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	SimilarityScore float64 `json:"similarity_score"`
	Distance        float64 `json:"distance"`
}

// Gap is a critical deviation between the parcel and a benchmark.
type Gap struct {
	Category       string `json:"category"`
	Parameter      string `json:"parameter"`
	Status         string `json:"status"`
	Impact         string `json:"impact"`
	Recommendation string `json:"recommendation"`
}

// Category weights of the similarity metric.
type MetricWeights struct {
	Soil      float64 `yaml:"soil"`
	Climate   float64 `yaml:"climate"`
	Satellite float64 `yaml:"satellite"`
}

// DefaultMetricWeights is the documented weighting of the distance metric.
var DefaultMetricWeights = MetricWeights{Soil: 0.4, Climate: 0.3, Satellite: 0.2}

// Engine matches parcel fingerprints against its reference set.
type Engine struct {
	references []Reference
	weights    MetricWeights
}

// NewEngine loads the embedded reference profiles.
func NewEngine() (*Engine, error) {
	var doc struct {
		References []Reference `yaml:"references"`
	}
	if err := yaml.Unmarshal(referencesYAML, &doc); err != nil {
		return nil, fmt.Errorf("parse terroir references: %w", err)
	}
	if len(doc.References) == 0 {
		return nil, fmt.Errorf("terroir reference set is empty")
	}
	return &Engine{references: doc.References, weights: DefaultMetricWeights}, nil
}

// References returns the loaded benchmark profiles.
func (e *Engine) References() []Reference { return e.references }

// Soil fallbacks applied when no ground truth is supplied.
const (
	defaultPH       = 6.5
	defaultClay     = 15.0
	defaultDrainage = 90.0
)

// FromStatistics fuses the statistics bag and optional soil ground truth
// into a parcel fingerprint.
func FromStatistics(stats analytics.ZonalStatistics, soil *SoilProfile) Fingerprint {
	mean := func(key string, fallback float64) float64 {
		if v, ok := stats.Mean(key); ok {
			return v
		}
		return fallback
	}
	fp := Fingerprint{
		NDVI:          mean(analytics.StatNDVI, 0),
		NDWI:          mean(analytics.StatNDWI, 0),
		NDMI:          mean(analytics.StatNDMI, 0),
		SARVV:         mean(analytics.StatSARVV, 0),
		SARVH:         mean(analytics.StatSARVH, 0),
		LSTCelsius:    mean(analytics.StatLST, 20),
		RainfallMM:    mean(analytics.StatRainfall, 100),
		Elevation:     mean(analytics.StatElevation, 0),
		Slope:         mean(analytics.StatSlope, 0),
		PHH2O:         defaultPH,
		ClayPercent:   defaultClay,
		DrainageScore: defaultDrainage,
	}
	if soil != nil {
		if soil.PHH2O != nil {
			fp.PHH2O = *soil.PHH2O
		}
		if soil.ClayPercent != nil {
			fp.ClayPercent = *soil.ClayPercent
		}
		if soil.DrainageScore != nil {
			fp.DrainageScore = *soil.DrainageScore
		}
	}
	return fp
}

// Match scores the fingerprint against every reference, best match first.
// The distance is a weighted sum of normalized per-category deviations;
// similarity maps it onto [0,100]. Fully deterministic for a fixed input.
func (e *Engine) Match(fp Fingerprint) []Match {
	matches := make([]Match, 0, len(e.references))
	for _, ref := range e.references {
		d := e.distance(fp, ref)
		matches = append(matches, Match{
			ID:              ref.ID,
			Name:            ref.Name,
			SimilarityScore: round1(math.Max(0, 100-d*10)),
			Distance:        round2(d),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].SimilarityScore > matches[j].SimilarityScore
	})
	return matches
}

// distance sums normalized absolute deviations per category, weighted by
// the similarity metric.
func (e *Engine) distance(fp Fingerprint, ref Reference) float64 {
	soil := (math.Abs(fp.ClayPercent-ref.ClayPercent)/20 +
		math.Abs(fp.DrainageScore-ref.DrainageScore)/50 +
		math.Abs(fp.PHH2O-ref.PHH2O)/2) / 3
	climate := (math.Abs(fp.RainfallMM-ref.RainfallMM)/250 +
		math.Abs(fp.Elevation-ref.ElevationM)/300) / 2
	satellite := math.Abs(fp.NDVI - ref.NDVI)

	return e.weights.Soil*soil*10 +
		e.weights.Climate*climate*10 +
		e.weights.Satellite*satellite*10
}

// Gap trigger margins.
const (
	phGapMargin       = 0.5
	clayGapMargin     = 10.0
	drainageGapMargin = 15.0
)

// DetectGaps lists the critical deviations between the parcel and the
// benchmark reference, with a remediation hint per gap.
func (e *Engine) DetectGaps(fp Fingerprint, benchmarkID string) []Gap {
	ref := e.references[0]
	for _, r := range e.references {
		if r.ID == benchmarkID {
			ref = r
			break
		}
	}

	gaps := make([]Gap, 0, 3)
	if math.Abs(fp.PHH2O-ref.PHH2O) > phGapMargin {
		rec := "Liming"
		if fp.PHH2O > ref.PHH2O {
			rec = "Acidification"
		}
		gaps = append(gaps, Gap{
			Category:       "Soil Chemical",
			Parameter:      "pH",
			Status:         "Deviation",
			Impact:         "Nutrient availability limitation",
			Recommendation: rec,
		})
	}
	if math.Abs(fp.ClayPercent-ref.ClayPercent) > clayGapMargin {
		rec := "Organic matter amendment to build structure"
		if fp.ClayPercent > ref.ClayPercent {
			rec = "Improve internal drainage of heavy horizons"
		}
		gaps = append(gaps, Gap{
			Category:       "Soil Physical",
			Parameter:      "Clay content",
			Status:         "Deviation",
			Impact:         "Water retention and rooting profile mismatch",
			Recommendation: rec,
		})
	}
	if ref.DrainageScore-fp.DrainageScore > drainageGapMargin {
		gaps = append(gaps, Gap{
			Category:       "Soil Physical",
			Parameter:      "Drainage",
			Status:         "Deficit",
			Impact:         "Waterlogging risk in wet seasons",
			Recommendation: "Subsoil drainage works",
		})
	}
	return gaps
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
