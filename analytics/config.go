package analytics

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// VegetationWeights combines the three vegetation indices into the
// vegetation health composite.
type VegetationWeights struct {
	NDVI float64 `yaml:"ndvi" json:"ndvi"`
	EVI  float64 `yaml:"evi" json:"evi"`
	SAVI float64 `yaml:"savi" json:"savi"`
}

// WaterWeights combines water availability inputs. Water stress is the
// inverse of the weighted availability.
type WaterWeights struct {
	NDWI     float64 `yaml:"ndwi" json:"ndwi"`
	Rainfall float64 `yaml:"rainfall" json:"rainfall"`
}

// ProductivityWeights combines vegetation health, water availability
// (100 minus stress) and the soil health proxy.
type ProductivityWeights struct {
	VegetationHealth  float64 `yaml:"vegetation_health" json:"vegetation_health"`
	WaterAvailability float64 `yaml:"water_availability" json:"water_availability"`
	SoilHealth        float64 `yaml:"soil_health" json:"soil_health"`
}

// RiskWeights combines stress and risk proxies into the environmental
// risk composite.
type RiskWeights struct {
	WaterStress float64 `yaml:"water_stress" json:"water_stress"`
	PestRisk    float64 `yaml:"pest_risk" json:"pest_risk"`
	WeatherRisk float64 `yaml:"weather_risk" json:"weather_risk"`
}

// GlobalWeights combines the composites into the single global score.
// EnvironmentalHealth weighs 100 minus the environmental risk composite.
type GlobalWeights struct {
	VegetationHealth    float64 `yaml:"vegetation_health" json:"vegetation_health"`
	Productivity        float64 `yaml:"productivity" json:"productivity"`
	EnvironmentalHealth float64 `yaml:"environmental_health" json:"environmental_health"`
}

// Weights is the full, named weight configuration of the engine. Weights
// within one table need not sum to exactly 1: the engine always divides by
// the sum of the weights whose inputs are present.
type Weights struct {
	Vegetation   VegetationWeights   `yaml:"vegetation" json:"vegetation"`
	Water        WaterWeights        `yaml:"water" json:"water"`
	Productivity ProductivityWeights `yaml:"productivity" json:"productivity"`
	Risk         RiskWeights         `yaml:"risk" json:"risk"`
	Global       GlobalWeights       `yaml:"global" json:"global"`
}

// Thresholds enumerates the trigger value for each alert type. Comparisons
// are strict: a statistic exactly at its threshold does not fire.
type Thresholds struct {
	WaterStressCritical   float64 `yaml:"water_stress_critical" json:"water_stress_critical"`
	VegetationHealthLow   float64 `yaml:"vegetation_health_low" json:"vegetation_health_low"`
	EnvironmentalRiskHigh float64 `yaml:"environmental_risk_high" json:"environmental_risk_high"`
	ProductivityLow       float64 `yaml:"productivity_low" json:"productivity_low"`
	NDVIDeclinePct        float64 `yaml:"ndvi_decline_pct" json:"ndvi_decline_pct"`
	SpatialZScore         float64 `yaml:"spatial_z_score" json:"spatial_z_score"`
}

// EngineConfig bundles everything the engine needs. It is validated once,
// at construction time, so scoring itself can never fail on configuration.
type EngineConfig struct {
	Weights    Weights    `yaml:"weights" json:"weights"`
	Thresholds Thresholds `yaml:"thresholds" json:"thresholds"`
}

// DefaultConfig returns the documented default weight tables and alert
// thresholds.
func DefaultConfig() EngineConfig {
	return EngineConfig{
		Weights: Weights{
			Vegetation:   VegetationWeights{NDVI: 0.5, EVI: 0.3, SAVI: 0.2},
			Water:        WaterWeights{NDWI: 0.6, Rainfall: 0.4},
			Productivity: ProductivityWeights{VegetationHealth: 0.6, WaterAvailability: 0.3, SoilHealth: 0.1},
			Risk:         RiskWeights{WaterStress: 0.4, PestRisk: 0.3, WeatherRisk: 0.3},
			Global:       GlobalWeights{VegetationHealth: 0.35, Productivity: 0.35, EnvironmentalHealth: 0.30},
		},
		Thresholds: Thresholds{
			WaterStressCritical:   70,
			VegetationHealthLow:   30,
			EnvironmentalRiskHigh: 70,
			ProductivityLow:       40,
			NDVIDeclinePct:        10,
			SpatialZScore:         2.0,
		},
	}
}

// InvalidConfigError reports a weight or threshold outside its valid range.
type InvalidConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid engine config: %s %s", e.Field, e.Reason)
}

// Validate rejects malformed configuration before any scoring call.
func (c EngineConfig) Validate() error {
	tables := []struct {
		name    string
		weights []float64
	}{
		{"weights.vegetation", []float64{c.Weights.Vegetation.NDVI, c.Weights.Vegetation.EVI, c.Weights.Vegetation.SAVI}},
		{"weights.water", []float64{c.Weights.Water.NDWI, c.Weights.Water.Rainfall}},
		{"weights.productivity", []float64{c.Weights.Productivity.VegetationHealth, c.Weights.Productivity.WaterAvailability, c.Weights.Productivity.SoilHealth}},
		{"weights.risk", []float64{c.Weights.Risk.WaterStress, c.Weights.Risk.PestRisk, c.Weights.Risk.WeatherRisk}},
		{"weights.global", []float64{c.Weights.Global.VegetationHealth, c.Weights.Global.Productivity, c.Weights.Global.EnvironmentalHealth}},
	}
	for _, tb := range tables {
		sum := 0.0
		for _, w := range tb.weights {
			if w < 0 {
				return &InvalidConfigError{Field: tb.name, Reason: "contains a negative weight"}
			}
			sum += w
		}
		if sum <= 0 {
			return &InvalidConfigError{Field: tb.name, Reason: "has no positive weight"}
		}
	}

	scoreThresholds := []struct {
		name  string
		value float64
	}{
		{"thresholds.water_stress_critical", c.Thresholds.WaterStressCritical},
		{"thresholds.vegetation_health_low", c.Thresholds.VegetationHealthLow},
		{"thresholds.environmental_risk_high", c.Thresholds.EnvironmentalRiskHigh},
		{"thresholds.productivity_low", c.Thresholds.ProductivityLow},
	}
	for _, th := range scoreThresholds {
		if th.value < 0 || th.value > 100 {
			return &InvalidConfigError{Field: th.name, Reason: "must be within [0,100]"}
		}
	}
	if c.Thresholds.NDVIDeclinePct < 0 {
		return &InvalidConfigError{Field: "thresholds.ndvi_decline_pct", Reason: "must not be negative"}
	}
	if c.Thresholds.SpatialZScore <= 0 {
		return &InvalidConfigError{Field: "thresholds.spatial_z_score", Reason: "must be positive"}
	}
	return nil
}

// LoadConfig reads a YAML override file on top of the defaults. Missing
// file path means plain defaults.
func LoadConfig(path string) (EngineConfig, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return EngineConfig{}, fmt.Errorf("read engine config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return EngineConfig{}, fmt.Errorf("parse engine config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return EngineConfig{}, err
	}
	return cfg, nil
}
