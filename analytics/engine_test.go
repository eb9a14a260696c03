package analytics

import (
	"math"
	"reflect"
	"testing"
)

func f(v float64) *float64 { return &v }

func statsBag(means map[string]float64) ZonalStatistics {
	bag := make(ZonalStatistics, len(means))
	for k, v := range means {
		bag[k] = IndexStats{Mean: f(v)}
	}
	return bag
}

func mustEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig())
	if err != nil {
		t.Fatalf("NewEngine with defaults: %v", err)
	}
	return e
}

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestVegetationHealthWeightedCombination(t *testing.T) {
	e := mustEngine(t)

	// NDVI 0.75 -> 87.5, EVI 0.6 -> 80, SAVI 0.65 -> 82.5 on the [-1,1]
	// reference range; weights 0.5/0.3/0.2.
	rep := e.Score(statsBag(map[string]float64{
		StatNDVI: 0.75,
		StatEVI:  0.6,
		StatSAVI: 0.65,
	}))

	approx(t, "vegetation_health", rep.Scores.VegetationHealth, 0.5*87.5+0.3*80+0.2*82.5)
}

func TestMissingInputRenormalization(t *testing.T) {
	e := mustEngine(t)

	// EVI missing: remaining weights 0.5 and 0.2 are rescaled to sum 1,
	// the missing index never counts as zero.
	rep := e.Score(statsBag(map[string]float64{
		StatNDVI: 0.75,
		StatSAVI: 0.65,
	}))

	want := (0.5*87.5 + 0.2*82.5) / 0.7
	approx(t, "vegetation_health", rep.Scores.VegetationHealth, want)

	used := rep.Inputs["vegetation_health"]
	if !reflect.DeepEqual(used, []string{StatNDVI, StatSAVI}) {
		t.Errorf("inputs = %v, want [ndvi savi]", used)
	}
}

func TestScoresStayWithinRange(t *testing.T) {
	bags := []ZonalStatistics{
		statsBag(map[string]float64{StatNDVI: 5, StatEVI: 5, StatSAVI: 5, StatNDWI: 5, StatRainfall: 10000, StatSoilHealth: 250, StatPestRisk: 300, StatWeatherRisk: 300}),
		statsBag(map[string]float64{StatNDVI: -5, StatEVI: -5, StatSAVI: -5, StatNDWI: -5, StatRainfall: -100, StatSoilHealth: -50, StatPestRisk: -10, StatWeatherRisk: -10}),
		statsBag(map[string]float64{StatNDVI: 0.4, StatNDWI: 0.1, StatRainfall: 120, StatSoilHealth: 55}),
	}
	e := mustEngine(t)
	for i, bag := range bags {
		rep := e.Score(bag)
		for name, score := range map[string]float64{
			"vegetation_health":  rep.Scores.VegetationHealth,
			"water_stress":       rep.Scores.WaterStress,
			"productivity":       rep.Scores.Productivity,
			"environmental_risk": rep.Scores.EnvironmentalRisk,
			"global":             rep.GlobalScore,
		} {
			if score == ScoreUnknown {
				continue
			}
			if score < 0 || score > 100 {
				t.Errorf("bag %d: %s = %v out of [0,100]", i, name, score)
			}
		}
	}
}

func TestDeterminism(t *testing.T) {
	e := mustEngine(t)
	bag := statsBag(map[string]float64{
		StatNDVI: 0.62, StatEVI: 0.51, StatSAVI: 0.48,
		StatNDWI: 0.05, StatRainfall: 180, StatSoilHealth: 62,
		StatPestRisk: 35, StatWeatherRisk: 42,
	})

	first := e.Score(bag)
	second := e.Score(bag)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated scoring of identical input diverged:\n%+v\n%+v", first, second)
	}
}

func TestEmptyInputReturnsSentinelReport(t *testing.T) {
	e := mustEngine(t)

	for name, bag := range map[string]ZonalStatistics{
		"empty":    {},
		"nil":      nil,
		"all-null": {StatNDVI: {}, StatNDWI: {}},
	} {
		rep := e.Score(bag)
		if !rep.Unknown() {
			t.Errorf("%s bag: expected sentinel report, got %+v", name, rep)
		}
		if len(rep.Alerts) != 0 {
			t.Errorf("%s bag: expected zero alerts, got %d", name, len(rep.Alerts))
		}
		if len(rep.Recommendations) != 0 {
			t.Errorf("%s bag: expected zero recommendations, got %d", name, len(rep.Recommendations))
		}
		if rep.Interpretation != "Unknown" {
			t.Errorf("%s bag: interpretation = %q, want Unknown", name, rep.Interpretation)
		}
	}
}

func TestWaterStressCriticalAlert(t *testing.T) {
	e := mustEngine(t)

	// NDWI -0.5 normalizes to 25, so availability 25 and stress 75 with the
	// rainfall term dropped. Everything else is kept healthy so only the
	// water alert can fire.
	bag := statsBag(map[string]float64{
		StatNDVI: 0.75, StatEVI: 0.6, StatSAVI: 0.65,
		StatNDWI:     -0.5,
		StatSoilHealth: 60, StatPestRisk: 10, StatWeatherRisk: 10,
	})

	rep := e.Score(bag)
	approx(t, "water_stress", rep.Scores.WaterStress, 75)

	if len(rep.Alerts) != 1 {
		t.Fatalf("expected exactly one alert, got %d: %+v", len(rep.Alerts), rep.Alerts)
	}
	a := rep.Alerts[0]
	if a.Type != AlertWaterStressCritical {
		t.Errorf("alert type = %q, want %q", a.Type, AlertWaterStressCritical)
	}
	if a.Severity != SeverityCritical {
		t.Errorf("alert severity = %q, want critical", a.Severity)
	}
}

func TestThresholdBoundaryDoesNotTrigger(t *testing.T) {
	e := mustEngine(t)

	// NDWI -0.4 -> availability 30 -> stress exactly 70: at the threshold,
	// not beyond it.
	bag := statsBag(map[string]float64{
		StatNDVI: 0.75, StatEVI: 0.6, StatSAVI: 0.65,
		StatNDWI:     -0.4,
		StatSoilHealth: 60, StatPestRisk: 10, StatWeatherRisk: 10,
	})

	rep := e.Score(bag)
	approx(t, "water_stress", rep.Scores.WaterStress, 70)
	for _, a := range rep.Alerts {
		if a.Type == AlertWaterStressCritical {
			t.Errorf("alert fired at exact threshold: %+v", a)
		}
	}
}

func TestCriticalAlertsOrderedFirst(t *testing.T) {
	e := mustEngine(t)

	// Low vegetation and missing water inputs: vegetation critical plus
	// productivity warning.
	bag := statsBag(map[string]float64{
		StatNDVI: -0.6, StatEVI: -0.6, StatSAVI: -0.6,
		StatSoilHealth: 20, StatPestRisk: 50, StatWeatherRisk: 50,
	})

	rep := e.Score(bag)
	if len(rep.Alerts) < 2 {
		t.Fatalf("expected multiple alerts, got %+v", rep.Alerts)
	}
	if rep.Alerts[0].Severity != SeverityCritical {
		t.Errorf("first alert severity = %q, want critical", rep.Alerts[0].Severity)
	}
	rank := map[Severity]int{SeverityCritical: 0, SeverityWarning: 1, SeverityInfo: 2}
	for i := 1; i < len(rep.Alerts); i++ {
		if rank[rep.Alerts[i].Severity] < rank[rep.Alerts[i-1].Severity] {
			t.Errorf("alerts out of severity order: %+v", rep.Alerts)
		}
	}
}

func TestNoDuplicateAlertTypes(t *testing.T) {
	e := mustEngine(t)
	bag := statsBag(map[string]float64{
		StatNDVI: -0.8, StatEVI: -0.8, StatSAVI: -0.8,
		StatNDWI: -0.9, StatRainfall: 0,
		StatSoilHealth: 5, StatPestRisk: 95, StatWeatherRisk: 95,
	})

	rep := e.Score(bag)
	seen := map[string]bool{}
	for _, a := range rep.Alerts {
		if seen[a.Type] {
			t.Errorf("duplicate alert type %q in %+v", a.Type, rep.Alerts)
		}
		seen[a.Type] = true
	}
}

func TestDecliningTrendAlert(t *testing.T) {
	e := mustEngine(t)
	bag := statsBag(map[string]float64{StatNDVI: 0.5, StatEVI: 0.5, StatSAVI: 0.5, StatNDWI: 0.3, StatRainfall: 200})

	rep := e.ScoreObservation(Observation{
		Stats: bag,
		Trend: &TrendAnalysis{Trend: TrendDecreasing, ChangePercent: -18.5},
	})

	found := false
	for _, a := range rep.Alerts {
		if a.Type == AlertDecliningHealth {
			found = true
		}
	}
	if !found {
		t.Errorf("expected declining_health alert, got %+v", rep.Alerts)
	}

	// A decline within the tolerance must stay silent.
	rep = e.ScoreObservation(Observation{
		Stats: bag,
		Trend: &TrendAnalysis{Trend: TrendDecreasing, ChangePercent: -4},
	})
	for _, a := range rep.Alerts {
		if a.Type == AlertDecliningHealth {
			t.Errorf("declining_health fired below the decline threshold")
		}
	}
}

func TestRecommendationsFollowRuleTable(t *testing.T) {
	e := mustEngine(t)

	stressed := e.Score(statsBag(map[string]float64{
		StatNDVI: 0.7, StatEVI: 0.6, StatSAVI: 0.6,
		StatNDWI: -0.6, StatRainfall: 20,
	}))
	if len(stressed.Recommendations) == 0 {
		t.Fatal("expected irrigation recommendations for a stressed bag")
	}
	if len(stressed.Recommendations) > 5 {
		t.Errorf("recommendations exceed the cap: %d", len(stressed.Recommendations))
	}

	healthy := e.Score(statsBag(map[string]float64{
		StatNDVI: 0.8, StatEVI: 0.7, StatSAVI: 0.7,
		StatNDWI: 0.4, StatRainfall: 300,
		StatSoilHealth: 80, StatPestRisk: 10, StatWeatherRisk: 10,
	}))
	if len(healthy.Recommendations) == 0 {
		t.Error("healthy bag should still get the maintenance recommendation")
	}
}

func TestInvalidConfigRejectedAtConstruction(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*EngineConfig)
	}{
		{"negative weight", func(c *EngineConfig) { c.Weights.Vegetation.NDVI = -0.5 }},
		{"zero weight table", func(c *EngineConfig) {
			c.Weights.Water = WaterWeights{}
		}},
		{"threshold above 100", func(c *EngineConfig) { c.Thresholds.WaterStressCritical = 130 }},
		{"negative threshold", func(c *EngineConfig) { c.Thresholds.ProductivityLow = -1 }},
		{"zero z-score", func(c *EngineConfig) { c.Thresholds.SpatialZScore = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if _, err := NewEngine(cfg); err == nil {
				t.Errorf("expected construction to fail")
			}
		})
	}
}

func TestUnknownPropagation(t *testing.T) {
	e := mustEngine(t)

	// Only risk proxies known: vegetation, water and productivity must be
	// sentinels while risk is computed from what exists.
	rep := e.Score(statsBag(map[string]float64{StatPestRisk: 80, StatWeatherRisk: 90}))

	if rep.Scores.VegetationHealth != ScoreUnknown {
		t.Errorf("vegetation_health = %v, want sentinel", rep.Scores.VegetationHealth)
	}
	if rep.Scores.WaterStress != ScoreUnknown {
		t.Errorf("water_stress = %v, want sentinel", rep.Scores.WaterStress)
	}
	if rep.Scores.Productivity != ScoreUnknown {
		t.Errorf("productivity = %v, want sentinel", rep.Scores.Productivity)
	}
	approx(t, "environmental_risk", rep.Scores.EnvironmentalRisk, (0.3*80+0.3*90)/0.6)

	// Global falls back to the only known composite: environmental health.
	approx(t, "global", rep.GlobalScore, 100-rep.Scores.EnvironmentalRisk)
}
