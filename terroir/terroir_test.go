package terroir

import (
	"reflect"
	"testing"

	"gaiaeye/analytics"
)

func f(v float64) *float64 { return &v }

func TestNewEngineLoadsReferences(t *testing.T) {
	e, err := NewEngine()
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if len(e.References()) < 2 {
		t.Fatalf("expected several references, got %d", len(e.References()))
	}
	for _, ref := range e.References() {
		if ref.ID == "" || ref.Name == "" {
			t.Errorf("incomplete reference: %+v", ref)
		}
	}
}

func TestFromStatisticsFusesSoilProfile(t *testing.T) {
	stats := analytics.ZonalStatistics{
		analytics.StatNDVI:      {Mean: f(0.6)},
		analytics.StatRainfall:  {Mean: f(200)},
		analytics.StatElevation: {Mean: f(120)},
	}

	fp := FromStatistics(stats, &SoilProfile{PHH2O: f(7.1), ClayPercent: f(32)})
	if fp.NDVI != 0.6 || fp.RainfallMM != 200 || fp.Elevation != 120 {
		t.Errorf("fingerprint did not pick up statistics: %+v", fp)
	}
	if fp.PHH2O != 7.1 || fp.ClayPercent != 32 {
		t.Errorf("fingerprint did not pick up soil profile: %+v", fp)
	}
	if fp.DrainageScore != defaultDrainage {
		t.Errorf("unset soil value should fall back to default, got %v", fp.DrainageScore)
	}
}

func TestMatchIsDeterministicAndSorted(t *testing.T) {
	e, err := NewEngine()
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	fp := Fingerprint{
		NDVI: 0.61, RainfallMM: 190, Elevation: 30,
		PHH2O: 7.1, ClayPercent: 16, DrainageScore: 93,
	}

	first := e.Match(fp)
	second := e.Match(fp)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("matching is not deterministic:\n%+v\n%+v", first, second)
	}

	for i := 1; i < len(first); i++ {
		if first[i].SimilarityScore > first[i-1].SimilarityScore {
			t.Errorf("matches not sorted by similarity: %+v", first)
		}
	}

	// A fingerprint shaped like Pauillac should match Pauillac best.
	if first[0].ID != "pauillac_premier_cru" {
		t.Errorf("best match = %s, want pauillac_premier_cru (%+v)", first[0].ID, first)
	}
	for _, m := range first {
		if m.SimilarityScore < 0 || m.SimilarityScore > 100 {
			t.Errorf("similarity out of range: %+v", m)
		}
	}
}

func TestDetectGaps(t *testing.T) {
	e, err := NewEngine()
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	// Acidic, heavy, poorly drained parcel against Pauillac gravel.
	fp := Fingerprint{PHH2O: 5.8, ClayPercent: 38, DrainageScore: 60}
	gaps := e.DetectGaps(fp, "pauillac_premier_cru")
	if len(gaps) != 3 {
		t.Fatalf("expected 3 gaps, got %d: %+v", len(gaps), gaps)
	}
	if gaps[0].Parameter != "pH" || gaps[0].Recommendation != "Liming" {
		t.Errorf("pH gap = %+v", gaps[0])
	}

	// A parcel matching the benchmark has no gaps.
	aligned := Fingerprint{PHH2O: 7.2, ClayPercent: 15, DrainageScore: 95}
	if gaps := e.DetectGaps(aligned, "pauillac_premier_cru"); len(gaps) != 0 {
		t.Errorf("aligned parcel reported gaps: %+v", gaps)
	}
}
