package analytics

import (
	"math"
	"testing"
)

func TestDescribe(t *testing.T) {
	s := Describe([]float64{1, 2, 3, 4, 5})
	if s.Mean != 3 || s.Median != 3 || s.Min != 1 || s.Max != 5 {
		t.Errorf("summary = %+v", s)
	}
	if math.Abs(s.Std-math.Sqrt(2)) > 1e-9 {
		t.Errorf("std = %v, want sqrt(2)", s.Std)
	}
}

func TestDescribeEmpty(t *testing.T) {
	if s := Describe(nil); s != (Summary{}) {
		t.Errorf("empty population summary = %+v", s)
	}
}

func TestSpatialAnomalies(t *testing.T) {
	// A tight population with one far outlier.
	values := []float64{0.5, 0.51, 0.49, 0.5, 0.52, 0.48, 0.5, 0.51, 0.49, 5.0}
	res := SpatialAnomalies(values, 2.0)
	if res.Count != 1 {
		t.Fatalf("anomaly count = %d, want 1 (%+v)", res.Count, res)
	}
	if res.Percent != 10 {
		t.Errorf("anomaly percent = %v, want 10", res.Percent)
	}
	if len(res.Values) != 1 || res.Values[0] != 5.0 {
		t.Errorf("anomaly values = %v", res.Values)
	}
}

func TestSpatialAnomaliesDegenerate(t *testing.T) {
	if res := SpatialAnomalies([]float64{0.5, 0.6}, 2.0); res.Count != 0 {
		t.Errorf("short population flagged anomalies: %+v", res)
	}
	if res := SpatialAnomalies([]float64{0.5, 0.5, 0.5, 0.5}, 2.0); res.Count != 0 {
		t.Errorf("zero-spread population flagged anomalies: %+v", res)
	}
}
