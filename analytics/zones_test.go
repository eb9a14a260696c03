package analytics

import (
	"math"
	"testing"
)

// bucketClusterer labels samples by fixed NDVI bands, standing in for the
// real partitioning routine.
type bucketClusterer struct{}

func (bucketClusterer) Partition(features [][]float64, k int) ([]int, error) {
	labels := make([]int, len(features))
	for i, fv := range features {
		switch v := fv[0]; {
		case v > 0.6:
			labels[i] = 0
		case v > 0.35:
			labels[i] = 1
		default:
			labels[i] = 2
		}
	}
	return labels, nil
}

func TestSegmentZones(t *testing.T) {
	ndvi := []float64{
		0.75, 0.8, 0.72, 0.78, // healthy
		0.5, 0.45, 0.55, // moderate
		0.2, 0.15, 0.1, // poor
		math.NaN(), math.NaN(), // masked pixels
	}

	analysis, err := SegmentZones(ndvi, 3, bucketClusterer{})
	if err != nil {
		t.Fatalf("SegmentZones: %v", err)
	}
	if analysis.TotalPixels != 10 {
		t.Errorf("total pixels = %d, want 10 (NaN dropped)", analysis.TotalPixels)
	}
	if analysis.NZones != 3 {
		t.Fatalf("zones = %d, want 3", analysis.NZones)
	}

	// Best zone first.
	for i := 1; i < len(analysis.Zones); i++ {
		if analysis.Zones[i].AvgNDVI > analysis.Zones[i-1].AvgNDVI {
			t.Errorf("zones not sorted best-first: %+v", analysis.Zones)
		}
	}

	best, worst := analysis.Zones[0], analysis.Zones[2]
	if best.Health != "Excellent" || best.Risk != "Low" {
		t.Errorf("best zone classification = %s/%s", best.Health, best.Risk)
	}
	if worst.Health != "Poor" || worst.Risk != "High" {
		t.Errorf("worst zone classification = %s/%s", worst.Health, worst.Risk)
	}

	total := 0.0
	for _, z := range analysis.Zones {
		total += z.AreaPercent
	}
	if math.Abs(total-100) > 0.5 {
		t.Errorf("area percentages sum to %v", total)
	}
}

func TestSegmentZonesInsufficientData(t *testing.T) {
	_, err := SegmentZones([]float64{0.5, math.NaN()}, 3, bucketClusterer{})
	if err != ErrInsufficientData {
		t.Errorf("err = %v, want ErrInsufficientData", err)
	}
}

func TestClassificationBands(t *testing.T) {
	cases := []struct {
		ndvi   float64
		health string
		risk   string
	}{
		{0.75, "Excellent", "Low"},
		{0.55, "Good", "Medium"},
		{0.35, "Moderate", "High"},
		{0.1, "Poor", "High"},
	}
	for _, tc := range cases {
		if got := ClassifyHealth(tc.ndvi); got != tc.health {
			t.Errorf("ClassifyHealth(%v) = %q, want %q", tc.ndvi, got, tc.health)
		}
		if got := ClassifyRisk(tc.ndvi); got != tc.risk {
			t.Errorf("ClassifyRisk(%v) = %q, want %q", tc.ndvi, got, tc.risk)
		}
	}
}
