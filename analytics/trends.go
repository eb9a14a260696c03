package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
)

// Trend directions.
const (
	TrendStable           = "stable"
	TrendIncreasing       = "increasing"
	TrendDecreasing       = "decreasing"
	TrendInsufficientData = "insufficient_data"
)

// stableSlope is the |slope| per observation below which a series counts
// as stable.
const stableSlope = 0.01

// TrendPoint is one dated observation of an index mean.
type TrendPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// TrendAnalysis describes the least-squares trend of a dated series.
type TrendAnalysis struct {
	Trend         string  `json:"trend" bson:"trend"`
	ChangePercent float64 `json:"change_percent" bson:"change_percent"`
	Slope         float64 `json:"slope" bson:"slope"`
	RSquared      float64 `json:"r_squared" bson:"r_squared"`
	Confidence    string  `json:"confidence" bson:"confidence"`
}

// AnalyzeTrend fits a least-squares line through the series (ordered by
// date) and classifies its direction. Fewer than two points is
// insufficient data.
func AnalyzeTrend(points []TrendPoint) TrendAnalysis {
	if len(points) < 2 {
		return TrendAnalysis{Trend: TrendInsufficientData}
	}

	sorted := make([]TrendPoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	series := make(stats.Series, len(sorted))
	xs := make([]float64, len(sorted))
	ys := make([]float64, len(sorted))
	for i, p := range sorted {
		series[i] = stats.Coordinate{X: float64(i), Y: p.Value}
		xs[i] = float64(i)
		ys[i] = p.Value
	}

	fitted, err := stats.LinearRegression(series)
	if err != nil || len(fitted) < 2 {
		return TrendAnalysis{Trend: TrendInsufficientData}
	}
	slope := (fitted[len(fitted)-1].Y - fitted[0].Y) / (fitted[len(fitted)-1].X - fitted[0].X)

	trend := TrendStable
	switch {
	case math.Abs(slope) < stableSlope:
		trend = TrendStable
	case slope > 0:
		trend = TrendIncreasing
	default:
		trend = TrendDecreasing
	}

	change := 0.0
	if first := sorted[0].Value; first != 0 {
		change = (sorted[len(sorted)-1].Value - first) / math.Abs(first) * 100
	}

	r, err := stats.Pearson(xs, ys)
	if err != nil || math.IsNaN(r) {
		r = 0
	}
	confidence := "low"
	switch {
	case math.Abs(r) > 0.7:
		confidence = "high"
	case math.Abs(r) > 0.4:
		confidence = "moderate"
	}

	return TrendAnalysis{
		Trend:         trend,
		ChangePercent: round2(change),
		Slope:         round4(slope),
		RSquared:      round3(r * r),
		Confidence:    confidence,
	}
}

// PeriodChange compares one metric across two periods.
type PeriodChange struct {
	Current       float64 `json:"current"`
	Previous      float64 `json:"previous"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Direction     string  `json:"direction"`
}

// ComparePeriods computes per-key deltas between two metric maps. Keys
// absent from previous are skipped.
func ComparePeriods(current, previous map[string]float64) map[string]PeriodChange {
	out := make(map[string]PeriodChange, len(current))
	for key, curr := range current {
		prev, ok := previous[key]
		if !ok {
			continue
		}
		pct := 0.0
		if prev != 0 {
			pct = (curr - prev) / math.Abs(prev) * 100
		}
		dir := TrendStable
		switch {
		case curr > prev:
			dir = "up"
		case curr < prev:
			dir = "down"
		}
		out[key] = PeriodChange{
			Current:       curr,
			Previous:      prev,
			Change:        curr - prev,
			ChangePercent: round2(pct),
			Direction:     dir,
		}
	}
	return out
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
