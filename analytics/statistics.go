package analytics

import (
	"math"

	"github.com/montanaflynn/stats"
)

// Summary is the descriptive statistics block for one sample population.
type Summary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
}

// Describe computes the summary for a sample population. An empty
// population yields the zero Summary.
func Describe(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	d := stats.Float64Data(values)
	mean, _ := stats.Mean(d)
	median, _ := stats.Median(d)
	std, _ := stats.StandardDeviationPopulation(d)
	min, _ := stats.Min(d)
	max, _ := stats.Max(d)
	p25, _ := stats.Percentile(d, 25)
	p75, _ := stats.Percentile(d, 75)
	return Summary{Mean: mean, Median: median, Std: std, Min: min, Max: max, P25: p25, P75: p75}
}

// AnomalyResult summarizes the z-score outlier pass over a population.
type AnomalyResult struct {
	Count     int       `json:"anomaly_count"`
	Percent   float64   `json:"anomaly_percent"`
	Threshold float64   `json:"anomaly_threshold"`
	Values    []float64 `json:"anomalies"`
}

// maxAnomalyValues caps how many offending values are returned for
// inspection.
const maxAnomalyValues = 10

// SpatialAnomalies flags every sample whose |z-score| exceeds threshold
// against the population mean. Fewer than 3 samples, or a degenerate
// population with zero spread, yields no anomalies.
func SpatialAnomalies(values []float64, threshold float64) AnomalyResult {
	res := AnomalyResult{Threshold: threshold, Values: []float64{}}
	if len(values) < 3 {
		return res
	}
	d := stats.Float64Data(values)
	mean, _ := stats.Mean(d)
	std, _ := stats.StandardDeviationPopulation(d)
	if std == 0 || math.IsNaN(std) {
		return res
	}
	for _, v := range values {
		if math.Abs((v-mean)/std) > threshold {
			res.Count++
			if len(res.Values) < maxAnomalyValues {
				res.Values = append(res.Values, v)
			}
		}
	}
	res.Percent = float64(res.Count) / float64(len(values)) * 100
	return res
}
