package analytics

// Range is a documented reference range used to map a raw index into
// [0,100]. Values beyond the range saturate: they clamp, never extrapolate.
type Range struct {
	Min float64
	Max float64
}

// Reference normalization policy, fixed once for the whole engine:
// spectral difference indices use their theoretical [-1,1] span, rainfall
// uses a 0-500 mm seasonal window, land surface temperature 0-50 °C, and
// the agronomic proxies (soil health, pest and weather risk) arrive
// already expressed on a 0-100 scale.
var referenceRanges = map[string]Range{
	StatNDVI:        {-1, 1},
	StatNDWI:        {-1, 1},
	StatNDMI:        {-1, 1},
	StatEVI:         {-1, 1},
	StatSAVI:        {-1, 1},
	StatRainfall:    {0, 500},
	StatLST:         {0, 50},
	StatSoilHealth:  {0, 100},
	StatPestRisk:    {0, 100},
	StatWeatherRisk: {0, 100},
}

// Normalize maps v linearly from r into [0,100], clamping at both ends.
func (r Range) Normalize(v float64) float64 {
	if r.Max == r.Min {
		return 50
	}
	return clamp100((v - r.Min) / (r.Max - r.Min) * 100)
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Interpret translates a 0-100 score into its reporting band. The
// sentinel maps to "Unknown".
func Interpret(score float64) string {
	switch {
	case score == ScoreUnknown:
		return "Unknown"
	case score >= 80:
		return "Excellent"
	case score >= 60:
		return "Good"
	case score >= 40:
		return "Moderate"
	case score >= 20:
		return "Poor"
	default:
		return "Critical"
	}
}

// ClassifyHealth buckets a raw NDVI mean into a zone health label.
func ClassifyHealth(ndvi float64) string {
	switch {
	case ndvi > 0.7:
		return "Excellent"
	case ndvi > 0.5:
		return "Good"
	case ndvi > 0.3:
		return "Moderate"
	default:
		return "Poor"
	}
}

// ClassifyRisk buckets a raw NDVI mean into a zone risk label.
func ClassifyRisk(ndvi float64) string {
	switch {
	case ndvi > 0.6:
		return "Low"
	case ndvi > 0.4:
		return "Medium"
	default:
		return "High"
	}
}
