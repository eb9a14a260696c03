package llm

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are an expert satellite analyst and agronomist. " +
	"Base every statement strictly on the structured data provided; never invent measurements."

func scoreLine(name string, score float64) string {
	if score < 0 {
		return fmt.Sprintf("- %s: unknown (insufficient data)", name)
	}
	return fmt.Sprintf("- %s: %.1f/100", name, score)
}

func scoresBlock(a Analysis) string {
	var b strings.Builder
	b.WriteString(scoreLine("Vegetation Health", a.Report.Scores.VegetationHealth) + "\n")
	b.WriteString(scoreLine("Water Stress", a.Report.Scores.WaterStress) + "\n")
	b.WriteString(scoreLine("Productivity", a.Report.Scores.Productivity) + "\n")
	b.WriteString(scoreLine("Environmental Risk", a.Report.Scores.EnvironmentalRisk) + "\n")
	b.WriteString(scoreLine("Global Score", a.Report.GlobalScore))
	return b.String()
}

func insightPrompt(a Analysis) string {
	trend := "not available"
	if a.Trend != nil {
		trend = fmt.Sprintf("%s (%.1f%%)", a.Trend.Trend, a.Trend.ChangePercent)
	}
	return fmt.Sprintf(`Analyze this agricultural zone and provide a clear, concise interpretation.

Data:
%s
- NDVI trend: %s

Provide a 2-3 sentence interpretation that summarizes the overall health status, highlights the most important finding, and mentions any concerning trend.

Response (concise):`, scoresBlock(a), trend)
}

func recommendationsPrompt(a Analysis) string {
	return fmt.Sprintf(`You are advising the grower of a %.1f hectare zone. Based on this satellite analysis, provide 3-5 specific, actionable recommendations.

Scores:
%s

Active alerts: %d

Each recommendation must be specific, data-driven and prioritized by importance.

Format:
{"recommendations": ["recommendation 1", "recommendation 2", "recommendation 3"]}

Response (JSON only):`, a.AreaHectares, scoresBlock(a), len(a.Report.Alerts))
}

func detailedReportPrompt(a Analysis) string {
	var raw strings.Builder
	for _, key := range []string{"ndvi", "ndwi", "evi", "savi"} {
		if s, ok := a.Raw[key]; ok && s.Mean != nil {
			raw.WriteString(fmt.Sprintf("- %s: mean=%.3f", strings.ToUpper(key), *s.Mean))
			if s.Std != nil {
				raw.WriteString(fmt.Sprintf(", std=%.3f", *s.Std))
			}
			if s.Min != nil && s.Max != nil {
				raw.WriteString(fmt.Sprintf(", min=%.3f, max=%.3f", *s.Min, *s.Max))
			}
			raw.WriteString("\n")
		}
	}
	trend := "not available"
	if a.Trend != nil {
		trend = fmt.Sprintf("%s (%.1f%%, confidence %s)", a.Trend.Trend, a.Trend.ChangePercent, a.Trend.Confidence)
	}

	return fmt.Sprintf(`Generate a comprehensive professional analysis report for a %.1f hectare agricultural zone.

COMPOSITE SCORES (0-100):
%s

RAW SPECTRAL INDICES:
%sTEMPORAL ANALYSIS:
- NDVI trend: %s

SEGMENTED ZONES: %d
ACTIVE ALERTS: %d

Structure the report as: 1. Executive summary, 2. Vegetation health analysis, 3. Water stress evaluation, 4. Productivity analysis, 5. Risk assessment, 6. Temporal trends, 7. Zone-by-zone analysis, 8. Detailed recommendations (immediate, short term, medium term), 9. Conclusion.

The report must be scientifically rigorous, rich in explanation, understandable by a non-expert, and based only on the data provided.`,
		a.AreaHectares, scoresBlock(a), raw.String(), trend, len(a.Zones), len(a.Report.Alerts))
}

func terroirAuditPrompt(a TerroirAnalysis) string {
	best := "unknown reference"
	score := 0.0
	if len(a.Matches) > 0 {
		best = a.Matches[0].Name
		score = a.Matches[0].SimilarityScore
	}
	return fmt.Sprintf(`Perform a professional terroir intelligence audit for this parcel.

MATCHING RESULT:
- Best reference: %s
- Similarity score: %.1f%%

PARCEL FINGERPRINT:
- Elevation: %.0f m, Slope: %.1f deg
- NDVI: %.3f, Rainfall: %.0f mm
- pH: %.1f, Clay: %.0f%%, Drainage score: %.0f

CRITICAL GAPS: %d

Structure the audit as: 1. Terroir signature, 2. Reference comparison (why this parcel resembles %s), 3. Critical gaps against the benchmark, 4. Excellence potential and remediation path.

Use precise agronomic and geological vocabulary.`,
		best, score,
		a.Fingerprint.Elevation, a.Fingerprint.Slope,
		a.Fingerprint.NDVI, a.Fingerprint.RainfallMM,
		a.Fingerprint.PHH2O, a.Fingerprint.ClayPercent, a.Fingerprint.DrainageScore,
		len(a.Gaps), best)
}
