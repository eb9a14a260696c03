package llm

import (
	"fmt"
	"strings"

	"gaiaeye/analytics"
)

// The fallback writer produces deterministic prose from the same rule
// bands the engine scores with, so an offline model never blocks an
// analysis. Its output is always derived from the structured report,
// never a substitute score.

// FallbackInsight builds the short interpretation without a model.
func FallbackInsight(a Analysis) string {
	s := a.Report.Scores
	gss := a.Report.GlobalScore

	if a.Report.Unknown() {
		return "Insufficient satellite data was available for this zone and time window; no reliable interpretation can be given."
	}

	status := "concerning"
	switch {
	case gss >= 70:
		status = "excellent"
	case gss >= 50:
		status = "good"
	case gss >= 30:
		status = "moderate"
	}

	issue := "no major issue identified"
	switch {
	case s.WaterStress != analytics.ScoreUnknown && s.WaterStress > 60:
		issue = fmt.Sprintf("significant water stress (%.1f/100)", s.WaterStress)
	case s.VegetationHealth != analytics.ScoreUnknown && s.VegetationHealth < 40:
		issue = fmt.Sprintf("weak vegetation health (%.1f/100)", s.VegetationHealth)
	case s.Productivity != analytics.ScoreUnknown && s.Productivity < 40:
		issue = fmt.Sprintf("limited productivity (%.1f/100)", s.Productivity)
	}

	insight := fmt.Sprintf("The zone shows %s overall sustainability (%.1f/100). The analysis reveals %s. ", status, gss, issue)
	if s.Productivity != analytics.ScoreUnknown && s.Productivity >= 60 {
		insight += fmt.Sprintf("Expected productivity remains satisfactory (%.1f/100).", s.Productivity)
	} else {
		insight += "Closer monitoring is recommended."
	}
	return insight
}

// FallbackRecommendations returns the engine's own rule-table output,
// which the model-backed path would otherwise refine.
func FallbackRecommendations(a Analysis) []string {
	return a.Report.Recommendations
}

// FallbackDetailedReport builds the long-form report without a model.
func FallbackDetailedReport(a Analysis) string {
	if a.Report.Unknown() {
		return "SATELLITE ANALYSIS REPORT\n\nInsufficient data: no cloud-free statistics were available for the requested zone and window. No scores were computed."
	}

	s := a.Report.Scores
	gss := a.Report.GlobalScore
	var b strings.Builder

	fmt.Fprintf(&b, "SATELLITE ANALYSIS REPORT\n\n")
	fmt.Fprintf(&b, "Analyzed area: %.2f hectares\nSegmented zones: %d\nActive alerts: %d\n\n", a.AreaHectares, len(a.Zones), len(a.Report.Alerts))

	fmt.Fprintf(&b, "1. EXECUTIVE SUMMARY\n\n")
	fmt.Fprintf(&b, "The zone carries a global sustainability score of %.1f/100 (%s). ", gss, a.Report.Interpretation)
	fmt.Fprintf(&b, "Multi-spectral analysis rates vegetation health at %s, water stress at %s, productivity at %s and environmental risk at %s.\n\n",
		band(s.VegetationHealth), band(s.WaterStress), band(s.Productivity), band(s.EnvironmentalRisk))

	fmt.Fprintf(&b, "2. VEGETATION HEALTH\n\n")
	if ndvi, ok := a.Raw.Mean(analytics.StatNDVI); ok {
		density := "sparse or stressed vegetation"
		if ndvi > 0.6 {
			density = "dense, vigorous vegetation"
		} else if ndvi > 0.4 {
			density = "moderately developed vegetation"
		}
		fmt.Fprintf(&b, "The mean NDVI of %.3f indicates %s. ", ndvi, density)
	}
	fmt.Fprintf(&b, "The composite health score of %s also folds in EVI and SAVI, which dampen soil and atmosphere effects.\n\n", band(s.VegetationHealth))

	fmt.Fprintf(&b, "3. WATER STRESS\n\n")
	switch {
	case s.WaterStress == analytics.ScoreUnknown:
		fmt.Fprintf(&b, "No usable water indicators were available for this window.\n\n")
	case s.WaterStress >= 70:
		fmt.Fprintf(&b, "Stress of %.1f/100 is critical: immediate irrigation intervention is needed to avoid irreversible damage.\n\n", s.WaterStress)
	case s.WaterStress >= 40:
		fmt.Fprintf(&b, "Stress of %.1f/100 is manageable but warrants a tuned irrigation calendar and closer monitoring.\n\n", s.WaterStress)
	default:
		fmt.Fprintf(&b, "Water conditions are currently satisfactory (%.1f/100 stress).\n\n", s.WaterStress)
	}

	fmt.Fprintf(&b, "4. PRODUCTIVITY AND RISK\n\n")
	fmt.Fprintf(&b, "Estimated productivity stands at %s of the theoretical optimum; environmental risk is rated %s.\n\n",
		band(s.Productivity), band(s.EnvironmentalRisk))

	if a.Trend != nil && a.Trend.Trend != analytics.TrendInsufficientData {
		fmt.Fprintf(&b, "5. TEMPORAL TREND\n\n")
		fmt.Fprintf(&b, "The NDVI series is %s (%.1f%% change, confidence %s).\n\n", a.Trend.Trend, a.Trend.ChangePercent, a.Trend.Confidence)
	}

	if len(a.Zones) > 0 {
		fmt.Fprintf(&b, "6. ZONE ANALYSIS\n\n")
		for _, z := range a.Zones {
			fmt.Fprintf(&b, "Zone %d (%.1f%% of area): mean NDVI %.3f, health %s, risk %s.\n", z.ZoneID, z.AreaPercent, z.AvgNDVI, z.Health, z.Risk)
		}
		b.WriteString("\n")
	}

	if len(a.Report.Alerts) > 0 {
		fmt.Fprintf(&b, "7. ALERTS\n\n")
		for _, al := range a.Report.Alerts {
			fmt.Fprintf(&b, "[%s] %s\n", strings.ToUpper(string(al.Severity)), al.Message)
		}
		b.WriteString("\n")
	}

	if len(a.Report.Recommendations) > 0 {
		fmt.Fprintf(&b, "8. RECOMMENDATIONS\n\n")
		for i, r := range a.Report.Recommendations {
			fmt.Fprintf(&b, "%d. %s\n", i+1, r)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "This report was produced by the deterministic expert engine; enable the local language model for fully narrative reports.")
	return b.String()
}

// FallbackTerroirAudit is the model-free audit summary.
func FallbackTerroirAudit(a TerroirAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "TERROIR AUDIT\n\n")
	if len(a.Matches) > 0 {
		fmt.Fprintf(&b, "Closest reference profile: %s (similarity %.1f%%).\n", a.Matches[0].Name, a.Matches[0].SimilarityScore)
	}
	if len(a.Gaps) == 0 {
		b.WriteString("No critical gap against the benchmark was detected.")
		return b.String()
	}
	fmt.Fprintf(&b, "Critical gaps against the benchmark:\n")
	for _, g := range a.Gaps {
		fmt.Fprintf(&b, "- %s / %s: %s. Suggested action: %s.\n", g.Category, g.Parameter, g.Impact, g.Recommendation)
	}
	return b.String()
}

func band(score float64) string {
	if score == analytics.ScoreUnknown {
		return "unknown"
	}
	return fmt.Sprintf("%.1f/100 (%s)", score, analytics.Interpret(score))
}
