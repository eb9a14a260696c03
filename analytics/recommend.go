package analytics

// maxRecommendations bounds a report's recommendation list.
const maxRecommendations = 5

// recommend evaluates the fixed rule table against the composite scores.
// Rules tied to critical alerts come first, then warnings, so the output
// ordering is stable and reproducible. Unknown composites trigger nothing.
func (e *Engine) recommend(s Scores, alerts []Alert) []string {
	recs := make([]string, 0, maxRecommendations)
	add := func(r string) {
		if len(recs) < maxRecommendations {
			recs = append(recs, r)
		}
	}

	if s.WaterStress != ScoreUnknown && s.WaterStress > 60 {
		add("Optimize the irrigation system in zones under high water stress")
		add("Monitor soil moisture daily until stress indicators recover")
	}
	if s.VegetationHealth != ScoreUnknown && s.VegetationHealth < 50 {
		add("Investigate the causes of low vegetation health (nutrient deficiency, disease, stress)")
		add("Consider targeted fertilization if a nutrient deficiency is confirmed")
	}
	if s.EnvironmentalRisk != ScoreUnknown && s.EnvironmentalRisk > 60 {
		add("Put an environmental risk management plan in place")
		add("Reinforce weather condition monitoring")
	}
	if s.Productivity != ScoreUnknown && s.Productivity < 50 {
		add("Review current cultivation practices to identify improvement levers")
	}

	if len(recs) == 0 && !allUnknown(s) {
		add("Maintain current good practices")
		add("Continue regular monitoring through satellite imagery")
	}
	return recs
}

func allUnknown(s Scores) bool {
	return s.VegetationHealth == ScoreUnknown &&
		s.WaterStress == ScoreUnknown &&
		s.Productivity == ScoreUnknown &&
		s.EnvironmentalRisk == ScoreUnknown
}
