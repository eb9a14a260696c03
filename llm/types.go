// Package llm turns a structured analysis into narrative prose through a
// locally hosted model, with a deterministic rule-based writer as the
// degradation path when the model is unreachable. The engine's numbers
// are only ever passed through, never derived here.
package llm

import (
	"context"

	"gaiaeye/analytics"
	"gaiaeye/terroir"
)

// Analysis is the structured input handed to the narrator: the full score
// report plus the context that makes prose specific.
type Analysis struct {
	AreaHectares float64                   `json:"area_hectares"`
	Report       analytics.ScoreReport     `json:"report"`
	Raw          analytics.ZonalStatistics `json:"raw_indices"`
	Trend        *analytics.TrendAnalysis  `json:"trend,omitempty"`
	Zones        []analytics.Zone          `json:"zones,omitempty"`
}

// TerroirAnalysis is the structured input for the terroir audit prose.
type TerroirAnalysis struct {
	Fingerprint terroir.Fingerprint `json:"fingerprint"`
	Matches     []terroir.Match     `json:"matches"`
	Gaps        []terroir.Gap       `json:"gaps"`
}

// Narrator is the report-narration capability. Callers must treat an
// error as "no prose": degrade to the structured report (or the fallback
// writer), never block the analysis on it.
type Narrator interface {
	Insight(ctx context.Context, a Analysis) (string, error)
	Recommendations(ctx context.Context, a Analysis) ([]string, error)
	DetailedReport(ctx context.Context, a Analysis) (string, error)
	TerroirAudit(ctx context.Context, a TerroirAnalysis) (string, error)
}
