package main

import (
	"context"
	"encoding/json"
	"net/http"

	"gaiaeye/llm"
	"gaiaeye/terroir"
)

// handleTerroir fingerprints a region against reference vineyard
// profiles: statistics bag in, ranked matches plus gap analysis out.
func (a *App) handleTerroir(w http.ResponseWriter, r *http.Request) {
	var req terroirReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "bad json")
		return
	}
	box := toProviderBox(req.BBox)
	if err := box.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid bbox: "+err.Error())
		return
	}
	window, err := parseWindow(req.DateStart, req.DateEnd)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	stats, err := a.fetchStats(r.Context(), nil, box, window)
	if err != nil {
		a.writeStatsError(w, err)
		return
	}

	fp := terroir.FromStatistics(stats.Indices, req.Soil)
	matches := a.terroir.Match(fp)

	var gaps []terroir.Gap
	if len(matches) > 0 {
		gaps = a.terroir.DetectGaps(fp, matches[0].ID)
	}

	audit, ai := a.narrateTerroir(r.Context(), llm.TerroirAnalysis{
		Fingerprint: fp,
		Matches:     matches,
		Gaps:        gaps,
	})

	writeJSON(w, http.StatusOK, terroirResp{
		Fingerprint: fp,
		Matches:     matches,
		Gaps:        gaps,
		Audit:       audit,
		AIGenerated: ai,
	})
}

func (a *App) narrateTerroir(ctx context.Context, an llm.TerroirAnalysis) (string, bool) {
	if a.narrator != nil {
		nctx, cancel := narrationContext(ctx)
		defer cancel()
		if s, err := a.narrator.TerroirAudit(nctx, an); err == nil {
			narrationsTotal.WithLabelValues("llm").Inc()
			return s, true
		}
	}
	narrationsTotal.WithLabelValues("fallback").Inc()
	return llm.FallbackTerroirAudit(an), false
}
