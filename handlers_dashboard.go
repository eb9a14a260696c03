package main

import (
	"encoding/json"
	"net/http"

	"gaiaeye/analytics"
	"gaiaeye/llm"
)

// handleDashboard is the single-call farmer view: scores, economics
// projection and a prioritized action list for one region.
func (a *App) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var req dashboardReq
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

	res := a.score(r.Context(), box, stats, nil)
	analysesTotal.WithLabelValues("ok").Inc()

	// Economics needs a known productivity score; without one the
	// projection would be fiction.
	var econ *Economics
	if res.report.Scores.Productivity != analytics.ScoreUnknown {
		e := estimateEconomics(req.CropType, res.report.Scores.Productivity, req.InputCosts, res.areaHa)
		econ = &e
	}

	an := llm.Analysis{AreaHectares: res.areaHa, Report: res.report, Raw: res.raw}
	recs := res.report.Recommendations
	ai := false
	if a.narrator != nil {
		nctx, cancel := narrationContext(r.Context())
		defer cancel()
		if got, err := a.narrator.Recommendations(nctx, an); err == nil {
			recs, ai = got, true
			narrationsTotal.WithLabelValues("llm").Inc()
		} else {
			narrationsTotal.WithLabelValues("fallback").Inc()
		}
	}

	writeJSON(w, http.StatusOK, dashboardResp{
		AreaHa:          res.areaHa,
		Report:          res.report,
		Economics:       econ,
		Recommendations: recs,
		AIGenerated:     ai,
	})
}
