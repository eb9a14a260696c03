package main

import "net/http"

// handleAIStatus reports whether the narration backend is reachable and
// which models it has pulled. The scoring path never depends on it.
func (a *App) handleAIStatus(w http.ResponseWriter, r *http.Request) {
	resp := aiStatusResp{
		Endpoint: a.cfg.OllamaURL,
		Model:    a.cfg.OllamaModel,
	}
	if a.narrator != nil && a.narrator.Available(r.Context()) {
		resp.Available = true
		if models, err := a.narrator.Models(r.Context()); err == nil {
			resp.Models = models
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
