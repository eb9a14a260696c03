package main

import (
	"encoding/json"
	"net/http"
	"time"

	"gaiaeye/analytics"
	"gaiaeye/models"
	"gaiaeye/provider"
	"gaiaeye/terroir"
)

// Request/response DTOs. Keep them minimal and explicit.

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResp struct {
	Token string `json:"token"`
}

type createAOIReq struct {
	Name   string      `json:"name"`
	BBox   models.BBox `json:"bbox"`
	AreaHa *float64    `json:"areaHa,omitempty"` // stored under meta.areaHa; computed when absent
	Notes  string      `json:"notes,omitempty"`
	Crop   string      `json:"crop,omitempty"`
	Photo  string      `json:"photo,omitempty"`
}

// analyzeReq is an ad-hoc scoring request. Statistics may be supplied
// inline (pre-computed bag) to skip the provider round trip.
type analyzeReq struct {
	models.BBox
	DateStart  string               `json:"date_start"`
	DateEnd    string               `json:"date_end"`
	Statistics *provider.Statistics `json:"statistics,omitempty"`
}

type analyzeResp struct {
	BBox        models.BBox               `json:"bbox"`
	DateStart   string                    `json:"date_start"`
	DateEnd     string                    `json:"date_end"`
	AreaHa      float64                   `json:"area_ha"`
	Report      analytics.ScoreReport     `json:"report"`
	Raw         analytics.ZonalStatistics `json:"raw_indices,omitempty"`
	Zones       *analytics.ZoneAnalysis   `json:"zones,omitempty"`
	Insight     string                    `json:"insight,omitempty"`
	AIGenerated bool                      `json:"ai_generated"`
}

type terroirReq struct {
	models.BBox
	DateStart string               `json:"date_start"`
	DateEnd   string               `json:"date_end"`
	Soil      *terroir.SoilProfile `json:"soil,omitempty"`
}

type terroirResp struct {
	Fingerprint terroir.Fingerprint `json:"fingerprint"`
	Matches     []terroir.Match     `json:"matches"`
	Gaps        []terroir.Gap       `json:"gaps"`
	Audit       string              `json:"audit,omitempty"`
	AIGenerated bool                `json:"ai_generated"`
}

type dashboardReq struct {
	models.BBox
	DateStart  string  `json:"date_start"`
	DateEnd    string  `json:"date_end"`
	CropType   string  `json:"crop_type,omitempty"`
	InputCosts float64 `json:"input_costs,omitempty"` // per hectare
}

type dashboardResp struct {
	AreaHa          float64               `json:"area_ha"`
	Report          analytics.ScoreReport `json:"report"`
	Economics       *Economics            `json:"economics,omitempty"`
	Recommendations []string              `json:"recommendations"`
	AIGenerated     bool                  `json:"ai_generated"`
}

type aiStatusResp struct {
	Available bool     `json:"available"`
	Endpoint  string   `json:"endpoint"`
	Model     string   `json:"model"`
	Models    []string `json:"models,omitempty"`
}

type errorResp struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, errorResp{Error: msg, Kind: kind})
}

// parseWindow validates the date pair and applies the default window
// (last 90 days) when both are empty.
func parseWindow(start, end string) (provider.Window, error) {
	if start == "" && end == "" {
		now := time.Now().UTC()
		return provider.Window{
			Start: now.AddDate(0, 0, -90).Format("2006-01-02"),
			End:   now.Format("2006-01-02"),
		}, nil
	}
	w := provider.Window{Start: start, End: end}
	return w, w.Validate()
}

// toProviderBox converts the stored bbox form for provider calls.
func toProviderBox(b models.BBox) provider.BBox {
	return provider.BBox{North: b.North, South: b.South, East: b.East, West: b.West}
}
