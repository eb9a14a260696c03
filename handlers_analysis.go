package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gaiaeye/analytics"
	"gaiaeye/llm"
	"gaiaeye/models"
	"gaiaeye/provider"

	"github.com/go-chi/chi/v5"
)

// scored bundles everything one scoring run produces.
type scored struct {
	areaHa  float64
	report  analytics.ScoreReport
	raw     analytics.ZonalStatistics
	zones   *analytics.ZoneAnalysis
	insight string
	ai      bool
}

// score runs the engine over one statistics bag: composite scores,
// zoning from the NDVI grid, and a narrated insight (LLM when reachable,
// rule-based otherwise).
func (a *App) score(ctx context.Context, box provider.BBox, stats *provider.Statistics, trend *analytics.TrendAnalysis) scored {
	samples := stats.FlatNDVI()
	report := a.engine.ScoreObservation(analytics.Observation{
		Stats:       stats.Indices,
		NDVISamples: samples,
		Trend:       trend,
	})

	var zones *analytics.ZoneAnalysis
	if za, err := analytics.SegmentZones(samples, a.cfg.ZoneCount, a.clusterer); err == nil {
		zones = &za
	}

	out := scored{
		areaHa: round2(areaHectares(box)),
		report: report,
		raw:    stats.Indices,
		zones:  zones,
	}

	an := llm.Analysis{
		AreaHectares: out.areaHa,
		Report:       report,
		Raw:          stats.Indices,
		Trend:        trend,
	}
	if zones != nil {
		an.Zones = zones.Zones
	}
	out.insight, out.ai = a.narrateInsight(ctx, an)
	return out
}

func (a *App) narrateInsight(ctx context.Context, an llm.Analysis) (string, bool) {
	if a.narrator != nil {
		nctx, cancel := narrationContext(ctx)
		defer cancel()
		if s, err := a.narrator.Insight(nctx, an); err == nil {
			narrationsTotal.WithLabelValues("llm").Inc()
			return s, true
		}
	}
	narrationsTotal.WithLabelValues("fallback").Inc()
	return llm.FallbackInsight(an), false
}

func (a *App) narrateDetailed(ctx context.Context, an llm.Analysis) (string, bool) {
	if a.narrator != nil {
		nctx, cancel := narrationContext(ctx)
		defer cancel()
		if s, err := a.narrator.DetailedReport(nctx, an); err == nil {
			narrationsTotal.WithLabelValues("llm").Inc()
			return s, true
		}
	}
	narrationsTotal.WithLabelValues("fallback").Inc()
	return llm.FallbackDetailedReport(an), false
}

// fetchStats resolves the statistics bag for a request, preferring an
// inline bag over a provider round trip.
func (a *App) fetchStats(ctx context.Context, inline *provider.Statistics, box provider.BBox, window provider.Window) (*provider.Statistics, error) {
	if inline != nil {
		if inline.Indices == nil {
			inline.Indices = analytics.ZonalStatistics{}
		}
		return inline, nil
	}
	return a.stats.ZonalStatistics(ctx, box, window)
}

// handleAnalyze scores an arbitrary drawn region. No account or saved
// AOI needed; nothing is persisted.
func (a *App) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeReq
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

	stats, err := a.fetchStats(r.Context(), req.Statistics, box, window)
	if err != nil {
		a.writeStatsError(w, err)
		return
	}

	res := a.score(r.Context(), box, stats, nil)
	analysesTotal.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, analyzeResp{
		BBox:        req.BBox,
		DateStart:   window.Start,
		DateEnd:     window.End,
		AreaHa:      res.areaHa,
		Report:      res.report,
		Raw:         res.raw,
		Zones:       res.zones,
		Insight:     res.insight,
		AIGenerated: res.ai,
	})
}

// handleAOIAnalysis scores a saved AOI, folds in the NDVI trend across
// its stored reports, and persists the result as a new report.
func (a *App) handleAOIAnalysis(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "bad id")
		return
	}

	var req struct {
		DateStart string `json:"date_start"`
		DateEnd   string `json:"date_end"`
	}
	// An empty body means "default window".
	_ = json.NewDecoder(r.Body).Decode(&req)
	window, err := parseWindow(req.DateStart, req.DateEnd)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 90*time.Second)
	defer cancel()

	var aoi models.AOI
	if err := a.aois.FindOne(ctx, bson.M{"_id": oid, "ownerId": uid}).Decode(&aoi); err != nil {
		writeError(w, http.StatusNotFound, "not_found", "aoi not found")
		return
	}
	box := toProviderBox(aoi.BBox)

	stats, err := a.fetchStats(ctx, nil, box, window)
	if err != nil {
		a.writeStatsError(w, err)
		return
	}

	trend := a.aoiTrend(ctx, oid, stats)
	res := a.score(ctx, box, stats, trend)

	an := llm.Analysis{
		AreaHectares: res.areaHa,
		Report:       res.report,
		Raw:          res.raw,
		Trend:        trend,
	}
	if res.zones != nil {
		an.Zones = res.zones.Zones
	}
	detailed, detailedAI := a.narrateDetailed(ctx, an)

	doc := models.AnalysisReport{
		OwnerID:        uid,
		AOIID:          oid,
		BBox:           aoi.BBox,
		DateStart:      window.Start,
		DateEnd:        window.End,
		CreatedAt:      time.Now(),
		AreaHa:         res.areaHa,
		Report:         res.report,
		Raw:            res.raw,
		Trend:          trend,
		Insight:        res.insight,
		DetailedReport: detailed,
		AIGenerated:    res.ai && detailedAI,
	}
	if res.zones != nil {
		doc.Zones = res.zones.Zones
	}

	ins, err := a.reports.InsertOne(ctx, &doc)
	if err != nil {
		analysesTotal.WithLabelValues("error").Inc()
		writeError(w, http.StatusInternalServerError, "db_error", "db error")
		return
	}
	doc.ID = ins.InsertedID.(primitive.ObjectID)
	analysesTotal.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, doc)
}

// handleComparePeriods scores the same region over two windows and
// reports per-index deltas.
func (a *App) handleComparePeriods(w http.ResponseWriter, r *http.Request) {
	var req struct {
		models.BBox
		Current  provider.Window `json:"current"`
		Previous provider.Window `json:"previous"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "bad json")
		return
	}
	box := toProviderBox(req.BBox)
	if err := box.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid bbox: "+err.Error())
		return
	}
	for _, win := range []provider.Window{req.Current, req.Previous} {
		if err := win.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
	}

	current, err := a.stats.ZonalStatistics(r.Context(), box, req.Current)
	if err != nil {
		a.writeStatsError(w, err)
		return
	}
	previous, err := a.stats.ZonalStatistics(r.Context(), box, req.Previous)
	if err != nil {
		a.writeStatsError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"current":  req.Current,
		"previous": req.Previous,
		"changes":  analytics.ComparePeriods(meansOf(current.Indices), meansOf(previous.Indices)),
	})
}

func meansOf(stats analytics.ZonalStatistics) map[string]float64 {
	out := make(map[string]float64, len(stats))
	for key := range stats {
		if mean, ok := stats.Mean(key); ok {
			out[key] = mean
		}
	}
	return out
}

// handleListReports returns an AOI's stored reports, newest first.
func (a *App) handleListReports(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "bad id")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	cur, err := a.reports.Find(ctx,
		bson.M{"aoiId": oid, "ownerId": uid},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(50),
	)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error", "db error")
		return
	}
	defer cur.Close(ctx)

	out := []models.AnalysisReport{}
	if err := cur.All(ctx, &out); err != nil {
		writeError(w, http.StatusInternalServerError, "db_error", "decode error")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// aoiTrend rebuilds the NDVI time series from the AOI's stored reports
// plus the current bag, then fits a trend. Under three observations the
// result is the insufficient-data marker and is not worth storing.
func (a *App) aoiTrend(ctx context.Context, aoiID primitive.ObjectID, current *provider.Statistics) *analytics.TrendAnalysis {
	cur, err := a.reports.Find(ctx,
		bson.M{"aoiId": aoiID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}).SetLimit(100),
	)
	if err != nil {
		return nil
	}
	defer cur.Close(ctx)

	var history []models.AnalysisReport
	if err := cur.All(ctx, &history); err != nil {
		return nil
	}

	points := make([]analytics.TrendPoint, 0, len(history)+1)
	for _, h := range history {
		if mean, ok := h.Raw.Mean(analytics.StatNDVI); ok {
			points = append(points, analytics.TrendPoint{Date: h.CreatedAt, Value: mean})
		}
	}
	if mean, ok := current.Indices.Mean(analytics.StatNDVI); ok {
		points = append(points, analytics.TrendPoint{Date: time.Now(), Value: mean})
	}

	trend := analytics.AnalyzeTrend(points)
	if trend.Trend == analytics.TrendInsufficientData {
		return nil
	}
	return &trend
}

func (a *App) writeStatsError(w http.ResponseWriter, err error) {
	if errors.Is(err, provider.ErrDataUnavailable) {
		analysesTotal.WithLabelValues("data_unavailable").Inc()
		writeError(w, http.StatusBadGateway, "data_unavailable", err.Error())
		return
	}
	analysesTotal.WithLabelValues("error").Inc()
	writeError(w, http.StatusInternalServerError, "internal", err.Error())
}
