package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gaiaeye/analytics"
)

func f(v float64) *float64 { return &v }

func testBox() BBox {
	return BBox{North: 44.9, South: 44.8, East: -0.5, West: -0.7}
}

func TestBBoxValidate(t *testing.T) {
	cases := []struct {
		name    string
		box     BBox
		wantErr bool
	}{
		{"valid", testBox(), false},
		{"inverted latitude", BBox{North: 10, South: 20, East: 5, West: 0}, true},
		{"inverted longitude", BBox{North: 20, South: 10, East: 0, West: 5}, true},
		{"latitude out of range", BBox{North: 95, South: 10, East: 5, West: 0}, true},
		{"longitude out of range", BBox{North: 20, South: 10, East: 190, West: 0}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.box.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestZonalStatistics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/statistics" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req statisticsReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.North != 44.9 || req.Start != "2026-04-01" {
			http.Error(w, "unexpected payload", http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(Statistics{
			Indices: analytics.ZonalStatistics{
				analytics.StatNDVI: {Mean: f(0.61), Std: f(0.08)},
				analytics.StatNDWI: {Mean: f(0.12)},
			},
			NDVIGrid: [][]float64{{0.6, 0.62}, {0.58, 0.64}},
		})
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL)
	got, err := p.ZonalStatistics(context.Background(), testBox(), Window{Start: "2026-04-01", End: "2026-07-01"})
	if err != nil {
		t.Fatalf("ZonalStatistics: %v", err)
	}
	if mean, ok := got.Indices.Mean(analytics.StatNDVI); !ok || mean != 0.61 {
		t.Errorf("ndvi mean = %v, %v", mean, ok)
	}
	flat := got.FlatNDVI()
	if len(flat) != 4 || flat[3] != 0.64 {
		t.Errorf("flattened grid = %v", flat)
	}
}

func TestUpstreamErrorsAreDataUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no cloud-free imagery for window", http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL)
	_, err := p.ZonalStatistics(context.Background(), testBox(), Window{Start: "2026-01-01", End: "2026-02-01"})
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("err = %v, want ErrDataUnavailable", err)
	}
}

func TestTransportErrorsAreDataUnavailable(t *testing.T) {
	p := NewHTTPProvider("http://127.0.0.1:1")
	_, err := p.ZonalStatistics(context.Background(), testBox(), Window{})
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("err = %v, want ErrDataUnavailable", err)
	}
}

func TestCacheKeyIsStable(t *testing.T) {
	a := cacheKey(testBox(), Window{Start: "2026-04-01", End: "2026-07-01"})
	b := cacheKey(testBox(), Window{Start: "2026-04-01", End: "2026-07-01"})
	c := cacheKey(testBox(), Window{Start: "2026-04-02", End: "2026-07-01"})
	if a != b {
		t.Errorf("same request hashed differently: %s vs %s", a, b)
	}
	if a == c {
		t.Errorf("different windows share a cache key")
	}
}
