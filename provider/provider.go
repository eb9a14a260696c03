// Package provider is the client side of the Earth-observation statistics
// service: polygon and time window in, zonal statistics out. The heavy
// lifting (imagery, cloud masking, reduction) happens remotely; this side
// only shuttles JSON and classifies failures.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gaiaeye/analytics"
)

// ErrDataUnavailable marks an upstream failure to produce statistics
// ("no cloud-free imagery", expired credentials, outage). Callers must
// surface it distinctly and never turn it into a fabricated score.
var ErrDataUnavailable = errors.New("statistics data unavailable")

// BBox is the user-drawn region, in degrees.
type BBox struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Validate rejects malformed or inverted boxes.
func (b BBox) Validate() error {
	if b.North < -90 || b.North > 90 || b.South < -90 || b.South > 90 {
		return fmt.Errorf("latitude out of [-90,90]")
	}
	if b.East < -180 || b.East > 180 || b.West < -180 || b.West > 180 {
		return fmt.Errorf("longitude out of [-180,180]")
	}
	if b.North <= b.South {
		return fmt.Errorf("north must be greater than south")
	}
	if b.East <= b.West {
		return fmt.Errorf("east must be greater than west")
	}
	return nil
}

// Window is the analysis date range, "YYYY-MM-DD" inclusive.
type Window struct {
	Start string `json:"date_start"`
	End   string `json:"date_end"`
}

// Validate checks both dates parse and the range is not inverted.
func (w Window) Validate() error {
	start, err := time.Parse("2006-01-02", w.Start)
	if err != nil {
		return fmt.Errorf("date_start: %v", err)
	}
	end, err := time.Parse("2006-01-02", w.End)
	if err != nil {
		return fmt.Errorf("date_end: %v", err)
	}
	if end.Before(start) {
		return fmt.Errorf("date_end precedes date_start")
	}
	return nil
}

// Statistics is one provider response: the flat aggregate bag plus the
// optional per-pixel NDVI grid used for zoning and spatial anomalies.
type Statistics struct {
	Indices  analytics.ZonalStatistics `json:"indices"`
	NDVIGrid [][]float64               `json:"ndvi_grid,omitempty"`
}

// FlatNDVI flattens the grid for sampling and clustering.
func (s Statistics) FlatNDVI() []float64 {
	if len(s.NDVIGrid) == 0 {
		return nil
	}
	flat := make([]float64, 0, len(s.NDVIGrid)*len(s.NDVIGrid[0]))
	for _, row := range s.NDVIGrid {
		flat = append(flat, row...)
	}
	return flat
}

// Provider fetches zonal statistics for a region and window.
type Provider interface {
	ZonalStatistics(ctx context.Context, box BBox, window Window) (*Statistics, error)
}
