package analytics

import (
	"errors"
	"math"
	"sort"

	"gaiaeye/cluster"
)

// ErrInsufficientData marks a computation that had too few valid samples
// to produce a meaningful result.
var ErrInsufficientData = errors.New("insufficient data")

// Zone is one homogeneous sub-region found by the clustering step,
// labelled with the health and risk classification derived here.
type Zone struct {
	ZoneID      int     `json:"zone_id" bson:"zone_id"`
	AreaPercent float64 `json:"area_percent" bson:"area_percent"`
	AvgNDVI     float64 `json:"avg_ndvi" bson:"avg_ndvi"`
	StdNDVI     float64 `json:"std_ndvi" bson:"std_ndvi"`
	Health      string  `json:"health_status" bson:"health_status"`
	Risk        string  `json:"risk_level" bson:"risk_level"`
	PixelCount  int     `json:"pixel_count" bson:"pixel_count"`
}

// ZoneAnalysis is the zone segmentation result, zones ordered best first.
type ZoneAnalysis struct {
	Zones       []Zone `json:"zones" bson:"zones"`
	NZones      int    `json:"n_zones" bson:"n_zones"`
	TotalPixels int    `json:"total_pixels" bson:"total_pixels"`
}

// SegmentZones partitions a per-pixel NDVI population into k homogeneous
// zones. The partitioning itself is delegated to the Clusterer; this side
// only supplies the feature vectors and labels the clusters with the
// health/risk classification. NaN samples are dropped before clustering.
func SegmentZones(ndvi []float64, k int, c cluster.Clusterer) (ZoneAnalysis, error) {
	valid := make([]float64, 0, len(ndvi))
	for _, v := range ndvi {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	if len(valid) < k {
		return ZoneAnalysis{}, ErrInsufficientData
	}

	features := make([][]float64, len(valid))
	for i, v := range valid {
		features[i] = []float64{v}
	}
	labels, err := c.Partition(features, k)
	if err != nil {
		return ZoneAnalysis{}, err
	}

	groups := make(map[int][]float64, k)
	for i, label := range labels {
		groups[label] = append(groups[label], valid[i])
	}

	zones := make([]Zone, 0, k)
	for label := 0; label < k; label++ {
		members := groups[label]
		if len(members) == 0 {
			continue
		}
		summary := Describe(members)
		zones = append(zones, Zone{
			ZoneID:      label + 1,
			AreaPercent: round1(float64(len(members)) / float64(len(valid)) * 100),
			AvgNDVI:     round3(summary.Mean),
			StdNDVI:     round3(summary.Std),
			Health:      ClassifyHealth(summary.Mean),
			Risk:        ClassifyRisk(summary.Mean),
			PixelCount:  len(members),
		})
	}

	sort.Slice(zones, func(i, j int) bool { return zones[i].AvgNDVI > zones[j].AvgNDVI })

	return ZoneAnalysis{Zones: zones, NZones: len(zones), TotalPixels: len(valid)}, nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
