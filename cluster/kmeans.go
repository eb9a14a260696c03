package cluster

import (
	"fmt"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// KMeans partitions feature vectors with Lloyd's algorithm.
type KMeans struct{}

// NewKMeans returns the default K-means clusterer.
func NewKMeans() *KMeans { return &KMeans{} }

// Partition clusters the feature vectors into k groups and maps every
// vector to the nearest resulting centroid.
func (c *KMeans) Partition(features [][]float64, k int) ([]int, error) {
	if len(features) < k {
		return nil, fmt.Errorf("kmeans: %d observations for %d clusters", len(features), k)
	}

	obs := make(clusters.Observations, len(features))
	for i, f := range features {
		obs[i] = clusters.Coordinates(f)
	}

	km := kmeans.New()
	partitions, err := km.Partition(obs, k)
	if err != nil {
		return nil, fmt.Errorf("kmeans partition: %w", err)
	}

	labels := make([]int, len(features))
	for i, f := range features {
		labels[i] = partitions.Nearest(clusters.Coordinates(f))
	}
	return labels, nil
}
