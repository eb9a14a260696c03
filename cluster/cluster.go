// Package cluster is the narrow seam to the spatial clustering routine.
// The scoring side only ever supplies feature vectors and consumes labels,
// so tests never need a real partitioning run.
package cluster

// Clusterer partitions feature vectors into k groups and returns one label
// in [0,k) per input vector, in input order.
type Clusterer interface {
	Partition(features [][]float64, k int) ([]int, error)
}
