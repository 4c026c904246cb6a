package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	{ // Faces spread over workers with at most one face of imbalance
		sizes := func(K, Np int) (min, max, total int) {
			pm := NewPartitionMap(Np, K)
			min = K
			for n := 0; n < pm.ParallelDegree; n++ {
				kMin, kMax := pm.GetBucketRange(n)
				size := kMax - kMin
				if size < min {
					min = size
				}
				if size > max {
					max = size
				}
				total += size
			}
			return
		}
		for _, c := range [][2]int{{2, 32}, {32, 32}, {287, 32}, {7, 3}, {1, 1}} {
			min, max, total := sizes(c[0], c[1])
			assert.Equal(t, c[0], total, "%v", c)
			assert.LessOrEqual(t, max-min, 1, "%v", c)
		}
	}
	{ // Buckets tile the index range in order
		pm := NewPartitionMap(3, 7)
		assert.Equal(t, [][2]int{{0, 3}, {3, 5}, {5, 7}}, pm.Partitions)
	}
	{ // Worker count
		assert.Equal(t, 3, ParallelDegree(8, 3))
		assert.Equal(t, 2, ParallelDegree(2, 100))
		assert.Equal(t, 1, ParallelDegree(4, 0))
		assert.LessOrEqual(t, ParallelDegree(0, 5), 5)
	}
}
