package vertexindex

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gotess/types"
)

func TestPoolMerge(t *testing.T) {
	var (
		tol = 1.e-3
		p   = NewPool(tol, tol, 0)
		pt  = r3.Vec{X: 1, Y: 2, Z: 3}
	)
	i1, isNew, err := p.Add(Vertex{UV: r2.Vec{X: 0.5, Y: 0.5}}, &pt)
	require.NoError(t, err)
	assert.True(t, isNew)
	// Same point twice, and a point within tolerance, resolve to the same index
	i2, isNew, err := p.Add(Vertex{UV: r2.Vec{X: 0.5, Y: 0.5}}, &pt)
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, i1, i2)
	i3, _, _ := p.Add(Vertex{UV: r2.Vec{X: 0.5 + 0.7*tol, Y: 0.5 - 0.7*tol}, Movability: types.Fixed}, nil)
	assert.Equal(t, i1, i3)
	assert.Equal(t, types.Fixed, p.Vertices[i1].Movability)
	assert.Equal(t, 1, p.Len())
	assert.Len(t, p.Nodes3D, 1)

	// Outside tolerance is a new vertex, and the extents follow
	i4, isNew, _ := p.Add(Vertex{UV: r2.Vec{X: 0.5 + 2*tol, Y: 0.5}}, nil)
	assert.True(t, isNew)
	assert.NotEqual(t, i1, i4)
	assert.Equal(t, -1, p.Vertices[i4].Location3D)
	assert.InDelta(t, 0.5+2*tol, p.Extents().Max.X, 1.e-15)

	// A later 3D point attaches to a merged helper-free vertex
	p.Add(Vertex{UV: r2.Vec{X: 0.5 + 2*tol, Y: 0.5}}, &pt)
	assert.Equal(t, 1, p.Vertices[i4].Location3D)
	assert.Equal(t, 2, p.Len())
}

func TestPoolCap(t *testing.T) {
	p := NewPool(0.01, 0.01, 14)
	p.MaxVertices = 2
	p.Add(Vertex{UV: r2.Vec{X: 0, Y: 0}}, nil)
	p.Add(Vertex{UV: r2.Vec{X: 1, Y: 0}}, nil)
	_, _, err := p.Add(Vertex{UV: r2.Vec{X: 2, Y: 0}}, nil)
	assert.ErrorIs(t, err, types.ErrResourceExhausted)
	// A merge never counts against the cap
	i, _, err := p.Add(Vertex{UV: r2.Vec{X: 1, Y: 0}}, nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, i)
}

func TestQueryRadius(t *testing.T) {
	var (
		tol = 1.e-3
		p   = NewPool(tol, tol, 14)
		rnd = rand.New(rand.NewSource(7))
	)
	for i := 0; i < 2000; i++ {
		p.Add(Vertex{UV: r2.Vec{X: rnd.Float64(), Y: rnd.Float64()}}, nil)
	}
	for _, r := range []float64{0.001, 0.02, 0.3, 5} {
		for k := 0; k < 20; k++ {
			q := r2.Vec{X: rnd.Float64(), Y: rnd.Float64()}
			got := make(map[int]bool)
			for _, i := range p.QueryRadius(q, r) {
				got[i] = true
			}
			// No false negatives against a brute force scan
			for i, v := range p.Vertices {
				if r2.Norm(r2.Sub(v.UV, q)) <= r {
					assert.True(t, got[i], "radius %g missed %d", r, i)
				}
			}
			for _, i := range p.WithinRadius(q, r) {
				assert.LessOrEqual(t, r2.Norm(r2.Sub(p.Vertices[i].UV, q)), r)
			}
		}
	}
}

func TestCompact(t *testing.T) {
	p := NewPool(0.01, 0.01, 14)
	a3 := r3.Vec{X: 1}
	c3 := r3.Vec{Z: 1}
	p.Add(Vertex{UV: r2.Vec{X: 0, Y: 0}}, &a3)
	p.Add(Vertex{UV: r2.Vec{X: 1, Y: 0}}, nil)
	p.Add(Vertex{UV: r2.Vec{X: 2, Y: 0}}, &c3)
	h := p.AddHelper(r2.Vec{X: 100, Y: 100})
	assert.Equal(t, 3, h)
	remap := p.Compact([]bool{true, false, true, false})
	assert.Equal(t, []int{0, -1, 1, -1}, remap)
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, c3, p.Nodes3D[p.Vertices[1].Location3D])
	i, found := p.Find(r2.Vec{X: 2, Y: 0})
	assert.True(t, found)
	assert.Equal(t, 1, i)
	assert.Equal(t, r2.Vec{X: 2, Y: 0}, p.Extents().Max)
}
