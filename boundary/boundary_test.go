package boundary

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gotess/brep"
	"github.com/notargets/gotess/geometry2D"
	"github.com/notargets/gotess/types"
	"github.com/notargets/gotess/vertexindex"
)

func setup(t *testing.T, f *brep.Face, deflection, angle float64) (*geometry2D.Normalizer, *vertexindex.Pool) {
	m := brep.NewModel(f)
	for _, e := range m.Edges {
		DiscretizeEdge(e, deflection, angle)
	}
	box := f.Domain()
	lu, lv := brep.EstimateLengths(f.Surface, box)
	nm, err := geometry2D.NewNormalizer(box, 1.e-6, lu, lv)
	require.NoError(t, err)
	return nm, vertexindex.NewPool(nm.TolU, nm.TolV, 0)
}

func square(x0, y0, x1, y1 float64) []r2.Vec {
	return []r2.Vec{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

func TestDiscretizeSquare(t *testing.T) {
	plane := &brep.Plane{Frame: brep.DefaultFrame()}
	f := brep.NewPolygonFace(1, plane, square(0, 0, 2, 2))
	f.AddPolygonHole(square(0.5, 0.5, 1, 1))
	nm, pool := setup(t, f, 0.5, 0.5)
	res, err := Discretize(f, nm, pool)
	require.NoError(t, err)
	require.Len(t, res.Wires, 2)
	assert.Equal(t, types.Outer, res.Wires[0].Kind)
	assert.Equal(t, types.Hole, res.Wires[1].Kind)
	assert.Len(t, res.Wires[0].Nodes, 4)
	assert.Len(t, res.Segments, 8)
	assert.Equal(t, 8, pool.Len())
	assert.Greater(t, res.Wires[0].Area, 0.)
	for _, v := range pool.Vertices {
		assert.Equal(t, types.Fixed, v.Movability)
		assert.GreaterOrEqual(t, v.Location3D, 0)
	}
	// Working frame maps the outer square onto the unit square
	assert.InDelta(t, 1., pool.Extents().Max.X, 1.e-12)
	// The 3D back reference of the second corner
	assert.Equal(t, r3.Vec{X: 2}, pool.Nodes3D[pool.Vertices[res.Wires[0].Nodes[1]].Location3D])
	lines := res.Polylines(pool)
	assert.Len(t, lines, 2)

	// Rediscretizing merges with the pooled vertices
	res2, err := Discretize(f, nm, pool)
	require.NoError(t, err)
	assert.Equal(t, res.Wires[0].Nodes, res2.Wires[0].Nodes)
	assert.Equal(t, 8, pool.Len())
}

func TestDiscretizeBadWires(t *testing.T) {
	plane := &brep.Plane{Frame: brep.DefaultFrame()}
	{ // A bow tie hole is kept but not used
		f := brep.NewPolygonFace(1, plane, square(0, 0, 4, 4))
		f.AddPolygonHole([]r2.Vec{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 2, Y: 1}, {X: 1, Y: 2}})
		nm, pool := setup(t, f, 1, 0.5)
		res, err := Discretize(f, nm, pool)
		require.NoError(t, err)
		assert.Equal(t, types.SelfIntersecting, res.Wires[1].Kind)
		assert.False(t, res.Wires[1].Used)
		assert.Len(t, res.Segments, 4)
		assert.Len(t, res.Polylines(pool), 1)
	}
	{ // An open inner wire is skipped
		f := brep.NewPolygonFace(1, plane, square(0, 0, 4, 4))
		f.AddPolygonHole(square(1, 1, 2, 2))
		f.Wires[1].CoEdges = f.Wires[1].CoEdges[:3]
		nm, pool := setup(t, f, 1, 0.5)
		res, err := Discretize(f, nm, pool)
		require.NoError(t, err)
		assert.Equal(t, types.Open, res.Wires[1].Kind)
		assert.False(t, res.Wires[1].Used)
	}
	{ // An open outer wire is closed by an implied segment
		f := brep.NewPolygonFace(1, plane, square(0, 0, 4, 4))
		f.Wires[0].CoEdges = f.Wires[0].CoEdges[:3]
		nm, pool := setup(t, f, 1, 0.5)
		res, err := Discretize(f, nm, pool)
		require.NoError(t, err)
		assert.Equal(t, types.Open, res.Wires[0].Kind)
		assert.True(t, res.Wires[0].Used)
		assert.Len(t, res.Segments, 4)
	}
	{ // Degenerate outer wire and missing surface are invalid input
		f := brep.NewPolygonFace(1, plane, []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 1}})
		nm, pool := setup(t, f, 1, 0.5)
		_, err := Discretize(f, nm, pool)
		assert.ErrorIs(t, err, types.ErrInvalidInput)
		f.Surface = nil
		_, err = Discretize(f, nm, pool)
		assert.ErrorIs(t, err, types.ErrInvalidInput)
	}
}

func TestDiscretizeCurves(t *testing.T) {
	{ // A full circle meets the chord height bound
		c := &brep.Circle3D{Frame: brep.DefaultFrame(), Radius: 1, T0: 0, T1: 2 * math.Pi}
		defl := 0.01
		params := AdaptiveParams(c, c.T0, c.T1, defl, 1, DefaultRefineOptions)
		assert.Greater(t, len(params), 8)
		for i := 1; i < len(params); i++ {
			dt := params[i] - params[i-1]
			assert.LessOrEqual(t, 1-math.Cos(dt/2), defl+1.e-12)
		}
		assert.Equal(t, 2*math.Pi, params[len(params)-1])
	}
	{ // A line needs no interior points
		s := &brep.Segment3D{Start: r3.Vec{}, End: r3.Vec{X: 3}}
		assert.Equal(t, []float64{0, 1}, AdaptiveParams(s, 0, 1, 0.01, 0.1, DefaultRefineOptions))
	}
	{ // Cone patch: the apex row is degenerated and sampled by angle
		cone := &brep.Cone{Frame: brep.DefaultFrame(), RefRadius: 1, SemiAngle: math.Pi / 6}
		f := brep.NewPeriodicPatchFace(2, cone, 0, 2*math.Pi, cone.ApexV(), 0)
		nm, pool := setup(t, f, 0.05, 0.5)
		apex := f.Wires[0].CoEdges[0]
		assert.Equal(t, 14, apex.Edge.Polygon.PointCount())
		seam := f.Wires[0].CoEdges[1]
		assert.Equal(t, 2, seam.PCurve.PointCount())
		res, err := Discretize(f, nm, pool)
		require.NoError(t, err)
		assert.Equal(t, types.Outer, res.Wires[0].Kind)
		// Both seam sides are distinct in parameter space: the apex row, the far seam end, then the top row
		top := f.Wires[0].CoEdges[2].PCurve.PointCount()
		assert.Len(t, res.Wires[0].Nodes, 14+1+(top-1))
	}
}
