package brep

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func assertVec(t *testing.T, want, got r3.Vec) {
	t.Helper()
	assert.InDelta(t, 0., r3.Norm(r3.Sub(want, got)), 1.e-12, "want %v got %v", want, got)
}

func TestSurfaces(t *testing.T) {
	f := DefaultFrame()
	assertVec(t, r3.Vec{X: 2, Y: 3}, (&Plane{Frame: f}).Value(r2.Vec{X: 2, Y: 3}))
	assertVec(t, r3.Vec{Y: 2, Z: 5}, (&Cylinder{Frame: f, Radius: 2}).Value(r2.Vec{X: math.Pi / 2, Y: 5}))
	assertVec(t, r3.Vec{Z: 3}, (&Sphere{Frame: f, Radius: 3}).Value(r2.Vec{X: 1, Y: math.Pi / 2}))
	assertVec(t, r3.Vec{X: 5}, (&Torus{Frame: f, MajorRadius: 4, MinorRadius: 1}).Value(r2.Vec{}))

	cone := &Cone{Frame: f, RefRadius: 1, SemiAngle: math.Pi / 4}
	apex := cone.Value(r2.Vec{X: 0.3, Y: cone.ApexV()})
	assert.InDelta(t, 0., cone.RadiusAt(cone.ApexV()), 1.e-12)
	assert.InDelta(t, 0., math.Hypot(apex.X, apex.Y), 1.e-12)
	assert.InDelta(t, -1., apex.Z, 1.e-12)

	sf := SurfaceFunc(func(uv r2.Vec) r3.Vec { return r3.Vec{X: uv.X, Y: uv.Y, Z: uv.X * uv.Y} })
	assert.Equal(t, GeneralSurface, sf.Kind())
	assert.Equal(t, "cone", ConeSurface.String())

	fr := NewFrame(r3.Vec{}, r3.Vec{Z: 2}, r3.Vec{X: 1, Z: 1})
	assertVec(t, r3.Vec{X: 1}, fr.XDir)
	assertVec(t, r3.Vec{Y: 1}, fr.YDir)
}

func TestEstimateLengths(t *testing.T) {
	cyl := &Cylinder{Frame: DefaultFrame(), Radius: 1}
	lu, lv := EstimateLengths(cyl, r2.Box{Max: r2.Vec{X: 2 * math.Pi, Y: 3}})
	assert.InDelta(t, 2*math.Pi, lu, 0.1)
	assert.InDelta(t, 3., lv, 1.e-12)
}

func TestPolygonFace(t *testing.T) {
	plane := &Plane{Frame: DefaultFrame()}
	f := NewPolygonFace(1, plane, []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}})
	f.AddPolygonHole([]r2.Vec{{X: 0.4, Y: 0.4}, {X: 0.4, Y: 0.6}, {X: 0.6, Y: 0.6}, {X: 0.6, Y: 0.4}})
	m := NewModel(f)
	require.Len(t, m.Edges, 8)
	assert.Equal(t, 7, m.Edges[7].ID)
	assert.Empty(t, f.SeamEdges())
	_, isSeg := m.Edges[0].Curve.(*Segment3D)
	assert.True(t, isSeg)
	assert.Equal(t, f, m.Edges[0].CoEdges[0].Face)
	assert.Equal(t, r2.Box{Max: r2.Vec{X: 1, Y: 1}}, f.Domain())
	assert.Equal(t, f, m.Face(1))
	assert.Nil(t, m.Face(2))
}

func TestPeriodicPatch(t *testing.T) {
	{ // Cone with the apex at vMin
		cone := &Cone{Frame: DefaultFrame(), RefRadius: 1, SemiAngle: math.Pi / 6}
		f := NewPeriodicPatchFace(3, cone, 0, 2*math.Pi, cone.ApexV(), 0)
		m := NewModel(f)
		seams := f.SeamEdges()
		require.Len(t, seams, 1)
		assert.Len(t, f.CoEdgesOf(seams[0]), 2)
		assert.Len(t, m.Edges, 3)
		assert.True(t, f.Wires[0].CoEdges[0].Edge.Degenerated)
		assert.False(t, f.Wires[0].CoEdges[2].Edge.Degenerated)
		assert.Len(t, seams[0].CoEdges, 2)
	}
	{ // Cylinder boundary rows are circles
		cyl := &Cylinder{Frame: DefaultFrame(), Radius: 2}
		f := NewPeriodicPatchFace(4, cyl, 0, 2*math.Pi, 0, 1)
		c, ok := f.Wires[0].CoEdges[2].Edge.Curve.(*Circle3D)
		require.True(t, ok)
		assertVec(t, cyl.Value(r2.Vec{X: 1, Y: 1}), c.Value(1))
	}
}

func TestDiscreteCurves(t *testing.T) {
	pc := &PCurve{}
	pc.Append(r2.Vec{X: 0}, 0)
	pc.Append(r2.Vec{X: 1}, 1)
	pc.InsertPoint(1, r2.Vec{X: 0.5}, 0.5)
	assert.Equal(t, 3, pc.PointCount())
	assert.Equal(t, 0.5, pc.Parameter(1))
	assert.Equal(t, r2.Vec{X: 1}, pc.Point(2))
	pc.Reset()
	assert.Equal(t, 0, pc.PointCount())

	poly := &Polygon3D{Params: []float64{0, 1}, Points: []r3.Vec{{}, {X: 1}}}
	poly.InsertPoint(1, r3.Vec{X: 0.5}, 0.5)
	assert.Equal(t, []float64{0, 0.5, 1}, poly.Params)
	var none *Polygon3D
	assert.Equal(t, 0, none.PointCount())

	tr := &Triangulation{Nodes: make([]r3.Vec, 3), Triangles: [][3]int{{0, 1, 2}}}
	assert.True(t, tr.IndicesInRange())
	tr.Triangles = append(tr.Triangles, [3]int{0, 1, 3})
	assert.False(t, tr.IndicesInRange())
}
