package preprocess

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gotess/boundary"
	"github.com/notargets/gotess/brep"
	"github.com/notargets/gotess/types"
)

func meshedSquare(deflection float64) *brep.Face {
	f := brep.NewPolygonFace(3, &brep.Plane{Frame: brep.DefaultFrame()},
		[]r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}})
	f.Triangulation = &brep.Triangulation{
		Nodes:      []r3.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
		Triangles:  [][3]int{{0, 1, 2}, {0, 2, 3}},
		Deflection: deflection,
	}
	return f
}

func TestCheckConsistency(t *testing.T) {
	f := meshedSquare(0.1)
	assert.Equal(t, types.Reused, CheckConsistency(f, 0.1, false))
	assert.Equal(t, types.Reused, CheckConsistency(f, 0.2, false))
	assert.Equal(t, types.Outdated, CheckConsistency(f, 0.05, false))
	assert.Equal(t, types.Reused, CheckConsistency(f, 0.05, true))

	f.Triangulation.Triangles = append(f.Triangulation.Triangles, [3]int{0, 2, 4})
	assert.Equal(t, types.Outdated, CheckConsistency(f, 0.1, false))

	f.Triangulation = nil
	assert.Equal(t, types.Outdated, CheckConsistency(f, 0.1, false))

	rep, err := Process(meshedSquare(0.1), Options{Deflection: 0.1, Angle: 0.5, SeamAmplification: true})
	require.NoError(t, err)
	assert.Equal(t, types.Reused, rep.Status)
	assert.Equal(t, 3, rep.FaceID)
	assert.False(t, rep.Invalidated)

	_, err = Process(&brep.Face{ID: 9}, Options{Deflection: 0.1})
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestAmplifyConeSeam(t *testing.T) {
	var (
		cone = &brep.Cone{Frame: brep.DefaultFrame(), RefRadius: 1, SemiAngle: math.Pi / 6}
		f    = brep.NewPeriodicPatchFace(0, cone, 0, 2*math.Pi, cone.ApexV(), 0)
		m    = brep.NewModel(f)
	)
	for _, e := range m.Edges {
		boundary.DiscretizeEdge(e, 0.01, 0.5)
	}
	seams := f.SeamEdges()
	require.Len(t, seams, 1)
	ces := f.CoEdgesOf(seams[0])
	require.Len(t, ces, 2)
	require.Equal(t, 2, ces[0].PCurve.PointCount())
	require.Equal(t, 2, ces[1].PCurve.PointCount())

	// A previous mesh of the face must not be reused once the seam changes
	f.Triangulation = &brep.Triangulation{
		Nodes:      []r3.Vec{{}, {X: 1}, {Y: 1}},
		Triangles:  [][3]int{{0, 1, 2}},
		Deflection: 0.01,
	}
	rep, err := Process(f, Options{Deflection: 0.01, Angle: 0.5, SeamAmplification: true})
	require.NoError(t, err)
	assert.Greater(t, rep.SeamPoints, 0)
	assert.True(t, rep.Invalidated)
	assert.Equal(t, types.Outdated, rep.Status)
	assert.Equal(t, types.Outdated, f.Status)

	n := rep.SeamPoints + 2
	assert.Equal(t, n, seams[0].Polygon.PointCount())
	for _, ce := range ces {
		require.Equal(t, n, ce.PCurve.PointCount())
		for i := 1; i < n; i++ {
			assert.Greater(t, ce.PCurve.Parameter(i), ce.PCurve.Parameter(i-1))
			assert.Greater(t, ce.PCurve.Point(i).Y, ce.PCurve.Point(i-1).Y)
		}
	}
	assert.Equal(t, ces[0].PCurve.Params, ces[1].PCurve.Params)
	assert.Equal(t, ces[0].PCurve.Params, seams[0].Polygon.Params)

	// Already amplified seams are left alone
	inserted, err := AmplifySeams(f, 0.01, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
}

func TestAmplifySkipsOtherSurfaces(t *testing.T) {
	cyl := &brep.Cylinder{Frame: brep.DefaultFrame(), Radius: 1}
	f := brep.NewPeriodicPatchFace(0, cyl, 0, 2*math.Pi, 0, 1)
	for _, e := range brep.NewModel(f).Edges {
		boundary.DiscretizeEdge(e, 0.01, 0.5)
	}
	inserted, err := AmplifySeams(f, 0.01, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
}
