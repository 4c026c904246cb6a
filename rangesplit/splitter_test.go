package rangesplit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gotess/brep"
)

func fill(sp *Splitter, u0, u1, v0, v1 float64) {
	sp.AddPoint(r2.Vec{X: u0, Y: v0})
	sp.AddPoint(r2.Vec{X: u1, Y: v1})
	sp.AddPoint(r2.Vec{X: 0.5 * (u0 + u1), Y: 0.5 * (v0 + v1)})
}

func TestSplitSteps(t *testing.T) {
	{ // Plane
		sp := New(&brep.Plane{Frame: brep.DefaultFrame()})
		sp.Reset(0.01, 0.5)
		fill(sp, 0, 2, 0, 1)
		stepU, stepV, nU, nV := sp.GetSplitSteps()
		assert.Equal(t, 2., stepU)
		assert.Equal(t, 1., stepV)
		assert.Equal(t, 1, nU)
		assert.Equal(t, 1, nV)
		assert.Empty(t, sp.GenerateNodes())
		assert.Equal(t, brep.PlaneSurface, sp.Kind)
	}
	{ // Cylinder, chord height governs
		sp := New(&brep.Cylinder{Frame: brep.DefaultFrame(), Radius: 1})
		sp.Reset(0.01, 0.5)
		fill(sp, 0, 2*math.Pi, 0, 1)
		stepU, stepV, nU, nV := sp.GetSplitSteps()
		assert.InDelta(t, 2*math.Acos(0.99), stepU, 1.e-12)
		assert.InDelta(t, stepU, stepV, 1.e-12)
		assert.Equal(t, int(math.Ceil(2*math.Pi/stepU)), nU)
		assert.Equal(t, int(math.Ceil(1/stepV)), nV)
		nodes := sp.GenerateNodes()
		assert.Equal(t, (nU-1)*(nV-1), len(nodes))
		for _, p := range nodes {
			assert.True(t, p.X > 0 && p.X < 2*math.Pi && p.Y > 0 && p.Y < 1)
		}
	}
	{ // Cylinder, angle cap governs
		sp := New(&brep.Cylinder{Frame: brep.DefaultFrame(), Radius: 1})
		sp.Reset(0.5, 0.5)
		fill(sp, 0, math.Pi, 0, 1)
		stepU, _, nU, _ := sp.GetSplitSteps()
		assert.Equal(t, 0.5, stepU)
		assert.Equal(t, 7, nU)
	}
	{ // Cone, generator step follows the widest circle
		cone := &brep.Cone{Frame: brep.DefaultFrame(), RefRadius: 1, SemiAngle: math.Pi / 6}
		sp := New(cone)
		sp.Reset(0.01, 0.5)
		fill(sp, 0, 2*math.Pi, cone.ApexV(), 0)
		stepU, stepV, _, nV := sp.GetSplitSteps()
		assert.InDelta(t, 2*math.Acos(0.99), stepU, 1.e-12)
		assert.InDelta(t, stepU/math.Cos(math.Pi/6), stepV, 1.e-12)
		assert.Equal(t, int(math.Ceil(2/stepV)), nV)
	}
	{ // Sphere and torus
		sp := New(&brep.Sphere{Frame: brep.DefaultFrame(), Radius: 2})
		sp.Reset(0.01, 0.5)
		fill(sp, 0, 2*math.Pi, -math.Pi/2, math.Pi/2)
		stepU, stepV, _, _ := sp.GetSplitSteps()
		assert.InDelta(t, 2*math.Acos(1-0.01/2), stepU, 1.e-12)
		assert.Equal(t, stepU, stepV)

		sp = New(&brep.Torus{Frame: brep.DefaultFrame(), MajorRadius: 3, MinorRadius: 1})
		sp.Reset(0.01, 0.5)
		fill(sp, 0, 2*math.Pi, 0, 2*math.Pi)
		stepU, stepV, _, _ = sp.GetSplitSteps()
		assert.InDelta(t, 2*math.Acos(1-0.01/4), stepU, 1.e-12)
		assert.InDelta(t, 2*math.Acos(0.99), stepV, 1.e-12)
	}
}

func TestGeneralSurfaceSteps(t *testing.T) {
	{ // Flat surface needs no splitting
		sp := New(brep.SurfaceFunc(func(uv r2.Vec) r3.Vec { return r3.Vec{X: uv.X, Y: 2 * uv.Y} }))
		sp.Reset(0.01, 0.5)
		fill(sp, 0, 1, 0, 1)
		stepU, stepV, nU, nV := sp.GetSplitSteps()
		assert.Equal(t, 1., stepU)
		assert.Equal(t, 1., stepV)
		assert.Equal(t, 1, nU)
		assert.Equal(t, 1, nV)
		assert.Equal(t, brep.GeneralSurface, sp.Kind)
	}
	{ // Curved in u only
		sp := New(brep.SurfaceFunc(func(uv r2.Vec) r3.Vec {
			return r3.Vec{X: math.Cos(uv.X), Y: math.Sin(uv.X), Z: uv.Y}
		}))
		sp.Reset(0.01, 0.5)
		fill(sp, 0, math.Pi, 0, 1)
		stepU, stepV, nU, _ := sp.GetSplitSteps()
		assert.Less(t, stepU, math.Pi/4)
		assert.Equal(t, 1., stepV)
		// Halving stops at the first step whose chord height is within the deflection
		assert.LessOrEqual(t, 1-math.Cos(stepU/2), 0.01)
		assert.Equal(t, int(math.Round(math.Pi/stepU)), nU)
	}
	{
		sp := New(&brep.Plane{Frame: brep.DefaultFrame()})
		fill(sp, 0, 1, 0, 1)
		sp.Reset(0.1, 0.1)
		assert.Equal(t, r2.Box{}, sp.Range())
	}
}
