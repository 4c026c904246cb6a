package geometry2D

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/gotess/types"
	"github.com/notargets/gotess/utils"
)

const minWorkingTol = 1.e-9

/*
Normalizer maps a face's parameter domain onto a working frame where one unit
of u or v covers the same 3D distance, and the longer side has unit length.
The 3D tolerance is carried into the frame per axis.
*/
type Normalizer struct {
	Origin     r2.Vec // parameter domain minimum
	Scale      r2.Vec // working units per parameter unit
	TolU, TolV float64
	Tol3D      float64
}

// NewNormalizer takes the parameter domain and the 3D lengths of the surface along u and v
func NewNormalizer(domain r2.Box, tol3D, lengthU, lengthV float64) (nm *Normalizer, err error) {
	var (
		du = domain.Max.X - domain.Min.X
		dv = domain.Max.Y - domain.Min.Y
	)
	if !(du > utils.NODETOL && dv > utils.NODETOL) {
		err = types.NewMeshError(types.InvalidInput, "normalize",
			"degenerate parameter domain %v", domain)
		return
	}
	if !(tol3D > 0) {
		err = types.NewMeshError(types.InvalidInput, "normalize",
			"tolerance must be positive, have %g", tol3D)
		return
	}
	// A collapsed direction (e.g. a cone apex row) falls back to the parameter aspect
	if !(lengthU > utils.NODETOL) {
		lengthU = du
	}
	if !(lengthV > utils.NODETOL) {
		lengthV = dv
	}
	var (
		s  = 1. / math.Max(lengthU, lengthV)
		su = lengthU / du * s
		sv = lengthV / dv * s
	)
	tol := math.Max(tol3D*s, minWorkingTol)
	nm = &Normalizer{
		Origin: domain.Min,
		Scale:  r2.Vec{X: su, Y: sv},
		TolU:   tol,
		TolV:   tol,
		Tol3D:  tol3D,
	}
	return
}

func (nm *Normalizer) Normalize(uv r2.Vec) r2.Vec {
	return r2.Vec{
		X: (uv.X - nm.Origin.X) * nm.Scale.X,
		Y: (uv.Y - nm.Origin.Y) * nm.Scale.Y,
	}
}

func (nm *Normalizer) Denormalize(p r2.Vec) r2.Vec {
	return r2.Vec{
		X: p.X/nm.Scale.X + nm.Origin.X,
		Y: p.Y/nm.Scale.Y + nm.Origin.Y,
	}
}

func (nm *Normalizer) NormalizeBox(b r2.Box) r2.Box {
	return r2.Box{Min: nm.Normalize(b.Min), Max: nm.Normalize(b.Max)}
}

// Tol is the isotropic working tolerance
func (nm *Normalizer) Tol() float64 { return math.Max(nm.TolU, nm.TolV) }
