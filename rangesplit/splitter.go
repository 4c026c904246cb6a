package rangesplit

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gotess/brep"
)

const (
	maxSteps        = 512
	minStep         = 1.e-9
	generalMaxLevel = 8
)

/*
Splitter accumulates the parameter range of a face and turns the target
deflection into grid steps over that range. The step rule depends on the
surface kind.
*/
type Splitter struct {
	Kind       brep.SurfaceKind
	Deflection float64
	Angle      float64
	RangeU     [2]float64
	RangeV     [2]float64
	surface    brep.Surface
	hasPoints  bool
}

func New(s brep.Surface) (sp *Splitter) {
	sp = &Splitter{Kind: s.Kind(), surface: s}
	return
}

func (sp *Splitter) Reset(deflection, angle float64) {
	sp.Deflection, sp.Angle = deflection, angle
	sp.RangeU, sp.RangeV = [2]float64{}, [2]float64{}
	sp.hasPoints = false
}

func (sp *Splitter) AddPoint(uv r2.Vec) {
	if !sp.hasPoints {
		sp.RangeU = [2]float64{uv.X, uv.X}
		sp.RangeV = [2]float64{uv.Y, uv.Y}
		sp.hasPoints = true
		return
	}
	sp.RangeU = [2]float64{math.Min(sp.RangeU[0], uv.X), math.Max(sp.RangeU[1], uv.X)}
	sp.RangeV = [2]float64{math.Min(sp.RangeV[0], uv.Y), math.Max(sp.RangeV[1], uv.Y)}
}

func (sp *Splitter) Range() r2.Box {
	return r2.Box{
		Min: r2.Vec{X: sp.RangeU[0], Y: sp.RangeV[0]},
		Max: r2.Vec{X: sp.RangeU[1], Y: sp.RangeV[1]},
	}
}

// angularStep is the arc angle whose chord height on radius r equals the deflection
func (sp *Splitter) angularStep(r float64) (step float64) {
	step = sp.Angle
	if step <= 0 {
		step = math.Pi / 6
	}
	r = math.Abs(r)
	if r > 0 && sp.Deflection > 0 && sp.Deflection < r {
		step = math.Min(step, 2*math.Acos(1-sp.Deflection/r))
	}
	return math.Max(step, minStep)
}

/*
GetSplitSteps returns the parameter steps in u and v and the number of grid
intervals across the accumulated range. A plane is never split.
*/
func (sp *Splitter) GetSplitSteps() (stepU, stepV float64, nU, nV int) {
	du, dv := sp.RangeU[1]-sp.RangeU[0], sp.RangeV[1]-sp.RangeV[0]
	switch s := sp.surface.(type) {
	case *brep.Plane:
		return du, dv, 1, 1
	case *brep.Cylinder:
		stepU = sp.angularStep(s.Radius)
		stepV = stepU * s.Radius
	case *brep.Cone:
		r := math.Max(math.Abs(s.RadiusAt(sp.RangeV[0])), math.Abs(s.RadiusAt(sp.RangeV[1])))
		stepU = sp.angularStep(r)
		stepV = stepU * r / math.Cos(s.SemiAngle)
	case *brep.Sphere:
		stepU = sp.angularStep(s.Radius)
		stepV = stepU
	case *brep.Torus:
		stepU = sp.angularStep(s.MajorRadius + s.MinorRadius)
		stepV = sp.angularStep(s.MinorRadius)
	default:
		stepU, stepV = sp.sampledSteps(du, dv)
	}
	nU, nV = intervals(du, stepU), intervals(dv, stepV)
	return
}

func intervals(d, step float64) (n int) {
	if d <= 0 || step <= 0 {
		return 1
	}
	n = int(math.Ceil(d/step - 1.e-9))
	if n < 1 {
		n = 1
	}
	if n > maxSteps {
		n = maxSteps
	}
	return
}

// sampledSteps halves the steps of a general surface until chord midpoints sit within the deflection
func (sp *Splitter) sampledSteps(du, dv float64) (stepU, stepV float64) {
	var (
		u0, v0 = sp.RangeU[0], sp.RangeV[0]
		lines  = []float64{0, 0.5, 1}
	)
	deviation := func(n int, at func(line, t float64) r2.Vec) (dmax float64) {
		for _, line := range lines {
			for i := 0; i < n; i++ {
				t0, t1 := float64(i)/float64(n), float64(i+1)/float64(n)
				a, b := sp.surface.Value(at(line, t0)), sp.surface.Value(at(line, t1))
				m := sp.surface.Value(at(line, 0.5*(t0+t1)))
				chord := r3.Scale(0.5, r3.Add(a, b))
				dmax = math.Max(dmax, r3.Norm(r3.Sub(m, chord)))
			}
		}
		return
	}
	refine := func(d float64, at func(line, t float64) r2.Vec) float64 {
		if d <= 0 {
			return d
		}
		n := 1
		for level := 0; level < generalMaxLevel; level++ {
			if deviation(n, at) <= sp.Deflection {
				break
			}
			n *= 2
		}
		return d / float64(n)
	}
	stepU = refine(du, func(line, t float64) r2.Vec { return r2.Vec{X: u0 + t*du, Y: v0 + line*dv} })
	stepV = refine(dv, func(line, t float64) r2.Vec { return r2.Vec{X: u0 + line*du, Y: v0 + t*dv} })
	return
}

// GenerateNodes returns the interior nodes of the split grid, row by row in v
func (sp *Splitter) GenerateNodes() (nodes []r2.Vec) {
	_, _, nU, nV := sp.GetSplitSteps()
	if nU < 2 && nV < 2 {
		return
	}
	us := floats.Span(make([]float64, nU+1), sp.RangeU[0], sp.RangeU[1])
	vs := floats.Span(make([]float64, nV+1), sp.RangeV[0], sp.RangeV[1])
	for _, v := range vs[1:nV] {
		for _, u := range us[1:nU] {
			nodes = append(nodes, r2.Vec{X: u, Y: v})
		}
	}
	return
}
