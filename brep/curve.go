package brep

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

type Curve3D interface {
	Value(t float64) r3.Vec
	Range() (t0, t1 float64)
}

type Curve2D interface {
	Value(t float64) r2.Vec
	Range() (t0, t1 float64)
}

// Segment3D is parameterized on [0,1]
type Segment3D struct {
	Start, End r3.Vec
}

func (s *Segment3D) Value(t float64) r3.Vec {
	return r3.Add(s.Start, r3.Scale(t, r3.Sub(s.End, s.Start)))
}

func (s *Segment3D) Range() (t0, t1 float64) { return 0, 1 }

// Circle3D is parameterized by angle in the frame's XY plane
type Circle3D struct {
	Frame
	Radius float64
	T0, T1 float64
}

func (c *Circle3D) Value(t float64) r3.Vec {
	return r3.Add(c.Origin, r3.Scale(c.Radius, c.radial(t)))
}

func (c *Circle3D) Range() (t0, t1 float64) { return c.T0, c.T1 }

// PointCurve is the 3D image of a degenerated edge, such as a cone apex
type PointCurve struct {
	Point  r3.Vec
	T0, T1 float64
}

func (p *PointCurve) Value(float64) r3.Vec { return p.Point }

func (p *PointCurve) Range() (t0, t1 float64) { return p.T0, p.T1 }

// SurfaceCurve is the image of a parametric curve on a surface
type SurfaceCurve struct {
	Surface Surface
	Curve   Curve2D
}

func (sc *SurfaceCurve) Value(t float64) r3.Vec { return sc.Surface.Value(sc.Curve.Value(t)) }

func (sc *SurfaceCurve) Range() (t0, t1 float64) { return sc.Curve.Range() }

type Segment2D struct {
	Start, End r2.Vec
	T0, T1     float64
}

func NewSegment2D(start, end r2.Vec, t0, t1 float64) *Segment2D {
	return &Segment2D{Start: start, End: end, T0: t0, T1: t1}
}

func (s *Segment2D) Value(t float64) r2.Vec {
	f := (t - s.T0) / (s.T1 - s.T0)
	return r2.Add(s.Start, r2.Scale(f, r2.Sub(s.End, s.Start)))
}

func (s *Segment2D) Range() (t0, t1 float64) { return s.T0, s.T1 }
