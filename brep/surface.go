package brep

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

type SurfaceKind uint8

const (
	PlaneSurface SurfaceKind = iota
	CylinderSurface
	ConeSurface
	SphereSurface
	TorusSurface
	GeneralSurface
)

var SurfaceNameMap = map[string]SurfaceKind{
	"plane":    PlaneSurface,
	"cylinder": CylinderSurface,
	"cone":     ConeSurface,
	"sphere":   SphereSurface,
	"torus":    TorusSurface,
	"general":  GeneralSurface,
}

func (sk SurfaceKind) String() string {
	for name, kind := range SurfaceNameMap {
		if kind == sk {
			return name
		}
	}
	return "unknown"
}

// Surface maps parameter space onto 3D
type Surface interface {
	Kind() SurfaceKind
	Value(uv r2.Vec) r3.Vec
}

// Frame is a right handed orthonormal placement
type Frame struct {
	Origin, XDir, YDir, ZDir r3.Vec
}

func DefaultFrame() Frame {
	return Frame{
		XDir: r3.Vec{X: 1},
		YDir: r3.Vec{Y: 1},
		ZDir: r3.Vec{Z: 1},
	}
}

// NewFrame orthonormalizes xdir against zdir; a zero or parallel xdir picks one
func NewFrame(origin, zdir, xdir r3.Vec) (f Frame) {
	z := r3.Unit(zdir)
	x := r3.Sub(xdir, r3.Scale(r3.Dot(xdir, z), z))
	if r3.Norm(x) < 1.e-12 {
		x = r3.Cross(z, r3.Vec{X: 1})
		if r3.Norm(x) < 1.e-12 {
			x = r3.Cross(z, r3.Vec{Y: 1})
		}
	}
	x = r3.Unit(x)
	f = Frame{
		Origin: origin,
		XDir:   x,
		YDir:   r3.Cross(z, x),
		ZDir:   z,
	}
	return
}

// radial returns the unit vector at angle u in the frame's XY plane
func (f Frame) radial(u float64) r3.Vec {
	return r3.Add(r3.Scale(math.Cos(u), f.XDir), r3.Scale(math.Sin(u), f.YDir))
}

type Plane struct {
	Frame
}

func (p *Plane) Kind() SurfaceKind { return PlaneSurface }

func (p *Plane) Value(uv r2.Vec) r3.Vec {
	return r3.Add(p.Origin, r3.Add(r3.Scale(uv.X, p.XDir), r3.Scale(uv.Y, p.YDir)))
}

// Cylinder: u is the angle, v the height along ZDir
type Cylinder struct {
	Frame
	Radius float64
}

func (c *Cylinder) Kind() SurfaceKind { return CylinderSurface }

func (c *Cylinder) Value(uv r2.Vec) r3.Vec {
	return r3.Add(c.Origin, r3.Add(r3.Scale(c.Radius, c.radial(uv.X)), r3.Scale(uv.Y, c.ZDir)))
}

// Cone: u is the angle, v the distance along a generator from the reference circle
type Cone struct {
	Frame
	RefRadius float64
	SemiAngle float64
}

func (c *Cone) Kind() SurfaceKind { return ConeSurface }

func (c *Cone) RadiusAt(v float64) float64 { return c.RefRadius + v*math.Sin(c.SemiAngle) }

// ApexV is the v parameter of the apex
func (c *Cone) ApexV() float64 { return -c.RefRadius / math.Sin(c.SemiAngle) }

func (c *Cone) Value(uv r2.Vec) r3.Vec {
	return r3.Add(c.Origin, r3.Add(
		r3.Scale(c.RadiusAt(uv.Y), c.radial(uv.X)),
		r3.Scale(uv.Y*math.Cos(c.SemiAngle), c.ZDir)))
}

// Sphere: u is the longitude, v the latitude in [-pi/2, pi/2]
type Sphere struct {
	Frame
	Radius float64
}

func (s *Sphere) Kind() SurfaceKind { return SphereSurface }

func (s *Sphere) Value(uv r2.Vec) r3.Vec {
	return r3.Add(s.Origin, r3.Add(
		r3.Scale(s.Radius*math.Cos(uv.Y), s.radial(uv.X)),
		r3.Scale(s.Radius*math.Sin(uv.Y), s.ZDir)))
}

type Torus struct {
	Frame
	MajorRadius, MinorRadius float64
}

func (t *Torus) Kind() SurfaceKind { return TorusSurface }

func (t *Torus) Value(uv r2.Vec) r3.Vec {
	return r3.Add(t.Origin, r3.Add(
		r3.Scale(t.MajorRadius+t.MinorRadius*math.Cos(uv.Y), t.radial(uv.X)),
		r3.Scale(t.MinorRadius*math.Sin(uv.Y), t.ZDir)))
}

// SurfaceFunc adapts any evaluator as a general surface
type SurfaceFunc func(uv r2.Vec) r3.Vec

func (sf SurfaceFunc) Kind() SurfaceKind { return GeneralSurface }

func (sf SurfaceFunc) Value(uv r2.Vec) r3.Vec { return sf(uv) }

/*
EstimateLengths samples three iso-lines in each direction of the box and
returns their mean 3D lengths along u and along v.
*/
func EstimateLengths(s Surface, box r2.Box) (lengthU, lengthV float64) {
	const (
		nLines = 3
		nSeg   = 16
	)
	isoLength := func(at func(t float64) r2.Vec) (l float64) {
		prev := s.Value(at(0))
		for i := 1; i <= nSeg; i++ {
			cur := s.Value(at(float64(i) / nSeg))
			l += r3.Norm(r3.Sub(cur, prev))
			prev = cur
		}
		return
	}
	du, dv := box.Max.X-box.Min.X, box.Max.Y-box.Min.Y
	for k := 0; k < nLines; k++ {
		f := float64(k) / (nLines - 1)
		v := box.Min.Y + f*dv
		u := box.Min.X + f*du
		lengthU += isoLength(func(t float64) r2.Vec { return r2.Vec{X: box.Min.X + t*du, Y: v} })
		lengthV += isoLength(func(t float64) r2.Vec { return r2.Vec{X: u, Y: box.Min.Y + t*dv} })
	}
	lengthU /= nLines
	lengthV /= nLines
	return
}
