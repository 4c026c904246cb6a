package brep

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

const degenerateLength = 1.e-10

// NewPolygonFace builds a face whose outer wire joins the uv points with straight pcurves
func NewPolygonFace(id int, s Surface, uv []r2.Vec) (f *Face) {
	f = &Face{ID: id, Surface: s}
	f.Wires = append(f.Wires, polygonWire(s, uv))
	return
}

func (f *Face) AddPolygonHole(uv []r2.Vec) {
	f.Wires = append(f.Wires, polygonWire(f.Surface, uv))
}

func polygonWire(s Surface, uv []r2.Vec) (w *Wire) {
	w = &Wire{}
	n := len(uv)
	for i := 0; i < n; i++ {
		pc := NewSegment2D(uv[i], uv[(i+1)%n], 0, 1)
		w.CoEdges = append(w.CoEdges, &CoEdge{
			Edge:   newEdgeOn(s, pc),
			Curve:  pc,
			PCurve: &PCurve{},
		})
	}
	return
}

func newEdgeOn(s Surface, pc Curve2D) (e *Edge) {
	t0, t1 := pc.Range()
	if curveLength(&SurfaceCurve{Surface: s, Curve: pc}) < degenerateLength {
		return &Edge{
			Curve:       &PointCurve{Point: s.Value(pc.Value(t0)), T0: t0, T1: t1},
			Degenerated: true,
		}
	}
	switch surf := s.(type) {
	case *Plane:
		if seg, ok := pc.(*Segment2D); ok && t0 == 0 && t1 == 1 {
			return &Edge{Curve: &Segment3D{Start: s.Value(seg.Start), End: s.Value(seg.End)}}
		}
	case *Cylinder:
		// A u iso-line of a cylinder is a circle arc parameterized by the angle
		if seg, ok := pc.(*Segment2D); ok && seg.Start.Y == seg.End.Y &&
			seg.Start.X == t0 && seg.End.X == t1 {
			f := surf.Frame
			f.Origin = r3.Add(f.Origin, r3.Scale(seg.Start.Y, f.ZDir))
			return &Edge{Curve: &Circle3D{Frame: f, Radius: surf.Radius, T0: t0, T1: t1}}
		}
	}
	return &Edge{Curve: &SurfaceCurve{Surface: s, Curve: pc}}
}

func curveLength(c Curve3D) (l float64) {
	const nSeg = 8
	t0, t1 := c.Range()
	prev := c.Value(t0)
	for i := 1; i <= nSeg; i++ {
		cur := c.Value(t0 + (t1-t0)*float64(i)/nSeg)
		l += r3.Norm(r3.Sub(cur, prev))
		prev = cur
	}
	return
}

/*
NewPeriodicPatchFace builds the face [uMin,uMax]x[vMin,vMax] of a surface
closed in u, such as a cylinder or cone. The wire is bottom, seam, top, seam,
with one seam edge used twice; a v row collapsing to a point, such as a cone
apex, becomes a degenerated edge.
*/
func NewPeriodicPatchFace(id int, s Surface, uMin, uMax, vMin, vMax float64) (f *Face) {
	var (
		p00 = r2.Vec{X: uMin, Y: vMin}
		p10 = r2.Vec{X: uMax, Y: vMin}
		p11 = r2.Vec{X: uMax, Y: vMax}
		p01 = r2.Vec{X: uMin, Y: vMax}

		bottomCurve = NewSegment2D(p00, p10, uMin, uMax)
		topCurve    = NewSegment2D(p01, p11, uMin, uMax)
		seamCurve   = NewSegment2D(p00, p01, vMin, vMax)
		seam        = &Edge{Curve: &SurfaceCurve{Surface: s, Curve: seamCurve}}
	)
	f = &Face{ID: id, Surface: s}
	f.Wires = []*Wire{{CoEdges: []*CoEdge{
		{Edge: newEdgeOn(s, bottomCurve), Curve: bottomCurve, PCurve: &PCurve{}},
		{Edge: seam, Curve: NewSegment2D(p10, p11, vMin, vMax), PCurve: &PCurve{}},
		{Edge: newEdgeOn(s, topCurve), Curve: topCurve, Reversed: true, PCurve: &PCurve{}},
		{Edge: seam, Curve: seamCurve, Reversed: true, PCurve: &PCurve{}},
	}}}
	return
}
