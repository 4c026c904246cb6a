package geometry2D

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// NewBoundingBox returns the box around the points, or an empty box for no points
func NewBoundingBox(Geometry []r2.Vec) (Box r2.Box) {
	if len(Geometry) == 0 {
		return
	}
	Box.Min, Box.Max = Geometry[0], Geometry[0]
	for _, point := range Geometry[1:] {
		Box = GrowBox(Box, point)
	}
	return
}

func GrowBox(bb r2.Box, point r2.Vec) r2.Box {
	bb.Min.X, bb.Min.Y = math.Min(bb.Min.X, point.X), math.Min(bb.Min.Y, point.Y)
	bb.Max.X, bb.Max.Y = math.Max(bb.Max.X, point.X), math.Max(bb.Max.Y, point.Y)
	return bb
}

func PadBox(bb r2.Box, pad float64) r2.Box {
	return r2.Box{
		Min: r2.Vec{X: bb.Min.X - pad, Y: bb.Min.Y - pad},
		Max: r2.Vec{X: bb.Max.X + pad, Y: bb.Max.Y + pad},
	}
}

// PointInside includes the box boundary
func PointInside(bb r2.Box, point r2.Vec) (within bool) {
	return point.X >= bb.Min.X && point.X <= bb.Max.X &&
		point.Y >= bb.Min.Y && point.Y <= bb.Max.Y
}

// SignedArea is positive for a counter-clockwise polygon; the closing segment is implied
func SignedArea(poly []r2.Vec) (area float64) {
	n := len(poly)
	for i := 0; i < n; i++ {
		p0, p1 := poly[i], poly[(i+1)%n]
		area += p0.X*p1.Y - p1.X*p0.Y
	}
	return 0.5 * area
}

/*
WindingNumber from http://geomalgorithms.com/a03-_inclusion.html
The closing segment is implied. A zero winding number means the point is outside.
*/
func WindingNumber(poly []r2.Vec, point r2.Vec) (wn int) {
	n := len(poly)
	for i := 0; i < n; i++ {
		pt0, pt1 := poly[i], poly[(i+1)%n]
		if pt0.Y <= point.Y {
			if pt1.Y > point.Y && Orientation(pt0, pt1, point) == CounterClockwise {
				wn++
			}
		} else {
			if pt1.Y <= point.Y && Orientation(pt0, pt1, point) == Clockwise {
				wn--
			}
		}
	}
	return
}

// SegmentsCross is true when ab and cd cross at a single point interior to both
func SegmentsCross(a, b, c, d r2.Vec) bool {
	o1, o2 := Orientation(a, b, c), Orientation(a, b, d)
	o3, o4 := Orientation(c, d, a), Orientation(c, d, b)
	return o1*o2 < 0 && o3*o4 < 0
}

// SegmentsIntersect includes touching and collinear overlap
func SegmentsIntersect(a, b, c, d r2.Vec) bool {
	o1, o2 := Orientation(a, b, c), Orientation(a, b, d)
	o3, o4 := Orientation(c, d, a), Orientation(c, d, b)
	if o1*o2 < 0 && o3*o4 < 0 {
		return true
	}
	onSeg := func(p, q, r r2.Vec) bool { // r collinear with pq, within its box
		return r.X >= math.Min(p.X, q.X) && r.X <= math.Max(p.X, q.X) &&
			r.Y >= math.Min(p.Y, q.Y) && r.Y <= math.Max(p.Y, q.Y)
	}
	switch {
	case o1 == Collinear && onSeg(a, b, c):
		return true
	case o2 == Collinear && onSeg(a, b, d):
		return true
	case o3 == Collinear && onSeg(c, d, a):
		return true
	case o4 == Collinear && onSeg(c, d, b):
		return true
	}
	return false
}

func DistanceToSegment(p, a, b r2.Vec) float64 {
	ab := r2.Sub(b, a)
	l2 := r2.Norm2(ab)
	if l2 == 0 {
		return r2.Norm(r2.Sub(p, a))
	}
	t := r2.Dot(r2.Sub(p, a), ab) / l2
	t = math.Max(0, math.Min(1, t))
	return r2.Norm(r2.Sub(p, r2.Add(a, r2.Scale(t, ab))))
}

// MinAngle returns the smallest interior angle of triangle abc in radians
func MinAngle(a, b, c r2.Vec) float64 {
	angle := func(p, q, r r2.Vec) float64 { // angle at p
		u, v := r2.Sub(q, p), r2.Sub(r, p)
		return math.Abs(math.Atan2(r2.Cross(u, v), r2.Dot(u, v)))
	}
	return math.Min(angle(a, b, c), math.Min(angle(b, c, a), angle(c, a, b)))
}

func Centroid(a, b, c r2.Vec) r2.Vec {
	return r2.Triangle{a, b, c}.Centroid()
}
