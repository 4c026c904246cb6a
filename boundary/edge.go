package boundary

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gotess/brep"
)

type RefineOptions struct {
	MinDepth, MaxDepth int
}

var DefaultRefineOptions = RefineOptions{MinDepth: 0, MaxDepth: 12}

/*
DiscretizeEdge fills the edge's shared polygon when it has none, then fills
the pcurve samples of every co-edge from the polygon parameters. It touches
shared edge data, so callers run it before faces are meshed in parallel.
*/
func DiscretizeEdge(e *brep.Edge, deflection, angle float64) {
	if e.Polygon.PointCount() < 2 {
		var (
			t0, t1 = e.Curve.Range()
			params []float64
		)
		if e.Degenerated {
			n := int(math.Ceil(math.Abs(t1-t0) / angle))
			if n < 1 {
				n = 1
			}
			params = floats.Span(make([]float64, n+1), t0, t1)
		} else {
			params = AdaptiveParams(e.Curve, t0, t1, deflection, angle, DefaultRefineOptions)
		}
		poly := &brep.Polygon3D{Params: params, Points: make([]r3.Vec, len(params))}
		for i, t := range params {
			poly.Points[i] = e.Curve.Value(t)
		}
		e.Polygon = poly
	}
	for _, ce := range e.CoEdges {
		FillPCurve(ce)
	}
}

// FillPCurve samples the co-edge's curve at the edge polygon parameters unless it already has samples
func FillPCurve(ce *brep.CoEdge) {
	if ce.PCurve == nil {
		ce.PCurve = &brep.PCurve{}
	}
	if ce.PCurve.PointCount() >= 2 || ce.Edge.Polygon.PointCount() < 2 {
		return
	}
	ce.PCurve.Reset()
	for _, t := range ce.Edge.Polygon.Params {
		ce.PCurve.Append(ce.Curve.Value(t), t)
	}
}

/*
AdaptiveParams bisects [t0,t1] until each piece's chord is within deflection
of the curve at its midpoint and the turn between the two half chords is
within the angular deflection. A closed curve is always split at least once.
*/
func AdaptiveParams(c brep.Curve3D, t0, t1, deflection, angle float64, opts RefineOptions) (params []float64) {
	params = []float64{t0}
	var divide func(ta, tb float64, pa, pb r3.Vec, depth int)
	divide = func(ta, tb float64, pa, pb r3.Vec, depth int) {
		tm := 0.5 * (ta + tb)
		pm := c.Value(tm)
		if shouldDivide(pa, pm, pb, deflection, angle, depth, opts) {
			divide(ta, tm, pa, pm, depth+1)
			divide(tm, tb, pm, pb, depth+1)
			return
		}
		params = append(params, tb)
	}
	divide(t0, t1, c.Value(t0), c.Value(t1), 0)
	return
}

func shouldDivide(pa, pm, pb r3.Vec, deflection, angle float64, depth int, opts RefineOptions) bool {
	if depth < opts.MinDepth {
		return true
	}
	if depth >= opts.MaxDepth {
		return false
	}
	chord := r3.Sub(pb, pa)
	if r3.Norm(chord) < deflection {
		// Closed or nearly closed piece: split unless the whole piece is tiny
		return r3.Norm(r3.Sub(pm, pa)) > deflection
	}
	mid := r3.Scale(0.5, r3.Add(pa, pb))
	if r3.Norm(r3.Sub(pm, mid)) > deflection {
		return true
	}
	d1, d2 := r3.Sub(pm, pa), r3.Sub(pb, pm)
	n1, n2 := r3.Norm(d1), r3.Norm(d2)
	if n1 == 0 || n2 == 0 {
		return false
	}
	cos := r3.Dot(d1, d2) / (n1 * n2)
	return math.Acos(math.Max(-1, math.Min(1, cos))) > angle
}
