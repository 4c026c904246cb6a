package boundary

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gotess/brep"
	"github.com/notargets/gotess/geometry2D"
	"github.com/notargets/gotess/types"
	"github.com/notargets/gotess/vertexindex"
)

type Wire struct {
	Nodes []int // closed polyline, the closing segment is implied
	Kind  types.WireKind
	Used  bool // takes part in constraints and classification
	Area  float64
}

type Result struct {
	Wires    []Wire
	Segments []types.Segment
}

// Polylines returns the working coordinates of the used wires
func (r *Result) Polylines(pool *vertexindex.Pool) (lines [][]r2.Vec) {
	for _, w := range r.Wires {
		if !w.Used {
			continue
		}
		line := make([]r2.Vec, len(w.Nodes))
		for i, n := range w.Nodes {
			line[i] = pool.UV(n)
		}
		lines = append(lines, line)
	}
	return
}

/*
Discretize chains each wire's co-edge samples into a closed polyline of pooled
vertices. The first wire is the outer boundary; an open outer wire is closed
by an implied segment, while open or self-intersecting inner wires are kept
but not used.
*/
func Discretize(face *brep.Face, nm *geometry2D.Normalizer, pool *vertexindex.Pool) (res *Result, err error) {
	if face.Surface == nil {
		err = types.NewMeshError(types.InvalidInput, "discretize", "face %d has no surface", face.ID)
		return
	}
	if len(face.Wires) == 0 {
		err = types.NewMeshError(types.InvalidInput, "discretize", "face %d has no wires", face.ID)
		return
	}
	res = &Result{}
	for iw, w := range face.Wires {
		var (
			nodes  []int
			closed bool
		)
		if nodes, err = chainWire(face, w, nm, pool); err != nil {
			return nil, err
		}
		if len(nodes) > 1 && nodes[len(nodes)-1] == nodes[0] {
			nodes = nodes[:len(nodes)-1]
			closed = true
		}
		wire := Wire{Nodes: nodes, Kind: types.Hole}
		if iw == 0 {
			wire.Kind = types.Outer
		}
		switch {
		case len(nodes) < 3:
			if iw == 0 {
				err = types.NewMeshError(types.InvalidInput, "discretize",
					"outer wire of face %d has %d distinct points", face.ID, len(nodes))
				return nil, err
			}
			wire.Kind = types.Open
		case selfIntersects(pool, nodes):
			wire.Kind = types.SelfIntersecting
		case !closed:
			wire.Kind = types.Open
			wire.Used = iw == 0
		default:
			wire.Used = true
		}
		if len(nodes) >= 3 {
			poly := make([]r2.Vec, len(nodes))
			for i, n := range nodes {
				poly[i] = pool.UV(n)
			}
			wire.Area = geometry2D.SignedArea(poly)
		}
		res.Wires = append(res.Wires, wire)
	}
	if !res.Wires[0].Used {
		err = types.NewMeshError(types.InvalidInput, "discretize",
			"outer wire of face %d is %s", face.ID, res.Wires[0].Kind)
		return nil, err
	}
	for _, w := range res.Wires {
		if !w.Used {
			continue
		}
		n := len(w.Nodes)
		for i := 0; i < n; i++ {
			res.Segments = append(res.Segments, types.Segment{w.Nodes[i], w.Nodes[(i+1)%n]})
		}
	}
	return
}

func chainWire(face *brep.Face, w *brep.Wire, nm *geometry2D.Normalizer,
	pool *vertexindex.Pool) (nodes []int, err error) {
	for _, ce := range w.CoEdges {
		FillPCurve(ce)
		pc := ce.PCurve
		n := pc.PointCount()
		if n < 2 {
			err = types.NewMeshError(types.InvalidInput, "discretize",
				"edge %d of face %d has no discretization", ce.Edge.ID, face.ID)
			return
		}
		for k := 0; k < n; k++ {
			i := k
			if ce.Reversed {
				i = n - 1 - k
			}
			uv := pc.Point(i)
			pt := point3D(face.Surface, ce, i, uv)
			var idx int
			idx, _, err = pool.Add(vertexindex.Vertex{
				UV:         nm.Normalize(uv),
				Movability: types.Fixed,
			}, &pt)
			if err != nil {
				return
			}
			if len(nodes) > 0 && nodes[len(nodes)-1] == idx {
				continue
			}
			nodes = append(nodes, idx)
		}
	}
	return
}

// point3D prefers the edge polygon point carrying the same parameter as the pcurve sample
func point3D(s brep.Surface, ce *brep.CoEdge, i int, uv r2.Vec) r3.Vec {
	poly := ce.Edge.Polygon
	if poly.PointCount() == ce.PCurve.PointCount() && poly.Params[i] == ce.PCurve.Parameter(i) {
		return poly.Points[i]
	}
	if ce.Edge.Curve != nil {
		return ce.Edge.Curve.Value(ce.PCurve.Parameter(i))
	}
	return s.Value(uv)
}

type span struct {
	a, b       r2.Vec
	i          int
	minX, maxX float64
}

// selfIntersects checks non-adjacent segments of the closed polyline, swept in x
func selfIntersects(pool *vertexindex.Pool, nodes []int) bool {
	n := len(nodes)
	spans := make([]span, n)
	for i := 0; i < n; i++ {
		a, b := pool.UV(nodes[i]), pool.UV(nodes[(i+1)%n])
		spans[i] = span{a: a, b: b, i: i, minX: math.Min(a.X, b.X), maxX: math.Max(a.X, b.X)}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].minX < spans[j].minX })
	adjacent := func(i, j int) bool {
		d := i - j
		if d < 0 {
			d = -d
		}
		return d == 1 || d == n-1
	}
	for i := range spans {
		for j := i + 1; j < n && spans[j].minX <= spans[i].maxX; j++ {
			s1, s2 := spans[i], spans[j]
			if adjacent(s1.i, s2.i) {
				continue
			}
			if math.Max(math.Min(s1.a.Y, s1.b.Y), math.Min(s2.a.Y, s2.b.Y)) >
				math.Min(math.Max(s1.a.Y, s1.b.Y), math.Max(s2.a.Y, s2.b.Y)) {
				continue
			}
			if geometry2D.SegmentsIntersect(s1.a, s1.b, s2.a, s2.b) {
				return true
			}
		}
	}
	return false
}
