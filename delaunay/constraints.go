package delaunay

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/gotess/geometry2D"
	"github.com/notargets/gotess/types"
	"github.com/notargets/gotess/vertexindex"
)

// InsertConstraints forces every segment to appear as a chain of Constrained links
func (m *Mesh) InsertConstraints(segments []types.Segment) (err error) {
	if m.state != Triangulated {
		return m.stateError("insert constraints", Triangulated)
	}
	for _, s := range segments {
		if err = m.recoverConstraint(s[0], s[1], 0); err != nil {
			return
		}
	}
	m.state = ConstraintsInserted
	return
}

func (m *Mesh) markConstrained(a, b int) bool {
	l, ok := m.Link(a, b)
	if !ok {
		return false
	}
	if m.Links[l].Kind != types.Constrained {
		m.Links[l].Kind = types.Constrained
		m.constraints = append(m.constraints, types.Segment{a, b})
	}
	return true
}

func (m *Mesh) recoverConstraint(a, b, depth int) (err error) {
	if a == b || m.markConstrained(a, b) {
		return
	}
	crossing, via, err := m.crossedLinks(a, b)
	if err != nil {
		return
	}
	if via >= 0 {
		if err = m.recoverConstraint(a, via, depth); err != nil {
			return
		}
		return m.recoverConstraint(via, b, depth)
	}
	var (
		pa, pb  = m.uv(a), m.uv(b)
		created []types.Segment
		iter    int
	)
	for len(crossing) > 0 {
		if iter++; iter > m.Params.MaxRecoveryIterations {
			return m.splitConstraint(a, b, depth)
		}
		e := crossing[0]
		crossing = crossing[1:]
		l, ok := m.Link(e[0], e[1])
		if !ok {
			continue
		}
		if m.Links[l].Kind == types.Constrained {
			return types.NewMeshError(types.SpatialDegeneracy, "insert constraints",
				"segment %d-%d crosses constraint %v", a, b, m.Links[l].Nodes)
		}
		x, y, p1, p2 := m.quad(l)
		if !m.convex(x, y, p1, p2) {
			crossing = append(crossing, e)
			continue
		}
		if _, err = m.flip(l); err != nil {
			return
		}
		diag := types.Segment{p1, p2}
		if p1 != a && p1 != b && p2 != a && p2 != b &&
			geometry2D.SegmentsCross(m.uv(p1), m.uv(p2), pa, pb) {
			crossing = append(crossing, diag)
		} else {
			created = append(created, diag)
		}
	}
	if !m.markConstrained(a, b) {
		return m.splitConstraint(a, b, depth)
	}
	return m.legalize(created)
}

/*
crossedLinks walks from a toward b and lists the links the segment crosses.
If a vertex lies on the open segment it is returned as via, with no links.
*/
func (m *Mesh) crossedLinks(a, b int) (crossing []types.Segment, via int, err error) {
	var (
		pa, pb = m.uv(a), m.uv(b)
		dir    = r2.Sub(pb, pa)
		ahead  = func(v int) bool { return r2.Dot(dir, r2.Sub(m.uv(v), pa)) > 0 }
		right  = -1
		left   = -1
		t      = -1
	)
	via = -1
	for _, ti := range m.trianglesAround(a) {
		var (
			tri    = &m.Tris[ti]
			k      = tri.index(a)
			n1, n2 = tri.Nodes[(k+1)%3], tri.Nodes[(k+2)%3]
			o1     = geometry2D.Orientation(pa, pb, m.uv(n1))
			o2     = geometry2D.Orientation(pa, pb, m.uv(n2))
		)
		if o1 == geometry2D.Collinear && ahead(n1) {
			return nil, n1, nil
		}
		if o2 == geometry2D.Collinear && ahead(n2) {
			return nil, n2, nil
		}
		if o1 == geometry2D.Clockwise && o2 == geometry2D.CounterClockwise {
			right, left, t = n1, n2, ti
			break
		}
	}
	if t < 0 {
		err = types.NewMeshError(types.SpatialDegeneracy, "insert constraints",
			"no triangle at vertex %d faces vertex %d", a, b)
		return
	}
	for steps := 0; steps <= m.numValid; steps++ {
		crossing = append(crossing, types.Segment{right, left})
		l, _ := m.Link(right, left)
		u := m.Links[l].other(t)
		if u < 0 {
			break
		}
		_, _, w := m.orient(u, l)
		if w == b {
			return
		}
		switch geometry2D.Orientation(pa, pb, m.uv(w)) {
		case geometry2D.Collinear:
			return nil, w, nil
		case geometry2D.CounterClockwise:
			left = w
		default:
			right = w
		}
		t = u
	}
	err = types.NewMeshError(types.SpatialDegeneracy, "insert constraints",
		"segment %d-%d leaves the triangulation", a, b)
	return nil, -1, err
}

// splitConstraint inserts the midpoint of a-b and recovers both halves
func (m *Mesh) splitConstraint(a, b, depth int) (err error) {
	if depth >= m.Params.MaxSplitDepth {
		return types.NewMeshError(types.SpatialDegeneracy, "insert constraints",
			"segment %d-%d not recovered after %d splits", a, b, depth)
	}
	mid := r2.Scale(0.5, r2.Add(m.uv(a), m.uv(b)))
	v, _, err := m.Pool.Add(vertexindex.Vertex{UV: mid, Location3D: -1, Movability: types.Fixed}, nil)
	if err != nil {
		return
	}
	if v == a || v == b {
		return types.NewMeshError(types.SpatialDegeneracy, "insert constraints",
			"segment %d-%d is shorter than the merge tolerance", a, b)
	}
	if v, err = m.insertVertex(v); err != nil {
		return
	}
	if err = m.recoverConstraint(a, v, depth+1); err != nil {
		return
	}
	return m.recoverConstraint(v, b, depth+1)
}
