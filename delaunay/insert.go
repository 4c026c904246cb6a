package delaunay

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/gotess/geometry2D"
	"github.com/notargets/gotess/types"
)

type location uint8

const (
	outside location = iota
	inside
	onEdge
	onVertex
)

// Seed builds the super-triangle enclosing box from three helper vertices
func (m *Mesh) Seed(box r2.Box) (err error) {
	if m.state != Empty {
		return m.stateError("seed", Empty)
	}
	var (
		c = r2.Scale(0.5, r2.Add(box.Min, box.Max))
		s = box.Size()
		d = math.Max(s.X, s.Y)
	)
	if d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		d = 1
	}
	corners := [3]r2.Vec{
		{X: c.X - 20*d, Y: c.Y - 10*d},
		{X: c.X + 20*d, Y: c.Y - 10*d},
		{X: c.X, Y: c.Y + 20*d},
	}
	for i, p := range corners {
		m.helpers[i] = m.Pool.AddHelper(p)
	}
	var t int
	if t, err = m.addTriangle(m.helpers[0], m.helpers[1], m.helpers[2]); err != nil {
		return
	}
	for _, l := range m.Tris[t].Links {
		m.Links[l].Kind = types.FrontierLink
	}
	m.purge()
	m.state = Seeded
	return
}

// Insert adds pooled vertex v to the triangulation
func (m *Mesh) Insert(v int) (err error) {
	if !m.inState(Seeded, Triangulated) {
		return m.stateError("insert", Seeded, Triangulated)
	}
	m.state = Triangulated
	_, err = m.insertVertex(v)
	return
}

func (m *Mesh) InsertVertices(indices []int) (err error) {
	if !m.inState(Seeded, Triangulated) {
		return m.stateError("insert", Seeded, Triangulated)
	}
	m.state = Triangulated
	for _, v := range indices {
		if _, err = m.insertVertex(v); err != nil {
			return
		}
	}
	return
}

// insertVertex returns v, or the vertex already sitting at its location
func (m *Mesh) insertVertex(v int) (at int, err error) {
	p := m.uv(v)
	t, loc, idx := m.locate(p, m.hint(p))
	switch loc {
	case outside:
		return -1, types.NewMeshError(types.SpatialDegeneracy, "insert",
			"vertex %d at %v is outside the triangulation", v, p)
	case onVertex:
		return m.Tris[t].Nodes[idx], nil
	case onEdge:
		err = m.splitEdge(t, idx, v)
	default:
		err = m.splitTriangle(t, v)
	}
	return v, err
}

// hint picks a starting triangle from a nearby vertex already in the mesh
func (m *Mesh) hint(p r2.Vec) int {
	cs := m.Pool.CellSize()
	for _, v := range m.Pool.QueryRadius(p, 2*math.Max(cs.X, cs.Y)) {
		if v < len(m.vertTri) {
			if t := m.vertTri[v]; t >= 0 && m.Tris[t].Valid {
				return t
			}
		}
	}
	return m.lastTri
}

func (m *Mesh) anyTriangle() int {
	if m.lastTri >= 0 && m.Tris[m.lastTri].Valid {
		return m.lastTri
	}
	for t := range m.Tris {
		if m.Tris[t].Valid {
			return t
		}
	}
	return -1
}

/*
locate walks toward p crossing any edge p lies to the right of. The first edge
tested rotates between steps so the walk cannot cycle forever; a bounded walk
that fails or leaves the mesh falls back to a scan of all triangles.
*/
func (m *Mesh) locate(p r2.Vec, start int) (t int, loc location, idx int) {
	t = start
	if t < 0 || t >= len(m.Tris) || !m.Tris[t].Valid {
		if t = m.anyTriangle(); t < 0 {
			return -1, outside, -1
		}
	}
	maxSteps := 2*m.numValid + 16
	for step := 0; step < maxSteps; step++ {
		var (
			tri   = &m.Tris[t]
			zeros [3]bool
			next  = t
		)
		m.walkSeed++
		for k := 0; k < 3; k++ {
			i := (k + m.walkSeed) % 3
			a, b := m.uv(tri.Nodes[i]), m.uv(tri.Nodes[(i+1)%3])
			switch geometry2D.Orientation(a, b, p) {
			case geometry2D.Clockwise:
				next = m.Links[tri.Links[i]].other(t)
			case geometry2D.Collinear:
				zeros[i] = true
			}
			if next != t {
				break
			}
		}
		if next < 0 {
			return m.scan(p)
		}
		if next == t {
			loc, idx = classifyIn(zeros)
			return
		}
		t = next
	}
	return m.scan(p)
}

func classifyIn(zeros [3]bool) (loc location, idx int) {
	var nz int
	for _, z := range zeros {
		if z {
			nz++
		}
	}
	switch nz {
	case 0:
		return inside, -1
	case 1:
		for i, z := range zeros {
			if z {
				return onEdge, i
			}
		}
	case 2:
		for i := 0; i < 3; i++ {
			if zeros[i] && zeros[(i+1)%3] {
				return onVertex, (i + 1) % 3
			}
		}
	}
	return outside, -1
}

func (m *Mesh) scan(p r2.Vec) (int, location, int) {
	for t := range m.Tris {
		tri := &m.Tris[t]
		if !tri.Valid {
			continue
		}
		var (
			zeros [3]bool
			out   bool
		)
		for i := 0; i < 3; i++ {
			switch geometry2D.Orientation(m.uv(tri.Nodes[i]), m.uv(tri.Nodes[(i+1)%3]), p) {
			case geometry2D.Clockwise:
				out = true
			case geometry2D.Collinear:
				zeros[i] = true
			}
		}
		if out {
			continue
		}
		if loc, idx := classifyIn(zeros); loc != outside {
			return t, loc, idx
		}
	}
	return -1, outside, -1
}

func (m *Mesh) splitTriangle(t, v int) (err error) {
	if err = m.reserve(2); err != nil {
		return
	}
	n := m.Tris[t].Nodes
	m.removeTriangle(t)
	for i := 0; i < 3; i++ {
		if _, err = m.addTriangle(n[i], n[(i+1)%3], v); err != nil {
			return
		}
	}
	m.purge()
	return m.legalize([]types.Segment{{n[0], n[1]}, {n[1], n[2]}, {n[2], n[0]}})
}

// splitEdge splits link i of t, and the triangle across it, at v
func (m *Mesh) splitEdge(t, i, v int) (err error) {
	if err = m.reserve(2); err != nil {
		return
	}
	var (
		l    = m.Tris[t].Links[i]
		kind = m.Links[l].Kind
		u    = m.Links[l].other(t)
		n    = m.Tris[t].Nodes
		a, b = n[i], n[(i+1)%3]
		c    = n[(i+2)%3]
		d    = -1
	)
	if u >= 0 {
		_, _, d = m.orient(u, l)
		m.removeTriangle(u)
	}
	m.removeTriangle(t)
	if _, err = m.addTriangle(a, v, c); err != nil {
		return
	}
	if _, err = m.addTriangle(v, b, c); err != nil {
		return
	}
	check := []types.Segment{{b, c}, {c, a}}
	if d >= 0 {
		if _, err = m.addTriangle(b, v, d); err != nil {
			return
		}
		if _, err = m.addTriangle(v, a, d); err != nil {
			return
		}
		check = append(check, types.Segment{a, d}, types.Segment{d, b})
	}
	m.purge()
	if kind != types.Interior {
		for _, s := range []types.Segment{{a, v}, {v, b}} {
			if nl, ok := m.Link(s[0], s[1]); ok {
				m.Links[nl].Kind = kind
			}
		}
		if kind == types.Constrained {
			m.replaceConstraint(a, b, v)
		}
	}
	return m.legalize(check)
}

func (m *Mesh) replaceConstraint(a, b, v int) {
	key := types.NewEdgeKey([2]int{a, b})
	for i, s := range m.constraints {
		if s.Key() == key {
			m.constraints[i] = types.Segment{s[0], v}
			m.constraints = append(m.constraints, types.Segment{v, s[1]})
			return
		}
	}
}

// legalize flips links until every link on the stack is locally Delaunay
func (m *Mesh) legalize(stack []types.Segment) (err error) {
	var (
		flips int
		limit = 64 * (m.numValid + 16)
	)
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		l, ok := m.Link(s[0], s[1])
		if !ok || !m.shouldFlip(l) {
			continue
		}
		var created [4]types.Segment
		if created, err = m.flip(l); err != nil {
			return
		}
		stack = append(stack, created[:]...)
		if flips++; flips > limit {
			return types.NewMeshError(types.SpatialDegeneracy, "legalize",
				"no convergence after %d flips", flips)
		}
	}
	return
}

// quad returns t1 = (x,y,p1) and t2 = (y,x,p2) around link l
func (m *Mesh) quad(l int) (x, y, p1, p2 int) {
	lk := &m.Links[l]
	x, y, p1 = m.orient(lk.Tris[0], l)
	_, _, p2 = m.orient(lk.Tris[1], l)
	return
}

func (m *Mesh) convex(x, y, p1, p2 int) bool {
	return geometry2D.Orientation(m.uv(x), m.uv(p2), m.uv(p1)) == geometry2D.CounterClockwise &&
		geometry2D.Orientation(m.uv(p2), m.uv(y), m.uv(p1)) == geometry2D.CounterClockwise
}

func (m *Mesh) shouldFlip(l int) bool {
	lk := &m.Links[l]
	if lk.Kind != types.Interior || lk.Count != 2 {
		return false
	}
	x, y, p1, p2 := m.quad(l)
	if !m.convex(x, y, p1, p2) {
		return false
	}
	vx, vy, v1, v2 := m.uv(x), m.uv(y), m.uv(p1), m.uv(p2)
	det, perm := geometry2D.InCircleDet(vx, vy, v1, v2)
	if math.Abs(det) <= m.Params.CocircularTol*perm {
		before := math.Min(geometry2D.MinAngle(vx, vy, v1), geometry2D.MinAngle(vy, vx, v2))
		after := math.Min(geometry2D.MinAngle(vx, v2, v1), geometry2D.MinAngle(v2, vy, v1))
		return after > before+m.Params.AngleTol
	}
	return det > 0
}

// flip replaces the diagonal x-y of the quad around l with p1-p2
func (m *Mesh) flip(l int) (outer [4]types.Segment, err error) {
	x, y, p1, p2 := m.quad(l)
	lk := m.Links[l]
	m.removeTriangle(lk.Tris[1])
	m.removeTriangle(lk.Tris[0])
	if _, err = m.addTriangle(x, p2, p1); err != nil {
		return
	}
	if _, err = m.addTriangle(p2, y, p1); err != nil {
		return
	}
	m.purge()
	outer = [4]types.Segment{{x, p2}, {p2, y}, {y, p1}, {p1, x}}
	return
}
