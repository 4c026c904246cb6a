package delaunay

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/gotess/types"
	"github.com/notargets/gotess/vertexindex"
)

type State uint8

const (
	Empty State = iota
	Seeded
	Triangulated
	ConstraintsInserted
	Cleaned
	Final
)

var stateNames = [...]string{"Empty", "Seeded", "Triangulated", "ConstraintsInserted", "Cleaned", "Final"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

// Link is an undirected edge between two pooled vertices
type Link struct {
	Nodes [2]int // ascending
	Tris  [2]int // -1 when empty, Tris[0] filled first
	Count uint8  // number of triangles using the link
	Kind  types.LinkKind
}

func (l *Link) other(t int) int {
	if l.Tris[0] == t {
		return l.Tris[1]
	}
	return l.Tris[0]
}

// Triangle nodes are counter-clockwise, Links[i] joins Nodes[i] and Nodes[(i+1)%3]
type Triangle struct {
	Nodes [3]int
	Links [3]int
	Valid bool
}

func (tri *Triangle) index(v int) int {
	for i, n := range tri.Nodes {
		if n == v {
			return i
		}
	}
	return -1
}

type Params struct {
	MaxTriangles          int     // zero means no cap
	MaxRecoveryIterations int     // flips tried per constraint before splitting it
	MaxSplitDepth         int     // midpoint splits per constraint before giving up
	AngleTol              float64 // minimum angle gain, radians, for a near-cocircular flip
	CocircularTol         float64 // in-circle determinant relative to its permanent treated as cocircular
}

func DefaultParams() Params {
	return Params{
		MaxRecoveryIterations: 10000,
		MaxSplitDepth:         8,
		AngleTol:              1.e-9,
		CocircularTol:         1.e-12,
	}
}

/*
Mesh is the triangulation of one face in the working parameter frame. Vertices
live in the pool; links and triangles are arenas addressed by index, with
freed slots reused.
*/
type Mesh struct {
	Pool   *vertexindex.Pool
	Links  []Link
	Tris   []Triangle
	Params Params

	linkMap     map[types.EdgeKey]int
	freeTris    []int
	freeLinks   []int
	pending     []int
	vertTri     []int
	helpers     [3]int
	state       State
	lastTri     int
	walkSeed    int
	numValid    int
	constraints []types.Segment
}

func NewMesh(pool *vertexindex.Pool, params Params) (m *Mesh) {
	m = &Mesh{
		Pool:    pool,
		Params:  params,
		linkMap: make(map[types.EdgeKey]int),
		helpers: [3]int{-1, -1, -1},
		lastTri: -1,
	}
	return
}

func (m *Mesh) State() State { return m.state }

func (m *Mesh) NumTriangles() int { return m.numValid }

func (m *Mesh) uv(v int) r2.Vec { return m.Pool.Vertices[v].UV }

func (m *Mesh) isHelper(v int) bool {
	return v == m.helpers[0] || v == m.helpers[1] || v == m.helpers[2]
}

func (m *Mesh) stateError(op string, allowed ...State) error {
	return fmt.Errorf("%s: mesh is %s, want one of %v", op, m.state, allowed)
}

func (m *Mesh) inState(allowed ...State) bool {
	for _, s := range allowed {
		if m.state == s {
			return true
		}
	}
	return false
}

// Link returns the link joining a and b
func (m *Mesh) Link(a, b int) (l int, ok bool) {
	if a < 0 || b < 0 {
		return -1, false
	}
	l, ok = m.linkMap[types.NewEdgeKey([2]int{a, b})]
	return
}

// Triangles returns the node triples of the valid triangles
func (m *Mesh) Triangles() (tris [][3]int) {
	tris = make([][3]int, 0, m.numValid)
	for _, tri := range m.Tris {
		if tri.Valid {
			tris = append(tris, tri.Nodes)
		}
	}
	return
}

// Constraints returns the boundary segments recovered so far
func (m *Mesh) Constraints() []types.Segment { return m.constraints }

func (m *Mesh) getLink(a, b int) (l int) {
	key := types.NewEdgeKey([2]int{a, b})
	if l, ok := m.linkMap[key]; ok {
		return l
	}
	lk := Link{Nodes: key.GetVertices(false), Tris: [2]int{-1, -1}}
	if n := len(m.freeLinks); n > 0 {
		l = m.freeLinks[n-1]
		m.freeLinks = m.freeLinks[:n-1]
		m.Links[l] = lk
	} else {
		l = len(m.Links)
		m.Links = append(m.Links, lk)
	}
	m.linkMap[key] = l
	m.pending = append(m.pending, l)
	return
}

func (m *Mesh) reserve(n int) error {
	if m.Params.MaxTriangles > 0 && m.numValid+n > m.Params.MaxTriangles {
		return types.NewMeshError(types.ResourceExhausted, "triangulate",
			"triangle cap %d reached", m.Params.MaxTriangles)
	}
	return nil
}

// addTriangle expects a, b, c counter-clockwise
func (m *Mesh) addTriangle(a, b, c int) (t int, err error) {
	if err = m.reserve(1); err != nil {
		return -1, err
	}
	tri := Triangle{Nodes: [3]int{a, b, c}, Valid: true}
	for i := 0; i < 3; i++ {
		tri.Links[i] = m.getLink(tri.Nodes[i], tri.Nodes[(i+1)%3])
		if m.Links[tri.Links[i]].Count >= 2 {
			m.purge()
			err = types.NewMeshError(types.SpatialDegeneracy, "triangulate",
				"link %v already joins two triangles", m.Links[tri.Links[i]].Nodes)
			return -1, err
		}
	}
	if n := len(m.freeTris); n > 0 {
		t = m.freeTris[n-1]
		m.freeTris = m.freeTris[:n-1]
	} else {
		t = len(m.Tris)
		m.Tris = append(m.Tris, Triangle{})
	}
	for _, l := range tri.Links {
		lk := &m.Links[l]
		if lk.Tris[0] == -1 {
			lk.Tris[0] = t
		} else {
			lk.Tris[1] = t
		}
		lk.Count++
	}
	m.Tris[t] = tri
	m.numValid++
	for _, v := range tri.Nodes {
		m.setVertTri(v, t)
	}
	m.lastTri = t
	return
}

func (m *Mesh) removeTriangle(t int) {
	tri := &m.Tris[t]
	for _, l := range tri.Links {
		lk := &m.Links[l]
		if lk.Tris[0] == t {
			lk.Tris[0], lk.Tris[1] = lk.Tris[1], -1
		} else if lk.Tris[1] == t {
			lk.Tris[1] = -1
		}
		lk.Count--
		m.pending = append(m.pending, l)
	}
	tri.Valid = false
	m.freeTris = append(m.freeTris, t)
	m.numValid--
	if m.lastTri == t {
		m.lastTri = -1
	}
}

// purge drops links no triangle uses any more
func (m *Mesh) purge() {
	for _, l := range m.pending {
		lk := &m.Links[l]
		if lk.Count != 0 || lk.Nodes[0] < 0 {
			continue
		}
		delete(m.linkMap, types.NewEdgeKey(lk.Nodes))
		*lk = Link{Nodes: [2]int{-1, -1}, Tris: [2]int{-1, -1}}
		m.freeLinks = append(m.freeLinks, l)
	}
	m.pending = m.pending[:0]
}

func (m *Mesh) setVertTri(v, t int) {
	for len(m.vertTri) <= v {
		m.vertTri = append(m.vertTri, -1)
	}
	m.vertTri[v] = t
}

// vertexTriangle returns a valid triangle using v, or -1
func (m *Mesh) vertexTriangle(v int) int {
	if v < len(m.vertTri) {
		if t := m.vertTri[v]; t >= 0 && m.Tris[t].Valid && m.Tris[t].index(v) >= 0 {
			return t
		}
	}
	for t := range m.Tris {
		if m.Tris[t].Valid && m.Tris[t].index(v) >= 0 {
			m.setVertTri(v, t)
			return t
		}
	}
	return -1
}

func (m *Mesh) rebuildVertexHints() {
	m.vertTri = m.vertTri[:0]
	for t := range m.Tris {
		if m.Tris[t].Valid {
			for _, v := range m.Tris[t].Nodes {
				m.setVertTri(v, t)
			}
			m.lastTri = t
		}
	}
}

// orient returns the nodes of t rotated so that x-y is the link l and p is opposite
func (m *Mesh) orient(t, l int) (x, y, p int) {
	tri := &m.Tris[t]
	for i := 0; i < 3; i++ {
		if tri.Links[i] == l {
			return tri.Nodes[i], tri.Nodes[(i+1)%3], tri.Nodes[(i+2)%3]
		}
	}
	return -1, -1, -1
}

// trianglesAround returns the valid triangles using v, rotating through shared links
func (m *Mesh) trianglesAround(v int) (tris []int) {
	t0 := m.vertexTriangle(v)
	if t0 < 0 {
		return nil
	}
	t := t0
	for {
		tris = append(tris, t)
		k := m.Tris[t].index(v)
		next := m.Links[m.Tris[t].Links[(k+2)%3]].other(t)
		if next == t0 {
			return
		}
		if next < 0 || len(tris) > m.numValid {
			break
		}
		t = next
	}
	// Open fan: rotate the other way from the start
	t = t0
	for len(tris) <= m.numValid {
		k := m.Tris[t].index(v)
		next := m.Links[m.Tris[t].Links[k]].other(t)
		if next < 0 {
			return
		}
		tris = append(tris, next)
		t = next
	}
	return
}
