package delaunay

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/gotess/geometry2D"
	"github.com/notargets/gotess/types"
)

// ClassifyFunc reports where a working-frame point lies relative to the face boundary
type ClassifyFunc func(p r2.Vec) types.Classification

/*
RemoveOutside drops the triangles touching a helper vertex and those whose
centroid is outside the face. A centroid on the boundary is settled by a vote
of three points pulled from the centroid toward each corner; a tie keeps the
triangle.
*/
func (m *Mesh) RemoveOutside(classify ClassifyFunc) (err error) {
	if m.state != ConstraintsInserted {
		return m.stateError("remove outside", ConstraintsInserted)
	}
	for t := range m.Tris {
		tri := &m.Tris[t]
		if !tri.Valid {
			continue
		}
		if m.isHelper(tri.Nodes[0]) || m.isHelper(tri.Nodes[1]) || m.isHelper(tri.Nodes[2]) {
			m.removeTriangle(t)
			continue
		}
		if !m.retained(tri.Nodes, classify) {
			m.removeTriangle(t)
		}
	}
	m.purge()
	m.rebuildVertexHints()
	m.state = Cleaned
	return
}

func (m *Mesh) retained(n [3]int, classify ClassifyFunc) bool {
	if classify == nil {
		return true
	}
	a, b, c := m.uv(n[0]), m.uv(n[1]), m.uv(n[2])
	cen := geometry2D.Centroid(a, b, c)
	if c := classify(cen); c != types.On {
		return c.Retained()
	}
	var in, out int
	for _, p := range []r2.Vec{a, b, c} {
		switch classify(r2.Add(cen, r2.Scale(0.5, r2.Sub(p, cen)))) {
		case types.In:
			in++
		case types.Out:
			out++
		}
	}
	return out <= in
}

/*
Finalize compacts the vertex pool to the vertices still in use and rebuilds
links and triangles with dense indices. Constrained kinds survive. The
returned map takes old vertex indices to new ones, -1 for dropped vertices.
*/
func (m *Mesh) Finalize() (remap []int, err error) {
	if m.state != Cleaned {
		return nil, m.stateError("finalize", Cleaned)
	}
	keep := make([]bool, m.Pool.Len())
	for _, tri := range m.Tris {
		if tri.Valid {
			for _, v := range tri.Nodes {
				keep[v] = true
			}
		}
	}
	var (
		tris        = m.Triangles()
		constrained []types.Segment
	)
	for _, lk := range m.Links {
		if lk.Count > 0 && lk.Kind == types.Constrained {
			constrained = append(constrained, types.Segment(lk.Nodes))
		}
	}
	remap = m.Pool.Compact(keep)
	m.Links, m.Tris = m.Links[:0], m.Tris[:0]
	m.linkMap = make(map[types.EdgeKey]int, len(constrained))
	m.freeTris, m.freeLinks, m.pending, m.vertTri = nil, nil, nil, nil
	m.helpers = [3]int{-1, -1, -1}
	m.numValid, m.lastTri = 0, -1
	for _, n := range tris {
		if _, err = m.addTriangle(remap[n[0]], remap[n[1]], remap[n[2]]); err != nil {
			return
		}
	}
	m.purge()
	for _, s := range constrained {
		if l, ok := m.Link(remap[s[0]], remap[s[1]]); ok {
			m.Links[l].Kind = types.Constrained
		}
	}
	cons := m.constraints[:0]
	for _, s := range m.constraints {
		if a, b := remap[s[0]], remap[s[1]]; a >= 0 && b >= 0 {
			cons = append(cons, types.Segment{a, b})
		}
	}
	m.constraints = cons
	m.state = Final
	return
}
