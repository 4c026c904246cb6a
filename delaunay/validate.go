package delaunay

import (
	"fmt"
	"math"

	"github.com/james-bowman/sparse"

	"github.com/notargets/gotess/geometry2D"
	"github.com/notargets/gotess/types"
)

// CheckDelaunay returns the interior links that fail the in-circle test beyond cocircular noise
func (m *Mesh) CheckDelaunay() (bad []int) {
	for l := range m.Links {
		lk := &m.Links[l]
		if lk.Count != 2 || lk.Kind != types.Interior {
			continue
		}
		x, y, p1, p2 := m.quad(l)
		det, perm := geometry2D.InCircleDet(m.uv(x), m.uv(y), m.uv(p1), m.uv(p2))
		if det > m.Params.CocircularTol*perm {
			bad = append(bad, l)
		}
	}
	return
}

/*
CheckConstraints verifies that every segment is present as a Constrained link,
or as a chain of Constrained links through vertices inserted on the segment.
*/
func (m *Mesh) CheckConstraints(segments []types.Segment) (err error) {
	adj := make(map[int][]int)
	for _, lk := range m.Links {
		if lk.Count > 0 && lk.Kind == types.Constrained {
			adj[lk.Nodes[0]] = append(adj[lk.Nodes[0]], lk.Nodes[1])
			adj[lk.Nodes[1]] = append(adj[lk.Nodes[1]], lk.Nodes[0])
		}
	}
	for _, s := range segments {
		if !m.constrainedPath(adj, s[0], s[1]) {
			return types.NewMeshError(types.SpatialDegeneracy, "check constraints",
				"segment %d-%d is not a constrained link chain", s[0], s[1])
		}
	}
	return
}

func (m *Mesh) constrainedPath(adj map[int][]int, a, b int) bool {
	var (
		pa, pb = m.uv(a), m.uv(b)
		tol    = 1.e-9 * math.Max(1, math.Hypot(pb.X-pa.X, pb.Y-pa.Y))
		cur    = a
	)
	for steps := 0; steps <= len(adj); steps++ {
		if cur == b {
			return true
		}
		var (
			best  = -1
			bestD = math.Hypot(m.uv(cur).X-pb.X, m.uv(cur).Y-pb.Y)
		)
		for _, w := range adj[cur] {
			pw := m.uv(w)
			if geometry2D.DistanceToSegment(pw, pa, pb) > tol {
				continue
			}
			if d := math.Hypot(pw.X-pb.X, pw.Y-pb.Y); d < bestD {
				best, bestD = w, d
			}
		}
		if best < 0 {
			return false
		}
		cur = best
	}
	return false
}

// CheckTopology verifies link and triangle cross references, the boundary link kinds and a manifold boundary
func (m *Mesh) CheckTopology() (err error) {
	fail := func(format string, args ...interface{}) error {
		return types.NewMeshError(types.SpatialDegeneracy, "check topology", format, args...)
	}
	counts := make(map[int]int)
	for t, tri := range m.Tris {
		if !tri.Valid {
			continue
		}
		for i, l := range tri.Links {
			a, b := tri.Nodes[i], tri.Nodes[(i+1)%3]
			if got, ok := m.Link(a, b); !ok || got != l {
				return fail("triangle %d side %d-%d has no link", t, a, b)
			}
			if m.Links[l].Tris[0] != t && m.Links[l].Tris[1] != t {
				return fail("link %d does not reference triangle %d", l, t)
			}
			counts[l]++
		}
		if geometry2D.Orientation(m.uv(tri.Nodes[0]), m.uv(tri.Nodes[1]), m.uv(tri.Nodes[2])) !=
			geometry2D.CounterClockwise {
			return fail("triangle %d is not counter-clockwise", t)
		}
	}
	for key, l := range m.linkMap {
		lk := &m.Links[l]
		if types.NewEdgeKey(lk.Nodes) != key {
			return fail("link %d is stored under the wrong key", l)
		}
		if int(lk.Count) != counts[l] {
			return fail("link %v counts %d triangles, found %d", lk.Nodes, lk.Count, counts[l])
		}
		switch {
		case lk.Count == 0:
			return fail("link %v is unused", lk.Nodes)
		case lk.Count == 1 && lk.Kind == types.Interior:
			return fail("free link %v is not part of the boundary", lk.Nodes)
		}
	}
	// A manifold boundary passes through each of its vertices once: two links used by one triangle
	free := make([]int, m.Pool.Len())
	m.Connectivity().DoNonZero(func(i, j int, v float64) {
		if v == 1 {
			free[i]++
		}
	})
	for v, n := range free {
		if n != 0 && n != 2 {
			return fail("boundary vertex %d has %d free links", v, n)
		}
	}
	return
}

// Connectivity returns the vertex adjacency matrix, valued by link multiplicity
func (m *Mesh) Connectivity() *sparse.CSR {
	n := m.Pool.Len()
	dok := sparse.NewDOK(n, n)
	for _, lk := range m.Links {
		if lk.Count == 0 {
			continue
		}
		dok.Set(lk.Nodes[0], lk.Nodes[1], float64(lk.Count))
		dok.Set(lk.Nodes[1], lk.Nodes[0], float64(lk.Count))
	}
	return dok.ToCSR()
}

func (m *Mesh) String() string {
	var constrained, boundary int
	for _, lk := range m.Links {
		if lk.Count == 0 {
			continue
		}
		if lk.Kind == types.Constrained {
			constrained++
		}
		if lk.Count == 1 {
			boundary++
		}
	}
	return fmt.Sprintf("%s mesh: %d vertices, %d links, %d triangles, %d constrained, %d boundary",
		m.state, m.Pool.Len(), len(m.linkMap), m.numValid, constrained, boundary)
}
