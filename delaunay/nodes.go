package delaunay

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gotess/types"
	"github.com/notargets/gotess/vertexindex"
)

// ErrNodeRejected is returned by AddNode for a point that may not join the mesh
var ErrNodeRejected = errors.New("node rejected")

/*
AddNode inserts an interior point into a mesh whose boundary is already
recovered. Points on the boundary, on a constrained link, or outside the mesh
are rejected, as are points classified outside unless forceAdd is set. A point
within tolerance of an existing vertex returns that vertex. The pool is left
unchanged when the point is rejected.
*/
func (m *Mesh) AddNode(pt *r3.Vec, uv r2.Vec, mov types.Movability, forceAdd bool,
	classify ClassifyFunc) (v int, err error) {
	if !m.inState(ConstraintsInserted, Cleaned, Final) {
		return -1, m.stateError("add node", ConstraintsInserted, Cleaned, Final)
	}
	if classify != nil {
		switch classify(uv) {
		case types.On:
			return -1, ErrNodeRejected
		case types.Out:
			if !forceAdd {
				return -1, ErrNodeRejected
			}
		}
	}
	if i, found := m.Pool.Find(uv); found {
		return i, nil
	}
	t, loc, idx := m.locate(uv, m.hint(uv))
	switch loc {
	case outside:
		return -1, ErrNodeRejected
	case onVertex:
		return m.Tris[t].Nodes[idx], nil
	case onEdge:
		if m.Links[m.Tris[t].Links[idx]].Kind != types.Interior {
			return -1, ErrNodeRejected
		}
	}
	if err = m.reserve(2); err != nil {
		return -1, err
	}
	if v, _, err = m.Pool.Add(vertexindex.Vertex{UV: uv, Movability: mov}, pt); err != nil {
		return -1, err
	}
	if loc == onEdge {
		err = m.splitEdge(t, idx, v)
	} else {
		err = m.splitTriangle(t, v)
	}
	return
}
