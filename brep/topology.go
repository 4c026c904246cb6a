package brep

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gotess/types"
)

type Edge struct {
	ID          int
	Curve       Curve3D
	Degenerated bool
	Polygon     *Polygon3D
	CoEdges     []*CoEdge // every use of this edge, filled by NewModel
}

// CoEdge is one use of an edge by a face, with the edge's curve in that face's parameter space
type CoEdge struct {
	Edge     *Edge
	Curve    Curve2D
	Reversed bool
	PCurve   *PCurve
	Face     *Face
}

type Wire struct {
	CoEdges []*CoEdge
}

type Face struct {
	ID            int
	Surface       Surface
	Wires         []*Wire
	Reversed      bool
	Triangulation *Triangulation
	Status        types.FaceStatus
}

// Triangulation is the mesh attached to a face
type Triangulation struct {
	Nodes      []r3.Vec
	UVNodes    []r2.Vec
	Triangles  [][3]int
	Deflection float64
}

func (tr *Triangulation) NumTriangles() int {
	if tr == nil {
		return 0
	}
	return len(tr.Triangles)
}

// IndicesInRange reports whether every triangle references an existing node
func (tr *Triangulation) IndicesInRange() bool {
	for _, tri := range tr.Triangles {
		for _, n := range tri {
			if n < 0 || n >= len(tr.Nodes) {
				return false
			}
		}
	}
	return true
}

// SeamEdges returns edges used twice by the face's wires
func (f *Face) SeamEdges() (seams []*Edge) {
	uses := make(map[*Edge]int)
	for _, w := range f.Wires {
		for _, ce := range w.CoEdges {
			uses[ce.Edge]++
			if uses[ce.Edge] == 2 {
				seams = append(seams, ce.Edge)
			}
		}
	}
	return
}

// CoEdgesOf returns the face's uses of the edge
func (f *Face) CoEdgesOf(e *Edge) (ces []*CoEdge) {
	for _, w := range f.Wires {
		for _, ce := range w.CoEdges {
			if ce.Edge == e {
				ces = append(ces, ce)
			}
		}
	}
	return
}

// Domain is the parameter box of the face's boundary curves
func (f *Face) Domain() (box r2.Box) {
	const nSample = 8
	var first = true
	for _, w := range f.Wires {
		for _, ce := range w.CoEdges {
			t0, t1 := ce.Curve.Range()
			for i := 0; i <= nSample; i++ {
				p := ce.Curve.Value(t0 + (t1-t0)*float64(i)/nSample)
				if first {
					box = r2.Box{Min: p, Max: p}
					first = false
					continue
				}
				box.Min.X, box.Min.Y = math.Min(box.Min.X, p.X), math.Min(box.Min.Y, p.Y)
				box.Max.X, box.Max.Y = math.Max(box.Max.X, p.X), math.Max(box.Max.Y, p.Y)
			}
		}
	}
	return
}

type Model struct {
	Faces []*Face
	Edges []*Edge
}

// NewModel collects the unique edges of the faces and links each edge to its co-edges
func NewModel(faces ...*Face) (m *Model) {
	m = &Model{Faces: faces}
	seen := make(map[*Edge]bool)
	for _, f := range faces {
		for _, w := range f.Wires {
			for _, ce := range w.CoEdges {
				ce.Face = f
				e := ce.Edge
				if !seen[e] {
					seen[e] = true
					e.ID = len(m.Edges)
					e.CoEdges = e.CoEdges[:0]
					m.Edges = append(m.Edges, e)
				}
				e.CoEdges = append(e.CoEdges, ce)
			}
		}
	}
	return
}

func (m *Model) Face(id int) *Face {
	for _, f := range m.Faces {
		if f.ID == id {
			return f
		}
	}
	return nil
}
