package vertexindex

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gotess/geometry2D"
	"github.com/notargets/gotess/types"
	"github.com/notargets/gotess/utils"
)

type Vertex struct {
	UV         r2.Vec // working (normalized) parameter coordinates
	Location3D int    // index into Pool.Nodes3D, -1 for helper vertices
	Movability types.Movability
}

/*
Pool owns every vertex of one face. All other structures refer to vertices by
index into Vertices. Adding a vertex within tolerance of an existing one
returns the existing index.
*/
type Pool struct {
	Vertices    []Vertex
	Nodes3D     []r3.Vec
	TolU, TolV  float64
	MaxVertices int // zero means no cap
	grid        *CellGrid
	extents     r2.Box
	empty       bool
}

func NewPool(tolU, tolV, cellFactor float64) (p *Pool) {
	if cellFactor <= 0 {
		cellFactor = utils.CellFactor
	}
	p = &Pool{
		TolU:  tolU,
		TolV:  tolV,
		grid:  NewCellGrid(r2.Vec{X: cellFactor * tolU, Y: cellFactor * tolV}),
		empty: true,
	}
	return
}

func (p *Pool) Len() int { return len(p.Vertices) }

func (p *Pool) UV(i int) r2.Vec { return p.Vertices[i].UV }

// Extents is the bounding box of all pooled vertices
func (p *Pool) Extents() r2.Box { return p.extents }

func (p *Pool) within(a, b r2.Vec) bool {
	du, dv := (a.X-b.X)/p.TolU, (a.Y-b.Y)/p.TolV
	return du*du+dv*dv <= 1
}

// Find returns the closest vertex within tolerance of uv
func (p *Pool) Find(uv r2.Vec) (index int, found bool) {
	var (
		best = math.MaxFloat64
	)
	index = -1
	for _, i := range p.grid.Candidates(uv, math.Max(p.TolU, p.TolV)) {
		v := p.Vertices[i].UV
		if !p.within(uv, v) {
			continue
		}
		if d := r2.Norm2(r2.Sub(uv, v)); d < best {
			best, index, found = d, i, true
		}
	}
	return
}

/*
Add inserts a vertex or merges it with an existing one within tolerance. A
merged vertex keeps the stronger movability tag and gains the 3D point if it
had none.
*/
func (p *Pool) Add(v Vertex, pt *r3.Vec) (index int, isNew bool, err error) {
	if i, found := p.Find(v.UV); found {
		existing := &p.Vertices[i]
		if v.Movability.Rank() > existing.Movability.Rank() {
			existing.Movability = v.Movability
		}
		if existing.Location3D < 0 && pt != nil {
			existing.Location3D = len(p.Nodes3D)
			p.Nodes3D = append(p.Nodes3D, *pt)
		}
		return i, false, nil
	}
	if p.MaxVertices > 0 && len(p.Vertices) >= p.MaxVertices {
		err = types.NewMeshError(types.ResourceExhausted, "vertex pool",
			"vertex cap %d reached", p.MaxVertices)
		return -1, false, err
	}
	v.Location3D = -1
	if pt != nil {
		v.Location3D = len(p.Nodes3D)
		p.Nodes3D = append(p.Nodes3D, *pt)
	}
	index = len(p.Vertices)
	p.Vertices = append(p.Vertices, v)
	p.grid.Insert(index, v.UV)
	if p.empty {
		p.extents = r2.Box{Min: v.UV, Max: v.UV}
		p.empty = false
	} else {
		p.extents = geometry2D.GrowBox(p.extents, v.UV)
	}
	return index, true, nil
}

// AddHelper adds a vertex that takes no part in merging, such as a bounding triangle corner
func (p *Pool) AddHelper(uv r2.Vec) (index int) {
	index = len(p.Vertices)
	p.Vertices = append(p.Vertices, Vertex{UV: uv, Location3D: -1, Movability: types.Free})
	return
}

// QueryRadius returns vertices that may lie within r of uv, never missing one that does
func (p *Pool) QueryRadius(uv r2.Vec, r float64) (indices []int) {
	return p.grid.Candidates(uv, r)
}

// WithinRadius filters QueryRadius by exact distance
func (p *Pool) WithinRadius(uv r2.Vec, r float64) (indices []int) {
	for _, i := range p.grid.Candidates(uv, r) {
		if r2.Norm(r2.Sub(p.Vertices[i].UV, uv)) <= r {
			indices = append(indices, i)
		}
	}
	return
}

/*
Compact keeps the vertices flagged in keep and returns the old to new index
map, -1 for dropped vertices. The 3D point list and the grid are rebuilt.
*/
func (p *Pool) Compact(keep []bool) (remap []int) {
	var (
		verts   = make([]Vertex, 0, len(p.Vertices))
		nodes3D = make([]r3.Vec, 0, len(p.Nodes3D))
	)
	remap = make([]int, len(p.Vertices))
	p.grid = NewCellGrid(p.grid.CellSize)
	p.empty = true
	for i, v := range p.Vertices {
		if i >= len(keep) || !keep[i] {
			remap[i] = -1
			continue
		}
		if v.Location3D >= 0 {
			nodes3D = append(nodes3D, p.Nodes3D[v.Location3D])
			v.Location3D = len(nodes3D) - 1
		}
		remap[i] = len(verts)
		verts = append(verts, v)
		p.grid.Insert(remap[i], v.UV)
		if p.empty {
			p.extents = r2.Box{Min: v.UV, Max: v.UV}
			p.empty = false
		} else {
			p.extents = geometry2D.GrowBox(p.extents, v.UV)
		}
	}
	p.Vertices, p.Nodes3D = verts, nodes3D
	return
}

func (p *Pool) CellSize() r2.Vec { return p.grid.CellSize }
