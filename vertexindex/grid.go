package vertexindex

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

type cellKey [2]int

// CellGrid is a uniform spatial hash over the working (u,v) frame. Cells are
// created on demand, so the grid has no fixed extent.
type CellGrid struct {
	CellSize r2.Vec
	cells    map[cellKey][]int
}

func NewCellGrid(cellSize r2.Vec) (cg *CellGrid) {
	cg = &CellGrid{
		CellSize: cellSize,
		cells:    make(map[cellKey][]int),
	}
	return
}

func (cg *CellGrid) key(p r2.Vec) cellKey {
	return cellKey{
		int(math.Floor(p.X / cg.CellSize.X)),
		int(math.Floor(p.Y / cg.CellSize.Y)),
	}
}

func (cg *CellGrid) Insert(index int, p r2.Vec) {
	k := cg.key(p)
	cg.cells[k] = append(cg.cells[k], index)
}

/*
Candidates returns every index stored in a cell touched by the box of radius
r around p. The result has no false negatives; callers filter with an exact
distance test. When the box would touch more cells than are occupied, the
occupied cells are scanned instead.
*/
func (cg *CellGrid) Candidates(p r2.Vec, r float64) (indices []int) {
	if r/cg.CellSize.X > 1.e9 || r/cg.CellSize.Y > 1.e9 {
		for _, cell := range cg.cells {
			indices = append(indices, cell...)
		}
		return
	}
	var (
		lo = cg.key(r2.Vec{X: p.X - r, Y: p.Y - r})
		hi = cg.key(r2.Vec{X: p.X + r, Y: p.Y + r})
	)
	span := float64(hi[0]-lo[0]+1) * float64(hi[1]-lo[1]+1)
	if span > float64(len(cg.cells)) {
		for k, cell := range cg.cells {
			if k[0] >= lo[0] && k[0] <= hi[0] && k[1] >= lo[1] && k[1] <= hi[1] {
				indices = append(indices, cell...)
			}
		}
		return
	}
	for i := lo[0]; i <= hi[0]; i++ {
		for j := lo[1]; j <= hi[1]; j++ {
			indices = append(indices, cg.cells[cellKey{i, j}]...)
		}
	}
	return
}
