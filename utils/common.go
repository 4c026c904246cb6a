package utils

const (
	NODETOL = 1.e-12
	// CellFactor is the grid cell edge of the vertex index as a multiple of the per-axis tolerance
	CellFactor = 14.
)
