package types

import (
	"fmt"
	"math"
)

/*
EdgeKey stores a link's two vertex indices in one always positive number.
A link between vertices [4] and [0] is always stored as [0,4], ascending, so
that both orientations of the same link hash to the same key.
*/
type EdgeKey uint64

func NewEdgeKey(verts [2]int) (packed EdgeKey) {
	// Two 32 bit unsigned indices packed into one uint64
	var (
		limit = math.MaxUint32
	)
	for _, vert := range verts {
		if vert < 0 || vert > limit {
			panic(fmt.Errorf("unable to pack two ints into a uint64, have %d and %d as inputs",
				verts[0], verts[1]))
		}
	}
	var i1, i2 int
	if verts[0] <= verts[1] {
		i1, i2 = verts[0], verts[1]
	} else {
		i1, i2 = verts[1], verts[0]
	}
	packed = EdgeKey(i1 + i2<<32)
	return
}

func (ek EdgeKey) GetVertices(rev bool) (verts [2]int) {
	var (
		enTmp EdgeKey
	)
	enTmp = ek >> 32
	verts[1] = int(enTmp)
	verts[0] = int(ek - enTmp*(1<<32))
	if rev {
		verts[0], verts[1] = verts[1], verts[0]
	}
	return
}

// Segment is a directed pair of vertex indices, used for boundary constraints
type Segment [2]int

func (s Segment) Key() EdgeKey { return NewEdgeKey(s) }

func (s Segment) Reverse() Segment { return Segment{s[1], s[0]} }
