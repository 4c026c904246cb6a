package classifier

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/gotess/geometry2D"
	"github.com/notargets/gotess/types"
)

func square(x0, y0, x1, y1 float64) []r2.Vec {
	return []r2.Vec{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

func TestClassifySquareWithHole(t *testing.T) {
	var (
		tol = 1.e-6
		c   = New([][]r2.Vec{square(0, 0, 1, 1), square(0.4, 0.4, 0.6, 0.6)}, tol)
	)
	assert.Equal(t, 8, c.Size())
	cases := []struct {
		p    r2.Vec
		want types.Classification
	}{
		{r2.Vec{X: 0.2, Y: 0.2}, types.In},
		{r2.Vec{X: 0.5, Y: 0.5}, types.Out}, // inside the hole
		{r2.Vec{X: 1.5, Y: 0.5}, types.Out},
		{r2.Vec{X: -0.1, Y: 0.5}, types.Out},
		{r2.Vec{X: 0.5, Y: 0}, types.On},
		{r2.Vec{X: 0.4, Y: 0.5}, types.On},
		{r2.Vec{X: 0.4 - tol/2, Y: 0.5}, types.On},
		{r2.Vec{X: 0.4 - 10*tol, Y: 0.5}, types.In},
		{r2.Vec{X: 0.2, Y: 0.4}, types.In}, // ray along the hole's bottom side
		{r2.Vec{X: 0.2, Y: 0.6}, types.In},
		{r2.Vec{X: 0, Y: 0}, types.On},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, c.Classify(tc.p), "point %v", tc.p)
	}
	assert.Equal(t, 0, c.Ambiguous())
}

func TestClassifyAgainstWindingNumber(t *testing.T) {
	// A star shaped polygon checked against the winding number on random points
	var (
		star []r2.Vec
		n    = 11
	)
	for i := 0; i < 2*n; i++ {
		r := 1.
		if i%2 == 1 {
			r = 0.45
		}
		a := math.Pi * float64(i) / float64(n)
		star = append(star, r2.Vec{X: r * math.Cos(a), Y: r * math.Sin(a)})
	}
	c := New([][]r2.Vec{star}, 1.e-9)
	rnd := rand.New(rand.NewSource(3))
	for k := 0; k < 3000; k++ {
		p := r2.Vec{X: 2.4*rnd.Float64() - 1.2, Y: 2.4*rnd.Float64() - 1.2}
		want := types.Out
		if geometry2D.WindingNumber(star, p) != 0 {
			want = types.In
		}
		got := c.Classify(p)
		if got == types.On {
			continue
		}
		assert.Equal(t, want, got, "point %v", p)
	}
}

func TestClassifyAmbiguous(t *testing.T) {
	// Two holes closer than tolerance; a point between them touches both
	tol := 1.e-3
	c := New([][]r2.Vec{
		square(0, 0, 4, 1),
		square(1, 0.25, 2, 0.75),
		square(2+tol/2, 0.25, 3, 0.75),
	}, tol)
	assert.Equal(t, types.On, c.Classify(r2.Vec{X: 2 + tol/4, Y: 0.5}))
	assert.Equal(t, 1, c.Ambiguous())
	assert.Equal(t, types.Out, New(nil, tol).Classify(r2.Vec{}))
}
