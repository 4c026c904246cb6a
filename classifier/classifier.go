package classifier

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/gotess/geometry2D"
	"github.com/notargets/gotess/types"
)

const minPad = 1.e-12

type segment struct {
	a, b        r2.Vec
	wire, index int
	wireLen     int
	rect        rtreego.Rect
}

func (s *segment) Bounds() rtreego.Rect { return s.rect }

func (s *segment) adjacent(o *segment) bool {
	if s.wire != o.wire {
		return false
	}
	d := s.index - o.index
	if d < 0 {
		d = -d
	}
	return d == 1 || d == s.wireLen-1
}

/*
Classifier answers In/Out/On queries against a face's closed polylines with
an even-odd crossing count of the +u ray. Segment boxes live in an R-tree, so
a query only looks at segments whose box meets the ray.
*/
type Classifier struct {
	tree      *rtreego.Rtree
	box       r2.Box
	tol, pad  float64
	ambiguous int
}

// New builds the classifier; each polyline is closed by an implied segment
func New(polylines [][]r2.Vec, tol float64) (c *Classifier) {
	var (
		objs  []rtreego.Spatial
		first = true
	)
	c = &Classifier{tol: tol, pad: math.Max(tol, minPad)}
	for w, line := range polylines {
		n := len(line)
		for i := 0; i < n; i++ {
			a, b := line[i], line[(i+1)%n]
			rect, _ := rtreego.NewRectFromPoints(
				rtreego.Point{math.Min(a.X, b.X) - c.pad, math.Min(a.Y, b.Y) - c.pad},
				rtreego.Point{math.Max(a.X, b.X) + c.pad, math.Max(a.Y, b.Y) + c.pad})
			objs = append(objs, &segment{a: a, b: b, wire: w, index: i, wireLen: n, rect: rect})
			if first {
				c.box = r2.Box{Min: a, Max: a}
				first = false
			}
			c.box = geometry2D.GrowBox(c.box, a)
		}
	}
	c.tree = rtreego.NewTree(2, 4, 16, objs...)
	return
}

func (c *Classifier) Size() int { return c.tree.Size() }

// Ambiguous counts queries that fell within tolerance of two unrelated segments
func (c *Classifier) Ambiguous() int { return c.ambiguous }

func (c *Classifier) Classify(p r2.Vec) types.Classification {
	if c.tree.Size() == 0 || !geometry2D.PointInside(geometry2D.PadBox(c.box, c.pad), p) {
		return types.Out
	}
	var near []*segment
	for _, obj := range c.tree.SearchIntersect(rtreego.Point{p.X, p.Y}.ToRect(c.pad)) {
		s := obj.(*segment)
		if geometry2D.DistanceToSegment(p, s.a, s.b) <= c.tol {
			near = append(near, s)
		}
	}
	if len(near) > 0 {
		// On two unrelated boundary pieces at once: resolved as On
		for i := 1; i < len(near); i++ {
			if !near[0].adjacent(near[i]) {
				c.ambiguous++
				break
			}
		}
		return types.On
	}
	ray, err := rtreego.NewRectFromPoints(
		rtreego.Point{p.X, p.Y - c.pad},
		rtreego.Point{c.box.Max.X + c.pad, p.Y + c.pad})
	if err != nil {
		return types.Out
	}
	var crossings int
	for _, obj := range c.tree.SearchIntersect(ray) {
		s := obj.(*segment)
		a, b := s.a, s.b
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if x > p.X {
				crossings++
			}
		}
	}
	if crossings%2 == 1 {
		return types.In
	}
	return types.Out
}
