package geometry2D

import (
	"math"
	"math/big"

	"gonum.org/v1/gonum/spatial/r2"
)

// Error bounds for the float fast path, after Shewchuk's adaptive predicates
const (
	epsilon      = 1.1102230246251565e-16 // 2^-53
	ccwErrBoundA = (3 + 16*epsilon) * epsilon
	iccErrBoundA = (10 + 96*epsilon) * epsilon
)

type Direction int8

const (
	Clockwise        Direction = -1
	Collinear        Direction = 0
	CounterClockwise Direction = 1
)

// Orient2D returns twice the signed area of abc, positive when abc is counter-clockwise
func Orient2D(a, b, c r2.Vec) float64 {
	return (a.X-c.X)*(b.Y-c.Y) - (a.Y-c.Y)*(b.X-c.X)
}

// Orientation is the exact sign of Orient2D
func Orientation(a, b, c r2.Vec) Direction {
	var (
		detleft  = (a.X - c.X) * (b.Y - c.Y)
		detright = (a.Y - c.Y) * (b.X - c.X)
		det      = detleft - detright
		bound    = ccwErrBoundA * (math.Abs(detleft) + math.Abs(detright))
	)
	switch {
	case det > bound:
		return CounterClockwise
	case -det > bound:
		return Clockwise
	}
	return Direction(exactOrient(a, b, c))
}

// InCircleDet returns the in-circle determinant for counter-clockwise abc and the
// permanent used to bound its rounding error. det > 0 when d is inside the circumcircle.
func InCircleDet(a, b, c, d r2.Vec) (det, permanent float64) {
	var (
		adx, ady = a.X - d.X, a.Y - d.Y
		bdx, bdy = b.X - d.X, b.Y - d.Y
		cdx, cdy = c.X - d.X, c.Y - d.Y

		bdxcdy, cdxbdy = bdx * cdy, cdx * bdy
		cdxady, adxcdy = cdx * ady, adx * cdy
		adxbdy, bdxady = adx * bdy, bdx * ady

		alift = adx*adx + ady*ady
		blift = bdx*bdx + bdy*bdy
		clift = cdx*cdx + cdy*cdy
	)
	det = alift*(bdxcdy-cdxbdy) + blift*(cdxady-adxcdy) + clift*(adxbdy-bdxady)
	permanent = (math.Abs(bdxcdy)+math.Abs(cdxbdy))*alift +
		(math.Abs(cdxady)+math.Abs(adxcdy))*blift +
		(math.Abs(adxbdy)+math.Abs(bdxady))*clift
	return
}

// InCircle returns +1 when d is strictly inside the circumcircle of counter-clockwise abc,
// -1 when outside and 0 when cocircular
func InCircle(a, b, c, d r2.Vec) int {
	det, permanent := InCircleDet(a, b, c, d)
	bound := iccErrBoundA * permanent
	switch {
	case det > bound:
		return 1
	case -det > bound:
		return -1
	}
	return exactInCircle(a, b, c, d)
}

func rat(f float64) *big.Rat { return new(big.Rat).SetFloat64(f) }

func exactOrient(a, b, c r2.Vec) int {
	var (
		acx = new(big.Rat).Sub(rat(a.X), rat(c.X))
		acy = new(big.Rat).Sub(rat(a.Y), rat(c.Y))
		bcx = new(big.Rat).Sub(rat(b.X), rat(c.X))
		bcy = new(big.Rat).Sub(rat(b.Y), rat(c.Y))
	)
	left := new(big.Rat).Mul(acx, bcy)
	right := new(big.Rat).Mul(acy, bcx)
	return left.Cmp(right)
}

func exactInCircle(a, b, c, d r2.Vec) int {
	var (
		dx, dy = rat(d.X), rat(d.Y)
		rel    = func(p r2.Vec) (x, y, lift *big.Rat) {
			x = new(big.Rat).Sub(rat(p.X), dx)
			y = new(big.Rat).Sub(rat(p.Y), dy)
			lift = new(big.Rat).Add(new(big.Rat).Mul(x, x), new(big.Rat).Mul(y, y))
			return
		}
		cross = func(x1, y1, x2, y2 *big.Rat) *big.Rat {
			return new(big.Rat).Sub(new(big.Rat).Mul(x1, y2), new(big.Rat).Mul(x2, y1))
		}
	)
	ax, ay, al := rel(a)
	bx, by, bl := rel(b)
	cx, cy, cl := rel(c)
	det := new(big.Rat).Mul(al, cross(bx, by, cx, cy))
	det.Add(det, new(big.Rat).Mul(bl, cross(cx, cy, ax, ay)))
	det.Add(det, new(big.Rat).Mul(cl, cross(ax, ay, bx, by)))
	return det.Sign()
}
