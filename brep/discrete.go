package brep

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Polygon3D is an edge's authoritative discretization, shared by every face using the edge
type Polygon3D struct {
	Params []float64
	Points []r3.Vec
}

func (p *Polygon3D) PointCount() int {
	if p == nil {
		return 0
	}
	return len(p.Points)
}

func (p *Polygon3D) InsertPoint(i int, pt r3.Vec, param float64) {
	p.Points = append(p.Points, r3.Vec{})
	copy(p.Points[i+1:], p.Points[i:])
	p.Points[i] = pt
	p.Params = append(p.Params, 0)
	copy(p.Params[i+1:], p.Params[i:])
	p.Params[i] = param
}

// PCurve holds the samples of an edge in one face's parameter space, in edge parameter order
type PCurve struct {
	Points []r2.Vec
	Params []float64
}

func (pc *PCurve) PointCount() int {
	if pc == nil {
		return 0
	}
	return len(pc.Points)
}

func (pc *PCurve) Point(i int) r2.Vec { return pc.Points[i] }

func (pc *PCurve) Parameter(i int) float64 { return pc.Params[i] }

func (pc *PCurve) InsertPoint(i int, p r2.Vec, param float64) {
	pc.Points = append(pc.Points, r2.Vec{})
	copy(pc.Points[i+1:], pc.Points[i:])
	pc.Points[i] = p
	pc.Params = append(pc.Params, 0)
	copy(pc.Params[i+1:], pc.Params[i:])
	pc.Params[i] = param
}

func (pc *PCurve) Append(p r2.Vec, param float64) {
	pc.Points = append(pc.Points, p)
	pc.Params = append(pc.Params, param)
}

func (pc *PCurve) Reset() {
	pc.Points = pc.Points[:0]
	pc.Params = pc.Params[:0]
}
