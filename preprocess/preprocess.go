package preprocess

import (
	"log"
	"math"

	"github.com/notargets/gotess/brep"
	"github.com/notargets/gotess/rangesplit"
	"github.com/notargets/gotess/types"
)

type Options struct {
	Deflection           float64
	Angle                float64
	AllowQualityDecrease bool
	SeamAmplification    bool
	Verbose              bool
}

type Report struct {
	FaceID      int
	Status      types.FaceStatus
	SeamPoints  int  // samples added on seam edges
	Invalidated bool // a cached mesh of this face is stale
}

/*
CheckConsistency decides whether the face's existing triangulation can be
kept: it must exist, be at least as fine as requested unless a coarser mesh
is allowed, and reference only existing nodes.
*/
func CheckConsistency(f *brep.Face, deflection float64, allowDecrease bool) types.FaceStatus {
	tr := f.Triangulation
	if tr.NumTriangles() == 0 {
		return types.Outdated
	}
	if tr.Deflection > deflection && !allowDecrease {
		return types.Outdated
	}
	if !tr.IndicesInRange() {
		return types.Outdated
	}
	return types.Reused
}

/*
AmplifySeams adds samples to the seam edges of a cone face. A seam whose two
pcurves carry only their end points spans the whole generator with a single
segment, so it gets the cone's v grid step instead. Both pcurves and the edge
polygon receive the same parameters.
*/
func AmplifySeams(f *brep.Face, deflection, angle float64) (inserted int, err error) {
	cone, ok := f.Surface.(*brep.Cone)
	if !ok {
		return
	}
	sp := rangesplit.New(cone)
	sp.Reset(deflection, angle)
	box := f.Domain()
	sp.AddPoint(box.Min)
	sp.AddPoint(box.Max)
	_, stepV, _, _ := sp.GetSplitSteps()
	if stepV <= 0 || math.IsNaN(stepV) {
		return 0, types.NewMeshError(types.InvalidInput, "seam amplification",
			"cone face %d has no usable v step", f.ID)
	}
	for _, e := range f.SeamEdges() {
		ces := f.CoEdgesOf(e)
		if len(ces) != 2 || e.Polygon.PointCount() != 2 {
			continue
		}
		if ces[0].PCurve.PointCount() != 2 || ces[1].PCurve.PointCount() != 2 {
			continue
		}
		var (
			dv = math.Abs(ces[0].PCurve.Point(1).Y - ces[0].PCurve.Point(0).Y)
			n  = int(math.Ceil(dv/stepV - 1.e-9))
			t0 = e.Polygon.Params[0]
			t1 = e.Polygon.Params[1]
		)
		for k := 1; k < n; k++ {
			t := t0 + (t1-t0)*float64(k)/float64(n)
			e.Polygon.InsertPoint(k, e.Curve.Value(t), t)
			for _, ce := range ces {
				ce.PCurve.InsertPoint(k, ce.Curve.Value(t), t)
			}
			inserted++
		}
	}
	return
}

// Process runs the consistency check and seam amplification on one face and records its status
func Process(f *brep.Face, opts Options) (rep Report, err error) {
	rep.FaceID = f.ID
	if f.Surface == nil {
		err = types.NewMeshError(types.InvalidInput, "preprocess", "face %d has no surface", f.ID)
		return
	}
	rep.Status = CheckConsistency(f, opts.Deflection, opts.AllowQualityDecrease)
	if opts.SeamAmplification {
		if rep.SeamPoints, err = AmplifySeams(f, opts.Deflection, opts.Angle); err != nil {
			return
		}
		if rep.SeamPoints > 0 {
			rep.Invalidated = true
			rep.Status = types.Outdated
			if opts.Verbose {
				log.Printf("face %d: %d seam samples added\n", f.ID, rep.SeamPoints)
			}
		}
	}
	f.Status = rep.Status
	return
}
