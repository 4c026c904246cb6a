package tessellate

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gotess/InputParameters"
	"github.com/notargets/gotess/boundary"
	"github.com/notargets/gotess/brep"
	"github.com/notargets/gotess/classifier"
	"github.com/notargets/gotess/delaunay"
	"github.com/notargets/gotess/geometry2D"
	"github.com/notargets/gotess/preprocess"
	"github.com/notargets/gotess/rangesplit"
	"github.com/notargets/gotess/types"
	"github.com/notargets/gotess/vertexindex"
)

// Result is the outcome of meshing one face
type Result struct {
	FaceID        int
	Status        types.FaceStatus
	Err           error
	Triangulation *brep.Triangulation
	SeamPoints    int
	Invalidated   bool // a cached mesh of the face no longer applies
	Ambiguous     int  // classifier queries resolved to On
	FromCache     bool
	Wires         []WireReport // in face wire order, empty when the boundary was not discretized
}

// WireReport describes one discretized wire; wires not Used were left out of the mesh
type WireReport struct {
	Kind   types.WireKind
	Used   bool
	Points int
	Area   float64
}

type FaceMesher struct {
	Params *InputParameters.MeshParameters
}

// faceState carries one face through the pipeline
type faceState struct {
	face  *brep.Face
	nm    *geometry2D.Normalizer
	pool  *vertexindex.Pool
	mesh  *delaunay.Mesh
	cls   *classifier.Classifier
	segs  []types.Segment
	wires []WireReport
}

/*
Mesh runs the face pipeline: pre-processing, boundary discretization,
triangulation with the boundary enforced, interior refinement to the target
deflection, then publishes the triangulation on the face. A failure leaves
the face with status Failure and no triangulation.
*/
func (fm *FaceMesher) Mesh(ctx context.Context, f *brep.Face) (res *Result) {
	return fm.mesh(ctx, f, fm.Params.AllowQualityDecrease)
}

func (fm *FaceMesher) mesh(ctx context.Context, f *brep.Face, allowDecrease bool) (res *Result) {
	var (
		p = fm.Params
	)
	res = &Result{FaceID: f.ID, Status: f.Status}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return
	}
	rep, err := preprocess.Process(f, preprocess.Options{
		Deflection:           p.Deflection,
		Angle:                p.Angle,
		AllowQualityDecrease: allowDecrease,
		SeamAmplification:    p.SeamAmplification,
		Verbose:              p.Verbose,
	})
	res.SeamPoints, res.Invalidated = rep.SeamPoints, rep.Invalidated
	if err != nil {
		return fm.fail(f, res, err)
	}
	if rep.Status == types.Reused {
		res.Status, res.Triangulation = types.Reused, f.Triangulation
		return
	}
	fs := &faceState{face: f}
	err = fm.triangulate(fs)
	res.Wires = fs.wires
	if err != nil {
		return fm.fail(f, res, err)
	}
	res.Ambiguous = fs.cls.Ambiguous()
	if p.AllowInternalVertices {
		if err = fm.addInternalNodes(fs); err != nil {
			return fm.fail(f, res, err)
		}
	}
	measured, err := fm.refine(fs)
	if err != nil {
		return fm.fail(f, res, err)
	}
	if err = fm.ensureMinTriangles(fs); err != nil {
		return fm.fail(f, res, err)
	}
	if p.CheckTopology {
		if err = fs.mesh.CheckTopology(); err == nil {
			err = fs.mesh.CheckConstraints(fs.segs)
		}
		if err != nil {
			return fm.fail(f, res, err)
		}
	}
	f.Triangulation = fm.output(fs, math.Max(p.Deflection, measured))
	f.Status = types.Done
	res.Status, res.Triangulation = types.Done, f.Triangulation
	if p.Verbose {
		fmt.Printf("face %d: %d nodes, %d triangles, deflection %8.5g\n",
			f.ID, len(f.Triangulation.Nodes), f.Triangulation.NumTriangles(), f.Triangulation.Deflection)
	}
	return
}

func (fm *FaceMesher) fail(f *brep.Face, res *Result, err error) *Result {
	f.Status, f.Triangulation = types.Failure, nil
	res.Status, res.Triangulation = types.Failure, nil
	res.Err = types.WithFace(err, f.ID, types.SpatialDegeneracy)
	return res
}

func (fm *FaceMesher) delaunayParams() (dp delaunay.Params) {
	dp = delaunay.DefaultParams()
	dp.MaxTriangles = fm.Params.MaxTriangles
	dp.MaxRecoveryIterations = fm.Params.MaxRecoveryIterations
	dp.MaxSplitDepth = fm.Params.MaxSplitDepth
	return
}

// triangulate builds the boundary-conforming mesh of the face in the working frame
func (fm *FaceMesher) triangulate(fs *faceState) (err error) {
	var (
		f   = fs.face
		box = f.Domain()
		res *boundary.Result
	)
	lu, lv := brep.EstimateLengths(f.Surface, box)
	if fs.nm, err = geometry2D.NewNormalizer(box, fm.Params.Tolerance, lu, lv); err != nil {
		return
	}
	fs.pool = vertexindex.NewPool(fs.nm.TolU, fs.nm.TolV, 0)
	fs.pool.MaxVertices = fm.Params.MaxVertices
	if res, err = boundary.Discretize(f, fs.nm, fs.pool); err != nil {
		return
	}
	for _, w := range res.Wires {
		fs.wires = append(fs.wires, WireReport{Kind: w.Kind, Used: w.Used, Points: len(w.Nodes), Area: w.Area})
	}
	fs.cls = classifier.New(res.Polylines(fs.pool), fs.nm.Tol())
	fs.mesh = delaunay.NewMesh(fs.pool, fm.delaunayParams())
	if err = fs.mesh.Seed(fs.pool.Extents()); err != nil {
		return
	}
	var (
		seen  = make(map[int]bool)
		nodes []int
	)
	for _, w := range res.Wires {
		if !w.Used {
			continue
		}
		for _, n := range w.Nodes {
			if !seen[n] {
				seen[n] = true
				nodes = append(nodes, n)
			}
		}
	}
	if err = fs.mesh.InsertVertices(nodes); err != nil {
		return
	}
	if err = fs.mesh.InsertConstraints(res.Segments); err != nil {
		return
	}
	if err = fs.mesh.RemoveOutside(fs.cls.Classify); err != nil {
		return
	}
	remap, err := fs.mesh.Finalize()
	if err != nil {
		return
	}
	for _, s := range res.Segments {
		if a, b := remap[s[0]], remap[s[1]]; a >= 0 && b >= 0 {
			fs.segs = append(fs.segs, types.Segment{a, b})
		}
	}
	if fs.mesh.NumTriangles() == 0 {
		return types.NewMeshError(types.SpatialDegeneracy, "triangulate",
			"face %d produced no triangles", f.ID)
	}
	return
}

// addNode inserts a parameter point, treating a rejection as a no-op
func (fs *faceState) addNode(param r2.Vec) (added bool, err error) {
	pt := fs.face.Surface.Value(param)
	before := fs.pool.Len()
	_, err = fs.mesh.AddNode(&pt, fs.nm.Normalize(param), types.Free, false, fs.cls.Classify)
	if errors.Is(err, delaunay.ErrNodeRejected) {
		return false, nil
	}
	return err == nil && fs.pool.Len() > before, err
}

func (fm *FaceMesher) addInternalNodes(fs *faceState) (err error) {
	sp := rangesplit.New(fs.face.Surface)
	sp.Reset(fm.Params.Deflection, fm.Params.Angle)
	for _, v := range fs.pool.Vertices {
		sp.AddPoint(fs.nm.Denormalize(v.UV))
	}
	for _, param := range sp.GenerateNodes() {
		if _, err = fs.addNode(param); err != nil {
			return
		}
	}
	return
}

func (fs *faceState) point3D(v int) r3.Vec {
	vert := fs.pool.Vertices[v]
	if vert.Location3D >= 0 {
		return fs.pool.Nodes3D[vert.Location3D]
	}
	return fs.face.Surface.Value(fs.nm.Denormalize(vert.UV))
}

// deviation is the distance between the surface and the flat triangle at its centroid
func (fs *faceState) deviation(tri [3]int) (dev float64, centroid r2.Vec) {
	var (
		a, b, c = fs.pool.UV(tri[0]), fs.pool.UV(tri[1]), fs.pool.UV(tri[2])
		flat    = r3.Scale(1./3, r3.Add(fs.point3D(tri[0]), r3.Add(fs.point3D(tri[1]), fs.point3D(tri[2]))))
	)
	centroid = fs.nm.Denormalize(geometry2D.Centroid(a, b, c))
	dev = r3.Norm(r3.Sub(fs.face.Surface.Value(centroid), flat))
	return
}

/*
refine inserts the centroid of every triangle deviating from the surface by
more than the deflection, for a bounded number of passes, and returns the
largest deviation left.
*/
func (fm *FaceMesher) refine(fs *faceState) (measured float64, err error) {
	for pass := 0; ; pass++ {
		var (
			targets []r2.Vec
		)
		measured = 0
		for _, tri := range fs.mesh.Triangles() {
			dev, centroid := fs.deviation(tri)
			measured = math.Max(measured, dev)
			if dev > fm.Params.Deflection {
				targets = append(targets, centroid)
			}
		}
		if len(targets) == 0 || pass >= fm.Params.MaxRefinePasses {
			return
		}
		var inserted int
		for _, param := range targets {
			var added bool
			if added, err = fs.addNode(param); err != nil {
				return
			}
			if added {
				inserted++
			}
		}
		if inserted == 0 {
			return
		}
	}
}

// ensureMinTriangles splits the largest triangles until the face has enough
func (fm *FaceMesher) ensureMinTriangles(fs *faceState) (err error) {
	for guard := 0; fs.mesh.NumTriangles() < fm.Params.MinTriangles; guard++ {
		if guard > fm.Params.MinTriangles {
			return
		}
		var (
			best     = -1.
			centroid r2.Vec
		)
		for _, tri := range fs.mesh.Triangles() {
			a, b, c := fs.pool.UV(tri[0]), fs.pool.UV(tri[1]), fs.pool.UV(tri[2])
			if area := math.Abs(geometry2D.Orient2D(a, b, c)); area > best {
				best, centroid = area, geometry2D.Centroid(a, b, c)
			}
		}
		var added bool
		if added, err = fs.addNode(fs.nm.Denormalize(centroid)); err != nil || !added {
			return
		}
	}
	return
}

// output converts the working mesh to the face triangulation, flipping triangles of a reversed face
func (fm *FaceMesher) output(fs *faceState, deflection float64) (tr *brep.Triangulation) {
	n := fs.pool.Len()
	tr = &brep.Triangulation{
		Nodes:      make([]r3.Vec, n),
		UVNodes:    make([]r2.Vec, n),
		Triangles:  fs.mesh.Triangles(),
		Deflection: deflection,
	}
	for v := 0; v < n; v++ {
		tr.Nodes[v] = fs.point3D(v)
		tr.UVNodes[v] = fs.nm.Denormalize(fs.pool.UV(v))
	}
	if fs.face.Reversed {
		for i := range tr.Triangles {
			tr.Triangles[i][1], tr.Triangles[i][2] = tr.Triangles[i][2], tr.Triangles[i][1]
		}
	}
	return
}
