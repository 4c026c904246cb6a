package tessellate

import (
	"context"
	"fmt"
	"sync"

	"github.com/notargets/gotess/InputParameters"
	"github.com/notargets/gotess/boundary"
	"github.com/notargets/gotess/brep"
	"github.com/notargets/gotess/types"
	"github.com/notargets/gotess/utils"
)

type Report struct {
	Results []*Result // in model face order
	Failed  []int     // face IDs
	Reused  []int
	Done    []int
}

func (r *Report) Print() {
	fmt.Printf("%d faces: %d meshed, %d reused, %d failed\n",
		len(r.Results), len(r.Done), len(r.Reused), len(r.Failed))
	for _, res := range r.Results {
		if res == nil {
			continue
		}
		if res.Err != nil {
			fmt.Printf("\t%v\n", res.Err)
		}
		for i, w := range res.Wires {
			if !w.Used {
				fmt.Printf("\tface %d: %s wire %d with %d points left out\n", res.FaceID, w.Kind, i, w.Points)
			}
		}
	}
}

type Mesher struct {
	Params *InputParameters.MeshParameters
	Cache  *Cache
	face   FaceMesher
}

func NewMesher(params *InputParameters.MeshParameters, cache *Cache) (ms *Mesher) {
	ms = &Mesher{
		Params: params,
		Cache:  cache,
		face:   FaceMesher{Params: params},
	}
	return
}

/*
MeshModel discretizes every edge once, then meshes the faces on a pool of
goroutines, each face independently. Face failures are reported, not
returned; the error is for invalid parameters or cancellation.
*/
func (ms *Mesher) MeshModel(ctx context.Context, model *brep.Model) (rep *Report, err error) {
	if err = ms.Params.Validate(); err != nil {
		return
	}
	if err = ctx.Err(); err != nil {
		return
	}
	// Edge polygons are shared between faces, so they are filled before the parallel phase
	for _, e := range model.Edges {
		boundary.DiscretizeEdge(e, ms.Params.Deflection, ms.Params.Angle)
	}
	var (
		faces = model.Faces
		Kmax  = len(faces)
	)
	rep = &Report{Results: make([]*Result, Kmax)}
	if Kmax == 0 {
		return
	}
	np := 1
	if ms.Params.ParallelFaces {
		np = utils.ParallelDegree(ms.Params.ProcLimit, Kmax)
	}
	pm := utils.NewPartitionMap(np, Kmax)
	wg := sync.WaitGroup{}
	for n := 0; n < np; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			kMin, kMax := pm.GetBucketRange(n)
			for k := kMin; k < kMax; k++ {
				rep.Results[k] = ms.meshFace(ctx, faces[k])
			}
		}(n)
	}
	wg.Wait()
	for _, res := range rep.Results {
		switch res.Status {
		case types.Failure:
			rep.Failed = append(rep.Failed, res.FaceID)
		case types.Reused:
			rep.Reused = append(rep.Reused, res.FaceID)
		case types.Done:
			rep.Done = append(rep.Done, res.FaceID)
		}
	}
	err = ctx.Err()
	return
}

// meshFace consults the cache around the face pipeline
func (ms *Mesher) meshFace(ctx context.Context, f *brep.Face) (res *Result) {
	var (
		key = CacheKey{FaceID: f.ID, Deflection: ms.Params.Deflection, ConfigHash: ms.Params.Hash()}
		hit bool
	)
	if ms.Cache != nil && ctx.Err() == nil {
		var tr *brep.Triangulation
		if tr, hit = ms.Cache.Get(key); hit {
			f.Triangulation = tr
		}
	}
	// A cached mesh was built for this exact key, so its recorded deflection is accepted as is
	res = ms.face.mesh(ctx, f, hit || ms.Params.AllowQualityDecrease)
	if ms.Cache == nil {
		return
	}
	if res.Invalidated {
		ms.Cache.Invalidate(f.ID)
	}
	if res.Status.Terminal() && res.Triangulation != nil {
		res.FromCache = hit && res.Status == types.Reused
		ms.Cache.Put(key, res.Triangulation)
	}
	return
}
