package readfiles

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/ghodss/yaml"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gotess/brep"
	"github.com/notargets/gotess/types"
)

// Model file layout
type ModelFile struct {
	Title string     `yaml:"Title"`
	Faces []FaceSpec `yaml:"Faces"`
}

type FaceSpec struct {
	ID       int         `yaml:"ID"`
	Reversed bool        `yaml:"Reversed"`
	Surface  SurfaceSpec `yaml:"Surface"`
	Wires    []WireSpec  `yaml:"Wires"` // first is the outer boundary, the rest are holes
	Patch    *PatchSpec  `yaml:"Patch"` // a full turn of a surface closed in u, in place of Wires
}

type SurfaceSpec struct {
	Type        string    `yaml:"Type"`
	Origin      []float64 `yaml:"Origin"`
	XDir        []float64 `yaml:"XDir"`
	YDir        []float64 `yaml:"YDir"`
	ZDir        []float64 `yaml:"ZDir"`
	Radius      float64   `yaml:"Radius"`
	MinorRadius float64   `yaml:"MinorRadius"`
	SemiAngle   float64   `yaml:"SemiAngle"` // radians
}

type WireSpec struct {
	Points [][2]float64 `yaml:"Points"`
}

type PatchSpec struct {
	UMin float64 `yaml:"UMin"`
	UMax float64 `yaml:"UMax"`
	VMin float64 `yaml:"VMin"`
	VMax float64 `yaml:"VMax"`
}

func ReadModel(fileName string) (model *brep.Model, err error) {
	var data []byte
	if data, err = os.ReadFile(fileName); err != nil {
		return
	}
	if model, err = ParseModel(data); err != nil {
		err = fmt.Errorf("reading %s: %w", fileName, err)
	}
	return
}

func ParseModel(data []byte) (model *brep.Model, err error) {
	var mf ModelFile
	if err = yaml.Unmarshal(data, &mf); err != nil {
		return
	}
	if len(mf.Faces) == 0 {
		return nil, types.NewMeshError(types.InvalidInput, "read model", "no faces")
	}
	var faces []*brep.Face
	for _, fs := range mf.Faces {
		var f *brep.Face
		if f, err = fs.build(); err != nil {
			return
		}
		faces = append(faces, f)
	}
	model = brep.NewModel(faces...)
	return
}

func vec3(c []float64, def r3.Vec) (v r3.Vec, err error) {
	switch len(c) {
	case 0:
		return def, nil
	case 3:
		return r3.Vec{X: c[0], Y: c[1], Z: c[2]}, nil
	}
	return v, fmt.Errorf("vector needs 3 components, have %d", len(c))
}

func (ss SurfaceSpec) frame() (f brep.Frame, err error) {
	var origin, xdir, ydir, zdir r3.Vec
	if origin, err = vec3(ss.Origin, r3.Vec{}); err != nil {
		return
	}
	if xdir, err = vec3(ss.XDir, r3.Vec{X: 1}); err != nil {
		return
	}
	if ydir, err = vec3(ss.YDir, r3.Vec{}); err != nil {
		return
	}
	if zdir, err = vec3(ss.ZDir, r3.Vec{}); err != nil {
		return
	}
	if r3.Norm(zdir) == 0 {
		if zdir = r3.Cross(xdir, ydir); r3.Norm(zdir) == 0 {
			zdir = r3.Vec{Z: 1}
		}
	}
	return brep.NewFrame(origin, zdir, xdir), nil
}

func (ss SurfaceSpec) build() (s brep.Surface, err error) {
	kind, ok := brep.SurfaceNameMap[strings.ToLower(ss.Type)]
	if !ok {
		return nil, fmt.Errorf("unknown surface type %q", ss.Type)
	}
	var f brep.Frame
	if f, err = ss.frame(); err != nil {
		return
	}
	positive := func(name string, x float64) error {
		if !(x > 0) {
			return fmt.Errorf("%s %s must be positive, have %g", ss.Type, name, x)
		}
		return nil
	}
	switch kind {
	case brep.PlaneSurface:
		s = &brep.Plane{Frame: f}
	case brep.CylinderSurface:
		err = positive("Radius", ss.Radius)
		s = &brep.Cylinder{Frame: f, Radius: ss.Radius}
	case brep.ConeSurface:
		if !(ss.SemiAngle > 0 && ss.SemiAngle < 0.5*math.Pi) {
			err = fmt.Errorf("cone SemiAngle must be in (0, pi/2), have %g", ss.SemiAngle)
		}
		s = &brep.Cone{Frame: f, RefRadius: ss.Radius, SemiAngle: ss.SemiAngle}
	case brep.SphereSurface:
		err = positive("Radius", ss.Radius)
		s = &brep.Sphere{Frame: f, Radius: ss.Radius}
	case brep.TorusSurface:
		if err = positive("Radius", ss.Radius); err == nil {
			err = positive("MinorRadius", ss.MinorRadius)
		}
		s = &brep.Torus{Frame: f, MajorRadius: ss.Radius, MinorRadius: ss.MinorRadius}
	default:
		err = fmt.Errorf("surface type %q has no file representation", ss.Type)
	}
	return
}

func (fs FaceSpec) build() (f *brep.Face, err error) {
	invalid := func(err error) error {
		return types.WithFace(err, fs.ID, types.InvalidInput)
	}
	var s brep.Surface
	if s, err = fs.Surface.build(); err != nil {
		return nil, invalid(err)
	}
	points := func(w WireSpec) (uv []r2.Vec) {
		for _, p := range w.Points {
			uv = append(uv, r2.Vec{X: p[0], Y: p[1]})
		}
		return
	}
	switch {
	case fs.Patch != nil:
		p := fs.Patch
		if !(p.UMax > p.UMin && p.VMax > p.VMin) {
			return nil, invalid(fmt.Errorf("empty patch %+v", *p))
		}
		f = brep.NewPeriodicPatchFace(fs.ID, s, p.UMin, p.UMax, p.VMin, p.VMax)
	case len(fs.Wires) > 0:
		f = brep.NewPolygonFace(fs.ID, s, points(fs.Wires[0]))
		for _, w := range fs.Wires[1:] {
			f.AddPolygonHole(points(w))
		}
	default:
		return nil, invalid(fmt.Errorf("face needs Wires or a Patch"))
	}
	f.Reversed = fs.Reversed
	return
}
