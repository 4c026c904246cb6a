package InputParameters

import (
	"fmt"
	"hash/fnv"
	"math"

	"github.com/ghodss/yaml"

	"github.com/notargets/gotess/types"
)

// Parameters obtained from the YAML input file
type MeshParameters struct {
	Title                 string  `yaml:"Title"`
	Deflection            float64 `yaml:"Deflection"` // linear deflection, model units
	Angle                 float64 `yaml:"Angle"`      // angular deflection, radians
	Tolerance             float64 `yaml:"Tolerance"`  // 3D vertex merge tolerance
	MinTriangles          int     `yaml:"MinTriangles"`
	MaxTriangles          int     `yaml:"MaxTriangles"`
	MaxVertices           int     `yaml:"MaxVertices"`
	MaxRecoveryIterations int     `yaml:"MaxRecoveryIterations"` // flips per constraint before a midpoint split, 0 splits at once
	MaxSplitDepth         int     `yaml:"MaxSplitDepth"`
	MaxRefinePasses       int     `yaml:"MaxRefinePasses"`
	AllowInternalVertices bool    `yaml:"AllowInternalVertices"`
	AllowQualityDecrease  bool    `yaml:"AllowQualityDecrease"`
	SeamAmplification     bool    `yaml:"SeamAmplification"`
	ParallelFaces         bool    `yaml:"ParallelFaces"`
	ProcLimit             int     `yaml:"ProcLimit"`
	CheckTopology         bool    `yaml:"CheckTopology"`
	Verbose               bool    `yaml:"Verbose"`
}

func NewMeshParameters() (mp *MeshParameters) {
	mp = &MeshParameters{
		Title:                 "gotess",
		Deflection:            0.01,
		Angle:                 0.5,
		Tolerance:             1.e-6,
		MaxRecoveryIterations: 10000,
		MaxSplitDepth:         8,
		MaxRefinePasses:       8,
		AllowInternalVertices: true,
		SeamAmplification:     true,
		ParallelFaces:         true,
	}
	return
}

// Parse overlays the YAML onto the current values, so unset keys keep their defaults
func (mp *MeshParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, mp); err != nil {
		return err
	}
	return mp.Validate()
}

func (mp *MeshParameters) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return types.NewMeshError(types.InvalidInput, "parameters", format, args...)
	}
	switch {
	case !(mp.Deflection > 0) || math.IsInf(mp.Deflection, 0):
		return invalid("Deflection must be positive, have %g", mp.Deflection)
	case !(mp.Angle > 0) || mp.Angle > math.Pi:
		return invalid("Angle must be in (0, pi], have %g", mp.Angle)
	case !(mp.Tolerance > 0):
		return invalid("Tolerance must be positive, have %g", mp.Tolerance)
	case mp.MinTriangles < 0, mp.MaxTriangles < 0, mp.MaxVertices < 0, mp.ProcLimit < 0,
		mp.MaxRecoveryIterations < 0, mp.MaxSplitDepth < 0:
		return invalid("counts and limits must not be negative")
	case mp.MaxTriangles > 0 && mp.MinTriangles > mp.MaxTriangles:
		return invalid("MinTriangles %d exceeds MaxTriangles %d", mp.MinTriangles, mp.MaxTriangles)
	}
	return nil
}

// Hash identifies the settings that change a face's mesh, other than the deflection
func (mp *MeshParameters) Hash() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%g|%g|%d|%d|%d|%d|%d|%d|%t|%t|%t",
		mp.Angle, mp.Tolerance, mp.MinTriangles, mp.MaxTriangles, mp.MaxVertices,
		mp.MaxRecoveryIterations, mp.MaxSplitDepth, mp.MaxRefinePasses,
		mp.AllowInternalVertices, mp.AllowQualityDecrease, mp.SeamAmplification)
	return h.Sum64()
}

// Example renders the defaults as a parameter file
func (mp *MeshParameters) Example() (data []byte, err error) {
	return yaml.Marshal(NewMeshParameters())
}

func (mp *MeshParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", mp.Title)
	fmt.Printf("%8.5g\t\t= Deflection\n", mp.Deflection)
	fmt.Printf("%8.5g\t\t= Angle\n", mp.Angle)
	fmt.Printf("%8.5g\t\t= Tolerance\n", mp.Tolerance)
	fmt.Printf("[%d, %d]\t\t= Triangle range (0 is unlimited)\n", mp.MinTriangles, mp.MaxTriangles)
	fmt.Printf("[%d]\t\t\t= Vertex limit\n", mp.MaxVertices)
	fmt.Printf("[%d, %d]\t\t= Recovery flips, splits\n", mp.MaxRecoveryIterations, mp.MaxSplitDepth)
	fmt.Printf("[%d]\t\t\t= Refinement passes\n", mp.MaxRefinePasses)
	fmt.Printf("%t\t\t\t= Internal vertices\n", mp.AllowInternalVertices)
	fmt.Printf("%t\t\t\t= Allow quality decrease\n", mp.AllowQualityDecrease)
	fmt.Printf("%t\t\t\t= Seam amplification\n", mp.SeamAmplification)
	fmt.Printf("%t\t\t\t= Parallel faces, limit [%d]\n", mp.ParallelFaces, mp.ProcLimit)
}
