package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/hschendel/stl"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gotess/brep"
)

type Format uint8

const (
	STL Format = iota
	OBJ
)

var FormatNameMap = map[string]Format{
	"stl": STL,
	"obj": OBJ,
}

func toVec3(v r3.Vec) stl.Vec3 {
	return stl.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

// Solid collects the triangulated faces into one STL solid
func Solid(model *brep.Model, name string) (solid *stl.Solid) {
	solid = &stl.Solid{Name: name, BinaryHeader: []byte("binary STL written by " + name)}
	for _, f := range model.Faces {
		tr := f.Triangulation
		if tr == nil {
			continue
		}
		for _, tri := range tr.Triangles {
			a, b, c := tr.Nodes[tri[0]], tr.Nodes[tri[1]], tr.Nodes[tri[2]]
			var n r3.Vec
			if cr := r3.Cross(r3.Sub(b, a), r3.Sub(c, a)); r3.Norm(cr) > 0 {
				n = r3.Unit(cr)
			}
			solid.Triangles = append(solid.Triangles, stl.Triangle{
				Normal:   toVec3(n),
				Vertices: [3]stl.Vec3{toVec3(a), toVec3(b), toVec3(c)},
			})
		}
	}
	return
}

// WriteSTL writes the triangulated faces as a binary STL
func WriteSTL(w io.Writer, model *brep.Model) error {
	solid := Solid(model, "gotess")
	if len(solid.Triangles) == 0 {
		return fmt.Errorf("model has no triangulated faces")
	}
	return solid.WriteAll(w)
}

// WriteOBJ writes one vertex list and one face list, faces grouped per model face
func WriteOBJ(w io.Writer, model *brep.Model) (err error) {
	var (
		bw     = bufio.NewWriter(w)
		offset = 1
	)
	for _, f := range model.Faces {
		tr := f.Triangulation
		if tr == nil {
			continue
		}
		fmt.Fprintf(bw, "g face%d\n", f.ID)
		for _, p := range tr.Nodes {
			fmt.Fprintf(bw, "v %.10g %.10g %.10g\n", p.X, p.Y, p.Z)
		}
		for _, tri := range tr.Triangles {
			fmt.Fprintf(bw, "f %d %d %d\n", tri[0]+offset, tri[1]+offset, tri[2]+offset)
		}
		offset += len(tr.Nodes)
	}
	return bw.Flush()
}

func WriteFile(fileName string, format Format, model *brep.Model) (err error) {
	var file *os.File
	if file, err = os.Create(fileName); err != nil {
		return
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	switch format {
	case OBJ:
		err = WriteOBJ(file, model)
	default:
		err = WriteSTL(file, model)
	}
	return
}
