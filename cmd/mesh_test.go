package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gotess/readfiles"
)

var squareModel = `
Title: square
Faces:
  - ID: 7
    Surface: {Type: plane}
    Wires:
      - Points: [[0, 0], [1, 0], [1, 1], [0, 1]]
`

func writeFile(t *testing.T, name, contents string) string {
	fileName := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(fileName, []byte(contents), 0644))
	return fileName
}

func TestProcessInput(t *testing.T) {
	{ // No model file
		_, err := processInput(&MeshRun{}, viper.New())
		assert.ErrorIs(t, err, errNoModel)
	}
	{ // Parameters file, then overrides
		mr := &MeshRun{
			ModelFile: "model.yaml",
			ParamFile: writeFile(t, "params.yaml", "Deflection: 0.2\nAngle: 0.25\nMinTriangles: 4\n"),
		}
		ip, err := processInput(mr, viper.New())
		require.NoError(t, err)
		assert.Equal(t, 0.2, ip.Deflection)
		assert.Equal(t, 0.25, ip.Angle)
		assert.Equal(t, 4, ip.MinTriangles)

		v := viper.New()
		v.Set("deflection", 0.05)
		v.Set("check", true)
		ip, err = processInput(mr, v)
		require.NoError(t, err)
		assert.Equal(t, 0.05, ip.Deflection)
		assert.Equal(t, 0.25, ip.Angle)
		assert.True(t, ip.CheckTopology)
		assert.True(t, mr.Check)
		assert.Equal(t, 0.05, mr.Deflection)
	}
	{ // Invalid override
		v := viper.New()
		v.Set("deflection", -1.)
		_, err := processInput(&MeshRun{ModelFile: "model.yaml"}, v)
		assert.Error(t, err)
	}
}

func TestRunMesh(t *testing.T) {
	mr := &MeshRun{
		ModelFile: writeFile(t, "square.yaml", squareModel),
		OutFile:   filepath.Join(t.TempDir(), "square.obj"),
		Format:    readfiles.OBJ,
		Check:     true,
	}
	ip, err := processInput(mr, viper.New())
	require.NoError(t, err)
	require.NoError(t, RunMesh(context.Background(), mr, ip))
	data, err := os.ReadFile(mr.OutFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "g face7")
	assert.Contains(t, string(data), "f ")

	mr.ModelFile = filepath.Join(t.TempDir(), "missing.yaml")
	assert.Error(t, RunMesh(context.Background(), mr, ip))
}

func TestPrintExamples(t *testing.T) {
	var buf bytes.Buffer
	printExamples(&buf)
	assert.Contains(t, buf.String(), "Deflection")
	assert.Contains(t, buf.String(), "Faces:")
}
