/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gotess/InputParameters"
	"github.com/notargets/gotess/readfiles"
	"github.com/notargets/gotess/tessellate"
	"github.com/notargets/gotess/utils"
)

type MeshRun struct {
	ModelFile  string
	ParamFile  string
	OutFile    string
	Format     readfiles.Format
	Profile    string
	Check      bool
	Deflection float64
	Angle      float64
}

var errNoModel = errors.New("must supply a model file (-F, --modelFile) in YAML format")

// MeshCmd represents the mesh command
var MeshCmd = &cobra.Command{
	Use:   "mesh",
	Short: "Tessellate the faces of a model file",
	Long: `
Reads a YAML model of trimmed surface faces, meshes every face to the
requested linear and angular deflection and writes the result as STL or OBJ.

gotess mesh -F model.yaml [-I params.yaml] [-o out.stl] [--format stl|obj]`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		mr := &MeshRun{}
		if mr.ModelFile, err = cmd.Flags().GetString("modelFile"); err != nil {
			panic(err)
		}
		mr.ParamFile, _ = cmd.Flags().GetString("inputParametersFile")
		mr.OutFile, _ = cmd.Flags().GetString("output")
		mr.Profile, _ = cmd.Flags().GetString("profile")
		format := viper.GetString("format")
		var ok bool
		if mr.Format, ok = readfiles.FormatNameMap[strings.ToLower(format)]; !ok {
			fmt.Printf("error: unknown output format %q\n", format)
			os.Exit(1)
		}
		ip, err := processInput(mr, viper.GetViper())
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			if errors.Is(err, errNoModel) {
				printExamples(os.Stdout)
			}
			os.Exit(1)
		}
		switch mr.Profile {
		case "cpu":
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		case "mem":
			defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err = RunMesh(ctx, mr, ip); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(MeshCmd)
	defaults := InputParameters.NewMeshParameters()
	MeshCmd.Flags().StringP("modelFile", "F", "", "Model file to read in YAML format")
	MeshCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file for mesh parameters like:\n\t- Deflection\n\t- Angle\n\t- MinTriangles")
	MeshCmd.Flags().StringP("output", "o", "", "file to write the mesh to")
	MeshCmd.Flags().String("format", "stl", "output format, stl or obj")
	MeshCmd.Flags().Float64("deflection", defaults.Deflection, "linear deflection, overrides the parameters file")
	MeshCmd.Flags().Float64("angle", defaults.Angle, "angular deflection in radians, overrides the parameters file")
	MeshCmd.Flags().String("profile", "", "write a cpu or mem profile to the current directory")
	MeshCmd.Flags().Bool("check", false, "validate mesh topology and fail on any failed face")
	for _, name := range []string{"format", "deflection", "angle", "check"} {
		if err := viper.BindPFlag(name, MeshCmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

/*
processInput layers the parameters: defaults, then the parameters file, then
config file, environment and flags through v.
*/
func processInput(mr *MeshRun, v *viper.Viper) (ip *InputParameters.MeshParameters, err error) {
	if len(mr.ModelFile) == 0 {
		return nil, errNoModel
	}
	ip = InputParameters.NewMeshParameters()
	if len(mr.ParamFile) != 0 {
		var data []byte
		if data, err = os.ReadFile(mr.ParamFile); err != nil {
			return
		}
		if err = ip.Parse(data); err != nil {
			return nil, fmt.Errorf("%s: %w", mr.ParamFile, err)
		}
	}
	if v.IsSet("deflection") {
		ip.Deflection = v.GetFloat64("deflection")
	}
	if v.IsSet("angle") {
		ip.Angle = v.GetFloat64("angle")
	}
	if v.IsSet("check") {
		mr.Check = v.GetBool("check")
		ip.CheckTopology = ip.CheckTopology || mr.Check
	}
	mr.Deflection, mr.Angle = ip.Deflection, ip.Angle
	err = ip.Validate()
	return
}

func printExamples(w io.Writer) {
	data, _ := InputParameters.NewMeshParameters().Example()
	exampleModel := `
########################################
Faces:
  - ID: 1
    Surface: {Type: plane}
    Wires:
      - Points: [[0, 0], [1, 0], [1, 1], [0, 1]]
  - ID: 2
    Surface: {Type: cone, Radius: 1, SemiAngle: 0.5}
    Patch: {UMin: 0, UMax: 6.283185307179586, VMin: -2.0858296429334882, VMax: 0}
########################################
`
	fmt.Fprintf(w, "Example Parameters File:\n%s\nExample Model File:%s\n", data, exampleModel)
}

func RunMesh(ctx context.Context, mr *MeshRun, ip *InputParameters.MeshParameters) (err error) {
	var (
		rep *tessellate.Report
	)
	model, err := readfiles.ReadModel(mr.ModelFile)
	if err != nil {
		return
	}
	if ip.Verbose {
		ip.Print()
	}
	if rep, err = tessellate.NewMesher(ip, tessellate.NewCache()).MeshModel(ctx, model); err != nil {
		return
	}
	rep.Print()
	if ip.Verbose {
		fmt.Println(utils.GetMemUsage())
	}
	if len(mr.OutFile) != 0 {
		if err = readfiles.WriteFile(mr.OutFile, mr.Format, model); err != nil {
			return
		}
	}
	if mr.Check && len(rep.Failed) != 0 {
		return fmt.Errorf("%d faces failed: %v", len(rep.Failed), rep.Failed)
	}
	return
}
