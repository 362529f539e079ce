package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/taigrr/d20/pkg/models"
)

// meshDump is the static mesh export, as consumed by external renderers.
type meshDump struct {
	Vertices    []float32 `yaml:"vertices,flow"`
	Indices     []uint32  `yaml:"indices,flow"`
	FaceNormals []float32 `yaml:"face_normals,flow"`
	FlatNormals []float32 `yaml:"flat_normals,flow"`
	UVs         []float32 `yaml:"uvs,flow"`
	Labels      []int     `yaml:"labels,flow"`
	Colors      []string  `yaml:"colors"`
	Relaxed     []int     `yaml:"relaxed_faces,omitempty,flow"`
}

func newMeshCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mesh",
		Short: "print the die's vertex, index, normal and colour arrays as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			geom := models.BuildGeometry()
			hues := a.hues()

			dump := meshDump{
				Vertices:    geom.VertexArray(),
				Indices:     geom.IndexArray(),
				FaceNormals: geom.FaceNormalArray(),
				FlatNormals: geom.FlatNormalArray(),
				UVs:         geom.UVArray(),
				Labels:      geom.LabelSlice(),
				Colors:      hues.Hex(),
			}
			for i, relaxed := range hues.Relaxed {
				if relaxed {
					dump.Relaxed = append(dump.Relaxed, i)
				}
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(dump); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
