package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/d20/pkg/models"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.glb>",
		Short: "write the coloured die as a binary glTF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mesh := a.dieMesh()
			if err := models.ExportGLB(args[0], mesh); err != nil {
				return err
			}
			a.log.Info("exported die", zap.String("path", args[0]), zap.Int("faces", mesh.TriangleCount()))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d vertices, %d triangles)\n",
				args[0], mesh.VertexCount(), mesh.TriangleCount())
			return nil
		},
	}
}
