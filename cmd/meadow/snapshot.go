package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taigrr/meadow/pkg/config"
	"github.com/taigrr/meadow/pkg/render"
	"github.com/taigrr/meadow/pkg/scene"
)

type snapshotOptions struct {
	width, height int
	time          float64
}

func newSnapshotCmd(o *options) *cobra.Command {
	so := &snapshotOptions{}
	cmd := &cobra.Command{
		Use:   "snapshot <out.png>",
		Short: "Render one frame with the software renderer to a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(o, os.Stderr)
			f, err := loadFile(o, cmd.Flags())
			if err != nil {
				return err
			}
			dev, err := snapshot(f, o, so)
			if err != nil {
				return err
			}
			if err := dev.Framebuffer().SavePNG(args[0]); err != nil {
				return fmt.Errorf("write snapshot: %w", err)
			}
			st := dev.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d, %d draw calls, %d triangles\n",
				args[0], so.width, so.height, st.DrawCalls, st.Triangles)
			return nil
		},
	}
	cmd.Flags().IntVar(&so.width, "width", 640, "image width in pixels")
	cmd.Flags().IntVar(&so.height, "height", 360, "image height in pixels")
	cmd.Flags().Float64Var(&so.time, "time", 0, "scene time in seconds")
	return cmd
}

// snapshot draws f at so.time into a new device.
func snapshot(f config.File, o *options, so *snapshotOptions) (*render.Device, error) {
	if so.width <= 0 || so.height <= 0 {
		return nil, fmt.Errorf("snapshot size %dx%d must be positive", so.width, so.height)
	}

	dev := render.NewDevice(so.width, so.height)
	loader := render.NewLoader(dev, o.assets)
	loader.Placeholders = o.placeholders

	sc, err := scene.Build(f.Config, loader, nil)
	if err != nil {
		return nil, err
	}

	proj, err := sc.Camera.ProjectionMatrix(float64(so.width) / float64(so.height))
	if err != nil {
		return nil, err
	}

	prog := dev.NewProgram()
	prog.Use()
	prog.SetInt(scene.UniformDiffuse, scene.DiffuseUnit)
	dev.Clear(render.ToRGBA(f.ClearColor()))
	sc.Draw(prog, so.time, sc.Camera.ViewMatrix(), proj)
	return dev, nil
}
