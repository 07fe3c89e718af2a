// meadow - real-time 3D scene renderer
// Draws a small scene of meshes and scattered ground cover, in the terminal
// or in an OpenGL window.
//
// Controls:
//
//	W/S or Up/Down     - Orbit up/down
//	A/D or Left/Right  - Orbit left/right
//	=/-                - Zoom in/out
//	X                  - Toggle wireframe
//	?                  - Toggle HUD overlay
//	Esc                - Quit
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/taigrr/meadow/pkg/config"
	"github.com/taigrr/meadow/pkg/engine"
	"github.com/taigrr/meadow/pkg/glrender"
	"github.com/taigrr/meadow/pkg/input"
	"github.com/taigrr/meadow/pkg/log"
	"github.com/taigrr/meadow/pkg/render"
	"github.com/taigrr/meadow/pkg/scene"
	"github.com/taigrr/meadow/pkg/term"
)

var version = "dev"

const (
	backendTerm = "term"
	backendGL   = "gl"
)

type options struct {
	scenePath    string
	assets       string
	seed         int64
	placeholders bool
	logFile      string
	verbose      int

	backend string
	fps     int
	hud     bool
}

func main() {
	err := fang.Execute(context.Background(), newRootCmd(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	)
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "meadow",
		Short: "Render a 3D meadow scene",
		Long: `Render a 3D meadow scene in the terminal or an OpenGL window.

Controls:
  W/S, Up/Down     Orbit up/down
  A/D, Left/Right  Orbit left/right
  =/-              Zoom in/out
  X                Toggle wireframe
  ?                Toggle HUD overlay
  Esc              Quit`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), o, cmd.Flags())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.scenePath, "scene", "", "scene file (TOML); the built-in scene when empty")
	pf.StringVar(&o.assets, "assets", "assets", "base directory for relative asset paths")
	pf.Int64Var(&o.seed, "seed", 0, "scatter seed; 0 uses the scene file or the clock")
	pf.BoolVar(&o.placeholders, "placeholders", false, "substitute a quad or checkerboard for missing assets (software backend)")
	pf.StringVar(&o.logFile, "log-file", "meadow.log", "log file while the terminal backend runs; empty discards")
	pf.CountVarP(&o.verbose, "verbose", "v", "log verbosity (-v info, -vv debug)")

	f := root.Flags()
	f.StringVar(&o.backend, "backend", backendTerm, "renderer backend: term or gl")
	f.IntVar(&o.fps, "fps", 60, "frame rate cap (terminal backend)")
	f.BoolVar(&o.hud, "hud", false, "show the HUD at startup")

	root.AddCommand(newSceneCmd(), newSnapshotCmd(o))
	return root
}

func newSceneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scene",
		Short: "Print the built-in scene file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return config.Write(cmd.OutOrStdout(), config.Default())
		},
	}
}

// loadFile reads the scene file and applies flag overrides.
func loadFile(o *options, flags *pflag.FlagSet) (config.File, error) {
	f := config.Default()
	if o.scenePath != "" {
		var err error
		if f, err = config.Load(o.scenePath); err != nil {
			return config.File{}, err
		}
	}
	if flags.Changed("seed") {
		f.Seed = o.seed
	}
	if flags.Changed("fps") {
		f.Loop.FPS = o.fps
	}
	if flags.Changed("hud") {
		f.Loop.HUD = o.hud
	}
	return f, f.Validate()
}

// setupLogging points the loggers at w and applies -v.
func setupLogging(o *options, w io.Writer) {
	log.SetSink(w)
	log.SetLevel(log.Verbosity(o.verbose))
}

// backend is what run needs from a window implementation.
type backend interface {
	engine.Window
	engine.Overlay
	Close() error
}

func run(ctx context.Context, o *options, flags *pflag.FlagSet) error {
	f, err := loadFile(o, flags)
	if err != nil {
		return err
	}

	var (
		win    backend
		loader scene.AssetLoader
		prog   scene.Program
		keys   input.KeyState
	)

	switch o.backend {
	case backendTerm:
		sink := io.Discard
		if o.logFile != "" {
			lf, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer lf.Close()
			sink = lf
		}
		setupLogging(o, sink)

		tw, err := term.Open(term.Config{FPS: f.Loop.FPS, HUD: f.Loop.HUD, Hold: f.Loop.Input.Hold()})
		if err != nil {
			return err
		}
		win, keys = tw, tw.Keys()
		rl := render.NewLoader(tw.Device(), o.assets)
		rl.Placeholders = o.placeholders
		loader = rl
		prog = tw.Device().NewProgram()

	case backendGL:
		setupLogging(o, os.Stderr)

		gw, err := glrender.Open(glrender.Config{Width: 1280, Height: 720, Title: "meadow", HUD: f.Loop.HUD, VSync: true})
		if err != nil {
			return err
		}
		win, keys = gw, gw
		loader = glrender.NewLoader(gw.Context(), o.assets)
		if prog, err = gw.Context().NewProgram(); err != nil {
			gw.Close()
			return err
		}

	default:
		return fmt.Errorf("unknown backend %q (use %s or %s)", o.backend, backendTerm, backendGL)
	}
	defer win.Close()

	sc, err := scene.Build(f.Config, loader, nil)
	if err != nil {
		return err
	}

	return engine.Run(ctx, sc, sc.Camera, engine.Collaborators{
		Window:     win,
		Input:      input.NewController(f.Loop.Input, keys),
		Program:    prog,
		Overlay:    win,
		ClearColor: f.ClearColor(),
	})
}
