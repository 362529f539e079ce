package main

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSnapshotCmd(a *app) *cobra.Command {
	var (
		width, height int
		opts          rollOptions
	)

	cmd := &cobra.Command{
		Use:   "snapshot <file.png>",
		Short: "roll the die and save the resting frame as a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if width <= 0 || height <= 0 {
				return fmt.Errorf("image size must be positive, got %dx%d", width, height)
			}

			opts.duration = a.cfg.Physics.TimedDuration
			opts.rate = a.cfg.Physics.TickRate
			e, err := a.newEngine(a.cfg.Physics)
			if err != nil {
				return err
			}

			label := e.TopFaceLabel()
			if opts.mode != "" {
				rng := rand.New(rand.NewPCG(a.cfg.Seed, a.cfg.Seed>>1))
				res, err := simulateRoll(e, rng, opts, flickSpeed)
				if err != nil {
					return err
				}
				label = res.Label
			}

			sc, err := newScene(a.cfg.Viewer, a.dieMesh(), width, height)
			if err != nil {
				return err
			}
			// Skip the zoom spring; a still frame has no time to settle.
			sc.dolly.Distance = sc.dolly.Target
			sc.draw(e.Rotation())

			if err := sc.fb.SavePNG(args[0]); err != nil {
				return err
			}
			a.log.Info("snapshot saved", zap.String("path", args[0]), zap.Int("face", label))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s, top face %d\n", args[0], label)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&width, "width", 320, "image width in pixels")
	flags.IntVar(&height, "height", 240, "image height in pixels")
	flags.StringVar(&opts.mode, "mode", modeTimed, "roll before the snapshot: timed, sequential, flick, or empty for none")
	flags.IntVar(&opts.maxTicks, "max-ticks", 1_000_000, "give up rolling after this many ticks")
	opts.vx, opts.vy = math.NaN(), math.NaN()
	return cmd
}
