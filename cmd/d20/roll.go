package main

import (
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/d20/pkg/dice"
)

// Roll modes
const (
	modeTimed      = "timed"
	modeSequential = "sequential"
	modeFlick      = "flick"
)

var (
	resultStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 2)
	faceStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ffff"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

type rollOptions struct {
	mode     string
	duration float64
	rate     float64
	vx, vy   float64
	maxTicks int
	plot     bool
}

func newRollCmd(a *app) *cobra.Command {
	var opts rollOptions

	cmd := &cobra.Command{
		Use:   "roll",
		Short: "roll the die headless and print the top face",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("duration") {
				opts.duration = a.cfg.Physics.TimedDuration
			}
			if !flags.Changed("rate") {
				opts.rate = a.cfg.Physics.TickRate
			}
			return runRoll(cmd.OutOrStdout(), a, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.mode, "mode", modeTimed, "roll mode: timed, sequential, flick")
	flags.Float64Var(&opts.duration, "duration", 0, "timed roll duration in seconds (default from config)")
	flags.Float64Var(&opts.rate, "rate", 0, "tick rate in Hz (default from config)")
	flags.Float64Var(&opts.vx, "vx", math.NaN(), "flick velocity x in px/s (default random)")
	flags.Float64Var(&opts.vy, "vy", math.NaN(), "flick velocity y in px/s (default random)")
	flags.IntVar(&opts.maxTicks, "max-ticks", 1_000_000, "give up after this many ticks")
	flags.BoolVar(&opts.plot, "plot", false, "plot angular speed over the roll")
	return cmd
}

// rollResult is the outcome of a headless roll.
type rollResult struct {
	Mode    string
	Label   int
	Ticks   int
	Seconds float64
	Settled bool
	Speeds  []float64
	Pitch   float64
	Yaw     float64
	Roll    float64
}

// simulateRoll starts a roll of the given mode and ticks it to rest.
func simulateRoll(e *dice.Engine, rng *rand.Rand, opts rollOptions, fallbackVelocity float64) (rollResult, error) {
	switch opts.mode {
	case modeTimed:
		if err := e.StartTimedRoll(opts.duration); err != nil {
			return rollResult{}, err
		}
	case modeSequential:
		e.StartSequentialRoll()
	case modeFlick:
		vx, vy := opts.vx, opts.vy
		if math.IsNaN(vx) {
			vx = (rng.Float64()*2 - 1) * fallbackVelocity
		}
		if math.IsNaN(vy) {
			vy = (rng.Float64()*2 - 1) * fallbackVelocity
		}
		e.StartFlickRoll(vx, vy)
	default:
		return rollResult{}, fmt.Errorf("unknown roll mode %q", opts.mode)
	}

	res := rollResult{Mode: opts.mode}
	if opts.plot {
		res.Speeds = append(res.Speeds, e.Speed())
	}
	res.Ticks, res.Settled = e.RunToRest(opts.maxTicks, func(_ int, s dice.Snapshot) {
		if opts.plot {
			res.Speeds = append(res.Speeds, s.Speed)
		}
	})

	res.Seconds = float64(res.Ticks) / e.Params().TickRate
	res.Label = e.TopFaceLabel()
	res.Pitch, res.Yaw, res.Roll = e.EulerAnglesDegrees()
	return res, nil
}

func runRoll(w io.Writer, a *app, opts rollOptions) error {
	params := a.cfg.Physics
	params.TickRate = opts.rate
	e, err := a.newEngine(params)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(a.cfg.Seed, a.cfg.Seed>>1))
	res, err := simulateRoll(e, rng, opts, flickSpeed)
	if err != nil {
		return err
	}

	a.log.Info("headless roll",
		zap.String("mode", res.Mode),
		zap.Int("face", res.Label),
		zap.Int("ticks", res.Ticks),
		zap.Bool("settled", res.Settled))

	fmt.Fprintln(w, formatResult(res, a.cfg.Seed))

	if opts.plot && len(res.Speeds) > 1 {
		graph := asciigraph.Plot(res.Speeds,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("angular speed (rad/s) over %d ticks", res.Ticks)))
		fmt.Fprintln(w, graph)
	}
	return nil
}

func formatResult(res rollResult, seed uint64) string {
	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	lines := []string{
		faceStyle.Render(fmt.Sprintf("rolled %d", res.Label)),
		"",
		row("mode", res.Mode),
		row("seed", fmt.Sprint(seed)),
		row("ticks", fmt.Sprintf("%d (%.2fs)", res.Ticks, res.Seconds)),
		row("angles", fmt.Sprintf("pitch %.1f yaw %.1f roll %.1f", res.Pitch, res.Yaw, res.Roll)),
	}
	if !res.Settled {
		lines = append(lines, warnStyle.Render("still rolling at the tick limit"))
	}
	return resultStyle.Render(strings.Join(lines, "\n"))
}
