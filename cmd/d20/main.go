// Command d20 rolls and displays an icosahedral die in the terminal.
package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/d20/internal/config"
	"github.com/taigrr/d20/internal/logger"
	"github.com/taigrr/d20/pkg/dice"
	"github.com/taigrr/d20/pkg/models"
)

// hueStream separates the palette's random stream from the rolls'.
const hueStream = 0x68756573

// app carries state shared by every subcommand.
type app struct {
	configPath string
	logLevel   string
	logFile    string
	seed       uint64

	cfg *config.Config
	log *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "d20",
		Short: "roll a twenty-sided die in the terminal",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// The viewer owns the terminal, so it only logs to file.
			return a.setup(cmd, cmd.Name() != "view")
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync(a.log)
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file path (yaml)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFile, "log-file", "", "also write logs to this file")
	flags.Uint64Var(&a.seed, "seed", 0, "random seed (0 picks one)")

	rootCmd.AddCommand(
		newViewCmd(a),
		newRollCmd(a),
		newExportCmd(a),
		newSnapshotCmd(a),
		newMeshCmd(a),
	)
	return rootCmd
}

// setup loads the config, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command, console bool) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	// CLI flags (highest priority)
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("log-file") {
		cfg.Logging.File.Path = a.logFile
	}
	if flags.Changed("seed") {
		cfg.Seed = a.seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}

	opts := logger.Options{Level: cfg.Logging.Level, File: cfg.Logging.File}
	if console {
		opts.Console = os.Stderr
	}
	log, err := logger.New(opts)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	a.cfg = cfg
	a.log = log
	a.log.Debug("config loaded", zap.Uint64("seed", cfg.Seed), zap.String("command", cmd.Name()))
	return nil
}

// newEngine builds an engine seeded from the config.
func (a *app) newEngine(params dice.Params) (*dice.Engine, error) {
	return dice.New(
		dice.WithParams(params),
		dice.WithSeed(a.cfg.Seed),
		dice.WithLogger(a.log.Named("dice")),
	)
}

// hues draws the face palette for this run.
func (a *app) hues() models.HueAssignment {
	return models.AssignHues(rand.New(rand.NewPCG(a.cfg.Seed, hueStream)))
}

// dieMesh builds the coloured render mesh for this run.
func (a *app) dieMesh() *models.Mesh {
	geom := models.BuildGeometry()
	return geom.Mesh(a.hues())
}
