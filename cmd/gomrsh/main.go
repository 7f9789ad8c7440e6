// cmd/gomrsh/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/creativeyann17/go-mrsh/internal/config"
	"github.com/creativeyann17/go-mrsh/internal/logging"
	"github.com/creativeyann17/go-mrsh/pkg/mrsh"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	configPath string
	profile    string
	workers    int
	logLevel   string
	quiet      bool
}

var flags globalFlags

// app is built once the configuration is known
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	engine *mrsh.Engine
}

var rootCmd = &cobra.Command{
	Use:   "gomrsh",
	Short: "gomrsh - similarity digests for near-duplicate detection",
	Long: `gomrsh derives compact similarity digests from files and scores how much
content two inputs share (0 = unrelated, 100 = identical).`,
	Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Configuration file (TOML or YAML, default ./gomrsh.toml)")
	pf.StringVarP(&flags.profile, "profile", "p", "", "Digest profile (default, classic, fast, murmur, fastcdc)")
	pf.IntVarP(&flags.workers, "workers", "w", 0, "Concurrent workers (0 = number of CPUs)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "Only print results and errors")
}

// newApp loads the configuration and applies the global flags on top of it
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, _, _, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("profile") {
		cfg.Profile = flags.profile
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = flags.workers
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})
	if err != nil {
		return nil, err
	}

	engine, err := mrsh.New(&mrsh.Options{
		Profile: cfg.Profile,
		Workers: cfg.Workers,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, engine: engine}, nil
}

// thresholdFlag returns the --threshold flag value, or the configured default
func (a *app) thresholdFlag(cmd *cobra.Command, value int) (uint8, error) {
	if !cmd.Flags().Changed("threshold") {
		value = a.cfg.Threshold
	}
	if value < 0 || value > mrsh.MaxScore {
		return 0, fmt.Errorf("threshold must be between 0 and %d", mrsh.MaxScore)
	}
	return uint8(value), nil
}
