package cli

import (
	"fmt"
	"slices"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"truco-lite/internal/config"
	"truco-lite/internal/ledger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	EnvFile string
}

var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the truco CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "truco",
		Short: "truco - replay, store and serve truco matches",
		Long:  "Drives the truco engine through its boundary layer: scripted replays, the match ledger and a live gateway.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.EnvFile != "" {
				// a missing .env is normal outside development
				_ = godotenv.Load(opts.EnvFile)
			}
			setupLogging(cmd, opts)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

func setupLogging(cmd *cobra.Command, opts *RootOptions) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: true})
	level := zerolog.InfoLevel
	if cfg, err := config.Load(); err == nil {
		if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
			level = lvl
		}
	}
	if opts.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
}

func openLedger() (ledger.Service, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, cfg, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	svc, _, err := ledger.NewService(cfg.Ledger)
	if err != nil {
		return nil, cfg, WrapExitError(ExitCommandError, "failed to open ledger", err)
	}
	return svc, cfg, nil
}

func newFormatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
