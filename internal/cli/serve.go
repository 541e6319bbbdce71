package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"truco-lite/internal/gateway"
)

type ServeOptions struct {
	*RootOptions
	Addr string
}

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve live matches over HTTP and WebSocket",
		Long: `Start the match gateway. Finished matches are written to the ledger
selected by LEDGER_MODE.

Examples:
  truco serve
  LEDGER_MODE=sqlite truco serve --addr :9000`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default TRUCO_ADDR)")
	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions) error {
	svc, cfg, err := openLedger()
	if err != nil {
		return err
	}
	defer svc.Close()

	addr := opts.Addr
	if addr == "" {
		addr = cfg.Addr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           gateway.New(svc).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("component", "server").Str("addr", addr).Str("ledger", cfg.Ledger.Mode).Msg("starting gateway")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return WrapExitError(ExitCommandError, "server exited", err)
	case <-ctx.Done():
	}

	log.Info().Str("component", "server").Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
