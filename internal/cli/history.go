package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"truco-lite/internal/ledger"
)

type HistoryOptions struct {
	*RootOptions
	Source string
	Limit  int
}

func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [match-id]",
		Short: "List stored matches, or show one",
		Long: `List the most recent matches in the ledger, newest first. With a match id,
print that match including its event tape.

Examples:
  truco history
  truco history --source replay --limit 5
  truco history 3f1c9a4e-... --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd, args)
		},
	}
	cmd.Flags().StringVar(&opts.Source, "source", "", "filter by source (live|replay)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum matches to list")
	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command, args []string) error {
	out := newFormatter(cmd, opts.RootOptions)
	source := ledger.Source(opts.Source)
	switch source {
	case "", ledger.SourceLive, ledger.SourceReplay:
	default:
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid source %q", opts.Source))
	}

	svc, _, err := openLedger()
	if err != nil {
		return err
	}
	defer svc.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if len(args) == 1 {
		rec, err := svc.GetMatch(ctx, args[0])
		if errors.Is(err, ledger.ErrNotFound) {
			_ = out.Error("not_found", "no match "+args[0], nil)
			return NewExitError(ExitFailure, "match not found")
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "ledger lookup failed", err)
		}
		return out.Success(rec, renderRecord(rec))
	}

	items, err := svc.RecentMatches(ctx, source, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "ledger query failed", err)
	}
	var b strings.Builder
	if len(items) == 0 {
		b.WriteString("no matches stored\n")
	}
	for _, rec := range items {
		fmt.Fprintf(&b, "%s  %-6s %s  %s  %d-%d  winner=%s\n",
			rec.PlayedAt.Format(time.RFC3339), rec.Source, rec.MatchID,
			strings.Join(rec.Players, ","), rec.ScoreUs, rec.ScoreThem, orDash(rec.Winner))
	}
	return out.Success(map[string]any{"items": items}, b.String())
}

func renderRecord(rec ledger.MatchRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "match %s (%s)\n", rec.MatchID, rec.Source)
	fmt.Fprintf(&b, "played at %s, to %d points\n", rec.PlayedAt.Format(time.RFC3339), rec.Threshold)
	fmt.Fprintf(&b, "players: %s\n", strings.Join(rec.Players, ", "))
	fmt.Fprintf(&b, "score: us %d, them %d, winner %s\n", rec.ScoreUs, rec.ScoreThem, orDash(rec.Winner))
	for _, e := range rec.Events {
		fmt.Fprintf(&b, "%3d %s\n", e.Seq, e.EventType)
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
