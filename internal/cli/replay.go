package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"truco-lite/internal/ledger"
	"truco-lite/replay"
)

type ReplayOptions struct {
	*RootOptions
	Save bool
}

type ReplayResult struct {
	Tape    *replay.WireReplayTape `json:"tape"`
	MatchID string                 `json:"match_id,omitempty"`
}

func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <scenario>",
		Short: "Run a scripted match and print its event tape",
		Long: `Run a YAML or JSON scenario through the builder and the game handle.

Exit codes:
  0 - every step behaved as scripted
  1 - a step was refused (or accepted when it was scripted to fail)
  2 - command error (unreadable scenario, ledger unavailable)

Examples:
  truco replay testdata/short_match.yaml
  truco replay match.json --format json --save`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd, args[0])
		},
	}
	cmd.Flags().BoolVar(&opts.Save, "save", false, "store the tape in the ledger")
	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command, path string) error {
	out := newFormatter(cmd, opts.RootOptions)

	scenario, err := replay.LoadScenario(path)
	if err != nil {
		_ = out.Error("invalid_scenario", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	out.VerboseLog("loaded %s: %d players, %d steps", path, len(scenario.Players), len(scenario.Steps))

	tape, err := replay.GenerateTape(scenario)
	if err != nil {
		replayErr := replay.AsReplayError(err)
		_ = out.Error(replayErr.Reason, replayErr.Message, replayErr.Expected)
		return WrapExitError(ExitFailure, "replay failed", replayErr)
	}

	result := ReplayResult{Tape: replay.ToWireReplayTape(tape)}
	if opts.Save {
		svc, _, err := openLedger()
		if err != nil {
			return err
		}
		defer svc.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		id, err := svc.SaveMatch(ctx, ledger.RecordFromTape(tape, scenario, time.Now()))
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to save replay", err)
		}
		result.MatchID = id
	}

	return out.Success(result, renderTape(result))
}

func renderTape(r ReplayResult) string {
	var b strings.Builder
	for _, e := range r.Tape.Events {
		fmt.Fprintf(&b, "%3d %-16s %s\n", e.Seq, e.Type, renderFields(e.Fields))
	}
	if r.Tape.Finished {
		fmt.Fprintf(&b, "finished: %s wins\n", r.Tape.Winner)
	} else {
		b.WriteString("finished: no\n")
	}
	if r.MatchID != "" {
		fmt.Fprintf(&b, "saved as %s\n", r.MatchID)
	}
	return b.String()
}

func renderFields(fields map[string]any) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "seq" || k == "matchId" {
			continue
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(parts, " ")
}
