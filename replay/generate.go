package replay

import (
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"truco-lite/bridge"
	"truco-lite/truco"
)

const (
	tapeVersion    = 1
	defaultMatchID = "replay_local"
)

// GenerateTape runs a scenario through the builder and the game handle and
// records what happened. The first refused step stops the run unless the step
// was scripted to be refused.
func GenerateTape(s Scenario) (*ReplayTape, error) {
	ns, err := normalizeScenario(s)
	if err != nil {
		return nil, err
	}

	b := bridge.NewBuilder()
	for _, name := range ns.players {
		b.AddPlayer(name)
	}
	b.SetThreshold(ns.threshold)
	fin := b.FinalizeWith(bridge.FinalizeOptions{Seed: ns.seed, Deck: ns.deck})
	game, ok := fin.Game()
	if !ok {
		return nil, &ReplayError{
			StepIndex: -1,
			Reason:    "finalize_failed",
			Message:   fmt.Sprintf("builder stayed in state %s with players %v", b.State(), b.Players()),
		}
	}

	tb := newTapeBuilder(defaultMatchID)
	if err := tb.addGameStart(ns, game.Snapshot()); err != nil {
		return nil, err
	}

	for i, step := range ns.steps {
		if game.IsTerminal() {
			return nil, &ReplayError{
				StepIndex: int32(i),
				Reason:    "no_command_expected",
				Message:   "game is already over",
			}
		}
		before := game.Snapshot()
		res := game.Apply(step.action, step.player, step.card)
		if msg, failed := res.Diagnostic(); failed {
			if !step.expectError {
				return nil, &ReplayError{
					StepIndex: int32(i),
					Reason:    reasonFor(msg),
					Message:   msg,
					Expected:  expectedFor(game, before, step.player),
				}
			}
			if err := tb.addRejected(i, step, msg); err != nil {
				return nil, err
			}
			continue
		}
		if step.expectError {
			return nil, &ReplayError{
				StepIndex: int32(i),
				Reason:    "expected_rejection",
				Message:   fmt.Sprintf("%s by %s was accepted", step.command, step.player),
			}
		}

		after := game.Snapshot()
		if err := tb.addCommand(i, step, after); err != nil {
			return nil, err
		}
		if after.Round != before.Round || after.Ended {
			if err := tb.addRoundEnd(before.Round, after); err != nil {
				return nil, err
			}
		}
		if after.Ended {
			if err := tb.addGameEnd(after); err != nil {
				return nil, err
			}
		}
	}

	tape := &ReplayTape{
		TapeVersion: tapeVersion,
		MatchID:     tb.matchID,
		Events:      tb.events,
		Finished:    game.IsTerminal(),
	}
	if team, ok := game.CurrentWinner().Get(); ok {
		tape.Winner = team.String()
	}
	return tape, nil
}

func reasonFor(msg string) string {
	switch {
	case strings.Contains(msg, truco.ErrOutOfTurn.Error()):
		return "out_of_turn"
	case strings.Contains(msg, truco.ErrUnknownPlayer.Error()):
		return "unknown_player"
	case strings.Contains(msg, truco.ErrGameEnded.Error()):
		return "game_ended"
	default:
		return "illegal_command"
	}
}

func expectedFor(game *bridge.Game, snap truco.Snapshot, player string) *ExpectedState {
	exp := &ExpectedState{Player: player, TurnSeat: snap.TurnSeat}
	if snap.TurnSeat >= 0 && snap.TurnSeat < len(snap.Players) {
		// report what the seat on turn could have done instead
		exp.Player = snap.Players[snap.TurnSeat].Name
	}
	list := game.ValidCommands(exp.Player)
	for _, cmd := range list.All() {
		exp.ValidCommands = append(exp.ValidCommands, cmd)
	}
	list.Release(func(string) {})
	return exp
}

type tapeBuilder struct {
	matchID string
	seq     uint64
	events  []ReplayEvent
}

func newTapeBuilder(matchID string) *tapeBuilder {
	return &tapeBuilder{matchID: matchID}
}

func (b *tapeBuilder) addGameStart(ns normalizedScenario, snap truco.Snapshot) error {
	players := make([]any, 0, len(snap.Players))
	for _, p := range snap.Players {
		players = append(players, map[string]any{
			"name": p.Name,
			"seat": p.Seat,
			"team": p.Team.String(),
		})
	}
	return b.push("gameStart", map[string]any{
		"players":   players,
		"threshold": int(ns.threshold),
		"mano":      snap.ManoSeat,
	})
}

func (b *tapeBuilder) addCommand(i int, step normalizedStep, snap truco.Snapshot) error {
	fields := map[string]any{
		"step":      i,
		"player":    step.player,
		"command":   step.action.String(),
		"round":     snap.Round,
		"scoreUs":   snap.Scores[truco.TeamUs],
		"scoreThem": snap.Scores[truco.TeamThem],
		"turnSeat":  snap.TurnSeat,
	}
	if step.action == bridge.ActionPlayCard {
		fields["card"] = int(step.card)
	}
	if snap.Pending != nil {
		fields["pending"] = snap.Pending.Call
	}
	return b.push("command", fields)
}

func (b *tapeBuilder) addRejected(i int, step normalizedStep, msg string) error {
	return b.push("commandRejected", map[string]any{
		"step":    i,
		"player":  step.player,
		"command": step.action.String(),
		"reason":  msg,
	})
}

func (b *tapeBuilder) addRoundEnd(round int, snap truco.Snapshot) error {
	return b.push("roundEnd", map[string]any{
		"round":     round,
		"scoreUs":   snap.Scores[truco.TeamUs],
		"scoreThem": snap.Scores[truco.TeamThem],
	})
}

func (b *tapeBuilder) addGameEnd(snap truco.Snapshot) error {
	return b.push("gameEnd", map[string]any{
		"winner":    bridge.Team(snap.Winner).String(),
		"scoreUs":   snap.Scores[truco.TeamUs],
		"scoreThem": snap.Scores[truco.TeamThem],
	})
}

func (b *tapeBuilder) push(eventType string, fields map[string]any) error {
	b.seq++
	fields["seq"] = b.seq
	fields["matchId"] = b.matchID
	value, err := structpb.NewStruct(fields)
	if err != nil {
		return &ReplayError{StepIndex: -1, Reason: "marshal_failed", Message: err.Error()}
	}
	raw, err := proto.MarshalOptions{Deterministic: true}.Marshal(value)
	if err != nil {
		return &ReplayError{StepIndex: -1, Reason: "marshal_failed", Message: err.Error()}
	}
	b.events = append(b.events, ReplayEvent{
		Type:        eventType,
		Seq:         b.seq,
		Value:       value,
		EnvelopeB64: base64.StdEncoding.EncodeToString(raw),
	})
	return nil
}
