package gateway

import (
	"context"
	"sync"
	"time"

	"truco-lite/bridge"
	"truco-lite/internal/ledger"
	"truco-lite/replay"
)

// match owns one game handle. Every access to game, steps or subscribers
// goes through mu; the bridge itself does no locking.
type match struct {
	mu          sync.Mutex
	id          string
	scenario    replay.Scenario
	game        *bridge.Game
	createdAt   time.Time
	saved       bool
	subscribers map[*Connection]struct{}
}

type matchView struct {
	MatchID   string   `json:"match_id"`
	Players   []string `json:"players"`
	Threshold int      `json:"threshold"`
	Round     int      `json:"round"`
	ScoreUs   int      `json:"score_us"`
	ScoreThem int      `json:"score_them"`
	Terminal  bool     `json:"terminal"`
	Winner    string   `json:"winner,omitempty"`
	StateText string   `json:"state_text"`
}

type playerView struct {
	MatchID  string   `json:"match_id"`
	Player   string   `json:"player"`
	Text     string   `json:"text"`
	Commands []string `json:"commands"`
	Terminal bool     `json:"terminal"`
}

// view must be called with mu held.
func (m *match) view() matchView {
	snap := m.game.Snapshot()
	v := matchView{
		MatchID:   m.id,
		Players:   m.scenario.Players,
		Threshold: int(m.scenario.Threshold),
		Round:     snap.Round,
		ScoreUs:   snap.Scores[0],
		ScoreThem: snap.Scores[1],
		Terminal:  m.game.IsTerminal(),
		StateText: m.game.StateText(),
	}
	if team, ok := m.game.CurrentWinner().Get(); ok {
		v.Winner = team.String()
	}
	return v
}

// viewFor must be called with mu held.
func (m *match) viewFor(player string) (playerView, error) {
	res := m.game.PlayerViewText(player)
	if msg, failed := res.Diagnostic(); failed {
		return playerView{}, &commandError{msg: msg}
	}
	return playerView{
		MatchID:  m.id,
		Player:   player,
		Text:     res.Value(),
		Commands: validCommands(m.game, player),
		Terminal: m.game.IsTerminal(),
	}, nil
}

func validCommands(game *bridge.Game, player string) []string {
	list := game.ValidCommands(player)
	out := make([]string, 0, list.Len())
	for _, cmd := range list.All() {
		out = append(out, cmd)
	}
	list.Release(func(string) {})
	return out
}

type commandError struct{ msg string }

func (e *commandError) Error() string { return e.msg }

// apply runs one command and records it in the match script. Refused
// commands are recorded as scripted refusals so the saved tape replays
// exactly what the table saw.
func (m *match) apply(player, command string) error {
	action, cardIndex, err := bridge.ParseAction(command)
	if err != nil {
		return &commandError{msg: err.Error()}
	}
	res := m.game.Apply(action, player, cardIndex)
	step := replay.StepSpec{Player: player, Command: command}
	if msg, failed := res.Diagnostic(); failed {
		if m.game.Snapshot().Ended {
			// nothing can follow a finished game in a script
			return &commandError{msg: msg}
		}
		step.ExpectError = true
		m.scenario.Steps = append(m.scenario.Steps, step)
		return &commandError{msg: msg}
	}
	m.scenario.Steps = append(m.scenario.Steps, step)
	return nil
}

// record regenerates the match tape from its script for the ledger.
// Must be called with mu held.
func (m *match) record() (ledger.MatchRecord, error) {
	tape, err := replay.GenerateTape(m.scenario)
	if err != nil {
		return ledger.MatchRecord{}, err
	}
	rec := ledger.RecordFromTape(tape, m.scenario, m.createdAt)
	rec.MatchID = m.id
	rec.Source = ledger.SourceLive
	return rec, nil
}

func (m *match) saveIfFinished(ctx context.Context, svc ledger.Service) (bool, error) {
	if m.saved || !m.game.IsTerminal() || svc == nil {
		return false, nil
	}
	rec, err := m.record()
	if err != nil {
		return false, err
	}
	if _, err := svc.SaveMatch(ctx, rec); err != nil {
		return false, err
	}
	m.saved = true
	return true, nil
}
