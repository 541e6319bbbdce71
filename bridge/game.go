package bridge

import (
	"fmt"
	"math"
	"slices"

	"truco-lite/truco"
)

// Action numbers the forwarded mutations in boundary order.
type Action uint8

const (
	ActionFold Action = iota
	ActionAccept
	ActionDecline
	ActionEnvido
	ActionRealEnvido
	ActionFaltaEnvido
	ActionTruco
	ActionReTruco
	ActionValeCuatro
	ActionPlayCard
	actionCount
)

var actionCommands = [actionCount]truco.CommandKind{
	ActionFold:        truco.CommandFold,
	ActionAccept:      truco.CommandAccept,
	ActionDecline:     truco.CommandDecline,
	ActionEnvido:      truco.CommandEnvido,
	ActionRealEnvido:  truco.CommandRealEnvido,
	ActionFaltaEnvido: truco.CommandFaltaEnvido,
	ActionTruco:       truco.CommandTruco,
	ActionReTruco:     truco.CommandReTruco,
	ActionValeCuatro:  truco.CommandValeCuatro,
	ActionPlayCard:    truco.CommandPlayCard,
}

func (a Action) String() string {
	if a >= actionCount {
		return fmt.Sprintf("action(%d)", uint8(a))
	}
	return truco.CommandDictionary[actionCommands[a]]
}

// ParseAction maps an engine command string ("truco", "play 1") to an action
// and card index.
func ParseAction(s string) (Action, uint, error) {
	cmd, err := truco.ParseCommand(s)
	if err != nil {
		return 0, 0, err
	}
	for a, kind := range actionCommands {
		if kind == cmd.Kind {
			return Action(a), uint(cmd.Card), nil
		}
	}
	return 0, 0, fmt.Errorf("%w: %q", truco.ErrUnknownCommand, s)
}

// Game is the handle returned by a successful finalize. It adds no rules of
// its own: every call is forwarded to the engine and re-encoded.
type Game struct {
	engine *truco.Game
}

func mustGame(g *Game) {
	if g == nil || g.engine == nil {
		panic("bridge: nil game handle")
	}
}

// Apply forwards one mutation. card is only read for ActionPlayCard.
func (g *Game) Apply(action Action, player string, card uint) Result[Void] {
	mustGame(g)
	if action >= actionCount {
		return Fail[Void](fmt.Errorf("%w: %s", truco.ErrUnknownCommand, action))
	}
	cmd := truco.Command{Kind: actionCommands[action]}
	if action == ActionPlayCard {
		if card > math.MaxInt32 {
			return Fail[Void](fmt.Errorf("%w: %d", truco.ErrInvalidCard, card))
		}
		cmd.Card = int(card)
	}
	return Capture(Void{}, g.engine.Apply(CanonicalName(player), cmd))
}

// ApplyRaw decodes the caller's player buffer before forwarding.
func (g *Game) ApplyRaw(action Action, rawPlayer []byte, card uint) Result[Void] {
	mustGame(g)
	player, err := DecodeName(rawPlayer)
	if err != nil {
		return Fail[Void](fmt.Errorf("player name: %w", err))
	}
	return g.Apply(action, player, card)
}

func (g *Game) Fold(player string) Result[Void]    { return g.Apply(ActionFold, player, 0) }
func (g *Game) Accept(player string) Result[Void]  { return g.Apply(ActionAccept, player, 0) }
func (g *Game) Decline(player string) Result[Void] { return g.Apply(ActionDecline, player, 0) }
func (g *Game) CallEnvido(player string) Result[Void] {
	return g.Apply(ActionEnvido, player, 0)
}
func (g *Game) CallRealEnvido(player string) Result[Void] {
	return g.Apply(ActionRealEnvido, player, 0)
}
func (g *Game) CallFaltaEnvido(player string) Result[Void] {
	return g.Apply(ActionFaltaEnvido, player, 0)
}
func (g *Game) CallTruco(player string) Result[Void] { return g.Apply(ActionTruco, player, 0) }
func (g *Game) CallReTruco(player string) Result[Void] {
	return g.Apply(ActionReTruco, player, 0)
}
func (g *Game) CallValeCuatro(player string) Result[Void] {
	return g.Apply(ActionValeCuatro, player, 0)
}
func (g *Game) PlayCard(player string, card uint) Result[Void] {
	return g.Apply(ActionPlayCard, player, card)
}

// ValidCommands lists what player may do now. An unknown player gets an
// empty list, which is the engine's answer and not an error.
func (g *Game) ValidCommands(player string) *StringList {
	mustGame(g)
	return NewStringList(slices.Values(g.engine.ValidCommands(CanonicalName(player))))
}

// ValidCommandsRaw has no failure channel, so an undecodable name lists nothing.
func (g *Game) ValidCommandsRaw(rawPlayer []byte) *StringList {
	mustGame(g)
	player, err := DecodeName(rawPlayer)
	if err != nil {
		return NewStringList(slices.Values([]string(nil)))
	}
	return g.ValidCommands(player)
}

func (g *Game) IsTerminal() bool {
	mustGame(g)
	return g.engine.Ended()
}

func (g *Game) CurrentWinner() OptionalTeam {
	mustGame(g)
	t, ok := g.engine.Winner()
	if !ok {
		return NoTeam()
	}
	if t == truco.TeamUs {
		return SomeTeam(TeamUs)
	}
	return SomeTeam(TeamThem)
}

func (g *Game) StateText() string {
	mustGame(g)
	return g.engine.StateText()
}

func (g *Game) PlayerViewText(player string) Result[string] {
	mustGame(g)
	view, err := g.engine.PlayerView(CanonicalName(player))
	return Capture(view, err)
}

func (g *Game) PlayerViewTextRaw(rawPlayer []byte) Result[string] {
	mustGame(g)
	player, err := DecodeName(rawPlayer)
	if err != nil {
		return Fail[string](fmt.Errorf("player name: %w", err))
	}
	return g.PlayerViewText(player)
}

// Snapshot exposes the engine's structured state for replays and servers.
func (g *Game) Snapshot() truco.Snapshot {
	mustGame(g)
	return g.engine.Snapshot()
}
