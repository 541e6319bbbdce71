package truco

import (
	"fmt"
	"math/rand"
	"time"

	"truco-lite/card"
)

// Game is a single truco match. It is not safe for concurrent use; callers
// serialise access to a given Game.
type Game struct {
	cfg Config
	rng *rand.Rand

	players []*Player
	byName  map[string]*Player

	scores [2]int
	round  int
	mano   int
	turn   int

	// round state
	tricks []trickResult
	plays  []play

	envidoChain []EnvidoCall
	envidoDone  bool

	trucoLevel TrucoLevel
	trucoOwner Team
	pending    *pendingBet

	ended  bool
	winner Team

	events []string
}

func NewGame(cfg Config) (*Game, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Game{
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(seed)),
		players: make([]*Player, 0, len(cfg.Players)),
		byName:  make(map[string]*Player, len(cfg.Players)),
	}
	for seat, name := range cfg.Players {
		p := &Player{Name: name, Seat: seat, Team: teamForSeat(seat)}
		g.players = append(g.players, p)
		g.byName[name] = p
	}
	g.startRound()
	return g, nil
}

func (g *Game) Threshold() int { return g.cfg.Threshold }

func (g *Game) Player(name string) *Player { return g.byName[name] }

// Ended reports whether a team has reached the threshold.
func (g *Game) Ended() bool { return g.ended }

// Winner returns the winning team once the game has ended.
func (g *Game) Winner() (Team, bool) {
	if !g.ended {
		return 0, false
	}
	return g.winner, true
}

func (g *Game) Score(t Team) int { return g.scores[t] }

// Apply validates cmd for the named player and applies it.
func (g *Game) Apply(name string, cmd Command) error {
	p, ok := g.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPlayer, name)
	}
	if err := g.check(p, cmd); err != nil {
		return err
	}

	switch cmd.Kind {
	case CommandPlayCard:
		g.playCard(p, cmd.Card)
	case CommandAccept:
		g.accept(p)
	case CommandDecline:
		g.decline(p)
	case CommandFold:
		g.fold(p)
	case CommandEnvido, CommandRealEnvido, CommandFaltaEnvido:
		g.callEnvido(p, envidoCallFor(cmd.Kind))
	case CommandTruco, CommandReTruco, CommandValeCuatro:
		g.callTruco(p, trucoLevelFor(cmd.Kind))
	default:
		return ErrInvalidState("unhandled command " + cmd.String())
	}
	return nil
}

func (g *Game) Fold(name string) error        { return g.Apply(name, Command{Kind: CommandFold}) }
func (g *Game) Accept(name string) error      { return g.Apply(name, Command{Kind: CommandAccept}) }
func (g *Game) Decline(name string) error     { return g.Apply(name, Command{Kind: CommandDecline}) }
func (g *Game) CallEnvido(name string) error  { return g.Apply(name, Command{Kind: CommandEnvido}) }
func (g *Game) CallTruco(name string) error   { return g.Apply(name, Command{Kind: CommandTruco}) }
func (g *Game) CallReTruco(name string) error { return g.Apply(name, Command{Kind: CommandReTruco}) }
func (g *Game) PlayCard(name string, index int) error {
	return g.Apply(name, Command{Kind: CommandPlayCard, Card: index})
}
func (g *Game) CallRealEnvido(name string) error {
	return g.Apply(name, Command{Kind: CommandRealEnvido})
}
func (g *Game) CallFaltaEnvido(name string) error {
	return g.Apply(name, Command{Kind: CommandFaltaEnvido})
}
func (g *Game) CallValeCuatro(name string) error {
	return g.Apply(name, Command{Kind: CommandValeCuatro})
}

// ValidCommands is a pure projection of current state. Unknown players get nil.
func (g *Game) ValidCommands(name string) []string {
	p, ok := g.byName[name]
	if !ok || g.ended {
		return nil
	}
	var out []string
	for i := range p.hand {
		cmd := Command{Kind: CommandPlayCard, Card: i}
		if g.check(p, cmd) == nil {
			out = append(out, cmd.String())
		}
	}
	for _, kind := range candidateCommands {
		cmd := Command{Kind: kind}
		if g.check(p, cmd) == nil {
			out = append(out, cmd.String())
		}
	}
	return out
}

func (g *Game) check(p *Player, cmd Command) error {
	if g.ended {
		return ErrGameEnded
	}
	switch cmd.Kind {
	case CommandPlayCard:
		if g.pending != nil {
			return ErrBetPending
		}
		if p.Seat != g.turn {
			return ErrOutOfTurn
		}
		if cmd.Card < 0 || cmd.Card >= len(p.hand) {
			return fmt.Errorf("%w: %d", ErrInvalidCard, cmd.Card)
		}
		return nil
	case CommandAccept, CommandDecline:
		if g.pending == nil {
			return ErrNoPendingBet
		}
		if p.Team == g.pending.caller {
			return ErrNotYourAnswer
		}
		return nil
	case CommandFold:
		if g.pending != nil {
			if p.Team == g.pending.caller {
				return ErrBetPending
			}
			return nil
		}
		if p.Seat != g.turn {
			return ErrOutOfTurn
		}
		return nil
	case CommandEnvido, CommandRealEnvido, CommandFaltaEnvido:
		return g.checkEnvido(p, envidoCallFor(cmd.Kind))
	case CommandTruco, CommandReTruco, CommandValeCuatro:
		return g.checkTruco(p, trucoLevelFor(cmd.Kind))
	}
	return fmt.Errorf("%w: %d", ErrUnknownCommand, cmd.Kind)
}

func (g *Game) startRound() {
	g.round++
	if g.round > 1 {
		g.mano = g.nextSeat(g.mano)
	}
	g.turn = g.mano
	g.tricks = nil
	g.plays = nil
	g.envidoChain = nil
	g.envidoDone = false
	g.trucoLevel = TrucoLevelNone
	g.trucoOwner = 0
	g.pending = nil

	for _, p := range g.players {
		p.resetForNewRound()
	}
	g.deal()
	g.logf("round %d: %s is mano", g.round, g.players[g.mano].Name)
}

func (g *Game) deal() {
	var deck card.CardList
	if g.cfg.Deck != nil {
		deck.Init(g.cfg.Deck)
	} else {
		deck.Init(card.SpanishDeck)
		deck.Shuffle(g.rng)
	}
	n := len(g.players)
	cards, ok := deck.PopCards(handSize * n)
	if !ok {
		panic("deck underflow")
	}
	for j, c := range cards {
		g.players[(g.mano+j)%n].addHandCard(c)
	}
	for _, p := range g.players {
		p.dealt = append(card.CardList{}, p.hand...)
	}
}

func (g *Game) nextSeat(seat int) int {
	return (seat + 1) % len(g.players)
}

// award adds points and ends the game when the threshold is reached.
func (g *Game) award(t Team, points int) {
	if g.ended {
		return
	}
	g.scores[t] += points
	if g.scores[t] >= g.cfg.Threshold {
		g.ended = true
		g.winner = t
		g.pending = nil
		g.logf("game won by %s %d-%d", t, g.scores[t], g.scores[t.Other()])
	}
}

func (g *Game) endRound(t Team, points int) {
	g.pending = nil
	g.logf("round %d won by %s (+%d)", g.round, t, points)
	g.award(t, points)
	if !g.ended {
		g.startRound()
	}
}

func (g *Game) logf(format string, args ...any) {
	g.events = append(g.events, fmt.Sprintf(format, args...))
}
