package truco

import (
	"fmt"
	"strings"

	"truco-lite/card"
)

const recentEvents = 6

// StateText renders the whole table, every hand included.
func (g *Game) StateText() string {
	var b strings.Builder
	g.writeHeader(&b)
	for _, p := range g.players {
		fmt.Fprintf(&b, "  [%d] %s (%s)%s hand: %s\n", p.Seat, p.Name, p.Team, g.marker(p), joinCards(p.hand))
	}
	g.writeEvents(&b)
	return b.String()
}

// PlayerView renders the table as the named player sees it.
func (g *Game) PlayerView(name string) (string, error) {
	me, ok := g.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlayer, name)
	}
	var b strings.Builder
	g.writeHeader(&b)
	for _, p := range g.players {
		hand := fmt.Sprintf("%d cards", len(p.hand))
		if p == me {
			hand = joinCards(p.hand)
		}
		fmt.Fprintf(&b, "  [%d] %s (%s)%s hand: %s\n", p.Seat, p.Name, p.Team, g.marker(p), hand)
	}
	if cmds := g.ValidCommands(name); len(cmds) > 0 {
		fmt.Fprintf(&b, "you can: %s\n", strings.Join(cmds, ", "))
	}
	g.writeEvents(&b)
	return b.String(), nil
}

func (g *Game) writeHeader(b *strings.Builder) {
	fmt.Fprintf(b, "round %d, playing to %d\n", g.round, g.cfg.Threshold)
	fmt.Fprintf(b, "score: %s %d, %s %d\n", TeamUs, g.scores[TeamUs], TeamThem, g.scores[TeamThem])
	if g.ended {
		fmt.Fprintf(b, "game over: %s wins\n", g.winner)
		return
	}
	fmt.Fprintf(b, "truco: %s", TrucoLevelDictionary[g.trucoLevel])
	if g.pending != nil {
		fmt.Fprintf(b, ", waiting on %s to answer %s", g.pending.caller.Other(), g.pendingCall())
	}
	b.WriteString("\n")
	for i, t := range g.tricks {
		fmt.Fprintf(b, "trick %d: %s", i+1, g.joinPlays(t.plays))
		if t.tie {
			b.WriteString(" (parda)\n")
		} else {
			fmt.Fprintf(b, " -> %s\n", t.winner)
		}
	}
	if len(g.plays) > 0 {
		fmt.Fprintf(b, "on the table: %s\n", g.joinPlays(g.plays))
	}
}

func (g *Game) marker(p *Player) string {
	var m []string
	if p.Seat == g.mano {
		m = append(m, "mano")
	}
	if !g.ended && g.pending == nil && p.Seat == g.turn {
		m = append(m, "to play")
	}
	if len(m) == 0 {
		return ""
	}
	return " <" + strings.Join(m, ", ") + ">"
}

func (g *Game) writeEvents(b *strings.Builder) {
	start := max(len(g.events)-recentEvents, 0)
	for _, e := range g.events[start:] {
		fmt.Fprintf(b, "- %s\n", e)
	}
}

func (g *Game) joinPlays(plays []play) string {
	parts := make([]string, 0, len(plays))
	for _, pl := range plays {
		parts = append(parts, fmt.Sprintf("%s %s", g.players[pl.seat].Name, pl.card))
	}
	return strings.Join(parts, ", ")
}

// joinCards prefixes each card with the index play expects.
func joinCards(cards []card.Card) string {
	if len(cards) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(cards))
	for i, c := range cards {
		parts = append(parts, fmt.Sprintf("%d:%s", i, c))
	}
	return strings.Join(parts, " ")
}
