package truco

import "truco-lite/card"

type play struct {
	seat int
	card card.Card
}

type trickResult struct {
	plays  []play
	tie    bool
	winner Team
	// seat that leads the next trick
	leader int
}

func (g *Game) playCard(p *Player, index int) {
	c, _ := p.hand.Remove(index)
	p.played.Add(c)
	g.logf("%s plays %s", p.Name, c)
	g.plays = append(g.plays, play{seat: p.Seat, card: c})
	if len(g.plays) < len(g.players) {
		g.turn = g.nextSeat(g.turn)
		return
	}
	g.resolveTrick()
}

func (g *Game) resolveTrick() {
	res := g.evalTrick(g.plays)
	g.tricks = append(g.tricks, res)
	g.plays = nil
	if res.tie {
		g.logf("trick %d tied (parda)", len(g.tricks))
	} else {
		g.logf("trick %d won by %s", len(g.tricks), g.players[res.leader].Name)
	}

	if t, ok := g.roundWinner(); ok {
		g.endRound(t, g.trucoLevel.Points())
		return
	}
	g.turn = res.leader
}

func (g *Game) evalTrick(plays []play) trickResult {
	best := -1
	var top []play
	for _, pl := range plays {
		r := pl.card.TrucoRank()
		switch {
		case r > best:
			best = r
			top = []play{pl}
		case r == best:
			top = append(top, pl)
		}
	}
	res := trickResult{plays: append([]play{}, plays...), winner: g.players[top[0].seat].Team, leader: top[0].seat}
	for _, pl := range top[1:] {
		if g.players[pl.seat].Team != res.winner {
			res.tie = true
		}
	}
	if res.tie {
		res.winner = 0
		res.leader = plays[0].seat
	}
	return res
}

// roundWinner applies the parda rules to the tricks played so far.
func (g *Game) roundWinner() (Team, bool) {
	t := g.tricks
	switch len(t) {
	case 2:
		switch {
		case !t[0].tie && !t[1].tie && t[0].winner == t[1].winner:
			return t[0].winner, true
		case t[0].tie && !t[1].tie:
			return t[1].winner, true
		case !t[0].tie && t[1].tie:
			return t[0].winner, true
		}
	case 3:
		if !t[2].tie {
			return t[2].winner, true
		}
		if !t[0].tie {
			return t[0].winner, true
		}
		return g.players[g.mano].Team, true
	}
	return 0, false
}
