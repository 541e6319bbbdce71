package truco

func (g *Game) checkEnvido(p *Player, call EnvidoCall) error {
	if g.pending != nil {
		if g.pending.kind != betEnvido {
			return ErrBetPending
		}
		if p.Team == g.pending.caller {
			return ErrNotYourAnswer
		}
		if call <= g.envidoChain[len(g.envidoChain)-1] {
			return ErrBetNotRaisable
		}
		return nil
	}
	// first trick only, before any truco has been accepted
	if g.envidoDone || len(g.tricks) > 0 || g.trucoLevel != TrucoLevelNone {
		return ErrEnvidoClosed
	}
	if p.Seat != g.turn {
		return ErrOutOfTurn
	}
	return nil
}

func (g *Game) checkTruco(p *Player, level TrucoLevel) error {
	if g.pending != nil {
		if g.pending.kind != betTruco {
			return ErrBetPending
		}
		if p.Team == g.pending.caller {
			return ErrNotYourAnswer
		}
		if level != g.pending.level+1 {
			return ErrBetNotRaisable
		}
		return nil
	}
	if level != g.trucoLevel+1 {
		return ErrBetNotRaisable
	}
	// only the team that accepted the last raise holds the right to raise again
	if g.trucoLevel != TrucoLevelNone && g.trucoOwner != p.Team {
		return ErrBetNotRaisable
	}
	if p.Seat != g.turn {
		return ErrOutOfTurn
	}
	return nil
}

func (g *Game) callEnvido(p *Player, call EnvidoCall) {
	g.logf("%s calls %s", p.Name, EnvidoCallDictionary[call])
	g.envidoChain = append(g.envidoChain, call)
	if g.pending == nil {
		g.pending = &pendingBet{kind: betEnvido, caller: p.Team, seat: p.Seat, resume: g.turn}
		return
	}
	g.pending.caller = p.Team
	g.pending.seat = p.Seat
}

func (g *Game) callTruco(p *Player, level TrucoLevel) {
	g.logf("%s calls %s", p.Name, TrucoLevelDictionary[level])
	if g.pending == nil {
		g.pending = &pendingBet{kind: betTruco, level: level, caller: p.Team, seat: p.Seat, resume: g.turn}
		return
	}
	// raising in answer accepts the previous level
	g.trucoLevel = g.pending.level
	g.trucoOwner = p.Team
	g.pending.level = level
	g.pending.caller = p.Team
	g.pending.seat = p.Seat
}

func (g *Game) accept(p *Player) {
	bet := g.pending
	g.logf("%s accepts", p.Name)
	switch bet.kind {
	case betEnvido:
		g.pending = nil
		g.turn = bet.resume
		g.envidoDone = true
		g.resolveEnvido()
	case betTruco:
		g.pending = nil
		g.turn = bet.resume
		g.trucoLevel = bet.level
		g.trucoOwner = p.Team
	}
}

func (g *Game) decline(p *Player) {
	bet := g.pending
	g.logf("%s declines", p.Name)
	switch bet.kind {
	case betEnvido:
		g.pending = nil
		g.turn = bet.resume
		g.envidoDone = true
		g.award(bet.caller, g.envidoDeclinedPoints())
	case betTruco:
		// the caller takes the value of the level that was already on the table
		g.endRound(bet.caller, int(bet.level))
	}
}

func (g *Game) fold(p *Player) {
	g.logf("%s folds", p.Name)
	if g.pending != nil && g.pending.kind == betEnvido {
		g.decline(p)
		if g.ended {
			return
		}
	}
	g.endRound(p.Team.Other(), g.trucoLevel.Points())
}

func (g *Game) resolveEnvido() {
	best, team := -1, Team(0)
	// seats in mano order; ties go to whoever is closer to mano
	for k := 0; k < len(g.players); k++ {
		p := g.players[(g.mano+k)%len(g.players)]
		if v := p.envidoPoints(); v > best {
			best, team = v, p.Team
		}
	}
	points := g.envidoAcceptedPoints()
	g.logf("envido won by %s with %d (+%d)", team, best, points)
	g.award(team, points)
}

func (g *Game) envidoAcceptedPoints() int {
	if g.envidoChain[len(g.envidoChain)-1] == EnvidoCallFalta {
		return g.faltaPoints()
	}
	return envidoChainSum(g.envidoChain)
}

func (g *Game) envidoDeclinedPoints() int {
	if len(g.envidoChain) == 1 {
		return 1
	}
	return envidoChainSum(g.envidoChain[:len(g.envidoChain)-1])
}

// faltaPoints is what the leading team still needs to win.
func (g *Game) faltaPoints() int {
	leader := max(g.scores[TeamUs], g.scores[TeamThem])
	return max(g.cfg.Threshold-leader, 1)
}

func envidoChainSum(chain []EnvidoCall) int {
	sum := 0
	for _, c := range chain {
		switch c {
		case EnvidoCallEnvido:
			sum += 2
		case EnvidoCallReal:
			sum += 3
		}
	}
	return sum
}
