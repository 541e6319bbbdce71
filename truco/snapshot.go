package truco

import "truco-lite/card"

type PlayerSnapshot struct {
	Name   string
	Seat   int
	Team   Team
	Hand   []card.Card
	Played []card.Card
}

type PlaySnapshot struct {
	Seat int
	Card card.Card
}

type TrickSnapshot struct {
	Plays  []PlaySnapshot
	Tie    bool
	Winner Team
}

type BetSnapshot struct {
	Envido     bool
	Call       string
	CallerTeam Team
	CallerSeat int
}

type Snapshot struct {
	Round     int
	ManoSeat  int
	TurnSeat  int
	Threshold int
	Scores    [2]int

	Ended     bool
	HasWinner bool
	Winner    Team

	TrucoLevel TrucoLevel
	TrucoOwner Team
	EnvidoDone bool
	Pending    *BetSnapshot

	Tricks      []TrickSnapshot
	CurrentPlay []PlaySnapshot
	Players     []PlayerSnapshot
}

func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Round:      g.round,
		ManoSeat:   g.mano,
		TurnSeat:   g.turn,
		Threshold:  g.cfg.Threshold,
		Scores:     g.scores,
		Ended:      g.ended,
		HasWinner:  g.ended,
		Winner:     g.winner,
		TrucoLevel: g.trucoLevel,
		TrucoOwner: g.trucoOwner,
		EnvidoDone: g.envidoDone,
	}
	if g.pending != nil {
		bs := &BetSnapshot{
			Envido:     g.pending.kind == betEnvido,
			CallerTeam: g.pending.caller,
			CallerSeat: g.pending.seat,
			Call:       g.pendingCall(),
		}
		s.Pending = bs
	}
	for _, t := range g.tricks {
		s.Tricks = append(s.Tricks, TrickSnapshot{Plays: playSnapshots(t.plays), Tie: t.tie, Winner: t.winner})
	}
	s.CurrentPlay = playSnapshots(g.plays)
	for _, p := range g.players {
		s.Players = append(s.Players, PlayerSnapshot{
			Name:   p.Name,
			Seat:   p.Seat,
			Team:   p.Team,
			Hand:   append([]card.Card{}, p.hand...),
			Played: append([]card.Card{}, p.played...),
		})
	}
	return s
}

func playSnapshots(plays []play) []PlaySnapshot {
	if len(plays) == 0 {
		return nil
	}
	out := make([]PlaySnapshot, 0, len(plays))
	for _, pl := range plays {
		out = append(out, PlaySnapshot{Seat: pl.seat, Card: pl.card})
	}
	return out
}

func (g *Game) pendingCall() string {
	if g.pending == nil {
		return ""
	}
	if g.pending.kind == betEnvido {
		return EnvidoCallDictionary[g.envidoChain[len(g.envidoChain)-1]]
	}
	return TrucoLevelDictionary[g.pending.level]
}
