package truco

import "truco-lite/card"

type Player struct {
	Name string
	Seat int
	Team Team

	hand   card.CardList
	dealt  card.CardList
	played card.CardList
}

func (p *Player) Hand() []card.Card { return p.hand }

func (p *Player) resetForNewRound() {
	p.hand = make(card.CardList, 0, handSize)
	p.dealt = nil
	p.played = nil
}

func (p *Player) addHandCard(cards ...card.Card) {
	p.hand.Add(cards...)
}

// envidoPoints: two cards of one suit score 20 plus their values, otherwise the best single value.
func (p *Player) envidoPoints() int {
	return envidoPoints(p.dealt)
}

func envidoPoints(cards []card.Card) int {
	best := 0
	for i := range cards {
		if v := cards[i].EnvidoValue(); v > best {
			best = v
		}
		for j := i + 1; j < len(cards); j++ {
			if cards[i].Suit() != cards[j].Suit() {
				continue
			}
			if v := 20 + cards[i].EnvidoValue() + cards[j].EnvidoValue(); v > best {
				best = v
			}
		}
	}
	return best
}
