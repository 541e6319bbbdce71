package truco

import (
	"fmt"

	"truco-lite/card"
)

type Config struct {
	// Seats in order; even seats play for TeamUs, odd seats for TeamThem.
	Players []string

	// Points a team needs to win the game.
	Threshold int

	// RNG seed (0 => time-based)
	Seed int64

	// Optional fixed deal order, reused every round and dealt round-robin from mano.
	Deck []card.Card
}

func (c Config) validate() error {
	switch len(c.Players) {
	case 2, 4, 6:
	default:
		return fmt.Errorf("player count must be 2, 4 or 6, got %d", len(c.Players))
	}
	seen := make(map[string]bool, len(c.Players))
	for i, name := range c.Players {
		if name == "" {
			return fmt.Errorf("player %d has an empty name", i)
		}
		if seen[name] {
			return fmt.Errorf("duplicate player name %q", name)
		}
		seen[name] = true
	}
	if c.Threshold < 0 {
		return fmt.Errorf("Threshold must be >= 0")
	}
	if c.Deck != nil {
		if len(c.Deck) < handSize*len(c.Players) {
			return fmt.Errorf("deck override needs %d cards, got %d", handSize*len(c.Players), len(c.Deck))
		}
		dup := make(map[card.Card]bool, len(c.Deck))
		for _, cc := range c.Deck {
			if !cc.Valid() || dup[cc] {
				return fmt.Errorf("invalid deck override card %s", cc)
			}
			dup[cc] = true
		}
	}
	return nil
}
