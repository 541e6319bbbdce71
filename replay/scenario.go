package replay

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"truco-lite/bridge"
	"truco-lite/card"
)

// ParseScenario reads YAML, which also covers JSON input.
func ParseScenario(data []byte) (Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario: %w", err)
	}
	return s, nil
}

func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, err
	}
	return ParseScenario(data)
}

type normalizedStep struct {
	player      string
	command     string
	action      bridge.Action
	card        uint
	expectError bool
}

type normalizedScenario struct {
	players   []string
	threshold uint8
	seed      int64
	deck      []card.Card
	steps     []normalizedStep
}

func normalizeScenario(s Scenario) (normalizedScenario, error) {
	out := normalizedScenario{threshold: s.Threshold, seed: s.Seed}
	if s.Seed == 0 && len(s.Deck) == 0 {
		// replays must be deterministic
		out.seed = 1
	}
	if len(s.Players) == 0 {
		return out, &ReplayError{StepIndex: -1, Reason: "invalid_players", Message: "at least one player is required"}
	}
	for i, p := range s.Players {
		name, err := bridge.DecodeName([]byte(p))
		if err != nil {
			return out, &ReplayError{StepIndex: -1, Reason: "invalid_players", Message: fmt.Sprintf("player %d: %v", i, err)}
		}
		out.players = append(out.players, name)
	}
	for _, raw := range s.Deck {
		c, err := card.ParseCard(raw)
		if err != nil {
			return out, &ReplayError{StepIndex: -1, Reason: "invalid_deck", Message: err.Error()}
		}
		out.deck = append(out.deck, c)
	}
	for i, step := range s.Steps {
		action, cardIndex, err := bridge.ParseAction(step.Command)
		if err != nil {
			return out, &ReplayError{StepIndex: int32(i), Reason: "invalid_command", Message: err.Error()}
		}
		out.steps = append(out.steps, normalizedStep{
			player:      step.Player,
			command:     step.Command,
			action:      action,
			card:        cardIndex,
			expectError: step.ExpectError,
		})
	}
	return out, nil
}
