package replay

import "google.golang.org/protobuf/types/known/structpb"

// Scenario scripts one match: who sits where, the target score and every
// command in order. YAML and JSON share the same field names.
type Scenario struct {
	Players   []string   `json:"players" yaml:"players"`
	Threshold uint8      `json:"threshold" yaml:"threshold"`
	Seed      int64      `json:"seed,omitempty" yaml:"seed,omitempty"`
	Deck      []string   `json:"deck,omitempty" yaml:"deck,omitempty"`
	Steps     []StepSpec `json:"steps" yaml:"steps"`
}

type StepSpec struct {
	Player  string `json:"player" yaml:"player"`
	Command string `json:"command" yaml:"command"`
	// ExpectError marks a step the engine must refuse.
	ExpectError bool `json:"expect_error,omitempty" yaml:"expect_error,omitempty"`
}

type ReplayTape struct {
	TapeVersion int           `json:"tape_version"`
	MatchID     string        `json:"match_id"`
	Finished    bool          `json:"finished"`
	Winner      string        `json:"winner,omitempty"`
	Events      []ReplayEvent `json:"events"`
}

type ReplayEvent struct {
	Type        string           `json:"type"`
	Seq         uint64           `json:"seq"`
	Value       *structpb.Struct `json:"-"`
	EnvelopeB64 string           `json:"envelope_b64,omitempty"`
}
