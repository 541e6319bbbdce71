// Package bridge is the flat boundary over the truco engine: a runtime
// builder state machine, tagged result envelopes and the string and array
// ownership rules foreign callers rely on. Nothing here locks; callers
// serialise access to any one builder or game.
package bridge

import (
	"fmt"
	"slices"

	"truco-lite/card"
	"truco-lite/truco"
)

const MaxPlayers = 6

type Mode uint8

const (
	ModeUndetermined Mode = iota
	ModeDetermined
)

func (m Mode) String() string {
	if m == ModeDetermined {
		return "determined"
	}
	return "undetermined"
}

// BuilderState is one of the 14 (mode, player count) pairs.
type BuilderState uint8

const (
	StateUndetermined0 BuilderState = iota
	StateUndetermined1
	StateUndetermined2
	StateUndetermined3
	StateUndetermined4
	StateUndetermined5
	StateUndetermined6
	StateDetermined0
	StateDetermined1
	StateDetermined2
	StateDetermined3
	StateDetermined4
	StateDetermined5
	StateDetermined6
	builderStateCount
)

func stateOf(m Mode, count uint8) BuilderState {
	return BuilderState(uint8(m)*(MaxPlayers+1) + count)
}

func (s BuilderState) Mode() Mode   { return Mode(uint8(s) / (MaxPlayers + 1)) }
func (s BuilderState) Count() uint8 { return uint8(s) % (MaxPlayers + 1) }

func (s BuilderState) String() string {
	return fmt.Sprintf("%s/%d", s.Mode(), s.Count())
}

type transition struct {
	addPlayer    BuilderState
	setThreshold BuilderState
	finalizable  bool
}

// transitions is total: identity rows are the silent no-ops.
var transitions = [builderStateCount]transition{
	StateUndetermined0: {addPlayer: StateUndetermined1, setThreshold: StateDetermined0},
	StateUndetermined1: {addPlayer: StateUndetermined2, setThreshold: StateDetermined1},
	StateUndetermined2: {addPlayer: StateUndetermined3, setThreshold: StateDetermined2},
	StateUndetermined3: {addPlayer: StateUndetermined4, setThreshold: StateDetermined3},
	StateUndetermined4: {addPlayer: StateUndetermined5, setThreshold: StateDetermined4},
	StateUndetermined5: {addPlayer: StateUndetermined6, setThreshold: StateDetermined5},
	StateUndetermined6: {addPlayer: StateUndetermined6, setThreshold: StateDetermined6},
	StateDetermined0:   {addPlayer: StateDetermined1, setThreshold: StateDetermined0},
	StateDetermined1:   {addPlayer: StateDetermined2, setThreshold: StateDetermined1},
	StateDetermined2:   {addPlayer: StateDetermined3, setThreshold: StateDetermined2, finalizable: true},
	StateDetermined3:   {addPlayer: StateDetermined4, setThreshold: StateDetermined3},
	StateDetermined4:   {addPlayer: StateDetermined5, setThreshold: StateDetermined4, finalizable: true},
	StateDetermined5:   {addPlayer: StateDetermined6, setThreshold: StateDetermined5},
	StateDetermined6:   {addPlayer: StateDetermined6, setThreshold: StateDetermined6, finalizable: true},
}

// Builder assembles a game. It is a plain comparable value so an ignored
// transition is observable as b == before.
type Builder struct {
	mode      Mode
	threshold uint8
	count     uint8
	roster    [MaxPlayers]string
}

func NewBuilder() *Builder {
	return &Builder{}
}

func mustBuilder(b *Builder) {
	if b == nil {
		panic("bridge: nil builder handle")
	}
}

func (b *Builder) State() BuilderState {
	mustBuilder(b)
	return stateOf(b.mode, b.count)
}

func (b *Builder) Mode() Mode       { mustBuilder(b); return b.mode }
func (b *Builder) PlayerCount() int { mustBuilder(b); return int(b.count) }
func (b *Builder) Threshold() uint8 { mustBuilder(b); return b.threshold }
func (b *Builder) Players() []string {
	mustBuilder(b)
	return append([]string{}, b.roster[:b.count]...)
}
func (b *Builder) Finalizable() bool { return transitions[b.State()].finalizable }

// AddPlayer seats name in the next free seat. With six seated, or when the
// name is empty or already seated, it does nothing.
func (b *Builder) AddPlayer(name string) {
	_ = b.seat(CanonicalName(name))
}

// AddPlayerRaw decodes a caller buffer first. A buffer that does not decode,
// or a name that cannot be seated, leaves the builder untouched and the error
// is returned for logging only.
func (b *Builder) AddPlayerRaw(raw []byte) error {
	mustBuilder(b)
	name, err := DecodeName(raw)
	if err != nil {
		return err
	}
	return b.seat(name)
}

func (b *Builder) seat(name string) error {
	s := b.State()
	next := transitions[s].addPlayer
	if next == s {
		return nil
	}
	if name == "" {
		return ErrEmptyName
	}
	if slices.Contains(b.roster[:b.count], name) {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	b.roster[b.count] = name
	b.count = next.Count()
	return nil
}

// SetThreshold fixes the target score once; later calls are discarded.
func (b *Builder) SetThreshold(v uint8) {
	s := b.State()
	next := transitions[s].setThreshold
	if next == s {
		return
	}
	b.mode = next.Mode()
	b.threshold = v
}

type FinalizeTag uint8

const (
	FinalizeGame    FinalizeTag = 0
	FinalizeBuilder FinalizeTag = 1
)

// FinalizeResult holds either the new game or the unchanged builder.
type FinalizeResult struct {
	tag     FinalizeTag
	game    *Game
	builder *Builder
}

func (r FinalizeResult) Tag() FinalizeTag { return r.tag }

func (r FinalizeResult) Game() (*Game, bool) {
	return r.game, r.tag == FinalizeGame
}

// Builder is the echoed builder when finalize did not produce a game.
func (r FinalizeResult) Builder() (*Builder, bool) {
	return r.builder, r.tag == FinalizeBuilder
}

type FinalizeOptions struct {
	// Seed for the engine shuffle (0 => time-based)
	Seed int64
	// Deck fixes the deal order, mostly for replays and tests.
	Deck []card.Card
}

func (b *Builder) Finalize() FinalizeResult {
	return b.FinalizeWith(FinalizeOptions{})
}

// FinalizeWith builds the game when the state allows it. Any refusal,
// including one from the engine itself, echoes the builder unchanged so the
// caller can keep configuring and retry.
func (b *Builder) FinalizeWith(opts FinalizeOptions) FinalizeResult {
	if !b.Finalizable() {
		return FinalizeResult{tag: FinalizeBuilder, builder: b}
	}
	g, err := truco.NewGame(truco.Config{
		Players:   b.Players(),
		Threshold: int(b.threshold),
		Seed:      opts.Seed,
		Deck:      opts.Deck,
	})
	if err != nil {
		return FinalizeResult{tag: FinalizeBuilder, builder: b}
	}
	return FinalizeResult{tag: FinalizeGame, game: &Game{engine: g}}
}
