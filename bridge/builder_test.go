package bridge

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truco-lite/card"
)

func addPlayers(b *Builder, n int) {
	for i := 0; i < n; i++ {
		b.AddPlayer(fmt.Sprintf("p%d", b.PlayerCount()+1))
	}
}

func TestTransitions_CoverEveryState(t *testing.T) {
	for s := BuilderState(0); s < builderStateCount; s++ {
		row := transitions[s]
		assert.Equal(t, ModeDetermined, row.setThreshold.Mode(), "state %s", s)
		assert.Equal(t, s.Count(), row.setThreshold.Count(), "state %s", s)
		assert.Equal(t, s.Mode(), row.addPlayer.Mode(), "state %s", s)
		assert.Equal(t, min(s.Count()+1, MaxPlayers), row.addPlayer.Count(), "state %s", s)

		even := s.Count() == 2 || s.Count() == 4 || s.Count() == 6
		assert.Equal(t, s.Mode() == ModeDetermined && even, row.finalizable, "state %s", s)
	}
}

func TestAddPlayer_CountIsCappedAtSix(t *testing.T) {
	for k := 0; k <= 10; k++ {
		b := NewBuilder()
		for i := 0; i < k; i++ {
			before := *b
			b.AddPlayer(fmt.Sprintf("p%d", i))
			if i >= MaxPlayers {
				require.Equal(t, before, *b, "call %d must be a no-op", i+1)
			}
		}
		assert.Equal(t, min(k, MaxPlayers), b.PlayerCount(), "k=%d", k)
		assert.Equal(t, ModeUndetermined, b.Mode())
	}
}

func TestSetThreshold_OnlyOnce(t *testing.T) {
	b := NewBuilder()
	addPlayers(b, 3)
	b.SetThreshold(15)
	assert.Equal(t, ModeDetermined, b.Mode())
	assert.Equal(t, uint8(15), b.Threshold())
	assert.Equal(t, 3, b.PlayerCount())

	before := *b
	b.SetThreshold(30)
	assert.Equal(t, before, *b)
	assert.Equal(t, StateDetermined3, b.State())
}

func TestFinalize_OnlyDeterminedEvenCounts(t *testing.T) {
	for _, determined := range []bool{false, true} {
		for count := 0; count <= MaxPlayers; count++ {
			t.Run(fmt.Sprintf("determined=%v/count=%d", determined, count), func(t *testing.T) {
				b := NewBuilder()
				addPlayers(b, count)
				if determined {
					b.SetThreshold(30)
				}
				before := *b

				res := b.Finalize()
				want := determined && count%2 == 0 && count > 0
				g, ok := res.Game()
				assert.Equal(t, want, ok)
				if want {
					require.NotNil(t, g)
					assert.Equal(t, FinalizeGame, res.Tag())
					return
				}
				echo, ok := res.Builder()
				require.True(t, ok)
				assert.Same(t, b, echo)
				assert.Equal(t, before, *echo)
			})
		}
	}
}

func TestFinalize_EngineRefusalEchoesBuilder(t *testing.T) {
	b := NewBuilder()
	addPlayers(b, 2)
	b.SetThreshold(15)
	before := *b

	// a deal override too short for two hands is refused by the engine
	res := b.FinalizeWith(FinalizeOptions{Deck: []card.Card{card.CardEspada1, card.CardBasto1}})
	echo, ok := res.Builder()
	require.True(t, ok)
	assert.Same(t, b, echo)
	assert.Equal(t, before, *b)

	_, ok = b.Finalize().Game()
	assert.True(t, ok)
}

func TestAddPlayer_UnseatableNamesAreNoOps(t *testing.T) {
	b := NewBuilder()
	b.AddPlayer("ana")
	before := *b

	b.AddPlayer("ana")
	assert.Equal(t, before, *b)
	b.AddPlayer("")
	assert.Equal(t, before, *b)
	// the decomposed spelling is the same player
	b.AddPlayer("ana\u0301")
	b.AddPlayer("an\u00e1")
	assert.Equal(t, 2, b.PlayerCount())

	require.ErrorIs(t, b.AddPlayerRaw([]byte("ana")), ErrDuplicateName)
	assert.Equal(t, 2, b.PlayerCount())
}

func TestFinalize_IffHoldsWithRepeatedNames(t *testing.T) {
	b := NewBuilder()
	for i := 0; i < 6; i++ {
		b.AddPlayer("ana")
	}
	b.SetThreshold(30)
	assert.Equal(t, StateDetermined1, b.State())
	assert.False(t, b.Finalizable())
	_, ok := b.Finalize().Game()
	assert.False(t, ok)

	b.AddPlayer("beto")
	require.True(t, b.Finalizable())
	_, ok = b.Finalize().Game()
	assert.True(t, ok)

	// every finalizable state reached through AddPlayer finalizes
	for n := 0; n <= 8; n++ {
		b := NewBuilder()
		b.SetThreshold(9)
		for i := 0; i < n; i++ {
			b.AddPlayer(fmt.Sprintf("p%d", i%4))
		}
		_, ok := b.Finalize().Game()
		assert.Equal(t, b.Finalizable(), ok, "n=%d state=%s", n, b.State())
	}
}

func TestAddPlayerRaw_InvalidEncodingIsNoOp(t *testing.T) {
	b := NewBuilder()
	before := *b
	err := b.AddPlayerRaw([]byte{0xff, 0xfe})
	require.ErrorIs(t, err, ErrInvalidEncoding)
	assert.Equal(t, before, *b)

	require.ErrorIs(t, b.AddPlayerRaw(nil), ErrEmptyName)
	require.NoError(t, b.AddPlayerRaw([]byte("ana\x00")))
	assert.Equal(t, []string{"ana"}, b.Players())
}

func TestNilBuilderPanics(t *testing.T) {
	var b *Builder
	assert.Panics(t, func() { b.AddPlayer("x") })
	assert.Panics(t, func() { b.SetThreshold(1) })
	assert.Panics(t, func() { b.Finalize() })
}

func TestScenario_FourPlayersThirty(t *testing.T) {
	b := NewBuilder()
	addPlayers(b, 4)
	b.SetThreshold(30)

	g, ok := b.Finalize().Game()
	require.True(t, ok)
	snap := g.Snapshot()
	assert.Len(t, snap.Players, 4)
	assert.Equal(t, 30, snap.Threshold)
	assert.False(t, g.IsTerminal())
}

func TestScenario_RetryAfterFailedFinalize(t *testing.T) {
	b := NewBuilder()
	b.SetThreshold(15)
	addPlayers(b, 3)

	res := b.Finalize()
	echo, ok := res.Builder()
	require.True(t, ok)
	assert.Equal(t, StateDetermined3, echo.State())
	assert.Equal(t, uint8(15), echo.Threshold())

	echo.AddPlayer("p4")
	g, ok := echo.Finalize().Game()
	require.True(t, ok)
	assert.Len(t, g.Snapshot().Players, 4)
}
