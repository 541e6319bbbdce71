package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truco-lite/card"
)

var headsUpDeck = []card.Card{
	card.CardEspada1, card.CardBasto1,
	card.CardOro7, card.CardCopa5,
	card.CardCopa4, card.CardCopa6,
}

func newHeadsUp(t *testing.T, threshold uint8) *Game {
	t.Helper()
	b := NewBuilder()
	b.AddPlayer("ana")
	b.AddPlayer("beto")
	b.SetThreshold(threshold)
	g, ok := b.FinalizeWith(FinalizeOptions{Seed: 1, Deck: headsUpDeck}).Game()
	require.True(t, ok)
	return g
}

func requireEnvelope[T any](t *testing.T, r Result[T]) {
	t.Helper()
	msg, has := r.Diagnostic()
	require.Equal(t, r.Tag() == TagErr, has, "diagnostic must be present iff failure")
	if has {
		require.NotEmpty(t, msg)
	}
}

func TestMutation_NotEntitledPlayerFailsWithoutChangingState(t *testing.T) {
	g := newHeadsUp(t, 30)
	before := g.StateText()

	res := g.PlayCard("beto", 0)
	requireEnvelope(t, res)
	require.False(t, res.IsOk())
	msg, _ := res.Diagnostic()
	assert.Contains(t, msg, "out of turn")
	assert.Equal(t, before, g.StateText())
}

func TestMutations_EnvelopeInvariant(t *testing.T) {
	g := newHeadsUp(t, 30)
	calls := []Result[Void]{
		g.Accept("ana"),
		g.CallReTruco("ana"),
		g.CallEnvido("ana"),
		g.CallRealEnvido("beto"),
		g.CallFaltaEnvido("ana"),
		g.Decline("ana"),
		g.Decline("beto"),
		g.CallTruco("ana"),
		g.CallReTruco("beto"),
		g.CallValeCuatro("ana"),
		g.Accept("beto"),
		g.PlayCard("ana", 7),
		g.PlayCard("ana", 0),
		g.Fold("nobody"),
		g.Fold("beto"),
		g.Apply(Action(200), "ana", 0),
	}
	var oks, fails int
	for _, r := range calls {
		requireEnvelope(t, r)
		if r.IsOk() {
			oks++
		} else {
			fails++
		}
	}
	assert.Positive(t, oks)
	assert.Positive(t, fails)
}

func TestApplyRaw_InvalidEncodingIsRecoverable(t *testing.T) {
	g := newHeadsUp(t, 30)
	var res Result[Void]
	require.NotPanics(t, func() { res = g.ApplyRaw(ActionFold, []byte{0xc3, 0x28}, 0) })
	requireEnvelope(t, res)
	msg, failed := res.Diagnostic()
	require.True(t, failed)
	assert.Contains(t, msg, ErrInvalidEncoding.Error())

	res = g.ApplyRaw(ActionPlayCard, []byte("ana"), 1)
	assert.True(t, res.IsOk())
}

func TestValidCommands_UnknownPlayerIsEmptyNotError(t *testing.T) {
	g := newHeadsUp(t, 30)
	list := g.ValidCommands("unknown_player")
	assert.Equal(t, 0, list.Len())
	assert.Equal(t, 0, list.Release(nil))

	list = g.ValidCommandsRaw([]byte{0xff})
	assert.Equal(t, 0, list.Len())
}

func TestValidCommands_ReleaseVisitsEveryElement(t *testing.T) {
	g := newHeadsUp(t, 30)
	list := g.ValidCommands("ana")
	n := list.Len()
	require.Equal(t, 8, n)

	var seen []string
	visited := list.Release(func(s string) { seen = append(seen, s) })
	assert.Equal(t, n, visited)
	assert.Equal(t, []string{"play 0", "play 1", "play 2", "envido", "real-envido", "falta-envido", "truco", "fold"}, seen)
	assert.Equal(t, 0, list.Len())
}

func TestPlayerViewText(t *testing.T) {
	g := newHeadsUp(t, 30)
	res := g.PlayerViewText("ana")
	requireEnvelope(t, res)
	require.True(t, res.IsOk())
	assert.Contains(t, res.Value(), "1 espada")

	res = g.PlayerViewText("nobody")
	requireEnvelope(t, res)
	assert.False(t, res.IsOk())
	assert.Empty(t, res.Value())
}

func TestCurrentWinner_NoneUntilTerminal(t *testing.T) {
	g := newHeadsUp(t, 1)
	assert.Equal(t, OptionNone, g.CurrentWinner().Tag())
	_, ok := g.CurrentWinner().Get()
	assert.False(t, ok)

	require.True(t, g.CallTruco("beto").Tag() == TagErr)
	require.True(t, g.CallTruco("ana").IsOk())
	require.True(t, g.Decline("beto").IsOk())

	assert.True(t, g.IsTerminal())
	team, ok := g.CurrentWinner().Get()
	require.True(t, ok)
	assert.Equal(t, TeamUs, team)
	assert.Contains(t, g.StateText(), "game over")
}

func TestNilGamePanics(t *testing.T) {
	var g *Game
	assert.Panics(t, func() { g.Fold("ana") })
	assert.Panics(t, func() { g.IsTerminal() })
	assert.Panics(t, func() { g.ValidCommands("ana") })
	assert.Panics(t, func() { (&Game{}).StateText() })
}

func TestParseAction(t *testing.T) {
	a, c, err := ParseAction("play 2")
	require.NoError(t, err)
	assert.Equal(t, ActionPlayCard, a)
	assert.Equal(t, uint(2), c)

	a, _, err = ParseAction("vale-cuatro")
	require.NoError(t, err)
	assert.Equal(t, ActionValeCuatro, a)
	assert.Equal(t, "vale-cuatro", a.String())

	_, _, err = ParseAction("mazo")
	assert.Error(t, err)
}

func TestPlayerNames_SpellingsNameTheSamePlayer(t *testing.T) {
	decomposed, precomposed := "Jose\u0301", "Jos\u00e9"

	b := NewBuilder()
	require.NoError(t, b.AddPlayerRaw([]byte(decomposed)))
	b.AddPlayer("beto")
	b.SetThreshold(30)
	g, ok := b.FinalizeWith(FinalizeOptions{Seed: 1, Deck: headsUpDeck}).Game()
	require.True(t, ok)

	for _, name := range []string{decomposed, precomposed} {
		list := g.ValidCommands(name)
		assert.Equal(t, 8, list.Len(), name)
		list.Release(nil)
		assert.True(t, g.PlayerViewText(name).IsOk(), name)
	}

	res := g.CallTruco(decomposed)
	requireEnvelope(t, res)
	require.True(t, res.IsOk())
	require.True(t, g.Decline("beto").IsOk())
	assert.Equal(t, 1, g.Snapshot().Scores[0])
}
