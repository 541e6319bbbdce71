package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpanishDeck_HasFortyDistinctValidCards(t *testing.T) {
	seen := make(map[Card]bool, len(SpanishDeck))
	for _, c := range SpanishDeck {
		require.True(t, c.Valid(), "card %#x", byte(c))
		require.False(t, seen[c], "duplicate %s", c)
		seen[c] = true
	}
	assert.Len(t, seen, 40)
}

func TestTrucoRank_Hierarchy(t *testing.T) {
	order := []Card{
		CardEspada1, CardBasto1, CardEspada7, CardOro7, CardCopa3, CardBasto2,
		CardOro1, CardEspada12, CardCopa11, CardOro10, CardCopa7, CardBasto6,
		CardEspada5, CardOro4,
	}
	for i := 1; i < len(order); i++ {
		assert.Greater(t, order[i-1].TrucoRank(), order[i].TrucoRank(), "%s vs %s", order[i-1], order[i])
	}
	assert.Equal(t, CardOro3.TrucoRank(), CardEspada3.TrucoRank())
	assert.Equal(t, CardCopa1.TrucoRank(), CardOro1.TrucoRank())
}

func TestParseCard(t *testing.T) {
	cases := map[string]Card{
		"1 espada":  CardEspada1,
		"7oro":      CardOro7,
		"12c":       CardCopa12,
		"10 Bastos": CardBasto10,
	}
	for in, want := range cases {
		got, err := ParseCard(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
		again, err := ParseCard(got.String())
		require.NoError(t, err)
		assert.Equal(t, got, again)
	}

	for _, bad := range []string{"", "8 oro", "9e", "oro", "3x", "13 copa"} {
		_, err := ParseCard(bad)
		assert.Error(t, err, bad)
	}
}

func TestCardList_Remove(t *testing.T) {
	var l CardList
	l.Init([]Card{CardEspada1, CardOro7, CardCopa3})

	c, ok := l.Remove(1)
	require.True(t, ok)
	assert.Equal(t, CardOro7, c)
	assert.Equal(t, CardList{CardEspada1, CardCopa3}, l)

	_, ok = l.Remove(2)
	assert.False(t, ok)
}

func TestEnvidoValue_FiguresCountZero(t *testing.T) {
	assert.Equal(t, 0, CardCopa12.EnvidoValue())
	assert.Equal(t, 0, CardOro10.EnvidoValue())
	assert.Equal(t, 7, CardEspada7.EnvidoValue())
}
