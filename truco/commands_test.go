package truco

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand_RoundTripsValidCommands(t *testing.T) {
	g := newHeadsUp(t, 30, headsUpDeck)
	for _, s := range g.ValidCommands("ana") {
		cmd, err := ParseCommand(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, cmd.String())
	}
}

func TestParseCommand_Rejects(t *testing.T) {
	for _, s := range []string{"", "play", "play x", "play -1", "bluff", "truco now"} {
		_, err := ParseCommand(s)
		assert.Error(t, err, s)
	}
	cmd, err := ParseCommand("  Play 2 ")
	require.NoError(t, err)
	assert.Equal(t, Command{Kind: CommandPlayCard, Card: 2}, cmd)
}
