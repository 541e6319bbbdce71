package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shortMatch = `players: [ana, beto]
threshold: 1
deck: ["1e", "1b", "7o", "5c", "4c", "6c"]
steps:
  - {player: ana, command: "play 0"}
  - {player: beto, command: "play 0"}
  - {player: ana, command: "play 0"}
  - {player: beto, command: "play 0"}
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func useSQLiteLedger(t *testing.T) {
	t.Helper()
	t.Setenv("LEDGER_MODE", "sqlite")
	t.Setenv("LEDGER_SQLITE_PATH", filepath.Join(t.TempDir(), "ledger.db"))
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "truco", cmd.Use)

	for _, name := range []string{"replay", "history", "serve"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "--format", "xml", "history")
	assert.Error(t, err)
}

func TestReplay_Text(t *testing.T) {
	out, err := execute(t, "replay", writeScenario(t, shortMatch))
	require.NoError(t, err)
	assert.Contains(t, out, "gameStart")
	assert.Contains(t, out, "command=play")
	assert.Contains(t, out, "finished: us wins")
}

func TestReplay_JSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "replay", writeScenario(t, shortMatch))
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Tape struct {
				Finished bool `json:"finished"`
				Events   []struct {
					Type        string `json:"type"`
					EnvelopeB64 string `json:"envelopeB64"`
				} `json:"events"`
			} `json:"tape"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Tape.Finished)
	require.NotEmpty(t, resp.Data.Tape.Events)
	assert.NotEmpty(t, resp.Data.Tape.Events[0].EnvelopeB64)
}

func TestReplay_RefusedStep(t *testing.T) {
	bad := shortMatch + "  - {player: ana, command: fold}\n"
	out, err := execute(t, "replay", writeScenario(t, bad))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "no_command_expected")

	_, err = execute(t, "replay", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestReplay_SaveThenHistory(t *testing.T) {
	useSQLiteLedger(t)

	out, err := execute(t, "--format", "json", "replay", "--save", writeScenario(t, shortMatch))
	require.NoError(t, err)
	var saved struct {
		Data ReplayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &saved))
	require.NotEmpty(t, saved.Data.MatchID)

	out, err = execute(t, "history", "--source", "replay")
	require.NoError(t, err)
	assert.Contains(t, out, saved.Data.MatchID)
	assert.Contains(t, out, "ana,beto")

	out, err = execute(t, "history", saved.Data.MatchID)
	require.NoError(t, err)
	assert.Contains(t, out, "winner us")
	assert.Contains(t, out, "gameEnd")

	_, err = execute(t, "history", "no-such-match")
	assert.Equal(t, ExitFailure, GetExitCode(err))

	_, err = execute(t, "history", "--source", "sandbox")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "x", assert.AnError)))
}

func TestReplay_BundledScenario(t *testing.T) {
	out, err := execute(t, "replay", filepath.Join("..", "..", "testdata", "short_match.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "commandRejected")
	assert.Contains(t, out, "finished: us wins")
}
