package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeString(t *testing.T) {
	s, err := DecodeString([]byte("beto\x00garbage"))
	require.NoError(t, err)
	assert.Equal(t, "beto", s)

	// "é" as e + combining acute normalises to the precomposed form
	s, err = DecodeString([]byte("Jose\u0301"))
	require.NoError(t, err)
	assert.Equal(t, "Jos\u00e9", s)

	_, err = DecodeString([]byte{'a', 0xff})
	require.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestDecodeName_RejectsEmpty(t *testing.T) {
	_, err := DecodeName([]byte{0})
	require.ErrorIs(t, err, ErrEmptyName)
}

func TestResult_Constructors(t *testing.T) {
	ok := OkVoid()
	assert.Equal(t, TagOk, ok.Tag())
	_, has := ok.Diagnostic()
	assert.False(t, has)

	fail := Fail[string](nil)
	msg, has := fail.Diagnostic()
	assert.True(t, has)
	assert.Equal(t, "unknown error", msg)

	assert.Equal(t, OptionSome, SomeTeam(TeamThem).Tag())
	team, present := SomeTeam(TeamThem).Get()
	assert.True(t, present)
	assert.Equal(t, TeamThem, team)
}
