package bridge

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrInvalidEncoding = errors.New("invalid text encoding")
	ErrEmptyName       = errors.New("empty player name")
	ErrDuplicateName   = errors.New("player name already seated")
)

// DecodeString turns a caller buffer into a host string. The buffer ends at
// the first NUL; invalid UTF-8 is an error, never a crash. The result is NFC
// normalised so the same name typed two ways names the same player.
func DecodeString(buf []byte) (string, error) {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	if !utf8.Valid(buf) {
		return "", fmt.Errorf("%w: %q", ErrInvalidEncoding, buf)
	}
	return CanonicalName(string(buf)), nil
}

// CanonicalName is the form player names are seated and looked up in.
func CanonicalName(s string) string {
	return norm.NFC.String(s)
}

func DecodeName(buf []byte) (string, error) {
	name, err := DecodeString(buf)
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}
