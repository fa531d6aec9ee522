package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"
)

// "é" as a single code point and as "e" followed by a combining acute accent.
const (
	composed   = "caf\u00e9"
	decomposed = "cafe\u0301"
)

func TestRead(t *testing.T) {
	text, err := Read(strings.NewReader(decomposed))
	require.NoError(t, err)
	assert.Equal(t, decomposed, text, "text should be unchanged without normalization")

	text, err = Read(strings.NewReader(decomposed), WithNormalization(norm.NFC))
	require.NoError(t, err)
	assert.Equal(t, composed, text)

	text, err = Read(strings.NewReader(composed), WithNormalization(norm.NFD))
	require.NoError(t, err)
	assert.Equal(t, decomposed, text)
}

func TestParseNormalization(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty disables", input: "", want: decomposed},
		{name: "none disables", input: "none", want: decomposed},
		{name: "nfc", input: "NFC", want: composed},
		{name: "nfd", input: "nfd", want: decomposed},
		{name: "nfkc", input: "nfkc", want: composed},
		{name: "nfkd", input: "nfkd", want: decomposed},
	} {
		t.Run(tc.name, func(t *testing.T) {
			opt, err := ParseNormalization(tc.input)
			require.NoError(t, err)
			text, err := Read(strings.NewReader(decomposed), opt)
			require.NoError(t, err)
			assert.Equal(t, tc.want, text)
		})
	}

	_, err := ParseNormalization("nfx")
	assert.ErrorContains(t, err, "unknown normalization form")
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(path, []byte(decomposed), 0o644))

	text, err := ReadFile(path, WithNormalization(norm.NFC))
	require.NoError(t, err)
	assert.Equal(t, composed, text)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
