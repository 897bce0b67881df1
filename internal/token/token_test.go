package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateLengthAndAlphabet(t *testing.T) {
	tok, err := Generate()
	require.NoError(t, err)
	require.Len(t, tok, Length)
	for _, c := range tok {
		require.True(t, strings.ContainsRune(alphabet, c), "unexpected character %q", c)
	}
}

func TestGenerateTokensDiffer(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		tok, err := Generate()
		require.NoError(t, err)
		_, dup := seen[tok]
		require.False(t, dup, "token %q generated twice", tok)
		seen[tok] = struct{}{}
	}
}
