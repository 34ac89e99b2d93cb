package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBorrowKey(t *testing.T) {
	t.Parallel()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		key, err := newBorrowKey()
		require.NoError(t, err)
		require.Len(t, key, borrowKeyLen)
		for _, r := range key {
			require.True(t, strings.ContainsRune(borrowKeyAlphabet, r), "unexpected symbol %q", r)
		}
		require.False(t, seen[key], "duplicate key %q", key)
		seen[key] = true
	}
}
