package password

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("learning1")
	require.NoError(t, err)
	require.NotEqual(t, "learning1", hash)

	require.True(t, h.Compare(hash, "learning1"))
	require.False(t, h.Compare(hash, "learning2"))
	require.False(t, h.Compare("not-a-hash", "learning1"))
}

func TestBcryptHasherSaltsEachHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	a, err := h.Hash("learning1")
	require.NoError(t, err)
	b, err := h.Hash("learning1")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}
