package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSessionTokenUniqueness(t *testing.T) {
	const n = 10000

	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		token, err := GenerateSessionToken()
		require.NoError(t, err)
		_, dup := seen[token]
		require.False(t, dup, "duplicate token after %d draws", i)
		seen[token] = struct{}{}
	}
}

// A crude distribution check: over 10k tokens every base64 alphabet position
// should appear as a first character reasonably often. A deterministic or
// timestamp-derived generator would collapse this distribution.
func TestGenerateSessionTokenDistribution(t *testing.T) {
	const n = 10000

	counts := make(map[byte]int)
	for i := 0; i < n; i++ {
		token, err := GenerateSessionToken()
		require.NoError(t, err)
		counts[token[0]]++
	}

	// 64 possible leading characters; expect roughly n/64 each.
	assert.GreaterOrEqual(t, len(counts), 50)
	for ch, c := range counts {
		assert.Less(t, c, n/10, "leading character %q is suspiciously common", ch)
	}
}

func TestDeriveStorageKeyIsDeterministicPerSecret(t *testing.T) {
	token, err := GenerateSessionToken()
	require.NoError(t, err)

	a := DeriveStorageKey("secret-one", token)
	b := DeriveStorageKey("secret-one", token)
	c := DeriveStorageKey("secret-two", token)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, token, a)
}
