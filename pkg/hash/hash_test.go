package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	h, err := HashPassword("pw")
	require.NoError(t, err)
	assert.NotEqual(t, "pw", h)

	assert.True(t, CheckPassword(h, "pw"))
	assert.False(t, CheckPassword(h, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "pw"))
}

func TestHashPassword_Salted(t *testing.T) {
	h1, err := HashPassword("same")
	require.NoError(t, err)
	h2, err := HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestBurnCompare_DoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() { BurnCompare("anything") })
}
