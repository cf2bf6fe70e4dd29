package keygen

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecret(t *testing.T) {
	a, err := Secret(DefaultSize)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(a)
	require.NoError(t, err)
	assert.Len(t, raw, DefaultSize)
	assert.GreaterOrEqual(t, len(a), 32)

	b, err := Secret(DefaultSize)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSecret_TooSmall(t *testing.T) {
	_, err := Secret(16)
	assert.Error(t, err)
}
