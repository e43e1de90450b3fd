package payload

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressRoundTrip(t *testing.T) {
	secret := bytes.Repeat([]byte("attack at dawn "), 64)

	compressed, err := Compress(secret)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(secret))

	got, err := Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, secret, got)
}

func TestDecompressGarbage(t *testing.T) {
	_, err := Decompress([]byte("definitely not zstd"))
	assert.Error(t, err)
}
