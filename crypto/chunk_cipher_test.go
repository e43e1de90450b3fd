package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	short := NormalizeKey([]byte("pass"))
	assert.Equal(t, [KeySize]byte{'p', 'a', 's', 's'}, short)

	long := NormalizeKey([]byte("0123456789abcdefXYZ"))
	assert.Equal(t, "0123456789abcdef", string(long[:]))

	exact := NormalizeKey([]byte("0123456789abcdef"))
	assert.Equal(t, "0123456789abcdef", string(exact[:]))

	empty := NormalizeKey(nil)
	assert.Equal(t, [KeySize]byte{}, empty)
}

func TestNormalizeKey_PaddedAndExplicitZerosAreEquivalent(t *testing.T) {
	a := NewChunkCipher([]byte("key")).Encrypt([]byte("payload"))
	b := NewChunkCipher([]byte("key\x00\x00")).Encrypt([]byte("payload"))
	assert.Equal(t, a, b)
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	payloads := [][]byte{
		{},
		[]byte("h"),
		[]byte("hello"),
		bytes.Repeat([]byte{0xAB}, 16),
		bytes.Repeat([]byte("stegano"), 100),
	}
	for _, p := range payloads {
		ct := Encrypt(p, []byte("pass"))
		require.Len(t, ct, len(p))
		assert.Equal(t, p, Decrypt(ct, []byte("pass")))
	}
}

func TestEncrypt_IsDeterministic(t *testing.T) {
	a := Encrypt([]byte("hello"), []byte("pass"))
	b := Encrypt([]byte("hello"), []byte("pass"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, []byte("hello"), a)
}

func TestDecrypt_WrongKeyKeepsLength(t *testing.T) {
	ct := Encrypt([]byte("hello"), []byte("pass"))
	pt := Decrypt(ct, []byte("invalid"))
	assert.Len(t, pt, 5)
	assert.NotEqual(t, []byte("hello"), pt)
}

func TestKeystream(t *testing.T) {
	cc := NewChunkCipher([]byte("pass"))
	assert.Empty(t, cc.Keystream(0))
	assert.Empty(t, cc.Keystream(-3))

	ks := cc.Keystream(40)
	require.Len(t, ks, 40)
	// A shorter request is a prefix of a longer one.
	assert.Equal(t, ks[:17], cc.Keystream(17))
	// Counter blocks differ from each other.
	assert.NotEqual(t, ks[:16], ks[16:32])
}

func TestEncrypt_DoesNotMutateInput(t *testing.T) {
	in := []byte("hello")
	_ = Encrypt(in, []byte("pass"))
	assert.Equal(t, []byte("hello"), in)
}

func TestValidateKey(t *testing.T) {
	assert.Error(t, ValidateKey(""))
	assert.NoError(t, ValidateKey("pass"))
	assert.NoError(t, ValidateKey(string(bytes.Repeat([]byte("k"), MaxKeyLength))))
	assert.Error(t, ValidateKey(string(bytes.Repeat([]byte("k"), MaxKeyLength+1))))
}
