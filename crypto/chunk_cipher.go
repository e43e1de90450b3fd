// Package crypto contains the keystream cipher used to hide payloads
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

const (
	// KeySize is the width of normalized key material (AES-128).
	KeySize = 16
	// KeyFiller pads keys shorter than KeySize.
	KeyFiller byte = 0x00
	// MaxKeyLength bounds user keys accepted by the CLI and HTTP surfaces.
	MaxKeyLength = 256
)

// NormalizeKey truncates or pads key to exactly KeySize bytes.
func NormalizeKey(key []byte) [KeySize]byte {
	var k [KeySize]byte
	n := copy(k[:], key)
	for i := n; i < KeySize; i++ {
		k[i] = KeyFiller
	}
	return k
}

// ChunkCipher drives AES-128 in counter mode to produce a keystream that is
// XORed against the input. Encrypt and Decrypt are the same operation.
type ChunkCipher struct {
	block cipher.Block
}

func NewChunkCipher(key []byte) *ChunkCipher {
	k := NormalizeKey(key)
	// aes.NewCipher only fails on bad key sizes and KeySize is fixed.
	block, err := aes.NewCipher(k[:])
	if err != nil {
		panic(fmt.Sprintf("crypto: unexpected AES key error: %v", err))
	}
	return &ChunkCipher{block: block}
}

// Keystream returns n bytes produced by encrypting a big-endian block counter
// that starts at zero.
func (cc *ChunkCipher) Keystream(n int) []byte {
	if n <= 0 {
		return []byte{}
	}
	ks := make([]byte, n)
	iv := make([]byte, aes.BlockSize)
	cipher.NewCTR(cc.block, iv).XORKeyStream(ks, ks)
	return ks
}

func (cc *ChunkCipher) Encrypt(plaintext []byte) []byte {
	return cc.xor(plaintext)
}

func (cc *ChunkCipher) Decrypt(ciphertext []byte) []byte {
	return cc.xor(ciphertext)
}

func (cc *ChunkCipher) xor(in []byte) []byte {
	ks := cc.Keystream(len(in))
	out := make([]byte, len(in))
	for i := range in {
		out[i] = in[i] ^ ks[i]
	}
	return out
}

// Encrypt is a shorthand for NewChunkCipher(key).Encrypt(plaintext).
func Encrypt(plaintext, key []byte) []byte {
	return NewChunkCipher(key).Encrypt(plaintext)
}

// Decrypt is a shorthand for NewChunkCipher(key).Decrypt(ciphertext).
func Decrypt(ciphertext, key []byte) []byte {
	return NewChunkCipher(key).Decrypt(ciphertext)
}

// ValidateKey validates if the key is acceptable at the user-facing surfaces.
// The cipher itself accepts any key.
func ValidateKey(key string) error {
	if len(key) == 0 {
		return fmt.Errorf("key cannot be empty")
	}
	if len(key) > MaxKeyLength {
		return fmt.Errorf("key length cannot exceed %d characters", MaxKeyLength)
	}
	return nil
}
