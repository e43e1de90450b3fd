// Package payload prepares secrets before they are encrypted and injected
package payload

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Compress returns data as a single zstd frame.
func Compress(data []byte) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	compressed := encoder.EncodeAll(data, nil)
	if err := encoder.Close(); err != nil {
		return nil, errors.New("failed to close zstd encoder: " + err.Error())
	}
	return compressed, nil
}

// Decompress reverses Compress. A wrong key or offset usually surfaces here
// as a corrupt frame.
func Decompress(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer decoder.Close()

	out, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("payload is not a zstd frame: %w", err)
	}
	return out, nil
}
