package stego

import (
	"fmt"

	"github.com/wiseaidev/stegano/crypto"
	"github.com/wiseaidev/stegano/pngparser"
)

// DefaultChunkType is ancillary, private and safe-to-copy, so decoders skip it.
var DefaultChunkType = [4]byte{'s', 't', 'E', 'g'}

// pngInjectAnchor is the start of the IEND chunk: a chunk inserted there
// becomes the last chunk before IEND.
func pngInjectAnchor(buf []byte) (int, error) {
	chunks, err := pngparser.Parse(buf)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidCarrier, err)
	}
	iend, ok := pngparser.FindType(chunks, "IEND")
	if !ok {
		return 0, fmt.Errorf("%w: no IEND chunk", ErrInvalidCarrier)
	}
	return iend.DataOffset - pngparser.HeaderSize, nil
}

// pngExtractAnchor locates the chunk an automatic injection produced: the
// one immediately preceding IEND.
func pngExtractAnchor(buf []byte) (int, bool) {
	chunks, err := pngparser.Parse(buf)
	if err != nil {
		return 0, false
	}
	iend, ok := pngparser.FindType(chunks, "IEND")
	if !ok {
		return 0, false
	}
	if prev, ok := pngparser.PrecedingChunk(chunks, iend); ok {
		return prev.StartOffset, true
	}
	return iend.DataOffset - pngparser.HeaderSize, true
}

// InjectPNG encrypts payload and splices it into a copy of carrier as a
// chunk of type tag at off. The carrier is never modified.
func InjectPNG(carrier, key, payload []byte, off Offset, tag [4]byte) ([]byte, error) {
	out, _, err := injectPNG(carrier, key, payload, off, tag)
	return out, err
}

func injectPNG(carrier, key, payload []byte, off Offset, tag [4]byte) ([]byte, int, error) {
	var at int
	if off.IsAuto() {
		anchor, err := pngInjectAnchor(carrier)
		if err != nil {
			return nil, 0, err
		}
		at = anchor
	} else {
		at = pngExplicit(off, len(carrier))
	}

	chunk := pngparser.BuildChunk(tag, crypto.Encrypt(payload, key))
	return splice(carrier, at, chunk), at, nil
}

// ExtractPNG reads the chunk at off and decrypts its data. It never fails:
// an offset that does not resolve to anything yields an empty result, a
// wrong key yields bytes of the right length that are not the secret.
func ExtractPNG(carrier, key []byte, off Offset) []byte {
	out, _ := extractPNG(carrier, key, off)
	return out
}

func extractPNG(carrier, key []byte, off Offset) ([]byte, int) {
	var at int
	if off.IsAuto() {
		anchor, ok := pngExtractAnchor(carrier)
		if !ok {
			return []byte{}, 0
		}
		at = anchor
	} else {
		at = pngExplicit(off, len(carrier))
	}
	data, start := pngCandidate(carrier, at)
	return crypto.Decrypt(data, key), start
}

// pngExplicit maps an explicit offset to a splice point that never falls
// inside the signature and never past the end of a buffer of size bytes.
func pngExplicit(off Offset, size int) int {
	at := off.clamp(size)
	if at < pngparser.SignatureSize && size >= pngparser.SignatureSize {
		at = pngparser.SignatureSize
	}
	return at
}

// pngCandidate returns the ciphertext span for offset at and where it
// starts. A CRC-valid chunk starting at the offset wins; then the rest of
// the data region that contains it. Offsets after IEND resolve to the chunk
// appended at the end of the buffer, since injection past the end appends.
func pngCandidate(buf []byte, at int) ([]byte, int) {
	if c, err := pngparser.ReadChunkAt(buf, at); err == nil && c.CRCValid {
		return c.Data(buf), at
	}
	chunks, _ := pngparser.Parse(buf)
	if c, ok := pngparser.Containing(chunks, at); ok {
		return buf[at:c.DataRegion().End], at
	}
	trailing := pngparser.TrailingRegion(buf, chunks)
	if len(chunks) > 0 && at >= trailing.Start {
		if c, ok := pngAppendedChunk(buf, trailing.Start); ok {
			return c.Data(buf), c.StartOffset
		}
	}
	return nil, at
}

// pngAppendedChunk finds the first CRC-valid chunk at or after from that
// ends exactly at the end of buf.
func pngAppendedChunk(buf []byte, from int) (pngparser.Chunk, bool) {
	for s := from; s+pngparser.ChunkOverhead <= len(buf); s++ {
		c, err := pngparser.ReadChunkAt(buf, s)
		if err == nil && c.CRCValid && c.End() == len(buf) {
			return c, true
		}
	}
	return pngparser.Chunk{}, false
}

func splice(carrier []byte, at int, insert []byte) []byte {
	out := make([]byte, 0, len(carrier)+len(insert))
	out = append(out, carrier[:at]...)
	out = append(out, insert...)
	return append(out, carrier[at:]...)
}
