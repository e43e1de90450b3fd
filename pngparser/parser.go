// Package pngparser walks PNG byte streams as a sequence of chunks
package pngparser

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
)

const (
	SignatureSize = 8
	HeaderSize    = 8 // length + type
	CRCSize       = 4
	ChunkOverhead = HeaderSize + CRCSize
)

// Signature is the fixed 8-byte PNG file signature.
var Signature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

var (
	ErrInvalidSignature = errors.New("pngparser: invalid PNG signature")
	ErrTruncatedChunk   = errors.New("pngparser: truncated chunk")
)

// HasSignature reports whether buf starts with the PNG signature.
func HasSignature(buf []byte) bool {
	return len(buf) >= SignatureSize && bytes.Equal(buf[:SignatureSize], Signature)
}

// ComputeCRC returns the CRC-32 over the chunk type followed by its data.
func ComputeCRC(chunkType [4]byte, data []byte) uint32 {
	h := crc32.NewIEEE()
	h.Write(chunkType[:])
	h.Write(data)
	return h.Sum32()
}

// ReadChunkAt decodes the chunk whose length field starts at offset. It fails
// with ErrTruncatedChunk when the header, data or CRC would read past the end
// of buf. A CRC mismatch is not an error; it is reported through CRCValid.
func ReadChunkAt(buf []byte, offset int) (Chunk, error) {
	if offset < 0 || offset > len(buf) {
		return Chunk{}, fmt.Errorf("%w: offset %d outside buffer of %d bytes", ErrTruncatedChunk, offset, len(buf))
	}
	remaining := len(buf) - offset
	if remaining < ChunkOverhead {
		return Chunk{}, fmt.Errorf("%w: %d bytes left at offset %d, need at least %d",
			ErrTruncatedChunk, remaining, offset, ChunkOverhead)
	}

	length := binary.BigEndian.Uint32(buf[offset : offset+4])
	if uint64(length) > uint64(remaining-ChunkOverhead) {
		return Chunk{}, fmt.Errorf("%w: chunk at offset %d declares %d data bytes, only %d available",
			ErrTruncatedChunk, offset, length, remaining-ChunkOverhead)
	}

	c := Chunk{
		StartOffset: offset,
		DataOffset:  offset + HeaderSize,
		Length:      length,
	}
	copy(c.Type[:], buf[offset+4:offset+8])

	dataEnd := c.DataOffset + int(length)
	c.CRC = binary.BigEndian.Uint32(buf[dataEnd : dataEnd+CRCSize])
	c.CRCValid = c.CRC == ComputeCRC(c.Type, buf[c.DataOffset:dataEnd])

	return c, nil
}

// Parse walks an entire PNG buffer. It stops at the end of the buffer or
// right after the IEND chunk; trailing bytes after IEND are ignored. On a
// truncated chunk it returns every chunk read so far together with the error.
func Parse(buf []byte) ([]Chunk, error) {
	if !HasSignature(buf) {
		head := buf
		if len(head) > SignatureSize {
			head = head[:SignatureSize]
		}
		return nil, fmt.Errorf("%w: got % X", ErrInvalidSignature, head)
	}

	chunks := make([]Chunk, 0)
	cursor := SignatureSize
	for cursor < len(buf) {
		c, err := ReadChunkAt(buf, cursor)
		if err != nil {
			return chunks, err
		}
		chunks = append(chunks, c)
		cursor = c.End()

		if c.TypeString() == "IEND" {
			break
		}
	}

	return chunks, nil
}

// BuildChunk serializes a chunk: length, type, data and CRC.
func BuildChunk(chunkType [4]byte, data []byte) []byte {
	out := make([]byte, ChunkOverhead+len(data))
	binary.BigEndian.PutUint32(out[0:4], uint32(len(data)))
	copy(out[4:8], chunkType[:])
	copy(out[HeaderSize:], data)
	binary.BigEndian.PutUint32(out[HeaderSize+len(data):], ComputeCRC(chunkType, data))
	return out
}

// ParseChunkType converts a 4 character string into a chunk type.
func ParseChunkType(s string) ([4]byte, error) {
	var t [4]byte
	if len(s) != 4 {
		return t, fmt.Errorf("chunk type must be 4 characters, got %q", s)
	}
	for i := 0; i < 4; i++ {
		c := s[i]
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
			return t, fmt.Errorf("chunk type %q must contain ASCII letters only", s)
		}
		t[i] = c
	}
	return t, nil
}
