package pngparser

import (
	"encoding/binary"
	"fmt"
)

const ihdrLength = 13

// Containing returns the chunk whose data region contains offset.
func Containing(chunks []Chunk, offset int) (Chunk, bool) {
	for _, c := range chunks {
		if c.DataRegion().Contains(offset) {
			return c, true
		}
	}
	return Chunk{}, false
}

// FindContaining parses buf and returns the chunk whose data region
// [DataOffset, DataOffset+Length) contains offset. Offsets in the signature,
// in chunk headers or CRCs, or past the last chunk are not contained. A
// truncated buffer is searched using the chunks read before the truncation.
func FindContaining(buf []byte, offset int) (Chunk, bool) {
	chunks, _ := Parse(buf)
	return Containing(chunks, offset)
}

// PrecedingChunk returns the chunk that ends exactly where target starts.
func PrecedingChunk(chunks []Chunk, target Chunk) (Chunk, bool) {
	for _, c := range chunks {
		if c.End() == target.StartOffset {
			return c, true
		}
	}
	return Chunk{}, false
}

// TrailingRegion is the part of buf after the last parsed chunk.
func TrailingRegion(buf []byte, chunks []Chunk) Region {
	if len(chunks) == 0 {
		start := SignatureSize
		if start > len(buf) {
			start = len(buf)
		}
		return Region{Start: start, End: len(buf)}
	}
	return Region{Start: chunks[len(chunks)-1].End(), End: len(buf)}
}

var allowedBitDepths = map[uint8][]uint8{
	0: {1, 2, 4, 8, 16},
	2: {8, 16},
	3: {1, 2, 4, 8},
	4: {8, 16},
	6: {8, 16},
}

// ParseIHDR decodes and validates the data of an IHDR chunk.
func ParseIHDR(data []byte) (*IHDR, error) {
	if len(data) != ihdrLength {
		return nil, fmt.Errorf("invalid IHDR length: got %d, expected %d", len(data), ihdrLength)
	}
	h := &IHDR{
		Width:       binary.BigEndian.Uint32(data[0:4]),
		Height:      binary.BigEndian.Uint32(data[4:8]),
		BitDepth:    data[8],
		ColorType:   data[9],
		Compression: data[10],
		Filter:      data[11],
		Interlace:   data[12],
	}

	if h.Width == 0 || h.Width > 1<<31-1 {
		return h, fmt.Errorf("invalid IHDR width %d", h.Width)
	}
	if h.Height == 0 || h.Height > 1<<31-1 {
		return h, fmt.Errorf("invalid IHDR height %d", h.Height)
	}
	depths, ok := allowedBitDepths[h.ColorType]
	if !ok {
		return h, fmt.Errorf("invalid color type %d", h.ColorType)
	}
	valid := false
	for _, d := range depths {
		if d == h.BitDepth {
			valid = true
			break
		}
	}
	if !valid {
		return h, fmt.Errorf("color type %d does not allow bit depth %d", h.ColorType, h.BitDepth)
	}
	if h.Compression != 0 {
		return h, fmt.Errorf("invalid compression method %d", h.Compression)
	}
	if h.Filter != 0 {
		return h, fmt.Errorf("invalid filter method %d", h.Filter)
	}
	if h.Interlace > 1 {
		return h, fmt.Errorf("invalid interlace method %d", h.Interlace)
	}
	return h, nil
}
