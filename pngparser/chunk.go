package pngparser

func (c Chunk) TypeString() string {
	return string(c.Type[:])
}

// End is the offset of the first byte after the chunk's CRC.
func (c Chunk) End() int {
	return c.DataOffset + int(c.Length) + CRCSize
}

func (c Chunk) DataRegion() Region {
	return Region{Start: c.DataOffset, End: c.DataOffset + int(c.Length)}
}

// Data returns the chunk's data slice of buf, which must be the buffer the
// chunk was parsed from.
func (c Chunk) Data(buf []byte) []byte {
	r := c.DataRegion()
	return buf[r.Start:r.End]
}

// Raw returns the whole serialized chunk, length field through CRC.
func (c Chunk) Raw(buf []byte) []byte {
	return buf[c.StartOffset:c.End()]
}

// IsCritical reports whether the ancillary bit (bit 5 of the first type byte)
// is clear.
func (c Chunk) IsCritical() bool {
	return c.Type[0]&0x20 == 0
}

// FindType returns the first chunk of the given type.
func FindType(chunks []Chunk, chunkType string) (Chunk, bool) {
	for _, c := range chunks {
		if c.TypeString() == chunkType {
			return c, true
		}
	}
	return Chunk{}, false
}

// CountCRCMismatches returns how many chunks failed CRC validation.
func CountCRCMismatches(chunks []Chunk) int {
	n := 0
	for _, c := range chunks {
		if !c.CRCValid {
			n++
		}
	}
	return n
}
