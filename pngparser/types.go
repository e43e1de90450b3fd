package pngparser

// Chunk describes one PNG chunk inside a buffer. Offsets are absolute byte
// positions in the buffer that was parsed.
type Chunk struct {
	StartOffset int // first byte of the length field
	DataOffset  int // first byte of the chunk data
	Length      uint32
	Type        [4]byte
	CRC         uint32 // CRC as stored in the file
	CRCValid    bool   // CRC == CRC32(Type ++ Data)
}

// IHDR holds the decoded image header chunk
type IHDR struct {
	Width       uint32
	Height      uint32
	BitDepth    uint8
	ColorType   uint8
	Compression uint8
	Filter      uint8
	Interlace   uint8
}

// Region is a half-open byte range [Start, End) of a buffer
type Region struct {
	Start int
	End   int
}

func (r Region) Len() int {
	return r.End - r.Start
}

func (r Region) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}
