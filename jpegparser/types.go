package jpegparser

// Kind classifies a marker segment
type Kind int

const (
	KindSOI Kind = iota
	KindEOI
	KindJFIF
	KindDQT
	KindSOF
	KindDHT
	KindSOS
	KindComment
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindSOI:
		return "SOI"
	case KindEOI:
		return "EOI"
	case KindJFIF:
		return "JFIF"
	case KindDQT:
		return "DQT"
	case KindSOF:
		return "SOF"
	case KindDHT:
		return "DHT"
	case KindSOS:
		return "SOS"
	case KindComment:
		return "COM"
	default:
		return "Other"
	}
}

// Segment is one marker segment. Offset points at the 0xFF byte directly
// before the marker code.
type Segment struct {
	Offset    int
	Marker    byte
	Kind      Kind
	HasLength bool
	Length    uint16 // declared length, including its own 2 bytes
	// ScanLength counts the entropy-coded bytes that follow an SOS header.
	ScanLength int
	// Decoded is one of *JfifHeader, *DqtHeader, *SofHeader, *DhtHeader,
	// *SosHeader or *CommentHeader, or nil.
	Decoded   any
	DecodeErr error
}

// JfifHeader is the decoded APP0 "JFIF\x00" segment
type JfifHeader struct {
	Version     uint16
	Units       uint8
	XDensity    uint16
	YDensity    uint16
	ThumbWidth  uint8
	ThumbHeight uint8
}

// QuantizationTable holds 64 entries in zig-zag order
type QuantizationTable struct {
	Precision uint8 // 0: 8-bit entries, otherwise 16-bit entries
	ID        uint8
	Entries   [64]uint16
}

type DqtHeader struct {
	Tables []QuantizationTable
}

type FrameComponent struct {
	ID                 uint8
	HSampling          uint8
	VSampling          uint8
	QuantTableSelector uint8
}

// SofHeader is decoded from any SOFn marker
type SofHeader struct {
	Precision  uint8
	Height     uint16
	Width      uint16
	Components []FrameComponent
}

// DhtHeader only records that a Huffman table segment is present; the code
// tables themselves are not decoded.
type DhtHeader struct {
	PayloadLength int
}

type ScanComponent struct {
	ID              uint8
	DCTableSelector uint8
	ACTableSelector uint8
}

type SosHeader struct {
	Components    []ScanComponent
	SpectralStart uint8
	SpectralEnd   uint8
	ApproxHigh    uint8
	ApproxLow     uint8
}

type CommentHeader struct {
	Text string
}
