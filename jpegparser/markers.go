package jpegparser

import "fmt"

const (
	markerPrefix = 0xFF

	TEM   = 0x01
	SOF0  = 0xC0
	DHT   = 0xC4
	JPG   = 0xC8
	DAC   = 0xCC
	SOF15 = 0xCF
	RST0  = 0xD0
	RST7  = 0xD7
	SOI   = 0xD8
	EOI   = 0xD9
	SOS   = 0xDA
	DQT   = 0xDB
	DNL   = 0xDC
	DRI   = 0xDD
	APP0  = 0xE0
	APP15 = 0xEF
	COM   = 0xFE
)

// IsSOF reports whether marker is one of the SOF0..SOF15 frame markers.
func IsSOF(marker byte) bool {
	return marker >= SOF0 && marker <= SOF15 && marker != DHT && marker != JPG && marker != DAC
}

// isStandalone reports markers that carry no length field.
func isStandalone(marker byte) bool {
	return marker == SOI || marker == EOI || marker == TEM || (marker >= RST0 && marker <= RST7)
}

// MarkerName returns a short human readable name for a marker code.
func MarkerName(marker byte) string {
	switch {
	case marker == SOI:
		return "SOI"
	case marker == EOI:
		return "EOI"
	case marker == SOS:
		return "SOS"
	case marker == DQT:
		return "DQT"
	case marker == DHT:
		return "DHT"
	case marker == DRI:
		return "DRI"
	case marker == DNL:
		return "DNL"
	case marker == DAC:
		return "DAC"
	case marker == COM:
		return "COM"
	case marker == TEM:
		return "TEM"
	case IsSOF(marker):
		return fmt.Sprintf("SOF%d", marker-SOF0)
	case marker >= RST0 && marker <= RST7:
		return fmt.Sprintf("RST%d", marker-RST0)
	case marker >= APP0 && marker <= APP15:
		return fmt.Sprintf("APP%d", marker-APP0)
	default:
		return fmt.Sprintf("0x%02X", marker)
	}
}
