package stego

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wiseaidev/stegano/jpegparser"
	"github.com/wiseaidev/stegano/pngparser"
)

var (
	ErrInvalidCarrier = errors.New("stego: invalid carrier")
	ErrUnknownFormat  = errors.New("stego: unknown carrier format")
)

type Format int

const (
	FormatUnknown Format = iota
	FormatPNG
	FormatJPEG
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	default:
		return "unknown"
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

// DetectFormat sniffs the carrier by its leading magic bytes.
func DetectFormat(buf []byte) Format {
	switch {
	case pngparser.HasSignature(buf):
		return FormatPNG
	case jpegparser.HasSOI(buf):
		return FormatJPEG
	default:
		return FormatUnknown
	}
}

// ParseFormat parses a user supplied format name. "auto" and "" yield
// FormatUnknown, which means the format is detected from the data.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatUnknown, nil
	case "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}
