// Package stego hides encrypted payloads inside PNG and JPEG containers
package stego

import (
	"fmt"
)

// Result describes the outcome of an injection or extraction.
type Result struct {
	Data   []byte
	Format Format
	Offset uint64 // resolved byte offset
}

// Options controls Inject and Extract.
type Options struct {
	// Format forces the carrier format; FormatUnknown detects it.
	Format Format
	// ChunkType is the PNG chunk tag; zero means DefaultChunkType.
	ChunkType [4]byte
}

func resolveFormat(carrier []byte, forced Format) (Format, error) {
	if forced != FormatUnknown {
		return forced, nil
	}
	f := DetectFormat(carrier)
	if f == FormatUnknown {
		return f, fmt.Errorf("%w: neither PNG signature nor JPEG SOI found", ErrUnknownFormat)
	}
	return f, nil
}

// Inject dispatches to InjectPNG or InjectJPEG.
func Inject(carrier, key, payload []byte, off Offset, opts Options) (*Result, error) {
	format, err := resolveFormat(carrier, opts.Format)
	if err != nil {
		return nil, err
	}

	var (
		out []byte
		at  int
	)
	switch format {
	case FormatPNG:
		tag := opts.ChunkType
		if tag == ([4]byte{}) {
			tag = DefaultChunkType
		}
		out, at, err = injectPNG(carrier, key, payload, off, tag)
	case FormatJPEG:
		out, at, err = injectJPEG(carrier, key, payload, off)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return &Result{Data: out, Format: format, Offset: uint64(at)}, nil
}

// Extract dispatches to ExtractPNG or ExtractJPEG. The only error is an
// undetectable carrier format.
func Extract(carrier, key []byte, off Offset, opts Options) (*Result, error) {
	format, err := resolveFormat(carrier, opts.Format)
	if err != nil {
		return nil, err
	}

	var (
		out []byte
		at  int
	)
	switch format {
	case FormatPNG:
		out, at = extractPNG(carrier, key, off)
	case FormatJPEG:
		out, at = extractJPEG(carrier, key, off)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
	return &Result{Data: out, Format: format, Offset: uint64(at)}, nil
}

// ResolveAuto returns the offset an automatic injection would use.
func ResolveAuto(carrier []byte) (uint64, error) {
	format, err := resolveFormat(carrier, FormatUnknown)
	if err != nil {
		return 0, err
	}
	var at int
	if format == FormatPNG {
		at, err = pngInjectAnchor(carrier)
	} else {
		at, err = jpegTrailingStart(carrier)
	}
	if err != nil {
		return 0, err
	}
	return uint64(at), nil
}
