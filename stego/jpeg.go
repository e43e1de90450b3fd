package stego

import (
	"fmt"

	"github.com/wiseaidev/stegano/crypto"
	"github.com/wiseaidev/stegano/jpegparser"
)

// jpegTrailingStart is the first byte after the EOI marker.
func jpegTrailingStart(buf []byte) (int, error) {
	segments, err := jpegparser.Parse(buf)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidCarrier, err)
	}
	eoi, ok := jpegparser.FindMarker(segments, jpegparser.EOI)
	if !ok {
		return 0, fmt.Errorf("%w: no EOI marker", ErrInvalidCarrier)
	}
	return eoi.End(), nil
}

// InjectJPEG splices the raw ciphertext into a copy of carrier. With Auto the
// ciphertext goes right after EOI where decoders never look.
func InjectJPEG(carrier, key, payload []byte, off Offset) ([]byte, error) {
	out, _, err := injectJPEG(carrier, key, payload, off)
	return out, err
}

func injectJPEG(carrier, key, payload []byte, off Offset) ([]byte, int, error) {
	var at int
	if off.IsAuto() {
		start, err := jpegTrailingStart(carrier)
		if err != nil {
			return nil, 0, err
		}
		at = start
	} else {
		at = off.clamp(len(carrier))
	}
	return splice(carrier, at, crypto.Encrypt(payload, key)), at, nil
}

// ExtractJPEG decrypts the bytes between off and the next marker segment, or
// the end of the buffer when off lies after EOI. It never fails.
func ExtractJPEG(carrier, key []byte, off Offset) []byte {
	out, _ := extractJPEG(carrier, key, off)
	return out
}

func extractJPEG(carrier, key []byte, off Offset) ([]byte, int) {
	var at int
	if off.IsAuto() {
		start, err := jpegTrailingStart(carrier)
		if err != nil {
			return []byte{}, 0
		}
		at = start
	} else {
		at = off.clamp(len(carrier))
	}

	end := len(carrier)
	segments, _ := jpegparser.Parse(carrier)
	if next, ok := jpegparser.NextSegmentAt(segments, at+1); ok {
		end = next.Offset
	}
	return crypto.Decrypt(carrier[at:end], key), at
}
