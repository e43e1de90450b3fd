// Package jpegparser walks JPEG byte streams as a sequence of marker segments
package jpegparser

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	ErrMissingSOI       = errors.New("jpegparser: missing SOI marker")
	ErrTruncatedSegment = errors.New("jpegparser: truncated segment")
)

// HasSOI reports whether buf starts with the JPEG start-of-image marker.
func HasSOI(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == markerPrefix && buf[1] == SOI
}

// Parse walks buf from the SOI marker up to and including EOI. Fill bytes
// and extraneous bytes between segments are skipped, the entropy-coded data
// after each SOS header is skipped and counted. It only fails when a
// length-bearing segment does not fit in the buffer; the segments read before
// the failure are returned with the error.
func Parse(buf []byte) ([]Segment, error) {
	if !HasSOI(buf) {
		return nil, fmt.Errorf("%w: buffer does not start with FF D8", ErrMissingSOI)
	}

	segments := []Segment{{Offset: 0, Marker: SOI, Kind: KindSOI}}
	pos := 2
	for pos < len(buf) {
		if buf[pos] != markerPrefix {
			// extraneous data
			pos++
			continue
		}
		// Any marker may be preceded by fill bytes.
		for pos+1 < len(buf) && buf[pos+1] == markerPrefix {
			pos++
		}
		if pos+1 >= len(buf) {
			break
		}

		marker := buf[pos+1]
		if marker == 0x00 {
			// stuffed zero outside a scan
			pos += 2
			continue
		}

		seg := Segment{Offset: pos, Marker: marker, Kind: KindOther}
		if isStandalone(marker) {
			switch marker {
			case SOI:
				seg.Kind = KindSOI
			case EOI:
				seg.Kind = KindEOI
			}
			segments = append(segments, seg)
			pos += 2
			if marker == EOI {
				break
			}
			continue
		}

		if pos+4 > len(buf) {
			return segments, fmt.Errorf("%w: %s at offset %d has no room for its length field",
				ErrTruncatedSegment, MarkerName(marker), pos)
		}
		length := binary.BigEndian.Uint16(buf[pos+2 : pos+4])
		if length < 2 {
			return segments, fmt.Errorf("%w: %s at offset %d declares invalid length %d",
				ErrTruncatedSegment, MarkerName(marker), pos, length)
		}
		end := pos + 2 + int(length)
		if end > len(buf) {
			return segments, fmt.Errorf("%w: %s at offset %d declares %d bytes, only %d remain",
				ErrTruncatedSegment, MarkerName(marker), pos, length, len(buf)-pos-2)
		}

		seg.HasLength = true
		seg.Length = length
		decodeSegment(&seg, seg.Payload(buf))
		pos = end

		if marker == SOS {
			seg.ScanLength = scanLength(buf, pos)
			pos += seg.ScanLength
		}
		segments = append(segments, seg)
	}

	return segments, nil
}

// scanLength returns the number of entropy-coded bytes starting at start.
// Stuffed 0xFF00 pairs and RSTn markers belong to the scan.
func scanLength(buf []byte, start int) int {
	i := start
	for i < len(buf) {
		if buf[i] != markerPrefix {
			i++
			continue
		}
		if i+1 < len(buf) && (buf[i+1] == 0x00 || (buf[i+1] >= RST0 && buf[i+1] <= RST7)) {
			i += 2
			continue
		}
		break
	}
	return i - start
}

// End is the offset of the first byte after the segment, including any scan
// data that follows an SOS header.
func (s Segment) End() int {
	end := s.Offset + 2
	if s.HasLength {
		end += int(s.Length)
	}
	return end + s.ScanLength
}

// PayloadOffset is the offset of the first byte after the length field.
func (s Segment) PayloadOffset() int {
	if s.HasLength {
		return s.Offset + 4
	}
	return s.Offset + 2
}

// Payload returns the segment payload (without marker and length) from buf.
func (s Segment) Payload(buf []byte) []byte {
	if !s.HasLength {
		return nil
	}
	return buf[s.PayloadOffset() : s.Offset+2+int(s.Length)]
}

func (s Segment) Name() string {
	return MarkerName(s.Marker)
}

// FindMarker returns the first segment with the given marker code.
func FindMarker(segments []Segment, marker byte) (Segment, bool) {
	for _, s := range segments {
		if s.Marker == marker {
			return s, true
		}
	}
	return Segment{}, false
}

// NextSegmentAt returns the first segment starting at or after offset.
func NextSegmentAt(segments []Segment, offset int) (Segment, bool) {
	for _, s := range segments {
		if s.Offset >= offset {
			return s, true
		}
	}
	return Segment{}, false
}
