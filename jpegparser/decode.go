package jpegparser

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

var jfifTag = []byte("JFIF\x00")

func decodeSegment(seg *Segment, payload []byte) {
	switch m := seg.Marker; {
	case m == APP0:
		if !bytes.HasPrefix(payload, jfifTag) {
			// other APP0 flavours (JFXX, AVI1, ...) are not decoded
			return
		}
		seg.Kind = KindJFIF
		seg.Decoded, seg.DecodeErr = decodeJFIF(payload)
	case m == DQT:
		seg.Kind = KindDQT
		seg.Decoded, seg.DecodeErr = decodeDQT(payload)
	case IsSOF(m):
		seg.Kind = KindSOF
		seg.Decoded, seg.DecodeErr = decodeSOF(payload)
	case m == DHT:
		seg.Kind = KindDHT
		seg.Decoded = &DhtHeader{PayloadLength: len(payload)}
	case m == SOS:
		seg.Kind = KindSOS
		seg.Decoded, seg.DecodeErr = decodeSOS(payload)
	case m == COM:
		seg.Kind = KindComment
		seg.Decoded = decodeComment(payload)
	}
}

func decodeJFIF(p []byte) (*JfifHeader, error) {
	const minLen = 14
	if len(p) < 7 {
		return nil, fmt.Errorf("JFIF payload too short: %d bytes", len(p))
	}
	h := &JfifHeader{Version: binary.BigEndian.Uint16(p[5:7])}
	if len(p) < minLen {
		return h, fmt.Errorf("JFIF payload too short for density fields: %d bytes", len(p))
	}
	h.Units = p[7]
	h.XDensity = binary.BigEndian.Uint16(p[8:10])
	h.YDensity = binary.BigEndian.Uint16(p[10:12])
	h.ThumbWidth = p[12]
	h.ThumbHeight = p[13]
	return h, nil
}

func decodeDQT(p []byte) (*DqtHeader, error) {
	h := &DqtHeader{}
	i := 0
	for i < len(p) {
		pq := p[i] >> 4
		tq := p[i] & 0x0F
		i++

		width := 1
		if pq != 0 {
			width = 2
		}
		if i+64*width > len(p) {
			return h, fmt.Errorf("quantization table %d needs %d bytes, only %d left", tq, 64*width, len(p)-i)
		}

		t := QuantizationTable{Precision: pq, ID: tq}
		for k := 0; k < 64; k++ {
			if width == 1 {
				t.Entries[k] = uint16(p[i])
			} else {
				t.Entries[k] = binary.BigEndian.Uint16(p[i : i+2])
			}
			i += width
		}
		h.Tables = append(h.Tables, t)
	}
	return h, nil
}

func decodeSOF(p []byte) (*SofHeader, error) {
	if len(p) < 6 {
		return nil, fmt.Errorf("SOF payload too short: %d bytes", len(p))
	}
	h := &SofHeader{
		Precision: p[0],
		Height:    binary.BigEndian.Uint16(p[1:3]),
		Width:     binary.BigEndian.Uint16(p[3:5]),
	}
	n := int(p[5])
	if len(p) < 6+3*n {
		return h, fmt.Errorf("SOF declares %d components, payload holds %d", n, (len(p)-6)/3)
	}
	for c := 0; c < n; c++ {
		b := p[6+3*c:]
		h.Components = append(h.Components, FrameComponent{
			ID:                 b[0],
			HSampling:          b[1] >> 4,
			VSampling:          b[1] & 0x0F,
			QuantTableSelector: b[2],
		})
	}
	return h, nil
}

func decodeSOS(p []byte) (*SosHeader, error) {
	if len(p) < 1 {
		return nil, fmt.Errorf("SOS payload is empty")
	}
	n := int(p[0])
	if len(p) < 1+2*n+3 {
		return nil, fmt.Errorf("SOS declares %d components, payload is %d bytes", n, len(p))
	}
	h := &SosHeader{}
	for c := 0; c < n; c++ {
		b := p[1+2*c:]
		h.Components = append(h.Components, ScanComponent{
			ID:              b[0],
			DCTableSelector: b[1] >> 4,
			ACTableSelector: b[1] & 0x0F,
		})
	}
	tail := p[1+2*n:]
	h.SpectralStart = tail[0]
	h.SpectralEnd = tail[1]
	h.ApproxHigh = tail[2] >> 4
	h.ApproxLow = tail[2] & 0x0F
	return h, nil
}

func decodeComment(p []byte) *CommentHeader {
	text := strings.ToValidUTF8(string(p), "�")
	return &CommentHeader{Text: strings.TrimSpace(strings.TrimRight(text, "\x00"))}
}
