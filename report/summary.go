package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/wiseaidev/stegano/jpegparser"
	"github.com/wiseaidev/stegano/models"
	"github.com/wiseaidev/stegano/pngparser"
	"github.com/wiseaidev/stegano/stego"
)

const maxCommentPreview = 40

func PNGSummary(chunks []pngparser.Chunk, w Window) []models.ChunkInfo {
	lo, hi := w.Bounds(len(chunks))
	out := make([]models.ChunkInfo, 0, hi-lo)
	for i := lo; i < hi; i++ {
		c := chunks[i]
		out = append(out, models.ChunkInfo{
			Index:       i + 1,
			Type:        c.TypeString(),
			StartOffset: c.StartOffset,
			DataOffset:  c.DataOffset,
			Length:      c.Length,
			CRC:         fmt.Sprintf("%08x", c.CRC),
			CRCValid:    c.CRCValid,
			Critical:    c.IsCritical(),
		})
	}
	return out
}

func JPEGSummary(segments []jpegparser.Segment, w Window) []models.SegmentInfo {
	lo, hi := w.Bounds(len(segments))
	out := make([]models.SegmentInfo, 0, hi-lo)
	for i := lo; i < hi; i++ {
		s := segments[i]
		info := models.SegmentInfo{
			Index:      i + 1,
			Marker:     s.Name(),
			Kind:       s.Kind.String(),
			Offset:     s.Offset,
			Length:     int(s.Length),
			ScanLength: s.ScanLength,
			Detail:     describeSegment(s),
		}
		if s.DecodeErr != nil {
			info.DecodeErr = s.DecodeErr.Error()
		}
		out = append(out, info)
	}
	return out
}

func describeSegment(s jpegparser.Segment) string {
	switch h := s.Decoded.(type) {
	case *jpegparser.JfifHeader:
		return fmt.Sprintf("JFIF %d.%02d density %dx%d", h.Version>>8, h.Version&0xFF, h.XDensity, h.YDensity)
	case *jpegparser.DqtHeader:
		return fmt.Sprintf("%d quantization table(s)", len(h.Tables))
	case *jpegparser.SofHeader:
		return fmt.Sprintf("%dx%d, %d-bit, %d component(s)", h.Width, h.Height, h.Precision, len(h.Components))
	case *jpegparser.DhtHeader:
		return fmt.Sprintf("%d bytes of Huffman tables", h.PayloadLength)
	case *jpegparser.SosHeader:
		return fmt.Sprintf("%d component(s), spectral %d-%d", len(h.Components), h.SpectralStart, h.SpectralEnd)
	case *jpegparser.CommentHeader:
		return fmt.Sprintf("%q", preview(h.Text, maxCommentPreview))
	}
	return ""
}

// preview shortens text to at most limit runes.
func preview(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	r := []rune(text)
	return string(r[:limit]) + "..."
}

// Describe parses buf as PNG or JPEG and summarizes the entries selected by
// w. A parse error is recorded in the result, not returned, as long as the
// format could be detected.
func Describe(buf []byte, format stego.Format, w Window) (*models.ImageMetadata, error) {
	if format == stego.FormatUnknown {
		format = stego.DetectFormat(buf)
	}

	meta := &models.ImageMetadata{Format: format.String(), TotalBytes: len(buf)}
	switch format {
	case stego.FormatPNG:
		chunks, err := pngparser.Parse(buf)
		if err != nil {
			if len(chunks) == 0 {
				return nil, err
			}
			meta.ParseError = err.Error()
		}
		if ihdr, ok := pngparser.FindType(chunks, "IHDR"); ok {
			if h, err := pngparser.ParseIHDR(ihdr.Data(buf)); h != nil {
				meta.Width, meta.Height = h.Width, h.Height
				if err != nil && meta.ParseError == "" {
					meta.ParseError = err.Error()
				}
			}
		}
		meta.EntryCount = len(chunks)
		meta.CRCMismatches = pngparser.CountCRCMismatches(chunks)
		meta.TrailingBytes = pngparser.TrailingRegion(buf, chunks).Len()
		meta.Chunks = PNGSummary(chunks, w)
	case stego.FormatJPEG:
		segments, err := jpegparser.Parse(buf)
		if err != nil {
			if len(segments) == 0 {
				return nil, err
			}
			meta.ParseError = err.Error()
		}
		for _, s := range segments {
			if h, ok := s.Decoded.(*jpegparser.SofHeader); ok {
				meta.Width, meta.Height = uint32(h.Width), uint32(h.Height)
				break
			}
		}
		meta.EntryCount = len(segments)
		if len(segments) > 0 {
			meta.TrailingBytes = len(buf) - segments[len(segments)-1].End()
		}
		meta.Segments = JPEGSummary(segments, w)
	default:
		return nil, fmt.Errorf("%w: neither PNG signature nor JPEG SOI found", stego.ErrUnknownFormat)
	}

	if at, err := stego.ResolveAuto(buf); err == nil {
		meta.AutoOffset = &at
	}
	return meta, nil
}

// WriteText renders meta as an aligned table.
func WriteText(w io.Writer, meta *models.ImageMetadata) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Format: %s, %s (%s bytes)\n", strings.ToUpper(meta.Format),
		humanize.Bytes(uint64(meta.TotalBytes)), humanize.Comma(int64(meta.TotalBytes)))
	if meta.Width > 0 {
		fmt.Fprintf(&sb, "Dimensions: %dx%d\n", meta.Width, meta.Height)
	}
	fmt.Fprintf(&sb, "Entries: %d", meta.EntryCount)
	if meta.CRCMismatches > 0 {
		fmt.Fprintf(&sb, ", %d CRC mismatch(es)", meta.CRCMismatches)
	}
	sb.WriteByte('\n')
	if meta.TrailingBytes > 0 {
		fmt.Fprintf(&sb, "Trailing data: %s\n", humanize.Bytes(uint64(meta.TrailingBytes)))
	}
	if meta.AutoOffset != nil {
		fmt.Fprintf(&sb, "Auto offset: %d\n", *meta.AutoOffset)
	}
	if meta.ParseError != "" {
		fmt.Fprintf(&sb, "Parse error: %s\n", meta.ParseError)
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if len(meta.Chunks) > 0 {
		fmt.Fprintln(tw, "#\tTYPE\tOFFSET\tSIZE\tCRC\t")
		for _, c := range meta.Chunks {
			crc := c.CRC
			if !c.CRCValid {
				crc += " (mismatch)"
			}
			fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t\n", c.Index, c.Type, c.StartOffset, humanize.Bytes(uint64(c.Length)), crc)
		}
	}
	if len(meta.Segments) > 0 {
		fmt.Fprintln(tw, "#\tMARKER\tOFFSET\tSIZE\tDETAIL\t")
		for _, s := range meta.Segments {
			detail := s.Detail
			if s.DecodeErr != "" {
				detail = "error: " + s.DecodeErr
			}
			fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t\n", s.Index, s.Marker, s.Offset, humanize.Bytes(uint64(s.Length+s.ScanLength)), detail)
		}
	}
	return tw.Flush()
}
