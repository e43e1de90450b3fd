// Package report renders carrier metadata for humans and for the HTTP API
package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// BytesPerRow is the width of one hex dump row.
const BytesPerRow = 20

type HexOptions struct {
	// Color alternates blue and green ANSI colors between adjacent bytes.
	Color bool
}

// HexDump writes data as rows of BytesPerRow bytes. Each row starts with the
// decimal offset (base plus the row position), then the bytes in hex, then
// their printable ASCII form.
func HexDump(w io.Writer, data []byte, base uint64, opts HexOptions) error {
	even := color.New(color.FgHiBlue)
	odd := color.New(color.FgHiGreen)
	if opts.Color {
		even.EnableColor()
		odd.EnableColor()
	} else {
		even.DisableColor()
		odd.DisableColor()
	}

	bw := bufio.NewWriter(w)
	for row := 0; row < len(data); row += BytesPerRow {
		end := row + BytesPerRow
		if end > len(data) {
			end = len(data)
		}
		line := data[row:end]

		fmt.Fprintf(bw, "%08d | ", base+uint64(row))
		for j, b := range line {
			c := even
			if j%2 == 1 {
				c = odd
			}
			bw.WriteString(c.Sprintf("%02X ", b))
		}
		bw.WriteString("| ")
		for _, b := range line {
			bw.WriteByte(printable(b))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func printable(b byte) byte {
	if b > 0x20 && b < 0x7F {
		return b
	}
	return '.'
}
