package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/wiseaidev/stegano/jpegparser"
	"github.com/wiseaidev/stegano/pngparser"
	"github.com/wiseaidev/stegano/report"
	"github.com/wiseaidev/stegano/stego"
)

func runShowMeta(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("show-meta", flag.ContinueOnError)
	input := fs.String("i", "", "Image input file")
	fileType := fs.String("t", "auto", "Image type: png, jpeg or auto")
	window := report.DefaultWindow()
	start := fs.Int("c", window.Start, "Index of the first chunk to show")
	end := fs.Int("u", window.End, "Index of the chunk to stop at")
	count := fs.Int("n", window.Count, "Maximum number of chunks to show")
	suppress := fs.Bool("s", false, "Suppress the summary")
	hex := fs.Bool("x", false, "Hex dump each selected chunk")
	color := fs.Bool("color", false, "Colorize the hex dump")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return fmt.Errorf("an input file is required (-i)")
	}

	format, err := stego.ParseFormat(*fileType)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(*input)
	if err != nil {
		return err
	}

	meta, err := report.Describe(data, format, report.Window{Start: *start, End: *end, Count: *count})
	if err != nil {
		return err
	}
	if !*suppress {
		if err := report.WriteText(stdout, meta); err != nil {
			return err
		}
	}
	if !*hex {
		return nil
	}

	opts := report.HexOptions{Color: *color}
	if len(meta.Chunks) > 0 {
		chunks, _ := pngparser.Parse(data)
		for _, c := range meta.Chunks {
			fmt.Fprintf(stdout, "---- Chunk #%d %s ----\n", c.Index, c.Type)
			if err := report.HexDump(stdout, chunks[c.Index-1].Raw(data), uint64(c.StartOffset), opts); err != nil {
				return err
			}
		}
	}
	if len(meta.Segments) > 0 {
		segments, _ := jpegparser.Parse(data)
		for _, s := range meta.Segments {
			fmt.Fprintf(stdout, "---- Segment #%d %s ----\n", s.Index, s.Marker)
			seg := segments[s.Index-1]
			if err := report.HexDump(stdout, data[seg.Offset:seg.End()], uint64(seg.Offset), opts); err != nil {
				return err
			}
		}
	}
	return nil
}
