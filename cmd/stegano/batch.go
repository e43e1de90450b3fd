package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"

	"github.com/wiseaidev/stegano/batch"
	"github.com/wiseaidev/stegano/config"
	"github.com/wiseaidev/stegano/models"
)

func runBatch(args []string, stdout io.Writer) error {
	defaults := config.Default()

	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	key := fs.String("k", defaults.Stego.DefaultKey, "Key for payload encryption")
	payloadText := fs.String("p", "hello", "Payload")
	payloadFile := fs.String("payload-file", "", "Read the payload from a file instead of -p")
	outDir := fs.String("out-dir", "", "Directory for the output files")
	workers := fs.Int("w", defaults.Batch.Workers, "Number of files processed concurrently")
	offset := fs.String("f", "auto", "Injection offset, or auto")
	tag := fs.String("tag", defaults.Stego.ChunkType, "PNG chunk type of the injected chunk")
	failFast := fs.Bool("fail-fast", false, "Stop at the first failure")
	quiet := fs.Bool("q", false, "Hide the progress bar")
	compress := fs.Bool("z", false, "Compress the payload with zstd before encryption")
	prompt := fs.Bool("prompt", false, "Prompt for the key instead of using -k")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *outDir == "" || fs.NArg() == 0 {
		return fmt.Errorf("an output directory (-out-dir) and at least one input file are required")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	k, err := readKey(*key, *prompt)
	if err != nil {
		return err
	}
	secret, err := readPayload(*payloadText, *payloadFile)
	if err != nil {
		return err
	}

	runner := batch.NewRunner(*workers, models.StegoConfig{
		Key:       string(k),
		Payload:   secret,
		Offset:    *offset,
		ChunkType: *tag,
		Compress:  *compress,
	}, log)
	runner.FailFast = *failFast

	jobs := batch.Jobs(*outDir, fs.Args())
	if !*quiet {
		bar := pb.StartNew(len(jobs))
		runner.OnProgress = func(batch.Result) { bar.Increment() }
		defer bar.Finish()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := runner.Run(ctx, jobs)
	if err != nil {
		return err
	}

	var failed, written int
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(stdout, "FAILED %s: %v\n", res.Input, res.Err)
			continue
		}
		written += res.Size
	}
	fmt.Fprintf(stdout, "%d of %d files written to %s (%s)\n",
		len(results)-failed, len(results), *outDir, humanize.Bytes(uint64(written)))
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}
	return nil
}
