package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/wiseaidev/stegano/crypto"
	"github.com/wiseaidev/stegano/payload"
	"github.com/wiseaidev/stegano/pngparser"
	"github.com/wiseaidev/stegano/stego"
)

// readKey returns the flag value, or prompts for the key without echo.
func readKey(flagKey string, prompt bool) ([]byte, error) {
	if !prompt {
		return []byte(flagKey), crypto.ValidateKey(flagKey)
	}
	fmt.Fprint(os.Stderr, "Enter key: ")
	key, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("key read failed: %w", err)
	}
	return key, crypto.ValidateKey(string(key))
}

func readPayload(text, file string) ([]byte, error) {
	if file != "" {
		return os.ReadFile(file)
	}
	return []byte(text), nil
}

func runEncrypt(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("encrypt", flag.ContinueOnError)
	input := fs.String("i", "", "Image input file")
	output := fs.String("o", "output.png", "Output file")
	key := fs.String("k", "key", "Key for payload encryption")
	payloadText := fs.String("p", "hello", "Payload")
	payloadFile := fs.String("payload-file", "", "Read the payload from a file instead of -p")
	offset := fs.String("f", "auto", "Injection offset, or auto")
	tag := fs.String("tag", string(stego.DefaultChunkType[:]), "PNG chunk type of the injected chunk")
	fileType := fs.String("t", "auto", "Image type: png, jpeg or auto")
	suppress := fs.Bool("s", false, "Suppress output messages")
	prompt := fs.Bool("prompt", false, "Prompt for the key instead of using -k")
	compress := fs.Bool("z", false, "Compress the payload with zstd before encryption")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return fmt.Errorf("an input file is required (-i)")
	}

	k, err := readKey(*key, *prompt)
	if err != nil {
		return err
	}
	secret, err := readPayload(*payloadText, *payloadFile)
	if err != nil {
		return err
	}
	if *compress {
		if secret, err = payload.Compress(secret); err != nil {
			return err
		}
	}
	off, err := stego.ParseOffset(*offset)
	if err != nil {
		return err
	}
	var opts stego.Options
	if opts.Format, err = stego.ParseFormat(*fileType); err != nil {
		return err
	}
	if opts.ChunkType, err = pngparser.ParseChunkType(*tag); err != nil {
		return err
	}

	carrier, err := os.ReadFile(*input)
	if err != nil {
		return err
	}
	res, err := stego.Inject(carrier, k, secret, off, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*output, res.Data, 0o644); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{"format": res.Format, "offset": res.Offset}).Debug("payload injected")
	if !*suppress {
		fmt.Fprintf(stdout, "Injected %d bytes into %s at offset %d (%s)\n", len(secret), *output, res.Offset, res.Format)
	}
	return nil
}

func runDecrypt(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("decrypt", flag.ContinueOnError)
	input := fs.String("i", "", "Image input file")
	output := fs.String("o", "", "Also write the raw secret to this file")
	key := fs.String("k", "key", "Key for payload decryption")
	offset := fs.String("f", "auto", "Offset the payload was injected at, or auto")
	fileType := fs.String("t", "auto", "Image type: png, jpeg or auto")
	suppress := fs.Bool("s", false, "Print only the payload")
	prompt := fs.Bool("prompt", false, "Prompt for the key instead of using -k")
	compress := fs.Bool("z", false, "The payload was compressed with -z")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return fmt.Errorf("an input file is required (-i)")
	}

	k, err := readKey(*key, *prompt)
	if err != nil {
		return err
	}
	off, err := stego.ParseOffset(*offset)
	if err != nil {
		return err
	}
	var opts stego.Options
	if opts.Format, err = stego.ParseFormat(*fileType); err != nil {
		return err
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		return err
	}
	res, err := stego.Extract(data, k, off, opts)
	if err != nil {
		return err
	}
	if *compress {
		if res.Data, err = payload.Decompress(res.Data); err != nil {
			return err
		}
	}
	if *output != "" {
		if err := os.WriteFile(*output, res.Data, 0o600); err != nil {
			return err
		}
	}

	text := strings.ToValidUTF8(string(res.Data), "�")
	if *suppress {
		_, err = fmt.Fprintln(stdout, text)
		return err
	}
	_, err = fmt.Fprintf(stdout, "Payload at offset %d (%d bytes): %q\n", res.Offset, len(res.Data), text)
	return err
}
