package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

const usage = `stegano - hide encrypted payloads in PNG and JPEG files

Usage:
  stegano show-meta -i image [-t png|jpeg|auto] [-c start] [-u end] [-n count] [-x]
  stegano encrypt   -i image -o output -k key -p payload [-f offset|auto] [-tag chunk]
  stegano decrypt   -i image -k key [-f offset|auto] [-o secret.bin]
  stegano batch     -k key -p payload -out-dir dir [-w workers] files...
  stegano serve     [-config config.yaml]

Run "stegano <command> -h" for the flags of a command.
`

func main() {
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err := run(os.Args[1], os.Args[2:], os.Stdout); err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func run(command string, args []string, stdout io.Writer) error {
	switch command {
	case "show-meta", "meta":
		return runShowMeta(args, stdout)
	case "encrypt", "inject":
		return runEncrypt(args, stdout)
	case "decrypt", "extract":
		return runDecrypt(args, stdout)
	case "batch":
		return runBatch(args, stdout)
	case "serve":
		return runServe(args)
	case "help", "-h", "--help":
		_, err := fmt.Fprint(stdout, usage)
		return err
	default:
		return fmt.Errorf("unknown command %q\n\n%s", command, usage)
	}
}
