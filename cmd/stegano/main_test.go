package main

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.Gray{Y: uint8((x*37 + y*101) % 251)})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestEncryptDecrypt(t *testing.T) {
	dir := t.TempDir()
	input := writePNG(t, dir, "in.png")
	output := filepath.Join(dir, "out.png")

	var out bytes.Buffer
	require.NoError(t, run("encrypt", []string{"-i", input, "-o", output, "-k", "pass", "-p", "hello", "-f", "100"}, &out))
	assert.Contains(t, out.String(), "at offset 100")

	out.Reset()
	require.NoError(t, run("decrypt", []string{"-i", output, "-k", "pass", "-f", "100", "-s"}, &out))
	assert.Equal(t, "hello\n", out.String())

	out.Reset()
	secret := filepath.Join(dir, "secret.bin")
	require.NoError(t, run("decrypt", []string{"-i", output, "-k", "invalid", "-f", "100", "-o", secret}, &out))
	assert.Contains(t, out.String(), "(5 bytes)")
	raw, err := os.ReadFile(secret)
	require.NoError(t, err)
	assert.Len(t, raw, 5)
	assert.NotEqual(t, []byte("hello"), raw)
}

func TestEncryptDecryptAuto(t *testing.T) {
	dir := t.TempDir()
	input := writePNG(t, dir, "in.png")
	output := filepath.Join(dir, "out.png")

	var out bytes.Buffer
	require.NoError(t, run("encrypt", []string{"-i", input, "-o", output, "-s"}, &out))
	assert.Empty(t, out.String())

	require.NoError(t, run("decrypt", []string{"-i", output, "-s"}, &out))
	assert.Equal(t, "hello\n", out.String())
}

func TestShowMeta(t *testing.T) {
	input := writePNG(t, t.TempDir(), "in.png")

	var out bytes.Buffer
	require.NoError(t, run("show-meta", []string{"-i", input, "-x"}, &out))
	text := out.String()
	assert.Contains(t, text, "Format: PNG")
	assert.Contains(t, text, "IHDR")
	assert.Contains(t, text, "---- Chunk #1 IHDR ----")
	assert.Contains(t, text, "00000008 | 00 00 00 0D 49 48 44 52")
}

func TestShowMetaJPEGSegments(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 8)), nil))
	input := filepath.Join(t.TempDir(), "in.jpg")
	require.NoError(t, os.WriteFile(input, buf.Bytes(), 0o600))

	var out bytes.Buffer
	require.NoError(t, run("show-meta", []string{"-i", input, "-x", "-s", "-n", "2"}, &out))
	text := out.String()
	assert.NotContains(t, text, "Format:")
	assert.Contains(t, text, "---- Segment #1 SOI ----")
	assert.Contains(t, text, "00000000 | FF D8 ")
	assert.Contains(t, text, "---- Segment #2 DQT ----")
	assert.Contains(t, text, "00000002 | FF DB 00 43 ")
	assert.NotContains(t, text, "Segment #3")
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	inputs := []string{writePNG(t, dir, "a.png"), writePNG(t, dir, "b.png")}
	outDir := filepath.Join(dir, "out")

	var out bytes.Buffer
	args := append([]string{"-k", "pass", "-out-dir", outDir, "-q"}, inputs...)
	require.NoError(t, run("batch", args, &out))
	assert.True(t, strings.HasPrefix(out.String(), "2 of 2 files written"))

	_, err := os.Stat(filepath.Join(outDir, "a.png"))
	assert.NoError(t, err)
}

func TestUnknownCommand(t *testing.T) {
	assert.Error(t, run("frobnicate", nil, &bytes.Buffer{}))
	assert.Error(t, run("encrypt", []string{"-k", "x"}, &bytes.Buffer{}))
}

func TestEncryptDecryptCompressed(t *testing.T) {
	dir := t.TempDir()
	input := writePNG(t, dir, "in.png")
	output := filepath.Join(dir, "out.png")
	secret := strings.Repeat("compress me ", 50)

	var out bytes.Buffer
	require.NoError(t, run("encrypt", []string{"-i", input, "-o", output, "-p", secret, "-z", "-s"}, &out))

	require.NoError(t, run("decrypt", []string{"-i", output, "-z", "-s"}, &out))
	assert.Equal(t, secret+"\n", out.String())

	assert.Error(t, run("decrypt", []string{"-i", output, "-k", "wrong", "-z", "-s"}, &bytes.Buffer{}))
}
