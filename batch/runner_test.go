package batch

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiseaidev/stegano/models"
	"github.com/wiseaidev/stegano/stego"
)

func writeCarriers(t *testing.T, n int) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))

	paths := make([]string, 0, n)
	for i := 0; i < n; i++ {
		p := filepath.Join(dir, "carrier"+string(rune('a'+i))+".png")
		require.NoError(t, os.WriteFile(p, buf.Bytes(), 0o600))
		paths = append(paths, p)
	}
	return dir, paths
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(bytes.NewBuffer(nil))
	return l
}

func TestRunner_ProcessesAllFiles(t *testing.T) {
	_, inputs := writeCarriers(t, 5)
	outDir := t.TempDir()

	cfg := models.StegoConfig{Key: "pass", Payload: []byte("hello"), Offset: "auto"}
	r := NewRunner(2, cfg, quietLogger())
	var progressed atomic.Int32
	r.OnProgress = func(Result) { progressed.Add(1) }

	results, err := r.Run(context.Background(), Jobs(outDir, inputs))
	require.NoError(t, err)
	require.Len(t, results, 5)
	assert.Equal(t, int32(5), progressed.Load())

	for i, res := range results {
		require.NoError(t, res.Err)
		assert.Equal(t, inputs[i], res.Input)
		assert.Equal(t, "png", res.Format)

		data, err := os.ReadFile(res.Output)
		require.NoError(t, err)
		assert.Len(t, data, res.Size)
		assert.Equal(t, []byte("hello"), stego.ExtractPNG(data, []byte("pass"), stego.Auto()))
	}
}

func TestRunner_CollectsFailures(t *testing.T) {
	dir, inputs := writeCarriers(t, 2)
	bogus := filepath.Join(dir, "bogus.png")
	require.NoError(t, os.WriteFile(bogus, []byte("not an image"), 0o600))
	inputs = append(inputs, bogus, filepath.Join(dir, "missing.png"))

	r := NewRunner(3, models.StegoConfig{Key: "k", Payload: []byte("x")}, quietLogger())
	results, err := r.Run(context.Background(), Jobs(t.TempDir(), inputs))
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.NoError(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.ErrorIs(t, results[2].Err, stego.ErrUnknownFormat)
	assert.ErrorIs(t, results[3].Err, os.ErrNotExist)
}

func TestRunner_FailFast(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.png")

	r := NewRunner(1, models.StegoConfig{Key: "k", Payload: []byte("x")}, quietLogger())
	r.FailFast = true
	_, err := r.Run(context.Background(), Jobs(t.TempDir(), []string{missing}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRunner_Cancelled(t *testing.T) {
	_, inputs := writeCarriers(t, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(2, models.StegoConfig{Key: "k", Payload: []byte("x")}, quietLogger())
	_, err := r.Run(ctx, Jobs(t.TempDir(), inputs))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_InvalidConfig(t *testing.T) {
	r := NewRunner(1, models.StegoConfig{Key: "k", Offset: "somewhere"}, quietLogger())
	_, err := r.Run(context.Background(), nil)
	assert.Error(t, err)

	r = NewRunner(1, models.StegoConfig{Key: "k", ChunkType: "x1"}, quietLogger())
	_, err = r.Run(context.Background(), nil)
	assert.Error(t, err)
}
