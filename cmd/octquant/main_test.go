package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.sr.ht/~rockorager/octquant/pix"
)

func TestFitScale(t *testing.T) {
	tests := []struct {
		name  string
		w, h  int
		maxW  int
		maxH  int
		scale float64
	}{
		{name: "fits", w: 100, h: 50, maxW: 800, maxH: 600, scale: 1},
		{name: "unknown size", w: 1000, h: 1000, scale: 1},
		{name: "too wide", w: 1600, h: 100, maxW: 800, maxH: 600, scale: 0.5},
		{name: "too tall", w: 100, h: 1200, maxW: 800, maxH: 600, scale: 0.5},
		{name: "both", w: 1600, h: 2400, maxW: 800, maxH: 600, scale: 0.25},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.scale, fitScale(test.w, test.h, test.maxW, test.maxH))
		})
	}
}

func writeTestImage(t *testing.T, dir string) string {
	t.Helper()
	p, err := pix.New(40, 30, 32)
	require.NoError(t, err)
	for y := 0; y < 30; y += 1 {
		for x := 0; x < 40; x += 1 {
			p.SetPixel(x, y, pix.ComposeRGB(uint8(6*x), uint8(8*y), 90))
		}
	}
	path := filepath.Join(dir, "in.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, pix.Write(f, p, pix.FormatPNG))
	return path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir)
	palette := filepath.Join(dir, "palette.gif")

	tests := []config{
		{method: "octree", colors: 128, dither: true, output: palette},
		{method: "population", level: 3, output: filepath.Join(dir, "population.png")},
		{method: "fixed", output: filepath.Join(dir, "fixed.bmp")},
		{method: "few", level: 2, output: filepath.Join(dir, "few.spix")},
		{method: "cmap", palette: palette, metric: "manhattan", output: filepath.Join(dir, "cmap.tiff")},
	}
	for _, cfg := range tests {
		t.Run(cfg.method, func(t *testing.T) {
			require.NoError(t, run(cfg, input))
			f, err := os.Open(cfg.output)
			require.NoError(t, err)
			defer f.Close()
			out, _, err := pix.Read(f)
			require.NoError(t, err)
			assert.Equal(t, 40, out.Width())
			assert.Equal(t, 30, out.Height())
			assert.NotNil(t, out.Colormap())
		})
	}

	assert.Error(t, run(config{method: "median"}, input))
	assert.Error(t, run(config{method: "cmap"}, input))
	assert.Error(t, run(config{method: "octree", colors: 256}, filepath.Join(dir, "missing.png")))
}

func TestPreview(t *testing.T) {
	p, err := pix.New(8, 8, 32)
	require.NoError(t, err)
	p.SetAll(pix.ComposeRGB(200, 10, 10))
	q, err := quantize(config{method: "fixed"}, p)
	require.NoError(t, err)
	buf := bytes.NewBuffer(nil)
	require.NoError(t, preview(buf, q))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x1bP")))
}

func TestShrink(t *testing.T) {
	p, err := pix.New(1600, 100, 32)
	require.NoError(t, err)
	p.SetAll(pix.ComposeRGBA(20, 40, 60, 0))

	small, err := shrink(p, 800, 600)
	require.NoError(t, err)
	assert.Equal(t, 800, small.Width())
	assert.Equal(t, 50, small.Height())
	assert.Equal(t, pix.ComposeRGB(20, 40, 60), small.Pixel(400, 25))

	same, err := shrink(p, 0, 0)
	require.NoError(t, err)
	assert.Same(t, p, same)
}

type closeFailer struct {
	bytes.Buffer
	closed bool
}

func (c *closeFailer) Close() error {
	c.closed = true
	return errClose
}

var errClose = errors.New("disk full")

func TestEncodeAndCloseReportsClose(t *testing.T) {
	p, err := pix.New(4, 4, 32)
	require.NoError(t, err)
	q, err := quantize(config{method: "fixed"}, p)
	require.NoError(t, err)

	wc := &closeFailer{}
	assert.ErrorIs(t, encodeAndClose(wc, q, pix.FormatPNG), errClose)
	assert.True(t, wc.closed)
	assert.NotZero(t, wc.Len())

	// the write error wins over the close error
	wc = &closeFailer{}
	err = encodeAndClose(wc, q, "xpm")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, errClose)
	assert.True(t, wc.closed)
}
