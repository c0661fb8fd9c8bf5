package pix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"
)

func mapped(t *testing.T) *Pix {
	t.Helper()
	p, err := New(4, 2, 8)
	require.NoError(t, err)
	cm, err := NewColormap(8)
	require.NoError(t, err)
	for i := 0; i < 6; i += 1 {
		require.NoError(t, cm.AddColor(uint8(40*i), 0, 0))
	}
	require.NoError(t, p.SetColormap(cm))
	values := []uint32{1, 1, 3, 5, 5, 5, 3, 1}
	for i, v := range values {
		p.SetPixel(i%4, i/4, v)
	}
	return p
}

func TestCountColors(t *testing.T) {
	assert.Equal(t, 3, mapped(t).CountColors())

	rgb, err := New(3, 1, 32)
	require.NoError(t, err)
	rgb.SetPixel(0, 0, ComposeRGBA(1, 2, 3, 0))
	rgb.SetPixel(1, 0, ComposeRGBA(1, 2, 3, 255))
	rgb.SetPixel(2, 0, ComposeRGB(9, 9, 9))
	assert.Equal(t, 2, rgb.CountColors())
	assert.Nil(t, rgb.Histogram())
}

func TestCmapHistogram(t *testing.T) {
	p := mapped(t)
	na, err := p.CmapHistogram(1)
	require.NoError(t, err)
	assert.Equal(t, Numa{0, 3, 0, 2, 0, 3}, na)

	na, err = p.CmapHistogram(2)
	require.NoError(t, err)
	assert.Equal(t, 2.0, na.Sum())

	require.NoError(t, p.SetColormap(nil))
	_, err = p.CmapHistogram(1)
	assert.ErrorIs(t, err, ErrNoColormap)
}

func TestRemoveUnusedColors(t *testing.T) {
	p := mapped(t)
	require.NoError(t, p.RemoveUnusedColors())
	cm := p.Colormap()
	assert.Equal(t, []RGBA{{40, 0, 0, 255}, {120, 0, 0, 255}, {200, 0, 0, 255}}, cm.Entries())
	assert.Equal(t, 8, cm.Depth())
	want := []uint32{0, 0, 1, 2, 2, 2, 1, 0}
	for i, v := range want {
		assert.Equal(t, v, p.Pixel(i%4, i/4))
	}

	// nothing to remove
	require.NoError(t, p.RemoveUnusedColors())
	assert.Equal(t, 3, p.Colormap().Count())

	rgb, err := New(2, 2, 32)
	require.NoError(t, err)
	assert.ErrorIs(t, rgb.RemoveUnusedColors(), ErrNoColormap)
}

func TestScaleBySampling(t *testing.T) {
	rgb, err := New(8, 6, 32)
	require.NoError(t, err)
	for y := 0; y < 6; y += 1 {
		for x := 0; x < 8; x += 1 {
			rgb.SetPixel(x, y, ComposeRGB(uint8(x), uint8(y), 0))
		}
	}
	half, err := rgb.ScaleBySampling(0.5, 0.5)
	require.NoError(t, err)
	w, h, d := half.Dimensions()
	assert.Equal(t, [3]int{4, 3, 32}, [3]int{w, h, d})
	// sampled values come straight from the source
	for y := 0; y < h; y += 1 {
		for x := 0; x < w; x += 1 {
			r, g, _ := ExtractRGB(half.Pixel(x, y))
			assert.Less(t, int(r), 8)
			assert.Less(t, int(g), 6)
		}
	}

	p := mapped(t)
	up, err := p.ScaleBySampling(2, 2)
	require.NoError(t, err)
	assert.Equal(t, 8, up.Width())
	assert.Equal(t, 4, up.Height())
	require.NotNil(t, up.Colormap())
	assert.NotSame(t, p.Colormap(), up.Colormap())
	assert.Equal(t, p.Pixel(2, 0), up.Pixel(4, 0))
	assert.Equal(t, p.Pixel(3, 1), up.Pixel(7, 3))

	tiny, err := rgb.ScaleBySampling(0.01, 0.01)
	require.NoError(t, err)
	assert.Equal(t, 1, tiny.Width())
	assert.Equal(t, 1, tiny.Height())

	_, err = rgb.ScaleBySampling(0, 1)
	assert.Error(t, err)
	_, err = p.ScaleToSize(2, 2, nil)
	assert.ErrorIs(t, err, ErrInvalidDepth)
}

func TestScaleBySamplingKeepsWords(t *testing.T) {
	rgb, err := New(6, 4, 32)
	require.NoError(t, err)
	for y := 0; y < 4; y += 1 {
		for x := 0; x < 6; x += 1 {
			rgb.SetPixel(x, y, ComposeRGBA(uint8(40*x), uint8(60*y), 7, 0))
		}
	}
	half, err := rgb.ScaleBySampling(0.5, 0.5)
	require.NoError(t, err)
	for y := 0; y < 2; y += 1 {
		for x := 0; x < 3; x += 1 {
			assert.Equal(t, rgb.Pixel(2*x+1, 2*y+1), half.Pixel(x, y), "pixel %d,%d", x, y)
		}
	}
}

func TestScaleToSizeIgnoresAlpha(t *testing.T) {
	for _, a := range []uint8{0, 0x80, 0xff} {
		rgb, err := New(8, 8, 32)
		require.NoError(t, err)
		rgb.SetAll(ComposeRGBA(200, 100, 50, a))
		small, err := rgb.ScaleToSize(3, 2, draw.NearestNeighbor)
		require.NoError(t, err)
		w, h, d := small.Dimensions()
		assert.Equal(t, [3]int{3, 2, 32}, [3]int{w, h, d})
		for y := 0; y < h; y += 1 {
			for x := 0; x < w; x += 1 {
				assert.Equal(t, ComposeRGB(200, 100, 50), small.Pixel(x, y), "alpha %#x", a)
			}
		}
		smooth, err := rgb.ScaleToSize(5, 5, draw.ApproxBiLinear)
		require.NoError(t, err)
		r, g, b := ExtractRGB(smooth.Pixel(2, 2))
		assert.InDelta(t, 200, int(r), 1)
		assert.InDelta(t, 100, int(g), 1)
		assert.InDelta(t, 50, int(b), 1)
		assert.Equal(t, uint32(0xff), smooth.Pixel(2, 2)&0xff)
	}
	rgb, err := New(4, 4, 32)
	require.NoError(t, err)
	_, err = rgb.ScaleToSize(0, 4, draw.NearestNeighbor)
	assert.Error(t, err)
}
