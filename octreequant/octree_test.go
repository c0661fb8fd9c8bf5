package octreequant

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.sr.ht/~rockorager/octquant/log"
	"git.sr.ht/~rockorager/octquant/pix"
)

func TestCellTreeSizes(t *testing.T) {
	cells := newCellTree(MaxLevel)
	sizes := []int{1, 8, 64, 512, 4096, 32768, 262144}
	require.Len(t, cells, len(sizes))
	for level, size := range sizes {
		assert.Len(t, cells[level], size, "level %d", level)
	}
}

func TestPruneCoverage(t *testing.T) {
	tests := []struct {
		name string
		img  *pix.Pix
	}{
		{name: "noise", img: noise(t, 128, 128, 1)},
		{name: "gradient", img: gradient(t)},
		{name: "single color", img: newRGB(t, 16, 16, func(x, y int) (uint8, uint8, uint8) { return 10, 200, 30 })},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tree, err := generateAndPrune(test.img, 128, DefaultOptions())
			require.NoError(t, err)
			assert.NoError(t, tree.checkCoverage())
			assert.LessOrEqual(t, tree.cmap.Count(), 128)
		})
	}
}

func TestClassifierTotality(t *testing.T) {
	tree, err := generateAndPrune(noise(t, 200, 100, 7), 200, DefaultOptions())
	require.NoError(t, err)
	n := tree.cmap.Count()
	step := 1
	if testing.Short() {
		step = 7
	}
	for r := 0; r < 256; r += step {
		for g := 0; g < 256; g += 1 {
			for b := 0; b < 256; b += 1 {
				index, rc, gc, bc := tree.classify(uint8(r), uint8(g), uint8(b))
				if index < 0 || index >= n {
					t.Fatalf("(%d,%d,%d) classified to %d, colormap has %d", r, g, b, index, n)
				}
				e := tree.cmap.Entry(index)
				if e.R != rc || e.G != gc || e.B != bc {
					t.Fatalf("(%d,%d,%d): cached color differs from entry %d", r, g, b, index)
				}
			}
		}
	}
}

func TestSixteenColors(t *testing.T) {
	// level-6 cube centers, each in its own level-2 cube
	rs := []uint8{2, 130}
	gs := []uint8{66, 194}
	bs := []uint8{2, 66, 130, 194}
	var colors [][3]uint8
	for _, r := range rs {
		for _, g := range gs {
			for _, b := range bs {
				colors = append(colors, [3]uint8{r, g, b})
			}
		}
	}
	src := newRGB(t, 4, 4, func(x, y int) (uint8, uint8, uint8) {
		c := colors[4*y+x]
		return c[0], c[1], c[2]
	})

	out, err := OctreeColorQuant(src, 128, false)
	require.NoError(t, err)
	w, h, d := out.Dimensions()
	assert.Equal(t, [3]int{4, 4, 8}, [3]int{w, h, d})
	cm := out.Colormap()
	require.NotNil(t, cm)
	assert.Equal(t, 16, cm.Count())
	for y := 0; y < 4; y += 1 {
		for x := 0; x < 4; x += 1 {
			r, g, b, err := cm.Color(int(out.Pixel(x, y)))
			require.NoError(t, err)
			assert.Equal(t, colors[4*y+x], [3]uint8{r, g, b}, "pixel %d,%d", x, y)
		}
	}
}

func TestPaletteSizeBound(t *testing.T) {
	images := map[string]*pix.Pix{
		"noise":    noise(t, 300, 200, 3),
		"gradient": gradient(t),
	}
	for name, img := range images {
		for _, colors := range []int{128, 160, 200, 256} {
			for _, dither := range []bool{false, true} {
				out, err := OctreeColorQuant(img, colors, dither)
				require.NoError(t, err)
				n := out.Colormap().Count()
				assert.LessOrEqual(t, n, colors, "%s colors=%d dither=%v", name, colors, dither)
				assert.LessOrEqual(t, n, 256)
				hist, err := out.CmapHistogram(1)
				require.NoError(t, err)
				assert.Equal(t, n, hist.NonZero(), "unused entries left in colormap")
			}
		}
	}
}

func TestPaletteExhaustion(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	log.SetOutput(buf, log.LevelWarn)
	defer log.SetLogger(nil)

	opts := DefaultOptions()
	for level := range opts.Thresholds {
		opts.Thresholds[level] = 0.0001
	}
	opts.ReservedColors = 0
	opts.ExtraReservedColors = 0
	tree, err := generateAndPrune(noise(t, 128, 128, 11), 128, opts)
	require.NoError(t, err)
	assert.Greater(t, tree.overflow, 0)
	assert.Equal(t, 128, tree.cmap.Count())
	assert.NoError(t, tree.checkCoverage())
	assert.Contains(t, buf.String(), "colormap full")

	for v := 0; v < 256; v += 5 {
		index, _, _, _ := tree.classify(uint8(v), uint8(255-v), uint8(v/2))
		assert.Less(t, index, 128)
	}
}

func TestOctreeColorQuantErrors(t *testing.T) {
	gray, err := pix.New(8, 8, 8)
	require.NoError(t, err)
	_, err = OctreeColorQuant(gray, 128, false)
	assert.ErrorIs(t, err, ErrNot32bpp)
	_, err = OctreeColorQuant(nil, 128, false)
	assert.ErrorIs(t, err, ErrNot32bpp)

	rgb := noise(t, 8, 8, 1)
	for _, colors := range []int{0, 127, 257} {
		out, err := OctreeColorQuant(rgb, colors, false)
		assert.ErrorIs(t, err, ErrColorsRange)
		assert.Nil(t, out)
	}

	opts := DefaultOptions()
	opts.Thresholds[3] = 0
	_, err = OctreeColorQuantGeneral(rgb, 128, false, opts)
	assert.ErrorIs(t, err, ErrOptions)
}

func TestSubsample(t *testing.T) {
	img := noise(t, 700, 20, 5)
	opts := DefaultOptions()
	sample, err := subsample(img, opts)
	require.NoError(t, err)
	assert.Equal(t, 350, sample.Width())
	assert.Equal(t, 10, sample.Height())

	opts.Subsample = 4
	sample, err = subsample(img, opts)
	require.NoError(t, err)
	assert.Equal(t, 175, sample.Width())

	small := noise(t, 20, 20, 5)
	sample, err = subsample(small, DefaultOptions())
	require.NoError(t, err)
	assert.Same(t, small, sample)

	out, err := OctreeColorQuantGeneral(img, 240, true, opts)
	require.NoError(t, err)
	assert.True(t, out.SameSize(img))
}

func TestSubsampleIgnoresAlpha(t *testing.T) {
	// wide enough to be subsampled before the tree is built
	img := func(a uint8) *pix.Pix {
		p, err := pix.New(700, 100, 32)
		require.NoError(t, err)
		for y := 0; y < 100; y += 1 {
			for x := 0; x < 700; x += 1 {
				p.SetPixel(x, y, pix.ComposeRGBA(uint8(x*255/699), uint8(2*y), 128, a))
			}
		}
		return p
	}
	opaque, err := OctreeColorQuant(img(0xff), 256, false)
	require.NoError(t, err)
	transparent, err := OctreeColorQuant(img(0), 256, false)
	require.NoError(t, err)

	require.Equal(t, opaque.Colormap().Count(), transparent.Colormap().Count())
	assert.Greater(t, transparent.Colormap().Count(), 100)
	for i := 0; i < opaque.Colormap().Count(); i += 1 {
		assert.Equal(t, opaque.Colormap().Entry(i), transparent.Colormap().Entry(i), "entry %d", i)
	}
	for y := 0; y < 100; y += 1 {
		for x := 0; x < 700; x += 1 {
			if opaque.Pixel(x, y) != transparent.Pixel(x, y) {
				t.Fatalf("pixel %d,%d: %d != %d", x, y, opaque.Pixel(x, y), transparent.Pixel(x, y))
			}
		}
	}
}

func TestOctreeDitherReducesLocalError(t *testing.T) {
	src := gradient(t)
	plain, err := OctreeColorQuant(src, 128, false)
	require.NoError(t, err)
	dithered, err := OctreeColorQuant(src, 128, true)
	require.NoError(t, err)
	assert.Less(t, blockError(t, src, dithered), blockError(t, src, plain))
}
