package octreequant

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"git.sr.ht/~rockorager/octquant/pix"
)

func newRGB(t *testing.T, w, h int, fn func(x, y int) (r, g, b uint8)) *pix.Pix {
	t.Helper()
	p, err := pix.New(w, h, 32)
	require.NoError(t, err)
	for y := 0; y < h; y += 1 {
		for x := 0; x < w; x += 1 {
			p.SetPixel(x, y, pix.ComposeRGB(fn(x, y)))
		}
	}
	return p
}

func noise(t *testing.T, w, h int, seed int64) *pix.Pix {
	rng := rand.New(rand.NewSource(seed))
	return newRGB(t, w, h, func(x, y int) (uint8, uint8, uint8) {
		return uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256))
	})
}

func gradient(t *testing.T) *pix.Pix {
	return newRGB(t, 256, 256, func(x, y int) (uint8, uint8, uint8) {
		return uint8(x), uint8(y), 128
	})
}

// blockError sums, over 8x8 blocks, the absolute difference between the
// mean source color and the mean quantized color
func blockError(t *testing.T, src, dst *pix.Pix) float64 {
	t.Helper()
	rgb, err := dst.ToRGB()
	require.NoError(t, err)
	w, h, _ := src.Dimensions()
	const bs = 8
	var total float64
	for by := 0; by+bs <= h; by += bs {
		for bx := 0; bx+bs <= w; bx += bs {
			var s, d [3]int
			for y := by; y < by+bs; y += 1 {
				for x := bx; x < bx+bs; x += 1 {
					sr, sg, sb := pix.ExtractRGB(src.Pixel(x, y))
					dr, dg, db := pix.ExtractRGB(rgb.Pixel(x, y))
					s[0], s[1], s[2] = s[0]+int(sr), s[1]+int(sg), s[2]+int(sb)
					d[0], d[1], d[2] = d[0]+int(dr), d[1]+int(dg), d[2]+int(db)
				}
			}
			for c := 0; c < 3; c += 1 {
				total += float64(abs(s[c]-d[c])) / (bs * bs)
			}
		}
	}
	return total
}
