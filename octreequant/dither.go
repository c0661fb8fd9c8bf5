package octreequant

import (
	"git.sr.ht/~rockorager/octquant/pix"
)

// classifier maps a color to a colormap index and the color that entry
// stands for
type classifier interface {
	classify(r, g, b uint8) (index int, rc, gc, bc uint8)
}

const (
	// samples are held at 64x so the 3/8, 3/8, 2/8 split of the error
	// keeps an eighth of a level of precision
	ditherScale = 64
	// largest scaled sample; dividing by ditherScale never exceeds 255
	ditherMax = 16383
)

// classifyImage writes the colormap index of every pixel of the 32 bpp src
// into the 8 bpp dst
func classifyImage(src *pix.Pix, dst *pix.Pix, cl classifier, dither bool) {
	if dither {
		ditherImage(src, dst, cl)
		return
	}
	w, h, _ := src.Dimensions()
	for y := 0; y < h; y += 1 {
		line := src.Line(y)
		dline := dst.Line(y)
		for x := 0; x < w; x += 1 {
			r, g, b := pix.ExtractRGB(line[x])
			index, _, _, _ := cl.classify(r, g, b)
			pix.SetLineByte(dline, x, uint8(index))
		}
	}
}

// ditherImage classifies in raster order, diffusing each pixel's error 3/8
// to the right, 3/8 down and 2/8 down-right. The last column and the last
// row push no error.
func ditherImage(src *pix.Pix, dst *pix.Pix, cl classifier) {
	w, h, _ := src.Dimensions()
	var cur, next [3][]int
	for c := 0; c < 3; c += 1 {
		cur[c] = make([]int, w)
		next[c] = make([]int, w)
	}
	loadRow(src.Line(0), next, w)
	for y := 0; y < h-1; y += 1 {
		cur, next = next, cur
		// the next row must be loaded before any error lands in it
		loadRow(src.Line(y+1), next, w)
		dline := dst.Line(y)
		for x := 0; x < w-1; x += 1 {
			index, rc, gc, bc := classifyScaled(cl, cur, x)
			pix.SetLineByte(dline, x, uint8(index))
			center := [3]int{int(rc), int(gc), int(bc)}
			for c := 0; c < 3; c += 1 {
				dif := cur[c][x]/8 - 8*center[c]
				if dif == 0 {
					continue
				}
				cur[c][x+1] = clampSample(cur[c][x+1] + 3*dif)
				next[c][x] = clampSample(next[c][x] + 3*dif)
				next[c][x+1] = clampSample(next[c][x+1] + 2*dif)
			}
		}
		index, _, _, _ := classifyScaled(cl, cur, w-1)
		pix.SetLineByte(dline, w-1, uint8(index))
	}
	dline := dst.Line(h - 1)
	for x := 0; x < w; x += 1 {
		index, _, _, _ := classifyScaled(cl, next, x)
		pix.SetLineByte(dline, x, uint8(index))
	}
}

func loadRow(line []uint32, buf [3][]int, w int) {
	for x := 0; x < w; x += 1 {
		r, g, b := pix.ExtractRGB(line[x])
		buf[0][x] = ditherScale * int(r)
		buf[1][x] = ditherScale * int(g)
		buf[2][x] = ditherScale * int(b)
	}
}

func classifyScaled(cl classifier, buf [3][]int, x int) (int, uint8, uint8, uint8) {
	return cl.classify(
		uint8(buf[0][x]/ditherScale),
		uint8(buf[1][x]/ditherScale),
		uint8(buf[2][x]/ditherScale),
	)
}

func clampSample(v int) int {
	switch {
	case v < 0:
		return 0
	case v > ditherMax:
		return ditherMax
	default:
		return v
	}
}
