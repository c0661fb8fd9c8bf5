package octreequant

import (
	"fmt"

	"git.sr.ht/~rockorager/octquant/log"
	"git.sr.ht/~rockorager/octquant/pix"
)

// fixed332 classifies with a static palette: 3 bits of red, 3 of green and
// 2 of blue
type fixed332 struct{}

func (fixed332) classify(r, g, b uint8) (int, uint8, uint8, uint8) {
	index := int(r&0xe0) | int((g>>3)&0x1c) | int(b>>6)
	rc, gc, bc := fixed332Color(index)
	return index, rc, gc, bc
}

// fixed332Color is the center of the fixed cell for an index
func fixed332Color(index int) (r, g, b uint8) {
	r = uint8(index&0xe0) | 0x10
	g = uint8((index<<3)&0xe0) | 0x10
	b = uint8((index<<6)&0xc0) | 0x20
	return r, g, b
}

// FixedOctcubeQuant256 quantizes to a fixed 256 color palette in a single
// pass. Each channel is cut into equal cells, 8 for red and green and 4 for
// blue, and every palette entry is the center of its cell.
func FixedOctcubeQuant256(p *pix.Pix, dither bool) (*pix.Pix, error) {
	if err := check32(p); err != nil {
		return nil, err
	}
	cmap, err := pix.NewColormap(8)
	if err != nil {
		return nil, err
	}
	for i := 0; i < 256; i += 1 {
		r, g, b := fixed332Color(i)
		if err := cmap.AddColor(r, g, b); err != nil {
			return nil, err
		}
	}
	w, h, _ := p.Dimensions()
	out, err := pix.New(w, h, 8)
	if err != nil {
		return nil, err
	}
	classifyImage(p, out, fixed332{}, dither)
	if err := out.SetColormap(cmap); err != nil {
		return nil, err
	}
	return out, nil
}

// cubeStats accumulates the population and color sums of every octcube at
// one level
type cubeStats struct {
	tabs *IndexTables
	n    []int
	rsum []int
	gsum []int
	bsum []int
}

func newCubeStats(p *pix.Pix, level int) (*cubeStats, error) {
	tabs, err := MakeRGBToIndexTables(level)
	if err != nil {
		return nil, err
	}
	size := CubeCount(level)
	s := &cubeStats{
		tabs: tabs,
		n:    make([]int, size),
		rsum: make([]int, size),
		gsum: make([]int, size),
		bsum: make([]int, size),
	}
	w, h, _ := p.Dimensions()
	for y := 0; y < h; y += 1 {
		line := p.Line(y)
		for x := 0; x < w; x += 1 {
			r, g, b := pix.ExtractRGB(line[x])
			i := tabs.Index(r, g, b)
			s.n[i] += 1
			s.rsum[i] += int(r)
			s.gsum[i] += int(g)
			s.bsum[i] += int(b)
		}
	}
	return s, nil
}

// average returns the mean color of the pixels in cube i, which must be
// occupied
func (s *cubeStats) average(i int) (r, g, b uint8) {
	n := s.n[i]
	return uint8((s.rsum[i] + n/2) / n), uint8((s.gsum[i] + n/2) / n), uint8((s.bsum[i] + n/2) / n)
}

// OctcubeHistogram counts the pixels of a 32 bpp image in each octcube at a
// level in [1, 6]
func OctcubeHistogram(p *pix.Pix, level int) (pix.Numa, error) {
	if err := check32(p); err != nil {
		return nil, err
	}
	tabs, err := MakeRGBToIndexTables(level)
	if err != nil {
		return nil, err
	}
	na := pix.NewNuma(CubeCount(level))
	w, h, _ := p.Dimensions()
	for y := 0; y < h; y += 1 {
		line := p.Line(y)
		for x := 0; x < w; x += 1 {
			r, g, b := pix.ExtractRGB(line[x])
			na[tabs.Index(r, g, b)] += 1
		}
	}
	return na, nil
}

// FixedOctcubeQuantCmap gives every occupied octcube at level its own
// colormap entry, colored with the average of the pixels in the cube. It is
// meant for images with few colors and fails with ErrTooManyColors when
// more than 256 cubes are occupied. The output depth is the smallest of 2, 4
// or 8 that indexes the colormap.
func FixedOctcubeQuantCmap(p *pix.Pix, level int) (*pix.Pix, error) {
	if err := check32(p); err != nil {
		return nil, err
	}
	s, err := newCubeStats(p, level)
	if err != nil {
		return nil, err
	}
	ncolors := 0
	for _, n := range s.n {
		if n > 0 {
			ncolors += 1
		}
	}
	if ncolors > 256 {
		return nil, fmt.Errorf("octreequant: %w: %d occupied cubes at level %d", ErrTooManyColors, ncolors, level)
	}
	depth := minDepth(ncolors)
	cmap, err := pix.NewColormap(depth)
	if err != nil {
		return nil, err
	}
	lut := make([]int, len(s.n))
	for i, n := range s.n {
		if n == 0 {
			continue
		}
		r, g, b := s.average(i)
		if lut[i], err = cmap.AddNewColor(r, g, b); err != nil {
			return nil, err
		}
	}
	w, h, _ := p.Dimensions()
	out, err := pix.New(w, h, depth)
	if err != nil {
		return nil, err
	}
	for y := 0; y < h; y += 1 {
		line := p.Line(y)
		for x := 0; x < w; x += 1 {
			r, g, b := pix.ExtractRGB(line[x])
			out.SetPixel(x, y, uint32(lut[s.tabs.Index(r, g, b)]))
		}
	}
	if err := out.SetColormap(cmap); err != nil {
		return nil, err
	}
	log.Debug("fixed octcube quant at level %d: %d colors", level, ncolors)
	return out, nil
}

func minDepth(ncolors int) int {
	switch {
	case ncolors <= 4:
		return 2
	case ncolors <= 16:
		return 4
	default:
		return 8
	}
}
