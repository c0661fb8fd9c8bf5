package octreequant

import (
	"fmt"

	"git.sr.ht/~rockorager/octquant/log"
	"git.sr.ht/~rockorager/octquant/pix"
)

const (
	// entries given to the most populated cubes when an image has more
	// occupied cubes than fit in a colormap. The remaining 64 go to the
	// level-2 cubes.
	populationTop = 192
)

// lutClassifier maps octcubes at one level through a lookup table
type lutClassifier struct {
	tabs *IndexTables
	lut  []int
	cmap *pix.Colormap
}

func (l *lutClassifier) classify(r, g, b uint8) (int, uint8, uint8, uint8) {
	index := l.lut[l.tabs.Index(r, g, b)]
	c := l.cmap.Entry(index)
	return index, c.R, c.G, c.B
}

// OctreeQuantByPopulation quantizes using octcubes at two levels: level,
// which is 3 or 4 (0 selects 4), and level 2. When no more than 256 cubes
// at level are occupied each gets an entry. Otherwise the 192 most
// populated cubes get entries and the pixels of all other cubes fall into
// their level-2 ancestor, which gets an entry if it received any. Entries
// are the average color of the pixels they represent.
func OctreeQuantByPopulation(p *pix.Pix, level int, dither bool) (*pix.Pix, error) {
	if err := check32(p); err != nil {
		return nil, err
	}
	if level == 0 {
		level = 4
	}
	if level != 3 && level != 4 {
		return nil, fmt.Errorf("octreequant: %w: population level %d not 3 or 4", ErrLevelRange, level)
	}
	s, err := newCubeStats(p, level)
	if err != nil {
		return nil, err
	}
	cmap, err := pix.NewColormap(8)
	if err != nil {
		return nil, err
	}
	lut := make([]int, len(s.n))
	for i := range lut {
		lut[i] = -1
	}

	occupied := 0
	for _, n := range s.n {
		if n > 0 {
			occupied += 1
		}
	}
	if occupied <= 256 {
		for i, n := range s.n {
			if n == 0 {
				continue
			}
			lut[i] = cmap.Count()
			r, g, b := s.average(i)
			if err := cmap.AddColor(r, g, b); err != nil {
				return nil, err
			}
		}
	} else {
		counts := pix.NewNuma(len(s.n))
		for i, n := range s.n {
			counts[i] = float64(n)
		}
		order := counts.SortIndex(true)
		for _, i := range order[:populationTop] {
			lut[i] = cmap.Count()
			r, g, b := s.average(i)
			if err := cmap.AddColor(r, g, b); err != nil {
				return nil, err
			}
		}
		// bin everything else at level 2
		l2 := &cubeStats{
			n:    make([]int, CubeCount(2)),
			rsum: make([]int, CubeCount(2)),
			gsum: make([]int, CubeCount(2)),
			bsum: make([]int, CubeCount(2)),
		}
		for _, i := range order[populationTop:] {
			if s.n[i] == 0 {
				break
			}
			j := ParentIndex(uint32(i), level, 2)
			l2.n[j] += s.n[i]
			l2.rsum[j] += s.rsum[i]
			l2.gsum[j] += s.gsum[i]
			l2.bsum[j] += s.bsum[i]
		}
		l2index := make([]int, len(l2.n))
		for j, n := range l2.n {
			l2index[j] = -1
			if n == 0 {
				continue
			}
			l2index[j] = cmap.Count()
			r, g, b := l2.average(j)
			if err := cmap.AddColor(r, g, b); err != nil {
				return nil, err
			}
		}
		for i := range lut {
			if lut[i] < 0 {
				lut[i] = l2index[ParentIndex(uint32(i), level, 2)]
			}
		}
	}
	// unoccupied cubes still need an answer when dithering pushes a pixel
	// into them
	for i := range lut {
		if lut[i] < 0 {
			r, g, b := RGBFromOctcube(uint32(i), level)
			lut[i] = cmap.NearestIndex(r, g, b)
		}
	}

	w, h, _ := p.Dimensions()
	out, err := pix.New(w, h, 8)
	if err != nil {
		return nil, err
	}
	classifyImage(p, out, &lutClassifier{tabs: s.tabs, lut: lut, cmap: cmap}, dither)
	if err := out.SetColormap(cmap); err != nil {
		return nil, err
	}
	log.Debug("population quant at level %d: %d occupied cubes, %d colors", level, occupied, cmap.Count())
	return out, nil
}
