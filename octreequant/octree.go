package octreequant

import (
	"fmt"
	"math"

	"git.sr.ht/~rockorager/octquant/log"
	"git.sr.ht/~rockorager/octquant/pix"
)

// cell is one octcube of the pruned tree
type cell struct {
	// pixels counted in this cube. Parents only receive counts when they
	// absorb their children during pruning.
	n int
	// terminal in pruning: either it owns a colormap entry or all eight
	// children do
	leaf bool
	// number of children that are leaves
	nleaves int
	// colormap index, valid for leaves that own an entry
	index int
	// cube center, cached when the entry is assigned
	rc uint8
	gc uint8
	bc uint8
}

// cellTree holds one flat slice per level. The children of cube i at level
// L are cubes 8*i through 8*i+7 at level L+1.
type cellTree [][]cell

func newCellTree(depth int) cellTree {
	t := make(cellTree, depth+1)
	for level := range t {
		t[level] = make([]cell, CubeCount(level))
	}
	return t
}

// octree is the pruned tree plus the colormap its leaves index into
type octree struct {
	cells cellTree
	tabs  *IndexTables
	cmap  *pix.Colormap
	// colormap size cap, at most 256
	maxColors int
	// promotions that found the colormap full
	overflow int

	// remaining sampled pixels and colors for popularity promotion
	npix    float64
	ncolors int
	ncolor  int
	ppc     float64
}

// generateAndPrune runs the statistics pass over the (already subsampled)
// image and prunes the tree, building the colormap as cubes are promoted
func generateAndPrune(p *pix.Pix, colors int, opts Options) (*octree, error) {
	tabs, err := MakeRGBToIndexTables(MaxLevel)
	if err != nil {
		return nil, err
	}
	cmap, err := pix.NewColormap(8)
	if err != nil {
		return nil, err
	}
	maxColors := colors
	if maxColors > cmap.Capacity() {
		maxColors = cmap.Capacity()
	}
	t := &octree{
		cells:     newCellTree(MaxLevel),
		tabs:      tabs,
		cmap:      cmap,
		maxColors: maxColors,
	}

	w, h, _ := p.Dimensions()
	leaves := t.cells[MaxLevel]
	for y := 0; y < h; y += 1 {
		line := p.Line(y)
		for x := 0; x < w; x += 1 {
			r, g, b := pix.ExtractRGB(line[x])
			leaves[tabs.Index(r, g, b)].n += 1
		}
	}

	t.npix = float64(w * h)
	t.ncolors = opts.budget(colors)
	t.ppc = t.npix / float64(t.ncolors)
	for level := MaxLevel - 1; level >= pruneLevel; level -= 1 {
		t.pruneLevel(level, opts.Thresholds[level])
	}
	if t.overflow > 0 {
		log.Warn("octree quantizer ran out of colors: %d cubes share entry %d", t.overflow, t.maxColors-1)
	}
	log.Debug("octree pruned: %d colormap entries, %d popularity targets", t.cmap.Count(), t.ncolors)
	return t, nil
}

// pruneLevel visits every cube at level, promoting popular children and
// then deciding whether the cube itself becomes a leaf
func (t *octree) pruneLevel(level int, thresh float64) {
	cells := t.cells[level]
	subs := t.cells[level+1]
	before := t.cmap.Count()
	for i := range cells {
		c := &cells[i]
		for j := 0; j < 8; j += 1 {
			isub := 8*i + j
			s := &subs[isub]
			if s.leaf {
				c.nleaves += 1
				continue
			}
			// empty cubes are never popular, even when the pixel budget
			// has run dry
			if s.n > 0 && float64(s.n) >= thresh*t.ppc {
				s.leaf = true
				t.assign(s, uint32(isub), level+1)
				c.nleaves += 1
			}
		}
		switch {
		case c.nleaves > 0 || level == pruneLevel:
			c.leaf = true
			if c.nleaves == 8 {
				// every pixel is already owned by a child
				continue
			}
			// residual cube: take whatever the children left behind
			for j := 0; j < 8; j += 1 {
				s := &subs[8*i+j]
				if !s.leaf {
					c.n += s.n
				}
			}
			t.assign(c, uint32(i), level)
		default:
			for j := 0; j < 8; j += 1 {
				c.n += subs[8*i+j].n
			}
		}
	}
	log.Trace("octree level %d: %d new entries, %.0f pixels left, ppc %.2f", level, t.cmap.Count()-before, t.npix, t.ppc)
}

// assign gives a promoted cube its colormap entry and charges its pixels
// against the budget
func (t *octree) assign(c *cell, index uint32, level int) {
	if t.cmap.Count() < t.maxColors {
		r, g, b := RGBFromOctcube(index, level)
		c.index = t.cmap.Count()
		// cannot fail: maxColors never exceeds capacity
		_ = t.cmap.AddColor(r, g, b)
		c.rc, c.gc, c.bc = r, g, b
	} else {
		if t.overflow == 0 {
			log.Warn("colormap full at %d entries; reusing the last entry", t.maxColors)
		}
		t.overflow += 1
		c.index = t.cmap.Count() - 1
		c.rc, c.gc, c.bc, _ = t.cmap.Color(c.index)
	}
	t.npix -= float64(c.n)
	t.ncolor += 1
	if remaining := t.ncolors - t.ncolor; remaining > 0 {
		t.ppc = t.npix / float64(remaining)
	} else {
		// popularity promotion is over
		t.ppc = math.MaxFloat64
	}
}

// findColorCell walks down from level 2 to the leaf that owns the color with
// the given MaxLevel index
func (t *octree) findColorCell(octindex uint32) (index int, r, g, b uint8) {
	for level := pruneLevel; level < MaxLevel; level += 1 {
		base, sub := splitIndex(octindex, level)
		s := &t.cells[level+1][sub]
		if !s.leaf {
			c := &t.cells[level][base]
			return c.index, c.rc, c.gc, c.bc
		}
		if level == MaxLevel-1 {
			return s.index, s.rc, s.gc, s.bc
		}
	}
	// unreachable: MaxLevel-1 always returns
	return 0, 0, 0, 0
}

func (t *octree) classify(r, g, b uint8) (int, uint8, uint8, uint8) {
	return t.findColorCell(t.tabs.Index(r, g, b))
}

// checkCoverage verifies that pruning left no unresolved cube at the
// shallowest level
func (t *octree) checkCoverage() error {
	for i, c := range t.cells[pruneLevel] {
		if !c.leaf {
			return fmt.Errorf("octreequant: level %d cube %d is not a leaf", pruneLevel, i)
		}
	}
	return nil
}
