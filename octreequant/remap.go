package octreequant

import (
	"fmt"

	"git.sr.ht/~rockorager/octquant/log"
	"git.sr.ht/~rockorager/octquant/pix"
)

// Metric selects the color distance used to find the nearest colormap entry
type Metric int

const (
	// ManhattanDistance sums absolute channel differences
	ManhattanDistance Metric = iota + 1
	// EuclideanDistance sums squared channel differences. Its regions are
	// convex, so a cube center is a good proxy for the colors in the cube.
	EuclideanDistance
)

func (m Metric) String() string {
	switch m {
	case ManhattanDistance:
		return "manhattan"
	case EuclideanDistance:
		return "euclidean"
	default:
		return fmt.Sprintf("Metric(%d)", int(m))
	}
}

func (m Metric) distance(r1, g1, b1, r2, g2, b2 uint8) int {
	dr := int(r1) - int(r2)
	dg := int(g1) - int(g2)
	db := int(b1) - int(b2)
	if m == ManhattanDistance {
		return abs(dr) + abs(dg) + abs(db)
	}
	return dr*dr + dg*dg + db*db
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// ColormapToOctcubeLUT maps every octcube at level in [1, 6] to the colormap
// entry nearest its center. Ties go to the lower index. If the darkest entry
// is nearly black it owns the black corner cube, and likewise a nearly white
// lightest entry owns the white corner.
func ColormapToOctcubeLUT(cm *pix.Colormap, level int, metric Metric) ([]int, error) {
	if level < 1 || level > MaxLevel {
		return nil, fmt.Errorf("octreequant: %w: %d not in [1,%d]", ErrLevelRange, level, MaxLevel)
	}
	if metric != ManhattanDistance && metric != EuclideanDistance {
		return nil, fmt.Errorf("octreequant: unknown metric %d", int(metric))
	}
	if cm == nil || cm.Count() == 0 {
		return nil, fmt.Errorf("octreequant: %w", ErrEmptyColormap)
	}
	entries := cm.Entries()
	size := CubeCount(level)
	lut := make([]int, size)
	for i := 0; i < size; i += 1 {
		r, g, b := RGBFromOctcube(uint32(i), level)
		best, mindist := 0, -1
		for j, c := range entries {
			dist := metric.distance(r, g, b, c.R, c.G, c.B)
			if mindist < 0 || dist < mindist {
				best, mindist = j, dist
			}
		}
		lut[i] = best
	}

	// corner cube centers are not black or white
	if index, err := cm.RankIntensity(0); err == nil {
		if c := entries[index]; c.R < 7 && c.G < 7 && c.B < 7 {
			lut[0] = index
		}
	}
	if index, err := cm.RankIntensity(1); err == nil {
		if c := entries[index]; c.R > 248 && c.G > 248 && c.B > 248 {
			lut[size-1] = index
		}
	}
	return lut, nil
}

// OctcubeQuantFromCmap remaps a 32 bpp image onto an existing colormap: each
// pixel is assigned the entry its octcube at level maps to under
// ColormapToOctcubeLUT. The output depth is the larger of mindepth (2, 4 or
// 8) and the smallest depth that indexes the colormap. The output gets its
// own copy of the colormap.
func OctcubeQuantFromCmap(p *pix.Pix, cm *pix.Colormap, mindepth int, level int, metric Metric) (*pix.Pix, error) {
	if err := check32(p); err != nil {
		return nil, err
	}
	if mindepth != 2 && mindepth != 4 && mindepth != 8 {
		return nil, fmt.Errorf("octreequant: %w: mindepth %d", pix.ErrInvalidDepth, mindepth)
	}
	lut, err := ColormapToOctcubeLUT(cm, level, metric)
	if err != nil {
		return nil, err
	}
	tabs, err := MakeRGBToIndexTables(level)
	if err != nil {
		return nil, err
	}
	depth := cm.MinDepth()
	if mindepth > depth {
		depth = mindepth
	}
	cmap, err := cm.CopyWithDepth(depth)
	if err != nil {
		return nil, err
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
			out.SetPixel(x, y, uint32(lut[tabs.Index(r, g, b)]))
		}
	}
	if err := out.SetColormap(cmap); err != nil {
		return nil, err
	}
	log.Debug("remapped %dx%d onto %d colors at level %d (%s)", w, h, cmap.Count(), level, metric)
	return out, nil
}
