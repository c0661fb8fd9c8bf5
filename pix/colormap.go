package pix

import (
	"fmt"
	"image/color"
)

// RGBA is a single colormap entry
type RGBA struct {
	R uint8
	G uint8
	B uint8
	A uint8
}

// Colormap is an ordered, append-only palette of up to 2^depth colors
type Colormap struct {
	depth  int
	colors []RGBA
}

// NewColormap creates an empty colormap able to hold 2^depth colors. Depth
// must be 1, 2, 4 or 8.
func NewColormap(depth int) (*Colormap, error) {
	switch depth {
	case 1, 2, 4, 8:
	default:
		return nil, fmt.Errorf("pix: %w: colormap depth %d", ErrInvalidDepth, depth)
	}
	return &Colormap{
		depth:  depth,
		colors: make([]RGBA, 0, 1<<depth),
	}, nil
}

// Depth is the depth the colormap was created for
func (cm *Colormap) Depth() int { return cm.depth }

// Count is the number of colors in the map
func (cm *Colormap) Count() int { return len(cm.colors) }

// Capacity is the maximum number of colors, 2^depth
func (cm *Colormap) Capacity() int { return 1 << cm.depth }

// FreeCount is the number of colors that can still be added
func (cm *Colormap) FreeCount() int { return cm.Capacity() - len(cm.colors) }

// AddColor appends an opaque color
func (cm *Colormap) AddColor(r, g, b uint8) error {
	return cm.AddRGBA(r, g, b, 0xff)
}

// AddRGBA appends a color with alpha
func (cm *Colormap) AddRGBA(r, g, b, a uint8) error {
	if len(cm.colors) >= cm.Capacity() {
		return fmt.Errorf("pix: %w: capacity %d", ErrColormapFull, cm.Capacity())
	}
	cm.colors = append(cm.colors, RGBA{r, g, b, a})
	return nil
}

// AddNewColor returns the index of the color, adding it if it isn't already
// present
func (cm *Colormap) AddNewColor(r, g, b uint8) (int, error) {
	if i, ok := cm.ColorIndex(r, g, b); ok {
		return i, nil
	}
	if err := cm.AddColor(r, g, b); err != nil {
		return 0, err
	}
	return len(cm.colors) - 1, nil
}

// Color returns the RGB value of entry i
func (cm *Colormap) Color(i int) (r, g, b uint8, err error) {
	if i < 0 || i >= len(cm.colors) {
		return 0, 0, 0, fmt.Errorf("pix: %w: %d not in [0,%d)", ErrIndexRange, i, len(cm.colors))
	}
	c := cm.colors[i]
	return c.R, c.G, c.B, nil
}

// Entry returns entry i including alpha. It panics if i is out of range.
func (cm *Colormap) Entry(i int) RGBA {
	return cm.colors[i]
}

// Entries exposes the color slice. It must not be modified.
func (cm *Colormap) Entries() []RGBA {
	return cm.colors
}

// ColorIndex returns the index of the first entry equal to (r, g, b)
func (cm *Colormap) ColorIndex(r, g, b uint8) (int, bool) {
	for i, c := range cm.colors {
		if c.R == r && c.G == g && c.B == b {
			return i, true
		}
	}
	return 0, false
}

// MinDepth is the smallest pixel depth (2, 4 or 8) that can index every entry
func (cm *Colormap) MinDepth() int {
	switch n := len(cm.colors); {
	case n <= 4:
		return 2
	case n <= 16:
		return 4
	default:
		return 8
	}
}

// Copy returns an independent copy
func (cm *Colormap) Copy() *Colormap {
	c := &Colormap{
		depth:  cm.depth,
		colors: make([]RGBA, len(cm.colors), cap(cm.colors)),
	}
	copy(c.colors, cm.colors)
	return c
}

// CopyWithDepth returns a copy created for a different depth. It fails if the
// entries do not fit in 2^depth.
func (cm *Colormap) CopyWithDepth(depth int) (*Colormap, error) {
	c, err := NewColormap(depth)
	if err != nil {
		return nil, err
	}
	if len(cm.colors) > c.Capacity() {
		return nil, fmt.Errorf("pix: %w: %d colors for depth %d", ErrColormapFull, len(cm.colors), depth)
	}
	c.colors = append(c.colors, cm.colors...)
	return c, nil
}

// NearestIndex returns the entry closest to (r, g, b) in squared euclidean
// distance. Ties go to the lower index. An empty colormap returns 0.
func (cm *Colormap) NearestIndex(r, g, b uint8) int {
	best := 0
	mindist := -1
	for i, c := range cm.colors {
		dr := int(c.R) - int(r)
		dg := int(c.G) - int(g)
		db := int(c.B) - int(b)
		dist := dr*dr + dg*dg + db*db
		if mindist < 0 || dist < mindist {
			mindist = dist
			best = i
			if dist == 0 {
				break
			}
		}
	}
	return best
}

// Intensities returns the average channel value of every entry
func (cm *Colormap) Intensities() Numa {
	na := NewNuma(len(cm.colors))
	for i, c := range cm.colors {
		na[i] = float64(int(c.R)+int(c.G)+int(c.B)) / 3
	}
	return na
}

// RankIntensity returns the index of the entry at the given rank of
// intensity, where 0.0 is the darkest and 1.0 the lightest entry
func (cm *Colormap) RankIntensity(rank float64) (int, error) {
	if len(cm.colors) == 0 {
		return 0, fmt.Errorf("pix: %w: empty colormap", ErrIndexRange)
	}
	if rank < 0 || rank > 1 {
		return 0, fmt.Errorf("pix: rank %v not in [0,1]", rank)
	}
	order := cm.Intensities().SortIndex(false)
	return order[int(rank*float64(len(order)-1)+0.5)], nil
}

// Palette converts the colormap for use with the image packages
func (cm *Colormap) Palette() color.Palette {
	p := make(color.Palette, len(cm.colors))
	for i, c := range cm.colors {
		p[i] = color.NRGBA{c.R, c.G, c.B, c.A}
	}
	return p
}

// ColormapFromPalette builds a colormap of the smallest depth able to hold
// every entry of p. Palettes beyond 256 colors are rejected.
func ColormapFromPalette(p color.Palette) (*Colormap, error) {
	if len(p) > 256 {
		return nil, fmt.Errorf("pix: %w: %d colors", ErrColormapFull, len(p))
	}
	depth := 8
	switch {
	case len(p) <= 2:
		depth = 1
	case len(p) <= 4:
		depth = 2
	case len(p) <= 16:
		depth = 4
	}
	cm, err := NewColormap(depth)
	if err != nil {
		return nil, err
	}
	for _, c := range p {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		cm.colors = append(cm.colors, RGBA{n.R, n.G, n.B, n.A})
	}
	return cm, nil
}
