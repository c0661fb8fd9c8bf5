package pix

import (
	"fmt"
)

// CountColors returns the number of distinct RGB values in a 32 bpp image, or
// the number of distinct pixel values in any other image
func (p *Pix) CountColors() int {
	if p.d == 32 {
		seen := make(map[uint32]struct{})
		for y := 0; y < p.h; y += 1 {
			for _, v := range p.Line(y)[:p.w] {
				seen[v&0xffffff00] = struct{}{}
			}
		}
		return len(seen)
	}
	return p.Histogram().NonZero()
}

// Histogram counts pixel values of an image of depth 16 or less
func (p *Pix) Histogram() Numa {
	if p.d > 16 {
		return nil
	}
	na := NewNuma(1 << uint(p.d))
	for y := 0; y < p.h; y += 1 {
		line := p.Line(y)
		for x := 0; x < p.w; x += 1 {
			na[getValue(line, x, p.d)] += 1
		}
	}
	return na
}

// CmapHistogram counts how many pixels use each colormap entry, sampling every
// factor-th pixel in each direction
func (p *Pix) CmapHistogram(factor int) (Numa, error) {
	if p.cmap == nil {
		return nil, fmt.Errorf("pix: %w", ErrNoColormap)
	}
	if factor < 1 {
		factor = 1
	}
	na := NewNuma(p.cmap.Count())
	for y := 0; y < p.h; y += factor {
		line := p.Line(y)
		for x := 0; x < p.w; x += factor {
			v := int(getValue(line, x, p.d))
			if v >= len(na) {
				return nil, fmt.Errorf("pix: %w: pixel value %d at (%d,%d)", ErrIndexRange, v, x, y)
			}
			na[v] += 1
		}
	}
	return na, nil
}

// RemoveUnusedColors drops colormap entries no pixel refers to and renumbers
// the pixels. Entry order is preserved.
func (p *Pix) RemoveUnusedColors() error {
	na, err := p.CmapHistogram(1)
	if err != nil {
		return err
	}
	if na.NonZero() == len(na) {
		return nil
	}
	remap := make([]uint32, len(na))
	cm, err := NewColormap(p.cmap.depth)
	if err != nil {
		return err
	}
	for i, n := range na {
		if n == 0 {
			continue
		}
		remap[i] = uint32(cm.Count())
		cm.colors = append(cm.colors, p.cmap.colors[i])
	}
	for y := 0; y < p.h; y += 1 {
		line := p.Line(y)
		for x := 0; x < p.w; x += 1 {
			setValue(line, x, p.d, remap[getValue(line, x, p.d)])
		}
	}
	p.cmap = cm
	return nil
}
