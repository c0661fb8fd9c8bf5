// Package pix provides the raster image container used by the quantizers.
//
// A Pix stores pixels packed into 32-bit words, row-major, with every row
// padded to a whole number of words. Depths of 1, 2, 4, 8, 16 and 32 bits are
// supported. Sub-word pixels are packed most significant bits first. A 32 bpp
// pixel is laid out as 0xRRGGBBAA.
//
// Images of depth 8 or less may carry a Colormap, in which case pixel values
// are indices into it.
package pix

import (
	"fmt"
)

// Pix is a raster image. The zero value is not usable; create one with New.
//
// A *Pix is a shared handle: copying the pointer shares the pixel buffer and
// every alias observes mutations made through any other. Use Copy for an
// independent image.
type Pix struct {
	w    int
	h    int
	d    int
	wpl  int
	data []uint32
	cmap *Colormap
}

// New allocates a w x h image of the given depth with all pixels zero
func New(w int, h int, depth int) (*Pix, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("pix: invalid size %dx%d", w, h)
	}
	if !validDepth(depth) {
		return nil, fmt.Errorf("pix: %w: %d", ErrInvalidDepth, depth)
	}
	wpl := (w*depth + 31) / 32
	return &Pix{
		w:    w,
		h:    h,
		d:    depth,
		wpl:  wpl,
		data: make([]uint32, wpl*h),
	}, nil
}

func validDepth(d int) bool {
	switch d {
	case 1, 2, 4, 8, 16, 32:
		return true
	}
	return false
}

// Dimensions returns the width, height and depth of the image
func (p *Pix) Dimensions() (w int, h int, d int) {
	return p.w, p.h, p.d
}

func (p *Pix) Width() int  { return p.w }
func (p *Pix) Height() int { return p.h }
func (p *Pix) Depth() int  { return p.d }

// WPL is the number of 32-bit words in each raster line
func (p *Pix) WPL() int { return p.wpl }

// Data exposes the raw pixel words
func (p *Pix) Data() []uint32 { return p.data }

// Line returns the words of raster line y
func (p *Pix) Line(y int) []uint32 {
	return p.data[y*p.wpl : (y+1)*p.wpl]
}

// Colormap returns the attached colormap, or nil
func (p *Pix) Colormap() *Colormap { return p.cmap }

// SetColormap attaches cm to the image, replacing any existing colormap.
// Passing nil removes the colormap. Attaching fails when the image is deeper
// than 8 bpp, when cm was created for a smaller depth than the image, or when
// cm holds more colors than the image depth can index.
func (p *Pix) SetColormap(cm *Colormap) error {
	if cm == nil {
		p.cmap = nil
		return nil
	}
	if p.d > 8 {
		return fmt.Errorf("pix: %w: colormap on %d bpp image", ErrColormapDepth, p.d)
	}
	if cm.Depth() < p.d {
		return fmt.Errorf("pix: %w: cmap depth %d < pix depth %d", ErrColormapDepth, cm.Depth(), p.d)
	}
	if cm.Count() > 1<<p.d {
		return fmt.Errorf("pix: %w: %d colors for %d bpp", ErrColormapDepth, cm.Count(), p.d)
	}
	p.cmap = cm
	return nil
}

// Copy returns a deep copy of the image and its colormap
func (p *Pix) Copy() *Pix {
	c := &Pix{
		w:    p.w,
		h:    p.h,
		d:    p.d,
		wpl:  p.wpl,
		data: make([]uint32, len(p.data)),
	}
	copy(c.data, p.data)
	if p.cmap != nil {
		c.cmap = p.cmap.Copy()
	}
	return c
}

// SameSize reports whether p and q have identical width and height
func (p *Pix) SameSize(q *Pix) bool {
	return p.w == q.w && p.h == q.h
}

// Pixel returns the value at (x, y). Out of range coordinates return 0.
func (p *Pix) Pixel(x int, y int) uint32 {
	if x < 0 || y < 0 || x >= p.w || y >= p.h {
		return 0
	}
	return getValue(p.Line(y), x, p.d)
}

// SetPixel sets the value at (x, y), masked to the image depth. Out of range
// coordinates are ignored.
func (p *Pix) SetPixel(x int, y int, v uint32) {
	if x < 0 || y < 0 || x >= p.w || y >= p.h {
		return
	}
	setValue(p.Line(y), x, p.d, v)
}

// SetAll sets every pixel to v
func (p *Pix) SetAll(v uint32) {
	for y := 0; y < p.h; y += 1 {
		line := p.Line(y)
		for x := 0; x < p.w; x += 1 {
			setValue(line, x, p.d, v)
		}
	}
}

func getValue(line []uint32, x int, d int) uint32 {
	if d == 32 {
		return line[x]
	}
	per := 32 / d
	shift := uint(32 - d*(x%per+1))
	return (line[x/per] >> shift) & (1<<uint(d) - 1)
}

func setValue(line []uint32, x int, d int, v uint32) {
	if d == 32 {
		line[x] = v
		return
	}
	per := 32 / d
	shift := uint(32 - d*(x%per+1))
	mask := uint32(1<<uint(d)-1) << shift
	i := x / per
	line[i] = line[i]&^mask | (v<<shift)&mask
}

// LineByte returns the 8 bpp value at x of a raster line
func LineByte(line []uint32, x int) uint8 {
	return uint8(line[x>>2] >> (8 * uint(3-x&3)))
}

// SetLineByte sets the 8 bpp value at x of a raster line
func SetLineByte(line []uint32, x int, v uint8) {
	shift := 8 * uint(3-x&3)
	line[x>>2] = line[x>>2]&^(0xff<<shift) | uint32(v)<<shift
}

// ComposeRGB packs a color into a 32 bpp pixel with full alpha
func ComposeRGB(r, g, b uint8) uint32 {
	return uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | 0xff
}

// ComposeRGBA packs a color with alpha into a 32 bpp pixel
func ComposeRGBA(r, g, b, a uint8) uint32 {
	return uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a)
}

// ExtractRGB unpacks the color channels of a 32 bpp pixel
func ExtractRGB(v uint32) (r, g, b uint8) {
	return uint8(v >> 24), uint8(v >> 16), uint8(v >> 8)
}

