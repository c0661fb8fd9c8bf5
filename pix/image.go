package pix

import (
	"fmt"
	"image"
	"image/color"
)

// Pix implements image.Image so it can be handed directly to encoders and to
// golang.org/x/image/draw

func (p *Pix) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.w, p.h)
}

func (p *Pix) ColorModel() color.Model {
	switch {
	case p.cmap != nil:
		return p.cmap.Palette()
	case p.d == 32:
		return color.NRGBAModel
	case p.d == 16:
		return color.Gray16Model
	default:
		return color.GrayModel
	}
}

func (p *Pix) At(x, y int) color.Color {
	v := p.Pixel(x, y)
	switch {
	case p.cmap != nil:
		if int(v) >= p.cmap.Count() {
			return color.NRGBA{}
		}
		c := p.cmap.colors[v]
		return color.NRGBA{c.R, c.G, c.B, c.A}
	case p.d == 32:
		return color.NRGBA{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}
	case p.d == 16:
		return color.Gray16{uint16(v)}
	case p.d == 8:
		return color.Gray{uint8(v)}
	case p.d == 1:
		// set bits are foreground
		if v == 1 {
			return color.Gray{0}
		}
		return color.Gray{0xff}
	default:
		max := uint32(1)<<uint(p.d) - 1
		return color.Gray{uint8(v * 255 / max)}
	}
}

// FromImage converts any image to a 32 bpp Pix. Images whose bounds do not
// start at the origin are translated.
func FromImage(img image.Image) (*Pix, error) {
	b := img.Bounds()
	p, err := New(b.Dx(), b.Dy(), 32)
	if err != nil {
		return nil, err
	}
	switch src := img.(type) {
	case *Pix:
		if src.d == 32 {
			return src.Copy(), nil
		}
	case *image.NRGBA:
		for y := 0; y < p.h; y += 1 {
			line := p.Line(y)
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < p.w; x += 1 {
				s := src.Pix[off+4*x : off+4*x+4]
				line[x] = ComposeRGBA(s[0], s[1], s[2], s[3])
			}
		}
		return p, nil
	case *image.RGBA:
		for y := 0; y < p.h; y += 1 {
			line := p.Line(y)
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < p.w; x += 1 {
				s := src.Pix[off+4*x : off+4*x+4]
				if s[3] == 0xff {
					line[x] = ComposeRGBA(s[0], s[1], s[2], 0xff)
					continue
				}
				c := color.NRGBAModel.Convert(color.RGBA{s[0], s[1], s[2], s[3]}).(color.NRGBA)
				line[x] = ComposeRGBA(c.R, c.G, c.B, c.A)
			}
		}
		return p, nil
	}
	for y := 0; y < p.h; y += 1 {
		line := p.Line(y)
		for x := 0; x < p.w; x += 1 {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			line[x] = ComposeRGBA(c.R, c.G, c.B, c.A)
		}
	}
	return p, nil
}

// FromPaletted converts a paletted image to an 8 bpp Pix with a colormap
func FromPaletted(img *image.Paletted) (*Pix, error) {
	cm, err := ColormapFromPalette(img.Palette)
	if err != nil {
		return nil, err
	}
	// indices are stored in bytes regardless of palette size
	cm.depth = 8
	b := img.Bounds()
	p, err := New(b.Dx(), b.Dy(), 8)
	if err != nil {
		return nil, err
	}
	for y := 0; y < p.h; y += 1 {
		line := p.Line(y)
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < p.w; x += 1 {
			SetLineByte(line, x, img.Pix[off+x])
		}
	}
	p.cmap = cm
	return p, nil
}

// Paletted converts a colormapped image to an *image.Paletted, suitable for
// gif and sixel encoders
func (p *Pix) Paletted() (*image.Paletted, error) {
	if p.cmap == nil {
		return nil, fmt.Errorf("pix: %w", ErrNoColormap)
	}
	out := image.NewPaletted(p.Bounds(), p.cmap.Palette())
	for y := 0; y < p.h; y += 1 {
		line := p.Line(y)
		row := out.Pix[y*out.Stride : y*out.Stride+p.w]
		if p.d == 8 {
			for x := range row {
				row[x] = LineByte(line, x)
			}
			continue
		}
		for x := range row {
			row[x] = uint8(getValue(line, x, p.d))
		}
	}
	return out, nil
}

// ToRGB returns a 32 bpp version of the image. Colormapped images are
// expanded through their colormap, gray images are replicated across the
// channels. A 32 bpp image is copied.
func (p *Pix) ToRGB() (*Pix, error) {
	if p.d == 32 {
		return p.Copy(), nil
	}
	if p.cmap == nil && p.d != 8 {
		return FromImage(p)
	}
	out, err := New(p.w, p.h, 32)
	if err != nil {
		return nil, err
	}
	for y := 0; y < p.h; y += 1 {
		src := p.Line(y)
		dst := out.Line(y)
		for x := 0; x < p.w; x += 1 {
			v := getValue(src, x, p.d)
			if p.cmap == nil {
				g := uint8(v)
				dst[x] = ComposeRGB(g, g, g)
				continue
			}
			if int(v) >= p.cmap.Count() {
				return nil, fmt.Errorf("pix: %w: pixel value %d at (%d,%d)", ErrIndexRange, v, x, y)
			}
			c := p.cmap.colors[v]
			dst[x] = ComposeRGBA(c.R, c.G, c.B, c.A)
		}
	}
	return out, nil
}

// ColorIndexAt satisfies image.PalettedImage for colormapped images. It is
// only meaningful when a colormap is attached.
func (p *Pix) ColorIndexAt(x, y int) uint8 {
	return uint8(p.Pixel(x, y))
}
