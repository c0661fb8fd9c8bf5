package pix

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// ScaleBySampling subsamples (or replicates) pixels by nearest neighbour.
// Scale factors below 1 shrink the image. Pixel values, including the fourth
// byte of 32 bpp words, are copied whole and never blended. The colormap, if
// any, is kept.
func (p *Pix) ScaleBySampling(sx, sy float64) (*Pix, error) {
	if sx <= 0 || sy <= 0 {
		return nil, fmt.Errorf("pix: invalid scale factors %v, %v", sx, sy)
	}
	if sx == 1 && sy == 1 {
		return p.Copy(), nil
	}
	w := int(float64(p.w)*sx + 0.5)
	h := int(float64(p.h)*sy + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	out, err := New(w, h, p.d)
	if err != nil {
		return nil, err
	}
	for y := 0; y < h; y += 1 {
		ys := int((float64(y) + 0.5) * float64(p.h) / float64(h))
		src := p.Line(ys)
		dst := out.Line(y)
		for x := 0; x < w; x += 1 {
			xs := int((float64(x) + 0.5) * float64(p.w) / float64(w))
			setValue(dst, x, p.d, getValue(src, xs, p.d))
		}
	}
	if p.cmap != nil {
		out.cmap = p.cmap.Copy()
	}
	return out, nil
}

// ScaleToSize resamples a 32 bpp image to w x h with the given interpolator.
// Only the color channels take part; the result is opaque.
func (p *Pix) ScaleToSize(w, h int, interp draw.Interpolator) (*Pix, error) {
	if p.d != 32 {
		return nil, fmt.Errorf("pix: %w: ScaleToSize needs 32 bpp, have %d", ErrInvalidDepth, p.d)
	}
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("pix: invalid size %dx%d", w, h)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	interp.Scale(dst, dst.Rect, opaque{p}, p.Bounds(), draw.Src, nil)
	return FromImage(dst)
}

// opaque reads a 32 bpp image as RGB, ignoring the fourth byte of each word
type opaque struct {
	*Pix
}

func (o opaque) ColorModel() color.Model {
	return color.RGBAModel
}

func (o opaque) At(x, y int) color.Color {
	r, g, b := ExtractRGB(o.Pixel(x, y))
	return color.RGBA{r, g, b, 0xff}
}
