package octreequant

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"git.sr.ht/~rockorager/octquant/log"
	"git.sr.ht/~rockorager/octquant/pix"
)

// Quantizer adapts the octree quantizers to image/draw.Quantizer, so it can
// be plugged into image/gif and similar encoders
type Quantizer struct {
	// Dither enables error diffusion in Paletted
	Dither bool
	// Options tune the adaptive quantizer. Nil uses DefaultOptions.
	Options *Options
}

// Quantize appends up to cap(p)-len(p) colors chosen for m to p. With room
// for at least 128 colors the adaptive octree is used; with less, octcubes
// are coarsened until every occupied cube fits. Images that cannot be
// reduced to the available room leave p unchanged.
func (q Quantizer) Quantize(p color.Palette, m image.Image) color.Palette {
	room := cap(p) - len(p)
	if room > MaxColors {
		room = MaxColors
	}
	quantized, err := q.quantize(m, room, false)
	if err != nil {
		log.Error("quantize: %v", err)
		return p
	}
	return append(p, quantized.Colormap().Palette()...)
}

// Paletted quantizes an image to at most colors entries
func (q Quantizer) Paletted(img image.Image, colors int) (*image.Paletted, error) {
	quantized, err := q.quantize(img, colors, q.Dither)
	if err != nil {
		return nil, err
	}
	return quantized.Paletted()
}

func (q Quantizer) quantize(img image.Image, colors int, dither bool) (*pix.Pix, error) {
	p, err := pix.FromImage(img)
	if err != nil {
		return nil, err
	}
	if colors >= MinColors {
		if colors > MaxColors {
			colors = MaxColors
		}
		opts := DefaultOptions()
		if q.Options != nil {
			opts = *q.Options
		}
		return OctreeColorQuantGeneral(p, colors, dither, opts)
	}
	return fewColors(p, colors)
}

// fewColors tries successively coarser octcube levels until the occupied
// cubes fit in ncolors
func fewColors(p *pix.Pix, ncolors int) (*pix.Pix, error) {
	for level := MaxLevel; level >= 1; level -= 1 {
		out, err := FixedOctcubeQuantCmap(p, level)
		if errors.Is(err, ErrTooManyColors) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if out.Colormap().Count() <= ncolors {
			return out, nil
		}
	}
	return nil, fmt.Errorf("octreequant: %w: no level fits %d colors", ErrTooManyColors, ncolors)
}

// Paletted quantizes an image and returns a paletted image, with
// a palette up to the specified color count.
func Paletted(img image.Image, colors int) (*image.Paletted, error) {
	return Quantizer{}.Paletted(img, colors)
}
