// Package octreequant reduces 32 bpp RGB images to 8 bpp colormapped images.
//
// The main quantizer, OctreeColorQuant, builds a six level octree over a
// subsample of the image, prunes it from the bottom up handing colormap
// entries to popular cubes, and then classifies every pixel of the full image
// against the pruned tree, optionally with error diffusion dithering.
//
// Simpler siblings share the same octcube indexing and dithering:
// FixedOctcubeQuant256 uses a static 3-3-2 bit palette, OctreeQuantByPopulation
// gives entries to the most populated cubes at one level and bins the rest at
// level 2, FixedOctcubeQuantCmap keeps one entry per occupied cube, and
// OctcubeQuantFromCmap remaps onto an existing colormap through a lookup
// table.
//
// This code started from the pointer based octree quantizer by delthas
// (https://github.com/delthas/octreequant) used for sixel encoding.
package octreequant

import (
	"fmt"

	"git.sr.ht/~rockorager/octquant/log"
	"git.sr.ht/~rockorager/octquant/pix"
)

// OctreeColorQuant quantizes a 32 bpp image to at most colors entries, with
// colors in [128, 256], using the reference tuning
func OctreeColorQuant(p *pix.Pix, colors int, dither bool) (*pix.Pix, error) {
	return OctreeColorQuantGeneral(p, colors, dither, DefaultOptions())
}

// OctreeColorQuantGeneral is OctreeColorQuant with explicit tuning. The
// returned image is 8 bpp with a colormap holding only the entries that are
// actually used.
func OctreeColorQuantGeneral(p *pix.Pix, colors int, dither bool, opts Options) (*pix.Pix, error) {
	if err := check32(p); err != nil {
		return nil, err
	}
	if colors < MinColors || colors > MaxColors {
		return nil, fmt.Errorf("octreequant: %w: %d not in [%d,%d]", ErrColorsRange, colors, MinColors, MaxColors)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	sample, err := subsample(p, opts)
	if err != nil {
		return nil, err
	}
	t, err := generateAndPrune(sample, colors, opts)
	if err != nil {
		return nil, err
	}
	if err := t.checkCoverage(); err != nil {
		return nil, err
	}
	w, h, _ := p.Dimensions()
	out, err := pix.New(w, h, 8)
	if err != nil {
		return nil, err
	}
	classifyImage(p, out, t, dither)
	if err := out.SetColormap(t.cmap); err != nil {
		return nil, err
	}
	generated := t.cmap.Count()
	if err := out.RemoveUnusedColors(); err != nil {
		return nil, err
	}
	log.Debug("octree color quant %dx%d: %d entries generated, %d used", w, h, generated, out.Colormap().Count())
	return out, nil
}

// subsample shrinks the image for the statistics pass
func subsample(p *pix.Pix, opts Options) (*pix.Pix, error) {
	w := p.Width()
	var scale float64
	switch {
	case opts.Subsample > 1:
		scale = 1 / float64(opts.Subsample)
	case opts.Subsample == 1:
		return p, nil
	case w > opts.TreeGenWidth:
		scale = float64(opts.TreeGenWidth) / float64(w)
	default:
		return p, nil
	}
	log.Debug("subsampling %dx%d by %.3f for octree statistics", w, p.Height(), scale)
	return p.ScaleBySampling(scale, scale)
}

func check32(p *pix.Pix) error {
	if p == nil {
		return fmt.Errorf("octreequant: %w: nil image", ErrNot32bpp)
	}
	if d := p.Depth(); d != 32 {
		return fmt.Errorf("octreequant: %w: depth %d", ErrNot32bpp, d)
	}
	return nil
}
