package octreequant

import (
	"fmt"
)

const (
	// MinColors and MaxColors bound the palette size of the adaptive
	// octree quantizer
	MinColors = 128
	MaxColors = 256

	// shallowest level that is pruned. Every level-2 cube ends up a leaf.
	pruneLevel = 2
)

// Options tune the adaptive octree quantizer. The zero value is not valid;
// start from DefaultOptions.
type Options struct {
	// Thresholds[level] scales the pixels-per-color budget a child of a
	// level cube must reach to get its own color. Levels 2 through
	// MaxLevel-1 are used. Lower values hand out colors to smaller, deeper
	// cubes and spend the palette faster.
	Thresholds [MaxLevel]float64
	// ReservedColors are held back from the adaptive budget for the
	// residual colors of the 64 level-2 cubes.
	ReservedColors int
	// ExtraReservedColors are held back to avoid running out of palette
	// entries for residual cubes at deeper levels.
	ExtraReservedColors int
	// TreeGenWidth is the width the image is subsampled to for the
	// statistics pass. Images narrower than this are not subsampled.
	TreeGenWidth int
	// Subsample, when positive, overrides TreeGenWidth with a fixed linear
	// sampling factor: one pixel out of Subsample in each direction.
	Subsample int
}

// DefaultOptions returns the reference tuning
func DefaultOptions() Options {
	return Options{
		Thresholds:          [MaxLevel]float64{0, 0, 1.0, 1.0, 1.0, 0.01},
		ReservedColors:      64,
		ExtraReservedColors: 25,
		TreeGenWidth:        350,
	}
}

func (o Options) validate() error {
	for level := pruneLevel; level < MaxLevel; level += 1 {
		if o.Thresholds[level] <= 0 {
			return fmt.Errorf("octreequant: %w: threshold at level %d is %v", ErrOptions, level, o.Thresholds[level])
		}
	}
	if o.ReservedColors < 0 || o.ExtraReservedColors < 0 {
		return fmt.Errorf("octreequant: %w: negative reserved colors", ErrOptions)
	}
	if o.TreeGenWidth <= 0 && o.Subsample <= 0 {
		return fmt.Errorf("octreequant: %w: no sampling width", ErrOptions)
	}
	return nil
}

// budget is the number of colors handed out by popularity before residual
// cubes take the rest
func (o Options) budget(colors int) int {
	n := colors - o.ReservedColors - o.ExtraReservedColors
	if n < 1 {
		n = 1
	}
	return n
}
