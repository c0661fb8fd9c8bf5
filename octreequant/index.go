package octreequant

import (
	"fmt"
)

// MaxLevel is the deepest octree level. A level-6 octcube is 4 values wide
// in each channel.
const MaxLevel = 6

// CubeCount returns the number of octcubes at a level, 8^level
func CubeCount(level int) int {
	return 1 << (3 * uint(level))
}

// IndexTables turn 8-bit channel values into octcube indices at one level.
// The index of (r, g, b) is R[r] | G[g] | B[b]: the top Level bits of each
// channel, interleaved red-green-blue from the most significant bit down.
type IndexTables struct {
	Level int
	R     [256]uint32
	G     [256]uint32
	B     [256]uint32
}

// MakeRGBToIndexTables builds the channel tables for a level in [1, 6]
func MakeRGBToIndexTables(level int) (*IndexTables, error) {
	if level < 1 || level > MaxLevel {
		return nil, fmt.Errorf("octreequant: %w: %d not in [1,%d]", ErrLevelRange, level, MaxLevel)
	}
	t := &IndexTables{Level: level}
	for v := 0; v < 256; v += 1 {
		var r, g, b uint32
		for k := 0; k < level; k += 1 {
			bit := uint32(v>>uint(7-k)) & 1
			pos := uint(3 * (level - 1 - k))
			r |= bit << (pos + 2)
			g |= bit << (pos + 1)
			b |= bit << pos
		}
		t.R[v] = r
		t.G[v] = g
		t.B[v] = b
	}
	return t, nil
}

// Index returns the octcube index of a color
func (t *IndexTables) Index(r, g, b uint8) uint32 {
	return t.R[r] | t.G[g] | t.B[b]
}

// RGBFromOctcube returns the color at the center of an octcube. The index
// supplies the top level bits of each channel; the bit just below them is
// set, which puts the color in the middle of the cube's range. Level 0 is
// the whole color cube.
func RGBFromOctcube(index uint32, level int) (r, g, b uint8) {
	var rv, gv, bv uint32
	for k := 0; k < level; k += 1 {
		pos := uint(3 * (level - 1 - k))
		rv |= (index >> (pos + 2) & 1) << uint(7-k)
		gv |= (index >> (pos + 1) & 1) << uint(7-k)
		bv |= (index >> pos & 1) << uint(7-k)
	}
	if level < 8 {
		center := uint32(1) << uint(7-level)
		rv |= center
		gv |= center
		bv |= center
	}
	return uint8(rv), uint8(gv), uint8(bv)
}

// OctcubeIndices splits a MaxLevel index into its ancestor at level and the
// ancestor one level below, which is the child of base containing the color
func OctcubeIndices(index uint32, level int) (base uint32, sub uint32, err error) {
	if level < 0 || level > MaxLevel-1 {
		return 0, 0, fmt.Errorf("octreequant: %w: split level %d not in [0,%d]", ErrLevelRange, level, MaxLevel-1)
	}
	base, sub = splitIndex(index, level)
	return base, sub, nil
}

func splitIndex(index uint32, level int) (base, sub uint32) {
	return index >> (3 * uint(MaxLevel-level)), index >> (3 * uint(MaxLevel-1-level))
}

// ParentIndex truncates an index at level to its ancestor at the shallower
// level parent
func ParentIndex(index uint32, level int, parent int) uint32 {
	return index >> (3 * uint(level-parent))
}
