package pix

import (
	"sort"
)

// Numa is a counter array: a histogram or a list of labelled values where the
// label is the slice index
type Numa []float64

// NewNuma returns a zeroed array of n counters
func NewNuma(n int) Numa {
	return make(Numa, n)
}

// Sum returns the total of all counters
func (na Numa) Sum() float64 {
	var s float64
	for _, v := range na {
		s += v
	}
	return s
}

// Max returns the largest value and its index. An empty array returns
// index -1.
func (na Numa) Max() (float64, int) {
	if len(na) == 0 {
		return 0, -1
	}
	max, imax := na[0], 0
	for i, v := range na[1:] {
		if v > max {
			max, imax = v, i+1
		}
	}
	return max, imax
}

// SortIndex returns the indices of na ordered by value. Equal values keep
// their original order.
func (na Numa) SortIndex(descending bool) []int {
	idx := make([]int, len(na))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if descending {
			return na[idx[a]] > na[idx[b]]
		}
		return na[idx[a]] < na[idx[b]]
	})
	return idx
}

// NonZero counts the counters holding a non-zero value
func (na Numa) NonZero() int {
	n := 0
	for _, v := range na {
		if v != 0 {
			n += 1
		}
	}
	return n
}
