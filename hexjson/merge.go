package hexjson

import (
	h3 "github.com/uber/h3-go/v4"
)

// MergeCells concatenates cell sets and removes duplicates, keeping the
// first occurrence of each cell. The input slices are never modified.
func MergeCells(sets ...[]h3.Cell) []h3.Cell {
	var n int
	for _, cells := range sets {
		n += len(cells)
	}

	res := make([]h3.Cell, 0, n)
	seen := make(map[h3.Cell]struct{}, n)
	for _, cells := range sets {
		for _, cell := range cells {
			if _, ok := seen[cell]; ok {
				continue
			}
			seen[cell] = struct{}{}
			res = append(res, cell)
		}
	}
	return res
}
