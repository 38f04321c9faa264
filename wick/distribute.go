// SPDX-License-Identifier: MIT

package wick

import "gonum.org/v1/gonum/stat/combin"

// distributions lists every way to place k order-1 factors on n slots as
// 0/1 selectors of length n. Each placement appears once; the list is ordered
// lexicographically by the positions of the ones, so [1,1,0] precedes [1,0,1]
// precedes [0,1,1]. k = 0 yields the single all-zero selector, k > n none.
func distributions(n, k int) [][]int {
	if k < 0 || n < 0 || k > n {
		return nil
	}
	subsets := combin.Combinations(n, k)
	out := make([][]int, len(subsets))
	for i, pos := range subsets {
		sel := make([]int, n)
		for _, p := range pos {
			sel[p] = 1
		}
		out[i] = sel
	}

	return out
}
