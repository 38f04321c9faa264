// SPDX-License-Identifier: MIT

// Package ops provides factorizations on top of the gnme/matrix package.
package ops

import (
	"fmt"

	"github.com/katalvlaran/gnme/matrix"
)

// LU performs Doolittle LU decomposition with partial pivoting on a square matrix m,
// returning L (unit lower triangular), U (upper triangular) and the row permutation
// perm such that row i of L·U equals row perm[i] of m.
//
// Implementation:
//   - Stage 1: validate m is square.
//   - Stage 2: eliminate column by column on a working copy; the pivot is the
//     entry of largest magnitude in the column, so the method is stable for
//     complex inputs as well.
//   - Stage 3: split the compact factor into L and U.
//
// Behavior highlights:
//   - A column without a nonzero pivot is skipped (U gets a zero diagonal);
//     the factorization of a singular matrix still succeeds.
//   - The 0×0 matrix factors into two empty matrices.
//
// Errors: matrix.ErrNilMatrix, matrix.ErrNonSquare.
// Time Complexity: O(n³); Memory: O(n²) for L and U.
func LU[T matrix.Scalar](m *matrix.Dense[T]) (*matrix.Dense[T], *matrix.Dense[T], []int, error) {
	// Stage 1: Validate input is square
	if err := matrix.ValidateSquare(m); err != nil {
		return nil, nil, nil, fmt.Errorf("LU: %w", err)
	}

	// Stage 2: Execute decomposition
	a, perm, _ := factor(m)
	n := m.Rows()

	// Stage 3: Finalize L and U
	L := matrix.Identity[T](n)
	U := matrix.Zeros[T](n, n)
	ld, ud, ad := L.Data(), U.Data(), a.Data()
	var i, j int
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if j < i {
				ld[i*n+j] = ad[i*n+j]
			} else {
				ud[i*n+j] = ad[i*n+j]
			}
		}
	}

	return L, U, perm, nil
}

// Det returns the determinant of a square matrix via pivoted LU.
// The empty 0×0 matrix has determinant 1; a zero pivot yields exactly 0.
//
// Errors: matrix.ErrNilMatrix, matrix.ErrNonSquare.
// Time Complexity: O(n³); Memory: O(n²).
func Det[T matrix.Scalar](m *matrix.Dense[T]) (T, error) {
	var zero T
	if err := matrix.ValidateSquare(m); err != nil {
		return zero, fmt.Errorf("Det: %w", err)
	}
	n := m.Rows()
	// Small orders in closed form; these dominate Wick expansions.
	d := m.Data()
	switch n {
	case 0:
		return 1, nil
	case 1:
		return d[0], nil
	case 2:
		return d[0]*d[3] - d[1]*d[2], nil
	}

	a, _, sign := factor(m)
	if sign == 0 {
		return zero, nil
	}
	ad := a.Data()
	det := T(1)
	for i := 0; i < n; i++ {
		det *= ad[i*n+i]
	}
	if sign < 0 {
		det = -det
	}

	return det, nil
}

// factor computes the compact in-place LU of a copy of m.
// sign is +1/-1 for the permutation parity, or 0 when a zero pivot was met.
func factor[T matrix.Scalar](m *matrix.Dense[T]) (*matrix.Dense[T], []int, int) {
	n := m.Rows()
	a := m.Clone()
	ad := a.Data()
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sign := 1
	var (
		i, j, k, p int
		best, mag  float64
		pivot, l   T
	)
	for k = 0; k < n; k++ {
		// pick the pivot row
		p, best = k, matrix.Abs(ad[k*n+k])
		for i = k + 1; i < n; i++ {
			if mag = matrix.Abs(ad[i*n+k]); mag > best {
				p, best = i, mag
			}
		}
		if best == 0 {
			sign = 0
			continue
		}
		if p != k {
			for j = 0; j < n; j++ {
				ad[k*n+j], ad[p*n+j] = ad[p*n+j], ad[k*n+j]
			}
			perm[k], perm[p] = perm[p], perm[k]
			if sign != 0 {
				sign = -sign
			}
		}
		pivot = ad[k*n+k]
		for i = k + 1; i < n; i++ {
			l = ad[i*n+k] / pivot
			ad[i*n+k] = l
			if l == 0 {
				continue
			}
			for j = k + 1; j < n; j++ {
				ad[i*n+j] -= l * ad[k*n+j]
			}
		}
	}

	return a, perm, sign
}
