// SPDX-License-Identifier: MIT

// Package matrix - sub-matrix assembly for determinant expansions.
//
// Purpose:
//   - Build the working matrices of a Wick expansion from larger contraction
//     matrices: triangular splicing, per-column source selection, copy-on-write
//     column substitution and row/column removal.
//   - Every helper returns a fresh matrix; inputs are never mutated, so one
//     base matrix can feed any number of substitutions.

package matrix

import "fmt"

const (
	opLowerUpper = "LowerUpper"
	opMix        = "MixColumns"
	opWithCol    = "WithColumn"
	opWithout    = "Without"
)

// LowerUpper returns tril(lower) + triu(upper, 1): entries on and below the
// diagonal come from lower, strictly-upper entries from upper.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrNonSquare.
//
// Complexity: O(n²).
func LowerUpper[T Scalar](lower, upper *Dense[T]) (*Dense[T], error) {
	if err := ValidateBinarySameShape(lower, upper); err != nil {
		return nil, matrixErrorf(opLowerUpper, err)
	}
	if lower.r != lower.c {
		return nil, matrixErrorf(opLowerUpper, ErrNonSquare)
	}
	n := lower.r
	res := Zeros[T](n, n)
	var i, j int
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if j <= i {
				res.data[i*n+j] = lower.data[i*n+j]
			} else {
				res.data[i*n+j] = upper.data[i*n+j]
			}
		}
	}

	return res, nil
}

// MixColumns returns base·diag(1-sel) + alt·diag(sel): column j is copied from
// alt when sel[j] == 1 and from base otherwise.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (shapes differ or len(sel) != cols).
//
// Complexity: O(r*c).
func MixColumns[T Scalar](base, alt *Dense[T], sel []int) (*Dense[T], error) {
	if err := ValidateBinarySameShape(base, alt); err != nil {
		return nil, matrixErrorf(opMix, err)
	}
	if len(sel) != base.c {
		return nil, matrixErrorf(opMix, ErrDimensionMismatch)
	}
	res := base.Clone()
	for j, s := range sel {
		if s == 0 {
			continue
		}
		for i := 0; i < base.r; i++ {
			res.data[i*base.c+j] = alt.data[i*base.c+j]
		}
	}

	return res, nil
}

// WithColumn returns a copy of m whose column j is replaced by col.
//
// Errors:
//   - ErrNilMatrix, ErrOutOfRange (bad j), ErrDimensionMismatch (len(col) != rows).
//
// Complexity: O(r*c).
func WithColumn[T Scalar](m *Dense[T], j int, col []T) (*Dense[T], error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opWithCol, err)
	}
	if j < 0 || j >= m.c {
		return nil, fmt.Errorf("%s: column %d: %w", opWithCol, j, ErrOutOfRange)
	}
	if len(col) != m.r {
		return nil, matrixErrorf(opWithCol, ErrDimensionMismatch)
	}
	res := m.Clone()
	for i, v := range col {
		res.data[i*m.c+j] = v
	}

	return res, nil
}

// WithUnitColumn returns a copy of m whose column j is the unit vector e_l.
// det(WithUnitColumn(m, j, l)) is the (l, j) cofactor of m.
//
// Errors:
//   - ErrNilMatrix, ErrOutOfRange.
//
// Complexity: O(r*c).
func WithUnitColumn[T Scalar](m *Dense[T], j, l int) (*Dense[T], error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opWithCol, err)
	}
	if j < 0 || j >= m.c || l < 0 || l >= m.r {
		return nil, fmt.Errorf("%s: unit (%d,%d): %w", opWithCol, l, j, ErrOutOfRange)
	}
	res := m.Clone()
	for i := 0; i < m.r; i++ {
		res.data[i*m.c+j] = 0
	}
	res.data[l*m.c+j] = 1

	return res, nil
}

// Without returns m with row i and column j removed.
//
// Errors:
//   - ErrNilMatrix, ErrOutOfRange.
//
// Complexity: O(r*c).
func Without[T Scalar](m *Dense[T], i, j int) (*Dense[T], error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opWithout, err)
	}
	if i < 0 || i >= m.r || j < 0 || j >= m.c {
		return nil, fmt.Errorf("%s: (%d,%d): %w", opWithout, i, j, ErrOutOfRange)
	}
	res := Zeros[T](m.r-1, m.c-1)
	var r, c, dst int
	for r = 0; r < m.r; r++ {
		if r == i {
			continue
		}
		for c = 0; c < m.c; c++ {
			if c == j {
				continue
			}
			res.data[dst] = m.data[r*m.c+c]
			dst++
		}
	}

	return res, nil
}
