// SPDX-License-Identifier: MIT

// Package matrix - Dense storage (row-major) & safe accessors.
//
// Purpose:
//   - Provide a cache-friendly row-major buffer with the explicit index formula i*cols + j.
//   - Guarantee safety at the public surface: At/Set return errors instead of panicking.
//   - Keep algorithmic determinism (fixed loop orders, no map iteration).
//   - Allow empty (0×n, n×0, 0×0) shapes: an empty excitation block is a legal 0×0 determinant.
//
// Complexity quicksheet:
//   - NewDense: O(r*c) zero-init; At/Set: O(1); Clone: O(r*c); Induced: O(r'*c').

package matrix

import (
	"fmt"
	"strings"
)

// ---------- error context tags ----------

const (
	ctxAt     = "At"      // method tag used in error wrappers
	ctxSet    = "Set"     // method tag used in error wrappers
	ctxInduce = "Induced" // ctor/tag for Induced
	ctxFrom   = "FromRows"
)

// ---------- Formatting literals  ----------
const (
	_fmtRowOpen  = "["
	_fmtRowClose = "]\n"
	_fmtSep      = ", "
)

// denseErrorf wraps an error with a uniform Dense context and callsite indices.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a concrete row-major matrix over a Scalar element type.
//   - r,c hold dimensions (rows, cols).
//   - data is a flat buffer of length r*c in row-major order (offset = i*c + j).
type Dense[T Scalar] struct {
	r, c int // row and column counts (>=0)
	data []T // contiguous row-major storage (len == r*c)
}

// Compile-time assertion for fmt.Stringer conformance.
var (
	_ fmt.Stringer = (*Dense[float64])(nil)
	_ fmt.Stringer = (*Dense[complex128])(nil)
)

// NewDense creates an r×c zero matrix using row-major storage.
//
// Implementation:
//   - Stage 1: validate rows>=0 && cols>=0; else ErrInvalidDimensions.
//   - Stage 2: allocate zero-filled buffer.
//
// Behavior highlights:
//   - No panics on user errors; returns sentinel errors.
//   - Zero-area shapes are legal and yield an empty buffer.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NewDense[T Scalar](rows, cols int) (*Dense[T], error) {
	// Validate shape.
	if rows < 0 || cols < 0 {
		return nil, ErrInvalidDimensions
	}

	return &Dense[T]{r: rows, c: cols, data: make([]T, rows*cols)}, nil
}

// Zeros is NewDense for callers that already guarantee a valid shape
// (internal kernels whose dimensions come from existing matrices).
// Negative dimensions are clamped to zero.
// Complexity: O(r*c).
func Zeros[T Scalar](rows, cols int) *Dense[T] {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}

	return &Dense[T]{r: rows, c: cols, data: make([]T, rows*cols)}
}

// Identity returns the n×n identity matrix.
// Complexity: O(n²).
func Identity[T Scalar](n int) *Dense[T] {
	m := Zeros[T](n, n)
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}

	return m
}

// NewDenseFrom wraps a row-major backing slice of length rows*cols.
// The slice is copied; later mutations of data do not affect the result.
//
// Errors:
//   - ErrInvalidDimensions if rows<0, cols<0 or len(data) != rows*cols.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NewDenseFrom[T Scalar](rows, cols int, data []T) (*Dense[T], error) {
	if rows < 0 || cols < 0 || len(data) != rows*cols {
		return nil, ErrInvalidDimensions
	}
	buf := make([]T, len(data))
	copy(buf, data)

	return &Dense[T]{r: rows, c: cols, data: buf}, nil
}

// FromRows builds a Dense from a rectangular [][]T literal.
//
// Errors:
//   - ErrRagged when rows have unequal lengths.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func FromRows[T Scalar](rows [][]T) (*Dense[T], error) {
	r := len(rows)
	if r == 0 {
		return Zeros[T](0, 0), nil
	}
	c := len(rows[0])
	m := Zeros[T](r, c)
	for i, row := range rows {
		if len(row) != c {
			return nil, fmt.Errorf("%s: row %d has %d entries, want %d: %w", ctxFrom, i, len(row), c, ErrRagged)
		}
		copy(m.data[i*c:(i+1)*c], row)
	}

	return m, nil
}

// Rows returns the row count. No side effects.
// Complexity: O(1).
func (m *Dense[T]) Rows() int { return m.r }

// Cols returns the column count. No side effects.
// Complexity: O(1).
func (m *Dense[T]) Cols() int { return m.c }

// Shape packs Rows() and Cols() into a single call for convenience.
// Complexity: O(1).
func (m *Dense[T]) Shape() (rows, cols int) { return m.r, m.c }

// indexOf computes the row-major offset or returns ErrOutOfRange.
func (m *Dense[T]) indexOf(row, col int) (int, error) {
	if row < 0 || row >= m.r {
		return 0, ErrOutOfRange
	}
	if col < 0 || col >= m.c {
		return 0, ErrOutOfRange
	}

	// Row-major offset: i*c + j.
	return row*m.c + col, nil
}

// At returns the value at (row, col) or ErrOutOfRange.
// Complexity: O(1).
func (m *Dense[T]) At(row, col int) (T, error) {
	off, err := m.indexOf(row, col)
	if err != nil {
		var zero T
		return zero, denseErrorf(ctxAt, row, col, err) // wrap with context
	}

	return m.data[off], nil
}

// Set stores v at (row, col).
//
// Errors:
//   - ErrOutOfRange for bounds; ErrNaNInf for non-finite values.
//
// Complexity: O(1).
func (m *Dense[T]) Set(row, col int, v T) error {
	off, err := m.indexOf(row, col)
	if err != nil {
		return denseErrorf(ctxSet, row, col, err) // wrap with context
	}
	if !IsFinite(v) {
		return denseErrorf(ctxSet, row, col, ErrNaNInf)
	}
	m.data[off] = v // direct flat write

	return nil
}

// Get is the unchecked read used by hot kernels whose indices are
// validated once at the boundary. Out-of-range indices panic.
// Complexity: O(1).
func (m *Dense[T]) Get(row, col int) T { return m.data[row*m.c+col] }

// Data exposes the row-major backing slice. Mutations are visible in m.
// Complexity: O(1).
func (m *Dense[T]) Data() []T { return m.data }

// Clone returns a deep copy (new buffer).
// Complexity: Time O(r*c), Space O(r*c).
func (m *Dense[T]) Clone() *Dense[T] {
	cp := make([]T, len(m.data)) // allocate same length
	copy(cp, m.data)             // deep copy

	return &Dense[T]{r: m.r, c: m.c, data: cp}
}

// Col returns a copy of column j.
// Complexity: O(r).
func (m *Dense[T]) Col(j int) ([]T, error) {
	if j < 0 || j >= m.c {
		return nil, denseErrorf("Col", 0, j, ErrOutOfRange)
	}
	out := make([]T, m.r)
	for i := 0; i < m.r; i++ {
		out[i] = m.data[i*m.c+j]
	}

	return out, nil
}

// Induced materializes the submatrix selected by rowsIdx × colsIdx (copy).
//
// Implementation:
//   - Stage 1: allocate the len(rowsIdx)×len(colsIdx) result.
//   - Stage 2: nested loops with direct offset math; bounds-check each index.
//
// Behavior highlights:
//   - Duplicates in index sets are allowed (repeated rows/cols in the result).
//   - Zero-area selections return a legal empty Dense.
//
// Errors:
//   - ErrOutOfRange (index outside bounds).
//
// Complexity:
//   - Time O(rp*cp), Space O(rp*cp).
func (m *Dense[T]) Induced(rowsIdx, colsIdx []int) (*Dense[T], error) {
	rp, cp := len(rowsIdx), len(colsIdx)
	res := Zeros[T](rp, cp)

	// Deterministic double loop; direct offset math in both matrices.
	var i, j, ri, cj int
	for i = 0; i < rp; i++ {
		ri = rowsIdx[i]
		if ri < 0 || ri >= m.r {
			return nil, fmt.Errorf("Dense.%s: row index %d: %w", ctxInduce, ri, ErrOutOfRange)
		}
		for j = 0; j < cp; j++ {
			cj = colsIdx[j]
			if cj < 0 || cj >= m.c {
				return nil, fmt.Errorf("Dense.%s: col index %d: %w", ctxInduce, cj, ErrOutOfRange)
			}
			res.data[i*cp+j] = m.data[ri*m.c+cj]
		}
	}

	return res, nil
}

// String renders rows as lines with comma-separated values.
// Not for hot paths; intended for logs and debugging.
func (m *Dense[T]) String() string {
	var b strings.Builder
	for i := 0; i < m.r; i++ {
		b.WriteString(_fmtRowOpen)
		for j := 0; j < m.c; j++ {
			if j > 0 {
				b.WriteString(_fmtSep)
			}
			fmt.Fprintf(&b, "%g", m.data[i*m.c+j])
		}
		b.WriteString(_fmtRowClose)
	}

	return b.String()
}

// ToComplex promotes a real matrix to complex128 (zero imaginary parts).
// Complexity: O(r*c).
func ToComplex(m *Dense[float64]) *Dense[complex128] {
	out := Zeros[complex128](m.r, m.c)
	for i, v := range m.data {
		out.data[i] = complex(v, 0)
	}

	return out
}
