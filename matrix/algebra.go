// SPDX-License-Identifier: MIT
// Package matrix provides the dense algebra kernels used by the setup stage:
// element-wise addition/subtraction, scaling, products, (conjugate) transpose,
// the non-conjugating Frobenius product and horizontal concatenation.
// All functions perform strict fail-fast validation and allocate a fresh
// result; operands are never mutated.

package matrix

import "fmt"

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opAdd       = "Add"
	opSub       = "Sub"
	opMul       = "Mul"
	opTranspose = "Transpose"
	opScale     = "Scale"
	opDot       = "Dot"
	opTrace     = "Trace"
	opHStack    = "HStack"
	opOuter     = "Outer"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// addSub computes elementwise out = a + sign*b for sign ∈ {+1, -1}.
func addSub[T Scalar](a, b *Dense[T], sign T, opTag string) (*Dense[T], error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	res := Zeros[T](a.r, a.c)
	for idx := range res.data { // deterministic 0..n-1
		res.data[idx] = a.data[idx] + sign*b.data[idx]
	}

	return res, nil
}

// Add returns a + b.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(r*c).
func Add[T Scalar](a, b *Dense[T]) (*Dense[T], error) { return addSub(a, b, 1, opAdd) }

// Sub returns a - b.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(r*c).
func Sub[T Scalar](a, b *Dense[T]) (*Dense[T], error) { return addSub(a, b, -1, opSub) }

// Scale returns alpha*a.
// Complexity: O(r*c).
func Scale[T Scalar](alpha T, a *Dense[T]) (*Dense[T], error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	res := Zeros[T](a.r, a.c)
	for idx, v := range a.data {
		res.data[idx] = alpha * v
	}

	return res, nil
}

// Mul returns the matrix product a·b.
//
// Implementation:
//   - Stage 1: validate a.Cols == b.Rows.
//   - Stage 2: i→k→j loop order so the inner loop walks both b and the
//     result row contiguously.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(n·m·p), Space O(n·p).
func Mul[T Scalar](a, b *Dense[T]) (*Dense[T], error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	n, m, p := a.r, a.c, b.c
	res := Zeros[T](n, p)
	var (
		i, k, j int
		aik     T
		row     []T
		brow    []T
	)
	for i = 0; i < n; i++ {
		row = res.data[i*p : (i+1)*p]
		for k = 0; k < m; k++ {
			aik = a.data[i*m+k]
			if aik == 0 {
				continue
			}
			brow = b.data[k*p : (k+1)*p]
			for j = 0; j < p; j++ {
				row[j] += aik * brow[j]
			}
		}
	}

	return res, nil
}

// Transpose returns aᵀ (no conjugation).
// Complexity: O(r*c).
func Transpose[T Scalar](a *Dense[T]) (*Dense[T], error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	res := Zeros[T](a.c, a.r)
	for i := 0; i < a.r; i++ {
		for j := 0; j < a.c; j++ {
			res.data[j*a.r+i] = a.data[i*a.c+j]
		}
	}

	return res, nil
}

// ConjTranspose returns the Hermitian adjoint a† (equal to aᵀ for reals).
// Complexity: O(r*c).
func ConjTranspose[T Scalar](a *Dense[T]) (*Dense[T], error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	res := Zeros[T](a.c, a.r)
	for i := 0; i < a.r; i++ {
		for j := 0; j < a.c; j++ {
			res.data[j*a.r+i] = Conj(a.data[i*a.c+j])
		}
	}

	return res, nil
}

// Dot returns Σ a_ij·b_ij without conjugating either operand, so that
// Dot(Transpose(a), b) == Trace(a·b).
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(r*c).
func Dot[T Scalar](a, b *Dense[T]) (T, error) {
	var sum T
	if err := ValidateBinarySameShape(a, b); err != nil {
		return sum, matrixErrorf(opDot, err)
	}
	for idx, v := range a.data {
		sum += v * b.data[idx]
	}

	return sum, nil
}

// TraceProduct returns Tr(a·b) = Σ_ij a_ij·b_ji without forming the product.
// Errors: ErrNilMatrix, ErrDimensionMismatch (a must be n×m and b m×n).
// Complexity: O(n*m).
func TraceProduct[T Scalar](a, b *Dense[T]) (T, error) {
	var sum T
	if err := ValidateBinaryNotNil(a, b); err != nil {
		return sum, matrixErrorf(opTrace, err)
	}
	if a.r != b.c || a.c != b.r {
		return sum, matrixErrorf(opTrace, ErrDimensionMismatch)
	}
	for i := 0; i < a.r; i++ {
		for j := 0; j < a.c; j++ {
			sum += a.data[i*a.c+j] * b.data[j*b.c+i]
		}
	}

	return sum, nil
}

// HStack concatenates a and b column-wise: [a | b].
// Errors: ErrNilMatrix, ErrDimensionMismatch (row counts differ).
// Complexity: O(r*(ca+cb)).
func HStack[T Scalar](a, b *Dense[T]) (*Dense[T], error) {
	if err := ValidateBinaryNotNil(a, b); err != nil {
		return nil, matrixErrorf(opHStack, err)
	}
	if a.r != b.r {
		return nil, matrixErrorf(opHStack, ErrDimensionMismatch)
	}
	c := a.c + b.c
	res := Zeros[T](a.r, c)
	for i := 0; i < a.r; i++ {
		copy(res.data[i*c:i*c+a.c], a.data[i*a.c:(i+1)*a.c])
		copy(res.data[i*c+a.c:(i+1)*c], b.data[i*b.c:(i+1)*b.c])
	}

	return res, nil
}

// AddOuter accumulates dst += alpha · u ⊗ v (dst_ij += alpha·u_i·v_j) in place.
// Errors: ErrNilMatrix, ErrDimensionMismatch (len(u) != rows or len(v) != cols).
// Complexity: O(r*c).
func AddOuter[T Scalar](dst *Dense[T], alpha T, u, v []T) error {
	if err := ValidateNotNil(dst); err != nil {
		return matrixErrorf(opOuter, err)
	}
	if len(u) != dst.r || len(v) != dst.c {
		return matrixErrorf(opOuter, ErrDimensionMismatch)
	}
	var au T
	for i, ui := range u {
		au = alpha * ui
		if au == 0 {
			continue
		}
		row := dst.data[i*dst.c : (i+1)*dst.c]
		for j, vj := range v {
			row[j] += au * vj
		}
	}

	return nil
}

// AddScaledInPlace accumulates dst += alpha·src.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(r*c).
func AddScaledInPlace[T Scalar](dst *Dense[T], alpha T, src *Dense[T]) error {
	if err := ValidateBinarySameShape(dst, src); err != nil {
		return matrixErrorf(opAdd, err)
	}
	for idx, v := range src.data {
		dst.data[idx] += alpha * v
	}

	return nil
}

// Product multiplies a chain left to right: Product(a, b, c) = a·b·c.
// Errors: ErrNilMatrix, ErrDimensionMismatch from any step.
// Complexity: sum of the pairwise products.
func Product[T Scalar](first *Dense[T], rest ...*Dense[T]) (*Dense[T], error) {
	if err := ValidateNotNil(first); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	acc := first
	var err error
	for _, m := range rest {
		if acc, err = Mul(acc, m); err != nil {
			return nil, err
		}
	}

	return acc, nil
}
