// SPDX-License-Identifier: MIT

// Package matrix: scalar domain shared by every kernel.
// This file defines ONLY the element constraint and the tiny scalar helpers
// that generic code needs where float64 and complex128 differ (conjugation,
// magnitude, promotion of a float64 into the element type).
package matrix

import (
	"math"
	"math/cmplx"
)

// Scalar is the element domain of Dense: real or complex double precision.
// The set is closed (no ~ approximation) so that helpers can switch on the
// dynamic type without reflection.
type Scalar interface {
	float64 | complex128
}

// Conj returns the complex conjugate of v; reals are returned unchanged.
// Complexity: O(1).
func Conj[T Scalar](v T) T {
	switch x := any(v).(type) {
	case complex128:
		return any(cmplx.Conj(x)).(T)
	default:
		return v
	}
}

// Abs returns |v| as a float64 for either element kind.
// Complexity: O(1).
func Abs[T Scalar](v T) float64 {
	switch x := any(v).(type) {
	case complex128:
		return cmplx.Abs(x)
	case float64:
		return math.Abs(x)
	}

	return 0
}

// FromFloat promotes a float64 into T (complex values get a zero imaginary part).
// Non-constant float64 → complex128 conversions are not expressible in Go,
// hence the explicit helper.
// Complexity: O(1).
func FromFloat[T Scalar](x float64) T {
	var out T
	switch p := any(&out).(type) {
	case *float64:
		*p = x
	case *complex128:
		*p = complex(x, 0)
	}

	return out
}

// IsFinite reports whether v has no NaN or ±Inf component.
// Complexity: O(1).
func IsFinite[T Scalar](v T) bool {
	switch x := any(v).(type) {
	case complex128:
		return !cmplx.IsNaN(x) && !cmplx.IsInf(x)
	case float64:
		return !math.IsNaN(x) && !math.IsInf(x, 0)
	}

	return false
}
