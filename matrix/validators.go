// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single, canonical source of truth for common validation checks.
//  - Keep kernels minimal by delegating shape/nil checks here.
//  - Return sentinel errors tagged with the validator name so call sites can
//    wrap once more with their own operation tag.
//
// Determinism & Performance:
//  - All checks are pure, deterministic and allocate nothing on success.
//
// Note:
//  - Each composite validator follows a fixed sequence (NotNil → Shape).

package matrix

import "fmt"

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil ensures the matrix reference is non-nil.
// Returns ErrNilMatrix if m == nil.
// Complexity: O(1).
func ValidateNotNil[T Scalar](m *Dense[T]) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateBinaryNotNil ensures both operands are non-nil.
// Complexity: O(1).
func ValidateBinaryNotNil[T Scalar](a, b *Dense[T]) error {
	if a == nil || b == nil {
		return validatorErrorf("ValidateBinaryNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateSameShape ensures a and b have equal dimensions.
// Assumes a and b are not nil (caller must ensure).
// Complexity: O(1).
func ValidateSameShape[T Scalar](a, b *Dense[T]) error {
	if a.r != b.r {
		return validatorErrorf("ValidateSameShape: Rows", ErrDimensionMismatch)
	}
	if a.c != b.c {
		return validatorErrorf("ValidateSameShape: Columns", ErrDimensionMismatch)
	}

	return nil
}

// ValidateBinarySameShape is NotNil → SameShape for two operands.
// Complexity: O(1).
func ValidateBinarySameShape[T Scalar](a, b *Dense[T]) error {
	if err := ValidateBinaryNotNil(a, b); err != nil {
		return err
	}

	return ValidateSameShape(a, b)
}

// ValidateSquare checks that m is non-nil and square.
// Errors: ErrNilMatrix, ErrNonSquare.
// Complexity: O(1).
func ValidateSquare[T Scalar](m *Dense[T]) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}
	if m.r != m.c {
		return validatorErrorf("ValidateSquare", ErrNonSquare)
	}

	return nil
}

// ValidateMulCompatible checks a.Cols == b.Rows after the nil guard.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(1).
func ValidateMulCompatible[T Scalar](a, b *Dense[T]) error {
	if err := ValidateBinaryNotNil(a, b); err != nil {
		return err
	}
	if a.c != b.r {
		return validatorErrorf("ValidateMulCompatible", ErrDimensionMismatch)
	}

	return nil
}

// ValidateShape checks that m is non-nil and exactly rows×cols.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(1).
func ValidateShape[T Scalar](m *Dense[T], rows, cols int) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}
	if m.r != rows || m.c != cols {
		return validatorErrorf(
			fmt.Sprintf("ValidateShape: got %dx%d, want %dx%d", m.r, m.c, rows, cols),
			ErrDimensionMismatch,
		)
	}

	return nil
}

// ValidateFinite scans every element and fails on the first NaN/Inf.
// Errors: ErrNilMatrix, ErrNaNInf.
// Complexity: O(r*c).
func ValidateFinite[T Scalar](m *Dense[T]) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}
	for idx, v := range m.data {
		if !IsFinite(v) {
			return validatorErrorf(
				fmt.Sprintf("ValidateFinite: (%d,%d)", idx/max(m.c, 1), idx%max(m.c, 1)),
				ErrNaNInf,
			)
		}
	}

	return nil
}
