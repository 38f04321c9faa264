// SPDX-License-Identifier: MIT
// Package matrix_test contains unit tests for the matrix validators.
package matrix_test

import (
	"errors"
	"math"
	"testing"

	"github.com/katalvlaran/gnme/matrix"
	"github.com/stretchr/testify/require"
)

// TestValidateBinarySameShape covers nil inputs, matching and mismatched dimensions.
func TestValidateBinarySameShape(t *testing.T) {
	t.Parallel()

	zeros := matrix.Zeros[float64]

	tests := []struct {
		name    string
		a, b    *matrix.Dense[float64]
		wantErr error
	}{
		{"both nil", nil, nil, matrix.ErrNilMatrix},
		{"first nil", nil, zeros(2, 2), matrix.ErrNilMatrix},
		{"second nil", zeros(2, 2), nil, matrix.ErrNilMatrix},
		{"equal 2x3", zeros(2, 3), zeros(2, 3), nil},
		{"row mismatch", zeros(2, 3), zeros(3, 3), matrix.ErrDimensionMismatch},
		{"col mismatch", zeros(2, 3), zeros(2, 4), matrix.ErrDimensionMismatch},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := matrix.ValidateBinarySameShape(tc.a, tc.b)
			if tc.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				require.Truef(t, errors.Is(err, tc.wantErr),
					"expected errors.Is(%v, %v)", err, tc.wantErr)
			}
		})
	}
}

// TestValidateSquareAndShape covers the square and exact-shape guards.
func TestValidateSquareAndShape(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, matrix.ValidateSquare[float64](nil), matrix.ErrNilMatrix)
	require.ErrorIs(t, matrix.ValidateSquare(matrix.Zeros[float64](2, 3)), matrix.ErrNonSquare)
	require.NoError(t, matrix.ValidateSquare(matrix.Zeros[complex128](0, 0)))

	require.NoError(t, matrix.ValidateShape(matrix.Zeros[float64](4, 4), 4, 4))
	require.ErrorIs(t, matrix.ValidateShape(matrix.Zeros[float64](4, 3), 4, 4), matrix.ErrDimensionMismatch)
	require.ErrorIs(t, matrix.ValidateMulCompatible(matrix.Zeros[float64](2, 3), matrix.Zeros[float64](2, 3)),
		matrix.ErrDimensionMismatch)
}

// TestValidateFinite detects the first non-finite entry.
func TestValidateFinite(t *testing.T) {
	t.Parallel()

	m := matrix.Zeros[float64](2, 2)
	require.NoError(t, matrix.ValidateFinite(m))
	m.Data()[3] = math.Inf(-1)
	require.ErrorIs(t, matrix.ValidateFinite(m), matrix.ErrNaNInf)
}
