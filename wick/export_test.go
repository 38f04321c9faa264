// SPDX-License-Identifier: MIT

package wick

import "github.com/katalvlaran/gnme/matrix"

// SameSpinTwoBody exposes the unscaled same-spin two-body term to tests.
func SameSpinTwoBody[T matrix.Scalar](e *Engine[T], bra, ket []Excitation, spin Spin) (T, error) {
	return e.sameSpinTwoBody(bra, ket, spin)
}
