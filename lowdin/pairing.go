// SPDX-License-Identifier: MIT

// Package lowdin builds the per-spin contraction data of a bra/ket orbital pair.
//
// A Pairing holds the two co-density orders (M[0] = W + P and M[1] = P) and
// everything the Wick engine derives from them in the composite bra⊕ket MO
// basis of dimension 2·nmo: the contraction matrices X and Y and the row and
// column transforms CX and XC used for effective operators and integral
// blocks. Ket MO indices are offset by nmo in that basis.
package lowdin

import (
	"fmt"

	"github.com/katalvlaran/gnme/matrix"
)

// Pairing is the contraction data of one spin channel. It is immutable after
// construction and safe to share between goroutines.
type Pairing[T matrix.Scalar] struct {
	NBasis int // AO basis size (nbsf)
	NOrb   int // MO count per side (nmo)

	M  [2]*matrix.Dense[T] // co-densities, nbsf×nbsf
	X  [2]*matrix.Dense[T] // C†·S·M·S·C, 2nmo×2nmo
	Y  [2]*matrix.Dense[T] // X[0] - C†·S·C, X[1]
	CX [2]*matrix.Dense[T] // nbsf×2nmo row transforms
	XC [2]*matrix.Dense[T] // nbsf×2nmo column transforms

	ReducedOverlap T   // product of the nonzero singular values with phase
	Zeros          int // number of vanishing singular values
}

// NewPairing derives the contraction matrices from caller-supplied
// co-densities. cx and cw are nbsf×nmo MO coefficients of the bra and the
// ket, metric is the nbsf×nbsf AO overlap and m0, m1 the order-0 and order-1
// co-densities. Inputs are not retained.
//
// Errors: ErrShape, ErrOccupation (negative zero count).
// Complexity: O(nbsf²·nmo + nbsf·nmo²).
func NewPairing[T matrix.Scalar](cx, cw, metric, m0, m1 *matrix.Dense[T], redS T, nz int) (*Pairing[T], error) {
	if cx == nil || cw == nil || metric == nil || m0 == nil || m1 == nil {
		return nil, fmt.Errorf("NewPairing: %w", matrix.ErrNilMatrix)
	}
	nb, nmo := cx.Shape()
	if err := checkShapes(nb, nmo, cw, metric, m0, m1); err != nil {
		return nil, err
	}
	if nz < 0 {
		return nil, fmt.Errorf("NewPairing: zero count %d: %w", nz, ErrOccupation)
	}

	c, err := matrix.HStack(cx, cw)
	if err != nil {
		return nil, fmt.Errorf("NewPairing: %w", err)
	}
	sc, err := matrix.Mul(metric, c)
	if err != nil {
		return nil, fmt.Errorf("NewPairing: %w", err)
	}
	ch, err := matrix.ConjTranspose(c)
	if err != nil {
		return nil, fmt.Errorf("NewPairing: %w", err)
	}
	cs, err := matrix.Mul(ch, metric)
	if err != nil {
		return nil, fmt.Errorf("NewPairing: %w", err)
	}
	csc, err := matrix.Mul(cs, c)
	if err != nil {
		return nil, fmt.Errorf("NewPairing: %w", err)
	}

	// [Cx | 0] and [0 | Cw]
	braOnly, err := matrix.HStack(cx, matrix.Zeros[T](nb, nmo))
	if err != nil {
		return nil, fmt.Errorf("NewPairing: %w", err)
	}
	ketOnly, err := matrix.HStack(matrix.Zeros[T](nb, nmo), cw)
	if err != nil {
		return nil, fmt.Errorf("NewPairing: %w", err)
	}

	p := &Pairing[T]{NBasis: nb, NOrb: nmo, ReducedOverlap: redS, Zeros: nz}
	p.M[0], p.M[1] = m0.Clone(), m1.Clone()
	for k := 0; k < 2; k++ {
		if p.X[k], err = matrix.Product(cs, p.M[k], sc); err != nil {
			return nil, fmt.Errorf("NewPairing: X[%d]: %w", k, err)
		}
		mh, err := matrix.ConjTranspose(p.M[k])
		if err != nil {
			return nil, fmt.Errorf("NewPairing: %w", err)
		}
		if p.CX[k], err = matrix.Mul(mh, sc); err != nil {
			return nil, fmt.Errorf("NewPairing: CX[%d]: %w", k, err)
		}
		if p.XC[k], err = matrix.Mul(p.M[k], sc); err != nil {
			return nil, fmt.Errorf("NewPairing: XC[%d]: %w", k, err)
		}
	}
	if p.Y[0], err = matrix.Sub(p.X[0], csc); err != nil {
		return nil, fmt.Errorf("NewPairing: Y[0]: %w", err)
	}
	p.Y[1] = p.X[1].Clone()
	if p.CX[0], err = matrix.Sub(p.CX[0], braOnly); err != nil {
		return nil, fmt.Errorf("NewPairing: CX[0]: %w", err)
	}
	if p.XC[0], err = matrix.Sub(p.XC[0], ketOnly); err != nil {
		return nil, fmt.Errorf("NewPairing: XC[0]: %w", err)
	}

	return p, nil
}

// Orders returns how many co-density orders take part in expansions:
// 1 without vanishing singular values, 2 otherwise.
func (p *Pairing[T]) Orders() int {
	if p.Zeros > 0 {
		return 2
	}

	return 1
}

func checkShapes[T matrix.Scalar](nb, nmo int, cw, metric, m0, m1 *matrix.Dense[T]) error {
	if r, c := cw.Shape(); r != nb || c != nmo {
		return fmt.Errorf("ket orbitals %dx%d, want %dx%d: %w", r, c, nb, nmo, ErrShape)
	}
	names := [3]string{"metric", "M[0]", "M[1]"}
	for i, m := range [3]*matrix.Dense[T]{metric, m0, m1} {
		if r, c := m.Shape(); r != nb || c != nb {
			return fmt.Errorf("%s %dx%d, want %dx%d: %w", names[i], r, c, nb, nb, ErrShape)
		}
	}

	return nil
}
