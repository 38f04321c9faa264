// SPDX-License-Identifier: MIT

package lowdin

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/gnme/matrix"
)

// DefaultThreshold is the singular value below which an occupied pair is
// counted as a zero overlap.
const DefaultThreshold = 1e-8

type pairOptions struct {
	threshold float64
}

// Option configures Pair.
type Option func(*pairOptions)

// WithThreshold sets the zero-overlap threshold. Non-positive values are ignored.
func WithThreshold(thresh float64) Option {
	return func(o *pairOptions) {
		if thresh > 0 {
			o.threshold = thresh
		}
	}
}

// Pair performs the Löwdin pairing of the first nocc columns of the real bra
// orbitals cx and ket orbitals cw under the AO metric and returns the
// resulting Pairing.
//
// Implementation:
//   - Stage 1: S = Cx_occᵀ·metric·Cw_occ and its full SVD S = U·Σ·Vᵀ (gonum).
//   - Stage 2: paired orbitals x̃ = Cx_occ·U, w̃ = Cw_occ·V; σ_k ≤ threshold
//     counts as a zero.
//   - Stage 3: W = Σ_{σ≠0} w̃_k σ_k⁻¹ x̃_kᵀ, P = Σ_{σ=0} w̃_k x̃_kᵀ,
//     M[0] = W + P, M[1] = P, reduced overlap det(U)·det(V)·Π_{σ≠0} σ_k.
//   - Stage 4: NewPairing derives the contraction matrices.
//
// Errors: matrix.ErrNilMatrix, ErrShape, ErrOccupation, ErrFactorization.
// Complexity: O(nbsf²·nmo + nocc³).
func Pair(cx, cw, metric *matrix.Dense[float64], nocc int, opts ...Option) (*Pairing[float64], error) {
	cfg := pairOptions{threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cx == nil || cw == nil || metric == nil {
		return nil, fmt.Errorf("Pair: %w", matrix.ErrNilMatrix)
	}
	nb, nmo := cx.Shape()
	if nocc < 0 || nocc > nmo {
		return nil, fmt.Errorf("Pair: nocc %d with %d orbitals: %w", nocc, nmo, ErrOccupation)
	}
	if r, c := cw.Shape(); r != nb || c != nmo {
		return nil, fmt.Errorf("Pair: ket orbitals %dx%d, want %dx%d: %w", r, c, nb, nmo, ErrShape)
	}
	if r, c := metric.Shape(); r != nb || c != nb {
		return nil, fmt.Errorf("Pair: metric %dx%d, want %dx%d: %w", r, c, nb, nb, ErrShape)
	}

	m0 := matrix.Zeros[float64](nb, nb)
	m1 := matrix.Zeros[float64](nb, nb)
	redS, nz := 1.0, 0
	if nocc > 0 && nb > 0 {
		var err error
		if redS, nz, err = pairOccupied(cx, cw, metric, nocc, cfg.threshold, m0, m1); err != nil {
			return nil, err
		}
	}

	return NewPairing(cx, cw, metric, m0, m1, redS, nz)
}

// pairOccupied fills m0 and m1 and returns the reduced overlap and zero count.
func pairOccupied(cx, cw, metric *matrix.Dense[float64], nocc int, thresh float64, m0, m1 *matrix.Dense[float64]) (float64, int, error) {
	nb := cx.Rows()
	cxo := toGonum(cx, nocc)
	cwo := toGonum(cw, nocc)
	s := mat.NewDense(nb, nb, append([]float64(nil), metric.Data()...))

	var sxw mat.Dense
	sxw.Product(cxo.T(), s, cwo)

	var svd mat.SVD
	if ok := svd.Factorize(&sxw, mat.SVDFull); !ok {
		return 0, 0, fmt.Errorf("Pair: %w", ErrFactorization)
	}
	sigma := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	var xt, wt mat.Dense
	xt.Mul(cxo, &u)
	wt.Mul(cwo, &v)

	redS := mat.Det(&u) * mat.Det(&v)
	nz := 0
	d0, d1 := m0.Data(), m1.Data()
	var (
		a, b, k int
		coef    float64
		zero    bool
	)
	for k = 0; k < nocc; k++ {
		zero = sigma[k] <= thresh
		if zero {
			nz++
			coef = 1
		} else {
			redS *= sigma[k]
			coef = 1 / sigma[k]
		}
		for a = 0; a < nb; a++ {
			wa := wt.At(a, k) * coef
			if wa == 0 {
				continue
			}
			for b = 0; b < nb; b++ {
				d0[a*nb+b] += wa * xt.At(b, k)
				if zero {
					d1[a*nb+b] += wa * xt.At(b, k)
				}
			}
		}
	}

	return redS, nz, nil
}

// toGonum copies the first ncol columns of m into a gonum matrix.
func toGonum(m *matrix.Dense[float64], ncol int) *mat.Dense {
	r := m.Rows()
	out := mat.NewDense(r, ncol, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < ncol; j++ {
			out.Set(i, j, m.Get(i, j))
		}
	}

	return out
}
