// SPDX-License-Identifier: MIT

package wick

import (
	"github.com/pkg/errors"

	"github.com/katalvlaran/gnme/matrix"
)

// spinRDM returns the AO-basis one-particle transition density of one spin
// channel without the reduced overlap factor, arranged so that
// Σ_mn F(m,n)·P(n,m) equals the one-body matrix element of F.
//
// Each one-body contraction in spinOneBody is linear in F; P collects the
// same terms with F stripped: M[m0]·det(D) for the fully contracted term and,
// for every substituted column i, the cofactor-weighted outer products
// XC[:,col_i] ⊗ conj(CX[:,row_l]).
func (e *Engine[T]) spinRDM(bra, ket []Excitation, spin Spin) (*matrix.Dense[T], error) {
	p := e.pair[spin]
	nz, n := p.Zeros, len(bra)+len(ket)
	out := matrix.Zeros[T](p.NBasis, p.NBasis)
	if nz > n+1 {
		return out, nil
	}
	if n == 0 {
		return p.M[nz].Clone(), nil
	}
	b, err := newBlock(p, bra, ket)
	if err != nil {
		return nil, err
	}

	// conjugated CX columns are shared by every placement with the same m[0]
	var cxRows [2][][]T
	for k := 0; k < p.Orders(); k++ {
		cxRows[k] = make([][]T, n)
		for l, r := range b.rows {
			if cxRows[k][l], err = p.CX[k].Col(r); err != nil {
				return nil, errors.Wrap(err, "density")
			}
			for x := range cxRows[k][l] {
				cxRows[k][l][x] = matrix.Conj(cxRows[k][l][x])
			}
		}
	}

	for _, m := range distributions(n+1, nz) {
		d, err := b.working(m[1:])
		if err != nil {
			return nil, err
		}
		dv, err := det(d)
		if err != nil {
			return nil, err
		}
		if err = matrix.AddScaledInPlace(out, dv, p.M[m[0]]); err != nil {
			return nil, errors.Wrap(err, "density")
		}

		for i := 0; i < n; i++ {
			u, err := p.XC[m[i+1]].Col(b.cols[i])
			if err != nil {
				return nil, errors.Wrap(err, "density")
			}
			for l := 0; l < n; l++ {
				cof, err := cofactor(d, l, i)
				if err != nil {
					return nil, err
				}
				if cof == 0 {
					continue
				}
				if err = matrix.AddOuter(out, -cof, u, cxRows[m[0]][l]); err != nil {
					return nil, errors.Wrap(err, "density")
				}
			}
		}
	}

	return out, nil
}

// cofactor returns the (l, i) cofactor of d as det(d with column i set to e_l).
func cofactor[T matrix.Scalar](d *matrix.Dense[T], l, i int) (T, error) {
	w, err := matrix.WithUnitColumn(d, i, l)
	if err != nil {
		var zero T
		return zero, errors.Wrap(err, "cofactor")
	}

	return det(w)
}
