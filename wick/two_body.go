// SPDX-License-Identifier: MIT

package wick

import "github.com/katalvlaran/gnme/matrix"

// phase is the sign picked up by a two-body substitution at slot pair (i, j):
// -1 when exactly one of i, j is odd.
func phase[T matrix.Scalar](i, j int) T {
	if i%2 != j%2 {
		return -1
	}

	return 1
}

// sameSpinTwoBody returns the same-spin two-electron contribution of one spin
// channel without the reduced overlap factor and without the overall ½.
//
// Order slots: m[0] and m[1] belong to the two contractions internal to the
// operator, the remaining n slots to the determinant columns. In the
// four-index terms m[2] is reused for the bra factor of the substituted pair
// and m[3:] for the columns of the reduced determinant.
func (e *Engine[T]) sameSpinTwoBody(bra, ket []Excitation, spin Spin) (T, error) {
	var v T
	p := e.pair[spin]
	nz, n := p.Zeros, len(bra)+len(ket)
	if nz > n+2 {
		return v, nil
	}
	v0, xvx, ii := &e.setup.v0[spin], &e.setup.xvx[spin], &e.setup.ii[spin]

	// No excitations: sum the internal order pairs only.
	if n == 0 {
		for _, m := range distributions(2, nz) {
			v += v0[m[0]+m[1]]
		}

		return v, nil
	}
	b, err := newBlock(p, bra, ket)
	if err != nil {
		return v, err
	}

	// One excitation doesn't require a determinant.
	if n == 1 {
		r, c := b.rows[0], b.cols[0]
		for _, m := range distributions(3, nz) {
			v += v0[m[0]+m[1]] * p.X[m[2]].Get(r, c)
			v -= 2 * xvx[m[0]][m[1]][m[2]].Get(r, c)
		}

		return v, nil
	}

	dim := 2 * p.NOrb
	for _, m := range distributions(n+2, nz) {
		d, err := b.working(m[2:])
		if err != nil {
			return v, err
		}
		dv, err := det(d)
		if err != nil {
			return v, err
		}
		v += v0[m[0]+m[1]] * dv

		// effective one-body substitutions
		for i := 0; i < n; i++ {
			sub, err := detWithColumn(d, i, b.operatorColumn(xvx[m[0]][m[1]][m[i+2]], i))
			if err != nil {
				return v, err
			}
			v -= 2 * sub
		}

		// two-body substitutions on the reduced determinant
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				d2, err := b.reduced(i, j, m[3:])
				if err != nil {
					return v, err
				}
				pair := b.pairIndex(dim, i, j)
				ph := phase[T](i, j)
				for k := 0; k < n-1; k++ {
					blk := ii[2*m[2]+m[k+3]][2*m[0]+m[1]]
					sub, err := detWithColumn(d2, k, b.pairColumn(blk, dim, skipColumn(k, j), pair, i))
					if err != nil {
						return v, err
					}
					v += 0.5 * ph * sub
				}
			}
		}
	}

	return v, nil
}

// diffSpinTwoBody returns the alpha-beta two-electron contribution without the
// reduced overlap factors. Beta order placements form the outer loop and alpha
// placements the inner one; slot 0 of each belongs to the operator's own
// contraction of that spin.
func (e *Engine[T]) diffSpinTwoBody(xa, xb, wa, wb []Excitation) (T, error) {
	var v T
	pa, pb := e.pair[Alpha], e.pair[Beta]
	na, nb := len(xa)+len(wa), len(xb)+len(wb)
	if pa.Zeros > na+1 || pb.Zeros > nb+1 {
		return v, nil
	}
	ba, err := newBlock(pa, xa, wa)
	if err != nil {
		return v, err
	}
	bb, err := newBlock(pb, xb, wb)
	if err != nil {
		return v, err
	}
	st := e.setup
	dim := 2 * pa.NOrb
	distA := distributions(na+1, pa.Zeros)

	for _, mb := range distributions(nb+1, pb.Zeros) {
		db, err := bb.working(mb[1:])
		if err != nil {
			return v, err
		}
		detB, err := det(db)
		if err != nil {
			return v, err
		}

		for _, ma := range distA {
			da, err := ba.working(ma[1:])
			if err != nil {
				return v, err
			}
			detA, err := det(da)
			if err != nil {
				return v, err
			}

			// zeroth-order term
			v += st.vab[ma[0]][mb[0]] * detA * detB

			// alpha columns against the beta Coulomb field
			for i := 0; i < na; i++ {
				sub, err := detWithColumn(da, i, ba.operatorColumn(st.xjx[Alpha][ma[0]][mb[0]][ma[i+1]], i))
				if err != nil {
					return v, err
				}
				v -= sub * detB
			}
			// beta columns against the alpha Coulomb field
			for i := 0; i < nb; i++ {
				sub, err := detWithColumn(db, i, bb.operatorColumn(st.xjx[Beta][mb[0]][ma[0]][mb[i+1]], i))
				if err != nil {
					return v, err
				}
				v -= detA * sub
			}

			// alpha pair contracted, one beta column substituted
			for i := 0; i < na; i++ {
				for j := 0; j < na; j++ {
					da2, err := ba.reduced(i, j, ma[2:])
					if err != nil {
						return v, err
					}
					detA2, err := det(da2)
					if err != nil {
						return v, err
					}
					pair := ba.pairIndex(dim, i, j)
					ph := phase[T](i, j)
					for k := 0; k < nb; k++ {
						blk := st.iiba[2*mb[0]+mb[k+1]][2*ma[0]+ma[1]]
						sub, err := detWithColumn(db, k, bb.pairColumn(blk, dim, k, pair, -1))
						if err != nil {
							return v, err
						}
						v += 0.5 * ph * detA2 * sub
					}
				}
			}
			// beta pair contracted, one alpha column substituted
			for i := 0; i < nb; i++ {
				for j := 0; j < nb; j++ {
					db2, err := bb.reduced(i, j, mb[2:])
					if err != nil {
						return v, err
					}
					detB2, err := det(db2)
					if err != nil {
						return v, err
					}
					pair := bb.pairIndex(dim, i, j)
					ph := phase[T](i, j)
					for k := 0; k < na; k++ {
						blk := st.iiab[2*ma[0]+ma[k+1]][2*mb[0]+mb[1]]
						sub, err := detWithColumn(da, k, ba.pairColumn(blk, dim, k, pair, -1))
						if err != nil {
							return v, err
						}
						v += 0.5 * ph * sub * detB2
					}
				}
			}
		}
	}

	return v, nil
}
