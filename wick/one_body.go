// SPDX-License-Identifier: MIT

package wick

// spinOneBody returns the one-body matrix element of one spin channel without
// the reduced overlap factor. The operator enters through F0 for the
// fully contracted term and through XFX when one determinant column is
// replaced by the operator contraction.
func (e *Engine[T]) spinOneBody(bra, ket []Excitation, spin Spin) (T, error) {
	var v T
	p := e.pair[spin]
	nz, n := p.Zeros, len(bra)+len(ket)
	if nz > n+1 {
		return v, nil
	}
	f0, xfx := &e.setup.f0[spin], &e.setup.xfx[spin]
	if n == 0 {
		return f0[nz], nil
	}
	b, err := newBlock(p, bra, ket)
	if err != nil {
		return v, err
	}

	// Single slot: no determinant needed.
	if n == 1 {
		r, c := b.rows[0], b.cols[0]
		for _, m := range distributions(2, nz) {
			v += f0[m[0]]*p.X[m[1]].Get(r, c) - xfx[m[0]][m[1]].Get(r, c)
		}

		return v, nil
	}

	for _, m := range distributions(n+1, nz) {
		d, err := b.working(m[1:])
		if err != nil {
			return v, err
		}
		dv, err := det(d)
		if err != nil {
			return v, err
		}
		v += f0[m[0]] * dv

		for i := 0; i < n; i++ {
			sub, err := detWithColumn(d, i, b.operatorColumn(xfx[m[0]][m[i+1]], i))
			if err != nil {
				return v, err
			}
			v -= sub
		}
	}

	return v, nil
}
