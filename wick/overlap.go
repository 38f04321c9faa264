// SPDX-License-Identifier: MIT

package wick

// spinOverlap returns the determinant overlap of one spin channel, without the
// reduced overlap factor. More zeros than excitation slots give exactly 0.
func (e *Engine[T]) spinOverlap(bra, ket []Excitation, spin Spin) (T, error) {
	var s T
	p := e.pair[spin]
	nz, n := p.Zeros, len(bra)+len(ket)
	if nz > n {
		return s, nil
	}
	if n == 0 {
		return 1, nil
	}
	b, err := newBlock(p, bra, ket)
	if err != nil {
		return s, err
	}
	if n == 1 {
		return p.X[nz].Get(b.rows[0], b.cols[0]), nil
	}

	for _, m := range distributions(n, nz) {
		d, err := b.working(m)
		if err != nil {
			return s, err
		}
		v, err := det(d)
		if err != nil {
			return s, err
		}
		s += v
	}

	return s, nil
}
