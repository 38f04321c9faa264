// SPDX-License-Identifier: MIT

package wick

import (
	"github.com/pkg/errors"

	"github.com/katalvlaran/gnme/lowdin"
	"github.com/katalvlaran/gnme/matrix"
	"github.com/katalvlaran/gnme/matrix/ops"
)

// block is the determinant skeleton of one spin channel for a bra/ket pattern
// pair. base holds the order-0 contractions and alt the order-1 ones; entries
// on and below the diagonal are X-type, strictly upper entries Y-type.
type block[T matrix.Scalar] struct {
	rows, cols []int
	base, alt  *matrix.Dense[T]
}

func newBlock[T matrix.Scalar](p *lowdin.Pairing[T], bra, ket []Excitation) (*block[T], error) {
	rows, cols := slots(bra, ket, p.NOrb)
	b := &block[T]{rows: rows, cols: cols}
	var err error
	if b.base, err = spliced(p.X[0], p.Y[0], rows, cols); err != nil {
		return nil, err
	}
	if b.alt, err = spliced(p.X[1], p.Y[1], rows, cols); err != nil {
		return nil, err
	}

	return b, nil
}

func spliced[T matrix.Scalar](x, y *matrix.Dense[T], rows, cols []int) (*matrix.Dense[T], error) {
	xs, err := x.Induced(rows, cols)
	if err != nil {
		return nil, errors.Wrap(err, "contraction block")
	}
	ys, err := y.Induced(rows, cols)
	if err != nil {
		return nil, errors.Wrap(err, "contraction block")
	}

	return matrix.LowerUpper(xs, ys)
}

func (b *block[T]) size() int { return len(b.rows) }

// working selects each column from base or alt by its order.
func (b *block[T]) working(sel []int) (*matrix.Dense[T], error) {
	return matrix.MixColumns(b.base, b.alt, sel)
}

// reduced is working() with row i and column j removed first.
func (b *block[T]) reduced(i, j int, sel []int) (*matrix.Dense[T], error) {
	base, err := matrix.Without(b.base, i, j)
	if err != nil {
		return nil, err
	}
	alt, err := matrix.Without(b.alt, i, j)
	if err != nil {
		return nil, err
	}

	return matrix.MixColumns(base, alt, sel)
}

// operatorColumn gathers op(rows[l], cols[i]) over all rows l.
func (b *block[T]) operatorColumn(op *matrix.Dense[T], i int) []T {
	out := make([]T, len(b.rows))
	c := b.cols[i]
	for l, r := range b.rows {
		out[l] = op.Get(r, c)
	}

	return out
}

// pairColumn gathers the four-index entries ii(rows[l]·N + cols[k], pair) over
// every row l except skip; N is the composite basis size.
func (b *block[T]) pairColumn(ii *matrix.Dense[T], n, k, pair, skip int) []T {
	out := make([]T, 0, len(b.rows))
	c := b.cols[k]
	for l, r := range b.rows {
		if l == skip {
			continue
		}
		out = append(out, ii.Get(r*n+c, pair))
	}

	return out
}

// pairIndex is the compound four-index position of slot pair (row i, col j).
func (b *block[T]) pairIndex(n, i, j int) int { return b.rows[i]*n + b.cols[j] }

// det is ops.Det with the error wrapped for the evaluators.
func det[T matrix.Scalar](m *matrix.Dense[T]) (T, error) {
	d, err := ops.Det(m)
	if err != nil {
		return d, errors.Wrap(err, "determinant")
	}

	return d, nil
}

// detWithColumn returns det(m with column j replaced by col).
func detWithColumn[T matrix.Scalar](m *matrix.Dense[T], j int, col []T) (T, error) {
	w, err := matrix.WithColumn(m, j, col)
	if err != nil {
		var zero T
		return zero, errors.Wrap(err, "column substitution")
	}

	return det(w)
}

// skipColumn maps a column of a matrix with column j removed back to the full matrix.
func skipColumn(k, j int) int {
	if k < j {
		return k
	}

	return k + 1
}
