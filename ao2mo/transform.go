// SPDX-License-Identifier: MIT

// Package ao2mo transforms two-electron integrals from the AO basis into
// four-index blocks over arbitrary row/column orbital transforms.
//
// Integrals are stored as an nbsf²×nbsf² matrix in chemists' order,
// eri(m·nbsf+n, u·nbsf+t) = (mn|ut). The output of Transform is an N²×N²
// matrix with
//
//	out(p·N+q, r·N+s) = Σ conj(C1[m,p])·C2[n,q]·conj(C3[u,r])·C4[t,s]·(mn|ut)
//
// where N is the column count shared by the four transforms.
package ao2mo

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/gnme/matrix"
)

// ErrShape indicates transforms or integrals of inconsistent size.
var ErrShape = errors.New("ao2mo: inconsistent operand shape")

// Transform performs the four-index transformation as two half transforms.
// With antisym set the result is antisymmetrised in the column-type indices,
// out(pq, rs) - out(ps, rq), which is the form same-spin contractions need.
//
// Implementation:
//   - Stage 1: for every AO pair column (u,t) reshape the column into an
//     nbsf×nbsf matrix E and form C1†·E·C2.
//   - Stage 2: for every MO pair row (p,q) reshape the half-transformed row
//     into an nbsf×nbsf matrix F and form C3†·F·C4.
//   - Stage 3: optional antisymmetrisation on a snapshot of the result.
//
// Errors: matrix.ErrNilMatrix, ErrShape.
// Complexity: O(nbsf⁴·N + nbsf²·N⁴) time, O(N²·nbsf² + N⁴) memory.
func Transform[T matrix.Scalar](c1, c2, c3, c4, eri *matrix.Dense[T], antisym bool) (*matrix.Dense[T], error) {
	if c1 == nil || c2 == nil || c3 == nil || c4 == nil || eri == nil {
		return nil, fmt.Errorf("Transform: %w", matrix.ErrNilMatrix)
	}
	nb, n := c1.Shape()
	for i, c := range [3]*matrix.Dense[T]{c2, c3, c4} {
		if r, k := c.Shape(); r != nb || k != n {
			return nil, fmt.Errorf("Transform: C%d is %dx%d, want %dx%d: %w", i+2, r, k, nb, n, ErrShape)
		}
	}
	if r, k := eri.Shape(); r != nb*nb || k != nb*nb {
		return nil, fmt.Errorf("Transform: integrals %dx%d, want %dx%d: %w", r, k, nb*nb, nb*nb, ErrShape)
	}

	c1h, err := matrix.ConjTranspose(c1)
	if err != nil {
		return nil, fmt.Errorf("Transform: %w", err)
	}
	c3h, err := matrix.ConjTranspose(c3)
	if err != nil {
		return nil, fmt.Errorf("Transform: %w", err)
	}

	// Stage 1: half(pq, ut)
	half := matrix.Zeros[T](n*n, nb*nb)
	hd, ed := half.Data(), eri.Data()
	block := matrix.Zeros[T](nb, nb)
	bd := block.Data()
	var (
		col, row, i, j int
		mo             *matrix.Dense[T]
	)
	for col = 0; col < nb*nb; col++ {
		for i = 0; i < nb; i++ {
			for j = 0; j < nb; j++ {
				bd[i*nb+j] = ed[(i*nb+j)*nb*nb+col]
			}
		}
		if mo, err = matrix.Product(c1h, block, c2); err != nil {
			return nil, fmt.Errorf("Transform: %w", err)
		}
		for row = 0; row < n*n; row++ {
			hd[row*nb*nb+col] = mo.Data()[row]
		}
	}

	// Stage 2: out(pq, rs)
	out := matrix.Zeros[T](n*n, n*n)
	od := out.Data()
	for row = 0; row < n*n; row++ {
		copy(bd, hd[row*nb*nb:(row+1)*nb*nb])
		if mo, err = matrix.Product(c3h, block, c4); err != nil {
			return nil, fmt.Errorf("Transform: %w", err)
		}
		copy(od[row*n*n:(row+1)*n*n], mo.Data())
	}

	// Stage 3
	if antisym {
		antisymmetrise(out, n)
	}

	return out, nil
}

// antisymmetrise applies out(pq, rs) -= out(ps, rq) in place using a snapshot.
func antisymmetrise[T matrix.Scalar](out *matrix.Dense[T], n int) {
	snap := out.Clone().Data()
	od := out.Data()
	nn := n * n
	var p, q, r, s int
	for p = 0; p < n; p++ {
		for q = 0; q < n; q++ {
			for r = 0; r < n; r++ {
				for s = 0; s < n; s++ {
					od[(p*n+q)*nn+r*n+s] -= snap[(p*n+s)*nn+r*n+q]
				}
			}
		}
	}
}
