// SPDX-License-Identifier: MIT

package wick_test

import (
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gnme/lowdin"
	"github.com/katalvlaran/gnme/matrix"
	"github.com/katalvlaran/gnme/matrix/ops"
	"github.com/katalvlaran/gnme/wick"
)

// unitary returns a seeded random n×n unitary matrix (complex Gram-Schmidt).
func unitary(t testing.TB, n int, seed int64) *matrix.Dense[complex128] {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	cols := make([][]complex128, n)
	for j := range cols {
		v := make([]complex128, n)
		for i := range v {
			v[i] = complex(rng.Float64()-0.5, rng.Float64()-0.5)
		}
		for _, u := range cols[:j] {
			d := cdot(u, v)
			for i := range v {
				v[i] -= d * u[i]
			}
		}
		norm := complex(math.Sqrt(real(cdot(v, v))), 0)
		for i := range v {
			v[i] /= norm
		}
		cols[j] = v
	}
	m := matrix.Zeros[complex128](n, n)
	for j, c := range cols {
		for i, x := range c {
			require.NoError(t, m.Set(i, j, x))
		}
	}

	return m
}

// hermitian returns a seeded random Hermitian n×n matrix.
func hermitian(n int, seed int64) *matrix.Dense[complex128] {
	rng := rand.New(rand.NewSource(seed))
	m := matrix.Zeros[complex128](n, n)
	for i := 0; i < n; i++ {
		_ = m.Set(i, i, complex(rng.Float64()-0.5, 0))
		for j := 0; j < i; j++ {
			v := complex(rng.Float64()-0.5, rng.Float64()-0.5)
			_ = m.Set(i, j, v)
			_ = m.Set(j, i, cmplx.Conj(v))
		}
	}

	return m
}

// complexIntegrals returns (pq|rs) = Σ_L B_L(p,q)·B_L(r,s) with Hermitian B_L,
// so that (pq|rs) = conj((qp|sr)) = (rs|pq).
func complexIntegrals(n int, seed int64) *matrix.Dense[complex128] {
	const rank = 3
	bs := make([]*matrix.Dense[complex128], rank)
	for l := range bs {
		bs[l] = hermitian(n, seed+int64(l))
	}
	eri := matrix.Zeros[complex128](n*n, n*n)
	for p := 0; p < n; p++ {
		for q := 0; q < n; q++ {
			for r := 0; r < n; r++ {
				for s := 0; s < n; s++ {
					var v complex128
					for _, b := range bs {
						v += b.Get(p, q) * b.Get(r, s)
					}
					_ = eri.Set(p*n+q, r*n+s, v)
				}
			}
		}
	}

	return eri
}

// cdot is the Hermitian inner product Σ conj(u)·v.
func cdot(u, v []complex128) complex128 {
	var s complex128
	for i := range u {
		s += cmplx.Conj(u[i]) * v[i]
	}

	return s
}

func assertComplex(t *testing.T, want, got complex128, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, real(want), real(got), tol, msgAndArgs...)
	assert.InDelta(t, imag(want), imag(got), tol, msgAndArgs...)
}

// csystem mirrors system for complex orbitals and integrals.
type csystem struct {
	nb, nocc   int
	bra, ket   [2]*matrix.Dense[complex128]
	hcore, eri *matrix.Dense[complex128]
	vc         complex128
}

func newComplexSystem(t testing.TB) *csystem {
	t.Helper()
	const nb = 5

	return &csystem{
		nb:    nb,
		nocc:  2,
		bra:   [2]*matrix.Dense[complex128]{unitary(t, nb, 31), unitary(t, nb, 33)},
		ket:   [2]*matrix.Dense[complex128]{unitary(t, nb, 32), unitary(t, nb, 34)},
		hcore: hermitian(nb, 41),
		eri:   complexIntegrals(nb, 51),
		vc:    0.37,
	}
}

// swapped exchanges the bra and ket orbitals.
func (s *csystem) swapped() *csystem {
	c := *s
	c.bra, c.ket = s.ket, s.bra

	return &c
}

// pairing builds the contraction data directly from M0 = Cw·A⁻¹·Cx†,
// A = Cx†·Cw over the occupied columns; every overlap here is regular.
func (s *csystem) pairing(t testing.TB, spin wick.Spin) *lowdin.Pairing[complex128] {
	t.Helper()
	all := make([]int, s.nb)
	for i := range all {
		all[i] = i
	}
	occ := all[:s.nocc]

	cx, err := s.bra[spin].Induced(all, occ)
	require.NoError(t, err)
	cw, err := s.ket[spin].Induced(all, occ)
	require.NoError(t, err)
	cxh, err := matrix.ConjTranspose(cx)
	require.NoError(t, err)
	a, err := matrix.Mul(cxh, cw)
	require.NoError(t, err)
	redS, err := ops.Det(a)
	require.NoError(t, err)
	require.Greater(t, cmplx.Abs(redS), 1e-3)

	require.Equal(t, 2, s.nocc)
	ainv, err := matrix.FromRows([][]complex128{
		{a.Get(1, 1) / redS, -a.Get(0, 1) / redS},
		{-a.Get(1, 0) / redS, a.Get(0, 0) / redS},
	})
	require.NoError(t, err)
	m0, err := matrix.Product(cw, ainv, cxh)
	require.NoError(t, err)

	p, err := lowdin.NewPairing(s.bra[spin], s.ket[spin], matrix.Identity[complex128](s.nb),
		m0, matrix.Zeros[complex128](s.nb, s.nb), redS, 0)
	require.NoError(t, err)

	return p
}

func (s *csystem) engine(t testing.TB) *wick.Engine[complex128] {
	t.Helper()
	e, err := wick.New(s.nb, s.nb, s.pairing(t, wick.Alpha), s.pairing(t, wick.Beta))
	require.NoError(t, err)
	require.NoError(t, e.Configure(s.vc, s.hcore, s.eri))

	return e
}

// reference is system.reference with conjugated bra orbitals.
func (s *csystem) reference(t testing.TB, p pattern) (complex128, complex128) {
	t.Helper()
	xs := [2][][]complex128{s.occupied(t, s.bra[wick.Alpha], p.xa), s.occupied(t, s.bra[wick.Beta], p.xb)}
	ws := [2][][]complex128{s.occupied(t, s.ket[wick.Alpha], p.wa), s.occupied(t, s.ket[wick.Beta], p.wb)}

	var ov, f, e2 [2]complex128
	var a [2]*matrix.Dense[complex128]
	for spin := 0; spin < 2; spin++ {
		a[spin] = matrix.Zeros[complex128](s.nocc, s.nocc)
		for i, x := range xs[spin] {
			for j, w := range ws[spin] {
				require.NoError(t, a[spin].Set(i, j, cdot(x, w)))
			}
		}
		ov[spin] = minorDet(t, a[spin], nil, nil)
		f[spin] = s.oneBodyRef(t, a[spin], xs[spin], ws[spin])
		e2[spin] = s.sameSpinRef(t, a[spin], xs[spin], ws[spin])
	}
	eab := s.diffSpinRef(t, a, xs, ws)

	ovl := ov[0] * ov[1]

	return ovl, s.vc*ovl + f[0]*ov[1] + ov[0]*f[1] + e2[0]*ov[1] + ov[0]*e2[1] + eab
}

func (s *csystem) occupied(t testing.TB, c *matrix.Dense[complex128], p []wick.Excitation) [][]complex128 {
	t.Helper()
	out := make([][]complex128, s.nocc)
	var err error
	for i := range out {
		out[i], err = c.Col(i)
		require.NoError(t, err)
	}
	for _, e := range p {
		out[e.Hole], err = c.Col(e.Particle)
		require.NoError(t, err)
	}

	return out
}

func csign(k int) complex128 { return complex(sign(k), 0) }

func (s *csystem) oneBodyRef(t testing.TB, a *matrix.Dense[complex128], xs, ws [][]complex128) complex128 {
	var v complex128
	for i, x := range xs {
		for j, w := range ws {
			v += s.bilinear(x, w) * csign(i+j) * minorDet(t, a, []int{i}, []int{j})
		}
	}

	return v
}

func (s *csystem) sameSpinRef(t testing.TB, a *matrix.Dense[complex128], xs, ws [][]complex128) complex128 {
	var v complex128
	n := len(xs)
	for i := 0; i < n; i++ {
		for k := i + 1; k < n; k++ {
			for j := 0; j < n; j++ {
				for l := j + 1; l < n; l++ {
					g := s.coulomb(xs[i], ws[j], xs[k], ws[l]) - s.coulomb(xs[i], ws[l], xs[k], ws[j])
					v += g * csign(i+j+k+l) * minorDet(t, a, []int{i, k}, []int{j, l})
				}
			}
		}
	}

	return v
}

func (s *csystem) diffSpinRef(t testing.TB, a [2]*matrix.Dense[complex128], xs, ws [2][][]complex128) complex128 {
	var v complex128
	for i, xa := range xs[0] {
		for j, wa := range ws[0] {
			ca := csign(i+j) * minorDet(t, a[0], []int{i}, []int{j})
			for k, xb := range xs[1] {
				for l, wb := range ws[1] {
					cb := csign(k+l) * minorDet(t, a[1], []int{k}, []int{l})
					v += s.coulomb(xa, wa, xb, wb) * ca * cb
				}
			}
		}
	}

	return v
}

func (s *csystem) bilinear(x, w []complex128) complex128 {
	var v complex128
	for m := range x {
		for n := range w {
			v += cmplx.Conj(x[m]) * s.hcore.Get(m, n) * w[n]
		}
	}

	return v
}

// coulomb returns (x1 w1|x2 w2) with conjugated bra orbitals.
func (s *csystem) coulomb(x1, w1, x2, w2 []complex128) complex128 {
	nb := s.nb
	var v complex128
	for m := 0; m < nb; m++ {
		for n := 0; n < nb; n++ {
			d := cmplx.Conj(x1[m]) * w1[n]
			for r := 0; r < nb; r++ {
				for q := 0; q < nb; q++ {
					v += d * cmplx.Conj(x2[r]) * w2[q] * s.eri.Get(m*nb+n, r*nb+q)
				}
			}
		}
	}

	return v
}

// TestComplexAgainstDeterminants runs the complex instantiation on unitary
// orbitals with Hermitian integrals. Exchanging bra and ket conjugates both
// the overlap and the matrix element.
func TestComplexAgainstDeterminants(t *testing.T) {
	sys := newComplexSystem(t)
	e := sys.engine(t)
	eT := sys.swapped().engine(t)

	for _, p := range patterns() {
		t.Run(p.name, func(t *testing.T) {
			wantS, wantH := sys.reference(t, p)

			s, h, err := e.Evaluate(p.xa, p.xb, p.wa, p.wb)
			require.NoError(t, err)
			assertComplex(t, wantS, s, "S")
			assertComplex(t, wantH, h, "H")

			sT, hT, err := eT.Evaluate(p.wa, p.wb, p.xa, p.xb)
			require.NoError(t, err)
			assertComplex(t, cmplx.Conj(s), sT, "S swapped")
			assertComplex(t, cmplx.Conj(h), hT, "H swapped")
		})
	}

	// the data really is complex
	_, h, err := e.Evaluate(nil, nil, ex(1, 3), nil)
	require.NoError(t, err)
	assert.Greater(t, math.Abs(imag(h)), 1e-6)
}
