// SPDX-License-Identifier: MIT

package wick_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gnme/lowdin"
	"github.com/katalvlaran/gnme/matrix"
	"github.com/katalvlaran/gnme/matrix/ops"
	"github.com/katalvlaran/gnme/wick"
)

const tol = 1e-9

// orthogonal returns a seeded random n×n orthogonal matrix (Gram-Schmidt).
func orthogonal(t testing.TB, n int, seed int64) *matrix.Dense[float64] {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	cols := make([][]float64, n)
	for j := range cols {
		v := make([]float64, n)
		for i := range v {
			v[i] = rng.Float64() - 0.5
		}
		for _, u := range cols[:j] {
			d := dot(u, v)
			for i := range v {
				v[i] -= d * u[i]
			}
		}
		norm := math.Sqrt(dot(v, v))
		for i := range v {
			v[i] /= norm
		}
		cols[j] = v
	}
	m := matrix.Zeros[float64](n, n)
	for j, c := range cols {
		for i, x := range c {
			require.NoError(t, m.Set(i, j, x))
		}
	}

	return m
}

// rotated returns base·g where g is the identity except for the given
// columns; cols[j] lists the nonzero entries of column j.
func rotated(t testing.TB, base *matrix.Dense[float64], cols map[int]map[int]float64) *matrix.Dense[float64] {
	t.Helper()
	n := base.Rows()
	g := matrix.Identity[float64](n)
	for j, entries := range cols {
		for i := 0; i < n; i++ {
			require.NoError(t, g.Set(i, j, entries[i]))
		}
	}
	out, err := matrix.Mul(base, g)
	require.NoError(t, err)

	return out
}

// symmetric returns a seeded random symmetric n×n matrix.
func symmetric(n int, seed int64) *matrix.Dense[float64] {
	rng := rand.New(rand.NewSource(seed))
	m := matrix.Zeros[float64](n, n)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			v := rng.Float64() - 0.5
			_ = m.Set(i, j, v)
			_ = m.Set(j, i, v)
		}
	}

	return m
}

// integrals returns (pq|rs) = Σ_L B_L(p,q)·B_L(r,s) with symmetric B_L, which
// has the full eightfold permutational symmetry of real integrals.
func integrals(n int, seed int64) *matrix.Dense[float64] {
	const rank = 3
	bs := make([]*matrix.Dense[float64], rank)
	for l := range bs {
		bs[l] = symmetric(n, seed+int64(l))
	}
	eri := matrix.Zeros[float64](n*n, n*n)
	for p := 0; p < n; p++ {
		for q := 0; q < n; q++ {
			for r := 0; r < n; r++ {
				for s := 0; s < n; s++ {
					var v float64
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

func dot(u, v []float64) float64 {
	var s float64
	for i := range u {
		s += u[i] * v[i]
	}

	return s
}

// system is a two-spin bra/ket orbital pair with an orthonormal AO basis.
type system struct {
	nb, nocc   int
	bra, ket   [2]*matrix.Dense[float64]
	hcore, eri *matrix.Dense[float64]
	vc         float64
}

func newSystem(t testing.TB, nb, nocc int, braA, ketA, braB, ketB *matrix.Dense[float64]) *system {
	t.Helper()

	return &system{
		nb:    nb,
		nocc:  nocc,
		bra:   [2]*matrix.Dense[float64]{braA, braB},
		ket:   [2]*matrix.Dense[float64]{ketA, ketB},
		hcore: symmetric(nb, 101),
		eri:   integrals(nb, 202),
		vc:    0.37,
	}
}

func (s *system) pairings(t testing.TB) [2]*lowdin.Pairing[float64] {
	t.Helper()
	var out [2]*lowdin.Pairing[float64]
	for spin := range out {
		p, err := lowdin.Pair(s.bra[spin], s.ket[spin], matrix.Identity[float64](s.nb), s.nocc)
		require.NoError(t, err)
		out[spin] = p
	}

	return out
}

func (s *system) engine(t testing.TB, withOneBody, withTwoBody bool, opts ...wick.Option) *wick.Engine[float64] {
	t.Helper()
	p := s.pairings(t)
	e, err := wick.New(s.nb, s.nb, p[wick.Alpha], p[wick.Beta], opts...)
	require.NoError(t, err)
	var h, v *matrix.Dense[float64]
	if withOneBody {
		h = s.hcore
	}
	if withTwoBody {
		v = s.eri
	}
	require.NoError(t, e.Configure(s.vc, h, v))

	return e
}

// pattern is one bra/ket excitation pattern quadruple.
type pattern struct {
	name           string
	xa, xb, wa, wb []wick.Excitation
}

func ex(pairs ...int) []wick.Excitation {
	out := make([]wick.Excitation, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, wick.Excitation{Hole: pairs[i], Particle: pairs[i+1]})
	}

	return out
}

// patterns covers zero to three excitation slots per spin on a five-orbital,
// two-electron-per-spin system.
func patterns() []pattern {
	return []pattern{
		{name: "reference"},
		{name: "bra alpha single", xa: ex(0, 2)},
		{name: "ket alpha single", wa: ex(1, 3)},
		{name: "ket beta single", wb: ex(0, 4)},
		{name: "alpha single both sides", xa: ex(0, 2), wa: ex(1, 4)},
		{name: "ket alpha double", wa: ex(0, 2, 1, 3)},
		{name: "bra alpha double ket beta single", xa: ex(0, 3, 1, 4), wb: ex(0, 2)},
		{name: "beta single both sides", xb: ex(1, 2), wb: ex(0, 4)},
		{name: "mixed four singles", xa: ex(0, 2), xb: ex(1, 3), wa: ex(1, 2), wb: ex(0, 2)},
		{name: "alpha three slots", xa: ex(1, 4), wa: ex(0, 3, 1, 2), wb: ex(1, 4)},
		{name: "opposite spin double", wa: ex(0, 2), wb: ex(1, 3)},
	}
}

// reference evaluates S and H by brute force from the excited determinants,
// using cofactor expansions of the occupied overlap, which stay valid when the
// overlap is singular.
func (s *system) reference(t testing.TB, p pattern) (float64, float64) {
	t.Helper()
	xs := [2][][]float64{s.occupied(t, s.bra[wick.Alpha], p.xa), s.occupied(t, s.bra[wick.Beta], p.xb)}
	ws := [2][][]float64{s.occupied(t, s.ket[wick.Alpha], p.wa), s.occupied(t, s.ket[wick.Beta], p.wb)}

	var ov, f, e2 [2]float64
	var a [2]*matrix.Dense[float64]
	for spin := 0; spin < 2; spin++ {
		a[spin] = overlapMatrix(xs[spin], ws[spin])
		ov[spin] = minorDet(t, a[spin], nil, nil)
		f[spin] = s.oneBodyRef(t, a[spin], xs[spin], ws[spin])
		e2[spin] = s.sameSpinRef(t, a[spin], xs[spin], ws[spin])
	}
	eab := s.diffSpinRef(t, a, xs, ws)

	ovl := ov[0] * ov[1]
	h := s.vc*ovl + f[0]*ov[1] + ov[0]*f[1] + e2[0]*ov[1] + ov[0]*e2[1] + eab

	return ovl, h
}

// spinReference returns the overlap and one-body element of one spin channel.
func (s *system) spinReference(t testing.TB, spin wick.Spin, x, w []wick.Excitation) (float64, float64) {
	t.Helper()
	xs := s.occupied(t, s.bra[spin], x)
	ws := s.occupied(t, s.ket[spin], w)
	a := overlapMatrix(xs, ws)

	return minorDet(t, a, nil, nil), s.oneBodyRef(t, a, xs, ws)
}

// occupied returns the occupied columns of c with each hole replaced in place
// by its particle.
func (s *system) occupied(t testing.TB, c *matrix.Dense[float64], p []wick.Excitation) [][]float64 {
	t.Helper()
	out := make([][]float64, s.nocc)
	var err error
	for i := range out {
		out[i], err = c.Col(i)
		require.NoError(t, err)
	}
	for _, e := range p {
		require.Less(t, e.Hole, s.nocc)
		out[e.Hole], err = c.Col(e.Particle)
		require.NoError(t, err)
	}

	return out
}

func overlapMatrix(xs, ws [][]float64) *matrix.Dense[float64] {
	a := matrix.Zeros[float64](len(xs), len(ws))
	for i, x := range xs {
		for j, w := range ws {
			_ = a.Set(i, j, dot(x, w))
		}
	}

	return a
}

// minorDet returns det(a) with the listed rows and columns removed.
func minorDet[T matrix.Scalar](t testing.TB, a *matrix.Dense[T], rows, cols []int) T {
	t.Helper()
	keep := func(n int, drop []int) []int {
		out := make([]int, 0, n)
		for i := 0; i < n; i++ {
			skip := false
			for _, d := range drop {
				skip = skip || d == i
			}
			if !skip {
				out = append(out, i)
			}
		}

		return out
	}
	m, err := a.Induced(keep(a.Rows(), rows), keep(a.Cols(), cols))
	require.NoError(t, err)
	d, err := ops.Det(m)
	require.NoError(t, err)

	return d
}

func sign(k int) float64 {
	if k%2 == 0 {
		return 1
	}

	return -1
}

func (s *system) oneBodyRef(t testing.TB, a *matrix.Dense[float64], xs, ws [][]float64) float64 {
	var v float64
	for i, x := range xs {
		for j, w := range ws {
			v += s.bilinear(x, w) * sign(i+j) * minorDet(t, a, []int{i}, []int{j})
		}
	}

	return v
}

func (s *system) sameSpinRef(t testing.TB, a *matrix.Dense[float64], xs, ws [][]float64) float64 {
	var v float64
	n := len(xs)
	for i := 0; i < n; i++ {
		for k := i + 1; k < n; k++ {
			for j := 0; j < n; j++ {
				for l := j + 1; l < n; l++ {
					g := s.coulomb(xs[i], ws[j], xs[k], ws[l]) - s.coulomb(xs[i], ws[l], xs[k], ws[j])
					v += g * sign(i+j+k+l) * minorDet(t, a, []int{i, k}, []int{j, l})
				}
			}
		}
	}

	return v
}

func (s *system) diffSpinRef(t testing.TB, a [2]*matrix.Dense[float64], xs, ws [2][][]float64) float64 {
	var v float64
	for i, xa := range xs[0] {
		for j, wa := range ws[0] {
			ca := sign(i+j) * minorDet(t, a[0], []int{i}, []int{j})
			if ca == 0 {
				continue
			}
			for k, xb := range xs[1] {
				for l, wb := range ws[1] {
					cb := sign(k+l) * minorDet(t, a[1], []int{k}, []int{l})
					v += s.coulomb(xa, wa, xb, wb) * ca * cb
				}
			}
		}
	}

	return v
}

func (s *system) bilinear(x, w []float64) float64 {
	var v float64
	for m := range x {
		for n := range w {
			v += x[m] * s.hcore.Get(m, n) * w[n]
		}
	}

	return v
}

// coulomb returns (x1 w1|x2 w2) in chemists' notation.
func (s *system) coulomb(x1, w1, x2, w2 []float64) float64 {
	nb := s.nb
	var v float64
	for m := 0; m < nb; m++ {
		for n := 0; n < nb; n++ {
			d := x1[m] * w1[n]
			if d == 0 {
				continue
			}
			for r := 0; r < nb; r++ {
				for q := 0; q < nb; q++ {
					v += d * x2[r] * w2[q] * s.eri.Get(m*nb+n, r*nb+q)
				}
			}
		}
	}

	return v
}

// nonorthogonal: four unrelated random orthonormal sets, no zero overlaps.
func nonorthogonal(t testing.TB) *system {
	const nb = 5

	return newSystem(t, nb, 2,
		orthogonal(t, nb, 1), orthogonal(t, nb, 2),
		orthogonal(t, nb, 3), orthogonal(t, nb, 4))
}

// oneZero: the alpha ket occupies a rotated copy of one bra orbital plus a bra
// virtual, so the alpha overlap has exactly one vanishing singular value.
func oneZero(t testing.TB) *system {
	const nb = 5
	c, sn := math.Cos(0.3), math.Sin(0.3)
	r := orthogonal(t, nb, 7)
	ketA := rotated(t, r, map[int]map[int]float64{
		0: {0: c, 1: sn},
		1: {2: 1},
		2: {0: -sn, 1: c},
	})

	return newSystem(t, nb, 2, r, ketA, orthogonal(t, nb, 8), orthogonal(t, nb, 9))
}

// twoZeros: alpha bra and ket occupy orthogonal subspaces; the beta channel
// carries one zero.
func twoZeros(t testing.TB) *system {
	const nb = 5
	r := orthogonal(t, nb, 11)
	ketA := rotated(t, r, map[int]map[int]float64{
		0: {2: 1},
		1: {3: 1},
		2: {0: 1},
		3: {1: 1},
	})
	rb := orthogonal(t, nb, 12)
	ketB := rotated(t, rb, map[int]map[int]float64{
		0: {1: 1},
		1: {2: 1},
		2: {0: 1},
	})

	return newSystem(t, nb, 2, r, ketA, rb, ketB)
}
