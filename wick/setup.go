// SPDX-License-Identifier: MIT

package wick

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/gnme/ao2mo"
	"github.com/katalvlaran/gnme/lowdin"
	"github.com/katalvlaran/gnme/matrix"
)

// Setup holds everything the evaluators precompute for one orbital pair.
// It is immutable after NewSetup returns.
//
// Order-indexed tensors are fixed arrays; entries for an order that a spin
// channel does not use (order 1 without vanishing singular values) are nil.
type Setup[T matrix.Scalar] struct {
	nbsf, nmo int
	orders    [2]int // 1 or 2 contraction orders per spin

	oneBody bool
	f0      [2][2]T                   // [spin][k] tr(F·M[k])
	xfx     [2][2][2]*matrix.Dense[T] // [spin][i][j] CX[i]†·F·XC[j]

	twoBody bool
	v0      [2][3]T                      // [spin][k0+k1] tr(G[k1]·M[k0]) per order pair
	vab     [2][2]T                      // [ka][kb] tr(Ja[ka]·Mb[kb])
	xvx     [2][2][2][2]*matrix.Dense[T] // [spin][i][k][j] CX[i]†·(J[k]-K[k])·XC[j]
	xjx     [2][2][2][2]*matrix.Dense[T] // [spin][i][k][j] CX[i]†·J_other[k]·XC[j]
	ii      [2][4][4]*matrix.Dense[T]    // [spin][2i+j][2k+l] antisymmetrised blocks
	iiab    [4][4]*matrix.Dense[T]       // alpha pair rows, beta pair columns
	iiba    [4][4]*matrix.Dense[T]       // transpose of iiab
}

// NewSetup runs the setup stage. oneBody (nbsf×nbsf) and twoBody
// (nbsf²×nbsf²) are optional; the integrals are only read during the call
// and are not retained.
//
// Errors: ErrShape.
// Complexity: dominated by the Coulomb/exchange products, O(nbsf⁴) per
// co-density, and the four-index blocks, O(nbsf⁴·nmo) each.
func NewSetup[T matrix.Scalar](alpha, beta *lowdin.Pairing[T], oneBody, twoBody *matrix.Dense[T], opts ...Option) (*Setup[T], error) {
	o := gatherOptions(opts)
	if alpha == nil || beta == nil {
		return nil, errors.Wrap(ErrShape, "setup: nil pairing")
	}
	nb, nmo := alpha.NBasis, alpha.NOrb
	if beta.NBasis != nb || beta.NOrb != nmo {
		return nil, errors.Wrapf(ErrShape, "setup: beta pairing %dx%d, alpha %dx%d", beta.NBasis, beta.NOrb, nb, nmo)
	}
	if oneBody != nil {
		if err := matrix.ValidateShape(oneBody, nb, nb); err != nil {
			return nil, errors.Wrapf(ErrShape, "setup: one-body operator: %v", err)
		}
	}
	if twoBody != nil {
		if err := matrix.ValidateShape(twoBody, nb*nb, nb*nb); err != nil {
			return nil, errors.Wrapf(ErrShape, "setup: two-body integrals: %v", err)
		}
	}

	start := time.Now()
	s := &Setup[T]{nbsf: nb, nmo: nmo}
	pairs := [2]*lowdin.Pairing[T]{alpha, beta}
	for spin := range pairs {
		s.orders[spin] = pairs[spin].Orders()
	}

	if oneBody != nil {
		if err := s.buildOneBody(pairs, oneBody); err != nil {
			return nil, err
		}
	}
	if twoBody != nil {
		if err := s.buildTwoBody(pairs, twoBody, o.workers); err != nil {
			return nil, err
		}
	}

	o.logger.Debug("wick setup done",
		zap.Int("nbsf", nb),
		zap.Int("nmo", nmo),
		zap.Int("zeros_alpha", alpha.Zeros),
		zap.Int("zeros_beta", beta.Zeros),
		zap.Bool("one_body", s.oneBody),
		zap.Bool("two_body", s.twoBody),
		zap.Duration("elapsed", time.Since(start)),
	)

	return s, nil
}

// Orders returns the number of contraction orders used for a spin.
func (s *Setup[T]) Orders(spin Spin) int { return s.orders[spin] }

// HasOneBody reports whether a one-body operator was configured.
func (s *Setup[T]) HasOneBody() bool { return s.oneBody }

// HasTwoBody reports whether two-electron integrals were configured.
func (s *Setup[T]) HasTwoBody() bool { return s.twoBody }

// ZeroOrder returns the same-spin zero-order scalar for a summed order k0+k1.
func (s *Setup[T]) ZeroOrder(spin Spin, sum int) T { return s.v0[spin][sum] }

// CrossZeroOrder returns tr(Ja[ka]·Mb[kb]).
func (s *Setup[T]) CrossZeroOrder(ka, kb int) T { return s.vab[ka][kb] }

// EffectiveOperator returns a copy of CX[i]†·(J[k]-K[k])·XC[j] for a spin,
// or nil when an order is not in use.
func (s *Setup[T]) EffectiveOperator(spin Spin, i, k, j int) *matrix.Dense[T] {
	return cloneOrNil(s.xvx[spin][i][k][j])
}

func cloneOrNil[T matrix.Scalar](m *matrix.Dense[T]) *matrix.Dense[T] {
	if m == nil {
		return nil
	}

	return m.Clone()
}

func (s *Setup[T]) buildOneBody(pairs [2]*lowdin.Pairing[T], f *matrix.Dense[T]) error {
	var err error
	for spin, p := range pairs {
		d := s.orders[spin]
		for k := 0; k < d; k++ {
			if s.f0[spin][k], err = matrix.TraceProduct(f, p.M[k]); err != nil {
				return errors.Wrap(err, "setup: one-body trace")
			}
		}
		for i := 0; i < d; i++ {
			for j := 0; j < d; j++ {
				if s.xfx[spin][i][j], err = sandwich(p.CX[i], f, p.XC[j]); err != nil {
					return errors.Wrap(err, "setup: one-body operator")
				}
			}
		}
	}
	s.oneBody = true

	return nil
}

func (s *Setup[T]) buildTwoBody(pairs [2]*lowdin.Pairing[T], eri *matrix.Dense[T], workers int) error {
	da, db := s.orders[Alpha], s.orders[Beta]

	// Coulomb/exchange for every spin and order, spin-major.
	dens := make([]*matrix.Dense[T], 0, 4)
	for spin, p := range pairs {
		for k := 0; k < s.orders[spin]; k++ {
			dens = append(dens, p.M[k])
		}
	}
	js, ks, err := coulombExchange(eri, dens, s.nbsf, workers)
	if err != nil {
		return err
	}
	var J, G [2][2]*matrix.Dense[T]
	idx := 0
	for spin := range pairs {
		for k := 0; k < s.orders[spin]; k++ {
			J[spin][k] = js[idx]
			if G[spin][k], err = matrix.Sub(js[idx], ks[idx]); err != nil {
				return errors.Wrap(err, "setup: J-K")
			}
			idx++
		}
	}

	// Zero-order scalars.
	for spin, p := range pairs {
		if s.v0[spin][0], err = matrix.TraceProduct(G[spin][0], p.M[0]); err != nil {
			return errors.Wrap(err, "setup: zero-order")
		}
		if s.orders[spin] == 2 {
			if s.v0[spin][1], err = matrix.TraceProduct(G[spin][0], p.M[1]); err != nil {
				return errors.Wrap(err, "setup: zero-order")
			}
			if s.v0[spin][2], err = matrix.TraceProduct(G[spin][1], p.M[1]); err != nil {
				return errors.Wrap(err, "setup: zero-order")
			}
		}
	}
	for i := 0; i < da; i++ {
		for j := 0; j < db; j++ {
			if s.vab[i][j], err = matrix.TraceProduct(J[Alpha][i], pairs[Beta].M[j]); err != nil {
				return errors.Wrap(err, "setup: cross zero-order")
			}
		}
	}

	// Effective one-body operators.
	for spin, p := range pairs {
		d, dOther := s.orders[spin], s.orders[1-spin]
		for i := 0; i < d; i++ {
			for j := 0; j < d; j++ {
				for k := 0; k < d; k++ {
					if s.xvx[spin][i][k][j], err = sandwich(p.CX[i], G[spin][k], p.XC[j]); err != nil {
						return errors.Wrap(err, "setup: same-spin operator")
					}
				}
				for k := 0; k < dOther; k++ {
					if s.xjx[spin][i][k][j], err = sandwich(p.CX[i], J[1-spin][k], p.XC[j]); err != nil {
						return errors.Wrap(err, "setup: cross-spin operator")
					}
				}
			}
		}
	}

	// Four-index blocks.
	for spin, p := range pairs {
		d := s.orders[spin]
		for i := 0; i < d; i++ {
			for j := 0; j < d; j++ {
				for k := 0; k < d; k++ {
					for l := 0; l < d; l++ {
						if s.ii[spin][2*i+j][2*k+l], err = ao2mo.Transform(p.CX[i], p.XC[j], p.CX[k], p.XC[l], eri, true); err != nil {
							return errors.Wrap(err, "setup: same-spin integrals")
						}
					}
				}
			}
		}
	}
	pa, pb := pairs[Alpha], pairs[Beta]
	for i := 0; i < da; i++ {
		for j := 0; j < da; j++ {
			for k := 0; k < db; k++ {
				for l := 0; l < db; l++ {
					ab, err := ao2mo.Transform(pa.CX[i], pa.XC[j], pb.CX[k], pb.XC[l], eri, false)
					if err != nil {
						return errors.Wrap(err, "setup: cross-spin integrals")
					}
					s.iiab[2*i+j][2*k+l] = ab
					if s.iiba[2*k+l][2*i+j], err = matrix.Transpose(ab); err != nil {
						return errors.Wrap(err, "setup: cross-spin integrals")
					}
				}
			}
		}
	}
	s.twoBody = true

	return nil
}

// sandwich returns a†·op·b.
func sandwich[T matrix.Scalar](a, op, b *matrix.Dense[T]) (*matrix.Dense[T], error) {
	ah, err := matrix.ConjTranspose(a)
	if err != nil {
		return nil, err
	}

	return matrix.Product(ah, op, b)
}

// coulombExchange contracts the AO integrals with each density:
//
//	J(s,t) = Σ_mn (mn|st)·M(n,m)
//	K(s,t) = Σ_mn (mt|sn)·M(n,m)
//
// Both are dense products against the nbsf²×len(dens) matrix whose column x
// is vec(M_xᵀ). J uses the integral rows directly, relying on (mn|st) = (st|mn);
// K uses the same rows with the (mt|sn) indices permuted. Each goroutine owns
// the nbsf output rows (s,·) of one s, so the summation order of every entry
// is fixed and results do not depend on the worker count.
func coulombExchange[T matrix.Scalar](eri *matrix.Dense[T], dens []*matrix.Dense[T], nb, workers int) ([]*matrix.Dense[T], []*matrix.Dense[T], error) {
	nb2, nd := nb*nb, len(dens)
	vecs := matrix.Zeros[T](nb2, nd)
	vd := vecs.Data()
	for x, dm := range dens {
		for m := 0; m < nb; m++ {
			for n := 0; n < nb; n++ {
				vd[(m*nb+n)*nd+x] = dm.Get(n, m)
			}
		}
	}

	js := make([]*matrix.Dense[T], nd)
	ks := make([]*matrix.Dense[T], nd)
	for x := range dens {
		js[x] = matrix.Zeros[T](nb, nb)
		ks[x] = matrix.Zeros[T](nb, nb)
	}
	ed := eri.Data()

	var g errgroup.Group
	g.SetLimit(workers)
	for s := 0; s < nb; s++ {
		g.Go(func() error {
			jb, err := matrix.NewDenseFrom(nb, nb2, ed[s*nb*nb2:(s+1)*nb*nb2])
			if err != nil {
				return err
			}
			// row t, column m·nb+n holds (mt|sn)
			kb := matrix.Zeros[T](nb, nb2)
			kd := kb.Data()
			for t := 0; t < nb; t++ {
				for m := 0; m < nb; m++ {
					src := (m*nb+t)*nb2 + s*nb
					copy(kd[t*nb2+m*nb:t*nb2+(m+1)*nb], ed[src:src+nb])
				}
			}

			jv, err := matrix.Mul(jb, vecs)
			if err != nil {
				return err
			}
			kv, err := matrix.Mul(kb, vecs)
			if err != nil {
				return err
			}
			for x := range dens {
				jrow := js[x].Data()[s*nb : (s+1)*nb]
				krow := ks[x].Data()[s*nb : (s+1)*nb]
				for t := 0; t < nb; t++ {
					jrow[t] = jv.Get(t, x)
					krow[t] = kv.Get(t, x)
				}
			}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, errors.Wrap(err, "setup: coulomb/exchange")
	}

	return js, ks, nil
}
