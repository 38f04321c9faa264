// SPDX-License-Identifier: MIT

package wick

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/katalvlaran/gnme/lowdin"
	"github.com/katalvlaran/gnme/matrix"
)

// Engine evaluates matrix elements between excitations of one bra/ket orbital pair.
type Engine[T matrix.Scalar] struct {
	nbsf, nmo int
	pair      [2]*lowdin.Pairing[T]
	opts      options

	vc    T
	setup *Setup[T]
}

// New binds an engine to the alpha and beta pairings of an orbital pair.
//
// Errors: ErrShape when a pairing is nil or was built for another basis size
// or orbital count.
func New[T matrix.Scalar](nbsf, nmo int, alpha, beta *lowdin.Pairing[T], opts ...Option) (*Engine[T], error) {
	pairs := [2]*lowdin.Pairing[T]{alpha, beta}
	for spin, p := range pairs {
		if p == nil {
			return nil, errors.Wrapf(ErrShape, "%s pairing is nil", Spin(spin))
		}
		if p.NBasis != nbsf || p.NOrb != nmo {
			return nil, errors.Wrapf(ErrShape, "%s pairing is %dx%d, engine %dx%d", Spin(spin), p.NBasis, p.NOrb, nbsf, nmo)
		}
	}
	e := &Engine[T]{nbsf: nbsf, nmo: nmo, pair: pairs, opts: gatherOptions(opts)}
	e.opts.logger.Debug("wick engine created",
		zap.Int("nbsf", nbsf),
		zap.Int("nmo", nmo),
		zap.Int("zeros_alpha", alpha.Zeros),
		zap.Int("zeros_beta", beta.Zeros),
	)

	return e, nil
}

// Configure registers the constant term and the optional one-body operator
// (nbsf×nbsf) and two-electron integrals (nbsf²×nbsf²) and runs the setup
// stage. A failed Configure leaves the previous configuration in place.
//
// Errors: ErrShape.
func (e *Engine[T]) Configure(vc T, oneBody, twoBody *matrix.Dense[T]) error {
	s, err := NewSetup(e.pair[Alpha], e.pair[Beta], oneBody, twoBody,
		WithLogger(e.opts.logger), WithWorkers(e.opts.workers))
	if err != nil {
		return err
	}
	e.vc, e.setup = vc, s

	return nil
}

// Setup returns the tensors of the last Configure call, or nil.
func (e *Engine[T]) Setup() *Setup[T] { return e.setup }

// ReducedOverlap returns the reduced overlap of a spin channel.
func (e *Engine[T]) ReducedOverlap(spin Spin) T { return e.pair[spin].ReducedOverlap }

// EvaluateOverlap returns S = redSa·redSb·sa·sb for bra patterns (xa, xb)
// and ket patterns (wa, wb).
func (e *Engine[T]) EvaluateOverlap(xa, xb, wa, wb []Excitation) (T, error) {
	var s T
	if err := e.validate(xa, xb, wa, wb); err != nil {
		return s, err
	}
	sa, sb, err := e.overlaps(xa, xb, wa, wb)
	if err != nil {
		return s, err
	}

	return e.redS() * sa * sb, nil
}

// Evaluate returns the overlap and the Hamiltonian matrix element
//
//	V = S·Vc + redSa·redSb·(Va·sb + Vb·sa) + ½·redSa·redSb·(Vaa·sb + Vbb·sa + 2·Vab)
//
// where the one-body and two-body parts are present only when configured.
func (e *Engine[T]) Evaluate(xa, xb, wa, wb []Excitation) (T, T, error) {
	var s, v T
	if err := e.validate(xa, xb, wa, wb); err != nil {
		return s, v, err
	}
	sa, sb, err := e.overlaps(xa, xb, wa, wb)
	if err != nil {
		return s, v, err
	}
	red := e.redS()
	s = red * sa * sb
	v = s * e.vc
	if e.setup == nil {
		return s, v, nil
	}

	if e.setup.oneBody {
		va, err := e.spinOneBody(xa, wa, Alpha)
		if err != nil {
			return s, v, errors.Wrap(err, "alpha one-body")
		}
		vb, err := e.spinOneBody(xb, wb, Beta)
		if err != nil {
			return s, v, errors.Wrap(err, "beta one-body")
		}
		v += red * (va*sb + vb*sa)
	}

	if e.setup.twoBody {
		vaa, err := e.sameSpinTwoBody(xa, wa, Alpha)
		if err != nil {
			return s, v, errors.Wrap(err, "alpha-alpha two-body")
		}
		vbb, err := e.sameSpinTwoBody(xb, wb, Beta)
		if err != nil {
			return s, v, errors.Wrap(err, "beta-beta two-body")
		}
		vab, err := e.diffSpinTwoBody(xa, xb, wa, wb)
		if err != nil {
			return s, v, errors.Wrap(err, "alpha-beta two-body")
		}
		v += 0.5 * red * (vaa*sb + vbb*sa + 2*vab)
	}

	return s, v, nil
}

// EvaluateOneBody returns (redS·s, redS·f) for one spin channel, the spin
// overlap and the one-body matrix element between bra pattern x and ket
// pattern w.
//
// Errors: ErrSpin, ErrExcitation, ErrNotConfigured.
func (e *Engine[T]) EvaluateOneBody(x, w []Excitation, spin Spin) (T, T, error) {
	var s, f T
	if !spin.valid() {
		return s, f, errors.Wrapf(ErrSpin, "%d", int(spin))
	}
	if e.setup == nil || !e.setup.oneBody {
		return s, f, errors.Wrap(ErrNotConfigured, "one-body operator")
	}
	if err := validatePattern(x, e.nmo, "bra", spin); err != nil {
		return s, f, err
	}
	if err := validatePattern(w, e.nmo, "ket", spin); err != nil {
		return s, f, err
	}
	red := e.pair[spin].ReducedOverlap

	sspin, err := e.spinOverlap(x, w, spin)
	if err != nil {
		return s, f, errors.Wrapf(err, "%s overlap", spin)
	}
	fspin, err := e.spinOneBody(x, w, spin)
	if err != nil {
		return s, f, errors.Wrapf(err, "%s one-body", spin)
	}

	return red * sspin, red * fspin, nil
}

// Evaluate1RDM returns the overlap and the AO-basis one-particle transition
// density P = redSa·redSb·(Pa·sb + sa·Pb). Tr(h·P) reproduces the one-body
// part of Evaluate for any one-body operator h.
func (e *Engine[T]) Evaluate1RDM(xa, xb, wa, wb []Excitation) (T, *matrix.Dense[T], error) {
	var s T
	if err := e.validate(xa, xb, wa, wb); err != nil {
		return s, nil, err
	}
	sa, sb, err := e.overlaps(xa, xb, wa, wb)
	if err != nil {
		return s, nil, err
	}
	red := e.redS()
	s = red * sa * sb

	pa, err := e.spinRDM(xa, wa, Alpha)
	if err != nil {
		return s, nil, errors.Wrap(err, "alpha density")
	}
	pb, err := e.spinRDM(xb, wb, Beta)
	if err != nil {
		return s, nil, errors.Wrap(err, "beta density")
	}
	out := matrix.Zeros[T](e.nbsf, e.nbsf)
	if err = matrix.AddScaledInPlace(out, red*sb, pa); err != nil {
		return s, nil, errors.Wrap(err, "density")
	}
	if err = matrix.AddScaledInPlace(out, red*sa, pb); err != nil {
		return s, nil, errors.Wrap(err, "density")
	}

	return s, out, nil
}

func (e *Engine[T]) redS() T {
	return e.pair[Alpha].ReducedOverlap * e.pair[Beta].ReducedOverlap
}

func (e *Engine[T]) overlaps(xa, xb, wa, wb []Excitation) (T, T, error) {
	sa, err := e.spinOverlap(xa, wa, Alpha)
	if err != nil {
		return sa, sa, errors.Wrap(err, "alpha overlap")
	}
	sb, err := e.spinOverlap(xb, wb, Beta)
	if err != nil {
		return sa, sb, errors.Wrap(err, "beta overlap")
	}

	return sa, sb, nil
}

func (e *Engine[T]) validate(xa, xb, wa, wb []Excitation) error {
	checks := [4]struct {
		p    []Excitation
		side string
		spin Spin
	}{
		{xa, "bra", Alpha},
		{xb, "bra", Beta},
		{wa, "ket", Alpha},
		{wb, "ket", Beta},
	}
	for _, c := range checks {
		if err := validatePattern(c.p, e.nmo, c.side, c.spin); err != nil {
			return err
		}
	}

	return nil
}
