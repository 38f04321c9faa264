// SPDX-License-Identifier: MIT

package config

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/katalvlaran/gnme/lowdin"
	"github.com/katalvlaran/gnme/matrix"
	"github.com/katalvlaran/gnme/wick"
)

// Patterns is the engine form of one Pattern.
type Patterns struct {
	Name           string
	XA, XB, WA, WB []wick.Excitation
}

// MetricMatrix returns the AO overlap, or the identity when none is given.
func (j *Job) MetricMatrix() (*matrix.Dense[float64], error) {
	if len(j.Metric) == 0 {
		return matrix.Identity[float64](j.NBasis), nil
	}

	return dense("metric", j.Metric)
}

// OneBodyMatrix returns the core Hamiltonian or nil.
func (j *Job) OneBodyMatrix() (*matrix.Dense[float64], error) {
	if len(j.OneBody) == 0 {
		return nil, nil
	}

	return dense("one_body", j.OneBody)
}

// TwoBodyMatrix expands the unique integrals into the nbsf²×nbsf² tensor
// (pq|rs) at row p·nbsf+q, column r·nbsf+s, or returns nil.
func (j *Job) TwoBodyMatrix() *matrix.Dense[float64] {
	if len(j.TwoBody) == 0 {
		return nil
	}
	n := j.NBasis
	eri := matrix.Zeros[float64](n*n, n*n)
	d := eri.Data()
	for _, e := range j.TwoBody {
		p, q, r, s, v := int(e[0]), int(e[1]), int(e[2]), int(e[3]), e[4]
		for _, idx := range [8][4]int{
			{p, q, r, s}, {q, p, r, s}, {p, q, s, r}, {q, p, s, r},
			{r, s, p, q}, {s, r, p, q}, {r, s, q, p}, {s, r, q, p},
		} {
			d[(idx[0]*n+idx[1])*n*n+idx[2]*n+idx[3]] = v
		}
	}

	return eri
}

// Patterns converts the excitation entries.
func (j *Job) Patterns() []Patterns {
	out := make([]Patterns, len(j.Excitations))
	for i, p := range j.Excitations {
		out[i] = Patterns{
			Name: p.Name,
			XA:   excitations(p.BraAlpha),
			XB:   excitations(p.BraBeta),
			WA:   excitations(p.KetAlpha),
			WB:   excitations(p.KetBeta),
		}
	}

	return out
}

// Engine pairs the orbitals, builds a configured wick engine and logs the
// pairing outcome.
func (j *Job) Engine(logger *zap.Logger) (*wick.Engine[float64], error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	metric, err := j.MetricMatrix()
	if err != nil {
		return nil, err
	}

	var pairs [2]*lowdin.Pairing[float64]
	nocc := [2]int{j.NAlpha, j.NBeta}
	for spin, orb := range [2][2][][]float64{
		{j.Orbitals.Bra.Alpha, j.Orbitals.Ket.Alpha},
		{fallback(j.Orbitals.Bra.Beta, j.Orbitals.Bra.Alpha), fallback(j.Orbitals.Ket.Beta, j.Orbitals.Ket.Alpha)},
	} {
		cx, err := dense("bra orbitals", orb[0])
		if err != nil {
			return nil, err
		}
		cw, err := dense("ket orbitals", orb[1])
		if err != nil {
			return nil, err
		}
		if pairs[spin], err = lowdin.Pair(cx, cw, metric, nocc[spin], lowdin.WithThreshold(j.Threshold)); err != nil {
			return nil, errors.Wrapf(err, "pair %s orbitals", wick.Spin(spin))
		}
		logger.Info("orbitals paired",
			zap.Stringer("spin", wick.Spin(spin)),
			zap.Int("nocc", nocc[spin]),
			zap.Int("zeros", pairs[spin].Zeros),
			zap.Float64("reduced_overlap", pairs[spin].ReducedOverlap),
		)
	}

	eng, err := wick.New(j.NBasis, j.NOrb, pairs[wick.Alpha], pairs[wick.Beta],
		wick.WithLogger(logger), wick.WithWorkers(j.Workers))
	if err != nil {
		return nil, err
	}
	h, err := j.OneBodyMatrix()
	if err != nil {
		return nil, err
	}
	if err = eng.Configure(j.Constant, h, j.TwoBodyMatrix()); err != nil {
		return nil, errors.Wrap(err, "configure engine")
	}

	return eng, nil
}

func dense(name string, rows [][]float64) (*matrix.Dense[float64], error) {
	m, err := matrix.FromRows(rows)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}

	return m, nil
}

func excitations(pairs [][]int) []wick.Excitation {
	out := make([]wick.Excitation, len(pairs))
	for i, hp := range pairs {
		out[i] = wick.Excitation{Hole: hp[0], Particle: hp[1]}
	}

	return out
}

func fallback(v, def [][]float64) [][]float64 {
	if len(v) == 0 {
		return def
	}

	return v
}
