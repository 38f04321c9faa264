// SPDX-License-Identifier: MIT

// Package config reads YAML job files for the gnme command: the orbital pair,
// the Hamiltonian and the excitation patterns to evaluate.
package config

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/gnme/lowdin"
)

// ErrInvalid reports a job that fails validation.
var ErrInvalid = errors.New("config: invalid job")

// Job is one orbital pair with its Hamiltonian and a list of patterns.
type Job struct {
	NBasis int `yaml:"nbsf"`
	NOrb   int `yaml:"nmo"`
	NAlpha int `yaml:"nalpha"`
	NBeta  int `yaml:"nbeta"`

	// Constant is the scalar energy shift, typically nuclear repulsion.
	Constant  float64 `yaml:"constant"`
	Threshold float64 `yaml:"threshold"`
	Workers   int     `yaml:"workers"`

	// Metric is the AO overlap; empty means orthonormal.
	Metric   [][]float64 `yaml:"metric"`
	Orbitals Orbitals    `yaml:"orbitals"`

	// OneBody is the nbsf×nbsf core Hamiltonian; empty disables it.
	OneBody [][]float64 `yaml:"one_body"`
	// TwoBody lists unique integrals as [p, q, r, s, (pq|rs)]; the full
	// tensor is filled by eightfold permutational symmetry.
	TwoBody [][]float64 `yaml:"two_body"`

	Excitations []Pattern `yaml:"excitations"`
}

// Orbitals holds bra and ket MO coefficients (nbsf×nmo, row per AO).
type Orbitals struct {
	Bra SpinOrbitals `yaml:"bra"`
	Ket SpinOrbitals `yaml:"ket"`
}

// SpinOrbitals holds per-spin coefficients. Beta defaults to Alpha.
type SpinOrbitals struct {
	Alpha [][]float64 `yaml:"alpha"`
	Beta  [][]float64 `yaml:"beta"`
}

// Pattern is one named bra/ket excitation quadruple; each entry is a
// [hole, particle] pair.
type Pattern struct {
	Name     string  `yaml:"name"`
	BraAlpha [][]int `yaml:"bra_alpha"`
	BraBeta  [][]int `yaml:"bra_beta"`
	KetAlpha [][]int `yaml:"ket_alpha"`
	KetBeta  [][]int `yaml:"ket_beta"`
}

// DefaultJob returns a job with the default pairing threshold.
func DefaultJob() *Job {
	return &Job{Threshold: lowdin.DefaultThreshold}
}

// Load reads, decodes and validates a job file.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read job")
	}

	return Parse(data)
}

// Parse decodes and validates a YAML job. Unknown keys are rejected.
func Parse(data []byte) (*Job, error) {
	job := DefaultJob()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(job); err != nil {
		return nil, errors.Wrap(err, "parse job")
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}

	return job, nil
}

// Validate checks dimensions, occupations and excitation index ranges.
func (j *Job) Validate() error {
	if j.NBasis <= 0 || j.NOrb <= 0 {
		return errors.Wrapf(ErrInvalid, "nbsf=%d nmo=%d must be positive", j.NBasis, j.NOrb)
	}
	if j.NAlpha < 0 || j.NAlpha > j.NOrb || j.NBeta < 0 || j.NBeta > j.NOrb {
		return errors.Wrapf(ErrInvalid, "occupations %d/%d with %d orbitals", j.NAlpha, j.NBeta, j.NOrb)
	}
	if j.Threshold <= 0 {
		return errors.Wrapf(ErrInvalid, "threshold %g", j.Threshold)
	}
	if len(j.Metric) > 0 {
		if err := checkRows("metric", j.Metric, j.NBasis, j.NBasis); err != nil {
			return err
		}
	}
	for _, o := range []struct {
		name string
		rows [][]float64
		opt  bool
	}{
		{"orbitals.bra.alpha", j.Orbitals.Bra.Alpha, false},
		{"orbitals.bra.beta", j.Orbitals.Bra.Beta, true},
		{"orbitals.ket.alpha", j.Orbitals.Ket.Alpha, false},
		{"orbitals.ket.beta", j.Orbitals.Ket.Beta, true},
	} {
		if o.opt && len(o.rows) == 0 {
			continue
		}
		if err := checkRows(o.name, o.rows, j.NBasis, j.NOrb); err != nil {
			return err
		}
	}
	if len(j.OneBody) > 0 {
		if err := checkRows("one_body", j.OneBody, j.NBasis, j.NBasis); err != nil {
			return err
		}
	}
	for i, e := range j.TwoBody {
		if len(e) != 5 {
			return errors.Wrapf(ErrInvalid, "two_body[%d]: want [p, q, r, s, value], got %d entries", i, len(e))
		}
		for _, x := range e[:4] {
			if x != float64(int(x)) || x < 0 || int(x) >= j.NBasis {
				return errors.Wrapf(ErrInvalid, "two_body[%d]: index %g outside [0,%d)", i, x, j.NBasis)
			}
		}
	}
	for i, p := range j.Excitations {
		for _, side := range []struct {
			name  string
			pairs [][]int
			nocc  int
		}{
			{"bra_alpha", p.BraAlpha, j.NAlpha},
			{"bra_beta", p.BraBeta, j.NBeta},
			{"ket_alpha", p.KetAlpha, j.NAlpha},
			{"ket_beta", p.KetBeta, j.NBeta},
		} {
			for k, hp := range side.pairs {
				if len(hp) != 2 {
					return errors.Wrapf(ErrInvalid, "excitations[%d].%s[%d]: want [hole, particle]", i, side.name, k)
				}
				if hp[0] < 0 || hp[0] >= side.nocc {
					return errors.Wrapf(ErrInvalid, "excitations[%d].%s[%d]: hole %d not occupied", i, side.name, k, hp[0])
				}
				if hp[1] < side.nocc || hp[1] >= j.NOrb {
					return errors.Wrapf(ErrInvalid, "excitations[%d].%s[%d]: particle %d not virtual", i, side.name, k, hp[1])
				}
			}
		}
	}

	return nil
}

func checkRows(name string, rows [][]float64, r, c int) error {
	if len(rows) != r {
		return errors.Wrapf(ErrInvalid, "%s: %d rows, want %d", name, len(rows), r)
	}
	for i, row := range rows {
		if len(row) != c {
			return errors.Wrapf(ErrInvalid, "%s row %d: %d columns, want %d", name, i, len(row), c)
		}
	}

	return nil
}
