// SPDX-License-Identifier: MIT

package wick

import (
	"fmt"

	"github.com/pkg/errors"
)

// Spin selects a spin channel.
type Spin int

const (
	Alpha Spin = iota
	Beta
)

func (s Spin) String() string {
	switch s {
	case Alpha:
		return "alpha"
	case Beta:
		return "beta"
	}

	return fmt.Sprintf("Spin(%d)", int(s))
}

func (s Spin) valid() bool { return s == Alpha || s == Beta }

// Excitation substitutes occupied orbital Hole by orbital Particle.
// Both are MO indices on the side (bra or ket) the pattern belongs to.
type Excitation struct {
	Hole     int
	Particle int
}

// validatePattern checks index ranges and rejects repeated holes or particles.
func validatePattern(p []Excitation, nmo int, side string, s Spin) error {
	holes := make(map[int]struct{}, len(p))
	parts := make(map[int]struct{}, len(p))
	for i, ex := range p {
		if ex.Hole < 0 || ex.Hole >= nmo {
			return errors.Wrapf(ErrExcitation, "%s %s[%d]: hole %d outside [0,%d)", side, s, i, ex.Hole, nmo)
		}
		if ex.Particle < 0 || ex.Particle >= nmo {
			return errors.Wrapf(ErrExcitation, "%s %s[%d]: particle %d outside [0,%d)", side, s, i, ex.Particle, nmo)
		}
		if _, dup := holes[ex.Hole]; dup {
			return errors.Wrapf(ErrExcitation, "%s %s[%d]: hole %d repeated", side, s, i, ex.Hole)
		}
		if _, dup := parts[ex.Particle]; dup {
			return errors.Wrapf(ErrExcitation, "%s %s[%d]: particle %d repeated", side, s, i, ex.Particle)
		}
		holes[ex.Hole] = struct{}{}
		parts[ex.Particle] = struct{}{}
	}

	return nil
}

// slots builds the composite determinant indices of a bra/ket pattern pair.
// Rows are the bra particles followed by the ket holes, columns the bra holes
// followed by the ket particles; ket indices are shifted by nmo into the ket
// half of the bra⊕ket basis. The caller's patterns are not modified.
func slots(bra, ket []Excitation, nmo int) (rows, cols []int) {
	n := len(bra) + len(ket)
	rows = make([]int, 0, n)
	cols = make([]int, 0, n)
	for _, ex := range bra {
		rows = append(rows, ex.Particle)
		cols = append(cols, ex.Hole)
	}
	for _, ex := range ket {
		rows = append(rows, ex.Hole+nmo)
		cols = append(cols, ex.Particle+nmo)
	}

	return rows, cols
}
