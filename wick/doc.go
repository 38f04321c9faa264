// SPDX-License-Identifier: MIT

// Package wick evaluates matrix elements between nonorthogonal determinants
// with the generalized Wick theorem.
//
// An Engine is bound to one bra/ket orbital pair through the per-spin
// lowdin.Pairing data. Configure registers a constant, an optional one-body
// operator and optional two-electron integrals and runs the setup stage once;
// afterwards any number of excitation patterns can be evaluated:
//
//	eng, _ := wick.New(nbsf, nmo, alpha, beta)
//	_ = eng.Configure(enuc, hcore, eri)
//	s, v, _ := eng.Evaluate(braA, braB, ketA, ketB)
//
// Excitation patterns are ordered (hole, particle) pairs over MO indices of
// the bra or the ket. When the orbital overlap of a spin channel has nz
// vanishing singular values, every contraction in the expansion is taken
// either from the regular co-density (order 0) or from the zero-overlap
// co-density (order 1), and all placements of the nz order-1 factors are
// summed. Too many zeros for the available excitations give an exact zero.
//
// The setup output is read-only, so concurrent evaluations on one configured
// Engine are safe. Configure itself must not race with evaluations.
package wick
