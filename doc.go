// SPDX-License-Identifier: MIT

// Package gnme evaluates matrix elements between nonorthogonal Slater
// determinants with the generalised Wick theorem.
//
// 🚀 What is in the box?
//
//   - Löwdin pairing of a bra and a ket orbital set, zero overlaps included
//   - Overlaps, one-body and two-body Hamiltonian elements between arbitrary
//     excitations of the two reference determinants
//   - AO-basis one-particle transition density matrices
//   - Real (float64) and complex (complex128) instantiations
//
// Under the hood the module is organised as:
//
//	matrix/      generic dense row-major matrices and the kernels the engine needs
//	matrix/ops/  LU factorisation and determinants
//	lowdin/      pairing of orbital sets, contraction matrices X, Y, CX, XC
//	ao2mo/       four-index integral transformation
//	wick/        setup stage and evaluators (the Engine)
//	config/      YAML job files
//	cmd/gnme/    command-line front end
//
// Quick example:
//
//	alpha, _ := lowdin.Pair(cxA, cwA, metric, nalpha)
//	beta, _ := lowdin.Pair(cxB, cwB, metric, nbeta)
//	eng, _ := wick.New(nbsf, nmo, alpha, beta)
//	_ = eng.Configure(enuc, hcore, eri)
//	s, h, _ := eng.Evaluate(nil, nil, []wick.Excitation{{Hole: 0, Particle: 3}}, nil)
//
// Install:
//
//	go get github.com/katalvlaran/gnme/wick
package gnme
