// SPDX-License-Identifier: MIT

// Package matrix provides the dense linear-algebra substrate of gnme.
//
// The package offers:
//
//   - Dense[T], a row-major matrix over T ∈ {float64, complex128} with
//     bounds-checked accessors and zero-area shapes (a 0×0 block is a legal
//     empty determinant).
//   - Algebra kernels (Add, Sub, Scale, Mul, Transpose, ConjTranspose, Dot,
//     TraceProduct, HStack, AddOuter) that validate operands and allocate a
//     fresh result.
//   - Sub-matrix assembly for determinant expansions (Induced, LowerUpper,
//     MixColumns, WithColumn, WithUnitColumn, Without). All of them are
//     copy-on-write, so a shared base matrix is never mutated.
//   - Validators and sentinel errors. Kernels never panic on user input;
//     failures are reported as sentinel errors wrapped with an operation tag
//     and matched with errors.Is.
//
// Determinants live in the ops subpackage.
package matrix
