// SPDX-License-Identifier: MIT

package wick

import "github.com/pkg/errors"

// Sentinel errors. Call sites wrap them with errors.Wrapf to name the offending
// operand; callers match with errors.Is.
var (
	// ErrShape reports integrals, operators or pairings whose dimensions do not
	// match the engine's basis size and orbital count.
	ErrShape = errors.New("wick: shape mismatch")

	// ErrExcitation reports a structurally invalid excitation pattern.
	ErrExcitation = errors.New("wick: invalid excitation")

	// ErrNotConfigured reports an evaluation that needs an operator which was
	// never passed to Configure.
	ErrNotConfigured = errors.New("wick: operator not configured")

	// ErrSpin reports a spin selector other than Alpha or Beta.
	ErrSpin = errors.New("wick: unknown spin")
)
