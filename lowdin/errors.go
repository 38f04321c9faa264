// SPDX-License-Identifier: MIT

package lowdin

import "errors"

var (
	// ErrShape indicates orbital, metric or co-density operands of inconsistent size.
	ErrShape = errors.New("lowdin: inconsistent operand shape")

	// ErrOccupation indicates an occupied-orbital count outside [0, nmo].
	ErrOccupation = errors.New("lowdin: occupation out of range")

	// ErrFactorization indicates the SVD of the occupied overlap did not converge.
	ErrFactorization = errors.New("lowdin: singular value decomposition failed")
)
