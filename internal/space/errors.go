package space

import "errors"

var (
	ErrUnknownThreadingMethod = errors.New("space: unknown threading method")

	ErrDuplicateEntity = errors.New("space: duplicate entity id")

	// ErrDistribute indicates a <distribute> block that cannot be honored.
	ErrDistribute = errors.New("space: cannot distribute entities")
)
