package random

import "errors"

var (
	// ErrCategoryNotFound is returned when a category id is not registered.
	ErrCategoryNotFound = errors.New("random: category not found")

	// ErrUnknownGeneratorType is returned for a generator type the active
	// backend does not provide.
	ErrUnknownGeneratorType = errors.New("random: unknown generator type")

	// ErrGeneratorConstruction is returned when a generator cannot be built
	// or its saved state cannot be restored.
	ErrGeneratorConstruction = errors.New("random: generator construction failed")

	// ErrCreateDuringStep is returned when an RNG is requested while the
	// simulation is stepping in parallel.
	ErrCreateDuringStep = errors.New("random: cannot create RNG during parallel step")

	// ErrCorruptState indicates a truncated or malformed checkpoint buffer.
	ErrCorruptState = errors.New("random: corrupt state buffer")
)
