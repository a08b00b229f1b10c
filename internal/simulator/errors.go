package simulator

import "errors"

var (
	ErrNotLoaded           = errors.New("simulator: no experiment loaded")
	ErrNotInitialized      = errors.New("simulator: not initialized")
	ErrDuplicateEngine     = errors.New("simulator: duplicate physics engine id")
	ErrUnknownEngine       = errors.New("simulator: unknown physics engine")
	ErrNoMatchingEntity    = errors.New("simulator: no entity matches pattern")
	ErrControllerConfig    = errors.New("simulator: unresolved controller configuration")
	ErrDuplicateController = errors.New("simulator: duplicate controller id")
	ErrUnknownType         = errors.New("simulator: unknown type")
	ErrCategoryInUse       = errors.New("simulator: argos random category already exists")
)
