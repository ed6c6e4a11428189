package closure

import "errors"

// Ошибки инвариантов иерархии
var (
	ErrNodeNotFound     = errors.New("node not found in hierarchy")
	ErrParentNotFound   = errors.New("parent node not found")
	ErrDuplicateNode    = errors.New("node already exists in hierarchy")
	ErrDuplicateClosure = errors.New("closure pair already exists")
	ErrCycle            = errors.New("move would make node a descendant of itself")
	ErrSelfParent       = errors.New("node cannot be its own parent")
	ErrStore            = errors.New("closure store failure")
)
