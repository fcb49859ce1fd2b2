package wordclass

import "errors"

var (
	// ErrInvalidParameter is returned when a cluster count, window size,
	// iteration budget or initial assignment is out of range. The engine state
	// is left untouched.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvariantViolation reports a broken internal contract, such as merging
	// into an occupied tree slot or attaching a nil child. The run is aborted.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrNotInitialized is returned by Exchange operations that need aggregate
	// state before Initialize or Cluster has been called.
	ErrNotInitialized = errors.New("engine not initialized")

	// ErrNoMergeTree is returned when the merge tree is requested before a Brown
	// run has reduced the window to its root.
	ErrNoMergeTree = errors.New("merge tree not built")
)
