package editor

import "errors"

var (
	// ErrNoFocus indicates a text edit with no socket focused.
	ErrNoFocus = errors.New("no socket focused")

	// ErrNoInsertionPoint indicates that the cursor is neither at the start
	// nor at the end of a line.
	ErrNoInsertionPoint = errors.New("cursor is not at a line boundary")

	// ErrEmptySelection indicates a selection request with no attached blocks.
	ErrEmptySelection = errors.New("no blocks to select")

	// ErrNotBlock indicates that a block operation was given another entity.
	ErrNotBlock = errors.New("entity is not a block or segment")

	// ErrDetached indicates a socket that is floating or out of the chain.
	ErrDetached = errors.New("socket is not attached to the document")
)

// ErrInvalidTarget indicates a move target that lies inside the moved span,
// outside the document chain, or on a bracket that the move would remove.
var ErrInvalidTarget = errors.New("invalid move target")
