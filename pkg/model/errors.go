package model

import "errors"

var (
	// ErrOccupiedSocket indicates an attempt to attach text to a socket that
	// already holds a block or segment. This is a caller contract violation.
	ErrOccupiedSocket = errors.New("cannot edit occupied socket")

	// ErrNotSocket indicates that a socket operation was given another entity.
	ErrNotSocket = errors.New("entity is not a socket")

	// ErrUnbalanced indicates that start and end tokens do not nest properly.
	ErrUnbalanced = errors.New("unbalanced token chain")

	// ErrBrokenLink indicates that prev/next pointers disagree.
	ErrBrokenLink = errors.New("broken chain link")

	// ErrMultipleCursors indicates more than one cursor token in a chain.
	ErrMultipleCursors = errors.New("more than one cursor in chain")
)
