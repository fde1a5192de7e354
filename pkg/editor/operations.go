package editor

import (
	"github.com/google/uuid"

	"github.com/open-cli-collective/ice-cli/pkg/model"
)

// OpKind names an undo log entry.
type OpKind uint8

const (
	OpMarker             OpKind = iota // group boundary
	OpSocketTextChange                 // socket text edited in place
	OpSocketReparse                    // socket text replaced by a parsed block
	OpHandwrittenReparse               // handwritten block replaced by parsed statements
	OpBlockMove                        // span moved within or out of the chain
	OpBlockMoveToFloat                 // block detached to the canvas
	OpBlockMoveFromFloat               // floating block placed in the chain
	OpCreateIndent                     // empty indent inserted
	OpDestroyIndent                    // empty indent removed
)

func (k OpKind) String() string {
	switch k {
	case OpMarker:
		return "operationMarker"
	case OpSocketTextChange:
		return "socketTextChange"
	case OpSocketReparse:
		return "socketReparse"
	case OpHandwrittenReparse:
		return "handwrittenReparse"
	case OpBlockMove:
		return "blockMove"
	case OpBlockMoveToFloat:
		return "blockMoveToFloat"
	case OpBlockMoveFromFloat:
		return "blockMoveFromFloat"
	case OpCreateIndent:
		return "createIndent"
	case OpDestroyIndent:
		return "destroyIndent"
	}
	return "unknown"
}

// Operation is one entry in the undo log. Positions are recorded as
// locations, never as token handles, so entries stay valid after the
// tokens they described have been replaced.
type Operation interface {
	Kind() OpKind
}

// Anchor records where a span used to sit: the nearest preceding token that
// is not a newline, and the number of newlines between it and the span.
type Anchor struct {
	Location model.Location
	Newlines int
}

// Marker separates undo groups.
type Marker struct {
	Step uuid.UUID
}

// SocketTextChange records an in-place edit of socket text.
type SocketTextChange struct {
	Socket model.Location
	Before string
	After  string
}

// SocketReparse records socket text replaced by a parsed block.
type SocketReparse struct {
	Socket model.Location
	Before string
	After  model.Entity
}

// HandwrittenReparse records a handwritten block replaced by the Len
// top-level items starting at At.
type HandwrittenReparse struct {
	At     model.Location
	Len    int
	Before model.Entity
	After  model.Entity
}

// BlockMove records a span moved within or out of the chain. Before is nil
// when the span had no position, After is nil when it was moved out. Len is
// the number of top-level items in the span at its destination, an entity
// counting as one. When Synthesized is set the first item is a newline
// created by the move. First and Last bound a copy of the span as it was
// before the move.
type BlockMove struct {
	Before      *Anchor
	After       *model.Location
	Len         int
	First       model.Token
	Last        model.Token
	Synthesized bool
}

// BlockMoveToFloat records a block detached onto the canvas.
type BlockMoveToFloat struct {
	Before *Anchor
	Index  int
	After  FloatingBlock
}

// BlockMoveFromFloat records a floating block placed into the chain.
type BlockMoveFromFloat struct {
	Before      FloatingBlock
	Index       int
	After       *model.Location
	Len         int
	Synthesized bool
}

// CreateIndent records an empty indent inserted at Indent.
type CreateIndent struct {
	Indent model.Location
}

// DestroyIndent records an empty indent removed after Anchor.
type DestroyIndent struct {
	Anchor model.Location
	Before model.Entity
}

func (*Marker) Kind() OpKind             { return OpMarker }
func (*SocketTextChange) Kind() OpKind   { return OpSocketTextChange }
func (*SocketReparse) Kind() OpKind      { return OpSocketReparse }
func (*HandwrittenReparse) Kind() OpKind { return OpHandwrittenReparse }
func (*BlockMove) Kind() OpKind          { return OpBlockMove }
func (*BlockMoveToFloat) Kind() OpKind   { return OpBlockMoveToFloat }
func (*BlockMoveFromFloat) Kind() OpKind { return OpBlockMoveFromFloat }
func (*CreateIndent) Kind() OpKind       { return OpCreateIndent }
func (*DestroyIndent) Kind() OpKind      { return OpDestroyIndent }
