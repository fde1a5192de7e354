// Package editor implements the editing controller for a block/text
// document: cursor motion, block moves, socket focus, lasso selection,
// handwritten reparse and grouped undo.
package editor

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/open-cli-collective/ice-cli/pkg/model"
)

// Parser turns source text into a detached Segment.
type Parser interface {
	Parse(doc *model.Document, src string) (model.Entity, error)
}

// ExpressionParser is implemented by parsers that can turn the text of a
// single socket into a detached Block.
type ExpressionParser interface {
	ParseExpression(doc *model.Document, src string) (model.Entity, error)
}

// ChangeEvent reports a structural change: the entity that moved or changed
// and, for moves, the token it was placed after.
type ChangeEvent struct {
	Entity model.Entity
	Target model.Token
}

// Position is a free-floating canvas position.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// FloatingBlock is a block detached from the main chain and placed at a
// canvas position.
type FloatingBlock struct {
	Block    model.Entity
	Position Position
}

// DefaultIndentWidth is the depth given to indents created by IndentBlock.
const DefaultIndentWidth = 4

// Session edits a single document. It is not safe for concurrent use.
type Session struct {
	id          uuid.UUID
	doc         *model.Document
	parser      Parser
	logger      zerolog.Logger
	indentWidth int
	onChange    func(ChangeEvent)

	undo     []Operation
	floating []FloatingBlock
	focus    model.Entity
	original string
	lasso    model.Entity
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithIndentWidth sets the depth of indents created by IndentBlock.
func WithIndentWidth(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.indentWidth = n
		}
	}
}

// WithChangeHandler registers a callback for structural changes. Panics in
// the callback are recovered and logged.
func WithChangeHandler(fn func(ChangeEvent)) Option {
	return func(s *Session) {
		s.onChange = fn
	}
}

// New returns a session editing doc.
func New(doc *model.Document, parser Parser, opts ...Option) *Session {
	s := &Session{
		id:          uuid.New(),
		doc:         doc,
		parser:      parser,
		logger:      zerolog.Nop(),
		indentWidth: DefaultIndentWidth,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("component", "editor").Str("session", s.id.String()).Logger()
	return s
}

// ID identifies the session in logs.
func (s *Session) ID() uuid.UUID { return s.id }

// Document returns the document being edited.
func (s *Session) Document() *model.Document { return s.doc }

// Load replaces the document content with the parse of src and resets all
// editing state.
func (s *Session) Load(src string) error {
	seg, err := s.parser.Parse(s.doc, src)
	if err != nil {
		return fmt.Errorf("loading source: %w", err)
	}
	s.doc.SetRoot(seg)
	s.undo = nil
	s.floating = nil
	s.focus = model.NoEntity
	s.original = ""
	s.lasso = model.NoEntity
	s.logger.Debug().Int("bytes", len(src)).Msg("loaded document")
	return nil
}

// Value returns the source text of the document.
func (s *Session) Value() string { return s.doc.String() }

// Focused returns the focused socket, or NoEntity.
func (s *Session) Focused() model.Entity { return s.focus }

// Selection returns the lasso segment, or NoEntity.
func (s *Session) Selection() model.Entity { return s.lasso }

// Floating returns the floating blocks in insertion order.
func (s *Session) Floating() []FloatingBlock {
	out := make([]FloatingBlock, len(s.floating))
	copy(out, s.floating)
	return out
}

// UndoDepth returns the number of entries in the undo log, markers included.
func (s *Session) UndoDepth() int { return len(s.undo) }

// Operations returns a copy of the undo log, oldest first.
func (s *Session) Operations() []Operation {
	out := make([]Operation, len(s.undo))
	copy(out, s.undo)
	return out
}

func (s *Session) emit(e model.Entity, target model.Token) {
	if s.onChange == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn().Interface("panic", r).Msg("change handler panicked")
		}
	}()
	s.onChange(ChangeEvent{Entity: e, Target: target})
}

func (s *Session) floatIndex(e model.Entity) int {
	for i, f := range s.floating {
		if f.Block == e {
			return i
		}
	}
	return -1
}

// rescueCursor moves the cursor out of first..last, placing it directly
// before first, so that detaching the span never loses it. Neither bound
// may be the cursor itself.
func (s *Session) rescueCursor(first, last model.Token) {
	c := s.doc.Cursor()
	if !s.doc.Contains(first, last, c) {
		return
	}
	s.doc.Remove(c)
	s.doc.InsertBefore(first, c)
}
