// Package script runs YAML edit scripts against an editor session.
//
// A script names a source document and a list of steps:
//
//	source: |
//	  if x:
//	      y
//	steps:
//	  - op: down
//	  - op: enter
//	  - op: type
//	    text: z = 1
//	  - op: expect
//	    text: "if x:\n    y\nz = 1\n"
//
// Blocks and sockets are addressed by their zero-based ordinal in chain
// order at the time the step runs.
package script

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/ice-cli/pkg/editor"
	"github.com/open-cli-collective/ice-cli/pkg/model"
)

var (
	// ErrUnknownOp is returned for a step whose op is not recognised.
	ErrUnknownOp = errors.New("unknown op")
	// ErrExpectation is returned when an expect step does not match.
	ErrExpectation = errors.New("expectation failed")
	// ErrNoSuchEntity is returned when an ordinal is out of range.
	ErrNoSuchEntity = errors.New("no such entity")
)

// Script is a parsed edit script.
type Script struct {
	Source string `yaml:"source"`
	Steps  []Step `yaml:"steps"`
}

// Step is a single scripted edit.
type Step struct {
	Op     string  `yaml:"op"`
	Text   *string `yaml:"text,omitempty"`
	Socket int     `yaml:"socket,omitempty"`
	Block  int     `yaml:"block,omitempty"`
	After  *int    `yaml:"after,omitempty"`
	Blocks []int   `yaml:"blocks,omitempty"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	Times  int     `yaml:"times,omitempty"`
}

// Parse decodes a script from YAML.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	for i, st := range s.Steps {
		if st.Op == "" {
			return nil, fmt.Errorf("step %d: missing op", i+1)
		}
	}
	return &s, nil
}

// Load reads and decodes a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return Parse(data)
}

// Result describes a finished run.
type Result struct {
	Value     string `json:"value"`
	Steps     int    `json:"steps"`
	UndoDepth int    `json:"undo_depth"`
}

// Runner applies scripts to a session.
type Runner struct {
	session *editor.Session
	logger  zerolog.Logger
	trace   io.Writer
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = l.With().Str("component", "script").Logger()
	}
}

// WithTrace writes the document after every step to w.
func WithTrace(w io.Writer) Option {
	return func(r *Runner) { r.trace = w }
}

// NewRunner returns a runner driving session.
func NewRunner(session *editor.Session, opts ...Option) *Runner {
	r := &Runner{session: session, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run loads the script source and applies every step in order. It stops at
// the first failing step.
func (r *Runner) Run(s *Script) (*Result, error) {
	if err := r.session.Load(s.Source); err != nil {
		return nil, err
	}
	for i, st := range s.Steps {
		times := st.Times
		if times <= 0 {
			times = 1
		}
		for n := 0; n < times; n++ {
			if err := r.Step(st); err != nil {
				return nil, fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
			}
		}
		r.logger.Debug().Int("step", i+1).Str("op", st.Op).Int("undo", r.session.UndoDepth()).Msg("step applied")
		if r.trace != nil {
			fmt.Fprintf(r.trace, "--- %d %s\n%s", i+1, st.Op, r.session.Value())
		}
	}
	return &Result{
		Value:     r.session.Value(),
		Steps:     len(s.Steps),
		UndoDepth: r.session.UndoDepth(),
	}, nil
}

// Step applies a single step.
func (r *Runner) Step(st Step) error {
	s := r.session
	switch st.Op {
	case "up":
		s.MoveCursorUp()
	case "down":
		s.MoveCursorDown()
	case "focus":
		socket, err := r.nth(model.EntitySocket, st.Socket)
		if err != nil {
			return err
		}
		return s.Focus(socket)
	case "type":
		if st.Text == nil {
			return errors.New("type needs text")
		}
		return s.SetFocusText(*st.Text)
	case "blur":
		s.Blur()
	case "enter":
		_, err := s.InsertHandwrittenBlock()
		return err
	case "backspace":
		s.DeleteFromCursor()
	case "tab":
		blk := s.FocusedBlock()
		if blk == model.NoEntity {
			return editor.ErrNoFocus
		}
		s.IndentBlock(blk)
	case "left":
		s.FocusPrevSocket()
	case "right":
		s.FocusNextSocket()
	case "move":
		return r.move(st)
	case "float":
		blk, err := r.nth(model.EntityBlock, st.Block)
		if err != nil {
			return err
		}
		return s.MoveBlockToFloat(blk, editor.Position{X: st.X, Y: st.Y})
	case "select":
		var blks []model.Entity
		for _, n := range st.Blocks {
			blk, err := r.nth(model.EntityBlock, n)
			if err != nil {
				return err
			}
			blks = append(blks, blk)
		}
		_, err := s.SelectRegion(blks)
		return err
	case "clear-selection":
		s.ClearSelection()
	case "undo":
		s.Undo()
	case "checkpoint":
		s.Checkpoint()
	case "reparse":
		s.AttemptReparse()
	case "expect":
		if st.Text == nil {
			return errors.New("expect needs text")
		}
		if got := s.Value(); got != *st.Text {
			return fmt.Errorf("%w: got %q, want %q", ErrExpectation, got, *st.Text)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, st.Op)
	}
	return nil
}

// move handles "move". Without after the block leaves the chain. A
// selection, when present, is moved instead of a single block.
func (r *Runner) move(st Step) error {
	s := r.session

	src := s.Selection()
	if src == model.NoEntity {
		blk, err := r.nth(model.EntityBlock, st.Block)
		if err != nil {
			return err
		}
		src = blk
	}

	if st.After == nil {
		return s.MoveBlockTo(src, model.NoToken)
	}
	anchor, err := r.nth(model.EntityBlock, *st.After)
	if err != nil {
		return err
	}
	return s.MoveBlockAfter(src, anchor)
}

// nth returns the n-th entity of kind in the document, falling back to
// floating blocks once the chain is exhausted.
func (r *Runner) nth(kind model.EntityKind, n int) (model.Entity, error) {
	d := r.session.Document()
	all := d.Entities(d.Root(), kind)
	if kind == model.EntityBlock {
		for _, f := range r.session.Floating() {
			all = append(all, d.Entities(f.Block, kind)...)
		}
	}
	if n < 0 || n >= len(all) {
		return model.NoEntity, fmt.Errorf("%w: %s %d", ErrNoSuchEntity, kind, n)
	}
	return all[n], nil
}
