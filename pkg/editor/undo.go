package editor

import (
	"github.com/google/uuid"

	"github.com/open-cli-collective/ice-cli/pkg/model"
)

// Checkpoint closes the current undo group.
func (s *Session) Checkpoint() {
	if n := len(s.undo); n > 0 {
		if _, ok := s.undo[n-1].(*Marker); !ok {
			s.undo = append(s.undo, &Marker{Step: uuid.New()})
		}
	}
}

// beginStep starts a user-visible step: the selection is dropped, since its
// brackets would shift recorded locations, and a new undo group is opened.
func (s *Session) beginStep() {
	s.clearSelection()
	s.Checkpoint()
}

func (s *Session) record(op Operation) {
	s.undo = append(s.undo, op)
	s.logger.Trace().Stringer("op", op.Kind()).Int("depth", len(s.undo)).Msg("recorded operation")
}

// Undo reverts the most recent group of operations and returns the number
// of entries left in the log. Undo on an empty log does nothing.
func (s *Session) Undo() int {
	if s.focus != model.NoEntity {
		s.beginStep()
		_ = s.setFocus(model.NoEntity)
	}
	s.clearSelection()

	for n := len(s.undo); n > 0; n = len(s.undo) {
		if _, ok := s.undo[n-1].(*Marker); !ok {
			break
		}
		s.undo = s.undo[:n-1]
	}

	reverted := 0
	for n := len(s.undo); n > 0; n = len(s.undo) {
		op := s.undo[n-1]
		if _, ok := op.(*Marker); ok {
			break
		}
		s.undo = s.undo[:n-1]
		s.revert(op)
		reverted++
	}
	s.logger.Debug().Int("reverted", reverted).Int("depth", len(s.undo)).Msg("undo")
	return len(s.undo)
}

func (s *Session) revert(op Operation) {
	d := s.doc
	switch op := op.(type) {
	case *SocketTextChange:
		socket, ok := s.socketAt(op.Socket)
		if !ok {
			break
		}
		s.clearSocket(socket)
		d.Insert(d.Start(socket), d.NewText(op.Before))
		return

	case *SocketReparse:
		socket, ok := s.socketAt(op.Socket)
		if !ok {
			break
		}
		s.clearSocket(socket)
		d.Insert(d.Start(socket), d.NewText(op.Before))
		return

	case *HandwrittenReparse:
		_, _, at, ok := s.takeSpan(op.At, op.Len)
		if !ok {
			break
		}
		d.InsertSpan(at, d.Start(op.Before), d.End(op.Before))
		return

	case *BlockMove:
		first, last := op.First, op.Last
		if op.After != nil {
			var ok bool
			if first, last, _, ok = s.takeSpan(*op.After, op.Len); !ok {
				break
			}
			if op.Synthesized {
				nl := first
				first = d.Next(nl)
				d.Remove(nl)
			}
		}
		if op.Before != nil {
			d.InsertSpan(s.resolveAnchor(*op.Before), first, last)
		}
		return

	case *BlockMoveToFloat:
		if op.Index >= len(s.floating) {
			break
		}
		fb := s.floating[op.Index]
		s.floating = append(s.floating[:op.Index], s.floating[op.Index+1:]...)
		if op.Before != nil {
			d.InsertSpan(s.resolveAnchor(*op.Before), d.Start(fb.Block), d.End(fb.Block))
		}
		return

	case *BlockMoveFromFloat:
		block := op.Before.Block
		if op.After != nil {
			first, _, _, ok := s.takeSpan(*op.After, op.Len)
			if !ok {
				break
			}
			if op.Synthesized {
				nl := first
				first = d.Next(nl)
				d.Remove(nl)
			}
			block = d.Owner(first)
		}
		idx := op.Index
		if idx > len(s.floating) {
			idx = len(s.floating)
		}
		s.floating = append(s.floating, FloatingBlock{})
		copy(s.floating[idx+1:], s.floating[idx:])
		s.floating[idx] = FloatingBlock{Block: block, Position: op.Before.Position}
		return

	case *CreateIndent:
		t, ok := d.TokenAt(op.Indent)
		if !ok || d.Kind(t) != model.KindIndentStart {
			break
		}
		indent := d.Owner(t)
		s.rescueCursor(d.Start(indent), d.End(indent))
		d.Detach(indent)
		return

	case *DestroyIndent:
		at, ok := d.TokenAt(op.Anchor)
		if !ok {
			break
		}
		d.InsertSpan(at, d.Start(op.Before), d.End(op.Before))
		return
	}
	s.logger.Warn().Stringer("op", op.Kind()).Msg("could not revert operation")
}

func (s *Session) socketAt(loc model.Location) (model.Entity, bool) {
	t, ok := s.doc.TokenAt(loc)
	if !ok || s.doc.Kind(t) != model.KindSocketStart {
		return model.NoEntity, false
	}
	return s.doc.Owner(t), true
}

// clearSocket removes everything inside a socket, keeping the cursor. A
// cursor inside the socket moves to the end of the socket's line.
func (s *Session) clearSocket(socket model.Entity) {
	d := s.doc
	first, last := d.Next(d.Start(socket)), d.Prev(d.End(socket))
	if first == d.End(socket) {
		return
	}
	if c := d.Cursor(); d.Contains(first, last, c) {
		d.Remove(c)
		d.Insert(d.End(socket), c)
		s.parkCursor()
		first, last = d.Next(d.Start(socket)), d.Prev(d.End(socket))
		if first == d.End(socket) {
			return
		}
	}
	d.RemoveSpan(first, last)
}

// anchorBefore describes the position in front of t.
func (s *Session) anchorBefore(t model.Token) Anchor {
	d := s.doc
	p := d.Prev(t)
	n := 0
	for {
		k := d.Kind(p)
		if k != model.KindNewline && k != model.KindCursor {
			break
		}
		if k == model.KindNewline {
			n++
		}
		p = d.Prev(p)
	}
	loc, _ := d.Locate(p)
	return Anchor{Location: loc, Newlines: n}
}

// resolveAnchor returns the token a span recorded with a should be inserted
// after. When fewer newlines remain than were recorded and the anchor would
// otherwise glue the span to a block or indent opening, a compensating
// newline is inserted.
func (s *Session) resolveAnchor(a Anchor) model.Token {
	d := s.doc
	target, ok := d.TokenAt(a.Location)
	if !ok {
		s.logger.Warn().Stringer("location", a.Location).Msg("anchor not found, using document start")
		target = d.Start(d.Root())
	}
	n := a.Newlines
	for ; n > 0; n-- {
		next := d.NextVisible(target)
		if d.Kind(next) != model.KindNewline {
			break
		}
		target = next
	}
	if n > 0 {
		switch d.Kind(target) {
		case model.KindBlockEnd, model.KindIndentStart:
			target = d.Insert(target, d.NewNewline())
		}
	}
	return target
}

// takeSpan detaches the span of n top-level items starting at loc, where an
// entity counts as one item. It returns the span bounds and the token the
// span followed.
func (s *Session) takeSpan(loc model.Location, n int) (first, last, at model.Token, ok bool) {
	d := s.doc
	first, ok = d.TokenAt(loc)
	if !ok || n <= 0 {
		return model.NoToken, model.NoToken, model.NoToken, false
	}
	count := 0
	for t := first; t != model.NoToken && count < n; t = d.Next(t) {
		if d.Kind(t) == model.KindCursor {
			continue
		}
		if d.Kind(t).IsStart() {
			t = d.End(d.Owner(t))
		}
		last = t
		count++
	}
	if count < n {
		return model.NoToken, model.NoToken, model.NoToken, false
	}
	s.rescueCursor(first, last)
	at = d.Prev(first)
	d.RemoveSpan(first, last)
	return first, last, at, true
}

// spanLen counts the top-level items in first..last.
func (s *Session) spanLen(first, last model.Token) int {
	d := s.doc
	n := 0
	for t := first; t != model.NoToken; t = d.Next(t) {
		if d.Kind(t) != model.KindCursor {
			n++
			if d.Kind(t).IsStart() {
				t = d.End(d.Owner(t))
			}
		}
		if t == last {
			break
		}
	}
	return n
}
