package editor

import "github.com/open-cli-collective/ice-cli/pkg/model"

// The cursor always rests on a line boundary: after a newline or the start
// of the root, or before a newline or the end of an indent or segment. A
// line that opens with a block end belongs to that block and is skipped by
// vertical motion.

func (s *Session) lineBreak(t model.Token) bool {
	switch s.doc.Kind(t) {
	case model.KindNewline, model.KindIndentEnd, model.KindSegmentEnd:
		return true
	}
	return false
}

// MoveCursorTo places the cursor on the first line boundary at or after t
// and reparses handwritten blocks the cursor left. Cursor motion commits
// the focused socket.
func (s *Session) MoveCursorTo(t model.Token) {
	s.beginStep()
	s.blurStep()
	s.moveCursorTo(t)
}

// MoveCursorBefore places the cursor directly before t and reparses
// handwritten blocks the cursor left.
func (s *Session) MoveCursorBefore(t model.Token) {
	s.beginStep()
	s.blurStep()
	s.moveCursorBefore(t)
}

// MoveCursorUp moves the cursor to the previous line, skipping lines that
// belong to a block. At the top of the document it does nothing.
func (s *Session) MoveCursorUp() {
	s.beginStep()
	s.blurStep()
	for s.stepUp() && s.onBlockLine() {
	}
}

// MoveCursorDown moves the cursor to the next line, skipping lines that
// belong to a block. At the end of the document it does nothing.
func (s *Session) MoveCursorDown() {
	s.beginStep()
	s.blurStep()
	for s.stepDown() && s.onBlockLine() {
	}
}

// blurStep commits a focused socket and closes the undo group.
func (s *Session) blurStep() {
	if s.focus != model.NoEntity {
		_ = s.setFocus(model.NoEntity)
		s.Checkpoint()
	}
}

// moveCursorTo and moveCursorBefore reparse handwritten blocks even when
// the cursor stays where it is.
func (s *Session) moveCursorTo(t model.Token) {
	defer s.attemptReparse()
	d := s.doc
	c := d.Cursor()
	if t == c || t == model.NoToken {
		return
	}
	rootStart := d.Start(d.Root())
	head := t
	if head != rootStart {
		for head != model.NoToken && !s.lineBreak(head) {
			head = d.Next(head)
			if head == c {
				head = d.Next(head)
			}
		}
	}
	if head == model.NoToken {
		return
	}
	d.Remove(c)
	if head == rootStart || d.Kind(head) == model.KindNewline {
		d.Insert(head, c)
	} else {
		d.InsertBefore(head, c)
	}
}

func (s *Session) moveCursorBefore(t model.Token) {
	defer s.attemptReparse()
	d := s.doc
	c := d.Cursor()
	if t == c || t == model.NoToken {
		return
	}
	d.Remove(c)
	d.InsertBefore(t, c)
}

// onLineBoundary reports whether the cursor rests at the start or the end of
// a line.
func (s *Session) onLineBoundary() bool {
	d := s.doc
	c := d.Cursor()
	if s.lineBreak(d.Next(c)) {
		return true
	}
	p := d.Prev(c)
	return p == d.Start(d.Root()) || d.Kind(p) == model.KindNewline
}

// parkCursor moves a cursor stranded inside a line to the end of that line
// without reparsing.
func (s *Session) parkCursor() {
	if s.onLineBoundary() {
		return
	}
	d := s.doc
	c := d.Cursor()
	t := d.Next(c)
	for t != model.NoToken && !s.lineBreak(t) {
		t = d.Next(t)
	}
	if t == model.NoToken {
		return
	}
	d.Remove(c)
	d.InsertBefore(t, c)
}

func (s *Session) stepUp() bool {
	d := s.doc
	rootStart := d.Start(d.Root())
	head := d.Prev(d.Prev(d.Cursor()))
	for head != model.NoToken && head != rootStart {
		k := d.Kind(head)
		if k == model.KindNewline || k == model.KindIndentEnd {
			break
		}
		head = d.Prev(head)
	}
	if head == model.NoToken {
		return false
	}
	if d.Kind(head) == model.KindIndentEnd {
		s.moveCursorBefore(head)
	} else {
		s.moveCursorTo(head)
	}
	return true
}

func (s *Session) stepDown() bool {
	d := s.doc
	rootEnd := d.End(d.Root())
	head := d.Next(d.Next(d.Cursor()))
	for head != model.NoToken && head != rootEnd {
		k := d.Kind(head)
		if k == model.KindNewline || k == model.KindIndentEnd {
			break
		}
		head = d.Next(head)
	}
	if head == model.NoToken {
		return false
	}
	if d.Kind(head) == model.KindIndentEnd || head == rootEnd {
		s.moveCursorBefore(head)
	} else {
		s.moveCursorTo(head)
	}
	return true
}

// onBlockLine reports whether the cursor sits on a line whose first
// structural token closes a block, i.e. a continuation line such as else.
func (s *Session) onBlockLine() bool {
	d := s.doc
	rootEnd := d.End(d.Root())
	depth := 0
	for t := d.Next(d.Cursor()); t != model.NoToken; t = d.Next(t) {
		k := d.Kind(t)
		if depth == 0 && (k == model.KindBlockEnd || k == model.KindIndentEnd || t == rootEnd) {
			return k == model.KindBlockEnd
		}
		switch {
		case k.IsStart():
			depth++
		case k.IsEnd():
			depth--
		}
	}
	return false
}

// CursorLine returns the zero-based line of the cursor.
func (s *Session) CursorLine() int {
	d := s.doc
	n := 0
	for t := d.Prev(d.Cursor()); t != model.NoToken; t = d.Prev(t) {
		if d.Kind(t) == model.KindNewline {
			n++
		}
	}
	return n
}
