package editor

import "github.com/open-cli-collective/ice-cli/pkg/model"

// MoveBlockTo moves a block, segment or the selection so that it directly
// follows target. A target of NoToken takes it out of the chain. Floating
// blocks leave the canvas. The focused socket is committed first.
func (s *Session) MoveBlockTo(block model.Entity, target model.Token) error {
	first, last, err := s.spanOf(block)
	if err != nil {
		return err
	}
	if target != model.NoToken && !s.validTarget(first, last, target) {
		return ErrInvalidTarget
	}
	s.commitStep()
	if i := s.floatIndex(block); i >= 0 {
		err = s.unfloat(i, target, false)
	} else {
		err = s.moveSpan(first, last, target, false)
	}
	if err != nil {
		return err
	}
	s.emit(block, target)
	return nil
}

// MoveBlockAfter moves block onto its own line directly after anchor. The
// newline in front of block travels with it; when there is none a new one
// is created. The anchor must be attached.
func (s *Session) MoveBlockAfter(block, anchor model.Entity) error {
	d := s.doc
	first, last, err := s.spanOf(block)
	if err != nil {
		return err
	}
	target := d.End(anchor)
	if d.EntityKind(anchor) == model.EntityNone || anchor == d.Root() || anchor == s.lasso ||
		!s.validTarget(first, last, target) {
		return ErrInvalidTarget
	}
	s.commitStep()
	if i := s.floatIndex(block); i >= 0 {
		err = s.unfloat(i, target, true)
	} else if p := d.PrevVisible(first); d.Kind(p) == model.KindNewline && d.Reachable(first) {
		err = s.moveSpan(p, last, target, false)
	} else {
		err = s.moveSpan(first, last, target, true)
	}
	if err != nil {
		return err
	}
	s.emit(block, target)
	return nil
}

// validTarget reports whether first..last may be placed after target. The
// target has to be on the chain and outside the span, and it must outlive
// the commit of the focus and the removal of the selection brackets.
func (s *Session) validTarget(first, last, target model.Token) bool {
	d := s.doc
	if !d.Reachable(target) || d.Contains(first, last, target) {
		return false
	}
	if l := s.lasso; l != model.NoEntity && (target == d.Start(l) || target == d.End(l)) {
		return false
	}
	if f := s.focus; f != model.NoEntity && target != d.Start(f) && target != d.End(f) &&
		d.Contains(d.Start(f), d.End(f), target) {
		return false
	}
	return true
}

// spanOf returns the tokens a move of e covers. The selection moves its
// content; its brackets are dropped.
func (s *Session) spanOf(e model.Entity) (model.Token, model.Token, error) {
	d := s.doc
	switch d.EntityKind(e) {
	case model.EntityBlock, model.EntitySegment:
	default:
		return model.NoToken, model.NoToken, ErrNotBlock
	}
	if e == d.Root() {
		return model.NoToken, model.NoToken, ErrNotBlock
	}
	if e == s.lasso {
		first, last := d.NextVisible(d.Start(e)), d.PrevVisible(d.End(e))
		if first == d.End(e) {
			return model.NoToken, model.NoToken, ErrEmptySelection
		}
		return first, last, nil
	}
	return d.Start(e), d.End(e), nil
}

// moveSpan moves first..last after target, or out of the chain, and records
// the move. With lead set a new newline is placed in front of the span at
// its destination. A target off the chain is rejected before anything moves.
func (s *Session) moveSpan(first, last, target model.Token, lead bool) error {
	d := s.doc
	if target != model.NoToken && !d.Reachable(target) {
		return ErrInvalidTarget
	}
	var before *Anchor
	if d.Reachable(first) {
		a := s.anchorBefore(first)
		before = &a
	}
	if before == nil && target == model.NoToken {
		return nil
	}
	snapFirst, snapLast := d.CloneSpan(first, last)

	if target == model.NoToken {
		s.rescueCursor(first, last)
	}
	d.RemoveSpan(first, last)

	var after *model.Location
	n := 0
	if target != model.NoToken {
		if lead {
			nl := d.NewNewline()
			d.InsertBefore(first, nl)
			first = nl
		}
		d.InsertSpan(target, first, last)
		loc, ok := d.Locate(first)
		if !ok {
			return ErrInvalidTarget
		}
		after = &loc
		n = s.spanLen(first, last)
	}
	s.record(&BlockMove{
		Before:      before,
		After:       after,
		Len:         n,
		First:       snapFirst,
		Last:        snapLast,
		Synthesized: lead && target != model.NoToken,
	})
	return nil
}

// MoveBlockToFloat detaches block onto the canvas at pos. A block that is
// already floating is only repositioned; otherwise the focused socket is
// committed first.
func (s *Session) MoveBlockToFloat(block model.Entity, pos Position) error {
	d := s.doc
	if d.EntityKind(block) != model.EntityBlock {
		return ErrNotBlock
	}
	if i := s.floatIndex(block); i >= 0 {
		s.floating[i].Position = pos
		return nil
	}
	s.commitStep()
	var before *Anchor
	if d.Attached(block) {
		a := s.anchorBefore(d.Start(block))
		before = &a
		s.rescueCursor(d.Start(block), d.End(block))
		d.Detach(block)
	}
	idx := len(s.floating)
	s.floating = append(s.floating, FloatingBlock{Block: block, Position: pos})
	s.record(&BlockMoveToFloat{
		Before: before,
		Index:  idx,
		After:  FloatingBlock{Block: d.Clone(block), Position: pos},
	})
	s.emit(block, model.NoToken)
	return nil
}

// unfloat takes the i-th floating block off the canvas and places it after
// target, or drops it when target is NoToken.
func (s *Session) unfloat(i int, target model.Token, lead bool) error {
	d := s.doc
	if target != model.NoToken && !d.Reachable(target) {
		return ErrInvalidTarget
	}
	fb := s.floating[i]
	s.floating = append(s.floating[:i], s.floating[i+1:]...)
	op := &BlockMoveFromFloat{
		Before: FloatingBlock{Block: d.Clone(fb.Block), Position: fb.Position},
		Index:  i,
	}
	if target != model.NoToken {
		first, last := d.Start(fb.Block), d.End(fb.Block)
		if lead {
			nl := d.NewNewline()
			d.InsertBefore(first, nl)
			first = nl
		}
		d.InsertSpan(target, first, last)
		loc, ok := d.Locate(first)
		if !ok {
			return ErrInvalidTarget
		}
		op.After = &loc
		op.Len = s.spanLen(first, last)
		op.Synthesized = lead
	}
	s.record(op)
	return nil
}

// InsertHandwrittenBlock inserts an empty handwritten block on its own line
// at the cursor and focuses its socket. A focused socket is committed first
// and a cursor inside a socket moves to the end of its line.
func (s *Session) InsertHandwrittenBlock() (model.Entity, error) {
	d := s.doc
	s.beginStep()
	s.leaveSocket()

	blk := d.NewBlock()
	d.SetLabel(blk, "handwritten")
	d.SetHandwritten(blk, true)
	socket := d.NewSocket()
	d.SetHandwritten(socket, true)
	d.Insert(d.Start(socket), d.NewText(""))
	d.InsertSpan(d.Start(blk), d.Start(socket), d.End(socket))

	cursor := d.Cursor()
	prev, next := d.Prev(cursor), d.Next(cursor)
	emptyLine := prev == d.Start(d.Root()) || d.Kind(prev) == model.KindNewline
	var err error
	switch {
	case s.lineBreak(next) && emptyLine:
		err = s.moveSpan(d.Start(blk), d.End(blk), prev, false)
	case s.lineBreak(next):
		err = s.moveSpan(d.Start(blk), d.End(blk), prev, true)
	case emptyLine:
		nl := d.Insert(d.End(blk), d.NewNewline())
		err = s.moveSpan(d.Start(blk), nl, prev, false)
	default:
		return model.NoEntity, ErrNoInsertionPoint
	}
	if err != nil {
		return model.NoEntity, err
	}
	s.emit(blk, prev)

	if err := s.setFocus(socket); err != nil {
		return model.NoEntity, err
	}
	return blk, nil
}

// DeleteFromCursor deletes the block line ending at the cursor, or the
// empty indent the cursor sits in. A focused socket is committed first and
// a cursor inside a socket moves to the end of its line.
func (s *Session) DeleteFromCursor() {
	d := s.doc
	s.beginStep()
	s.leaveSocket()

	head := d.Prev(d.Cursor())
	for head != model.NoToken {
		k := d.Kind(head)
		if k == model.KindIndentStart || k == model.KindBlockEnd {
			break
		}
		head = d.Prev(head)
	}

	switch d.Kind(head) {
	case model.KindBlockEnd:
		blk := d.Owner(head)
		first, last := d.Start(blk), d.End(blk)
		if p := d.PrevVisible(first); d.Kind(p) == model.KindNewline {
			first = p
		} else if n := d.NextVisible(last); d.Kind(n) == model.KindNewline {
			last = n
		}
		if err := s.moveSpan(first, last, model.NoToken, false); err != nil {
			return
		}
		s.emit(blk, model.NoToken)

	case model.KindIndentStart:
		indent := d.Owner(head)
		if !s.blank(indent) {
			return
		}
		at, _ := d.Locate(d.PrevVisible(head))
		before := d.Clone(indent)
		s.rescueCursor(d.Start(indent), d.End(indent))
		d.Detach(indent)
		s.record(&DestroyIndent{Anchor: at, Before: before})
		s.emit(indent, model.NoToken)
	}
}

// leaveSocket commits the focused socket in its own undo group and moves a
// cursor that is not on a line boundary to the end of its line.
func (s *Session) leaveSocket() {
	d := s.doc
	s.blurStep()
	if s.onLineBoundary() {
		return
	}
	t := d.Next(d.Cursor())
	for t != model.NoToken && !s.lineBreak(t) {
		t = d.Next(t)
	}
	if t != model.NoToken {
		s.moveCursorBefore(t)
	}
}

// blank reports whether e holds nothing but newlines.
func (s *Session) blank(e model.Entity) bool {
	d := s.doc
	for t := d.Next(d.Start(e)); t != d.End(e); t = d.Next(t) {
		switch d.Kind(t) {
		case model.KindNewline, model.KindCursor:
		default:
			return false
		}
	}
	return true
}

// IndentBlock moves blk into the body of the block before it, creating an
// empty indent there when the previous block has none. It reports false
// when blk has no previous sibling on an earlier line. The focused socket is
// committed and, while it still holds text, focused again afterwards.
func (s *Session) IndentBlock(blk model.Entity) bool {
	d := s.doc
	if d.EntityKind(blk) != model.EntityBlock || !d.Attached(blk) {
		return false
	}
	nl := d.PrevVisible(d.Start(blk))
	if d.Kind(nl) != model.KindNewline {
		return false
	}
	head := d.Prev(nl)
	for head != model.NoToken {
		k := d.Kind(head)
		if k == model.KindBlockEnd || k.IsStart() {
			break
		}
		head = d.Prev(head)
	}
	if d.Kind(head) != model.KindBlockEnd {
		return false
	}

	focused := s.commitStep()
	sibling := d.Owner(head)
	var err error
	if last := d.PrevVisible(d.End(sibling)); d.Kind(last) == model.KindIndentEnd {
		err = s.moveSpan(nl, d.End(blk), d.PrevVisible(last), false)
	} else {
		indent := d.NewIndent(s.indentWidth)
		d.InsertSpanBefore(d.End(sibling), d.Start(indent), d.End(indent))
		at, _ := d.Locate(d.Start(indent))
		s.record(&CreateIndent{Indent: at})
		err = s.moveSpan(nl, d.End(blk), d.Start(indent), false)
	}
	if err != nil {
		return false
	}
	s.emit(blk, model.NoToken)
	if focused != model.NoEntity && d.Attached(focused) && s.editable(focused) {
		_ = s.setFocus(focused)
	}
	return true
}
