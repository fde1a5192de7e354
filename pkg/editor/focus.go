package editor

import "github.com/open-cli-collective/ice-cli/pkg/model"

// Focus makes socket the text-input target, committing any previously
// focused socket first. Empty sockets gain an empty text token and the
// cursor moves inside the socket. Sockets holding a block cannot be
// focused.
func (s *Session) Focus(socket model.Entity) error {
	s.beginStep()
	return s.setFocus(socket)
}

// Blur commits and clears the focused socket.
func (s *Session) Blur() {
	s.beginStep()
	_ = s.setFocus(model.NoEntity)
}

func (s *Session) setFocus(socket model.Entity) error {
	d := s.doc
	if socket != model.NoEntity {
		if d.EntityKind(socket) != model.EntitySocket {
			return model.ErrNotSocket
		}
		if c := d.Content(socket); c != model.NoToken && d.Kind(c) != model.KindText {
			return model.ErrOccupiedSocket
		}
		if !d.Attached(socket) {
			return ErrDetached
		}
	}
	if s.focus != model.NoEntity {
		s.commitFocus()
	}

	s.focus = socket
	s.original = ""
	if socket == model.NoEntity {
		return nil
	}
	s.original = d.Stringify(socket)
	if d.Content(socket) == model.NoToken {
		d.Insert(d.Start(socket), d.NewText(""))
	}
	s.moveCursorBefore(d.End(socket))
	return nil
}

// commitStep begins a step that first commits the focused socket in an undo
// group of its own, so that later steps record locations against committed
// text. It returns the socket that was focused.
func (s *Session) commitStep() model.Entity {
	s.beginStep()
	socket := s.focus
	s.blurStep()
	return socket
}

// commitFocus records a text change for the focused socket and, for sockets
// that are not handwritten, tries to parse the new text into a block.
// Handwritten blocks are reparsed once the cursor leaves them.
func (s *Session) commitFocus() {
	d := s.doc
	socket := s.focus
	s.focus = model.NoEntity
	if !d.Attached(socket) {
		return
	}
	text := d.Stringify(socket)
	if text != s.original {
		at, _ := d.Locate(d.Start(socket))
		s.record(&SocketTextChange{Socket: at, Before: s.original, After: text})
		s.emit(socket, model.NoToken)
	}
	if !d.Handwritten(socket) && text != "" {
		s.reparseSocket(socket, text)
	}
}

func (s *Session) reparseSocket(socket model.Entity, text string) {
	ep, ok := s.parser.(ExpressionParser)
	if !ok {
		return
	}
	d := s.doc
	blk, err := ep.ParseExpression(d, text)
	if err != nil {
		s.logger.Trace().Err(err).Str("text", text).Msg("socket text kept")
		return
	}
	at, _ := d.Locate(d.Start(socket))
	after := d.Clone(blk)
	s.clearSocket(socket)
	d.InsertSpan(d.Start(socket), d.Start(blk), d.End(blk))
	s.record(&SocketReparse{Socket: at, Before: text, After: after})
	s.emit(blk, d.Start(socket))
}

// SetFocusText replaces the text of the focused socket.
func (s *Session) SetFocusText(text string) error {
	if s.focus == model.NoEntity {
		return ErrNoFocus
	}
	return s.doc.SetSocketText(s.focus, text)
}

// FocusText returns the text of the focused socket.
func (s *Session) FocusText() string {
	if s.focus == model.NoEntity {
		return ""
	}
	return s.doc.Stringify(s.focus)
}

// FocusNextSocket focuses the next editable socket after the focus or the
// cursor. It reports whether one was found.
func (s *Session) FocusNextSocket() bool {
	d := s.doc
	from := d.Cursor()
	if s.focus != model.NoEntity {
		from = d.End(s.focus)
	}
	for t := d.Next(from); t != model.NoToken; t = d.Next(t) {
		if d.Kind(t) == model.KindSocketStart && s.editable(d.Owner(t)) {
			return s.Focus(d.Owner(t)) == nil
		}
	}
	return false
}

// FocusPrevSocket focuses the previous editable socket before the focus or
// the cursor. It reports whether one was found.
func (s *Session) FocusPrevSocket() bool {
	d := s.doc
	from := d.Cursor()
	if s.focus != model.NoEntity {
		from = d.Start(s.focus)
	}
	for t := d.Prev(from); t != model.NoToken; t = d.Prev(t) {
		if d.Kind(t) == model.KindSocketEnd && s.editable(d.Owner(t)) {
			return s.Focus(d.Owner(t)) == nil
		}
	}
	return false
}

func (s *Session) editable(socket model.Entity) bool {
	c := s.doc.Content(socket)
	return c == model.NoToken || s.doc.Kind(c) == model.KindText
}

// FocusedBlock returns the block holding the focused socket, or NoEntity.
func (s *Session) FocusedBlock() model.Entity {
	if s.focus == model.NoEntity {
		return model.NoEntity
	}
	return s.doc.Enclosing(s.doc.Start(s.focus), model.EntityBlock)
}
