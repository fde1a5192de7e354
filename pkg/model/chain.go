package model

// Insert links t directly after at and returns t.
func (d *Document) Insert(at, t Token) Token {
	return d.InsertSpan(at, t, t)
}

// InsertSpan links the span first..last directly after at and returns last.
// The span must already be detached.
func (d *Document) InsertSpan(at, first, last Token) Token {
	if !d.validToken(at) || !d.validToken(first) || !d.validToken(last) {
		return NoToken
	}
	next := d.tokens[at].next
	d.tokens[at].next = first
	d.tokens[first].prev = at
	d.tokens[last].next = next
	if next != NoToken {
		d.tokens[next].prev = last
	}
	return last
}

// InsertBefore links t directly before at and returns t.
func (d *Document) InsertBefore(at, t Token) Token {
	d.InsertSpanBefore(at, t, t)
	return t
}

// InsertSpanBefore links the detached span first..last directly before at
// and returns first.
func (d *Document) InsertSpanBefore(at, first, last Token) Token {
	if !d.validToken(at) || !d.validToken(first) || !d.validToken(last) {
		return NoToken
	}
	prev := d.tokens[at].prev
	d.tokens[first].prev = prev
	d.tokens[last].next = at
	d.tokens[at].prev = last
	if prev != NoToken {
		d.tokens[prev].next = first
	}
	return first
}

// Remove unlinks t, joining its neighbours.
func (d *Document) Remove(t Token) {
	d.RemoveSpan(t, t)
}

// RemoveSpan unlinks first..last, joining the tokens around it. The span
// keeps its internal links.
func (d *Document) RemoveSpan(first, last Token) {
	if !d.validToken(first) || !d.validToken(last) {
		return
	}
	prev := d.tokens[first].prev
	next := d.tokens[last].next
	if prev != NoToken {
		d.tokens[prev].next = next
	}
	if next != NoToken {
		d.tokens[next].prev = prev
	}
	d.tokens[first].prev = NoToken
	d.tokens[last].next = NoToken
}

// Append links t directly to next, dropping whatever lay between them, and
// returns next.
func (d *Document) Append(t, next Token) Token {
	if !d.validToken(t) {
		return NoToken
	}
	d.tokens[t].next = next
	if d.validToken(next) {
		d.tokens[next].prev = t
	}
	return next
}

// Detach unlinks the whole span of e.
func (d *Document) Detach(e Entity) {
	d.RemoveSpan(d.Start(e), d.End(e))
}

// MoveTo detaches e and, unless target is NoToken, reinserts it directly
// after target.
func (d *Document) MoveTo(e Entity, target Token) {
	d.Detach(e)
	if target != NoToken {
		d.InsertSpan(target, d.Start(e), d.End(e))
	}
}

// Wrap places the brackets of a fresh entity around the attached span
// first..last.
func (d *Document) Wrap(e Entity, first, last Token) {
	start, end := d.Start(e), d.End(e)
	d.tokens[start].next = NoToken
	d.tokens[end].prev = NoToken
	d.InsertBefore(first, start)
	d.Insert(last, end)
}

// Unwrap removes the brackets of e, leaving its content in place.
func (d *Document) Unwrap(e Entity) {
	start, end := d.Start(e), d.End(e)
	d.Remove(start)
	d.Remove(end)
	d.tokens[start].next = end
	d.tokens[end].prev = start
}

// Contains reports whether t lies within first..last.
func (d *Document) Contains(first, last, t Token) bool {
	for c := first; c != NoToken; c = d.Next(c) {
		if c == t {
			return true
		}
		if c == last {
			break
		}
	}
	return false
}

// Clone deep-copies e into fresh detached tokens and entities. Cursor tokens
// are not copied.
func (d *Document) Clone(e Entity) Entity {
	first, _ := d.CloneSpan(d.Start(e), d.End(e))
	return d.Owner(first)
}

// CloneSpan deep-copies the well-nested span first..last into fresh detached
// tokens and returns the bounds of the copy. Cursor tokens are not copied.
func (d *Document) CloneSpan(first, last Token) (Token, Token) {
	mapping := make(map[Entity]Entity)
	var head, prev Token
	for t := first; t != NoToken; t = d.Next(t) {
		src := d.tokens[t]
		if src.kind != KindCursor {
			owner := NoEntity
			if src.owner != NoEntity {
				var ok bool
				if owner, ok = mapping[src.owner]; !ok {
					orig := d.entities[src.owner]
					d.entities = append(d.entities, entity{
						kind:        orig.kind,
						handwritten: orig.handwritten,
						depth:       orig.depth,
						label:       orig.label,
					})
					owner = Entity(len(d.entities) - 1)
					mapping[src.owner] = owner
				}
			}
			c := d.newToken(src.kind, owner, src.text)
			switch {
			case src.kind.IsStart():
				d.entities[owner].start = c
			case src.kind.IsEnd():
				d.entities[owner].end = c
			}
			if prev != NoToken {
				d.tokens[prev].next = c
				d.tokens[c].prev = prev
			} else {
				head = c
			}
			prev = c
		}
		if t == last {
			break
		}
	}
	return head, prev
}
