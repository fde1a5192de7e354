// Package model implements the doubly linked token chain behind a hybrid
// block and text editor.
//
// Tokens and entities live in arenas owned by a Document and are addressed
// by small integer handles. A handle stays valid for the lifetime of the
// Document; detached tokens are simply unreachable from the root.
package model

// Token is a handle to a token in a Document arena.
type Token int32

// Entity is a handle to a Block, Socket, Indent or Segment in a Document arena.
type Entity int32

// NoToken and NoEntity are the null handles.
const (
	NoToken  Token  = 0
	NoEntity Entity = 0
)

type token struct {
	kind  Kind
	prev  Token
	next  Token
	owner Entity
	text  string
}

type entity struct {
	kind        EntityKind
	start       Token
	end         Token
	handwritten bool
	depth       int
	label       string
}

// Document owns the token and entity arenas, the root segment and the
// single cursor token.
type Document struct {
	tokens   []token
	entities []entity
	root     Entity
	cursor   Token
}

// NewDocument returns a document holding an empty root segment with the
// cursor placed at its start.
func NewDocument() *Document {
	d := &Document{
		tokens:   make([]token, 1, 256),
		entities: make([]entity, 1, 64),
	}
	d.root = d.NewSegment()
	d.cursor = d.newToken(KindCursor, NoEntity, "")
	d.Insert(d.Start(d.root), d.cursor)
	return d
}

func (d *Document) newToken(kind Kind, owner Entity, text string) Token {
	d.tokens = append(d.tokens, token{kind: kind, owner: owner, text: text})
	return Token(len(d.tokens) - 1)
}

// newEntity allocates an entity with its start token linked directly to its
// end token.
func (d *Document) newEntity(kind EntityKind) Entity {
	d.entities = append(d.entities, entity{kind: kind})
	e := Entity(len(d.entities) - 1)
	start := d.newToken(kind.startKind(), e, "")
	end := d.newToken(kind.endKind(), e, "")
	d.tokens[start].next = end
	d.tokens[end].prev = start
	d.entities[e].start = start
	d.entities[e].end = end
	return e
}

// NewBlock allocates an empty detached block.
func (d *Document) NewBlock() Entity { return d.newEntity(EntityBlock) }

// NewSocket allocates an empty detached socket.
func (d *Document) NewSocket() Entity { return d.newEntity(EntitySocket) }

// NewIndent allocates an empty detached indent of the given depth.
func (d *Document) NewIndent(depth int) Entity {
	e := d.newEntity(EntityIndent)
	d.entities[e].depth = depth
	return e
}

// NewSegment allocates an empty detached segment.
func (d *Document) NewSegment() Entity { return d.newEntity(EntitySegment) }

// NewText allocates a detached text token.
func (d *Document) NewText(s string) Token { return d.newToken(KindText, NoEntity, s) }

// NewNewline allocates a detached newline token.
func (d *Document) NewNewline() Token { return d.newToken(KindNewline, NoEntity, "") }

// Root returns the root segment.
func (d *Document) Root() Entity { return d.root }

// Cursor returns the cursor token.
func (d *Document) Cursor() Token { return d.cursor }

// SetRoot replaces the root segment with seg and moves the cursor to its start.
func (d *Document) SetRoot(seg Entity) {
	d.Remove(d.cursor)
	d.root = seg
	d.Insert(d.Start(seg), d.cursor)
}

func (d *Document) validToken(t Token) bool {
	return t > 0 && int(t) < len(d.tokens)
}

func (d *Document) validEntity(e Entity) bool {
	return e > 0 && int(e) < len(d.entities)
}

// Kind returns the kind of t, or KindInvalid for a null or unknown handle.
func (d *Document) Kind(t Token) Kind {
	if !d.validToken(t) {
		return KindInvalid
	}
	return d.tokens[t].kind
}

// Next returns the token after t.
func (d *Document) Next(t Token) Token {
	if !d.validToken(t) {
		return NoToken
	}
	return d.tokens[t].next
}

// Prev returns the token before t.
func (d *Document) Prev(t Token) Token {
	if !d.validToken(t) {
		return NoToken
	}
	return d.tokens[t].prev
}

// Owner returns the entity a bracket token belongs to.
func (d *Document) Owner(t Token) Entity {
	if !d.validToken(t) {
		return NoEntity
	}
	return d.tokens[t].owner
}

// Text returns the text of a text token.
func (d *Document) Text(t Token) string {
	if !d.validToken(t) {
		return ""
	}
	return d.tokens[t].text
}

// SetText replaces the text of a text token.
func (d *Document) SetText(t Token, s string) {
	if d.Kind(t) == KindText {
		d.tokens[t].text = s
	}
}

// EntityKind returns the kind of e.
func (d *Document) EntityKind(e Entity) EntityKind {
	if !d.validEntity(e) {
		return EntityNone
	}
	return d.entities[e].kind
}

// Start returns the opening token of e.
func (d *Document) Start(e Entity) Token {
	if !d.validEntity(e) {
		return NoToken
	}
	return d.entities[e].start
}

// End returns the closing token of e.
func (d *Document) End(e Entity) Token {
	if !d.validEntity(e) {
		return NoToken
	}
	return d.entities[e].end
}

// Handwritten reports whether e holds unparsed user text.
func (d *Document) Handwritten(e Entity) bool {
	return d.validEntity(e) && d.entities[e].handwritten
}

// SetHandwritten marks e as holding unparsed user text.
func (d *Document) SetHandwritten(e Entity, v bool) {
	if d.validEntity(e) {
		d.entities[e].handwritten = v
	}
}

// Depth returns the indentation width of an indent.
func (d *Document) Depth(e Entity) int {
	if !d.validEntity(e) {
		return 0
	}
	return d.entities[e].depth
}

// Label returns the syntactic label of a block, e.g. "if_statement".
func (d *Document) Label(e Entity) string {
	if !d.validEntity(e) {
		return ""
	}
	return d.entities[e].label
}

// SetLabel sets the syntactic label of a block.
func (d *Document) SetLabel(e Entity, label string) {
	if d.validEntity(e) {
		d.entities[e].label = label
	}
}

// Len returns the number of tokens allocated in the arena.
func (d *Document) Len() int { return len(d.tokens) - 1 }

// Content returns the first non-cursor token inside a socket, or NoToken
// when the socket is empty.
func (d *Document) Content(socket Entity) Token {
	end := d.End(socket)
	for t := d.Next(d.Start(socket)); t != NoToken && t != end; t = d.Next(t) {
		if d.Kind(t) != KindCursor {
			return t
		}
	}
	return NoToken
}

// ContentEntity returns the entity held by a socket, or NoEntity when the
// socket is empty or holds text.
func (d *Document) ContentEntity(socket Entity) Entity {
	c := d.Content(socket)
	if d.Kind(c).IsStart() {
		return d.Owner(c)
	}
	return NoEntity
}

// SetSocketText replaces the text content of a socket. Empty sockets gain a
// new text token. Sockets holding a block or segment are rejected.
func (d *Document) SetSocketText(socket Entity, s string) error {
	if d.EntityKind(socket) != EntitySocket {
		return ErrNotSocket
	}
	c := d.Content(socket)
	switch d.Kind(c) {
	case KindInvalid:
		d.Insert(d.Start(socket), d.NewText(s))
	case KindText:
		d.SetText(c, s)
	default:
		return ErrOccupiedSocket
	}
	return nil
}

// Attached reports whether e is reachable from the root segment.
func (d *Document) Attached(e Entity) bool {
	return e == d.root || d.Reachable(d.Start(e))
}

// Reachable reports whether t is linked into the root segment.
func (d *Document) Reachable(t Token) bool {
	rootStart := d.Start(d.root)
	if t == rootStart {
		return true
	}
	for p := d.Prev(t); p != NoToken; p = d.Prev(p) {
		if p == rootStart {
			return true
		}
	}
	return false
}

// Enclosing returns the innermost entity whose span contains t, restricted
// to the given kinds when any are passed.
func (d *Document) Enclosing(t Token, kinds ...EntityKind) Entity {
	depth := 0
	for p := d.Prev(t); p != NoToken; p = d.Prev(p) {
		k := d.Kind(p)
		switch {
		case k.IsEnd():
			depth++
		case k.IsStart():
			if depth > 0 {
				depth--
				continue
			}
			e := d.Owner(p)
			if len(kinds) == 0 {
				return e
			}
			for _, want := range kinds {
				if d.EntityKind(e) == want {
					return e
				}
			}
		}
	}
	return NoEntity
}

// Parent returns the entity directly enclosing e.
func (d *Document) Parent(e Entity) Entity {
	return d.Enclosing(d.Start(e))
}

// Entities returns the entities of the given kind under root in chain order.
func (d *Document) Entities(root Entity, kind EntityKind) []Entity {
	var out []Entity
	end := d.End(root)
	for t := d.Start(root); t != NoToken; t = d.Next(t) {
		if d.Kind(t) == kind.startKind() {
			out = append(out, d.Owner(t))
		}
		if t == end {
			break
		}
	}
	return out
}

// NextVisible returns the first token after t that is not the cursor.
func (d *Document) NextVisible(t Token) Token {
	n := d.Next(t)
	for d.Kind(n) == KindCursor {
		n = d.Next(n)
	}
	return n
}

// PrevVisible returns the first token before t that is not the cursor.
func (d *Document) PrevVisible(t Token) Token {
	p := d.Prev(t)
	for d.Kind(p) == KindCursor {
		p = d.Prev(p)
	}
	return p
}
