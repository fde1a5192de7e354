package model

// Builder appends tokens to a fresh segment in source order. Parsers use it
// to assemble a chain without managing links themselves.
type Builder struct {
	doc   *Document
	root  Entity
	tail  Token
	stack []Entity
}

// NewBuilder starts a new detached segment in d.
func NewBuilder(d *Document) *Builder {
	root := d.NewSegment()
	return &Builder{doc: d, root: root, tail: d.Start(root)}
}

// Text appends s, merging it into a directly preceding text token.
func (b *Builder) Text(s string) {
	if s == "" {
		return
	}
	if b.doc.Kind(b.tail) == KindText {
		b.doc.SetText(b.tail, b.doc.Text(b.tail)+s)
		return
	}
	b.tail = b.doc.Insert(b.tail, b.doc.NewText(s))
}

// Newline appends a newline token.
func (b *Builder) Newline() {
	b.tail = b.doc.Insert(b.tail, b.doc.NewNewline())
}

// OpenBlock opens a block with the given label.
func (b *Builder) OpenBlock(label string) Entity {
	e := b.doc.NewBlock()
	b.doc.SetLabel(e, label)
	return b.open(e)
}

// OpenSocket opens a socket.
func (b *Builder) OpenSocket() Entity {
	return b.open(b.doc.NewSocket())
}

// OpenIndent opens an indent of the given depth.
func (b *Builder) OpenIndent(depth int) Entity {
	return b.open(b.doc.NewIndent(depth))
}

func (b *Builder) open(e Entity) Entity {
	b.doc.InsertSpan(b.tail, b.doc.Start(e), b.doc.End(e))
	b.tail = b.doc.Start(e)
	b.stack = append(b.stack, e)
	return e
}

// Close closes the innermost open entity and returns it.
func (b *Builder) Close() Entity {
	if len(b.stack) == 0 {
		return NoEntity
	}
	e := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	b.tail = b.doc.End(e)
	return e
}

// Depth returns the number of entities still open.
func (b *Builder) Depth() int { return len(b.stack) }

// Finish returns the built segment. Every opened entity must be closed.
func (b *Builder) Finish() (Entity, error) {
	if len(b.stack) != 0 {
		return NoEntity, ErrUnbalanced
	}
	return b.root, nil
}
