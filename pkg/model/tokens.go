// tokens.go defines the token and entity kinds that make up a document chain.
package model

// Kind identifies the type of a single token in the chain.
type Kind uint8

const (
	KindInvalid      Kind = iota // zero value, also returned for NoToken
	KindBlockStart                // opens a Block
	KindBlockEnd                  // closes a Block
	KindSocketStart               // opens a Socket
	KindSocketEnd                 // closes a Socket
	KindIndentStart               // opens an Indent
	KindIndentEnd                 // closes an Indent
	KindSegmentStart              // opens a Segment
	KindSegmentEnd                // closes a Segment
	KindText                      // literal source text
	KindNewline                   // line break
	KindCursor                    // the caret marker
)

var kindNames = [...]string{
	KindInvalid:      "invalid",
	KindBlockStart:   "blockStart",
	KindBlockEnd:     "blockEnd",
	KindSocketStart:  "socketStart",
	KindSocketEnd:    "socketEnd",
	KindIndentStart:  "indentStart",
	KindIndentEnd:    "indentEnd",
	KindSegmentStart: "segmentStart",
	KindSegmentEnd:   "segmentEnd",
	KindText:         "text",
	KindNewline:      "newline",
	KindCursor:       "cursor",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// IsStart reports whether k opens an entity span.
func (k Kind) IsStart() bool {
	switch k {
	case KindBlockStart, KindSocketStart, KindIndentStart, KindSegmentStart:
		return true
	}
	return false
}

// IsEnd reports whether k closes an entity span.
func (k Kind) IsEnd() bool {
	switch k {
	case KindBlockEnd, KindSocketEnd, KindIndentEnd, KindSegmentEnd:
		return true
	}
	return false
}

// EntityKind identifies the structural entity a bracket token belongs to.
type EntityKind uint8

const (
	EntityNone    EntityKind = iota
	EntityBlock              // a syntactic unit, possibly handwritten
	EntitySocket             // single-slot placeholder inside a block
	EntityIndent             // nested group of lines
	EntitySegment            // arbitrary well-nested span
)

func (k EntityKind) String() string {
	switch k {
	case EntityBlock:
		return "block"
	case EntitySocket:
		return "socket"
	case EntityIndent:
		return "indent"
	case EntitySegment:
		return "segment"
	}
	return "none"
}

func (k EntityKind) startKind() Kind {
	switch k {
	case EntityBlock:
		return KindBlockStart
	case EntitySocket:
		return KindSocketStart
	case EntityIndent:
		return KindIndentStart
	case EntitySegment:
		return KindSegmentStart
	}
	return KindInvalid
}

func (k EntityKind) endKind() Kind {
	switch k {
	case EntityBlock:
		return KindBlockEnd
	case EntitySocket:
		return KindSocketEnd
	case EntityIndent:
		return KindIndentEnd
	case EntitySegment:
		return KindSegmentEnd
	}
	return KindInvalid
}
