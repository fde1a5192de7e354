package model

import (
	"fmt"
	"unicode/utf8"
)

// Location addresses a token by position rather than identity, so it
// survives cloning and re-insertion.
//
// Offset is the character offset of the token in the printed document.
// Rank counts the zero-width tokens that precede it at the same offset.
// Cursor tokens are invisible to locations.
type Location struct {
	Offset int `json:"offset" yaml:"offset"`
	Rank   int `json:"rank" yaml:"rank"`
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Offset, l.Rank)
}

func (d *Document) width(t Token) int {
	switch d.tokens[t].kind {
	case KindText:
		return utf8.RuneCountInString(d.tokens[t].text)
	case KindNewline:
		return 1
	}
	return 0
}

// Locate returns the location of t, which must be reachable from the root.
func (d *Document) Locate(t Token) (Location, bool) {
	var loc Location
	for c := d.Start(d.root); c != NoToken; c = d.tokens[c].next {
		if d.tokens[c].kind == KindCursor {
			if c == t {
				return loc, true
			}
			continue
		}
		if c == t {
			return loc, true
		}
		if w := d.width(c); w > 0 {
			loc.Offset += w
			loc.Rank = 0
		} else {
			loc.Rank++
		}
	}
	return Location{}, false
}

// TokenAt returns the non-cursor token at loc. It reports false when no
// token sits there.
func (d *Document) TokenAt(loc Location) (Token, bool) {
	var cur Location
	for c := d.Start(d.root); c != NoToken; c = d.tokens[c].next {
		if d.tokens[c].kind == KindCursor {
			continue
		}
		if cur == loc {
			return c, true
		}
		if cur.Offset > loc.Offset {
			break
		}
		if w := d.width(c); w > 0 {
			cur.Offset += w
			cur.Rank = 0
		} else {
			cur.Rank++
		}
	}
	return NoToken, false
}
