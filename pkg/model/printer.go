package model

import "strings"

// String returns the source text of the whole document.
func (d *Document) String() string {
	return d.Stringify(d.root)
}

// Stringify returns the source text of e. Indentation is emitted only for
// indents opened inside e.
func (d *Document) Stringify(e Entity) string {
	return d.StringifySpan(d.Start(e), d.End(e))
}

// StringifySpan returns the source text of the tokens first..last.
//
// Text is written verbatim. A newline is followed by the indentation of the
// indents open at that point, written lazily so blank lines carry no
// trailing spaces. Brackets and the cursor print nothing.
func (d *Document) StringifySpan(first, last Token) string {
	var sb strings.Builder
	indent := 0
	pending := false
	for t := first; t != NoToken; t = d.tokens[t].next {
		tk := &d.tokens[t]
		switch tk.kind {
		case KindIndentStart:
			indent += d.entities[tk.owner].depth
		case KindIndentEnd:
			indent -= d.entities[tk.owner].depth
		case KindNewline:
			sb.WriteByte('\n')
			pending = true
		case KindText:
			if tk.text == "" {
				break
			}
			if pending && indent > 0 {
				sb.WriteString(strings.Repeat(" ", indent))
			}
			pending = false
			sb.WriteString(tk.text)
		}
		if t == last {
			break
		}
	}
	return sb.String()
}
