package python

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/open-cli-collective/ice-cli/pkg/model"
)

// atomic node types are emitted as a socket holding their source text.
var atomic = map[string]bool{
	"identifier":          true,
	"integer":             true,
	"float":               true,
	"string":              true,
	"concatenated_string": true,
	"true":                true,
	"false":               true,
	"none":                true,
	"ellipsis":            true,
	"escape_sequence":     true,
}

// transparent node types are flattened into their parent block.
var transparent = map[string]bool{
	"argument_list":       true,
	"parameters":          true,
	"lambda_parameters":   true,
	"expression_list":     true,
	"pattern_list":        true,
	"elif_clause":         true,
	"else_clause":         true,
	"except_clause":       true,
	"except_group_clause": true,
	"finally_clause":      true,
	"with_clause":         true,
	"with_item":           true,
	"case_clause":         true,
	"decorator":           true,
	"dotted_name":         true,
	"aliased_import":      true,
	"import_prefix":       true,
	"relative_import":     true,
	"for_in_clause":       true,
	"if_clause":           true,
	"type_parameter":      true,
	"function_definition": true,
	"class_definition":    true,
	"wildcard_import":     true,
}

func isAtomic(n *sitter.Node) bool {
	return atomic[n.Type()] || n.NamedChildCount() == 0
}

type walker struct {
	src       []byte
	b         *model.Builder
	indent    int
	col       int
	lineStart bool
}

// continuation keeps the part of a continuation line's indentation that
// lies beyond the enclosing Indents.
func (w *walker) continuation() {
	if w.lineStart && w.col > w.indent {
		w.b.Text(strings.Repeat(" ", w.col-w.indent))
		w.lineStart = false
	}
}

// gap emits the source between two nodes. Newlines become newline tokens and
// the indentation owned by enclosing Indents is dropped. Inside a statement
// any deeper continuation indent is kept as text.
func (w *walker) gap(from, to uint32, inline bool) {
	if from >= to {
		return
	}
	var buf strings.Builder
	flush := func() {
		if buf.Len() > 0 {
			w.b.Text(buf.String())
			buf.Reset()
		}
	}
	for _, r := range string(w.src[from:to]) {
		switch r {
		case '\n':
			flush()
			w.b.Newline()
			w.lineStart = true
			w.col = 0
		case '\r':
		case ' ', '\t':
			if w.lineStart {
				w.col++
			} else {
				buf.WriteRune(r)
			}
		default:
			if w.lineStart && inline && w.col > w.indent {
				buf.WriteString(strings.Repeat(" ", w.col-w.indent))
			}
			buf.WriteRune(r)
			w.lineStart = false
		}
	}
	flush()
}

func (w *walker) text(n *sitter.Node) {
	w.b.Text(n.Content(w.src))
	w.lineStart = false
}

// statements emits each child of a module or suite as a block and returns
// the byte offset after the last one.
func (w *walker) statements(n *sitter.Node, from uint32) uint32 {
	pos := from
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		w.gap(pos, c.StartByte(), false)
		w.statement(c)
		pos = c.EndByte()
	}
	return pos
}

func (w *walker) statement(n *sitter.Node) {
	if !n.IsNamed() {
		w.gap(n.StartByte(), n.EndByte(), true)
		return
	}

	target := n
	if n.Type() == "expression_statement" && n.NamedChildCount() == 1 {
		if c := n.NamedChild(0); c.StartByte() == n.StartByte() && c.EndByte() == n.EndByte() {
			target = c
		}
	}

	w.b.OpenBlock(target.Type())
	switch {
	case target.Type() == "comment":
		w.text(target)
	case target != n && isAtomic(target):
		w.b.OpenSocket()
		w.text(target)
		w.b.Close()
	default:
		w.children(target)
	}
	w.b.Close()
}

// children emits the content of a compound node. A suite that starts on a
// later row than the preceding child becomes an Indent.
func (w *walker) children(n *sitter.Node) {
	pos := n.StartByte()
	row := n.StartPoint().Row
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Type() == "block" && w.suite(c, pos, row) {
			pos = c.EndByte()
			row = c.EndPoint().Row
			continue
		}
		w.gap(pos, c.StartByte(), true)
		w.child(c)
		pos = c.EndByte()
		row = c.EndPoint().Row
	}
	w.gap(pos, n.EndByte(), true)
}

func (w *walker) child(c *sitter.Node) {
	switch {
	case !c.IsNamed():
		w.gap(c.StartByte(), c.EndByte(), true)
	case c.Type() == "comment":
		w.continuation()
		w.text(c)
	case c.Type() == "block":
		pos := w.statements(c, c.StartByte())
		w.gap(pos, c.EndByte(), true)
	case isAtomic(c):
		w.continuation()
		w.b.OpenSocket()
		w.text(c)
		w.b.Close()
	case transparent[c.Type()]:
		w.children(c)
	default:
		w.continuation()
		w.b.OpenSocket()
		w.b.OpenBlock(c.Type())
		w.children(c)
		w.b.Close()
		w.b.Close()
	}
}

// suite emits an indented block. The indent opens before the gap so the
// newline that introduces the suite sits inside it. It reports false for a
// suite on the same row as its header.
func (w *walker) suite(c *sitter.Node, pos uint32, row uint32) bool {
	if c.NamedChildCount() == 0 {
		return false
	}
	first := c.NamedChild(0)
	if first.StartPoint().Row <= row {
		return false
	}
	depth := int(first.StartPoint().Column) - w.indent
	if depth <= 0 {
		return false
	}

	w.b.OpenIndent(depth)
	w.indent += depth
	end := w.statements(c, pos)
	w.gap(end, c.EndByte(), false)
	w.indent -= depth
	w.b.Close()
	return true
}
