package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/open-cli-collective/ice-cli/pkg/model"
)

// Node is the nested form of a token chain used for tree and JSON output.
type Node struct {
	Kind        string  `json:"kind"`
	Label       string  `json:"label,omitempty"`
	Text        string  `json:"text,omitempty"`
	Depth       int     `json:"depth,omitempty"`
	Handwritten bool    `json:"handwritten,omitempty"`
	Children    []*Node `json:"children,omitempty"`
}

// BuildTree nests the tokens of e under their owning entities.
func BuildTree(doc *model.Document, e model.Entity) *Node {
	var root *Node
	var stack []*Node
	add := func(n *Node) {
		if len(stack) > 0 {
			top := stack[len(stack)-1]
			top.Children = append(top.Children, n)
		}
	}

	end := doc.End(e)
	for t := doc.Start(e); t != model.NoToken; t = doc.Next(t) {
		k := doc.Kind(t)
		switch {
		case k.IsStart():
			owner := doc.Owner(t)
			n := &Node{
				Kind:        doc.EntityKind(owner).String(),
				Label:       doc.Label(owner),
				Depth:       doc.Depth(owner),
				Handwritten: doc.Handwritten(owner),
			}
			if root == nil {
				root = n
			}
			add(n)
			stack = append(stack, n)
		case k.IsEnd():
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case k == model.KindText:
			add(&Node{Kind: "text", Text: doc.Text(t)})
		default:
			add(&Node{Kind: k.String()})
		}
		if t == end {
			break
		}
	}
	return root
}

// RenderDocument renders e in the renderer's format: a colored entity tree,
// the nested JSON form, or the printed source.
func (r *Renderer) RenderDocument(doc *model.Document, e model.Entity) error {
	switch r.format {
	case FormatJSON:
		return r.RenderJSON(BuildTree(doc, e))
	case FormatPlain:
		r.RenderRaw(doc.Stringify(e))
		return nil
	}
	if n := BuildTree(doc, e); n != nil {
		r.writeTree(n, 0)
	}
	return nil
}

var (
	blockColor  = color.New(color.FgCyan, color.Bold)
	socketColor = color.New(color.FgYellow)
	indentColor = color.New(color.FgMagenta)
	dimColor    = color.New(color.Faint)
)

func (r *Renderer) writeTree(n *Node, level int) {
	pad := strings.Repeat("  ", level)
	switch n.Kind {
	case "block", "segment":
		_, _ = blockColor.Fprint(r.writer, pad+n.Kind)
		if n.Label != "" {
			fmt.Fprint(r.writer, " "+n.Label)
		}
		if n.Handwritten {
			_, _ = dimColor.Fprint(r.writer, " (handwritten)")
		}
		fmt.Fprintln(r.writer)
	case "socket":
		// A socket holding only text prints on one line.
		if len(n.Children) == 1 && n.Children[0].Kind == "text" {
			_, _ = socketColor.Fprint(r.writer, pad+"socket ")
			fmt.Fprintln(r.writer, strconv.Quote(n.Children[0].Text))
			return
		}
		_, _ = socketColor.Fprintln(r.writer, pad+"socket")
	case "indent":
		_, _ = indentColor.Fprintf(r.writer, "%sindent %d\n", pad, n.Depth)
	case "text":
		fmt.Fprintln(r.writer, pad+strconv.Quote(n.Text))
	default:
		_, _ = dimColor.Fprintln(r.writer, pad+n.Kind)
	}
	for _, c := range n.Children {
		r.writeTree(c, level+1)
	}
}

// RenderTokens renders the flat token chain of e as a table.
func (r *Renderer) RenderTokens(doc *model.Document, e model.Entity) {
	var rows [][]string
	end := doc.End(e)
	for t := doc.Start(e); t != model.NoToken; t = doc.Next(t) {
		loc := "-"
		if doc.Kind(t) != model.KindCursor {
			if l, ok := doc.Locate(t); ok {
				loc = l.String()
			}
		}
		txt := ""
		if doc.Kind(t) == model.KindText {
			txt = Truncate(strconv.Quote(doc.Text(t)), 40)
		}
		rows = append(rows, []string{strconv.Itoa(int(t)), doc.Kind(t).String(), loc, txt})
		if t == end {
			break
		}
	}
	r.RenderTable([]string{"TOKEN", "KIND", "LOCATION", "TEXT"}, rows)
}
