package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/open-cli-collective/ice-cli/pkg/model"
)

type styles struct {
	Cursor      lipgloss.Style
	Focus       lipgloss.Style
	Handwritten lipgloss.Style
	Gutter      lipgloss.Style
	Header      lipgloss.Style
	Status      lipgloss.Style
	Error       lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Cursor:      lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		Focus:       lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("229")),
		Handwritten: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245")),
		Gutter:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Header:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

func plainStyles() styles {
	p := lipgloss.NewStyle()
	return styles{Cursor: p, Focus: p, Handwritten: p, Gutter: p, Header: p, Status: p, Error: p}
}

const cursorGlyph = "│"

// renderLines prints the document the way the model printer does, with the
// cursor drawn as a bar and the focused socket and handwritten text styled.
func renderLines(doc *model.Document, focus model.Entity, st styles) []string {
	var (
		lines   []string
		line    strings.Builder
		indent  int
		pending bool
		focused int
		hand    int
	)
	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
	}
	pad := func() {
		if pending && indent > 0 {
			line.WriteString(strings.Repeat(" ", indent))
		}
		pending = false
	}

	end := doc.End(doc.Root())
	for t := doc.Start(doc.Root()); t != model.NoToken; t = doc.Next(t) {
		owner := doc.Owner(t)
		switch k := doc.Kind(t); k {
		case model.KindIndentStart:
			indent += doc.Depth(owner)
		case model.KindIndentEnd:
			indent -= doc.Depth(owner)
		case model.KindSocketStart:
			if owner == focus {
				focused++
			}
			if doc.Handwritten(owner) {
				hand++
			}
		case model.KindSocketEnd:
			if owner == focus {
				focused--
			}
			if doc.Handwritten(owner) {
				hand--
			}
		case model.KindNewline:
			flush()
			pending = true
		case model.KindCursor:
			pad()
			line.WriteString(st.Cursor.Render(cursorGlyph))
		case model.KindText:
			s := doc.Text(t)
			if s == "" {
				break
			}
			pad()
			switch {
			case focused > 0:
				s = st.Focus.Render(s)
			case hand > 0:
				s = st.Handwritten.Render(s)
			}
			line.WriteString(s)
		}
		if t == end {
			break
		}
	}
	flush()
	return lines
}
