// Package tui provides the interactive terminal editor.
//
// The model is driven by bubbletea and holds an editor.Session. Key
// presses map onto session operations; the document is redrawn from the
// token chain after every message.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/open-cli-collective/ice-cli/pkg/editor"
	"github.com/open-cli-collective/ice-cli/pkg/model"
)

// SaveFunc writes the edited source somewhere.
type SaveFunc func(src string) error

// savedMsg reports the result of a save.
type savedMsg struct {
	err error
}

// Model is the bubbletea model for an editing session.
type Model struct {
	session *editor.Session
	title   string
	save    SaveFunc
	logger  zerolog.Logger

	keys     keyMap
	help     help.Model
	styles   styles
	viewport viewport.Model

	width  int
	height int
	ready  bool

	status   string
	failed   bool
	dirty    bool
	quitting bool
}

// Option configures a Model.
type Option func(*Model)

// WithSave sets the function called on ctrl+s.
func WithSave(fn SaveFunc) Option {
	return func(m *Model) { m.save = fn }
}

// WithLogger sets the model logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Model) {
		m.logger = l.With().Str("component", "tui").Logger()
	}
}

func withStyles(st styles) Option {
	return func(m *Model) { m.styles = st }
}

// New returns a model editing session. title is shown in the header.
func New(session *editor.Session, title string, opts ...Option) Model {
	m := Model{
		session: session,
		title:   title,
		logger:  zerolog.Nop(),
		keys:    defaultKeys(),
		help:    help.New(),
		styles:  defaultStyles(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Value returns the current source text.
func (m Model) Value() string { return m.session.Value() }

// Dirty reports whether the document changed since the last save.
func (m Model) Dirty() bool { return m.dirty }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := m.height - 3
		if h < 1 {
			h = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, h)
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = h
		}
		m.help.Width = m.width
		m.refresh()
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.dirty = false
			m.status = "saved"
			m.failed = false
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.session
	before := s.Value()
	m.status = ""
	m.failed = false

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Save):
		s.Blur()
		return m, m.saveCmd()

	case key.Matches(msg, m.keys.Undo):
		s.Undo()

	case key.Matches(msg, m.keys.Reparse):
		s.AttemptReparse()

	case key.Matches(msg, m.keys.Up):
		s.MoveCursorUp()

	case key.Matches(msg, m.keys.Down):
		s.MoveCursorDown()

	case key.Matches(msg, m.keys.Left):
		s.FocusPrevSocket()

	case key.Matches(msg, m.keys.Right):
		s.FocusNextSocket()

	case key.Matches(msg, m.keys.Blur):
		s.Blur()

	case key.Matches(msg, m.keys.Enter):
		if f := s.Focused(); f != model.NoEntity && !s.Document().Handwritten(f) {
			s.Blur()
			break
		}
		if _, err := s.InsertHandwrittenBlock(); err != nil {
			m.setError(err)
		}

	case key.Matches(msg, m.keys.Tab):
		if blk := s.FocusedBlock(); blk != model.NoEntity {
			s.IndentBlock(blk)
		}

	case key.Matches(msg, m.keys.Backspace):
		m.backspace()

	case msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace:
		if s.Focused() == model.NoEntity {
			break
		}
		typed := string(msg.Runes)
		if msg.Type == tea.KeySpace {
			typed = " "
		}
		if err := s.SetFocusText(s.FocusText() + typed); err != nil {
			m.setError(err)
		}
	}

	if s.Value() != before {
		m.dirty = true
	}
	m.refresh()
	return m, nil
}

// backspace deletes the last character of the focused socket. An empty
// handwritten socket, or no focus at all, deletes the line before the
// cursor.
func (m *Model) backspace() {
	s := m.session
	f := s.Focused()
	if f == model.NoEntity {
		s.DeleteFromCursor()
		return
	}
	text := s.FocusText()
	if text == "" {
		if s.Document().Handwritten(f) {
			s.DeleteFromCursor()
		}
		return
	}
	r := []rune(text)
	if err := s.SetFocusText(string(r[:len(r)-1])); err != nil {
		m.setError(err)
	}
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.failed = true
	m.logger.Debug().Err(err).Msg("edit rejected")
}

func (m Model) saveCmd() tea.Cmd {
	if m.save == nil {
		return func() tea.Msg { return savedMsg{err: fmt.Errorf("no save target")} }
	}
	src := m.session.Value()
	save := m.save
	return func() tea.Msg { return savedMsg{err: save(src)} }
}

// refresh redraws the document into the viewport and keeps the cursor line
// visible.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	lines := renderLines(m.session.Document(), m.session.Focused(), m.styles)
	width := len(fmt.Sprint(len(lines)))
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.styles.Gutter.Render(fmt.Sprintf("%*d ", width, i+1)))
		b.WriteString(l)
	}
	m.viewport.SetContent(b.String())

	line := m.session.CursorLine()
	switch {
	case line < m.viewport.YOffset:
		m.viewport.SetYOffset(line)
	case line >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading...\n"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderHeader() string {
	title := m.title
	if m.dirty {
		title += " *"
	}
	return m.styles.Header.Render(title)
}

func (m Model) renderStatus() string {
	if m.failed {
		return m.styles.Error.Render(m.status)
	}
	s := m.session
	parts := []string{fmt.Sprintf("line %d", s.CursorLine()+1)}
	if f := s.Focused(); f != model.NoEntity {
		if blk := s.FocusedBlock(); blk != model.NoEntity {
			parts = append(parts, "editing "+s.Document().Label(blk))
		}
	}
	if n := len(s.Floating()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d floating", n))
	}
	parts = append(parts, fmt.Sprintf("undo %d", s.UndoDepth()))
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return m.styles.Status.Render(strings.Join(parts, " · "))
}
