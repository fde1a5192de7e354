package script

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/ice-cli/pkg/editor"
	"github.com/open-cli-collective/ice-cli/pkg/model"
	"github.com/open-cli-collective/ice-cli/pkg/python"
)

func newRunner(opts ...Option) *Runner {
	return NewRunner(editor.New(model.NewDocument(), python.New()), opts...)
}

func run(t *testing.T, src string) (*Result, error) {
	t.Helper()
	s, err := Parse([]byte(src))
	require.NoError(t, err)
	return newRunner().Run(s)
}

func TestParse(t *testing.T) {
	s, err := Parse([]byte(`
source: "x = 1\n"
steps:
  - op: move
    block: 0
    after: 1
  - op: select
    blocks: [0, 2]
  - op: down
    times: 3
`))
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", s.Source)
	require.Len(t, s.Steps, 3)
	require.NotNil(t, s.Steps[0].After)
	assert.Equal(t, 1, *s.Steps[0].After)
	assert.Equal(t, []int{0, 2}, s.Steps[1].Blocks)
	assert.Equal(t, 3, s.Steps[2].Times)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("steps: [1"))
	require.Error(t, err)

	_, err = Parse([]byte("steps:\n  - text: x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing op")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edit.yml")
	require.NoError(t, os.WriteFile(path, []byte("source: \"a\\n\"\nsteps: []\n"), 0600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n", s.Source)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}

func TestRun_HandwrittenLine(t *testing.T) {
	res, err := run(t, `
source: "x = 1\n"
steps:
  - op: down
  - op: enter
  - op: type
    text: y = 2
  - op: up
  - op: expect
    text: "x = 1\ny = 2"
  - op: undo
  - op: expect
    text: "x = 1\ny = 2"
  - op: undo
  - op: undo
  - op: expect
    text: "x = 1\n"
`)
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", res.Value)
	assert.Equal(t, 9, res.Steps)
}

func TestRun_MoveAndUndo(t *testing.T) {
	res, err := run(t, `
source: "a\nb\nc\n"
steps:
  - op: move
    block: 0
    after: 2
  - op: expect
    text: "\nb\nc\na\n"
  - op: undo
  - op: expect
    text: "a\nb\nc\n"
`)
	require.NoError(t, err)
	assert.Equal(t, 0, res.UndoDepth)
}

func TestRun_MoveWithoutAfterDetaches(t *testing.T) {
	res, err := run(t, `
source: "a\nb\n"
steps:
  - op: move
    block: 1
`)
	require.NoError(t, err)
	assert.Equal(t, "a\n\n", res.Value)
}

func TestRun_FocusTypeBlur(t *testing.T) {
	res, err := run(t, `
source: "x = 1\n"
steps:
  - op: focus
    socket: 1
  - op: type
    text: f(2)
  - op: blur
  - op: expect
    text: "x = f(2)\n"
`)
	require.NoError(t, err)
	assert.Equal(t, "x = f(2)\n", res.Value)
}

func TestRun_Tab(t *testing.T) {
	_, err := run(t, `
source: "if a:\n    b\n"
steps:
  - op: down
    times: 3
  - op: enter
  - op: type
    text: c
  - op: tab
  - op: expect
    text: "if a:\n    b\n    c"
`)
	require.NoError(t, err)
}

func TestRun_TabWithoutFocus(t *testing.T) {
	_, err := run(t, "source: \"a\\n\"\nsteps:\n  - op: tab\n")
	assert.ErrorIs(t, err, editor.ErrNoFocus)
}

func TestRun_FloatAndSelect(t *testing.T) {
	res, err := run(t, `
source: "a\nb\nc\n"
steps:
  - op: float
    block: 1
    x: 10
    y: 20
  - op: select
    blocks: [0]
  - op: clear-selection
  - op: checkpoint
  - op: expect
    text: "a\n\nc\n"
`)
	require.NoError(t, err)
	assert.Equal(t, "a\n\nc\n", res.Value)
}

func TestRun_UnknownOp(t *testing.T) {
	_, err := run(t, "source: \"a\\n\"\nsteps:\n  - op: dance\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownOp)
	assert.Contains(t, err.Error(), "step 1 (dance)")
}

func TestRun_FailedExpectation(t *testing.T) {
	_, err := run(t, "source: \"a\\n\"\nsteps:\n  - op: expect\n    text: b\n")
	assert.ErrorIs(t, err, ErrExpectation)
}

func TestRun_OrdinalOutOfRange(t *testing.T) {
	_, err := run(t, "source: \"a\\n\"\nsteps:\n  - op: focus\n    socket: 5\n")
	assert.ErrorIs(t, err, ErrNoSuchEntity)
}

func TestRun_SyntaxErrorInSource(t *testing.T) {
	_, err := run(t, "source: \"def (:\\n\"\nsteps: []\n")
	assert.ErrorIs(t, err, python.ErrSyntax)
}

func TestRun_Trace(t *testing.T) {
	var buf bytes.Buffer
	s, err := Parse([]byte("source: \"a\\nb\\n\"\nsteps:\n  - op: down\n  - op: backspace\n"))
	require.NoError(t, err)

	_, err = newRunner(WithTrace(&buf)).Run(s)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "--- 1 down\na\nb\n")
	assert.Contains(t, buf.String(), "--- 2 backspace\n")
}
