package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/ice-cli/pkg/md"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		path string
		want Kind
	}{
		{"main.py", KindCode},
		{"README.md", KindMarkdown},
		{"notes.MARKDOWN", KindMarkdown},
		{"page.html", KindHTML},
		{"page.htm", KindHTML},
		{"noext", KindCode},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.path))
		})
	}
}

func TestRead_Python(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0600))

	f, err := Read(path, "python")
	require.NoError(t, err)
	assert.Equal(t, KindCode, f.Kind)
	assert.Equal(t, "x = 1\n", f.Code)
}

func TestRead_Missing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.py"), "python")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_MarkdownWriteBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	src := "# Notes\n\n```python\nx = 1\n```\n\nAfter.\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0600))

	f, err := Read(path, "python")
	require.NoError(t, err)
	assert.Equal(t, KindMarkdown, f.Kind)
	assert.Equal(t, "x = 1\n", f.Code)

	require.NoError(t, f.Write("y = 2\nz = 3\n"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Notes\n\n```python\ny = 2\nz = 3\n```\n\nAfter.\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// a second write uses the relocated block
	require.NoError(t, f.Write("w = 4\n"))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Notes\n\n```python\nw = 4\n```\n\nAfter.\n", string(data))
}

func TestParse_MarkdownWithoutCode(t *testing.T) {
	_, err := Parse("notes.md", []byte("no code\n"), "python")
	assert.ErrorIs(t, err, md.ErrNoCode)
}

func TestParse_HTMLIsReadOnly(t *testing.T) {
	f, err := Parse("page.html", []byte("<pre><code>x = 1\n</code></pre>"), "python")
	require.NoError(t, err)
	assert.Contains(t, f.Code, "x = 1")

	_, err = f.Render("y = 2\n")
	assert.ErrorIs(t, err, ErrReadOnly)
}
