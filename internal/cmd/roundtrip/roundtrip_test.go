package roundtrip

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/ice-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/ice-cli/internal/config"
)

func globals(t *testing.T, output string) cmdutil.Globals {
	t.Helper()
	for _, v := range config.EnvVars {
		t.Setenv(v, "")
	}
	t.Setenv("ICE_LOG_LEVEL", "disabled")
	return cmdutil.Globals{
		ConfigPath: filepath.Join(t.TempDir(), "config.yml"),
		Output:     output,
		NoColor:    true,
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

const program = "def f(a, b):\n    for i in a:\n        if i:\n            return b\n    return None\n"

func TestRunRoundtrip(t *testing.T) {
	path := writeFile(t, "main.py", program)

	var out bytes.Buffer
	require.NoError(t, runRoundtrip(&roundtripOptions{Globals: globals(t, ""), path: path}, &out))
	assert.Contains(t, out.String(), "✓ "+path+" round trips")
}

func TestRunRoundtrip_JSON(t *testing.T) {
	path := writeFile(t, "main.py", "x = 1\n")

	var out bytes.Buffer
	require.NoError(t, runRoundtrip(&roundtripOptions{Globals: globals(t, "json"), path: path}, &out))

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, true, got["ok"])
	assert.Equal(t, path, got["file"])
}

func TestRunRoundtrip_HTML(t *testing.T) {
	path := writeFile(t, "main.py", "x = 1\n")

	var out bytes.Buffer
	require.NoError(t, runRoundtrip(&roundtripOptions{Globals: globals(t, ""), path: path, html: true}, &out))
	assert.Contains(t, out.String(), `<pre><code class="language-python">x = 1`)
}

func TestRunRoundtrip_SyntaxError(t *testing.T) {
	path := writeFile(t, "bad.py", "if :\n")

	err := runRoundtrip(&roundtripOptions{Globals: globals(t, ""), path: path}, new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestFirstDifference(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"same", "a\nb\n", "a\nb\n", 3},
		{"first line", "a\n", "b\n", 1},
		{"second line", "a\nb\n", "a\nc\n", 2},
		{"shorter", "a\nb\n", "a\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, firstDifference(tt.a, tt.b))
		})
	}
}

func TestRunRoundtrip_Mismatch(t *testing.T) {
	path := writeFile(t, "crlf.py", "x = 1\r\ny = 2\r\n")

	err := runRoundtrip(&roundtripOptions{Globals: globals(t, ""), path: path}, new(bytes.Buffer))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMismatch)
	assert.Contains(t, err.Error(), "line 1")
}
