package completion

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoot() *cobra.Command {
	root := &cobra.Command{Use: "ice", Short: "Test CLI"}
	root.AddCommand(NewCmdCompletion())
	return root
}

func TestNewCmdCompletion(t *testing.T) {
	cmd := NewCmdCompletion()

	assert.Equal(t, "completion", cmd.Use)
	assert.NotEmpty(t, cmd.Long)
	assert.Len(t, cmd.Commands(), len(shells))
}

func TestCompletionScripts(t *testing.T) {
	tests := []struct {
		shell  string
		marker string
	}{
		{"bash", "bash completion"},
		{"zsh", "compdef"},
		{"fish", "complete -c ice"},
		{"powershell", "Register-ArgumentCompleter"},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			root := newTestRoot()
			buf := new(bytes.Buffer)
			root.SetOut(buf)
			root.SetArgs([]string{"completion", tt.shell})

			require.NoError(t, root.Execute())
			assert.Contains(t, buf.String(), tt.marker)
		})
	}
}

func TestCompletionRejectsExtraArgs(t *testing.T) {
	for _, sh := range shells {
		t.Run(sh.name, func(t *testing.T) {
			root := newTestRoot()
			root.SetOut(new(bytes.Buffer))
			root.SetErr(new(bytes.Buffer))
			root.SetArgs([]string{"completion", sh.name, "unexpected-arg"})

			err := root.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "unknown command")
		})
	}
}
