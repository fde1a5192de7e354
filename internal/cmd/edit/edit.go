// Package edit provides the interactive edit command.
package edit

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/ice-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/ice-cli/internal/source"
	"github.com/open-cli-collective/ice-cli/internal/tui"
)

// ErrNotTerminal is returned when edit is started without a terminal.
var ErrNotTerminal = errors.New("edit requires an interactive terminal")

type editOptions struct {
	cmdutil.Globals
	path string

	// overridden in tests
	interactive func() bool
	run         func(tui.Model) (tui.Model, error)
}

// NewCmdEdit creates the edit command.
func NewCmdEdit() *cobra.Command {
	opts := &editOptions{}

	cmd := &cobra.Command{
		Use:   "edit <file>",
		Short: "Edit a file's blocks in the terminal",
		Long: `Open a source file in the block editor.

Arrow keys move between lines and sockets. Enter starts a new handwritten
line, tab indents the focused block and ctrl+z undoes the last step.
ctrl+s writes the code back; Markdown files keep their surrounding text.`,
		Example: `  ice edit main.py
  ice edit notes.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Globals = cmdutil.GlobalsFrom(cmd)
			opts.path = args[0]
			return runEdit(opts, cmd.OutOrStdout())
		},
	}

	return cmd
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func runEdit(opts *editOptions, out io.Writer) error {
	interactive := opts.interactive
	if interactive == nil {
		interactive = stdinIsTerminal
	}
	run := opts.run
	if run == nil {
		run = tui.Run
	}
	if !interactive() {
		return ErrNotTerminal
	}

	env, err := opts.Setup(out)
	if err != nil {
		return err
	}

	f, err := source.Read(opts.path, env.Config.Language)
	if err != nil {
		return err
	}

	session := env.NewSession()
	if err := session.Load(f.Code); err != nil {
		return fmt.Errorf("failed to parse %s: %w", opts.path, err)
	}

	tuiOpts := []tui.Option{tui.WithLogger(env.Logger)}
	if f.Kind != source.KindHTML {
		tuiOpts = append(tuiOpts, tui.WithSave(f.Write))
	}

	final, err := run(tui.New(session, opts.path, tuiOpts...))
	if err != nil {
		return err
	}
	if final.Dirty() {
		env.Renderer(opts.NoColor).RenderText(fmt.Sprintf("%s has unsaved changes", opts.path))
	}
	return nil
}
