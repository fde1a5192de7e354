// Package roundtrip provides the roundtrip command.
package roundtrip

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/ice-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/ice-cli/internal/source"
	"github.com/open-cli-collective/ice-cli/internal/view"
	"github.com/open-cli-collective/ice-cli/pkg/md"
	"github.com/open-cli-collective/ice-cli/pkg/model"
)

// ErrMismatch is returned when the printed document differs from its source.
var ErrMismatch = errors.New("round trip mismatch")

type roundtripOptions struct {
	cmdutil.Globals
	path string
	html bool
}

// NewCmdRoundtrip creates the roundtrip command.
func NewCmdRoundtrip() *cobra.Command {
	opts := &roundtripOptions{}

	cmd := &cobra.Command{
		Use:   "roundtrip <file>",
		Short: "Check that a file prints back unchanged",
		Long: `Parse a source file, print it again and compare the result with the input.

The command fails when the printed text differs from the source.`,
		Example: `  # Check a file
  ice roundtrip main.py

  # Print the code as an HTML snippet
  ice roundtrip main.py --html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Globals = cmdutil.GlobalsFrom(cmd)
			opts.path = args[0]
			return runRoundtrip(opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.html, "html", false, "Print the printed code rendered as HTML")

	return cmd
}

func runRoundtrip(opts *roundtripOptions, out io.Writer) error {
	env, err := opts.Setup(out)
	if err != nil {
		return err
	}

	f, err := source.Read(opts.path, env.Config.Language)
	if err != nil {
		return err
	}

	doc := model.NewDocument()
	seg, err := env.Parser().Parse(doc, f.Code)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", opts.path, err)
	}
	doc.SetRoot(seg)
	if err := doc.Validate(seg); err != nil {
		return fmt.Errorf("invalid token chain: %w", err)
	}

	printed := doc.String()
	r := env.Renderer(opts.NoColor)

	if opts.html {
		code := printed
		if !strings.HasSuffix(code, "\n") {
			code += "\n"
		}
		html, err := md.ToHTML([]byte("```" + env.Config.Language + "\n" + code + "```\n"))
		if err != nil {
			return err
		}
		r.RenderRaw(html)
		return nil
	}

	if printed != f.Code {
		line := firstDifference(f.Code, printed)
		return fmt.Errorf("%w at line %d", ErrMismatch, line)
	}

	blocks := len(doc.Entities(seg, model.EntityBlock))
	if r.Format() == view.FormatJSON {
		return r.RenderJSON(map[string]any{
			"file":   opts.path,
			"ok":     true,
			"tokens": doc.Len(),
			"blocks": blocks,
		})
	}
	r.Success(fmt.Sprintf("%s round trips (%d blocks, %d tokens)", opts.path, blocks, doc.Len()))
	return nil
}

// firstDifference returns the 1-based line of the first byte where a and b
// differ.
func firstDifference(a, b string) int {
	line := 1
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return line
		}
		if a[i] == '\n' {
			line++
		}
	}
	return line
}
