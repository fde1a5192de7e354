// Package parse provides the parse command.
package parse

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/ice-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/ice-cli/internal/source"
	"github.com/open-cli-collective/ice-cli/pkg/model"
)

type parseOptions struct {
	cmdutil.Globals
	path   string
	tokens bool
	watch  bool
}

// NewCmdParse creates the parse command.
func NewCmdParse() *cobra.Command {
	opts := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Show the block structure of a source file",
		Long: `Parse a source file into blocks, sockets and indents and print the result.

Markdown files (.md) contribute their first Python code block. HTML files
(.html, .htm) are converted to Markdown first.`,
		Example: `  # Show the block tree
  ice parse main.py

  # Show the flat token chain
  ice parse main.py --tokens

  # Nested JSON
  ice parse README.md -o json

  # Re-print whenever the file is saved
  ice parse main.py --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Globals = cmdutil.GlobalsFrom(cmd)
			opts.path = args[0]
			return runParse(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.tokens, "tokens", false, "List tokens with their locations instead of the tree")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Print again every time the file changes")

	return cmd
}

func runParse(ctx context.Context, opts *parseOptions, out io.Writer) error {
	env, err := opts.Setup(out)
	if err != nil {
		return err
	}

	if err := render(env, opts); err != nil {
		if !opts.watch {
			return err
		}
		env.Logger.Error().Err(err).Msg("parse failed")
	}
	if !opts.watch {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	env.Logger.Info().Str("file", opts.path).Msg("watching for changes")
	return source.Watch(ctx, opts.path, func() error {
		_, _ = fmt.Fprintln(out)
		if err := render(env, opts); err != nil {
			env.Logger.Error().Err(err).Msg("parse failed")
		}
		return nil
	})
}

func render(env *cmdutil.Env, opts *parseOptions) error {
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
	env.Logger.Debug().Str("file", opts.path).Int("tokens", doc.Len()).Msg("parsed")

	r := env.Renderer(opts.NoColor)
	if opts.tokens {
		r.RenderTokens(doc, seg)
		return nil
	}
	return r.RenderDocument(doc, seg)
}
