// Package run provides the run command.
package run

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/ice-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/ice-cli/internal/script"
	"github.com/open-cli-collective/ice-cli/internal/source"
	"github.com/open-cli-collective/ice-cli/internal/view"
)

type runOptions struct {
	cmdutil.Globals
	path  string
	trace bool
	write string
}

// NewCmdRun creates the run command.
func NewCmdRun() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Apply an edit script",
		Long: `Load the source document named in a YAML edit script, apply its steps
and print the resulting code.

Steps move the cursor, focus and fill sockets, move and float blocks,
select regions and undo. An expect step fails the run when the document
does not match.`,
		Example: `  # Run a script
  ice run edits.yml

  # Print the document after every step
  ice run edits.yml --trace

  # Write the result into a file's code block
  ice run edits.yml --write README.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Globals = cmdutil.GlobalsFrom(cmd)
			opts.path = args[0]
			return runRun(opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.trace, "trace", false, "Print the document after every step")
	cmd.Flags().StringVar(&opts.write, "write", "", "Write the result to this file")

	return cmd
}

func runRun(opts *runOptions, out io.Writer) error {
	env, err := opts.Setup(out)
	if err != nil {
		return err
	}

	s, err := script.Load(opts.path)
	if err != nil {
		return err
	}

	runnerOpts := []script.Option{script.WithLogger(env.Logger)}
	if opts.trace {
		runnerOpts = append(runnerOpts, script.WithTrace(os.Stderr))
	}
	result, err := script.NewRunner(env.NewSession(), runnerOpts...).Run(s)
	if err != nil {
		return err
	}

	if opts.write != "" {
		f, err := source.Read(opts.write, env.Config.Language)
		if err != nil {
			return err
		}
		if err := f.Write(result.Value); err != nil {
			return err
		}
		env.Logger.Info().Str("file", opts.write).Msg("wrote result")
	}

	r := env.Renderer(opts.NoColor)
	if r.Format() == view.FormatJSON {
		return r.RenderJSON(result)
	}
	r.RenderRaw(result.Value)
	return nil
}
