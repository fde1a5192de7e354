// Package root provides the root command for the ice CLI.
package root

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/ice-cli/internal/cmd/completion"
	"github.com/open-cli-collective/ice-cli/internal/cmd/configcmd"
	"github.com/open-cli-collective/ice-cli/internal/cmd/edit"
	initcmd "github.com/open-cli-collective/ice-cli/internal/cmd/init"
	"github.com/open-cli-collective/ice-cli/internal/cmd/parse"
	"github.com/open-cli-collective/ice-cli/internal/cmd/roundtrip"
	"github.com/open-cli-collective/ice-cli/internal/cmd/run"
	"github.com/open-cli-collective/ice-cli/internal/version"
)

// NewCmdRoot creates the root command for ice.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ice",
		Short: "A block editor for Python source",
		Long: `ice edits Python source as a tree of blocks and sockets while
keeping the exact text of the file.

It can show the block structure of a file, check that a file prints back
unchanged, replay edit scripts and open files in an interactive editor.
Code blocks inside Markdown files are edited in place.

Get started by running: ice init`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/ice/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "", "output format: tree, json, plain")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	cmd.SetVersionTemplate(version.String() + "\n")

	// Subcommands
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(parse.NewCmdParse())
	cmd.AddCommand(roundtrip.NewCmdRoundtrip())
	cmd.AddCommand(run.NewCmdRun())
	cmd.AddCommand(edit.NewCmdEdit())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}
