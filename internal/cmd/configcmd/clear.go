package configcmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/ice-cli/internal/config"
)

// NewCmdClear creates the config clear command.
func NewCmdClear() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove stored configuration",
		Long:  `Delete the ice configuration file. Environment variables will still be used if set.`,
		Example: `  # Clear config
  ice config clear`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runClear(configPath(cmd), noColor, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runClear(path string, noColor bool, out io.Writer) error {
	if noColor {
		color.NoColor = true
	}

	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove config file: %w", err)
	}

	green := color.New(color.FgGreen)
	dim := color.New(color.Faint)

	if os.IsNotExist(err) {
		_, _ = green.Fprintln(out, "✓ No config file to remove")
	} else {
		_, _ = green.Fprintf(out, "✓ Configuration cleared from %s\n", path)
	}

	var active []string
	for _, v := range config.EnvVars {
		if os.Getenv(v) != "" {
			active = append(active, v)
		}
	}
	if len(active) > 0 {
		_, _ = dim.Fprintf(out, "\nNote: Environment variables will still be used: %s\n", strings.Join(active, ", "))
	}

	return nil
}
