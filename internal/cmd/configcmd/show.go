package configcmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/ice-cli/internal/config"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the effective ice configuration and where each value comes from.`,
		Example: `  # Show current config
  ice config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runShow(configPath(cmd), noColor, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runShow(path string, noColor bool, out io.Writer) error {
	if noColor {
		color.NoColor = true
	}

	fileCfg, fileErr := config.Load(path)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	cfg, err := config.LoadWithEnv(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	printField := func(label, value, fileValue string, envVars ...string) {
		_, _ = bold.Fprintf(out, "%-14s", label+":")
		_, _ = fmt.Fprint(out, value)

		source := "default"
		if fileValue != "" && fileValue == value {
			source = "config"
		}
		for _, envVar := range envVars {
			if v := os.Getenv(envVar); v != "" && v == value {
				source = envVar
				break
			}
		}
		_, _ = dim.Fprintf(out, "  (source: %s)\n", source)
	}

	fileIndent := ""
	if fileCfg.IndentSpaces != 0 {
		fileIndent = strconv.Itoa(fileCfg.IndentSpaces)
	}

	printField("Indent", strconv.Itoa(cfg.IndentSpaces), fileIndent, "ICE_INDENT_SPACES")
	printField("Language", cfg.Language, fileCfg.Language, "ICE_LANGUAGE")
	printField("Log level", cfg.LogLevel, fileCfg.LogLevel, "ICE_LOG_LEVEL", "LOG_LEVEL")
	printField("Log format", cfg.LogFormat, fileCfg.LogFormat, "ICE_LOG_FORMAT")
	printField("Output", cfg.OutputFormat, fileCfg.OutputFormat, "ICE_OUTPUT_FORMAT")

	_, _ = fmt.Fprintln(out)
	_, _ = dim.Fprintf(out, "Config file: %s\n", path)
	if fileErr != nil {
		_, _ = dim.Fprintln(out, "(file not found)")
	}

	return nil
}
