// Package init provides the init command for ice.
package init

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/ice-cli/internal/config"
	"github.com/open-cli-collective/ice-cli/internal/view"
)

type initOptions struct {
	path     string
	indent   int
	logLevel string
	output   string
	noPrompt bool
	force    bool

	// replaced in tests
	confirm func(path string) (bool, error)
	ask     func(cfg *config.Config) error
}

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize ice configuration",
		Long: `Initialize ice with your editing preferences.

This command will guide you through choosing the indentation width,
log level and default output format. The configuration will be saved to
~/.config/ice/config.yml.`,
		Example: `  # Interactive setup
  ice init

  # Write a configuration without prompting
  ice init --no-prompt --indent 2 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.path, _ = cmd.Flags().GetString("config")
			opts.output, _ = cmd.Flags().GetString("output")
			return runInit(opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&opts.indent, "indent", 0, "Spaces per indentation level")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error, disabled)")
	cmd.Flags().BoolVar(&opts.noPrompt, "no-prompt", false, "Write the configuration without prompting")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing configuration")

	return cmd
}

func runInit(opts *initOptions, out io.Writer) error {
	configPath := opts.path
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	confirm := opts.confirm
	if confirm == nil {
		confirm = confirmOverwrite
	}
	ask := opts.ask
	if ask == nil {
		ask = runForm
	}

	if _, err := os.Stat(configPath); err == nil && !opts.force {
		if opts.noPrompt {
			return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", configPath)
		}
		overwrite, err := confirm(configPath)
		if err != nil {
			return err
		}
		if !overwrite {
			_, _ = fmt.Fprintln(out, "Initialization cancelled.")
			return nil
		}
	}

	cfg := prefill(opts)
	if !opts.noPrompt {
		if err := ask(cfg); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Save(configPath); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "\nConfiguration saved to %s\n", configPath)
	_, _ = fmt.Fprintln(out, "\nYou're all set! Try running:")
	_, _ = fmt.Fprintln(out, "  ice parse main.py")
	_, _ = fmt.Fprintln(out, "  ice edit main.py")

	return nil
}

// prefill returns the defaults overridden by any flags.
func prefill(opts *initOptions) *config.Config {
	cfg := config.Default()
	if opts.indent > 0 {
		cfg.IndentSpaces = opts.indent
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.output != "" {
		cfg.OutputFormat = opts.output
	}
	return cfg
}

func confirmOverwrite(path string) (bool, error) {
	var overwrite bool
	err := huh.NewConfirm().
		Title("Configuration already exists").
		Description(fmt.Sprintf("Overwrite %s?", path)).
		Value(&overwrite).
		Run()
	return overwrite, err
}

func runForm(cfg *config.Config) error {
	return newForm(cfg).Run()
}

func newForm(cfg *config.Config) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Indentation").
				Description("Spaces per indentation level").
				Options(indentOptions()...).
				Value(&cfg.IndentSpaces),

			huh.NewSelect[string]().
				Title("Log level").
				Description("Messages at or above this level are written to stderr").
				Options(huh.NewOptions("error", "warn", "info", "debug", "trace", "disabled")...).
				Value(&cfg.LogLevel),

			huh.NewSelect[string]().
				Title("Output format").
				Description("Default format for parse and run").
				Options(huh.NewOptions(view.ValidFormats()...)...).
				Value(&cfg.OutputFormat),
		),
	)
}

func indentOptions() []huh.Option[int] {
	var opts []huh.Option[int]
	for _, n := range []int{2, 4, 8} {
		opts = append(opts, huh.NewOption(strconv.Itoa(n)+" spaces", n))
	}
	return opts
}
