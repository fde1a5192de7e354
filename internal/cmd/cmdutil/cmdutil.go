// Package cmdutil holds the setup shared by ice commands: global flags,
// configuration, logging and editor construction.
package cmdutil

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/ice-cli/internal/config"
	"github.com/open-cli-collective/ice-cli/internal/logging"
	"github.com/open-cli-collective/ice-cli/internal/view"
	"github.com/open-cli-collective/ice-cli/pkg/editor"
	"github.com/open-cli-collective/ice-cli/pkg/model"
	"github.com/open-cli-collective/ice-cli/pkg/python"
)

// Globals are the persistent flags defined on the root command.
type Globals struct {
	ConfigPath string
	Output     string
	NoColor    bool
	Verbose    bool
}

// GlobalsFrom reads the persistent flags of cmd.
func GlobalsFrom(cmd *cobra.Command) Globals {
	var g Globals
	g.ConfigPath, _ = cmd.Flags().GetString("config")
	g.Output, _ = cmd.Flags().GetString("output")
	g.NoColor, _ = cmd.Flags().GetBool("no-color")
	g.Verbose, _ = cmd.Flags().GetBool("verbose")
	return g
}

// Env is everything a command needs to run.
type Env struct {
	Config *config.Config
	Logger zerolog.Logger
	Out    io.Writer
}

// Setup loads and validates the configuration, builds the logger and
// applies the output flag. Logs go to stderr.
func (g Globals) Setup(out io.Writer) (*Env, error) {
	path := g.ConfigPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.LoadWithEnv(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w (run 'ice init' to configure)", err)
	}
	if g.Output != "" {
		cfg.OutputFormat = g.Output
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w (run 'ice init' to configure)", err)
	}
	if err := view.ValidateFormat(cfg.OutputFormat); err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		NoColor: g.NoColor,
		Verbose: g.Verbose,
	}, os.Stderr)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = os.Stdout
	}
	return &Env{Config: cfg, Logger: logger, Out: out}, nil
}

// Renderer returns a renderer writing to the environment's output.
func (e *Env) Renderer(noColor bool) *view.Renderer {
	r := view.NewRenderer(view.Format(e.Config.OutputFormat), noColor)
	r.SetWriter(e.Out)
	return r
}

// Parser returns the parser for the configured language.
func (e *Env) Parser() *python.Parser {
	return python.New(python.WithLogger(e.Logger))
}

// NewSession returns an editor session over a fresh document.
func (e *Env) NewSession() *editor.Session {
	return editor.New(model.NewDocument(), e.Parser(),
		editor.WithLogger(e.Logger),
		editor.WithIndentWidth(e.Config.IndentSpaces),
	)
}
