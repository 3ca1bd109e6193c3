// Package commands implements the appflowbuild command line.
package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/appflowbuild/internal/config"
)

// Global carries state shared by every subcommand.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
	Getenv func(string) string
}

func (g *Global) out() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

func (g *Global) getenv() func(string) string {
	if g == nil || g.Getenv == nil {
		return os.Getenv
	}
	return g.Getenv
}

// CLI definition & global flags.
type CLI struct {
	Config   string           `short:"c" help:"Configuration file path (default: ${config_path})" env:"APPFLOW_CONFIG"`
	Verbose  bool             `short:"v" help:"Enable verbose logging"`
	LogLevel string           `name:"log-level" help:"Log level (debug, info, warn, error)" env:"APPFLOW_LOG_LEVEL" default:"info"`
	Version  kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build       BuildCmd   `cmd:"" default:"withargs" help:"Submit a build and wait for it to finish"`
	Stacks      StacksCmd  `cmd:"" help:"List build stacks available to the token"`
	VersionInfo VersionCmd `cmd:"" name:"version" help:"Show build version information"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level, err := config.ParseLogLevel(c.LogLevel)
	if err != nil {
		return err
	}
	if c.Verbose {
		level = config.LogLevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level.SlogLevel()}))
	slog.SetDefault(logger)
	return nil
}

// loadFile reads the config file named by --config, or the default one.
func (c *CLI) loadFile() (*config.File, error) {
	return config.LoadFile(c.Config)
}
