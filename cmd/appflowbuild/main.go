package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/appflowbuild/cmd/appflowbuild/commands"
	"git.home.luguber.info/inful/appflowbuild/internal/config"
	"git.home.luguber.info/inful/appflowbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/appflowbuild/internal/version"
)

func main() {
	// Dotenv files are loaded before parsing so they can feed flag defaults.
	if _, err := config.LoadEnvFiles(""); err != nil {
		os.Exit(errors.NewCLIErrorAdapter(false, slog.Default()).Report(os.Stderr, err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	var cli commands.CLI
	kctx := kong.Parse(&cli,
		kong.Name("appflowbuild"),
		kong.Description("Run a build on the Appflow build service and wait for the result."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version, "config_path": config.DefaultPath()},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	err := kctx.Run(&commands.Global{Logger: slog.Default()}, &cli)
	cancel()
	if err != nil {
		adapter := errors.NewCLIErrorAdapter(cli.Verbose, slog.Default())
		os.Exit(adapter.Report(os.Stderr, err))
	}
}
