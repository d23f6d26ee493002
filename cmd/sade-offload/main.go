// Command sade-offload is the external attribute resolution unit. It answers
// line delimited JSON requests over standard streams, the main program starts
// it when offloading is enabled in configuration. Logs go to stderr, stdout
// carries the protocol.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sade/misc"
	"sade/sads"
)

func main() {
	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "attribute resolution offload unit",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "verbose logging"},
		},
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
		os.Exit(1)
	}
}

func run(_ context.Context, cmd *cli.Command) error {
	level := zap.InfoLevel
	if cmd.Bool("debug") {
		level = zap.DebugLevel
	}
	log := zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(os.Stderr),
		zap.NewAtomicLevelAt(level),
	))
	defer func() { _ = log.Sync() }()

	log.Info("Offload unit starting", zap.String("ver", misc.GetVersion()), zap.String("runtime", runtime.Version()))
	if err := sads.ServeOffload(os.Stdin, os.Stdout, log); err != nil {
		return fmt.Errorf("offload unit failed: %w", err)
	}
	log.Info("Offload unit stopped")
	return nil
}
