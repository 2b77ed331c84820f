package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mitranim/sqlfrag"
	"github.com/mitranim/sqlfrag/internal/logging"
	"github.com/mitranim/sqlfrag/internal/recipe"
)

const appName = "sqlfrag"

// appEnv is shared by all commands of a single run.
type appEnv struct {
	out    io.Writer
	logOut io.Writer
	log    *zap.Logger

	// set when error was already reported through the log
	errWasHandled bool
}

func newApp(out, logOut io.Writer) (*cli.Command, *appEnv) {
	env := &appEnv{out: out, logOut: logOut, log: zap.NewNop()}

	app := &cli.Command{
		Name:            appName,
		Usage:           "assembles SQL text from literal and formatted fragments",
		Version:         sqlfrag.GetVersion() + " (" + runtime.Version() + ")",
		Writer:          out,
		ErrWriter:       logOut,
		HideHelpCommand: true,
		Before:          env.initialize,
		After:           env.destroy,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  env.exitErrHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: logging.LevelNormal,
				Usage: "logging `LEVEL` (supported levels: " + strings.Join(logging.Levels(), ", ") + ")"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "same as --log-level " + logging.LevelDebug},
		},
		Commands: []*cli.Command{
			{
				Name:         "version",
				Usage:        "Prints library version",
				OnUsageError: usageErrorHandler,
				Action:       env.printVersion,
			},
			{
				Name:         "info",
				Usage:        "Prints build information (YAML)",
				OnUsageError: usageErrorHandler,
				Action:       env.printInfo,
			},
			{
				Name:         "build",
				Usage:        "Builds SQL text from recipe and/or literal fragments",
				OnUsageError: usageErrorHandler,
				Action:       env.build,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "recipe", Aliases: []string{"r"}, Usage: "load fragments from `FILE` (YAML)"},
					&cli.IntFlag{Name: "max-len", Usage: "limit resulting text to `BYTES`, overrides recipe value"},
				},
				ArgsUsage: "[FRAGMENT...]",
				CustomHelpTemplate: fmt.Sprintf(`%s
FRAGMENT:
    literal text appended verbatim after recipe fragments, in order

RECIPE:
    max_len: 0
    fragments:
      - lit: "SELECT "
      - fmt: "%%s"
        args: ["*"]
`, cli.CommandHelpTemplate),
			},
		},
	}
	return app, env
}

func (env *appEnv) initialize(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level := cmd.String("log-level")
	if cmd.Bool("debug") {
		level = logging.LevelDebug
	}

	log, err := logging.NewTo(env.logOut, level)
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.log = log.Named(appName)

	env.log.Debug("Program started", zap.Strings("args", cmd.Args().Slice()),
		zap.String("ver", sqlfrag.GetVersion()), zap.String("runtime", runtime.Version()))
	return ctx, nil
}

func (env *appEnv) destroy(_ context.Context, _ *cli.Command) error {
	env.log.Debug("Program ended")
	// console syncing fails on some terminals, nothing to do about it
	_ = env.log.Sync()
	return nil
}

func (env *appEnv) exitErrHandler(_ context.Context, _ *cli.Command, err error) {
	if err == nil {
		return
	}
	env.log.Error("Program ended with error", zap.Error(err))
	env.errWasHandled = env.log.Core().Enabled(zap.ErrorLevel)
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func (env *appEnv) printVersion(_ context.Context, _ *cli.Command) error {
	_, err := fmt.Fprintln(env.out, sqlfrag.GetVersion())
	return err
}

func (env *appEnv) printInfo(_ context.Context, _ *cli.Command) error {
	data, err := yaml.Marshal(sqlfrag.GetBuildInfo())
	if err != nil {
		return fmt.Errorf("unable to encode build information: %w", err)
	}
	_, err = env.out.Write(data)
	return err
}

func (env *appEnv) build(_ context.Context, cmd *cli.Command) error {
	r := &recipe.Recipe{}
	if fname := cmd.String("recipe"); len(fname) > 0 {
		var err error
		if r, err = recipe.Load(fname); err != nil {
			return err
		}
		env.log.Debug("Recipe loaded", zap.String("file", fname), zap.Int("fragments", len(r.Steps)))
	}
	if cmd.IsSet("max-len") {
		r.MaxLen = cmd.Int("max-len")
	}
	for _, arg := range cmd.Args().Slice() {
		r.Steps = append(r.Steps, recipe.Step{Lit: &arg})
	}
	if err := r.Validate(); err != nil {
		return err
	}

	text, err := r.Build(env.log)
	if err != nil {
		return fmt.Errorf("unable to build query: %w", err)
	}
	env.log.Info("Query built", zap.Int("fragments", len(r.Steps)), zap.Int("size", len(text)))

	_, err = fmt.Fprintln(env.out, text)
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	app, env := newApp(os.Stdout, os.Stderr)
	err := app.Run(ctx, os.Args)
	stop()

	if err != nil {
		if !env.errWasHandled {
			fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
		}
		os.Exit(1)
	}
}
