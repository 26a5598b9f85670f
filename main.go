package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/docsync/internal/commands"
	"github.com/colonyops/docsync/internal/core/config"
	"github.com/colonyops/docsync/internal/core/eventbus"
	"github.com/colonyops/docsync/internal/core/logging"
	"github.com/colonyops/docsync/internal/core/styles"
	"github.com/colonyops/docsync/internal/printer"
	"github.com/colonyops/docsync/pkg/logutils"
	"github.com/colonyops/docsync/pkg/utils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

const (
	// eventBufferSize bounds queued bus events; publishing drops beyond it.
	eventBufferSize = 256
	// heldLogLimit bounds the stderr log lines kept while they are held.
	heldLogLimit = 1 << 20
)

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		busCancel context.CancelFunc
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "docsync",
		Usage:     "Keep a source file and its rendered preview in step",
		UsageText: "docsync [global options] command [command options]",
		Description: `docsync maps positions between a markup source and the plain text it renders
to. Both sides are aligned approximately, so positions survive markup the
renderer removes or rewrites.

Run 'docsync preview FILE' to edit a file next to its live preview.
Run 'docsync map' or 'docsync find' to map single offsets from scripts.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (trace, debug, info, warn, error, fatal); defaults to log.level in the config",
				Sources:     cli.EnvVars("DOCSYNC_LOG_LEVEL"),
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file; defaults to log.file in the config, then stderr",
				Sources:     cli.EnvVars("DOCSYNC_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("DOCSYNC_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			cfg, err := config.Load(flags.ConfigPath)
			if err != nil {
				// init replaces the file, so a broken one must not block it
				if c.Args().First() != "init" {
					return ctx, fmt.Errorf("load config: %w", err)
				}
				cfg = config.DefaultConfig()
			}
			flags.Config = cfg

			// Flags and environment win over the config file.
			if flags.LogFile == "" {
				flags.LogFile = cfg.Log.File
			}
			if flags.LogLevel == "" {
				flags.LogLevel = cfg.Log.Level
			}

			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			if flags.LogFile == "" {
				// stderr logging can be held while a command owns the terminal
				flags.LogHold = &utils.DeferredWriter{Target: os.Stderr, Limit: heldLogLimit}
				logger = logger.Output(flags.LogHold)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			// Apply configured theme (validation ensures name is valid)
			styles.UseTheme(cfg.Preview.Theme)

			bus := eventbus.New(eventBufferSize)
			busCtx, cancel := context.WithCancel(context.Background())
			busCancel = cancel
			go bus.Start(busCtx)

			eventbus.RegisterDebugLogger(bus, logging.Component("eventbus"))
			eventbus.NewNotificationRouter(bus).Register()
			flags.Bus = bus

			return printer.NewContext(ctx, printer.New(c.Root().ErrWriter)), nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if busCancel != nil {
				busCancel()
			}

			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewPreviewCmd(flags).Register(app)
	app = commands.NewMapCmd(flags).Register(app)
	app = commands.NewFindCmd(flags).Register(app)
	app = commands.NewAlignCmd(flags).Register(app)
	app = commands.NewRenderCmd(flags).Register(app)
	app = commands.NewInitCmd(flags).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
