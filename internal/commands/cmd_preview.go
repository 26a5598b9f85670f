package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/docsync/internal/coordinator"
	"github.com/colonyops/docsync/internal/core/approx"
	"github.com/colonyops/docsync/internal/core/document"
	"github.com/colonyops/docsync/internal/core/notify"
	"github.com/colonyops/docsync/internal/render"
	"github.com/colonyops/docsync/internal/tui"
	"github.com/colonyops/docsync/pkg/profiler"
)

type PreviewCmd struct {
	flags        *Flags
	noWatch      bool
	line         int
	profilerPort int
}

// NewPreviewCmd creates a new preview command.
func NewPreviewCmd(flags *Flags) *PreviewCmd {
	return &PreviewCmd{flags: flags}
}

// Register adds the preview command to the application.
func (cmd *PreviewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "preview",
		Usage:     "Edit a file next to its live rendered preview",
		UsageText: "docsync preview [options] FILE",
		Description: `Opens FILE in a two-pane view: the source on the left and its rendered text
on the right. Moving the cursor scrolls the preview to the matching position
after a short pause; clicking the preview moves the cursor to the matching
source position.

The file and the config file are watched for changes. Edits made elsewhere are
reloaded unless there are unsaved changes.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "no-watch",
				Usage:       "do not reload the file or config when they change on disk",
				Destination: &cmd.noWatch,
			},
			&cli.IntFlag{
				Name:        "line",
				Aliases:     []string{"l"},
				Usage:       "start with the cursor on this line (1-based)",
				Destination: &cmd.line,
			},
			&cli.IntFlag{
				Name:        "profiler-port",
				Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
				Sources:     cli.EnvVars("DOCSYNC_PROFILER_PORT"),
				Destination: &cmd.profilerPort,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *PreviewCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected FILE, got %d arguments", c.Args().Len())
	}

	// Logs on stderr would draw over the alt screen; hold them until exit.
	if hold := cmd.flags.LogHold; hold != nil {
		hold.Hold()
		defer func() { _ = hold.Release() }()
	}

	if cmd.profilerPort > 0 {
		profServer := profiler.New(cmd.profilerPort)
		if err := profServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := profServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shutdown profiler server")
			}
		}()
		log.Info().
			Str("url", fmt.Sprintf("http://%s/debug/pprof/", profServer.Addr())).
			Msg("profiler endpoint available")
	}

	deps, closeDeps, err := cmd.deps(c.Args().First())
	if err != nil {
		return err
	}
	defer closeDeps()

	return tui.Run(ctx, deps)
}

func (cmd *PreviewCmd) deps(path string) (tui.Deps, func(), error) {
	cfg, bus := cmd.flags.Config, cmd.flags.Bus

	doc, err := document.Open(path, bus)
	if err != nil {
		return tui.Deps{}, nil, err
	}
	if cmd.line > 0 {
		doc.GoTo(cmd.line, 0)
	}

	mapperOpts, err := cfg.MapperOptions()
	if err != nil {
		return tui.Deps{}, nil, err
	}

	preview := tui.NewPreview()
	coord := coordinator.New(bus, doc, preview, approx.NewMapper(mapperOpts), tui.CoordinatorOptions(cfg, doc.ID()))
	coord.Register()

	deps := tui.Deps{
		Config:        cfg,
		ConfigPath:    cmd.flags.ConfigPath,
		Bus:           bus,
		Document:      doc,
		Preview:       preview,
		Registry:      render.NewRegistry(cfg.RenderRules(), cfg.RenderOptions()),
		Coordinator:   coord,
		Notifications: notify.NewLog(notify.DefaultLimit),
	}

	closers := []func(){coord.Close}
	if !cmd.noWatch {
		watched := []string{path}
		if dir := filepath.Dir(cmd.flags.ConfigPath); cmd.flags.ConfigPath != "" && dirExists(dir) {
			watched = append(watched, cmd.flags.ConfigPath)
		}
		watcher, err := tui.NewFileWatcher(watched...)
		if err != nil {
			log.Warn().Err(err).Msg("file watching disabled")
		} else {
			deps.Watcher = watcher
			closers = append(closers, func() { _ = watcher.Close() })
		}
	}

	return deps, func() {
		for _, fn := range closers {
			fn()
		}
	}, nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
