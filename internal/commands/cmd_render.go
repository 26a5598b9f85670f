package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/docsync/internal/render"
)

type RenderCmd struct {
	flags *Flags
	kind  string
	width int
}

// NewRenderCmd creates a new render command.
func NewRenderCmd(flags *Flags) *RenderCmd {
	return &RenderCmd{flags: flags}
}

// Register adds the render command to the application.
func (cmd *RenderCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "render",
		Usage:     "Print the plain text a file renders to",
		UsageText: "docsync render [options] FILE",
		Description: `Renders FILE with the renderer configured for its path and prints the plain
text the preview pane shows. Positions reported by find and map index into
this text.`,
		Flags: renderFlags(&cmd.kind, &cmd.width),
		Action: cmd.run,
	})

	return app
}

func (cmd *RenderCmd) run(_ context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected FILE, got %d arguments", c.Args().Len())
	}
	path := c.Args().First()

	src, err := readText(path)
	if err != nil {
		return err
	}
	out, _, err := renderFile(cmd.flags, path, src, cmd.kind, cmd.width)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(c.Root().Writer, out)
	return err
}

func renderFlags(kind *string, width *int) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "kind",
			Aliases:     []string{"k"},
			Usage:       fmt.Sprintf("renderer to use instead of the configured one %v", render.Kinds()),
			Destination: kind,
		},
		&cli.IntFlag{
			Name:        "width",
			Usage:       "wrap width for the markdown renderer (defaults to render.width)",
			Destination: width,
		},
	}
}

// renderFile renders src using the configured renderer for path, or the
// given kind when set.
func renderFile(flags *Flags, path, src, kind string, width int) (string, render.Kind, error) {
	opts := flags.Config.RenderOptions()
	if width > 0 {
		opts.Width = width
	}

	var (
		r   render.Renderer
		k   = render.Kind(kind)
		err error
	)
	if kind != "" {
		r, err = render.New(k, opts)
	} else {
		r, k, err = render.NewRegistry(flags.Config.RenderRules(), opts).For(path)
	}
	if err != nil {
		return "", k, err
	}

	out, err := r.Render(src)
	if err != nil {
		return "", k, fmt.Errorf("render %s as %s: %w", path, k, err)
	}
	return out, k, nil
}
