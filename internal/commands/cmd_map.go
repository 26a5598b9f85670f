package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/docsync/internal/core/approx"
	"github.com/colonyops/docsync/internal/render"
	"github.com/colonyops/docsync/pkg/iojson"
)

// MapResult is the JSON output of map.
type MapResult struct {
	Path      string      `json:"path"`
	Kind      render.Kind `json:"kind"`
	Direction string      `json:"direction"`
	From      int         `json:"from"`
	To        int         `json:"to"`
	Found     bool        `json:"found"`
	Line      int         `json:"line,omitempty"`
	Column    int         `json:"column,omitempty"`
}

type MapCmd struct {
	flags   *Flags
	offset  int
	reverse bool
	kind    string
	width   int
	jsonOut bool
}

// NewMapCmd creates a new map command.
func NewMapCmd(flags *Flags) *MapCmd {
	return &MapCmd{flags: flags}
}

// Register adds the map command to the application.
func (cmd *MapCmd) Register(app *cli.Command) *cli.Command {
	flags := append(renderFlags(&cmd.kind, &cmd.width),
		&cli.IntFlag{
			Name:        "offset",
			Aliases:     []string{"o"},
			Usage:       "code point offset to map",
			Required:    true,
			Destination: &cmd.offset,
		},
		&cli.BoolFlag{
			Name:        "reverse",
			Aliases:     []string{"r"},
			Usage:       "map a rendered offset back to the source",
			Destination: &cmd.reverse,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "write the result as JSON",
			Destination: &cmd.jsonOut,
		},
	)

	app.Commands = append(app.Commands, &cli.Command{
		Name:      "map",
		Usage:     "Map a source offset to the rendered text, or back",
		UsageText: "docsync map [options] FILE",
		Description: `Renders FILE and maps --offset from the source into the rendered text, the
same way the preview follows the cursor. With --reverse the offset is a
position in the rendered text and is mapped back to the source, as a click
in the preview would.

Examples:
  docsync map --offset 120 README.md
  docsync map --reverse --offset 40 --json README.md`,
		Flags:  flags,
		Action: cmd.run,
	})

	return app
}

func (cmd *MapCmd) run(_ context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected FILE, got %d arguments", c.Args().Len())
	}
	path := c.Args().First()

	src, err := readText(path)
	if err != nil {
		return err
	}
	rendered, kind, err := renderFile(cmd.flags, path, src, cmd.kind, cmd.width)
	if err != nil {
		return err
	}

	search, target, direction := src, rendered, "source-to-rendered"
	if cmd.reverse {
		search, target, direction = rendered, src, "rendered-to-source"
	}
	if err := approx.ValidateAnchor(cmd.offset, search); err != nil {
		return fmt.Errorf("--offset: %w", err)
	}

	opts, err := cmd.flags.Config.MapperOptions()
	if err != nil {
		return err
	}
	to := approx.NewMapper(opts).FindPosition(cmd.offset, search, target)

	result := MapResult{Path: path, Kind: kind, Direction: direction, From: cmd.offset, To: to, Found: to != approx.NotFound}
	if result.Found {
		result.Line, result.Column = lineCol(target, to)
	}

	w := c.Root().Writer
	if cmd.jsonOut {
		return iojson.WriteWith(w, c.Root().ErrWriter, result)
	}
	if !result.Found {
		_, err := fmt.Fprintln(w, approx.NotFound)
		return err
	}

	_, err = fmt.Fprintf(w, "%d\t%d:%d\t%s\n", to, result.Line, result.Column, snippet(target, to, 20))
	return err
}

// lineCol returns the 1-based line and column of a code point offset.
func lineCol(text string, offset int) (int, int) {
	runes := []rune(text)
	offset = min(offset, len(runes))
	line, start := 1, 0
	for i, r := range runes[:offset] {
		if r == '\n' {
			line++
			start = i + 1
		}
	}
	return line, offset - start + 1
}

// snippet shows up to radius code points either side of offset on one line,
// with a bar at the offset.
func snippet(text string, offset, radius int) string {
	runes := []rune(text)
	from, to := max(0, offset-radius), min(len(runes), offset+radius)
	s := string(runes[from:offset]) + "|" + string(runes[offset:to])
	return strings.ReplaceAll(s, "\n", `\n`)
}
