package commands

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/docsync/internal/core/approx"
	"github.com/colonyops/docsync/pkg/iojson"
)

// AlignResult is the JSON output of align.
type AlignResult struct {
	Common string      `json:"common"`
	Pairs  []AlignPair `json:"pairs"`
}

// AlignPair is one matched code point.
type AlignPair struct {
	Search int    `json:"search"`
	Target int    `json:"target"`
	Char   string `json:"char"`
}

// DefaultAlignMaxCells bounds the LCS table align may build. Each cell is
// four bytes, so the default allows about 200 MB.
const DefaultAlignMaxCells = 50_000_000

type AlignCmd struct {
	flags    *Flags
	files    bool
	jsonOut  bool
	maxCells int
}

// NewAlignCmd creates a new align command.
func NewAlignCmd(flags *Flags) *AlignCmd {
	return &AlignCmd{flags: flags}
}

// Register adds the align command to the application.
func (cmd *AlignCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "align",
		Usage:     "Print the longest common subsequence of two texts",
		UsageText: "docsync align [options] SEARCH TARGET",
		Description: `Aligns SEARCH against TARGET and prints the common subsequence. With --json
every matched code point is listed with its index in both texts.

The alignment table holds one cell per pair of code points. Inputs needing
more than --max-cells cells are refused; align excerpts of large files.

Examples:
  docsync align "Fußball" "Football"
  docsync align --files --json source.md rendered.txt`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "files",
				Usage:       "treat the arguments as file paths",
				Destination: &cmd.files,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "write the alignment as JSON",
				Destination: &cmd.jsonOut,
			},
			&cli.IntFlag{
				Name:        "max-cells",
				Usage:       "refuse inputs whose alignment table exceeds this many cells",
				Value:       DefaultAlignMaxCells,
				Destination: &cmd.maxCells,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *AlignCmd) run(_ context.Context, c *cli.Command) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("expected SEARCH and TARGET, got %d arguments", c.Args().Len())
	}

	search, target := c.Args().Get(0), c.Args().Get(1)
	if cmd.files {
		var err error
		if search, err = readText(search); err != nil {
			return err
		}
		if target, err = readText(target); err != nil {
			return err
		}
	}

	if err := checkAlignSize(search, target, cmd.maxCells); err != nil {
		return err
	}

	al := approx.Align(search, target)

	w := c.Root().Writer
	if !cmd.jsonOut {
		_, err := fmt.Fprintln(w, al.String())
		return err
	}

	result := AlignResult{Common: al.String(), Pairs: make([]AlignPair, len(al))}
	for i, p := range al {
		result.Pairs[i] = AlignPair{Search: p.Search, Target: p.Target, Char: string(p.Char)}
	}
	return iojson.WriteWith(w, c.Root().ErrWriter, result)
}

func checkAlignSize(search, target string, maxCells int) error {
	n, m := utf8.RuneCountInString(search), utf8.RuneCountInString(target)
	cells := int64(n+1) * int64(m+1)
	if maxCells > 0 && cells > int64(maxCells) {
		return fmt.Errorf("inputs of %d and %d code points need %d alignment cells, over the limit of %d (see --max-cells)",
			n, m, cells, maxCells)
	}
	return nil
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
