package commands

import (
	"context"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/docsync/internal/core/approx"
	"github.com/colonyops/docsync/pkg/iojson"
)

// FindRequest is the JSON input accepted by find when no files are given.
type FindRequest struct {
	Anchor int    `json:"anchor"`
	Search string `json:"search"`
	Target string `json:"target"`
}

// Validate checks the request using criterio.
func (r FindRequest) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("anchor", r.Anchor, func(anchor int) error {
			return approx.ValidateAnchor(anchor, r.Search)
		}),
	)
}

// FindResult is the JSON output of find.
type FindResult struct {
	Anchor     int               `json:"anchor"`
	Offset     int               `json:"offset"`
	Found      bool              `json:"found"`
	Expected   float64           `json:"expected,omitempty"`
	Tolerance  int               `json:"tolerance,omitempty"`
	Candidates []CandidateResult `json:"candidates,omitempty"`
}

// CandidateResult describes one candidate offset considered by find.
type CandidateResult struct {
	Offset int `json:"offset"`
	Start  int `json:"start"`
	End    int `json:"end"`
	Cost   int `json:"cost"`
}

type FindCmd struct {
	flags   *Flags
	fr      *iojson.FileReader[FindRequest]
	anchor  int
	jsonOut bool
	explain bool
}

// NewFindCmd creates a new find command.
func NewFindCmd(flags *Flags) *FindCmd {
	return &FindCmd{flags: flags, fr: &iojson.FileReader[FindRequest]{}}
}

// Register adds the find command to the application.
func (cmd *FindCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "find",
		Usage:     "Map an offset in one text to the matching offset in another",
		UsageText: "docsync find [options] [SEARCH_FILE TARGET_FILE]",
		Description: `Finds the offset in TARGET_FILE that corresponds to --anchor in SEARCH_FILE.
Offsets count code points. Prints -1 when no unambiguous match exists.

Without file arguments a JSON request is read from --file or stdin:

  {"anchor": 4, "search": "# test", "target": "test"}

Examples:
  docsync find --anchor 120 README.md rendered.txt
  echo '{"anchor":4,"search":"# test","target":"test"}' | docsync find --json`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "anchor",
				Aliases:     []string{"a"},
				Usage:       "code point offset in the search text",
				Destination: &cmd.anchor,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "write the result as JSON",
				Destination: &cmd.jsonOut,
			},
			&cli.BoolFlag{
				Name:        "explain",
				Usage:       "include every candidate and the ambiguity tolerance",
				Destination: &cmd.explain,
			},
			cmd.fr.Flag(),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *FindCmd) run(_ context.Context, c *cli.Command) error {
	req, err := cmd.request(c)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	opts, err := cmd.flags.Config.MapperOptions()
	if err != nil {
		return err
	}
	mapper := approx.NewMapper(opts)
	match := mapper.Candidates(req.Anchor, req.Search, req.Target)
	offset := mapper.Resolve(match)

	result := FindResult{Anchor: req.Anchor, Offset: offset, Found: offset != approx.NotFound}
	if cmd.explain {
		result.Expected = match.Expected
		result.Tolerance = match.Tolerance
		for _, cand := range match.Candidates {
			result.Candidates = append(result.Candidates, CandidateResult{
				Offset: cand.Offset,
				Start:  cand.Start,
				End:    cand.End,
				Cost:   cand.Cost,
			})
		}
	}

	w := c.Root().Writer
	if cmd.jsonOut {
		return iojson.WriteWith(w, c.Root().ErrWriter, result)
	}

	_, err = fmt.Fprintln(w, result.Offset)
	if err != nil || !cmd.explain {
		return err
	}
	for _, cand := range result.Candidates {
		_, _ = fmt.Fprintf(w, "  candidate %d in [%d, %d) cost %d\n", cand.Offset, cand.Start, cand.End, cand.Cost)
	}
	_, err = fmt.Fprintf(w, "  expected %.1f tolerance %d\n", result.Expected, result.Tolerance)
	return err
}

func (cmd *FindCmd) request(c *cli.Command) (FindRequest, error) {
	switch c.Args().Len() {
	case 0:
		return cmd.fr.Read(c.Root().Reader)
	case 2:
		search, err := readText(c.Args().Get(0))
		if err != nil {
			return FindRequest{}, err
		}
		target, err := readText(c.Args().Get(1))
		if err != nil {
			return FindRequest{}, err
		}
		return FindRequest{Anchor: cmd.anchor, Search: search, Target: target}, nil
	default:
		return FindRequest{}, fmt.Errorf("expected SEARCH_FILE and TARGET_FILE, got %d arguments", c.Args().Len())
	}
}
