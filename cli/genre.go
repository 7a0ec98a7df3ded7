package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/amonks/genremap/distance"
	"github.com/amonks/genremap/setflag"
	"github.com/amonks/genremap/subcmd"
)

var labels = []string{
	distance.ParentChild,
	distance.Sibling,
	distance.NearNeighbor,
	distance.Cousin,
	distance.Cooccurrence,
}

func distanceCmd(ctx context.Context, app *app, args []string) error {
	subcmd := subcmd.New("distance", "measure the distance between two genres")
	subcmd.SetArg("a", "string", "a genre (required; quote multi-word genres)")
	subcmd.SetArg("b", "string", "another genre (required)")
	if err := subcmd.Parse(args); err != nil {
		return fmt.Errorf("flag parsing err: %w", err)
	}
	genres, err := subcmd.Exactly()
	if err != nil {
		return err
	}

	m := app.mapper.Measure(genres[0], genres[1])
	fmt.Printf("%s -> %s: %.3f (%s)\n", m.A, m.B, m.Distance, m.Relationship)
	if len(m.Path) > 1 {
		fmt.Printf("  path: %s\n", strings.Join(m.Path, " -> "))
	}
	return nil
}

func related(ctx context.Context, app *app, args []string) error {
	subcmd := subcmd.New("related", "list the genres near a genre")
	subcmd.SetArg("genre", "string", "a genre (required)")
	var (
		maxDistance = subcmd.Float64("max", 0.5, "maximum distance")
		only        = setflag.New(labels...)
	)
	subcmd.Var(only, "only", "only show these relationships: "+strings.Join(labels, ", "))
	if err := subcmd.Parse(args); err != nil {
		return fmt.Errorf("flag parsing err: %w", err)
	}
	genre, err := subcmd.Joined()
	if err != nil {
		return err
	}

	related, err := app.mapper.GetRelatedGenres(genre, *maxDistance)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "genre\tdistance\trelationship")
	shown := 0
	for _, r := range related {
		if !only.Has(r.Relationship) {
			continue
		}
		shown++
		fmt.Fprintf(tw, "%s\t%.3f\t%s\n", r.Genre, r.Distance, r.Relationship)
	}
	tw.Flush()

	if shown == 0 {
		fmt.Printf("nothing within %.2f of '%s'\n", *maxDistance, genre)
	}
	return nil
}
