package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/amonks/genremap/subcmd"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func coverage(ctx context.Context, app *app, args []string) error {
	subcmd := subcmd.New("coverage", "report how well the genre data covers the cached artists")
	if err := subcmd.Parse(args); err != nil {
		return fmt.Errorf("flag parsing err: %w", err)
	}

	summary, err := app.db.Summary()
	if err != nil {
		return err
	}
	report, err := app.mapper.Coverage()
	if err != nil {
		return err
	}

	printSection("taxonomy", report.CuratedGenres, []stat{
		{"root genres", report.RootGenres},
	})
	printSection("cached artists", summary.Artists, []stat{
		{"with genres", summary.ArtistsWithGenres},
		{"without genres", report.ArtistsWithoutGenres},
	})
	printSection("tags", report.UniqueTags, []stat{
		{"in taxonomy", report.TagsInTaxonomy},
		{"in co-occurrence matrix", report.TagsInMatrix},
	})
	printSection("co-occurrence matrix", summary.GenrePairs, []stat{
		{"genres", report.MatrixGenres},
	})

	humanPrinter.Printf("MOST COMMON TAGS\n")
	for _, tc := range report.TopTags {
		humanPrinter.Printf("  %-30s %d artists\n", tc.Tag, tc.Artists)
	}
	return nil
}

type stat struct {
	name  string
	count int
}

var humanPrinter = message.NewPrinter(language.English)

func printSection(name string, known int, done []stat) {
	humanPrinter.Printf("%s\n", strings.ToUpper(name))
	humanPrinter.Printf("  %d\ttotal\n", known)
	for _, s := range done {
		if known > 0 {
			humanPrinter.Printf("  %d\t%s (%.2f%%)\n", s.count, s.name, 100.0*float64(s.count)/float64(known))
		} else {
			humanPrinter.Printf("  %d\t%s\n", s.count, s.name)
		}
	}
	humanPrinter.Printf("\n")
}
