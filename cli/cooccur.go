package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/amonks/genremap/subcmd"
)

func cooccur(ctx context.Context, app *app, args []string) error {
	subcmd := subcmd.New("cooccur", "rebuild the co-occurrence matrix from sampled artists")
	var (
		sample   = subcmd.Int("sample", 1000, "maximum number of artists to sample (0 for all)")
		source   = subcmd.String("source", "cache", "where to find artists: 'cache', 'file', or 'everynoise'")
		file     = subcmd.String("file", "", "with -source=file, a file of artist names, one per line")
		genres   = subcmd.String("genres", "", "with -source=everynoise, comma-separated genres to sample (default: the curated genres)")
		perGenre = subcmd.Int("per-genre", 20, "with -source=everynoise, artists to take from each genre page")
	)
	if err := subcmd.Parse(args); err != nil {
		return fmt.Errorf("flag parsing err: %w", err)
	}

	var artists []string
	switch *source {
	case "cache":
	case "file":
		f, err := os.Open(*file)
		if err != nil {
			return fmt.Errorf("error opening '%s': %w", *file, err)
		}
		defer f.Close()
		if artists, err = readLines(f); err != nil {
			return err
		}
	case "everynoise":
		list := app.mapper.Taxonomy().Graph.Genres()
		if *genres != "" {
			list = nil
			for _, g := range strings.Split(*genres, ",") {
				if g = strings.TrimSpace(g); g != "" {
					list = append(list, g)
				}
			}
		}
		var err error
		if artists, err = app.enao().SampleArtists(ctx, list, *perGenre); err != nil {
			return err
		}
		app.log.Info().Int("genres", len(list)).Int("artists", len(artists)).Msg("sampled everynoise")
		if len(artists) == 0 {
			return fmt.Errorf("no artists found on everynoise")
		}
	default:
		return fmt.Errorf("unknown source '%s'", *source)
	}

	stats, err := app.mapper.BuildCooccurrenceMatrix(ctx, artists, *sample, app.pace)
	if err != nil {
		return err
	}
	humanPrinter.Printf("sampled %d artists (%d tagged): %d pairs over %d genres\n",
		stats.Sampled, stats.Tagged, stats.Pairs, stats.Genres)
	return nil
}
