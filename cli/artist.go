package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/amonks/genremap/subcmd"
)

func genres(ctx context.Context, app *app, args []string) error {
	subcmd := subcmd.New("genres", "show an artist's genre tags, looking them up if needed")
	subcmd.SetArg("artist", "string", "artist name (required)")
	if err := subcmd.Parse(args); err != nil {
		return fmt.Errorf("flag parsing err: %w", err)
	}
	artist, err := subcmd.Joined()
	if err != nil {
		return err
	}

	tags := app.mapper.Cache().Fetch(ctx, artist, app.pace)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("canceled: %w", err)
	}
	if len(tags) == 0 {
		fmt.Printf("no genres for '%s'\n", artist)
		return nil
	}
	for _, tag := range tags {
		fmt.Println(tag)
	}
	return nil
}

func match(ctx context.Context, app *app, args []string) error {
	subcmd := subcmd.New("match", "check whether an artist fits a genre")
	subcmd.SetArg("artist", "string", "artist name (required)")
	var (
		genre       = subcmd.String("genre", "", "target genre (required)")
		maxDistance = subcmd.Float64("max", 0.5, "maximum distance for a match")
		asJSON      = subcmd.Bool("json", false, "print the full match info as json")
	)
	if err := subcmd.Parse(args); err != nil {
		return fmt.Errorf("flag parsing err: %w", err)
	}
	artist, err := subcmd.Joined()
	if err != nil {
		return err
	}
	if *genre == "" {
		return fmt.Errorf("-genre is required")
	}

	// Fetch through the pacer first; Evaluate then hits the cache.
	app.mapper.Cache().Fetch(ctx, artist, app.pace)
	res, err := app.mapper.Evaluate(ctx, artist, *genre, *maxDistance)
	if err != nil {
		return err
	}
	info := app.mapper.GetGenreMatchInfo(ctx, artist, *genre)

	if *asJSON {
		bs, err := json.MarshalIndent(struct {
			IsMatch bool `json:"is_match"`
			Info    any  `json:"info"`
		}{res.IsMatch, info}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(bs))
		return nil
	}

	verdict := "no match"
	if res.IsMatch {
		verdict = "match"
	}
	if info.BestMatch == nil {
		fmt.Printf("%s: no genres for '%s'\n", verdict, artist)
		return nil
	}
	fmt.Printf("%s: '%s' is %.3f from '%s' via '%s' (%s)\n",
		verdict, artist, info.MinDistance, *genre, info.BestMatch.Genre, info.BestMatch.Relationship)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  tag\tdistance\trelationship")
	for _, m := range info.Matches {
		fmt.Fprintf(tw, "  %s\t%.3f\t%s\n", m.Genre, m.Distance, m.Relationship)
	}
	return tw.Flush()
}

func warm(ctx context.Context, app *app, args []string) error {
	subcmd := subcmd.New("warm", "look up every uncached artist in a list, one at a time")
	file := subcmd.String("file", "-", "file of artist names, one per line ('-' for stdin)")
	if err := subcmd.Parse(args); err != nil {
		return fmt.Errorf("flag parsing err: %w", err)
	}

	var r io.Reader = os.Stdin
	if *file != "-" {
		f, err := os.Open(*file)
		if err != nil {
			return fmt.Errorf("error opening '%s': %w", *file, err)
		}
		defer f.Close()
		r = f
	}
	names, err := readLines(r)
	if err != nil {
		return err
	}

	stats, err := app.mapper.Cache().Warm(ctx, names, app.pace)
	humanPrinter.Printf("%d artists: %d cached, %d fetched, %d with no genres\n",
		stats.Requested, stats.Hits, stats.Fetched, stats.Empty)
	return err
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" && !strings.HasPrefix(line, "#") {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading artist list: %w", err)
	}
	return lines, nil
}
