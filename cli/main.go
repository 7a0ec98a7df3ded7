// genremap measures how closely related genres are, and whether an artist
// fits a target genre, using a curated genre table, co-occurrence learned
// from artist tags, and a local cache of artist genres fetched from
// Spotify.
//
// Configuration is read from $GENREMAP_CONFIG (default genremap.yaml), if
// it exists, and the environment. See the config package.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/amonks/genremap/config"
	"github.com/amonks/genremap/sigctx"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	} else if errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "canceled")
		os.Exit(130)
	}
}

var usage = strings.TrimSpace(`
usage: genremap $cmd
valid $cmd are 'distance', 'related', 'genres', 'match', 'warm', 'cooccur', 'coverage', 'serve'
for help: genremap $cmd -help
`)

type command func(ctx context.Context, app *app, args []string) error

var commands = map[string]command{
	"distance": distanceCmd,
	"related":  related,
	"genres":   genres,
	"match":    match,
	"warm":     warm,
	"cooccur":  cooccur,
	"coverage": coverage,
	"serve":    serve,
}

func run() error {
	ctx, stop := sigctx.New()
	defer stop()

	if len(os.Args) < 2 {
		return errors.New(usage)
	}
	name, args := os.Args[1], os.Args[2:]
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown cmd: '%s'\n%s", name, usage)
	}

	configPath := os.Getenv("GENREMAP_CONFIG")
	if configPath == "" {
		configPath = "genremap.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	app, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := cmd(ctx, app, args); err != nil {
		return fmt.Errorf("%s error: %w", name, err)
	}
	return nil
}
