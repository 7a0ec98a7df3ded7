package main

import (
	"context"
	"fmt"

	"github.com/amonks/genremap/server"
	"github.com/amonks/genremap/subcmd"
)

func serve(ctx context.Context, app *app, args []string) error {
	subcmd := subcmd.New("serve", "run a web server answering genre queries")
	var (
		addr = subcmd.String("addr", app.cfg.Server.Addr, "listen address")
	)
	if err := subcmd.Parse(args); err != nil {
		return fmt.Errorf("flag parsing err: %w", err)
	}

	handler := server.New(app.mapper, app.pace, app.log)
	return server.Run(ctx, *addr, handler, app.log)
}
