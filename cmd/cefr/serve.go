package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"writing_assessor/internal/db"
	"writing_assessor/internal/server"
	"writing_assessor/internal/workspace"
)

type serveConfig struct {
	*rootConfig
	name      string
	id        string
	host      string
	port      int
	bodyLimit string
	noStore   bool
}

func newServeCommand(rc *rootConfig) *ffcli.Command {
	cfg := &serveConfig{rootConfig: rc}
	fs := flag.NewFlagSet("cefr serve", flag.ContinueOnError)
	fs.SetOutput(rc.stderr)
	fs.StringVar(&cfg.name, "name", "", "name for this service instance, leave blank to auto-generate")
	fs.StringVar(&cfg.id, "id", "", "id for this service instance, leave blank to auto-generate a unique id")
	fs.StringVar(&cfg.host, "host", "localhost", "name/address of host for this service")
	fs.IntVar(&cfg.port, "port", 0, "port to run service on, if not specified will assign an available port automatically")
	fs.StringVar(&cfg.bodyLimit, "body-limit", "64KB", "maximum request body size")
	fs.BoolVar(&cfg.noStore, "no-store", false, "do not persist assessments or serve history")

	return &ffcli.Command{
		Name:       "serve",
		ShortUsage: "cefr serve [flags]",
		ShortHelp:  "run the HTTP assessment service until interrupted",
		FlagSet:    fs,
		Options:    []ff.Option{ff.WithEnvVarPrefix(envPrefix)},
		Exec:       cfg.exec,
	}
}

func (c *serveConfig) exec(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return errors.New("serve takes no arguments")
	}
	e, err := c.prepare()
	if err != nil {
		return err
	}

	opts := []server.Option{
		server.Name(c.name),
		server.ID(c.id),
		server.Host(c.host),
		server.Port(c.port),
		server.BodyLimit(c.bodyLimit),
		server.Engine(e.engine),
		server.Logger(e.logger),
	}
	if !c.noStore {
		store, err := db.Open(workspace.DatabasePath(e.root))
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, server.Store(store))
	}

	srvc, err := server.New(opts...)
	if err != nil {
		return fmt.Errorf("cannot create assessment service: %w", err)
	}
	srvc.PrintConfig(c.stdout)
	srvc.Start()

	// block until the signal context is cancelled
	<-ctx.Done()
	fmt.Fprintln(c.stdout, "\ncefr service shutting down")
	if err := srvc.Shutdown(); err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, "cefr service closed")
	return nil
}
