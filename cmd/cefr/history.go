package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"writing_assessor/internal/db"
	"writing_assessor/internal/workspace"
)

type historyConfig struct {
	*rootConfig
	limit  int
	asJSON bool
}

func newHistoryCommand(rc *rootConfig) *ffcli.Command {
	cfg := &historyConfig{rootConfig: rc}
	fs := flag.NewFlagSet("cefr history", flag.ContinueOnError)
	fs.SetOutput(rc.stderr)
	fs.IntVar(&cfg.limit, "limit", 0, "number of assessments to show (default from workspace settings)")
	fs.BoolVar(&cfg.asJSON, "json", false, "print summaries as JSON")

	return &ffcli.Command{
		Name:       "history",
		ShortUsage: "cefr history [flags]",
		ShortHelp:  "list stored assessments, newest first",
		FlagSet:    fs,
		Options:    []ff.Option{ff.WithEnvVarPrefix(envPrefix)},
		Exec:       cfg.exec,
	}
}

func (c *historyConfig) exec(_ context.Context, args []string) error {
	if len(args) > 0 {
		return errors.New("history takes no arguments")
	}
	e, err := c.prepare()
	if err != nil {
		return err
	}
	limit := c.limit
	if limit <= 0 {
		limit = e.settings.HistoryLimit
	}

	store, err := db.Open(workspace.DatabasePath(e.root))
	if err != nil {
		return err
	}
	defer store.Close()
	summaries, err := store.List(limit)
	if err != nil {
		return err
	}

	if c.asJSON {
		return json.NewEncoder(c.stdout).Encode(summaries)
	}
	if len(summaries) == 0 {
		fmt.Fprintln(c.stdout, "no assessments stored")
		return nil
	}
	tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tLEVEL\tSCORE\tCONFIDENCE\tSOURCE")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%.3f\t%s\n",
			s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04"), s.CEFRLevel, s.Score, s.ConfidenceLevel, s.Source)
	}
	return tw.Flush()
}
