package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"writing_assessor/internal/assess"
	"writing_assessor/internal/db"
	"writing_assessor/internal/ingest"
	"writing_assessor/internal/logging"
	"writing_assessor/internal/workspace"
)

type assessConfig struct {
	*rootConfig
	targetWords int
	prompt      string
	save        bool
	pretty      bool
	details     bool
}

func newAssessCommand(rc *rootConfig) *ffcli.Command {
	cfg := &assessConfig{rootConfig: rc}
	fs := flag.NewFlagSet("cefr assess", flag.ContinueOnError)
	fs.SetOutput(rc.stderr)
	fs.IntVar(&cfg.targetWords, "target-words", 0, "target word count of the task; enables the task achievement score")
	fs.StringVar(&cfg.prompt, "prompt", "", "task prompt, used to measure coverage when -target-words is set")
	fs.BoolVar(&cfg.save, "save", false, "store the assessment in the workspace and write a JSON report")
	fs.BoolVar(&cfg.pretty, "pretty", false, "indent the JSON output")
	fs.BoolVar(&cfg.details, "details", false, "include per-analyzer detail in the output")

	return &ffcli.Command{
		Name:       "assess",
		ShortUsage: "cefr assess [flags] FILE|-",
		ShortHelp:  "assess a .txt, .md, .docx or .pdf file, or stdin",
		FlagSet:    fs,
		Options:    []ff.Option{ff.WithEnvVarPrefix(envPrefix)},
		Exec:       cfg.exec,
	}
}

func (c *assessConfig) exec(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("assess needs exactly one FILE, or - for stdin")
	}
	e, err := c.prepare()
	if err != nil {
		return err
	}

	var parsed *ingest.Parsed
	if args[0] == "-" {
		parsed, err = ingest.ParseReader(c.stdin, "stdin")
	} else {
		parsed, err = ingest.ParseFile(args[0])
	}
	if err != nil {
		return err
	}
	e.logger.Log(logging.Info, "INGEST", "text extracted",
		fmt.Sprintf("source=%s format=%s words=%d", parsed.Source, parsed.Format, parsed.WordCount))

	analysis, err := e.engine.Analyze(parsed.Text, assess.TaskContext{
		TargetPromptWordCount: c.targetWords,
		TargetPrompt:          c.prompt,
	})
	if err != nil {
		return err
	}

	if c.save {
		if err := c.store(e, parsed.Source, analysis); err != nil {
			return err
		}
	}

	var out any = analysis.Result
	if c.details {
		out = analysis
	}
	return c.writeJSON(out)
}

func (c *assessConfig) store(e *env, source string, analysis assess.Analysis) error {
	store, err := db.Open(workspace.DatabasePath(e.root))
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Save(source, analysis.Words, analysis.Result)
	if err != nil {
		return err
	}
	path, err := workspace.SaveReport(e.root, rec.ID, rec)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stderr, "saved %s to %s\n", rec.ID, path)
	return nil
}

func (c *assessConfig) writeJSON(v any) error {
	enc := json.NewEncoder(c.stdout)
	if c.pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
