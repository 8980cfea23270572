package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"writing_assessor/internal/assess"
	"writing_assessor/internal/logging"
	"writing_assessor/internal/workspace"
)

const envPrefix = "CEFR"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	case assess.IsInputError(err):
		fmt.Fprintf(os.Stderr, "cannot assess input: %v\n", err)
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "cefr: %v\n", err)
		os.Exit(1)
	}
}

// rootConfig holds the flags shared by every subcommand.
type rootConfig struct {
	logLevel    string
	workspace   string
	lexiconPath string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// env is what a subcommand needs once the shared flags are resolved.
type env struct {
	root     string
	settings workspace.Settings
	logger   *logging.Gommon
	engine   *assess.Engine
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	rc := &rootConfig{stdin: stdin, stdout: stdout, stderr: stderr}

	fs := flag.NewFlagSet("cefr", flag.ContinueOnError)
	fs.SetOutput(stderr)
	_ = fs.String("config", "", "config file (optional), json format")
	fs.StringVar(&rc.logLevel, "log-level", "", "debug, info, warn, error or off (default from workspace settings)")
	fs.StringVar(&rc.workspace, "workspace", "", "workspace directory (default ~/"+workspace.BaseDirName+")")
	fs.StringVar(&rc.lexiconPath, "lexicon-path", "", "YAML lexicon overriding the embedded one")

	root := &ffcli.Command{
		Name:       "cefr",
		ShortUsage: "cefr [flags] <subcommand> [flags] [args...]",
		ShortHelp:  "estimate the CEFR level of English writing",
		FlagSet:    fs,
		Options:    rootOptions(),
		Subcommands: []*ffcli.Command{
			newAssessCommand(rc),
			newServeCommand(rc),
			newHistoryCommand(rc),
		},
		Exec: func(context.Context, []string) error {
			return flag.ErrHelp
		},
	}
	return root.ParseAndRun(ctx, args)
}

func rootOptions() []ff.Option {
	return []ff.Option{
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.JSONParser),
		ff.WithEnvVarPrefix(envPrefix),
	}
}

// prepare resolves the workspace, logger and engine. Flags win over the
// workspace settings file.
func (rc *rootConfig) prepare() (*env, error) {
	var (
		root string
		err  error
	)
	if rc.workspace != "" {
		root, err = workspace.EnsureAt(rc.workspace)
	} else {
		root, err = workspace.EnsureDefault()
	}
	if err != nil {
		return nil, fmt.Errorf("workspace: %w", err)
	}
	settings, err := workspace.LoadSettings(root)
	if err != nil {
		return nil, err
	}

	level := settings.LogLevel
	if rc.logLevel != "" {
		level = rc.logLevel
	}
	logger, err := logging.New("cefr", rc.stderr, level)
	if err != nil {
		return nil, err
	}

	// -lexicon-path and CEFR_LEXICON_PATH arrive through the same flag
	cfg := assess.DefaultConfig()
	cfg.LexiconPath = settings.LexiconPath
	if rc.lexiconPath != "" {
		cfg.LexiconPath = rc.lexiconPath
	}
	lex, err := cfg.LoadLexicon()
	if err != nil {
		return nil, fmt.Errorf("lexicon: %w", err)
	}
	logger.Log(logging.Debug, "SETUP", "workspace ready", root)

	return &env{
		root:     root,
		settings: settings,
		logger:   logger,
		engine:   assess.New(cfg, lex, logger),
	}, nil
}
