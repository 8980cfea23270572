// Package logging provides the stage-tagged logger shared by the engine and
// its callers.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/labstack/gommon/log"
)

const (
	Debug    = "DEBUG"
	Info     = "INFO"
	Analysis = "ANALYSIS"
	Risk     = "RISK"
	Error    = "ERROR"
)

type Logger interface {
	Log(level, stage, message, detail string)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Log(level, stage, message, detail string) {}

// OrNop returns l, or a Nop when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return Nop{}
	}
	return l
}

const header = `{"time":"${time_rfc3339}","level":"${level}","prefix":"${prefix}"}`

// Gommon writes JSON lines through a gommon logger.
type Gommon struct {
	l *log.Logger
}

func New(prefix string, out io.Writer, level string) (*Gommon, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	l := log.New(prefix)
	l.SetHeader(header)
	l.DisableColor()
	if out != nil {
		l.SetOutput(out)
	}
	l.SetLevel(lvl)
	return &Gommon{l: l}, nil
}

// Backend exposes the underlying logger so echo can share it.
func (g *Gommon) Backend() *log.Logger {
	return g.l
}

func (g *Gommon) Log(level, stage, message, detail string) {
	record := log.JSON{"kind": level, "stage": stage, "message": message}
	if detail != "" {
		record["detail"] = detail
	}
	switch level {
	case Debug:
		g.l.Debugj(record)
	case Risk:
		g.l.Warnj(record)
	case Error:
		g.l.Errorj(record)
	default:
		g.l.Infoj(record)
	}
}

func ParseLevel(s string) (log.Lvl, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DEBUG, nil
	case "", "info":
		return log.INFO, nil
	case "warn", "warning":
		return log.WARN, nil
	case "error":
		return log.ERROR, nil
	case "off":
		return log.OFF, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}
