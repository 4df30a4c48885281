package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/btouchard/qlang/internal/config"
	"github.com/btouchard/qlang/internal/journal"
	"github.com/btouchard/qlang/internal/session"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	verbose    bool
}

func (g *globalFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&g.configPath, "config", "", "configuration file (default $"+config.EnvVar+" or ~/.qlang.yaml)")
	fs.BoolVar(&g.verbose, "v", false, "log debug messages")
}

// load reads the configuration and builds the logger it asks for.
func (g *globalFlags) load() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(config.Resolve(g.configPath))
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Level()
	if g.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return cfg, logger, nil
}

// sessionOptions wires the configuration into a session. The returned
// journal, when not nil, must be closed by the caller.
func sessionOptions(cfg *config.Config, logger *slog.Logger) ([]session.Option, *journal.Journal) {
	opts := []session.Option{
		session.WithOutput(os.Stdout),
		session.WithLogger(logger),
		session.WithMaxCallDepth(cfg.MaxCallDepth),
	}
	if !cfg.Journal.Enabled {
		return opts, nil
	}

	j, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		logger.Warn("journal disabled", slog.Any("error", err))
		return opts, nil
	}
	return append(opts, session.WithRecorder(j)), j
}

// lineInput answers lire from a plain reader, writing the prompt to out.
type lineInput struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func newLineInput(in io.Reader, out io.Writer) *lineInput {
	return &lineInput{scanner: bufio.NewScanner(in), out: out}
}

func (l *lineInput) ReadLine(prompt string) (string, bool) {
	_, _ = fmt.Fprint(l.out, prompt)
	if !l.scanner.Scan() {
		return "", false
	}
	return strings.TrimRight(l.scanner.Text(), "\r"), true
}

// linerInput answers lire with the REPL's line editor. Ctrl-C or Ctrl-D
// decline.
type linerInput struct {
	ln *liner.State
}

func (l linerInput) ReadLine(prompt string) (string, bool) {
	line, err := l.ln.Prompt(prompt)
	if err != nil {
		return "", false
	}
	return line, true
}
