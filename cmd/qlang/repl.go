package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/btouchard/qlang/internal/qlang/runtime"
	"github.com/btouchard/qlang/internal/session"
)

const separator = "--------------------"

func cmdRepl(args []string) (ret int) {
	var g globalFlags
	fs := flag.NewFlagSet("repl", flag.ExitOnError)
	g.register(fs)
	_ = fs.Parse(args)

	cfg, logger, err := g.load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(cfg.HistoryFile); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer saveHistory(ln, cfg.HistoryFile, logger)

	opts, j := sessionOptions(cfg, logger)
	if j != nil {
		defer j.Close()
	}
	opts = append(opts, session.WithInput(linerInput{ln: ln}))
	s := session.New(opts...)

	prompt := cfg.Prompt
	if !strings.HasSuffix(prompt, " ") {
		prompt += " "
	}

	ctx := context.Background()
	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			return 0
		}
		if err != nil {
			fmt.Println()
			return 0
		}

		code := strings.TrimSpace(line)
		if code == "" || code == "exit" {
			return 0
		}
		ln.AppendHistory(line)

		res := s.Eval(ctx, line)
		if res.Failed() {
			for _, l := range res.Stderr {
				_, _ = fmt.Fprintln(os.Stderr, l)
			}
			continue
		}
		fmt.Println(runtime.Display(res.Value))
		fmt.Println(separator)
	}
}

func saveHistory(ln *liner.State, path string, logger *slog.Logger) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.Warn("history not saved", slog.Any("error", err))
		return
	}
	f, err := os.Create(path)
	if err != nil {
		logger.Warn("history not saved", slog.Any("error", err))
		return
	}
	defer f.Close()
	_, _ = ln.WriteHistory(f)
}
