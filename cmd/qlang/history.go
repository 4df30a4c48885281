package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/btouchard/qlang/internal/journal"
)

func cmdHistory(args []string) int {
	var g globalFlags
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	g.register(fs)
	n := fs.Int("n", 20, "number of entries to list")
	_ = fs.Parse(args)

	cfg, _, err := g.load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	j, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer j.Close()

	entries, err := j.Recent(context.Background(), *n)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		status := "ok"
		if e.Failed {
			status = "erreur"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), shortID(e.SessionID), status, firstLine(e.Source))
	}
	_ = w.Flush()
	return 0
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func firstLine(source string) string {
	line, rest, _ := strings.Cut(source, "\n")
	if rest != "" {
		line += " …"
	}
	return line
}
