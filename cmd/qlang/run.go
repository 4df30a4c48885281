package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/btouchard/qlang/internal/qlang/runtime"
	"github.com/btouchard/qlang/internal/session"
)

func cmdRun(args []string) int {
	var g globalFlags
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	g.register(fs)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage: qlang run [-config file] [-v] <file.ql>\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fs.Usage()
		return 1
	}

	cfg, logger, err := g.load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		return 1
	}

	opts, j := sessionOptions(cfg, logger)
	if j != nil {
		defer j.Close()
	}
	opts = append(opts, session.WithInput(newLineInput(os.Stdin, os.Stdout)))

	// ecrire already went to stdout; only the final value is left to show.
	res := session.New(opts...).Eval(context.Background(), string(data))
	if res.Failed() {
		for _, line := range res.Stderr {
			_, _ = fmt.Fprintln(os.Stderr, line)
		}
		return 1
	}
	if res.Value != nil && res.Value.Kind() != runtime.KindNull {
		fmt.Println(runtime.Display(res.Value))
	}
	return 0
}
