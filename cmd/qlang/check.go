package main

import (
	"flag"
	"fmt"
	"os"

	qerrors "github.com/btouchard/qlang/internal/qlang/errors"
	"github.com/btouchard/qlang/internal/qlang/parser"
)

func cmdCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage: qlang check <file.ql>\n")
	}
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fs.Usage()
		return 1
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		return 1
	}

	source := string(data)
	if _, err := parser.Parse(source); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, qerrors.Render(err, source))
		return 1
	}
	fmt.Println("ok")
	return 0
}
