package main

import (
	"fmt"
	"os"
	"strings"
)

const usage = `Usage: qlang [command] [flags] [args]

Commands:
  run <file.ql>     evaluate a program
  repl              start an interactive session (default)
  check <file.ql>   tokenize and parse a program without running it
  history [-n 20]   list the latest journaled evaluations

Every command accepts -config <file> and -v.
`

func main() {
	if len(os.Args) < 2 {
		os.Exit(cmdRepl(nil))
	}

	switch cmd := os.Args[1]; cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "check":
		os.Exit(cmdCheck(os.Args[2:]))
	case "history":
		os.Exit(cmdHistory(os.Args[2:]))
	case "help", "-h", "-help", "--help":
		fmt.Fprint(os.Stdout, usage)
	default:
		// Flags alone still start the REPL.
		if strings.HasPrefix(cmd, "-") {
			os.Exit(cmdRepl(os.Args[1:]))
		}
		_, _ = fmt.Fprintf(os.Stderr, "Unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
}
