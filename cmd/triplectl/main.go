// Command triplectl is a thin operator CLI for the triple-store: open a
// database directory, transact a batch of operations from a JSON file,
// or dump an index range. It is not a query tool — Datalog evaluation
// stays out of scope here, the way it did in the teacher's own
// cmd/datalog/main.go for the concerns this CLI doesn't cover.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
)

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	var err error
	switch args[0] {
	case "open":
		err = cmdOpen(args[1:])
	case "transact":
		err = cmdTransact(args[1:])
	case "scan":
		err = cmdScan(args[1:])
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [args]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  open <dir>\n")
	fmt.Fprintf(os.Stderr, "      Open (creating if absent) a database directory and print a summary.\n")
	fmt.Fprintf(os.Stderr, "  transact <dir> <ops.json>\n")
	fmt.Fprintf(os.Stderr, "      Transact the JSON-encoded operations in ops.json against dir.\n")
	fmt.Fprintf(os.Stderr, "  scan [-e id] [-a ident] <dir> <eavt|aevt|avet|vaet>\n")
	fmt.Fprintf(os.Stderr, "      Print a table of datoms matching the bound components; the index scanned is chosen from which components are bound.\n")
}
