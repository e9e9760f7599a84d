// Command lumen-log is a tool for viewing and analyzing Lumen protocol
// capture files.
//
// Capture files are created by lumen-cli's -capture flag, or by any
// program that wires a FileLogger into its transport client.
//
// Usage:
//
//	lumen-log <command> [flags] <file.lcap>
//
// Commands:
//
//	view     View capture in human-readable format
//	export   Export capture to JSONL
//	stats    Show statistics about the capture
//
// Examples:
//
//	# View all events
//	lumen-log view session.lcap
//
//	# View only outgoing action commands
//	lumen-log view --direction out --category action session.lcap
//
//	# Export to JSONL
//	lumen-log export session.lcap > session.jsonl
//
//	# Show statistics
//	lumen-log stats session.lcap
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lumen-home/lumen-go/cmd/lumen-log/commands"
)

const usage = `lumen-log - Lumen Protocol Capture Analyzer

Usage:
  lumen-log <command> [flags] <file.lcap>

Commands:
  view     View capture in human-readable format
  export   Export capture to JSONL
  stats    Show statistics about the capture

Use "lumen-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	direction := fs.String("direction", "", "Filter by direction (in, out)")
	category := fs.String("category", "", "Filter by category (connection, auth, action, structure, keepalive, error)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requireFile(fs)

	var filter commands.ViewFilter
	var err error
	if *direction != "" {
		filter.Direction, err = commands.ParseDirectionFlag(*direction)
		fatalOn(err)
	}
	if *category != "" {
		filter.Category, err = commands.ParseCategoryFlag(*category)
		fatalOn(err)
	}

	fatalOn(commands.RunView(path, filter, os.Stdout))
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	fatalOn(commands.RunExport(requireFile(fs), os.Stdout))
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	fatalOn(commands.RunStats(requireFile(fs), os.Stdout))
}

func requireFile(fs *flag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: capture file path required")
		os.Exit(1)
	}
	return fs.Arg(0)
}

func fatalOn(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
