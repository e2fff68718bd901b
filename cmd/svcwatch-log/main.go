// Command svcwatch-log is a tool for viewing and analyzing svcwatch event
// logs.
//
// Event logs are created by running svcwatch with the -event-log flag.
//
// Usage:
//
//	svcwatch-log <command> [flags] <file.cbor>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSON or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Every command accepts the filter flags -session, -category, -kind,
// -name, -domain, -time-start and -time-end.
//
// Examples:
//
//	# View all events
//	svcwatch-log view events.cbor
//
//	# View only removals
//	svcwatch-log view -kind removed events.cbor
//
//	# Export changes of one service to CSV
//	svcwatch-log export -format csv -name "Office Printer" events.cbor
//
//	# Keep one session and save to a new file
//	svcwatch-log filter -session 0b7c5f0e-... -o session.cbor events.cbor
//
//	# Show statistics
//	svcwatch-log stats events.cbor
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/svcwatch/svcwatch-go/cmd/svcwatch-log/commands"
	"github.com/svcwatch/svcwatch-go/pkg/log"
)

const usage = `svcwatch-log - svcwatch Event Log Analyzer

Usage:
  svcwatch-log <command> [flags] <file.cbor>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSON or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file

Use "svcwatch-log <command> -help" for more information about a command.
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
	case "filter":
		runFilter(args)
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

// newFlagSet creates a flag set with the shared filter flags registered.
func newFlagSet(name, summary, usageLine string) (*flag.FlagSet, *commands.FilterOptions) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "svcwatch-log %s - %s\n\nUsage:\n  %s\n\nFlags:\n", name, summary, usageLine)
		fs.PrintDefaults()
	}

	opts := &commands.FilterOptions{}
	fs.StringVar(&opts.SessionID, "session", "", "Filter by session ID")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (change, state, error)")
	fs.StringVar(&opts.Kind, "kind", "", "Filter by change kind (added, removed, unknown)")
	fs.StringVar(&opts.Name, "name", "", "Filter by service instance name")
	fs.StringVar(&opts.Domain, "domain", "", "Filter by service domain")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	return fs, opts
}

// parse parses args and returns the log path and filter, exiting on error.
func parse(fs *flag.FlagSet, opts *commands.FilterOptions, args []string) (string, log.Filter) {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	filter, err := commands.BuildFilter(*opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return fs.Arg(0), filter
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runView(args []string) {
	fs, opts := newFlagSet("view", "View log file in human-readable format", "svcwatch-log view [flags] <file.cbor>")
	path, filter := parse(fs, opts, args)

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs, opts := newFlagSet("export", "Export log file to JSON or CSV format", "svcwatch-log export [flags] <file.cbor>")
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")
	path, filter := parse(fs, opts, args)

	if err := commands.RunExport(path, *format, *output, filter); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs, opts := newFlagSet("filter", "Filter log file and write to new file", "svcwatch-log filter [flags] -o <out.cbor> <file.cbor>")
	output := fs.String("o", "", "Output file (required)")
	path, filter := parse(fs, opts, args)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunFilter(path, *output, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runStats(args []string) {
	fs, opts := newFlagSet("stats", "Show statistics about the log file", "svcwatch-log stats [flags] <file.cbor>")
	path, filter := parse(fs, opts, args)

	if err := commands.RunStats(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}
