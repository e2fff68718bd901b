// Command svcwatch watches a DNS-SD service type and prints every change
// to the set of advertised services.
//
// Usage:
//
//	svcwatch [flags]
//
// Flags:
//
//	-config string       Configuration file path (YAML)
//	-service string      Service type or dnssd:// URI (default "_http._tcp")
//	-domain string       Browse domain (default: all / local)
//	-backend string      Discovery backend: zeroconf, dnssd (default "zeroconf")
//	-interface string    Restrict browsing to one network interface
//	-classifier string   Change classification: auto, diff, positional (default "auto")
//	-queue-depth int     Delivery queue buffer size
//	-event-log string    Record changes to a CBOR event log file
//	-log-level string    Log level: debug, info, warn, error (default "info")
//	-interactive         Enable interactive command mode
//	-version             Print version and exit
//
// Examples:
//
//	# Watch web servers on the local link
//	svcwatch -service _http._tcp
//
//	# Watch printers using a DNS-SD URI and record an event log
//	svcwatch -service dnssd://local/_ipp._tcp -event-log printers.cbor
//
//	# Use the brutella/dnssd backend on one interface
//	svcwatch -backend dnssd -interface en0 -classifier positional
//
// Interactive Commands:
//
//	list [filter] - List services currently advertised
//	status        - Show session status
//	quit          - Exit
//
// svcwatch exits 0 on SIGINT or SIGTERM after draining pending events.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/svcwatch/svcwatch-go/cmd/svcwatch/interactive"
	"github.com/svcwatch/svcwatch-go/pkg/browse"
	"github.com/svcwatch/svcwatch-go/pkg/shutdown"
	"github.com/svcwatch/svcwatch-go/pkg/version"
)

var (
	flags       = DefaultConfig()
	showVersion bool
)

func init() {
	flag.StringVar(&flags.ConfigFile, "config", "", "Configuration file path (YAML)")
	flag.StringVar(&flags.Service, "service", flags.Service, "Service type or dnssd:// URI")
	flag.StringVar(&flags.Domain, "domain", "", "Browse domain (empty: default domain)")
	flag.StringVar(&flags.Backend, "backend", flags.Backend, "Discovery backend: zeroconf, dnssd")
	flag.StringVar(&flags.Interface, "interface", "", "Restrict browsing to one network interface")
	flag.StringVar(&flags.Classifier, "classifier", flags.Classifier, "Change classification: auto, diff, positional")
	flag.IntVar(&flags.QueueDepth, "queue-depth", 0, "Delivery queue buffer size")
	flag.StringVar(&flags.EventLog, "event-log", "", "Record changes to a CBOR event log file")
	flag.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	flag.BoolVar(&flags.Interactive, "interactive", false, "Enable interactive command mode")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Println(version.String())
		return
	}

	cfg, err := resolveConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "svcwatch: %v\n", err)
		os.Exit(2)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "svcwatch: %v\n", err)
		os.Exit(1)
	}
}

// resolveConfig merges the config file, if any, with explicitly set flags.
func resolveConfig() (Config, error) {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg := flags
	if flags.ConfigFile != "" {
		loaded, err := LoadConfig(flags.ConfigFile, DefaultConfig())
		if err != nil {
			return cfg, err
		}
		loaded.Override(flags, set)
		cfg = loaded
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func run(cfg Config) error {
	stop := shutdown.FromOS()
	defer stop.Release()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out io.Writer = os.Stdout
	var console *interactive.Console
	logOut := io.Writer(os.Stderr)
	if cfg.Interactive {
		var err error
		console, err = interactive.New()
		if err != nil {
			return err
		}
		// Events and logs go through readline to keep the prompt intact.
		out = console.Stdout()
		logOut = out
	}
	logger := newLogger(cfg.LogLevel, logOut)

	transport, err := newTransport(cfg, logger)
	if err != nil {
		return err
	}

	w, err := NewWatcher(cfg, transport, out, logger)
	if err != nil {
		return err
	}
	defer w.Close()

	sel := w.Session.Selector()
	logger.Info("watching", "selector", sel.String(), "backend", w.Backend, "session", w.Session.ID())

	if err := w.Session.Start(); err != nil {
		return err
	}

	if console != nil {
		console.Attach(w.Session, w.Catalog, w.Backend)
		go console.Run(ctx, func() { stop.Trigger(shutdown.Interrupt) })
	}

	reason := stop.Wait()
	logger.Info("shutting down", "reason", reason)
	cancel()

	w.Session.StopWithReason(reason.String())
	logger.Info("stopped", "services", w.Catalog.Len(),
		"added", w.Catalog.Count(browse.ChangeAdded),
		"removed", w.Catalog.Count(browse.ChangeRemoved),
		"unknown", w.Catalog.Count(browse.ChangeUnknown))
	return nil
}
