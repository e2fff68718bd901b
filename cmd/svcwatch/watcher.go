package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/svcwatch/svcwatch-go/pkg/browse"
	"github.com/svcwatch/svcwatch-go/pkg/dnssd"
	"github.com/svcwatch/svcwatch-go/pkg/log"
	"github.com/svcwatch/svcwatch-go/pkg/mdns"
)

// Watcher is a configured browse session with its sinks and event log.
type Watcher struct {
	Session *browse.Session
	Catalog *browse.Catalog
	Backend string

	fileLog *log.FileLogger
}

// newTransport creates the transport for the configured backend.
func newTransport(cfg Config, logger *slog.Logger) (browse.Transport, error) {
	switch strings.ToLower(cfg.Backend) {
	case BackendZeroconf:
		return mdns.New(mdns.Config{Interface: cfg.Interface, Logger: logger}), nil
	case BackendDNSSD:
		return dnssd.New(dnssd.Config{Interface: cfg.Interface, Logger: logger}), nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
	}
}

// newClassifier picks the classification strategy. A nil classifier lets
// the session choose.
func newClassifier(mode string, transport browse.Transport, logger *slog.Logger) (browse.Classifier, error) {
	switch strings.ToLower(mode) {
	case "", ClassifierAuto:
		return nil, nil
	case ClassifierPositional:
		return browse.PositionalClassifier{}, nil
	case ClassifierDiff:
		differ, ok := transport.(browse.Differ)
		if !ok {
			return nil, fmt.Errorf("backend does not compute change masks, use -classifier positional")
		}
		return browse.NewDiffClassifier(differ, logger), nil
	default:
		return nil, fmt.Errorf("unknown classifier: %s", mode)
	}
}

// NewWatcher builds and configures a session from cfg. Events are printed
// to out and recorded in the catalog.
func NewWatcher(cfg Config, transport browse.Transport, out io.Writer, logger *slog.Logger) (*Watcher, error) {
	sel, err := cfg.Selector()
	if err != nil {
		return nil, err
	}

	classifier, err := newClassifier(cfg.Classifier, transport, logger)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		Catalog: browse.NewCatalog(),
		Backend: strings.ToLower(cfg.Backend),
	}

	var loggers []log.Logger
	if cfg.EventLog != "" {
		w.fileLog, err = log.NewFileLogger(cfg.EventLog)
		if err != nil {
			return nil, fmt.Errorf("open event log: %w", err)
		}
		loggers = append(loggers, w.fileLog)
	}
	if logger != nil && logger.Enabled(context.Background(), slog.LevelDebug) {
		loggers = append(loggers, log.NewSlogAdapter(logger))
	}

	var eventLog log.Logger
	if len(loggers) > 0 {
		eventLog = log.NewMultiLogger(loggers...)
	}

	w.Session = browse.NewSession(transport, browse.SessionConfig{
		Classifier:  classifier,
		QueueDepth:  cfg.QueueDepth,
		Logger:      logger,
		EventLogger: eventLog,
	})

	sink := browse.MultiSink{NewPrinter(out), w.Catalog}
	if err := w.Session.Configure(sel, sink); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

// Close stops the session and closes the event log.
func (w *Watcher) Close() error {
	w.Session.Stop()
	if w.fileLog != nil {
		return w.fileLog.Close()
	}
	return nil
}
