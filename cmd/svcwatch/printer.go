package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/svcwatch/svcwatch-go/pkg/browse"
)

// batchSeparator is written after the last event of a batch.
const batchSeparator = "--"

// Printer is a browse.Sink that writes one line per event.
type Printer struct {
	mu  sync.Mutex
	out io.Writer
	now func() time.Time
}

// NewPrinter creates a printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, now: time.Now}
}

// Deliver implements browse.Sink.
func (p *Printer) Deliver(event browse.ChangeEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, "%s %-7s %s\n", p.now().Format("15:04:05.000"), event.Kind, describeEvent(event))
	if !event.MorePending() {
		fmt.Fprintln(p.out, batchSeparator)
	}
}

func describeEvent(event browse.ChangeEvent) string {
	switch {
	case event.Previous != nil && event.Current != nil:
		if event.Previous.Key() == event.Current.Key() {
			return fmt.Sprintf("%s in %s (updated)", event.Current.Name, event.Current.Domain)
		}
		return fmt.Sprintf("%s in %s -> %s in %s",
			event.Previous.Name, event.Previous.Domain, event.Current.Name, event.Current.Domain)
	case event.Current != nil:
		return fmt.Sprintf("%s in %s", event.Current.Name, event.Current.Domain)
	case event.Previous != nil:
		return fmt.Sprintf("%s in %s", event.Previous.Name, event.Previous.Domain)
	default:
		return event.String()
	}
}

var _ browse.Sink = (*Printer)(nil)
