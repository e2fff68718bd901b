// Package interactive provides the interactive command-line interface
// for svcwatch.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"

	"github.com/svcwatch/svcwatch-go/pkg/browse"
)

// SessionInfo is the part of a browse session the console reports on.
type SessionInfo interface {
	ID() string
	State() browse.State
	Selector() browse.Selector
}

// Console handles interactive mode for svcwatch.
type Console struct {
	session SessionInfo
	catalog *browse.Catalog
	backend string
	started time.Time
	rl      *readline.Instance
}

// New creates a console with a readline prompt on the terminal. Call
// Attach before Run.
func New() (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "svcwatch> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Console{rl: rl, started: time.Now()}, nil
}

// Attach sets the session and catalog the console reports on.
func (c *Console) Attach(session SessionInfo, catalog *browse.Catalog, backend string) {
	c.session = session
	c.catalog = catalog
	c.backend = backend
}

func newConsole(session SessionInfo, catalog *browse.Catalog, backend string) *Console {
	return &Console{
		session: session,
		catalog: catalog,
		backend: backend,
		started: time.Now(),
	}
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for event and log output to avoid interfering with the prompt.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Run reads commands until quit, EOF, Ctrl-C or ctx ends. stop is called
// when the user asks to exit.
func (c *Console) Run(ctx context.Context, stop func()) {
	var closeOnce sync.Once
	closeRL := func() { closeOnce.Do(func() { _ = c.rl.Close() }) }
	defer closeRL()

	// Unblock Readline when the watch ends for another reason.
	go func() {
		<-ctx.Done()
		closeRL()
	}()

	c.printHelp(c.rl.Stdout())

	for {
		line, err := c.rl.Readline()
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			// Ctrl-C and EOF both end the watch.
			if !errors.Is(err, readline.ErrInterrupt) && !errors.Is(err, io.EOF) {
				fmt.Fprintf(c.rl.Stderr(), "readline: %v\n", err)
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			stop()
			return
		}

		if c.Execute(line, c.rl.Stdout()) {
			stop()
			return
		}
	}
}

// Execute runs one command line and reports whether the user asked to quit.
func (c *Console) Execute(line string, out io.Writer) (quit bool) {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		c.printHelp(out)

	case "list", "ls":
		c.cmdList(out, args)

	case "status":
		c.cmdStatus(out)

	case "quit", "exit", "q":
		fmt.Fprintln(out, "Exiting...")
		return true

	default:
		fmt.Fprintf(out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (c *Console) printHelp(out io.Writer) {
	fmt.Fprintln(out, `
svcwatch Commands:
    list [filter]   - List services currently advertised
    status          - Show session status and event counts
    help            - Show this help
    quit            - Stop watching and exit`)
}

// cmdList handles the list command. An optional argument filters by a
// case-insensitive substring of the service name.
func (c *Console) cmdList(out io.Writer, args []string) {
	var filter string
	if len(args) > 0 {
		filter = strings.ToLower(args[0])
	}

	var shown int
	for _, e := range c.catalog.Entries() {
		if filter != "" && !strings.Contains(strings.ToLower(e.Name), filter) {
			continue
		}
		if shown == 0 {
			fmt.Fprintf(out, "%-32s %-16s %s\n", "NAME", "DOMAIN", "LAST SEEN")
		}
		fmt.Fprintf(out, "%-32s %-16s %s\n", e.Name, e.Domain, e.LastSeen.Format("15:04:05"))
		shown++
	}

	if shown == 0 {
		fmt.Fprintln(out, "No services found")
		return
	}
	fmt.Fprintf(out, "%d service(s)\n", shown)
}

// cmdStatus handles the status command.
func (c *Console) cmdStatus(out io.Writer) {
	fmt.Fprintf(out, "Session:   %s\n", c.session.ID())
	fmt.Fprintf(out, "State:     %s\n", c.session.State())
	fmt.Fprintf(out, "Selector:  %s\n", c.session.Selector())
	fmt.Fprintf(out, "Backend:   %s\n", c.backend)
	fmt.Fprintf(out, "Uptime:    %s\n", time.Since(c.started).Round(time.Second))
	fmt.Fprintf(out, "Services:  %d\n", c.catalog.Len())
	fmt.Fprintf(out, "Events:    %d added, %d removed, %d unknown\n",
		c.catalog.Count(browse.ChangeAdded),
		c.catalog.Count(browse.ChangeRemoved),
		c.catalog.Count(browse.ChangeUnknown))
}
