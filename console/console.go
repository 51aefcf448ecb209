// Package console provides the interactive operator console for
// worldstreamd: a simple command source that reads lines from an io.Reader
// (os.Stdin by default) and executes a small set of operator commands
// against a stream.Manager: diagnostics, plus commands that save, run a
// tick, or stop the server. It mirrors the teacher's console
// package (prompt loop, history, tab completion) scoped down to the
// commands a world-streaming core actually exposes.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	prompt "github.com/c-bata/go-prompt"

	"github.com/ashgrove-voxel/worldcore/stream"
)

const (
	defaultPromptPrefix = "> "
	maxHistoryEntries   = 128
	saveCommandTimeout  = 30 * time.Second
)

// Console reads operator commands from an io.Reader and executes them
// against a stream.Manager.
type Console struct {
	mgr    *stream.Manager
	log    *slog.Logger
	reader io.Reader

	history  []string
	quit     func()
	commands map[string]command
}

type command struct {
	usage string
	run   func(c *Console, args []string) string
}

// New returns a Console bound to mgr. The console reads from os.Stdin and
// writes command output through log. quit is called when the operator
// types "quit"; it is typically a context.CancelFunc that stops the
// surrounding server loop.
func New(mgr *stream.Manager, log *slog.Logger, quit func()) *Console {
	if log == nil {
		log = slog.Default()
	}
	if quit == nil {
		quit = func() {}
	}
	c := &Console{
		mgr:    mgr,
		log:    log,
		reader: os.Stdin,
		quit:   quit,
	}
	c.commands = map[string]command{
		"chunks": {usage: "chunks — print the number of resident chunks", run: (*Console).cmdChunks},
		"queues": {usage: "queues — print the number of uploaded visible mesh handles", run: (*Console).cmdQueues},
		"focal":  {usage: "focal — print whether the focal chunk (0,0) is loaded", run: (*Console).cmdFocal},
		"save":   {usage: "save — force a shutdown-style save-and-flush pass", run: (*Console).cmdSave},
		"evict":  {usage: "evict — run one tick to drive eviction of out-of-range chunks", run: (*Console).cmdEvict},
		"quit":   {usage: "quit — stop the server", run: (*Console).cmdQuit},
	}
	return c
}

// WithReader sets a custom reader for console input, enabling tests to
// drive the console without os.Stdin.
func (c *Console) WithReader(r io.Reader) *Console {
	if r != nil {
		c.reader = r
	}
	return c
}

// Run starts consuming commands from the console. It blocks until ctx is
// cancelled or the underlying reader reaches EOF. Interactive terminals get
// the go-prompt line editor with tab completion; anything else (tests,
// piped input) is read line-by-line with bufio.Scanner.
func (c *Console) Run(ctx context.Context) {
	if c.reader != os.Stdin {
		c.runScanner(ctx)
		return
	}
	c.runInteractive(ctx)
}

func (c *Console) runScanner(ctx context.Context) {
	scanner := bufio.NewScanner(c.reader)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				c.log.Error("console input error", "error", err)
			}
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		c.execute(line)
	}
}

func (c *Console) runInteractive(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := prompt.Input(defaultPromptPrefix, c.complete,
			prompt.OptionTitle("worldstreamd console"),
			prompt.OptionHistory(c.history),
			prompt.OptionPrefix(defaultPromptPrefix),
			prompt.OptionCompletionOnDown(),
			prompt.OptionMaxSuggestion(8),
		)

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		c.execute(line)
	}
}

func (c *Console) execute(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	c.history = append(c.history, line)
	if len(c.history) > maxHistoryEntries {
		c.history = c.history[len(c.history)-maxHistoryEntries:]
	}

	name := strings.ToLower(fields[0])
	cmd, ok := c.commands[name]
	if !ok {
		c.log.Error("unknown console command", "command", name)
		return
	}
	if out := cmd.run(c, fields[1:]); out != "" {
		c.log.Info(out)
	}
}

func (c *Console) complete(doc prompt.Document) []prompt.Suggest {
	word := doc.GetWordBeforeCursor()
	names := make([]string, 0, len(c.commands))
	for name := range c.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	suggestions := make([]prompt.Suggest, 0, len(names))
	for _, name := range names {
		suggestions = append(suggestions, prompt.Suggest{Text: name, Description: c.commands[name].usage})
	}
	return prompt.FilterHasPrefix(suggestions, word, true)
}

func (c *Console) cmdChunks([]string) string {
	return fmt.Sprintf("resident chunks: %d", c.mgr.ResidentCount())
}

func (c *Console) cmdQueues([]string) string {
	return fmt.Sprintf("uploaded mesh handles currently visible: %d", len(c.mgr.VisibleMeshes()))
}

func (c *Console) cmdFocal([]string) string {
	return fmt.Sprintf("focal chunk (0,0) loaded: %t", c.mgr.IsLoaded(0, 0))
}

func (c *Console) cmdSave([]string) string {
	ctx, cancel := context.WithTimeout(context.Background(), saveCommandTimeout)
	defer cancel()
	if err := c.mgr.SaveAll(ctx); err != nil {
		return fmt.Sprintf("save failed: %v", err)
	}
	return "save complete; streaming continues"
}

func (c *Console) cmdEvict([]string) string {
	c.mgr.Tick()
	return fmt.Sprintf("ran one tick; resident chunks now: %d", c.mgr.ResidentCount())
}

func (c *Console) cmdQuit([]string) string {
	c.quit()
	return "shutting down"
}
