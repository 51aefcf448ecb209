package console

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ashgrove-voxel/worldcore/stream"
)

func newTestManager(t *testing.T) *stream.Manager {
	t.Helper()
	cfg := stream.Config{Seed: 1, SaveDir: filepath.Join(t.TempDir(), "save")}
	m, err := stream.NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.Shutdown(ctx)
	})
	return m
}

func runLines(t *testing.T, c *Console, lines string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.WithReader(strings.NewReader(lines)).Run(ctx)
}

func TestConsoleChunksCommand(t *testing.T) {
	m := newTestManager(t)
	c := New(m, slog.Default(), func() {})
	runLines(t, c, "chunks\n")
}

func TestConsoleUnknownCommandDoesNotPanic(t *testing.T) {
	m := newTestManager(t)
	c := New(m, slog.Default(), func() {})
	runLines(t, c, "not-a-real-command\n")
}

func TestConsoleQuitInvokesCallback(t *testing.T) {
	m := newTestManager(t)
	called := false
	c := New(m, slog.Default(), func() { called = true })
	runLines(t, c, "quit\n")
	if !called {
		t.Fatal("quit command should invoke the quit callback")
	}
}

func TestConsoleEvictRunsATick(t *testing.T) {
	m := newTestManager(t)
	c := New(m, slog.Default(), func() {})
	runLines(t, c, "evict\n")
}

func TestConsoleHistoryCapsAtMaxEntries(t *testing.T) {
	m := newTestManager(t)
	c := New(m, slog.Default(), func() {})
	var lines strings.Builder
	for i := 0; i < maxHistoryEntries+10; i++ {
		lines.WriteString("chunks\n")
	}
	runLines(t, c, lines.String())
	if len(c.history) != maxHistoryEntries {
		t.Fatalf("history length = %d, want %d", len(c.history), maxHistoryEntries)
	}
}
