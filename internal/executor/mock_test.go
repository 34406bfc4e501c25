// internal/executor/mock_test.go
package executor

import (
	"context"
	"errors"
	"testing"
)

func TestMockRun_RecordsCalls(t *testing.T) {
	m := NewMockExecutor()
	ctx := context.Background()

	m.RunOutputs["docker --version"] = "Docker version 27.0.1"
	out, err := m.Run(ctx, "docker --version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Docker version 27.0.1" {
		t.Fatalf("unexpected output: %q", out)
	}

	m.RunErrors["which cloudflared"] = errors.New("exit 1")
	if _, err := m.Run(ctx, "which cloudflared"); err == nil {
		t.Fatal("expected canned error")
	}

	cmds := m.RunCommands()
	if len(cmds) != 2 {
		t.Fatalf("expected 2 recorded commands, got %d", len(cmds))
	}
	if !m.Ran("docker --version") {
		t.Fatal("expected Ran to match recorded command")
	}
	if m.Ran("apt-get") {
		t.Fatal("Ran matched a command that never happened")
	}
}

func TestMockFiles(t *testing.T) {
	m := NewMockExecutor()
	ctx := context.Background()

	if err := m.WriteFile(ctx, "/etc/test", []byte("data"), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := m.ReadFile(ctx, "/etc/test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "data" {
		t.Fatalf("expected data, got %q", data)
	}

	if _, err := m.ReadFile(ctx, "/missing"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
