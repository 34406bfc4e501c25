// internal/systemd/systemd_test.go
package systemd

import (
	"context"
	"errors"
	"testing"

	"github.com/rdmerino/burrow/internal/executor"
)

func TestWriteUnit(t *testing.T) {
	mock := executor.NewMockExecutor()
	ctx := context.Background()

	err := WriteUnit(ctx, mock, "bedrock.service", []byte("[Unit]\nDescription=test\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := mock.Files["/etc/systemd/system/bedrock.service"]; !ok {
		t.Fatal("expected unit file to be written")
	}
	if !mock.Ran("systemctl daemon-reload") {
		t.Fatal("expected daemon-reload after writing unit")
	}
}

func TestIsActive(t *testing.T) {
	mock := executor.NewMockExecutor()
	mock.RunOutputs["systemctl is-active bedrock.service"] = "active\n"

	if got := IsActive(context.Background(), mock, "bedrock.service"); got != "active" {
		t.Fatalf("expected active, got %q", got)
	}

	mock.RunOutputs["systemctl is-active nginx.service"] = "inactive\n"
	if got := IsActive(context.Background(), mock, "nginx.service"); got != "inactive" {
		t.Fatalf("expected inactive, got %q", got)
	}

	mock.RunErrors["systemctl is-active cloudflared.service"] = errors.New("exit 3")
	if got := IsActive(context.Background(), mock, "cloudflared.service"); got != "unknown" {
		t.Fatalf("expected unknown when systemctl fails, got %q", got)
	}
}

func TestRemoveUnit(t *testing.T) {
	mock := executor.NewMockExecutor()
	mock.Files["/etc/systemd/system/bedrock.service"] = []byte("unit")

	if err := RemoveUnit(context.Background(), mock, "bedrock.service"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, cmd := range []string{
		"systemctl stop bedrock.service",
		"systemctl disable bedrock.service",
		"rm -f /etc/systemd/system/bedrock.service",
		"systemctl daemon-reload",
	} {
		if !mock.Ran(cmd) {
			t.Fatalf("expected command %q, got %v", cmd, mock.RunCommands())
		}
	}
}
