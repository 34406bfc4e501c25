// internal/apt/apt_test.go
package apt

import (
	"context"
	"errors"
	"testing"

	"github.com/rdmerino/burrow/internal/executor"
)

func TestWaitForLock_NotHeld(t *testing.T) {
	mock := executor.NewMockExecutor()
	// fuser exits non-zero when nothing holds the lock
	mock.RunErrors["fuser /var/lib/dpkg/lock-frontend >/dev/null 2>&1"] = errors.New("exit 1")

	if err := WaitForLock(context.Background(), mock); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mock.Calls) != 1 {
		t.Fatalf("expected 1 call (lock probe only), got %d", len(mock.Calls))
	}
}

func TestWaitForLock_TimesOut(t *testing.T) {
	mock := executor.NewMockExecutor()
	mock.RunErrors["for i in $(seq 1 60); do fuser /var/lib/dpkg/lock-frontend >/dev/null 2>&1 || exit 0; sleep 2; done; exit 1"] = errors.New("exit 1")

	if err := WaitForLock(context.Background(), mock); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestInstall(t *testing.T) {
	mock := executor.NewMockExecutor()
	if err := Install(context.Background(), mock, "curl", "unzip"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mock.Ran("apt-get -o DPkg::Lock::Timeout=120 install -y curl unzip") {
		t.Fatalf("unexpected install command: %v", mock.RunCommands())
	}
	if !mock.Ran("DEBIAN_FRONTEND=noninteractive") {
		t.Fatal("expected noninteractive frontend")
	}
}
