// internal/apt/apt.go
package apt

import (
	"context"
	"fmt"
	"strings"

	"github.com/rdmerino/burrow/internal/executor"
	"github.com/rdmerino/burrow/internal/ui"
)

// WaitForLock waits for any running package manager to release the dpkg
// lock. Fresh hosts often have unattended-upgrades holding it on first boot.
func WaitForLock(ctx context.Context, exec executor.Executor) error {
	_, err := exec.Run(ctx, "fuser /var/lib/dpkg/lock-frontend >/dev/null 2>&1")
	if err != nil {
		// Lock is not held, no need to wait
		return nil
	}
	ui.Info("Waiting for package manager to finish...")
	_, err = exec.Run(ctx, "for i in $(seq 1 60); do fuser /var/lib/dpkg/lock-frontend >/dev/null 2>&1 || exit 0; sleep 2; done; exit 1")
	if err != nil {
		return fmt.Errorf("timed out waiting for apt lock (another package manager is running)")
	}
	return nil
}

func Update(ctx context.Context, exec executor.Executor) error {
	if _, err := exec.Run(ctx, "apt-get -o DPkg::Lock::Timeout=120 update"); err != nil {
		return fmt.Errorf("apt-get update failed: %w", err)
	}
	return nil
}

func Install(ctx context.Context, exec executor.Executor, pkgs ...string) error {
	cmd := fmt.Sprintf(
		"DEBIAN_FRONTEND=noninteractive apt-get -o DPkg::Lock::Timeout=120 install -y %s",
		strings.Join(pkgs, " "),
	)
	if _, err := exec.Run(ctx, cmd); err != nil {
		return fmt.Errorf("failed to install %s: %w", strings.Join(pkgs, " "), err)
	}
	return nil
}
