// internal/systemd/systemd.go
package systemd

import (
	"context"
	"fmt"
	"strings"

	"github.com/rdmerino/burrow/internal/executor"
)

const unitDir = "/etc/systemd/system"

func UnitPath(name string) string {
	return fmt.Sprintf("%s/%s", unitDir, name)
}

// WriteUnit installs a unit file and reloads systemd so it is visible.
func WriteUnit(ctx context.Context, exec executor.Executor, name string, content []byte) error {
	if err := exec.WriteFile(ctx, UnitPath(name), content, 0644); err != nil {
		return fmt.Errorf("failed to write unit %s: %w", name, err)
	}
	return DaemonReload(ctx, exec)
}

func DaemonReload(ctx context.Context, exec executor.Executor) error {
	_, err := exec.Run(ctx, "systemctl daemon-reload")
	return err
}

func EnableNow(ctx context.Context, exec executor.Executor, name string) error {
	if _, err := exec.Run(ctx, fmt.Sprintf("systemctl enable --now %s", name)); err != nil {
		return fmt.Errorf("failed to enable %s: %w", name, err)
	}
	return nil
}

func Restart(ctx context.Context, exec executor.Executor, name string) error {
	if _, err := exec.Run(ctx, fmt.Sprintf("systemctl restart %s", name)); err != nil {
		return fmt.Errorf("failed to restart %s: %w", name, err)
	}
	return nil
}

func Stop(ctx context.Context, exec executor.Executor, name string) error {
	_, err := exec.Run(ctx, fmt.Sprintf("systemctl stop %s", name))
	return err
}

func Disable(ctx context.Context, exec executor.Executor, name string) error {
	_, err := exec.Run(ctx, fmt.Sprintf("systemctl disable %s", name))
	return err
}

// IsActive reports the unit's state; "unknown" when systemctl itself fails.
func IsActive(ctx context.Context, exec executor.Executor, name string) string {
	out, err := exec.Run(ctx, fmt.Sprintf("systemctl is-active %s", name))
	if err != nil {
		return "unknown"
	}
	state := strings.TrimSpace(out)
	if state == "" {
		return "unknown"
	}
	return state
}

/// RemoveUnit stops, disables, and deletes a unit. Best effort: callers use
// it during teardown where half-removed units should not abort the run.
func RemoveUnit(ctx context.Context, exec executor.Executor, name string) error {
	Stop(ctx, exec, name)
	Disable(ctx, exec, name)
	if _, err := exec.Run(ctx, fmt.Sprintf("rm -f %s", UnitPath(name))); err != nil {
		return err
	}
	return DaemonReload(ctx, exec)
}
