// internal/cloudflared/cloudflared.go
package cloudflared

import (
	"context"
	"fmt"
	"strings"

	"github.com/rdmerino/burrow/internal/apt"
	"github.com/rdmerino/burrow/internal/executor"
	"github.com/rdmerino/burrow/internal/systemd"
)

const ServiceName = "cloudflared.service"

// EnsureInstalled installs cloudflared from the vendor .deb when the binary
// is missing. The package is not in the distro repos.
func EnsureInstalled(ctx context.Context, exec executor.Executor) error {
	_, err := exec.Run(ctx, "cloudflared --version")
	if err == nil {
		return nil
	}

	if err := apt.WaitForLock(ctx, exec); err != nil {
		return err
	}

	arch, err := exec.Run(ctx, "dpkg --print-architecture")
	if err != nil {
		return fmt.Errorf("failed to detect architecture: %w", err)
	}
	arch = strings.TrimSpace(arch)

	cmds := []string{
		fmt.Sprintf("curl -fsSL -o /tmp/cloudflared.deb https://github.com/cloudflare/cloudflared/releases/latest/download/cloudflared-linux-%s.deb", arch),
		"dpkg -i /tmp/cloudflared.deb",
		"rm -f /tmp/cloudflared.deb",
	}
	for _, cmd := range cmds {
		if _, err := exec.Run(ctx, cmd); err != nil {
			return fmt.Errorf("failed to install cloudflared: %w", err)
		}
	}
	return nil
}

// InstallService registers cloudflared as a systemd service reading
// /etc/cloudflared/config.yml. When the unit already exists (a previous
// deploy) the config may have changed, so it restarts instead.
func InstallService(ctx context.Context, exec executor.Executor) error {
	_, err := exec.Run(ctx, "test -f /etc/systemd/system/cloudflared.service")
	if err == nil {
		return systemd.Restart(ctx, exec, ServiceName)
	}

	if _, err := exec.Run(ctx, fmt.Sprintf("cloudflared --config %s service install", ConfigPath)); err != nil {
		return fmt.Errorf("failed to install cloudflared service: %w", err)
	}
	return systemd.EnableNow(ctx, exec, ServiceName)
}
