// internal/prereq/firewall.go
package prereq

import (
	"context"
	"fmt"

	"github.com/rdmerino/burrow/internal/apt"
	"github.com/rdmerino/burrow/internal/executor"
)

// FirewallStep enables UFW with SSH and web ports open. The tunnel itself
// needs no inbound port; 80/443 stay open for hosts that also serve
// directly.
func FirewallStep() Step {
	return Step{
		Name:  "firewall",
		Label: "Firewall configured",
		Check: func(ctx context.Context, exec executor.Executor) (bool, error) {
			_, err := exec.Run(ctx, "ufw status | grep -q 'Status: active'")
			return err == nil, err
		},
		Apply: func(ctx context.Context, exec executor.Executor) error {
			if err := apt.Install(ctx, exec, "ufw"); err != nil {
				return err
			}
			cmds := []string{
				"ufw default deny incoming",
				"ufw default allow outgoing",
				"ufw allow 22/tcp",
				"ufw allow 80/tcp",
				"ufw allow 443/tcp",
				"ufw --force enable",
			}
			for _, cmd := range cmds {
				if _, err := exec.Run(ctx, cmd); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// AllowPort opens an extra port after the firewall step has run.
func AllowPort(ctx context.Context, exec executor.Executor, port int, proto string) error {
	if _, err := exec.Run(ctx, fmt.Sprintf("ufw allow %d/%s", port, proto)); err != nil {
		return fmt.Errorf("failed to open %d/%s: %w", port, proto, err)
	}
	return nil
}
