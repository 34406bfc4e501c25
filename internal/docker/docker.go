// internal/docker/docker.go
package docker

import (
	"context"
	"fmt"
	"strings"

	"github.com/rdmerino/burrow/internal/apt"
	"github.com/rdmerino/burrow/internal/executor"
)

func composePath(dir string) string {
	return fmt.Sprintf("%s/docker-compose.yml", dir)
}

// EnsureInstalled installs Docker Engine + the compose plugin via the vendor
// convenience script when the binary is missing.
func EnsureInstalled(ctx context.Context, exec executor.Executor) error {
	_, err := exec.Run(ctx, "docker --version")
	if err == nil {
		return nil
	}
	// The install script uses apt internally
	if err := apt.WaitForLock(ctx, exec); err != nil {
		return err
	}
	if _, err := exec.Run(ctx, "curl -fsSL https://get.docker.com | sh"); err != nil {
		return fmt.Errorf("failed to install Docker: %w", err)
	}
	if _, err := exec.Run(ctx, "systemctl enable --now docker"); err != nil {
		return fmt.Errorf("failed to start Docker: %w", err)
	}
	return nil
}

func ComposeUp(ctx context.Context, exec executor.Executor, dir string) error {
	if _, err := exec.Run(ctx, fmt.Sprintf("docker compose -f %s pull 2>&1", composePath(dir))); err != nil {
		return fmt.Errorf("failed to pull images: %w", err)
	}
	_, err := exec.Run(ctx, fmt.Sprintf("docker compose -f %s up -d", composePath(dir)))
	return err
}

func ComposeDown(ctx context.Context, exec executor.Executor, dir string, purge bool) error {
	cmd := fmt.Sprintf("docker compose -f %s down", composePath(dir))
	if purge {
		cmd += " -v"
	}
	_, err := exec.Run(ctx, cmd)
	return err
}

type ServiceStatus struct {
	Name   string
	Status string // "running" or "exited"
}

func ComposeStatus(ctx context.Context, exec executor.Executor, dir string) ([]ServiceStatus, error) {
	cmd := fmt.Sprintf("docker compose -f %s ps --format '{{.Name}} {{.State}}'", composePath(dir))
	out, err := exec.Run(ctx, cmd)
	if err != nil {
		return nil, err
	}

	var statuses []ServiceStatus
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		parts := strings.Fields(line)
		if len(parts) >= 2 {
			statuses = append(statuses, ServiceStatus{Name: parts[0], Status: parts[1]})
		}
	}
	return statuses, nil
}

// HealthCheck polls a URL with curl until it answers or the timeout passes.
func HealthCheck(ctx context.Context, exec executor.Executor, url string, timeout, interval int) error {
	cmd := fmt.Sprintf(
		"for i in $(seq 1 %d); do curl -sf %s > /dev/null 2>&1 && exit 0; sleep %d; done; exit 1",
		timeout/interval, url, interval,
	)
	_, err := exec.Run(ctx, cmd)
	if err != nil {
		return fmt.Errorf("health check failed after %ds: %w", timeout, err)
	}
	return nil
}
