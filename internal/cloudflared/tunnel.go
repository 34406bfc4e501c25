// internal/cloudflared/tunnel.go
package cloudflared

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rdmerino/burrow/internal/executor"
	"github.com/rdmerino/burrow/internal/ui"
)

const loginLog = "/tmp/burrow-cf-login.log"

var uuidRe = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// Login runs `cloudflared tunnel login` in the background, surfaces the
// browser URL it prints, and polls until the certificate lands on disk.
// Returns the cert path.
func Login(ctx context.Context, exec executor.Executor) (string, error) {
	exec.Run(ctx, fmt.Sprintf("cloudflared tunnel login > %s 2>&1 &", loginLog))

	ui.Info("Waiting for Cloudflare login URL...")
	var authURL string
	for i := 0; i < 30; i++ {
		time.Sleep(1 * time.Second)
		out, err := exec.Run(ctx, "cat "+loginLog)
		if err != nil {
			continue
		}
		if authURL = extractLoginURL(out); authURL != "" {
			break
		}
	}
	if authURL == "" {
		return "", fmt.Errorf("timed out waiting for Cloudflare login URL")
	}

	ui.Info("Open this URL and pick the zone to authorize:")
	ui.URL(authURL)
	ui.Info("Waiting for authorization...")

	// The cert appears once the user picks a zone in the browser
	for i := 0; i < 180; i++ {
		time.Sleep(1 * time.Second)
		if path, err := FindCert(ctx, exec); err == nil {
			exec.Run(ctx, "rm -f "+loginLog)
			return path, nil
		}
	}

	exec.Run(ctx, "rm -f "+loginLog)
	return "", fmt.Errorf("timed out waiting for Cloudflare authorization")
}

// extractLoginURL pulls the dash.cloudflare.com auth link out of the login
// command's output.
func extractLoginURL(out string) string {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "https://dash.cloudflare.com") {
			return line
		}
	}
	return ""
}

// CreateTunnel creates a named tunnel and returns its UUID. A tunnel that
// already exists is reused: re-runs must not mint duplicates.
func CreateTunnel(ctx context.Context, exec executor.Executor, name string) (string, error) {
	out, err := exec.Run(ctx, fmt.Sprintf("cloudflared tunnel create %s", name))
	if err == nil {
		if id := uuidRe.FindString(out); id != "" {
			return id, nil
		}
	}

	// Create failed or printed nothing parseable; look the name up instead.
	id, lookupErr := lookupTunnel(ctx, exec, name)
	if lookupErr != nil {
		if err != nil {
			return "", fmt.Errorf("failed to create tunnel %s: %w", name, err)
		}
		return "", lookupErr
	}
	return id, nil
}

func lookupTunnel(ctx context.Context, exec executor.Executor, name string) (string, error) {
	out, err := exec.Run(ctx, "cloudflared tunnel list --output json")
	if err != nil {
		return "", fmt.Errorf("failed to list tunnels: %w", err)
	}

	var tunnels []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(out), &tunnels); err != nil {
		return "", fmt.Errorf("failed to parse tunnel list: %w", err)
	}

	for _, t := range tunnels {
		if t.Name == name {
			return t.ID, nil
		}
	}
	return "", fmt.Errorf("tunnel %s: %w", name, ErrNotFound)
}

// Provision merges hostnames into the host's tunnel config. One cloudflared
// service serves a single config, so the first caller creates the named
// tunnel and later callers join it; existing hostname rules survive.
func Provision(ctx context.Context, exec executor.Executor, tunnelName string, hostnames []string, service string) (*Config, error) {
	cfg, err := ReadConfig(ctx, exec)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		tunnelID, err := CreateTunnel(ctx, exec, tunnelName)
		if err != nil {
			return nil, err
		}
		credsPath, err := FindCredentials(ctx, exec, tunnelID)
		if err != nil {
			return nil, fmt.Errorf("tunnel %s created but credentials file is missing: %w", tunnelID, err)
		}
		cfg = NewConfig(tunnelID, credsPath, nil, "")
	}
	for _, h := range hostnames {
		cfg.AddHostname(h, service)
	}
	if err := WriteConfig(ctx, exec, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RouteDNS points hostname at the tunnel. An existing record counts as
// success so re-runs stay idempotent.
func RouteDNS(ctx context.Context, exec executor.Executor, tunnel, hostname string) error {
	_, err := exec.Run(ctx, fmt.Sprintf("cloudflared tunnel route dns %s %s", tunnel, hostname))
	if err != nil {
		if strings.Contains(err.Error(), "already exists") || strings.Contains(err.Error(), "already configured") {
			return nil
		}
		return fmt.Errorf("failed to route %s: %w", hostname, err)
	}
	return nil
}

// DeleteTunnel tears a tunnel down, dropping stale connections first.
func DeleteTunnel(ctx context.Context, exec executor.Executor, name string) error {
	exec.Run(ctx, fmt.Sprintf("cloudflared tunnel cleanup %s", name))
	if _, err := exec.Run(ctx, fmt.Sprintf("cloudflared tunnel delete %s", name)); err != nil {
		return fmt.Errorf("failed to delete tunnel %s: %w", name, err)
	}
	return nil
}
