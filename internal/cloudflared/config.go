// internal/cloudflared/config.go
package cloudflared

import (
	"context"
	"fmt"

	"github.com/rdmerino/burrow/internal/executor"
	"gopkg.in/yaml.v3"
)

const ConfigPath = "/etc/cloudflared/config.yml"

type IngressRule struct {
	Hostname string `yaml:"hostname,omitempty"`
	Service  string `yaml:"service"`
}

type Config struct {
	Tunnel          string        `yaml:"tunnel"`
	CredentialsFile string        `yaml:"credentials-file"`
	Ingress         []IngressRule `yaml:"ingress"`
}

// NewConfig builds a tunnel config sending every hostname to the same local
// service. cloudflared requires a catch-all rule; it is always appended
// last, after every hostname rule.
func NewConfig(tunnelID, credentialsFile string, hostnames []string, service string) *Config {
	c := &Config{
		Tunnel:          tunnelID,
		CredentialsFile: credentialsFile,
	}
	for _, h := range hostnames {
		c.Ingress = append(c.Ingress, IngressRule{Hostname: h, Service: service})
	}
	c.Ingress = append(c.Ingress, IngressRule{Service: "http_status:404"})
	return c
}

// AddHostname inserts a hostname rule ahead of the terminal catch-all. An
// existing rule for the same hostname is updated in place, so re-runs do
// not accumulate duplicates.
func (c *Config) AddHostname(hostname, service string) {
	for i, r := range c.Ingress {
		if r.Hostname == hostname {
			c.Ingress[i].Service = service
			return
		}
	}
	rule := IngressRule{Hostname: hostname, Service: service}
	if n := len(c.Ingress); n > 0 && c.Ingress[n-1].Hostname == "" {
		c.Ingress = append(c.Ingress[:n-1], rule, c.Ingress[n-1])
		return
	}
	c.Ingress = append(c.Ingress, rule)
}

// RemoveHostname drops the rule for hostname. The catch-all never matches
// (its hostname is empty) and always survives.
func (c *Config) RemoveHostname(hostname string) {
	var rules []IngressRule
	for _, r := range c.Ingress {
		if r.Hostname == hostname && r.Hostname != "" {
			continue
		}
		rules = append(rules, r)
	}
	c.Ingress = rules
}

// HostnameCount reports how many hostname rules remain, catch-all excluded.
// Zero means nothing uses the tunnel anymore.
func (c *Config) HostnameCount() int {
	n := 0
	for _, r := range c.Ingress {
		if r.Hostname != "" {
			n++
		}
	}
	return n
}

func WriteConfig(ctx context.Context, exec executor.Executor, c *Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal cloudflared config: %w", err)
	}
	if _, err := exec.Run(ctx, "mkdir -p /etc/cloudflared"); err != nil {
		return err
	}
	return exec.WriteFile(ctx, ConfigPath, data, 0644)
}

// RemoveHostnames drops the given hostname rules and rewrites the config.
// Callers check HostnameCount on the result to decide whether the tunnel
// itself should come down.
func RemoveHostnames(ctx context.Context, exec executor.Executor, hostnames []string) (*Config, error) {
	c, err := ReadConfig(ctx, exec)
	if err != nil {
		return nil, err
	}
	for _, h := range hostnames {
		c.RemoveHostname(h)
	}
	if err := WriteConfig(ctx, exec, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ReadConfig loads the existing tunnel config, if any.
func ReadConfig(ctx context.Context, exec executor.Executor) (*Config, error) {
	data, err := exec.ReadFile(ctx, ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("no cloudflared config: %w", ErrNotFound)
	}
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("invalid cloudflared config: %w", err)
	}
	return c, nil
}
