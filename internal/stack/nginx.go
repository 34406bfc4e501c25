// internal/stack/nginx.go
package stack

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
)

//go:embed templates/nginx.conf.tmpl
var nginxTemplate string

// GenerateNginx renders the reverse-proxy config NGINX mounts from the
// stack directory: one server block per subdomain, plus a catch-all 404.
func GenerateNginx(c *Config) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	tmpl, err := template.New("nginx.conf").Parse(nginxTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse nginx template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, c); err != nil {
		return nil, fmt.Errorf("failed to render nginx config: %w", err)
	}
	return buf.Bytes(), nil
}
