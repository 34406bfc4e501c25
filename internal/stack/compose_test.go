// internal/stack/compose_test.go
package stack

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func testConfig() *Config {
	return &Config{
		Name:       "homelab",
		Domain:     "example.com",
		Dir:        "/opt/burrow/homelab",
		TunnelName: "homelab",
		Services:   DefaultServices([]string{"api", "ai", "app"}),
	}
}

func TestGenerateCompose(t *testing.T) {
	data, err := GenerateCompose(testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var cf struct {
		Services map[string]struct {
			Image     string   `yaml:"image"`
			Ports     []string `yaml:"ports"`
			Volumes   []string `yaml:"volumes"`
			DependsOn []string `yaml:"depends_on"`
			Restart   string   `yaml:"restart"`
		} `yaml:"services"`
	}
	if err := yaml.Unmarshal(data, &cf); err != nil {
		t.Fatalf("generated compose is not valid YAML: %v", err)
	}

	if len(cf.Services) != 4 {
		t.Fatalf("expected 4 services (nginx + 3), got %d", len(cf.Services))
	}

	nginx, ok := cf.Services["nginx"]
	if !ok {
		t.Fatal("expected nginx service")
	}
	if len(nginx.Ports) != 1 || nginx.Ports[0] != "127.0.0.1:8080:80" {
		t.Fatalf("expected nginx bound to loopback 8080, got %v", nginx.Ports)
	}
	if len(nginx.DependsOn) != 3 {
		t.Fatalf("expected nginx to depend on 3 services, got %v", nginx.DependsOn)
	}
	if nginx.Restart != "unless-stopped" {
		t.Fatalf("expected restart unless-stopped, got %s", nginx.Restart)
	}

	api, ok := cf.Services["api"]
	if !ok {
		t.Fatal("expected api service")
	}
	if len(api.Ports) != 0 {
		t.Fatalf("backing services must not publish host ports, got %v", api.Ports)
	}
}

func TestGenerateCompose_InvalidConfig(t *testing.T) {
	c := testConfig()
	c.Services = nil
	if _, err := GenerateCompose(c); err == nil {
		t.Fatal("expected error for empty service list")
	}
}

func TestValidate_DuplicateSubdomain(t *testing.T) {
	c := testConfig()
	c.Services = append(c.Services, Service{Name: "api2", Image: "x", Subdomain: "api", Port: 80})
	if err := c.Validate(); err == nil {
		t.Fatal("expected duplicate subdomain error")
	}
}

func TestHostnames(t *testing.T) {
	hosts := testConfig().Hostnames()
	want := []string{"api.example.com", "ai.example.com", "app.example.com"}
	if strings.Join(hosts, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, hosts)
	}
}
