// internal/stack/stack.go
package stack

import "fmt"

// Config describes one deployed stack: an NGINX front container plus one
// placeholder service per subdomain, published through a Cloudflare Tunnel.
type Config struct {
	Name       string
	Domain     string
	Dir        string
	TunnelName string
	Services   []Service
}

// Service is one container behind the proxy, reachable at
// <Subdomain>.<Domain>.
type Service struct {
	Name      string
	Image     string
	Subdomain string
	Port      int
}

// ProxyPort is where NGINX listens on the host loopback; cloudflared's
// ingress points here.
const ProxyPort = 8080

// placeholderImages maps the well-known subdomains to their placeholder
// containers. Anything else gets the generic echo image until a real
// service replaces it.
var placeholderImages = map[string]string{
	"api": "traefik/whoami:v1.10",
	"ai":  "traefik/whoami:v1.10",
	"app": "nginxdemos/hello:plain-text",
}

func DefaultServices(subdomains []string) []Service {
	var services []Service
	for _, sub := range subdomains {
		image, ok := placeholderImages[sub]
		if !ok {
			image = "traefik/whoami:v1.10"
		}
		services = append(services, Service{
			Name:      sub,
			Image:     image,
			Subdomain: sub,
			Port:      80,
		})
	}
	return services
}

func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("stack name is required")
	}
	if c.Domain == "" {
		return fmt.Errorf("domain is required")
	}
	if len(c.Services) == 0 {
		return fmt.Errorf("stack needs at least one service")
	}
	seen := make(map[string]bool)
	for _, svc := range c.Services {
		if svc.Subdomain == "" {
			return fmt.Errorf("service %s has no subdomain", svc.Name)
		}
		if seen[svc.Subdomain] {
			return fmt.Errorf("duplicate subdomain %s", svc.Subdomain)
		}
		seen[svc.Subdomain] = true
	}
	return nil
}

// Hostnames returns the public hostname of every service, in service order.
func (c *Config) Hostnames() []string {
	var hosts []string
	for _, svc := range c.Services {
		hosts = append(hosts, fmt.Sprintf("%s.%s", svc.Subdomain, c.Domain))
	}
	return hosts
}
