// internal/stack/compose.go
package stack

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type composeFile struct {
	Services map[string]composeService `yaml:"services"`
}

type composeService struct {
	Image     string   `yaml:"image"`
	Ports     []string `yaml:"ports,omitempty"`
	Volumes   []string `yaml:"volumes,omitempty"`
	DependsOn []string `yaml:"depends_on,omitempty"`
	Restart   string   `yaml:"restart"`
}

// GenerateCompose renders the stack's docker-compose.yml. NGINX is the only
// service with a host port, bound to loopback: the tunnel is the sole public
// entry point.
func GenerateCompose(c *Config) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cf := composeFile{Services: make(map[string]composeService)}

	var dependsOn []string
	for _, svc := range c.Services {
		cf.Services[svc.Name] = composeService{
			Image:   svc.Image,
			Restart: "unless-stopped",
		}
		dependsOn = append(dependsOn, svc.Name)
	}

	cf.Services["nginx"] = composeService{
		Image:     "nginx:1.27-alpine",
		Ports:     []string{fmt.Sprintf("127.0.0.1:%d:80", ProxyPort)},
		Volumes:   []string{"./nginx.conf:/etc/nginx/conf.d/default.conf:ro"},
		DependsOn: dependsOn,
		Restart:   "unless-stopped",
	}

	data, err := yaml.Marshal(cf)
	if err != nil {
		return nil, fmt.Errorf("failed to generate compose file: %w", err)
	}
	return data, nil
}
