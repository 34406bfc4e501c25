// internal/bedrock/render.go
package bedrock

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
)

//go:embed templates/server.properties.tmpl
var propertiesTemplate string

//go:embed templates/bedrock.service.tmpl
var unitTemplate string

func RenderProperties(opts *Options) ([]byte, error) {
	tmpl, err := template.New("server.properties").Parse(propertiesTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse properties template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, opts); err != nil {
		return nil, fmt.Errorf("failed to render server.properties: %w", err)
	}
	return buf.Bytes(), nil
}

func RenderUnit(dir string) ([]byte, error) {
	tmpl, err := template.New("bedrock.service").Parse(unitTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse unit template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Dir string }{Dir: dir}); err != nil {
		return nil, fmt.Errorf("failed to render unit: %w", err)
	}
	return buf.Bytes(), nil
}
