// internal/state/state.go
package state

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rdmerino/burrow/internal/executor"
)

const StatePath = "/etc/burrow/state.json"

type State struct {
	Prereqs PrereqState           `json:"prereqs"`
	Stacks  map[string]StackState `json:"stacks"`
	Bedrock *BedrockState         `json:"bedrock,omitempty"`
}

type PrereqState struct {
	Applied   bool            `json:"applied"`
	Steps     map[string]bool `json:"steps"`
	AppliedAt time.Time       `json:"applied_at"`
}

type StackState struct {
	Domain     string    `json:"domain"`
	Subdomains []string  `json:"subdomains"`
	Dir        string    `json:"dir"`
	TunnelName string    `json:"tunnel_name"`
	TunnelID   string    `json:"tunnel_id"`
	DeployedAt time.Time `json:"deployed_at"`
}

type BedrockState struct {
	Dir         string    `json:"dir"`
	Port        int       `json:"port"`
	ServerName  string    `json:"server_name"`
	Unit        string    `json:"unit"`
	TunnelName  string    `json:"tunnel_name,omitempty"`
	TunnelID    string    `json:"tunnel_id,omitempty"`
	Hostname    string    `json:"hostname,omitempty"`
	InstalledAt time.Time `json:"installed_at"`
}

func New() *State {
	return &State{
		Prereqs: PrereqState{
			Steps: make(map[string]bool),
		},
		Stacks: make(map[string]StackState),
	}
}

// Load reads state through the executor. A missing or unreadable file is a
// fresh state, not an error: first runs have nothing on disk yet.
func Load(ctx context.Context, exec executor.Executor) (*State, error) {
	data, err := exec.ReadFile(ctx, StatePath)
	if err != nil {
		return New(), nil
	}
	s := New()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}
	if s.Stacks == nil {
		s.Stacks = make(map[string]StackState)
	}
	if s.Prereqs.Steps == nil {
		s.Prereqs.Steps = make(map[string]bool)
	}
	return s, nil
}

func Save(ctx context.Context, exec executor.Executor, s *State) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if _, err := exec.Run(ctx, "mkdir -p /etc/burrow"); err != nil {
		return err
	}
	return exec.WriteFile(ctx, StatePath, data, 0644)
}
