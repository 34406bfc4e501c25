// cmd/burrow/status.go
package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rdmerino/burrow/internal/cloudflared"
	"github.com/rdmerino/burrow/internal/docker"
	"github.com/rdmerino/burrow/internal/state"
	"github.com/rdmerino/burrow/internal/systemd"
	"github.com/rdmerino/burrow/internal/ui"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show status of deployed stacks and services",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		exec, err := newExecutor()
		if err != nil {
			return err
		}

		s, err := state.Load(ctx, exec)
		if err != nil {
			return err
		}

		if len(s.Stacks) == 0 && s.Bedrock == nil {
			ui.Info("Nothing deployed")
			return nil
		}

		if len(s.Stacks) > 0 {
			ui.Header("Stacks")
			fmt.Printf("\n  %-15s %-25s %-30s %s\n", "NAME", "DOMAIN", "TUNNEL", "CONTAINERS")
			fmt.Printf("  %-15s %-25s %-30s %s\n", "----", "------", "------", "----------")
			for _, name := range stackNames(s.Stacks) {
				st := s.Stacks[name]
				containers := "unknown"
				statuses, err := docker.ComposeStatus(ctx, exec, st.Dir)
				if err == nil {
					running := 0
					for _, c := range statuses {
						if c.Status == "running" {
							running++
						}
					}
					containers = fmt.Sprintf("%d/%d running", running, len(statuses))
				}
				fmt.Printf("  %-15s %-25s %-30s %s\n", name, st.Domain, st.TunnelName, containers)
			}
			fmt.Println()

			tunnelState := systemd.IsActive(ctx, exec, cloudflared.ServiceName)
			if tunnelState == "active" {
				ui.Success("cloudflared service active")
			} else {
				ui.Warn("cloudflared service " + tunnelState)
			}
		}

		if s.Bedrock != nil {
			ui.Header("Bedrock server")
			unitState := systemd.IsActive(ctx, exec, s.Bedrock.Unit)
			line := fmt.Sprintf("%q on UDP %d — %s", s.Bedrock.ServerName, s.Bedrock.Port, unitState)
			if unitState == "active" {
				ui.Success(line)
			} else {
				ui.Warn(line)
			}
			if s.Bedrock.TunnelID != "" {
				ui.Info("published via tunnel " + s.Bedrock.TunnelID)
			}
		}

		if s.Prereqs.Applied {
			steps := make([]string, 0, len(s.Prereqs.Steps))
			for name, done := range s.Prereqs.Steps {
				if done {
					steps = append(steps, name)
				}
			}
			sort.Strings(steps)
			ui.Info("Host prepared (" + strings.Join(steps, ", ") + ")")
		}

		return nil
	},
}

// stackNames returns stack names in a stable order so repeated status runs
// print the same table.
func stackNames(stacks map[string]state.StackState) []string {
	names := make([]string, 0, len(stacks))
	for name := range stacks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
