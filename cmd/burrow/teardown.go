// cmd/burrow/teardown.go
package main

import (
	"context"
	"fmt"

	"github.com/rdmerino/burrow/internal/bedrock"
	"github.com/rdmerino/burrow/internal/cloudflared"
	"github.com/rdmerino/burrow/internal/docker"
	"github.com/rdmerino/burrow/internal/executor"
	"github.com/rdmerino/burrow/internal/state"
	"github.com/rdmerino/burrow/internal/systemd"
	"github.com/rdmerino/burrow/internal/ui"
	"github.com/spf13/cobra"
)

var purgeFlag bool

var teardownCmd = &cobra.Command{
	Use:   "teardown <stack>|bedrock",
	Short: "Remove a deployed stack or the Bedrock server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		name := args[0]

		exec, err := newExecutor()
		if err != nil {
			return err
		}

		s, err := state.Load(ctx, exec)
		if err != nil {
			return err
		}

		if name == "bedrock" {
			return teardownBedrock(ctx, exec, s)
		}

		st, ok := s.Stacks[name]
		if !ok {
			return fmt.Errorf("stack %s is not deployed", name)
		}

		ui.Header(fmt.Sprintf("Tearing down %s...", name))

		if err := docker.ComposeDown(ctx, exec, st.Dir, purgeFlag); err != nil {
			ui.Warn("Failed to stop containers: " + err.Error())
		} else {
			ui.Success("Containers stopped")
		}

		var hosts []string
		for _, sub := range st.Subdomains {
			hosts = append(hosts, fmt.Sprintf("%s.%s", sub, st.Domain))
		}
		releaseTunnel(ctx, exec, hosts)

		if _, err := exec.Run(ctx, fmt.Sprintf("rm -rf %s", st.Dir)); err != nil {
			ui.Warn("Failed to remove directory: " + err.Error())
		} else {
			ui.Success("Files removed")
		}

		delete(s.Stacks, name)
		if err := state.Save(ctx, exec, s); err != nil {
			return err
		}

		ui.Result(fmt.Sprintf("%s has been torn down", name))
		return nil
	},
}

func teardownBedrock(ctx context.Context, exec executor.Executor, s *state.State) error {
	if s.Bedrock == nil {
		return fmt.Errorf("bedrock server is not installed")
	}

	ui.Header("Removing Bedrock server...")

	if err := bedrock.Remove(ctx, exec, s.Bedrock.Dir, purgeFlag); err != nil {
		ui.Warn("Cleanup incomplete: " + err.Error())
	} else {
		ui.Success("Service and backup cron removed")
	}

	if s.Bedrock.Hostname != "" {
		releaseTunnel(ctx, exec, []string{s.Bedrock.Hostname})
	}

	s.Bedrock = nil
	if err := state.Save(ctx, exec, s); err != nil {
		return err
	}

	ui.Result("Bedrock server has been removed")
	return nil
}

// releaseTunnel drops hosts from the shared tunnel config. The tunnel and
// the cloudflared service come down only when the last hostname goes; other
// deployments on the same host keep their routes. DNS records for removed
// hosts linger but point at nothing.
func releaseTunnel(ctx context.Context, exec executor.Executor, hosts []string) {
	cfg, err := cloudflared.RemoveHostnames(ctx, exec, hosts)
	if err != nil {
		ui.Warn("Failed to update tunnel config: " + err.Error())
		return
	}
	if cfg.HostnameCount() > 0 {
		if err := systemd.Restart(ctx, exec, cloudflared.ServiceName); err != nil {
			ui.Warn("Failed to restart cloudflared: " + err.Error())
		}
		ui.Success("Tunnel config updated; other deployments keep it running")
		return
	}
	if err := systemd.Stop(ctx, exec, cloudflared.ServiceName); err != nil {
		ui.Warn("Failed to stop cloudflared: " + err.Error())
	}
	if err := cloudflared.DeleteTunnel(ctx, exec, cfg.Tunnel); err != nil {
		ui.Warn("Failed to delete tunnel: " + err.Error())
	} else {
		ui.Success("Tunnel deleted")
	}
}

func init() {
	teardownCmd.Flags().BoolVar(&purgeFlag, "purge", false, "also remove volumes and data")
	rootCmd.AddCommand(teardownCmd)
}
