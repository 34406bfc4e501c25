// cmd/burrow/bedrock.go
package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rdmerino/burrow/internal/bedrock"
	"github.com/rdmerino/burrow/internal/cloudflared"
	"github.com/rdmerino/burrow/internal/executor"
	"github.com/rdmerino/burrow/internal/prereq"
	"github.com/rdmerino/burrow/internal/prompt"
	"github.com/rdmerino/burrow/internal/state"
	"github.com/rdmerino/burrow/internal/ui"
	"github.com/spf13/cobra"
)

var (
	bedrockDirFlag    string
	bedrockPortFlag   int
	bedrockURLFlag    string
	bedrockTunnelFlag bool
)

var bedrockCmd = &cobra.Command{
	Use:   "bedrock",
	Short: "Install a Minecraft Bedrock server as a systemd service",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		ui.Header("Configuring Bedrock server...")
		prompts := []prompt.Prompt{
			{Key: "NAME", Label: "Server name", Default: "Dedicated Server"},
			{Key: "GAMEMODE", Label: "Gamemode (survival/creative/adventure)", Default: "survival"},
			{Key: "DIFFICULTY", Label: "Difficulty (peaceful/easy/normal/hard)", Default: "easy"},
			{Key: "MAX_PLAYERS", Label: "Max players", Default: "10"},
		}
		if bedrockTunnelFlag {
			prompts = append(prompts,
				prompt.Prompt{Key: "HOSTNAME", Label: "Hostname for the tunnel (e.g. mc.example.com)", Required: true},
				prompt.Prompt{Key: "TUNNEL", Label: "Tunnel name", Default: "bedrock"},
			)
		}
		answers, err := prompt.Ask(prompts)
		if err != nil {
			return err
		}

		maxPlayers, err := strconv.Atoi(answers["MAX_PLAYERS"])
		if err != nil {
			return fmt.Errorf("max players must be a number: %w", err)
		}

		opts := &bedrock.Options{
			Dir:         bedrockDirFlag,
			ServerName:  answers["NAME"],
			Gamemode:    answers["GAMEMODE"],
			Difficulty:  answers["DIFFICULTY"],
			MaxPlayers:  maxPlayers,
			Port:        bedrockPortFlag,
			DownloadURL: bedrockURLFlag,
		}
		opts.ApplyDefaults()

		exec, err := newExecutor()
		if err != nil {
			return err
		}

		exec.Run(ctx, `echo 'DPkg::Lock::Timeout "120";' > /etc/apt/apt.conf.d/99-burrow-lock-wait`)

		s, err := state.Load(ctx, exec)
		if err != nil {
			return err
		}

		if !s.Prereqs.Applied {
			ui.Header("Preparing host...")
			if _, err := prereq.Run(ctx, exec, s); err != nil {
				return err
			}
			s.Prereqs.AppliedAt = time.Now()
		}

		ui.Header("Installing Bedrock server...")

		ui.Info("Downloading server...")
		if err := bedrock.Download(ctx, exec, opts.Dir, opts.DownloadURL); err != nil {
			return err
		}
		ui.Success("Server files unpacked")

		if err := bedrock.WriteProperties(ctx, exec, opts); err != nil {
			return err
		}
		ui.Success("server.properties written")

		if err := bedrock.InstallUnit(ctx, exec, opts.Dir); err != nil {
			return err
		}
		ui.Success("systemd service running")

		if err := bedrock.OpenFirewall(ctx, exec, opts); err != nil {
			ui.Warn("Firewall rule failed: " + err.Error())
		} else {
			ui.Success(fmt.Sprintf("UDP %d/%d open", opts.Port, opts.PortV6()))
		}

		if err := bedrock.EnsureBackupCron(ctx, exec, opts.Dir); err != nil {
			ui.Warn("Backup cron not installed: " + err.Error())
		} else {
			ui.Success("Nightly worlds backup scheduled")
		}

		bs := &state.BedrockState{
			Dir:         opts.Dir,
			Port:        opts.Port,
			ServerName:  opts.ServerName,
			Unit:        bedrock.UnitName,
			InstalledAt: time.Now(),
		}

		if bedrockTunnelFlag {
			if err := tunnelBedrock(ctx, exec, bs, answers["TUNNEL"], answers["HOSTNAME"], opts.Port); err != nil {
				return err
			}
		}

		s.Bedrock = bs
		if err := state.Save(ctx, exec, s); err != nil {
			return err
		}

		ui.Result(fmt.Sprintf("Bedrock server %q is running on UDP %d", opts.ServerName, opts.Port))
		return nil
	},
}

// tunnelBedrock publishes the server through Cloudflare. When a previous
// deploy already runs a tunnel on this host, its config just gains a
// hostname; otherwise a dedicated tunnel is created. Bedrock speaks UDP, so
// players need `cloudflared access` on their side either way.
func tunnelBedrock(ctx context.Context, exec executor.Executor, bs *state.BedrockState, tunnelName, hostname string, port int) error {
	ui.Header("Publishing through Cloudflare Tunnel...")

	if err := cloudflared.EnsureInstalled(ctx, exec); err != nil {
		return err
	}
	if _, err := ensureCert(ctx, exec); err != nil {
		return err
	}

	service := fmt.Sprintf("udp://localhost:%d", port)

	cfg, err := cloudflared.Provision(ctx, exec, tunnelName, []string{hostname}, service)
	if err != nil {
		return err
	}
	bs.TunnelName = tunnelName
	bs.TunnelID = cfg.Tunnel
	bs.Hostname = hostname

	if err := cloudflared.RouteDNS(ctx, exec, cfg.Tunnel, hostname); err != nil {
		ui.Warn(fmt.Sprintf("DNS for %s not routed: %v", hostname, err))
	} else {
		ui.Success("DNS routed: " + hostname)
	}

	if err := cloudflared.InstallService(ctx, exec); err != nil {
		return err
	}
	ui.Success("cloudflared service running")
	ui.Warn(fmt.Sprintf("UDP over the tunnel needs `cloudflared access tcp --hostname %s` on each client", hostname))
	return nil
}

func init() {
	bedrockCmd.Flags().StringVar(&bedrockDirFlag, "dir", "/opt/bedrock", "install directory")
	bedrockCmd.Flags().IntVar(&bedrockPortFlag, "port", 19132, "server UDP port")
	bedrockCmd.Flags().StringVar(&bedrockURLFlag, "download-url", "", "override the server download URL")
	bedrockCmd.Flags().BoolVar(&bedrockTunnelFlag, "tunnel", false, "also publish through a Cloudflare Tunnel")
	rootCmd.AddCommand(bedrockCmd)
}
