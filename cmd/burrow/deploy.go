// cmd/burrow/deploy.go
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rdmerino/burrow/internal/cloudflared"
	"github.com/rdmerino/burrow/internal/docker"
	"github.com/rdmerino/burrow/internal/prereq"
	"github.com/rdmerino/burrow/internal/prompt"
	"github.com/rdmerino/burrow/internal/stack"
	"github.com/rdmerino/burrow/internal/state"
	"github.com/rdmerino/burrow/internal/ui"
	"github.com/spf13/cobra"
)

var (
	deployDirFlag  string
	tunnelNameFlag string
	skipDNSFlag    bool
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Provision the compose stack behind a Cloudflare Tunnel",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		// === PLAN PHASE (always local, before touching the host) ===

		ui.Header("Configuring deployment...")
		answers, err := prompt.Ask([]prompt.Prompt{
			{Key: "DOMAIN", Label: "Domain (e.g. example.com)", Required: true},
			{Key: "SUBDOMAINS", Label: "Subdomains (comma separated)", Default: "api,ai,app"},
			{Key: "NAME", Label: "Stack name", Default: "homelab"},
			{Key: "TUNNEL", Label: "Tunnel name", Default: tunnelNameFlag},
			{Key: "DIR", Label: "Install directory", Default: deployDirFlag},
		})
		if err != nil {
			return err
		}

		name := answers["NAME"]
		tunnelName := answers["TUNNEL"]
		if tunnelName == "" {
			tunnelName = name
		}
		dir := strings.TrimRight(answers["DIR"], "/") + "/" + name

		cfg := &stack.Config{
			Name:       name,
			Domain:     answers["DOMAIN"],
			Dir:        dir,
			TunnelName: tunnelName,
			Services:   stack.DefaultServices(prompt.SplitList(answers["SUBDOMAINS"])),
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		composeData, err := stack.GenerateCompose(cfg)
		if err != nil {
			return err
		}
		nginxData, err := stack.GenerateNginx(cfg)
		if err != nil {
			return err
		}

		// === EXECUTE PHASE (via executor) ===

		exec, err := newExecutor()
		if err != nil {
			return err
		}

		// Fresh hosts often have apt running on first boot
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

		ui.Info("Checking Docker...")
		if err := docker.EnsureInstalled(ctx, exec); err != nil {
			return err
		}
		ui.Success("Docker ready")

		ui.Info("Checking cloudflared...")
		if err := cloudflared.EnsureInstalled(ctx, exec); err != nil {
			return err
		}
		ui.Success("cloudflared ready")

		ui.Header("Locating Cloudflare certificate...")
		if _, err := ensureCert(ctx, exec); err != nil {
			return err
		}

		ui.Header(fmt.Sprintf("Deploying %s...", name))

		if _, err := exec.Run(ctx, fmt.Sprintf("mkdir -p %s", dir)); err != nil {
			return err
		}
		if err := exec.WriteFile(ctx, dir+"/docker-compose.yml", composeData, 0644); err != nil {
			return err
		}
		if err := exec.WriteFile(ctx, dir+"/nginx.conf", nginxData, 0644); err != nil {
			return err
		}
		ui.Success("Compose and NGINX files generated")

		// Joins the host's existing tunnel when one is configured; the
		// name only matters for the first deployment.
		cfConfig, err := cloudflared.Provision(ctx, exec, tunnelName, cfg.Hostnames(),
			fmt.Sprintf("http://localhost:%d", stack.ProxyPort))
		if err != nil {
			return err
		}
		tunnelID := cfConfig.Tunnel
		ui.Success(fmt.Sprintf("Tunnel config written (%s)", tunnelID))

		if !skipDNSFlag {
			for _, host := range cfg.Hostnames() {
				if err := cloudflared.RouteDNS(ctx, exec, tunnelID, host); err != nil {
					ui.Warn(fmt.Sprintf("DNS for %s not routed: %v", host, err))
					continue
				}
				ui.Success("DNS routed: " + host)
			}
		}

		if err := cloudflared.InstallService(ctx, exec); err != nil {
			return err
		}
		ui.Success("cloudflared service running")

		ui.Info("Starting containers...")
		if err := docker.ComposeUp(ctx, exec, dir); err != nil {
			ui.Error("Failed to start containers")
			ui.Info(fmt.Sprintf("  Run: docker compose -f %s/docker-compose.yml logs", dir))
			return err
		}
		ui.Success("Containers started")

		healthURL := fmt.Sprintf("http://localhost:%d/healthz", stack.ProxyPort)
		if err := docker.HealthCheck(ctx, exec, healthURL, 30, 2); err != nil {
			ui.Warn("Health check failed — the stack may still be starting")
		} else {
			ui.Success("Health check passed")
		}

		var subdomains []string
		for _, svc := range cfg.Services {
			subdomains = append(subdomains, svc.Subdomain)
		}
		s.Stacks[name] = state.StackState{
			Domain:     cfg.Domain,
			Subdomains: subdomains,
			Dir:        dir,
			TunnelName: tunnelName,
			TunnelID:   tunnelID,
			DeployedAt: time.Now(),
		}
		if err := state.Save(ctx, exec, s); err != nil {
			return err
		}

		for _, host := range cfg.Hostnames() {
			ui.Result(fmt.Sprintf("https://%s is live", host))
		}
		return nil
	},
}

func init() {
	deployCmd.Flags().StringVar(&deployDirFlag, "dir", "/opt/burrow", "base install directory")
	deployCmd.Flags().StringVar(&tunnelNameFlag, "tunnel-name", "", "tunnel name (defaults to the stack name)")
	deployCmd.Flags().BoolVar(&skipDNSFlag, "skip-dns", false, "skip DNS routing (records managed elsewhere)")
	rootCmd.AddCommand(deployCmd)
}
