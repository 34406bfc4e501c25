// cmd/burrow/root.go
package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rdmerino/burrow/internal/cloudflared"
	"github.com/rdmerino/burrow/internal/executor"
	"github.com/rdmerino/burrow/internal/prompt"
	"github.com/rdmerino/burrow/internal/ui"
	"github.com/spf13/cobra"
)

var onFlag string

var rootCmd = &cobra.Command{
	Use:   "burrow",
	Short: "Provision tunneled self-hosted deployments on a fresh server",
	Long: "Burrow turns a fresh Debian/Ubuntu host into a small self-hosted deployment:\n" +
		"a Docker Compose stack behind NGINX published through a Cloudflare Tunnel,\n" +
		"and optionally a Minecraft Bedrock server managed by systemd.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&onFlag, "on", "", "remote server to execute on (e.g., root@167.71.50.23)")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print burrow version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("burrow", version)
	},
}

func newExecutor() (executor.Executor, error) {
	if onFlag != "" {
		return executor.NewRemoteExecutor(onFlag)
	}
	return executor.NewLocalExecutor(), nil
}

// ensureCert walks the certificate decision tree: known paths, recursive
// find, a manual path prompt, and finally the browser login flow. The found
// cert is copied to /etc/cloudflared so the root service sees it too.
func ensureCert(ctx context.Context, exec executor.Executor) (string, error) {
	path, err := cloudflared.FindCert(ctx, exec)
	if err != nil {
		if !errors.Is(err, cloudflared.ErrNotFound) {
			return "", err
		}
		ui.Warn("No Cloudflare certificate found on this host")
		answers, err := prompt.Ask([]prompt.Prompt{
			{Key: "CERT", Label: "Path to cert.pem (leave empty to log in via browser)"},
		})
		if err != nil {
			return "", err
		}
		if p := answers["CERT"]; p != "" {
			if _, err := exec.Run(ctx, fmt.Sprintf("test -f %s", p)); err != nil {
				return "", fmt.Errorf("no certificate at %s", p)
			}
			path = p
		} else {
			path, err = cloudflared.Login(ctx, exec)
			if err != nil {
				return "", err
			}
		}
	}
	ui.Success("Cloudflare certificate: " + path)

	if path != "/etc/cloudflared/cert.pem" {
		exec.Run(ctx, "mkdir -p /etc/cloudflared")
		exec.Run(ctx, fmt.Sprintf("cp -n %s /etc/cloudflared/cert.pem", path))
	}
	return path, nil
}
