// internal/bedrock/bedrock.go
package bedrock

import (
	"context"
	"fmt"

	"github.com/rdmerino/burrow/internal/executor"
	"github.com/rdmerino/burrow/internal/prereq"
	"github.com/rdmerino/burrow/internal/systemd"
)

const (
	UnitName = "bedrock.service"

	// DefaultDownloadURL is the vendor zip; overridable per run since
	// Mojang rotates the version in the filename.
	DefaultDownloadURL = "https://www.minecraft.net/bedrockdedicatedserver/bin-linux/bedrock-server-1.21.95.1.zip"

	// downloadUA: the vendor CDN rejects curl's default user agent.
	downloadUA = "Mozilla/5.0 (X11; Linux x86_64)"
)

type Options struct {
	Dir         string
	ServerName  string
	Gamemode    string
	Difficulty  string
	MaxPlayers  int
	Port        int
	DownloadURL string
}

func (o *Options) ApplyDefaults() {
	if o.Dir == "" {
		o.Dir = "/opt/bedrock"
	}
	if o.ServerName == "" {
		o.ServerName = "Dedicated Server"
	}
	if o.Gamemode == "" {
		o.Gamemode = "survival"
	}
	if o.Difficulty == "" {
		o.Difficulty = "easy"
	}
	if o.MaxPlayers == 0 {
		o.MaxPlayers = 10
	}
	if o.Port == 0 {
		o.Port = 19132
	}
	if o.DownloadURL == "" {
		o.DownloadURL = DefaultDownloadURL
	}
}

// PortV6 is the IPv6 port; the server convention is UDP port + 1.
func (o *Options) PortV6() int {
	return o.Port + 1
}

// Download fetches and unpacks the server. On an existing install the
// worlds directory and server.properties survive: only the binaries are
// refreshed.
func Download(ctx context.Context, exec executor.Executor, dir, url string) error {
	if _, err := exec.Run(ctx, fmt.Sprintf("mkdir -p %s", dir)); err != nil {
		return err
	}

	cmd := fmt.Sprintf("curl -fsSL -A '%s' -o /tmp/bedrock-server.zip '%s'", downloadUA, url)
	if _, err := exec.Run(ctx, cmd); err != nil {
		return fmt.Errorf("failed to download bedrock server: %w", err)
	}

	_, installed := isInstalled(ctx, exec, dir)
	unzip := fmt.Sprintf("unzip -o /tmp/bedrock-server.zip -d %s", dir)
	if installed {
		unzip += " -x 'worlds/*' server.properties allowlist.json permissions.json"
	}
	if _, err := exec.Run(ctx, unzip); err != nil {
		return fmt.Errorf("failed to unpack bedrock server: %w", err)
	}

	cmds := []string{
		fmt.Sprintf("chmod +x %s/bedrock_server", dir),
		"rm -f /tmp/bedrock-server.zip",
	}
	for _, c := range cmds {
		if _, err := exec.Run(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func isInstalled(ctx context.Context, exec executor.Executor, dir string) (string, bool) {
	bin := fmt.Sprintf("%s/bedrock_server", dir)
	_, err := exec.Run(ctx, fmt.Sprintf("test -f %s", bin))
	return bin, err == nil
}

// WriteProperties renders server.properties from the options.
func WriteProperties(ctx context.Context, exec executor.Executor, opts *Options) error {
	data, err := RenderProperties(opts)
	if err != nil {
		return err
	}
	return exec.WriteFile(ctx, fmt.Sprintf("%s/server.properties", opts.Dir), data, 0644)
}

// InstallUnit writes the systemd unit and starts the server; an existing
// unit gets restarted so a fresh download or config takes effect.
func InstallUnit(ctx context.Context, exec executor.Executor, dir string) error {
	data, err := RenderUnit(dir)
	if err != nil {
		return err
	}

	_, err = exec.Run(ctx, fmt.Sprintf("test -f %s", systemd.UnitPath(UnitName)))
	existed := err == nil

	if err := systemd.WriteUnit(ctx, exec, UnitName, data); err != nil {
		return err
	}
	if existed {
		return systemd.Restart(ctx, exec, UnitName)
	}
	return systemd.EnableNow(ctx, exec, UnitName)
}

// OpenFirewall allows the game's UDP ports (v4 and v6).
func OpenFirewall(ctx context.Context, exec executor.Executor, opts *Options) error {
	if err := prereq.AllowPort(ctx, exec, opts.Port, "udp"); err != nil {
		return err
	}
	return prereq.AllowPort(ctx, exec, opts.PortV6(), "udp")
}

// EnsureBackupCron installs a nightly worlds backup, replacing any line
// from a previous run (the marker comment keys the dedupe).
func EnsureBackupCron(ctx context.Context, exec executor.Executor, dir string) error {
	line := fmt.Sprintf(`0 4 * * * tar czf /var/backups/bedrock-worlds.tar.gz -C %s worlds # burrow-bedrock-backup`, dir)
	cmd := fmt.Sprintf(`( crontab -l 2>/dev/null | grep -v 'burrow-bedrock-backup'; echo "%s" ) | crontab -`, line)
	if _, err := exec.Run(ctx, cmd); err != nil {
		return fmt.Errorf("failed to install backup cron: %w", err)
	}
	return nil
}

// Remove tears the install down: unit, cron entry, and optionally the
// files (worlds included, so only on request).
func Remove(ctx context.Context, exec executor.Executor, dir string, purge bool) error {
	if err := systemd.RemoveUnit(ctx, exec, UnitName); err != nil {
		return err
	}
	if _, err := exec.Run(ctx, `( crontab -l 2>/dev/null | grep -v 'burrow-bedrock-backup' ) | crontab -`); err != nil {
		return err
	}
	if purge {
		if _, err := exec.Run(ctx, fmt.Sprintf("rm -rf %s", dir)); err != nil {
			return err
		}
	}
	return nil
}
