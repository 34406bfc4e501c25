// internal/bedrock/bedrock_test.go
package bedrock

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rdmerino/burrow/internal/executor"
)

func testOptions() *Options {
	o := &Options{ServerName: "Homelab Survival", MaxPlayers: 6}
	o.ApplyDefaults()
	return o
}

func TestApplyDefaults(t *testing.T) {
	o := &Options{}
	o.ApplyDefaults()
	if o.Dir != "/opt/bedrock" {
		t.Fatalf("unexpected dir: %s", o.Dir)
	}
	if o.Port != 19132 || o.PortV6() != 19133 {
		t.Fatalf("unexpected ports: %d/%d", o.Port, o.PortV6())
	}
	if o.Gamemode != "survival" || o.Difficulty != "easy" {
		t.Fatalf("unexpected gameplay defaults: %s/%s", o.Gamemode, o.Difficulty)
	}
	if o.DownloadURL == "" {
		t.Fatal("expected default download URL")
	}
}

func TestRenderProperties(t *testing.T) {
	data, err := RenderProperties(testOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	props := string(data)
	for _, want := range []string{
		"server-name=Homelab Survival",
		"gamemode=survival",
		"difficulty=easy",
		"max-players=6",
		"server-port=19132",
		"server-portv6=19133",
	} {
		if !strings.Contains(props, want) {
			t.Fatalf("expected %q in server.properties:\n%s", want, props)
		}
	}
}

func TestRenderUnit(t *testing.T) {
	data, err := RenderUnit("/opt/bedrock")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	unit := string(data)
	for _, want := range []string{
		"WorkingDirectory=/opt/bedrock",
		"ExecStart=/opt/bedrock/bedrock_server",
		"Environment=LD_LIBRARY_PATH=.",
		"Restart=on-failure",
		"WantedBy=multi-user.target",
	} {
		if !strings.Contains(unit, want) {
			t.Fatalf("expected %q in unit:\n%s", want, unit)
		}
	}
}

func TestDownload_FreshInstall(t *testing.T) {
	mock := executor.NewMockExecutor()
	mock.RunErrors["test -f /opt/bedrock/bedrock_server"] = errors.New("exit 1")

	if err := Download(context.Background(), mock, "/opt/bedrock", DefaultDownloadURL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mock.Ran("mkdir -p /opt/bedrock") {
		t.Fatal("expected install dir created")
	}
	if !mock.Ran("curl -fsSL -A") {
		t.Fatal("expected download with explicit user agent")
	}
	if !mock.Ran("unzip -o /tmp/bedrock-server.zip -d /opt/bedrock") {
		t.Fatalf("expected unzip, got %v", mock.RunCommands())
	}
	if mock.Ran("-x 'worlds/*'") {
		t.Fatal("fresh install must not exclude anything")
	}
	if !mock.Ran("chmod +x /opt/bedrock/bedrock_server") {
		t.Fatal("expected binary made executable")
	}
}

func TestDownload_UpgradePreservesWorlds(t *testing.T) {
	mock := executor.NewMockExecutor()
	// test -f succeeds: server already installed

	if err := Download(context.Background(), mock, "/opt/bedrock", DefaultDownloadURL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mock.Ran("-x 'worlds/*' server.properties allowlist.json permissions.json") {
		t.Fatalf("expected worlds and config excluded on upgrade, got %v", mock.RunCommands())
	}
}

func TestWriteProperties(t *testing.T) {
	mock := executor.NewMockExecutor()
	opts := testOptions()

	if err := WriteProperties(context.Background(), mock, opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, ok := mock.Files["/opt/bedrock/server.properties"]
	if !ok {
		t.Fatal("expected server.properties written")
	}
	if !strings.Contains(string(data), "server-name=Homelab Survival") {
		t.Fatal("expected rendered properties content")
	}
}

func TestInstallUnit_Fresh(t *testing.T) {
	mock := executor.NewMockExecutor()
	mock.RunErrors["test -f /etc/systemd/system/bedrock.service"] = errors.New("exit 1")

	if err := InstallUnit(context.Background(), mock, "/opt/bedrock"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := mock.Files["/etc/systemd/system/bedrock.service"]; !ok {
		t.Fatal("expected unit file written")
	}
	if !mock.Ran("systemctl enable --now bedrock.service") {
		t.Fatalf("expected unit enabled, got %v", mock.RunCommands())
	}
}

func TestInstallUnit_ExistingRestarts(t *testing.T) {
	mock := executor.NewMockExecutor()
	// test -f succeeds: unit already present

	if err := InstallUnit(context.Background(), mock, "/opt/bedrock"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mock.Ran("systemctl restart bedrock.service") {
		t.Fatal("expected restart for existing unit")
	}
	if mock.Ran("enable --now") {
		t.Fatal("expected no enable for existing unit")
	}
}

func TestOpenFirewall(t *testing.T) {
	mock := executor.NewMockExecutor()

	if err := OpenFirewall(context.Background(), mock, testOptions()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mock.Ran("ufw allow 19132/udp") || !mock.Ran("ufw allow 19133/udp") {
		t.Fatalf("expected both UDP ports opened, got %v", mock.RunCommands())
	}
}

func TestEnsureBackupCron(t *testing.T) {
	mock := executor.NewMockExecutor()

	if err := EnsureBackupCron(context.Background(), mock, "/opt/bedrock"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cmds := mock.RunCommands()
	if len(cmds) != 1 {
		t.Fatalf("expected single crontab pipeline, got %v", cmds)
	}
	if !strings.Contains(cmds[0], "grep -v 'burrow-bedrock-backup'") {
		t.Fatal("expected previous entry filtered out")
	}
	if !strings.Contains(cmds[0], "tar czf /var/backups/bedrock-worlds.tar.gz -C /opt/bedrock worlds") {
		t.Fatal("expected backup command in cron line")
	}
}

func TestRemove_Purge(t *testing.T) {
	mock := executor.NewMockExecutor()
	mock.Files["/etc/systemd/system/bedrock.service"] = []byte("unit")

	if err := Remove(context.Background(), mock, "/opt/bedrock", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mock.Ran("systemctl stop bedrock.service") {
		t.Fatal("expected unit stopped")
	}
	if !mock.Ran("rm -rf /opt/bedrock") {
		t.Fatal("expected files removed with purge")
	}
}
