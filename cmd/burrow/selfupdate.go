// cmd/burrow/selfupdate.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rdmerino/burrow/internal/ui"
	"github.com/spf13/cobra"
)

const releasesURL = "https://api.github.com/repos/rdmerino/burrow/releases/latest"

type release struct {
	TagName string         `json:"tag_name"`
	Assets  []releaseAsset `json:"assets"`
}

type releaseAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// assetURL picks the download link for the given platform, empty when the
// release carries no matching binary.
func (r *release) assetURL(goos, goarch string) string {
	want := fmt.Sprintf("burrow_%s_%s", goos, goarch)
	for _, a := range r.Assets {
		if a.Name == want {
			return a.BrowserDownloadURL
		}
	}
	return ""
}

var selfUpdateCmd = &cobra.Command{
	Use:   "self-update",
	Short: "Update burrow to the latest version",
	RunE: func(cmd *cobra.Command, args []string) error {
		ui.Header("Checking for updates...")

		rel, err := fetchLatestRelease()
		if err != nil {
			return err
		}

		if rel.TagName == "v"+version {
			ui.Info(fmt.Sprintf("Already at latest version (%s)", version))
			return nil
		}
		ui.Info(fmt.Sprintf("New version available: %s → %s", version, rel.TagName))

		downloadURL := rel.assetURL(runtime.GOOS, runtime.GOARCH)
		if downloadURL == "" {
			return fmt.Errorf("no binary found for %s/%s", runtime.GOOS, runtime.GOARCH)
		}

		ui.Info("Downloading...")
		resp, err := http.Get(downloadURL)
		if err != nil {
			return fmt.Errorf("failed to download: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("failed to download (HTTP %d)", resp.StatusCode)
		}

		execPath, err := os.Executable()
		if err != nil {
			return fmt.Errorf("failed to determine executable path: %w", err)
		}
		if err := installBinary(resp.Body, execPath); err != nil {
			return err
		}

		ui.Result(fmt.Sprintf("Updated to %s", rel.TagName))
		return nil
	},
}

func fetchLatestRelease() (*release, error) {
	resp, err := http.Get(releasesURL)
	if err != nil {
		return nil, fmt.Errorf("failed to check for updates: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to check for updates (HTTP %d)", resp.StatusCode)
	}

	rel := &release{}
	if err := json.NewDecoder(resp.Body).Decode(rel); err != nil {
		return nil, fmt.Errorf("failed to parse release info: %w", err)
	}
	return rel, nil
}

// installBinary stages the new binary next to the running one and renames it
// into place. The temp file must live on the same filesystem as execPath;
// rename across mounts (e.g. from /tmp) fails with EXDEV.
func installBinary(body io.Reader, execPath string) error {
	tmp, err := os.CreateTemp(filepath.Dir(execPath), ".burrow-update-*")
	if err != nil {
		return fmt.Errorf("failed to stage update: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write update: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write update: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0755); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), execPath); err != nil {
		return fmt.Errorf("failed to replace binary: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(selfUpdateCmd)
}
