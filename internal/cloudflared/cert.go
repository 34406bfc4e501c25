// internal/cloudflared/cert.go
package cloudflared

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rdmerino/burrow/internal/executor"
)

// ErrNotFound means the search exhausted every candidate path and the
// recursive find. Callers fall back to prompting or the login flow.
var ErrNotFound = errors.New("not found")

// certCandidates are checked in order. $HOME and $SUDO_USER expand on the
// target host, so running under sudo still finds the invoking user's cert.
var certCandidates = []string{
	"$HOME/.cloudflared/cert.pem",
	"/home/$SUDO_USER/.cloudflared/cert.pem",
	"/root/.cloudflared/cert.pem",
	"/etc/cloudflared/cert.pem",
	"/usr/local/etc/cloudflared/cert.pem",
}

// FindCert locates the account certificate cloudflared wrote at login:
// fixed candidate paths first, then a filesystem-wide find.
func FindCert(ctx context.Context, exec executor.Executor) (string, error) {
	return findFirst(ctx, exec, certCandidates, "cert.pem")
}

// FindCredentials locates the per-tunnel credentials JSON that
// `tunnel create` wrote next to the cert.
func FindCredentials(ctx context.Context, exec executor.Executor, tunnelID string) (string, error) {
	name := tunnelID + ".json"
	candidates := []string{
		"$HOME/.cloudflared/" + name,
		"/home/$SUDO_USER/.cloudflared/" + name,
		"/root/.cloudflared/" + name,
		"/etc/cloudflared/" + name,
	}
	return findFirst(ctx, exec, candidates, name)
}

func findFirst(ctx context.Context, exec executor.Executor, candidates []string, filename string) (string, error) {
	for _, p := range candidates {
		// echo expands $HOME/$SUDO_USER so callers get a concrete path
		out, err := exec.Run(ctx, fmt.Sprintf("test -f %[1]s && echo %[1]s", p))
		if err != nil {
			continue
		}
		if path := strings.TrimSpace(out); path != "" {
			return path, nil
		}
	}

	// Last resort: search the whole filesystem, first hit wins.
	out, err := exec.Run(ctx, fmt.Sprintf("find / -name %s -path '*cloudflared*' 2>/dev/null | head -n 1", filename))
	if err == nil {
		if path := strings.TrimSpace(out); path != "" {
			return path, nil
		}
	}

	return "", fmt.Errorf("%s: %w", filename, ErrNotFound)
}
