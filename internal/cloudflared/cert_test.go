// internal/cloudflared/cert_test.go
package cloudflared

import (
	"context"
	"errors"
	"testing"

	"github.com/rdmerino/burrow/internal/executor"
)

func failCandidates(mock *executor.MockExecutor, filename string) {
	for _, p := range []string{
		"$HOME/.cloudflared/",
		"/home/$SUDO_USER/.cloudflared/",
		"/root/.cloudflared/",
		"/etc/cloudflared/",
		"/usr/local/etc/cloudflared/",
	} {
		cmd := "test -f " + p + filename + " && echo " + p + filename
		mock.RunErrors[cmd] = errors.New("exit 1")
	}
}

func TestFindCert_FirstCandidate(t *testing.T) {
	mock := executor.NewMockExecutor()
	mock.RunOutputs["test -f $HOME/.cloudflared/cert.pem && echo $HOME/.cloudflared/cert.pem"] = "/home/dev/.cloudflared/cert.pem\n"

	path, err := FindCert(context.Background(), mock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/home/dev/.cloudflared/cert.pem" {
		t.Fatalf("expected expanded home path, got %q", path)
	}
	if len(mock.Calls) != 1 {
		t.Fatalf("expected search to stop at first hit, got %d calls", len(mock.Calls))
	}
}

func TestFindCert_LaterCandidate(t *testing.T) {
	mock := executor.NewMockExecutor()
	failCandidates(mock, "cert.pem")
	delete(mock.RunErrors, "test -f /root/.cloudflared/cert.pem && echo /root/.cloudflared/cert.pem")
	mock.RunOutputs["test -f /root/.cloudflared/cert.pem && echo /root/.cloudflared/cert.pem"] = "/root/.cloudflared/cert.pem\n"

	path, err := FindCert(context.Background(), mock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/root/.cloudflared/cert.pem" {
		t.Fatalf("expected /root path, got %q", path)
	}
	// The two earlier candidates must have been probed first
	cmds := mock.RunCommands()
	if len(cmds) != 3 {
		t.Fatalf("expected 3 probes, got %d: %v", len(cmds), cmds)
	}
}

func TestFindCert_FindFallback(t *testing.T) {
	mock := executor.NewMockExecutor()
	failCandidates(mock, "cert.pem")
	mock.RunOutputs["find / -name cert.pem -path '*cloudflared*' 2>/dev/null | head -n 1"] = "/var/lib/cloudflared/cert.pem\n"

	path, err := FindCert(context.Background(), mock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/var/lib/cloudflared/cert.pem" {
		t.Fatalf("expected find fallback result, got %q", path)
	}
}

func TestFindCert_NotFound(t *testing.T) {
	mock := executor.NewMockExecutor()
	failCandidates(mock, "cert.pem")
	// find succeeds but prints nothing

	_, err := FindCert(context.Background(), mock)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindCredentials(t *testing.T) {
	const id = "6ff42ae2-765d-4adf-8112-31c55c1551ef"
	mock := executor.NewMockExecutor()
	mock.RunErrors["test -f $HOME/.cloudflared/"+id+".json && echo $HOME/.cloudflared/"+id+".json"] = errors.New("exit 1")
	mock.RunErrors["test -f /home/$SUDO_USER/.cloudflared/"+id+".json && echo /home/$SUDO_USER/.cloudflared/"+id+".json"] = errors.New("exit 1")
	mock.RunOutputs["test -f /root/.cloudflared/"+id+".json && echo /root/.cloudflared/"+id+".json"] = "/root/.cloudflared/" + id + ".json\n"

	path, err := FindCredentials(context.Background(), mock, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/root/.cloudflared/"+id+".json" {
		t.Fatalf("unexpected path: %q", path)
	}
}
