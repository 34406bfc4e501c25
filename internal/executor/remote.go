// internal/executor/remote.go
package executor

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/term"
)

// RemoteExecutor runs everything over a single SSH connection. Auth order:
// ssh-agent, then default key files, then an interactive password prompt.
type RemoteExecutor struct {
	client *ssh.Client
	target string
}

func NewRemoteExecutor(target string) (*RemoteExecutor, error) {
	user, addr := splitTarget(target)

	cfg := &ssh.ClientConfig{
		User:            user,
		Auth:            authMethods(user, addr),
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         15 * time.Second,
	}

	client, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", target, err)
	}
	return &RemoteExecutor{client: client, target: target}, nil
}

// splitTarget parses user@host[:port]; user defaults to root, port to 22.
func splitTarget(target string) (user, addr string) {
	user = "root"
	host := target
	if i := strings.Index(target, "@"); i >= 0 {
		user = target[:i]
		host = target[i+1:]
	}
	if !strings.Contains(host, ":") {
		host += ":22"
	}
	return user, host
}

func authMethods(user, addr string) []ssh.AuthMethod {
	var methods []ssh.AuthMethod

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if conn, err := net.Dial("unix", sock); err == nil {
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		}
	}

	home, _ := os.UserHomeDir()
	for _, name := range []string{"id_ed25519", "id_rsa"} {
		key, err := os.ReadFile(filepath.Join(home, ".ssh", name))
		if err != nil {
			continue
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			continue
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}

	methods = append(methods, ssh.PasswordCallback(func() (string, error) {
		fmt.Printf("  %s@%s password: ", user, addr)
		data, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		return string(data), err
	}))

	return methods
}

func (r *RemoteExecutor) Run(ctx context.Context, cmd string) (string, error) {
	session, err := r.client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to open SSH session: %w", err)
	}
	defer session.Close()

	// Sessions have no context support; close on cancellation.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			session.Close()
		case <-done:
		}
	}()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr
	if err := session.Run(cmd); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %s", err, stderr.String())
	}
	return stdout.String(), nil
}

func (r *RemoteExecutor) WriteFile(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	session, err := r.client.NewSession()
	if err != nil {
		return fmt.Errorf("failed to open SSH session: %w", err)
	}
	defer session.Close()

	session.Stdin = bytes.NewReader(content)
	cmd := fmt.Sprintf("cat > '%s' && chmod %o '%s'", path, mode.Perm(), path)
	var stderr bytes.Buffer
	session.Stderr = &stderr
	if err := session.Run(cmd); err != nil {
		return fmt.Errorf("failed to write %s on %s: %w: %s", path, r.target, err, stderr.String())
	}
	return nil
}

func (r *RemoteExecutor) ReadFile(ctx context.Context, path string) ([]byte, error) {
	session, err := r.client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("failed to open SSH session: %w", err)
	}
	defer session.Close()

	out, err := session.Output(fmt.Sprintf("cat '%s'", path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s on %s: %w", path, r.target, err)
	}
	return out, nil
}

func (r *RemoteExecutor) Close() error {
	return r.client.Close()
}
