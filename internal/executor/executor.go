// internal/executor/executor.go
package executor

import (
	"context"
	"os"
)

// Executor runs shell commands and reads/writes files on the target host.
// Every provisioning package goes through this interface so the same flow
// works locally, over SSH, and against the mock in tests.
type Executor interface {
	Run(ctx context.Context, cmd string) (string, error)
	WriteFile(ctx context.Context, path string, content []byte, mode os.FileMode) error
	ReadFile(ctx context.Context, path string) ([]byte, error)
}
