// internal/prereq/packages.go
package prereq

import (
	"context"

	"github.com/rdmerino/burrow/internal/apt"
	"github.com/rdmerino/burrow/internal/executor"
)

// basePackages is everything later stages shell out to.
var basePackages = []string{"curl", "ca-certificates", "unzip", "jq", "cron"}

func BasePackagesStep() Step {
	return Step{
		Name:  "base_packages",
		Label: "Base packages installed",
		Check: func(ctx context.Context, exec executor.Executor) (bool, error) {
			_, err := exec.Run(ctx, "command -v curl >/dev/null && command -v unzip >/dev/null && command -v jq >/dev/null")
			return err == nil, err
		},
		Apply: func(ctx context.Context, exec executor.Executor) error {
			if err := apt.Update(ctx, exec); err != nil {
				return err
			}
			return apt.Install(ctx, exec, basePackages...)
		},
	}
}

func CronStep() Step {
	return Step{
		Name:  "cron",
		Label: "Cron daemon running",
		Check: func(ctx context.Context, exec executor.Executor) (bool, error) {
			_, err := exec.Run(ctx, "systemctl is-active cron >/dev/null 2>&1")
			return err == nil, err
		},
		Apply: func(ctx context.Context, exec executor.Executor) error {
			_, err := exec.Run(ctx, "systemctl enable --now cron")
			return err
		},
	}
}
