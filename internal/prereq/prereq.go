// internal/prereq/prereq.go
package prereq

import (
	"context"

	"github.com/rdmerino/burrow/internal/apt"
	"github.com/rdmerino/burrow/internal/executor"
	"github.com/rdmerino/burrow/internal/state"
	"github.com/rdmerino/burrow/internal/ui"
)

// Step is one idempotent prerequisite. Check reports whether it is already
// satisfied; Apply makes it so.
type Step struct {
	Name  string
	Label string
	Check func(ctx context.Context, exec executor.Executor) (bool, error)
	Apply func(ctx context.Context, exec executor.Executor) error
}

type StepResult struct {
	Name    string
	Skipped bool
	Error   error
}

func Steps() []Step {
	return []Step{
		BasePackagesStep(),
		FirewallStep(),
		CronStep(),
	}
}

// Run applies every step not yet recorded in state, skipping ones whose
// Check already passes. It stops at the first failure: later steps tend to
// assume the earlier ones.
func Run(ctx context.Context, exec executor.Executor, s *state.State) ([]StepResult, error) {
	var results []StepResult

	if err := apt.WaitForLock(ctx, exec); err != nil {
		return nil, err
	}

	for _, step := range Steps() {
		if s.Prereqs.Steps[step.Name] {
			ui.Skip(step.Label + " already configured")
			results = append(results, StepResult{Name: step.Name, Skipped: true})
			continue
		}

		done, err := step.Check(ctx, exec)
		if err == nil && done {
			ui.Skip(step.Label + " already configured")
			s.Prereqs.Steps[step.Name] = true
			results = append(results, StepResult{Name: step.Name, Skipped: true})
			continue
		}

		if err := step.Apply(ctx, exec); err != nil {
			ui.Error(step.Label + " failed: " + err.Error())
			results = append(results, StepResult{Name: step.Name, Error: err})
			return results, err
		}

		ui.Success(step.Label)
		s.Prereqs.Steps[step.Name] = true
		results = append(results, StepResult{Name: step.Name})
	}

	s.Prereqs.Applied = true
	return results, nil
}
