package trigger

import (
	"os"
	"os/exec"

	"github.com/pkg/errors"
)

// Process is a started child process whose exit can be waited on.
type Process interface {
	Wait() error
}

// Spawner is the abstract external process spawner TriggerRunner hands
// dispatch requests to (spec.md §1: "the trigger-process spawner" is an
// abstract capability outside the core's scope). Start only starts the
// process; reaping (Wait) is the caller's responsibility so
// TriggerRunner can bound and drain genuinely outstanding children
// rather than just outstanding Start calls.
type Spawner interface {
	Start(path string, argv, env []string) (Process, error)
}

// execSpawner is the production Spawner, backed by os/exec.
type execSpawner struct{}

var DefaultSpawner Spawner = execSpawner{}

func (execSpawner) Start(path string, argv, env []string) (Process, error) {
	cmd := exec.Command(path, argv...)
	cmd.Env = env
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "trigger %s", path)
	}
	return cmd, nil
}
