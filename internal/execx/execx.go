// internal/execx/execx.go
package execx

import (
	"fmt"
	"os/exec"
)

// Runner abstracts external process invocation so the transcoder and model
// tools can be substituted by fakes in tests without spawning real processes.
type Runner interface {
	// Run executes the command and returns its combined output. The output
	// is returned even when the command fails, since tools like ffmpeg put
	// diagnostics (and sometimes results) on stderr.
	Run(name string, args ...string) ([]byte, error)

	// LookPath reports where the named executable lives, or an error when it
	// is not installed.
	LookPath(name string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(name string, args ...string) ([]byte, error) {
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%s failed: %v\nOutput: %s", name, err, string(out))
	}
	return out, nil
}

func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
