package install

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
)

// Runner executes commands for the manager. The production implementation
// shells out; tests inject a fake to observe the install state machine
// without touching the system.
type Runner interface {
	// Run executes name with args and returns the combined output. A
	// non-zero exit is returned as an error.
	Run(ctx context.Context, name string, args ...string) (string, error)

	// LookPath resolves file on the given search path. An empty path falls
	// back to the process PATH.
	LookPath(file, path string) (string, error)
}

// ExecRunner is the os/exec backed Runner.
type ExecRunner struct{}

// Run executes the command and captures combined output.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// LookPath resolves file against path, or the process PATH when path is empty.
func (ExecRunner) LookPath(file, path string) (string, error) {
	if path == "" {
		return exec.LookPath(file)
	}
	for _, dir := range filepath.SplitList(path) {
		candidate := filepath.Join(dir, file)
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		if info.Mode()&0111 != 0 {
			return candidate, nil
		}
	}
	return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
}
