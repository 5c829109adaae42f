package extproc

import (
	"context"
	"os/exec"
)

// runCommand executes a pre-split command line and returns combined output.
// The timer prefix may contain literal tabs inside a single argument, so the
// caller splits on spaces only.
func runCommand(ctx context.Context, parts []string) (string, error) {
	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}
