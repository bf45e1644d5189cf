//go:build !linux && !darwin

package process

import "os/exec"

// Setup relies on exec's default cancellation, which kills only the direct child.
func Setup(cmd *exec.Cmd) Cleanup {
	return func() {
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
	}
}
