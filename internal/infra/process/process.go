package process

import (
	"context"
	"errors"
	"os/exec"
)

type Cleanup func()

// Wait blocks until cmd exits and reports its exit code. A non-zero exit is
// not an error; err is set only when the wait itself failed or ctx ended first.
// A process terminated by a signal reports -1.
func Wait(ctx context.Context, cmd *exec.Cmd) (int, error) {
	if cmd == nil {
		return 0, nil
	}
	err := cmd.Wait()
	if ctx != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return -1, ctxErr
		}
	}
	return exitCode(err)
}

func exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
