// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package runner

import (
	"os/exec"
	"syscall"
)

// configureProcAttr places the child in its own process group so that
// cancellation kills the group, not just the direct child. Without this, a
// build script's grandchildren would survive a reported timeout.
func configureProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		// Negative pid addresses the whole process group.
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = killWaitDelay
}
