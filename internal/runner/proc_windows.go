// SPDX-License-Identifier: MPL-2.0

//go:build windows

package runner

import "os/exec"

// configureProcAttr bounds post-kill waiting on Windows. Job-object style
// group termination is not wired here; exec's default Cancel kills the
// direct child.
func configureProcAttr(cmd *exec.Cmd) {
	cmd.WaitDelay = killWaitDelay
}
