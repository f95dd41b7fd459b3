// Package process runs external tools so that cancelling the context also
// stops every child they spawned. Pandoc forks Lua and filter processes
// (pandoc-crossref, citeproc helpers) that would otherwise outlive a timeout.
package process

import (
	"os/exec"
	"time"
)

// WaitDelay bounds how long Wait blocks on output pipes after the process
// group was killed.
const WaitDelay = 2 * time.Second

// Configure puts cmd in its own process group and makes context
// cancellation kill the whole group. Call it before cmd.Start.
func Configure(cmd *exec.Cmd) {
	setGroup(cmd)
	cmd.WaitDelay = WaitDelay
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		KillProcessGroup(cmd.Process.Pid)
		return cmd.Process.Kill()
	}
}
