package process

// Notes:
// - KillProcessGroup: we only test with an invalid PID to verify the function
//   doesn't panic. Cancellation of a real child is covered by
//   TestConfigure_CancelStopsChild on Unix.
// - Cannot test with PID 0 (kills current process group) or real PIDs.
// These are acceptable gaps: we test observable behavior, not syscall internals.

import (
	"context"
	"os/exec"
	"runtime"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestKillProcessGroup - Invalid PID Handling
// ---------------------------------------------------------------------------

func TestKillProcessGroup_InvalidPID(t *testing.T) {
	t.Parallel()

	KillProcessGroup(999999999)
}

// ---------------------------------------------------------------------------
// TestConfigure - Context cancellation
// ---------------------------------------------------------------------------

func TestConfigure_SetsCancel(t *testing.T) {
	t.Parallel()

	cmd := exec.Command("true")
	Configure(cmd)

	if cmd.Cancel == nil {
		t.Fatal("Cancel not set")
	}
	if cmd.WaitDelay != WaitDelay {
		t.Errorf("WaitDelay = %v, want %v", cmd.WaitDelay, WaitDelay)
	}
	if cmd.SysProcAttr == nil {
		t.Error("SysProcAttr not set")
	}
	if err := cmd.Cancel(); err != nil {
		t.Errorf("Cancel before Start = %v, want nil", err)
	}
}

func TestConfigure_CancelStopsChild(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", "sleep 30 & wait")
	Configure(cmd)

	start := time.Now()
	err := cmd.Run()
	if err == nil {
		t.Fatal("expected error from cancelled command")
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("command ran %v after cancellation", elapsed)
	}
}
