//go:build unix

package lock

import (
	"os"
	"os/exec"
	"testing"
)

func TestProcessLivenessAliveSelf(t *testing.T) {
	alive, err := processLiveness{}.Alive(os.Getpid())
	if err != nil {
		t.Fatalf("Alive() error: %v", err)
	}
	if !alive {
		t.Error("Alive() = false for our own PID")
	}
}

func TestProcessLivenessDeadProcess(t *testing.T) {
	// Spawn and reap a child so its PID is known-dead.
	cmd := exec.Command("true")
	if err := cmd.Run(); err != nil {
		t.Fatalf("failed to run child process: %v", err)
	}
	pid := cmd.Process.Pid

	alive, err := processLiveness{}.Alive(pid)
	if err != nil {
		t.Fatalf("Alive() error: %v", err)
	}
	if alive {
		t.Errorf("Alive() = true for reaped PID %d", pid)
	}
}

func TestProcessLivenessInvalidPID(t *testing.T) {
	for _, pid := range []int{0, -1} {
		alive, err := processLiveness{}.Alive(pid)
		if err != nil {
			t.Fatalf("Alive(%d) error: %v", pid, err)
		}
		if alive {
			t.Errorf("Alive(%d) = true, want false", pid)
		}
	}
}
