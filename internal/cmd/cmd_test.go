//go:build integration

package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sidelock/sidelock/internal/config"
	"github.com/sidelock/sidelock/internal/lock"
	"github.com/sidelock/sidelock/internal/testutil"
)

// executeCommand runs a cobra command with args and returns captured output
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err = root.Execute()
	return buf.String(), err
}

// resetConfig clears viper state so each test starts from defaults, pointing
// config discovery at a file that does not exist.
func resetConfig(t *testing.T) {
	t.Helper()
	viper.Reset()
	config.SetDefaults()
	viper.Set("config", filepath.Join(t.TempDir(), "no-config.yaml"))
}

// newLockedFile creates a project file with a sidecar recording the given
// holder, returning the project file's path.
func newLockedFile(t *testing.T, dir, name string, h lock.Holder) string {
	t.Helper()

	target := testutil.NewProjectFile(t, dir, name)
	testutil.WriteSidecar(t, target, h)
	return target
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "sidelock" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "sidelock")
	}

	expected := []string{"hold", "inspect", "status", "list", "sweep", "watch"}
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range expected {
		if !names[want] {
			t.Errorf("expected subcommand %q not found", want)
		}
	}
}

func TestStatusCommand_Free(t *testing.T) {
	resetConfig(t)
	dir := t.TempDir()

	target := filepath.Join(dir, "site.qet")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	output, err := executeCommand(rootCmd, "status", target)
	if err != nil {
		t.Fatalf("status failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "free") {
		t.Errorf("output = %q, want it to contain %q", output, "free")
	}
}

func TestStatusCommand_Held(t *testing.T) {
	resetConfig(t)
	target := newLockedFile(t, t.TempDir(), "site.qet", testutil.LiveHolder(t))

	output, err := executeCommand(rootCmd, "status", target)
	var code ExitCode
	if !errors.As(err, &code) || int(code) != 1 {
		t.Fatalf("status err = %v, want ExitCode(1)", err)
	}
	if !strings.Contains(output, "held by qelectrotech") {
		t.Errorf("output = %q, want holder identity", output)
	}
}

func TestStatusCommand_CorruptIsStale(t *testing.T) {
	resetConfig(t)
	dir := t.TempDir()

	target := filepath.Join(dir, "site.qet")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target+lock.DefaultSuffix, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	output, err := executeCommand(rootCmd, "status", target)
	var code ExitCode
	if !errors.As(err, &code) || int(code) != 2 {
		t.Fatalf("status err = %v, want ExitCode(2)", err)
	}
	if !strings.Contains(output, "stale") {
		t.Errorf("output = %q, want stale classification", output)
	}
}

func TestInspectCommand(t *testing.T) {
	resetConfig(t)
	target := newLockedFile(t, t.TempDir(), "site.qet", testutil.LiveHolder(t))

	output, err := executeCommand(rootCmd, "inspect", target)
	if err != nil {
		t.Fatalf("inspect failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "qelectrotech") {
		t.Errorf("output = %q, want app name", output)
	}
}

func TestListCommand(t *testing.T) {
	resetConfig(t)
	dir := t.TempDir()
	newLockedFile(t, dir, "site.qet", testutil.LiveHolder(t))

	output, err := executeCommand(rootCmd, "list", dir)
	if err != nil {
		t.Fatalf("list failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "site.qet") {
		t.Errorf("output = %q, want listed lock", output)
	}
}

func TestListCommand_StaleOnly(t *testing.T) {
	resetConfig(t)
	dir := t.TempDir()
	newLockedFile(t, dir, "live.qet", testutil.LiveHolder(t))

	corrupt := filepath.Join(dir, "broken.qet")
	if err := os.WriteFile(corrupt, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(corrupt+lock.DefaultSuffix, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}

	defer func() { listStaleOnly = false }()
	output, err := executeCommand(rootCmd, "list", "--stale-only", dir)
	if err != nil {
		t.Fatalf("list --stale-only failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "broken.qet") {
		t.Errorf("output = %q, want corrupt lock listed", output)
	}
	if strings.Contains(output, "live.qet") {
		t.Errorf("output = %q, live lock should be filtered out", output)
	}
}

func TestSweepCommand(t *testing.T) {
	resetConfig(t)
	dir := t.TempDir()
	live := newLockedFile(t, dir, "live.qet", testutil.LiveHolder(t))

	corrupt := filepath.Join(dir, "broken.qet")
	if err := os.WriteFile(corrupt, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(corrupt+lock.DefaultSuffix, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Dry run leaves everything in place.
	defer func() { sweepDryRun = false }()
	output, err := executeCommand(rootCmd, "sweep", "--dry-run", dir)
	if err != nil {
		t.Fatalf("sweep --dry-run failed: %v\nOutput: %s", err, output)
	}
	if _, err := os.Stat(corrupt + lock.DefaultSuffix); err != nil {
		t.Fatalf("dry run removed sidecar: %v", err)
	}

	sweepDryRun = false
	output, err = executeCommand(rootCmd, "sweep", dir)
	if err != nil {
		t.Fatalf("sweep failed: %v\nOutput: %s", err, output)
	}
	if _, err := os.Stat(corrupt + lock.DefaultSuffix); !os.IsNotExist(err) {
		t.Error("corrupt sidecar should have been removed")
	}
	if _, err := os.Stat(live + lock.DefaultSuffix); err != nil {
		t.Errorf("live sidecar should survive sweep: %v", err)
	}
}

func TestExitCodeError(t *testing.T) {
	err := error(ExitCode(2))
	if err.Error() != "exit code 2" {
		t.Errorf("Error() = %q", err.Error())
	}
}
