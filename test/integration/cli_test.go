package integration

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
)

// fakeRuntimeScript records its arguments one per line and exits with $FAKE_EXIT.
const fakeRuntimeScript = `#!/bin/sh
for arg in "$@"; do
  printf '%s\n' "$arg" >> "$FAKE_ARGS_FILE"
done
exit "${FAKE_EXIT:-0}"
`

type cliEnv struct {
	binary   string
	runtime  string
	argsFile string
	socket   string
	logDir   string
}

func setupCLI(t *testing.T) *cliEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("Skipping shell-based CLI tests on Windows")
	}

	tempDir := t.TempDir()
	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	binaryPath := filepath.Join(tempDir, "cbenchf")
	buildCmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/cbenchf")
	buildCmd.Dir = originalDir
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build CLI binary: %v\n%s", err, output)
	}

	runtimePath := filepath.Join(tempDir, "fake-docker")
	if err := os.WriteFile(runtimePath, []byte(fakeRuntimeScript), 0755); err != nil {
		t.Fatal(err)
	}

	// A regular file we own stands in for the daemon socket.
	socketPath := filepath.Join(tempDir, "docker.sock")
	if err := os.WriteFile(socketPath, nil, 0600); err != nil {
		t.Fatal(err)
	}

	return &cliEnv{
		binary:   binaryPath,
		runtime:  runtimePath,
		argsFile: filepath.Join(tempDir, "args.txt"),
		socket:   socketPath,
		logDir:   filepath.Join(tempDir, "logs"),
	}
}

func (e *cliEnv) command(exitCode string, args ...string) *exec.Cmd {
	cmd := exec.Command(e.binary, args...)
	cmd.Dir = filepath.Dir(e.binary)
	cmd.Env = append(os.Environ(),
		"CBENCHF_LOG_DIR="+e.logDir,
		"CBENCHF_SOCKET_PATH="+e.socket,
		"CBENCHF_RUNTIME_BINARY="+e.runtime,
		"FAKE_ARGS_FILE="+e.argsFile,
		"FAKE_EXIT="+exitCode,
	)
	return cmd
}

func (e *cliEnv) recordedArgs(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(e.argsFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestCLI_Run_Detached(t *testing.T) {
	env := setupCLI(t)

	output, err := env.command("0", "run", "--image", "alpine:latest", "echo hi").CombinedOutput()
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, output)
	}

	want := []string{"run", "-d", "alpine:latest", "echo hi"}
	if got := env.recordedArgs(t); !slices.Equal(got, want) {
		t.Errorf("runtime args = %q, want %q", got, want)
	}
	if !strings.Contains(string(output), "Started alpine:latest in detached mode") {
		t.Errorf("expected success message, got: %s", output)
	}
}

func TestCLI_Run_Foreground(t *testing.T) {
	env := setupCLI(t)

	output, err := env.command("0", "run", "-i", "alpine:latest", "--foreground", "echo hi").CombinedOutput()
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, output)
	}

	want := []string{"run", "alpine:latest", "echo hi"}
	if got := env.recordedArgs(t); !slices.Equal(got, want) {
		t.Errorf("runtime args = %q, want %q", got, want)
	}
}

func TestCLI_Run_DefaultImageFromConfig(t *testing.T) {
	env := setupCLI(t)

	configPath := filepath.Join(filepath.Dir(env.binary), "config.yaml")
	if err := os.WriteFile(configPath, []byte("default_image: busybox:1.36\ndetached: false\n"), 0644); err != nil {
		t.Fatal(err)
	}

	output, err := env.command("0", "--config", configPath, "run", "uptime").CombinedOutput()
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, output)
	}

	want := []string{"run", "busybox:1.36", "uptime"}
	if got := env.recordedArgs(t); !slices.Equal(got, want) {
		t.Errorf("runtime args = %q, want %q", got, want)
	}
}

func TestCLI_Run_PropagatesExitCode(t *testing.T) {
	env := setupCLI(t)

	output, err := env.command("3", "run", "--image", "alpine:latest", "false").CombinedOutput()

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected exit error, got %v\n%s", err, output)
	}
	if exitErr.ExitCode() != 3 {
		t.Errorf("exit code = %d, want 3", exitErr.ExitCode())
	}

	for _, part := range []string{"Error:", "Container run failed", "Cause:", "exited with status 3"} {
		if !strings.Contains(string(output), part) {
			t.Errorf("Expected output to contain %q, but got: %s", part, output)
		}
	}

	if _, err := os.Stat(filepath.Join(env.logDir, "cbenchf.log")); os.IsNotExist(err) {
		t.Error("Expected cbenchf.log to be created")
	}
}

func TestCLI_Run_MissingSocket(t *testing.T) {
	env := setupCLI(t)

	cmd := env.command("0", "run", "--image", "alpine:latest", "--socket", filepath.Join(env.logDir, "missing.sock"), "echo hi")
	output, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatal("Expected command to fail but it succeeded")
	}

	if !strings.Contains(string(output), "Cannot inspect the container runtime socket") {
		t.Errorf("unexpected output: %s", output)
	}
	if args := env.recordedArgs(t); args != nil {
		t.Errorf("runtime must not be invoked, got args %q", args)
	}
}

func TestCLI_Run_PermissionDenied(t *testing.T) {
	env := setupCLI(t)

	// /etc/passwd is owned by root:root on the systems we run on.
	groups, _ := os.Getgroups()
	if os.Geteuid() == 0 || slices.Contains(groups, 0) {
		t.Skip("Skipping permission-denied test for root or members of group 0")
	}

	output, err := env.command("0", "run", "--image", "alpine:latest", "--socket", "/etc/passwd", "echo hi").CombinedOutput()
	if err == nil {
		t.Fatal("Expected command to fail but it succeeded")
	}

	if got := strings.Count(string(output), "You don't have permission to use the Docker socket."); got != 1 {
		t.Errorf("diagnostic printed %d times, want 1:\n%s", got, output)
	}
	if args := env.recordedArgs(t); args != nil {
		t.Errorf("runtime must not be invoked, got args %q", args)
	}
}

func TestCLI_Run_NoImage(t *testing.T) {
	env := setupCLI(t)

	output, err := env.command("0", "run", "echo hi").CombinedOutput()
	if err == nil {
		t.Fatal("Expected command to fail but it succeeded")
	}
	if !strings.Contains(string(output), "No image to run") {
		t.Errorf("unexpected output: %s", output)
	}
}

func TestCLI_Check(t *testing.T) {
	env := setupCLI(t)

	output, err := env.command("0", "check").CombinedOutput()
	if err != nil {
		t.Fatalf("check failed: %v\n%s", err, output)
	}
	if !strings.Contains(string(output), "You have permission to use "+env.socket) {
		t.Errorf("unexpected output: %s", output)
	}
}

func TestCLI_InvalidConfig(t *testing.T) {
	env := setupCLI(t)

	output, err := env.command("0", "check", "--log-level", "chatty").CombinedOutput()
	if err == nil {
		t.Fatal("Expected command to fail but it succeeded")
	}
	for _, part := range []string{"Failed to load configuration", "Cause:", "LogLevel", "must be one of", "Suggestion:"} {
		if !strings.Contains(string(output), part) {
			t.Errorf("Expected output to contain %q, but got: %s", part, output)
		}
	}
}
