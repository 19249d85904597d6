package e2e

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// buildSourcererBinary builds the CLI into a temporary directory
func buildSourcererBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "sourcerer")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/sourcerer")

	// Build from the project root, one level up from e2e
	projectRoot, err := filepath.Abs("..")
	if err != nil {
		t.Fatalf("Failed to get project root: %v", err)
	}
	cmd.Dir = projectRoot

	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build sourcerer binary: %v\n%s", err, out)
	}
	return binaryPath
}

// createTestConfigFile creates a .sourcerer.toml that directs reports to outputDir
func createTestConfigFile(t *testing.T, testDir, outputDir string) {
	t.Helper()
	configFile := filepath.Join(testDir, ".sourcerer.toml")
	configContent := fmt.Sprintf("[output]\ndirectory = \"%s\"\n", filepath.ToSlash(outputDir))
	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}
}

func createTestJavaFile(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", filename, err)
	}
}

// runSourcerer runs the binary in dir and fails the test on a non-zero exit
func runSourcerer(t *testing.T, binaryPath, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("sourcerer %v failed: %v\nStderr: %s", args, err, stderr.String())
	}
	return stdout.String()
}
