//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir    string // HOME, so the default config location is sandboxed
	ConfigPath string // PLUGIN_CREATOR_CONFIG
	OutputDir  string // where plugins are generated
	NPMLog     string // calls recorded by the fake npm
	NPMBin     string // fake npm executable
}

// setupTestEnv creates isolated temp directories and sets environment variables
// so no run touches the real home directory. The env vars are restored after
// the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:   t.TempDir(),
		OutputDir: t.TempDir(),
	}
	env.ConfigPath = filepath.Join(env.HomeDir, ".inventree-plugin-creator", "config.yaml")

	t.Setenv("HOME", env.HomeDir)
	t.Setenv("PLUGIN_CREATOR_CONFIG", env.ConfigPath)

	return env
}

// setupFakeNPM writes a POSIX shell script standing in for npm. It records
// each invocation and creates node_modules/<pkg> for installs.
func setupFakeNPM(t *testing.T, env *testEnv) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake npm requires a POSIX shell")
	}

	binDir := t.TempDir()
	env.NPMLog = filepath.Join(binDir, "npm.log")
	env.NPMBin = filepath.Join(binDir, "npm")
	writeFile(t, env.NPMBin, `#!/bin/sh
echo "$*" >> "`+env.NPMLog+`"
if [ "$1" = "install" ]; then
  mkdir -p "node_modules/$2"
fi
`)
	if err := os.Chmod(env.NPMBin, 0755); err != nil {
		t.Fatal(err)
	}
}

// npmCalls returns the recorded fake npm invocations.
func npmCalls(t *testing.T, env *testEnv) []string {
	t.Helper()
	data, err := os.ReadFile(env.NPMLog)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s", path)
	}
}

func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file to not exist: %s", path)
	}
}

func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory to exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory", path)
	}
}

func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q", path, substr)
	}
}
