package pkgmgr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Installer adds packages to a frontend directory.
type Installer interface {
	// Install adds a single package to the project in dir.
	Install(ctx context.Context, dir, pkg string) error
	// Update refreshes every installed package in dir.
	Update(ctx context.Context, dir string) error
}

// NPM runs the npm command line.
type NPM struct {
	// Bin is the npm executable; defaults to "npm" on PATH.
	Bin string
	// Stdout and Stderr can be set for testing; defaults to os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// Install runs `npm install <pkg>` in dir.
func (n *NPM) Install(ctx context.Context, dir, pkg string) error {
	return n.run(ctx, dir, "install", pkg)
}

// Update runs `npm update` in dir.
func (n *NPM) Update(ctx context.Context, dir string) error {
	return n.run(ctx, dir, "update")
}

func (n *NPM) run(ctx context.Context, dir string, args ...string) error {
	name := n.Bin
	if name == "" {
		name = "npm"
	}
	bin, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("frontend dependencies require npm: %w", err)
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	cmd.Env = buildEnv()

	stdout := n.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := n.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	var stderrBuf bytes.Buffer
	cmd.Stdout = stdout
	cmd.Stderr = io.MultiWriter(stderr, &stderrBuf)

	command := "npm " + strings.Join(args, " ")
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if last := lastLine(stderrBuf.String()); last != "" {
				return fmt.Errorf("%s exited with code %d: %s", command, exitErr.ExitCode(), last)
			}
			return fmt.Errorf("%s exited with code %d", command, exitErr.ExitCode())
		}
		return fmt.Errorf("running %s: %w", command, err)
	}
	return nil
}

// buildEnv inherits the process environment and silences npm's funding and
// audit banners.
func buildEnv() []string {
	env := os.Environ()
	env = setEnv(env, "npm_config_fund", "false")
	env = setEnv(env, "npm_config_audit", "false")
	return env
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
