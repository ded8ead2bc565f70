// Package cleanup trims a freshly rendered plugin project down to the options
// that were selected and installs its frontend dependencies.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/inventree/plugin-creator/internal/pkgmgr"
	"github.com/inventree/plugin-creator/internal/project"
	"github.com/inventree/plugin-creator/internal/ui"
)

// Paths inside a generated project that cleanup acts on.
const (
	FrontendDir = "frontend"
	GitHubDir   = ".github"
	GitLabFile  = ".gitlab-ci.yml"
)

// Options control a cleanup run.
type Options struct {
	// SkipInstall disables every package manager invocation.
	SkipInstall bool
	// Installer runs package installs. Nil means npm.
	Installer pkgmgr.Installer
	// Reporter receives progress lines. Nil discards them.
	Reporter *ui.Reporter
}

// Failure is an install step that did not succeed.
type Failure struct {
	Step string // e.g. "npm install react"
	Err  error
}

func (f Failure) Error() string { return f.Step + ": " + f.Err.Error() }

// Report lists what cleanup did.
type Report struct {
	Removed   []string // project-relative paths that were deleted
	Installed []string // packages installed successfully
	Failures  []Failure
}

// Failed reports whether any install step failed.
func (r *Report) Failed() bool { return len(r.Failures) > 0 }

// Run applies the selected options to the project in projectDir. Filesystem
// errors abort the run; package manager failures are recorded in the report
// and the remaining steps still run.
func Run(ctx context.Context, projectDir string, pc *project.Context, opts Options) (*Report, error) {
	rep := opts.Reporter
	if rep == nil {
		rep = ui.Discard()
	}
	installer := opts.Installer
	if installer == nil {
		installer = &pkgmgr.NPM{Stdout: rep.Writer(), Stderr: rep.Writer()}
	}

	report := &Report{}
	c := &cleaner{dir: projectDir, rep: rep, report: report}

	if !pc.Frontend.Enabled {
		rep.Info("- Removing frontend code...")
		if err := c.remove(FrontendDir); err != nil {
			return report, err
		}
	} else {
		for _, f := range project.FrontendFeatures {
			if pc.Frontend.Features[f.ID] {
				continue
			}
			if err := c.remove(filepath.Join(FrontendDir, project.FeatureSources[f.ID])); err != nil {
				return report, err
			}
		}
		if opts.SkipInstall {
			rep.Info("- Skipping frontend dependency installation")
		} else {
			installFrontend(ctx, filepath.Join(projectDir, FrontendDir), pc.Frontend.Packages, installer, rep, report)
		}
	}

	if pc.CIMode != project.CIGitHub {
		if err := c.remove(GitHubDir); err != nil {
			return report, err
		}
	}
	if pc.CIMode != project.CIGitLab {
		if err := c.remove(GitLabFile); err != nil {
			return report, err
		}
	}

	return report, nil
}

type cleaner struct {
	dir    string
	rep    *ui.Reporter
	report *Report
}

// remove deletes rel and everything below it. A missing path is not an error.
func (c *cleaner) remove(rel string) error {
	target := filepath.Join(c.dir, rel)
	if _, err := os.Lstat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("checking %s: %w", target, err)
	}
	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("removing %s: %w", target, err)
	}
	c.report.Removed = append(c.report.Removed, filepath.ToSlash(rel))
	c.rep.Detail("removed %s", filepath.ToSlash(rel))
	return nil
}

// installFrontend installs the enforced packages, then the selected ones,
// one at a time, then refreshes them all.
func installFrontend(ctx context.Context, dir string, selected []string, inst pkgmgr.Installer, rep *ui.Reporter, report *Report) {
	rep.Info("- Installing frontend dependencies...")

	packages := append([]string{}, project.EnforcedPackages...)
	packages = append(packages, selected...)

	for _, pkg := range packages {
		rep.Detail("installing %s", pkg)
		if err := inst.Install(ctx, dir, pkg); err != nil {
			rep.Warn("installing %s failed: %v", pkg, err)
			report.Failures = append(report.Failures, Failure{Step: "npm install " + pkg, Err: err})
			continue
		}
		report.Installed = append(report.Installed, pkg)
	}

	if err := inst.Update(ctx, dir); err != nil {
		rep.Warn("updating frontend packages failed: %v", err)
		report.Failures = append(report.Failures, Failure{Step: "npm update", Err: err})
	}
}
