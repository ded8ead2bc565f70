package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/inventree/plugin-creator/internal/branding"
	"github.com/inventree/plugin-creator/internal/cleanup"
	"github.com/inventree/plugin-creator/internal/config"
	"github.com/inventree/plugin-creator/internal/pkgmgr"
	"github.com/inventree/plugin-creator/internal/project"
	"github.com/inventree/plugin-creator/internal/prompt"
	"github.com/inventree/plugin-creator/internal/scaffold"
	"github.com/inventree/plugin-creator/internal/ui"
	"github.com/inventree/plugin-creator/internal/wizard"
	"github.com/spf13/cobra"
)

func runCreate(cmd *cobra.Command, args []string) error {
	store, err := configStore()
	if err != nil {
		return err
	}

	var p prompt.Prompter = prompt.Defaults{}
	if !flagDefault {
		p = prompt.New(cmd.Context(), os.Stdin, os.Stdout)
	}

	_, err = generate(cmd.Context(), generateOptions{
		Prompter:    p,
		Store:       store,
		Template:    scaffold.Embedded(),
		OutputDir:   flagOutput,
		SkipInstall: flagSkipInstall,
		NoSave:      flagNoSave,
		Version:     buildVersion,
		Reporter:    ui.New(cmd.ErrOrStderr()),
	})
	return err
}

// generateOptions is the resolved input of one scaffolding run.
type generateOptions struct {
	Prompter    prompt.Prompter
	Store       *config.Store
	Template    fs.FS
	OutputDir   string
	SkipInstall bool
	NoSave      bool
	Installer   pkgmgr.Installer // nil means npm
	Version     string
	Year        int // zero means the current year
	Reporter    *ui.Reporter
}

// generateResult describes a completed run.
type generateResult struct {
	Context    project.Context
	ProjectDir string
	Files      []string
	Cleanup    *cleanup.Report
}

// generate loads stored defaults, gathers answers, saves them, renders the
// template and cleans up the result. Failed dependency installs do not stop
// the run; they are summarised and reported as the returned error once the
// project is complete. A cancelled ctx stops the run before anything is
// written.
func generate(ctx context.Context, o generateOptions) (*generateResult, error) {
	rep := o.Reporter
	if rep == nil {
		rep = ui.Discard()
	}
	year := o.Year
	if year == 0 {
		year = time.Now().Year()
	}

	rep.Info("%s", branding.DisplayName())

	loaded, err := o.Store.Load(project.Defaults(o.Version))
	if err != nil {
		return nil, err
	}
	for _, w := range loaded.Warnings {
		rep.Warn("%s", w)
	}

	pc, err := wizard.Gather(o.Prompter, loaded.Context, wizard.Options{Year: year, Reporter: rep})
	if err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			return nil, fmt.Errorf("aborted: %w", err)
		}
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("aborted: %w: %w", prompt.ErrAborted, err)
	}

	if !o.NoSave {
		if err := o.Store.Save(pc); err != nil {
			return nil, fmt.Errorf("saving defaults: %w", err)
		}
		rep.Detail("saved answers to %s", o.Store.Path())
	}

	outputDir, err := filepath.Abs(o.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("resolving output directory: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("aborted: %w: %w", prompt.ErrAborted, err)
	}
	rendered, err := scaffold.Render(o.Template, &pc, outputDir, o.Version)
	if err != nil {
		return nil, fmt.Errorf("rendering template: %w", err)
	}
	for _, w := range rendered.Warnings {
		rep.Warn("%s", w)
	}

	report, err := cleanup.Run(ctx, rendered.ProjectDir, &pc, cleanup.Options{
		SkipInstall: o.SkipInstall,
		Installer:   o.Installer,
		Reporter:    rep,
	})
	if err != nil {
		return nil, fmt.Errorf("cleaning up project: %w", err)
	}

	result := &generateResult{
		Context:    pc,
		ProjectDir: rendered.ProjectDir,
		Files:      rendered.Files,
		Cleanup:    report,
	}

	if report.Failed() {
		rep.Warn("plugin created in %s, but some frontend dependencies are missing:", rendered.ProjectDir)
		for _, f := range report.Failures {
			rep.Detail("- %s", f.Error())
		}
		rep.Detail("run the failed steps by hand inside %s", filepath.Join(rendered.ProjectDir, cleanup.FrontendDir))
		return result, fmt.Errorf("%d dependency install step(s) failed", len(report.Failures))
	}

	rep.Success("Plugin created -> '%s'", rendered.ProjectDir)
	rep.Detail("plugin developer docs: %s", branding.DocsURL())
	return result, nil
}
