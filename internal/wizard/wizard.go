// Package wizard gathers plugin information from the user and turns it into a
// complete project.Context.
package wizard

import (
	"fmt"
	"strings"
	"time"

	"github.com/inventree/plugin-creator/internal/license"
	"github.com/inventree/plugin-creator/internal/naming"
	"github.com/inventree/plugin-creator/internal/project"
	"github.com/inventree/plugin-creator/internal/prompt"
	"github.com/inventree/plugin-creator/internal/ui"
)

// Options tune a Gather run.
type Options struct {
	// Year stamps the rendered license. Zero means the current year.
	Year int
	// Reporter receives progress lines. Nil discards them.
	Reporter *ui.Reporter
}

func (o Options) year() int {
	if o.Year == 0 {
		return time.Now().Year()
	}
	return o.Year
}

func (o Options) reporter() *ui.Reporter {
	if o.Reporter == nil {
		return ui.Discard()
	}
	return o.Reporter
}

// Gather asks every question in order, using ctx as the source of defaults,
// and returns the completed context. ctx itself is not modified.
func Gather(p prompt.Prompter, ctx project.Context, opts Options) (project.Context, error) {
	out := ctx.Clone()
	rep := opts.reporter()

	rep.Info("Enter project information:")

	title, err := p.Text(prompt.TextQuestion{
		Message:  "Enter plugin name",
		Default:  out.PluginTitle,
		Validate: naming.ValidateTitle,
	})
	if err != nil {
		return out, fmt.Errorf("plugin name: %w", err)
	}
	out.PluginTitle = strings.TrimSpace(title)

	desc, err := p.Text(prompt.TextQuestion{
		Message:  "Enter plugin description",
		Default:  out.PluginDescription,
		Validate: naming.PlainText,
	})
	if err != nil {
		return out, fmt.Errorf("plugin description: %w", err)
	}
	out.PluginDescription = strings.TrimSpace(desc)

	out.Derive()
	rep.Success("Generating plugin '%s' - %s", out.PluginTitle, out.PluginDescription)
	rep.Detail("- Package Name: %s", out.PackageName)

	rep.Info("Enter author information:")

	if out.AuthorName, err = askText(p, "Author name", out.AuthorName, naming.PlainText); err != nil {
		return out, err
	}
	if out.AuthorEmail, err = askText(p, "Author email", out.AuthorEmail, naming.SingleLine); err != nil {
		return out, err
	}
	if out.ProjectURL, err = askText(p, "Project URL", out.ProjectURL, naming.SingleLine); err != nil {
		return out, err
	}

	if out.LicenseKey, err = selectLicense(p, out.LicenseKey); err != nil {
		return out, err
	}

	rep.Info("Enter plugin structure information:")

	mixins, err := p.MultiSelect(prompt.MultiSelectQuestion{
		Message:  "Select plugin mixins",
		Choices:  choices(project.Mixins),
		Defaults: out.Mixins,
	})
	if err != nil {
		return out, fmt.Errorf("plugin mixins: %w", err)
	}
	out.Mixins = mixins

	if out.Frontend, err = gatherFrontend(p, out.Frontend); err != nil {
		return out, err
	}
	if out.Frontend.Enabled && !out.HasMixin(project.UIMixin) {
		out.Mixins = project.Known(project.Mixins, append(out.Mixins, project.UIMixin))
		rep.Detail("- Added %s (required for frontend code)", project.UIMixin)
	}

	ci, err := p.Select(prompt.SelectQuestion{
		Message: "Select CI configuration",
		Choices: choices(project.CIModes),
		Default: out.CIMode,
	})
	if err != nil {
		return out, fmt.Errorf("CI mode: %w", err)
	}
	out.CIMode = ci

	if err := Complete(&out, opts.year()); err != nil {
		return out, err
	}
	return out, nil
}

// Complete recomputes every derived field of ctx.
func Complete(ctx *project.Context, year int) error {
	ctx.Derive()
	if err := ctx.RenderLicense(year); err != nil {
		return fmt.Errorf("rendering license: %w", err)
	}
	return nil
}

// gatherFrontend asks the frontend toggle and, only when it is accepted, the
// package and feature questions. A declined toggle yields empty defaults.
func gatherFrontend(p prompt.Prompter, prev project.Frontend) (project.Frontend, error) {
	enabled, err := p.Confirm(prompt.ConfirmQuestion{
		Message: "Add frontend code?",
		Default: prev.Enabled,
	})
	if err != nil {
		return prev, fmt.Errorf("frontend: %w", err)
	}
	if !enabled {
		return project.Frontend{
			Enabled:  false,
			Packages: []string{},
			Features: project.NoFeatures(),
		}, nil
	}

	packages, err := p.MultiSelect(prompt.MultiSelectQuestion{
		Message:  "Select frontend packages to install",
		Choices:  choices(project.FrontendPackages),
		Defaults: prev.Packages,
	})
	if err != nil {
		return prev, fmt.Errorf("frontend packages: %w", err)
	}

	// A first enable preselects every feature.
	defaults := project.IDs(project.FrontendFeatures)
	if prev.Enabled && len(prev.Features) > 0 {
		defaults = defaults[:0]
		for _, f := range project.FrontendFeatures {
			if prev.Features[f.ID] {
				defaults = append(defaults, f.ID)
			}
		}
	}

	selected, err := p.MultiSelect(prompt.MultiSelectQuestion{
		Message:  "Select frontend features to enable",
		Choices:  choices(project.FrontendFeatures),
		Defaults: defaults,
	})
	if err != nil {
		return prev, fmt.Errorf("frontend features: %w", err)
	}

	features := project.NoFeatures()
	for _, id := range selected {
		features[id] = true
	}
	return project.Frontend{
		Enabled:  true,
		Packages: packages,
		Features: features,
	}, nil
}

func selectLicense(p prompt.Prompter, current string) (string, error) {
	if current == "" {
		current = license.DefaultID
	}
	lics := license.List()
	cs := make([]prompt.Choice, len(lics))
	for i, l := range lics {
		cs[i] = prompt.Choice{Value: l.ID, Label: l.Name}
	}

	key, err := p.Select(prompt.SelectQuestion{
		Message: "Select a license",
		Choices: cs,
		Default: current,
	})
	if err != nil {
		return "", fmt.Errorf("license: %w", err)
	}
	return key, nil
}

func askText(p prompt.Prompter, message, def string, v prompt.Validator) (string, error) {
	answer, err := p.Text(prompt.TextQuestion{Message: message, Default: def, Validate: v})
	if err != nil {
		return "", fmt.Errorf("%s: %w", strings.ToLower(message), err)
	}
	return strings.TrimSpace(answer), nil
}

func choices(opts []project.Option) []prompt.Choice {
	cs := make([]prompt.Choice, len(opts))
	for i, o := range opts {
		cs[i] = prompt.Choice{Value: o.ID, Label: o.Label}
	}
	return cs
}
