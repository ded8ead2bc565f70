package project

import (
	"slices"

	"github.com/inventree/plugin-creator/internal/license"
	"github.com/inventree/plugin-creator/internal/naming"
)

// Context holds every value available to the plugin template. The mapstructure
// tags are the keys used in the config file and by environment overrides.
type Context struct {
	PluginTitle       string `mapstructure:"plugin_title"`
	PluginDescription string `mapstructure:"plugin_description"`
	PluginName        string `mapstructure:"-"` // Derived: "CustomPlugin"
	PluginSlug        string `mapstructure:"-"` // Derived: "custom-plugin"
	PackageName       string `mapstructure:"-"` // Derived: "custom_plugin"

	AuthorName  string `mapstructure:"author_name"`
	AuthorEmail string `mapstructure:"author_email"`
	ProjectURL  string `mapstructure:"project_url"`

	LicenseKey  string `mapstructure:"license_key"`
	LicenseText string `mapstructure:"-"` // Derived from LicenseKey and author fields

	Mixins   []string `mapstructure:"mixins"`
	Frontend Frontend `mapstructure:"frontend"`
	CIMode   string   `mapstructure:"ci_mode"`

	// Version is the tool version that produced this context.
	Version string `mapstructure:"version"`
}

// Frontend groups the optional frontend code options.
type Frontend struct {
	Enabled  bool            `mapstructure:"enabled"`
	Packages []string        `mapstructure:"packages"`
	Features map[string]bool `mapstructure:"features"`
}

// HasFeature reports whether the frontend is enabled and the feature selected.
func (f Frontend) HasFeature(name string) bool {
	return f.Enabled && f.Features[name]
}

// HasMixin reports whether the named mixin was selected.
func (c *Context) HasMixin(name string) bool {
	return slices.Contains(c.Mixins, name)
}

// Derive recomputes the name fields from PluginTitle.
func (c *Context) Derive() {
	c.PluginName = naming.PluginName(c.PluginTitle)
	c.PluginSlug = naming.Slug(c.PluginTitle)
	c.PackageName = naming.PackageName(c.PluginTitle)
}

// RenderLicense fills LicenseText from LicenseKey and the author fields.
func (c *Context) RenderLicense(year int) error {
	text, err := license.Render(c.LicenseKey, c.AuthorName, c.AuthorEmail, year)
	if err != nil {
		return err
	}
	c.LicenseText = text
	return nil
}

// Clone returns a deep copy so callers can mutate slices and maps freely.
func (c Context) Clone() Context {
	c.Mixins = slices.Clone(c.Mixins)
	c.Frontend.Packages = slices.Clone(c.Frontend.Packages)
	if c.Frontend.Features != nil {
		features := make(map[string]bool, len(c.Frontend.Features))
		for k, v := range c.Frontend.Features {
			features[k] = v
		}
		c.Frontend.Features = features
	}
	return c
}

// Values flattens the persisted (non-derived) keys into a nested map suitable
// for a config file.
func (c Context) Values() map[string]any {
	features := make(map[string]any, len(FrontendFeatures))
	for _, f := range FrontendFeatures {
		features[f.ID] = c.Frontend.Features[f.ID]
	}
	return map[string]any{
		"plugin_title":       c.PluginTitle,
		"plugin_description": c.PluginDescription,
		"author_name":        c.AuthorName,
		"author_email":       c.AuthorEmail,
		"project_url":        c.ProjectURL,
		"license_key":        c.LicenseKey,
		"mixins":             nonNil(c.Mixins),
		"frontend": map[string]any{
			"enabled":  c.Frontend.Enabled,
			"packages": nonNil(c.Frontend.Packages),
			"features": features,
		},
		"ci_mode": c.CIMode,
		"version": c.Version,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Defaults returns the static fallback context used when no config exists.
func Defaults(version string) Context {
	c := Context{
		PluginTitle:       "Custom Plugin",
		PluginDescription: "A custom InvenTree plugin",
		AuthorName:        "Plugin Author",
		AuthorEmail:       "",
		ProjectURL:        "",
		LicenseKey:        license.DefaultID,
		Mixins:            slices.Clone(DefaultMixins),
		Frontend: Frontend{
			Enabled:  true,
			Packages: []string{},
			Features: AllFeatures(),
		},
		CIMode:  CIGitHub,
		Version: version,
	}
	c.Derive()
	return c
}
