package wizard

import (
	"bytes"
	"strings"
	"testing"

	"github.com/inventree/plugin-creator/internal/project"
	"github.com/inventree/plugin-creator/internal/prompt"
	"github.com/inventree/plugin-creator/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted answers questions by message and records what was asked.
type scripted struct {
	text    map[string]string
	confirm map[string]bool
	sel     map[string]string
	multi   map[string][]string
	asked   []string
}

func (s *scripted) Text(q prompt.TextQuestion) (string, error) {
	s.asked = append(s.asked, q.Message)
	if v, ok := s.text[q.Message]; ok {
		return v, nil
	}
	return q.Default, nil
}

func (s *scripted) Confirm(q prompt.ConfirmQuestion) (bool, error) {
	s.asked = append(s.asked, q.Message)
	if v, ok := s.confirm[q.Message]; ok {
		return v, nil
	}
	return q.Default, nil
}

func (s *scripted) Select(q prompt.SelectQuestion) (string, error) {
	s.asked = append(s.asked, q.Message)
	if v, ok := s.sel[q.Message]; ok {
		return v, nil
	}
	return q.Default, nil
}

func (s *scripted) MultiSelect(q prompt.MultiSelectQuestion) ([]string, error) {
	s.asked = append(s.asked, q.Message)
	if v, ok := s.multi[q.Message]; ok {
		return v, nil
	}
	return q.Defaults, nil
}

func TestGather_AllAnswers(t *testing.T) {
	p := &scripted{
		text: map[string]string{
			"Enter plugin name":        "Stock Helper",
			"Enter plugin description": "Helps with stock",
			"Author name":              "Jane Doe",
			"Author email":             "jane@example.com",
			"Project URL":              "https://example.com/stock-helper",
		},
		confirm: map[string]bool{"Add frontend code?": true},
		sel: map[string]string{
			"Select a license":        "BSD-3-Clause",
			"Select CI configuration": project.CIGitLab,
		},
		multi: map[string][]string{
			"Select plugin mixins":                {"EventMixin", "SettingsMixin"},
			"Select frontend packages to install": {"@mantine/charts"},
			"Select frontend features to enable":  {project.FeaturePanel},
		},
	}

	var out bytes.Buffer
	got, err := Gather(p, project.Defaults("dev"), Options{Year: 2024, Reporter: ui.New(&out)})
	require.NoError(t, err)

	assert.Equal(t, "Stock Helper", got.PluginTitle)
	assert.Equal(t, "StockHelper", got.PluginName)
	assert.Equal(t, "stock-helper", got.PluginSlug)
	assert.Equal(t, "stock_helper", got.PackageName)
	assert.Equal(t, "BSD-3-Clause", got.LicenseKey)
	assert.Contains(t, got.LicenseText, "Copyright (c) 2024, Jane Doe <jane@example.com>")
	assert.Equal(t, project.CIGitLab, got.CIMode)

	// Enabling the frontend pulls in the UI mixin.
	assert.Equal(t, []string{"EventMixin", "SettingsMixin", "UserInterfaceMixin"}, got.Mixins)
	assert.True(t, got.Frontend.Enabled)
	assert.Equal(t, []string{"@mantine/charts"}, got.Frontend.Packages)
	assert.Equal(t, map[string]bool{"dashboard": false, "panel": true, "settings": false}, got.Frontend.Features)

	assert.Contains(t, out.String(), "Generating plugin 'Stock Helper' - Helps with stock")
	assert.Contains(t, out.String(), "- Package Name: stock_helper")
}

func TestGather_FrontendDeclinedSkipsDependentPrompts(t *testing.T) {
	p := &scripted{
		confirm: map[string]bool{"Add frontend code?": false},
		multi: map[string][]string{
			"Select plugin mixins": {"ScheduleMixin"},
		},
	}

	got, err := Gather(p, project.Defaults("dev"), Options{Year: 2024})
	require.NoError(t, err)

	assert.NotContains(t, p.asked, "Select frontend packages to install")
	assert.NotContains(t, p.asked, "Select frontend features to enable")
	assert.False(t, got.Frontend.Enabled)
	assert.Empty(t, got.Frontend.Packages)
	assert.Equal(t, project.NoFeatures(), got.Frontend.Features)
	assert.Equal(t, []string{"ScheduleMixin"}, got.Mixins)
}

func TestGather_QuestionOrder(t *testing.T) {
	p := &scripted{}
	_, err := Gather(p, project.Defaults("dev"), Options{Year: 2024})
	require.NoError(t, err)

	want := []string{
		"Enter plugin name",
		"Enter plugin description",
		"Author name",
		"Author email",
		"Project URL",
		"Select a license",
		"Select plugin mixins",
		"Add frontend code?",
		"Select frontend packages to install",
		"Select frontend features to enable",
		"Select CI configuration",
	}
	assert.Equal(t, want, p.asked)
}

func TestGather_DoesNotMutateInput(t *testing.T) {
	base := project.Defaults("dev")
	p := &scripted{multi: map[string][]string{"Select plugin mixins": {"AppMixin"}}}

	_, err := Gather(p, base, Options{Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, project.DefaultMixins, base.Mixins)
}

func TestGather_DefaultsAreDeterministic(t *testing.T) {
	base := project.Defaults("1.0.0")

	first, err := Gather(prompt.Defaults{}, base, Options{Year: 2024})
	require.NoError(t, err)
	second, err := Gather(prompt.Defaults{}, base, Options{Year: 2024})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "custom_plugin", first.PackageName)
	assert.True(t, strings.HasPrefix(first.LicenseText, "MIT License"))
}

func TestGather_PreviousFeaturesBecomeDefaults(t *testing.T) {
	base := project.Defaults("dev")
	base.Frontend.Features = map[string]bool{"dashboard": true, "panel": false, "settings": false}

	got, err := Gather(prompt.Defaults{}, base, Options{Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"dashboard": true, "panel": false, "settings": false}, got.Frontend.Features)
}

func TestGather_InvalidStoredTitleFailsInDefaultMode(t *testing.T) {
	base := project.Defaults("dev")
	base.PluginTitle = "9 lives"

	_, err := Gather(prompt.Defaults{}, base, Options{Year: 2024})
	assert.Error(t, err)
}

func TestComplete(t *testing.T) {
	c := project.Defaults("dev")
	c.PluginTitle = "Label Printer"
	c.LicenseKey = "ISC"

	require.NoError(t, Complete(&c, 2025))
	assert.Equal(t, "label_printer", c.PackageName)
	assert.Contains(t, c.LicenseText, "ISC License")
}
