package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/inventree/plugin-creator/internal/project"
)

func newTestStore(t *testing.T, version string) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "nested", "config.yaml"), version)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func sampleContext(version string) project.Context {
	c := project.Defaults(version)
	c.PluginTitle = "Stock Helper"
	c.PluginDescription = "Helps with stock"
	c.AuthorName = "Jane Doe"
	c.AuthorEmail = "jane@example.com"
	c.ProjectURL = "https://example.com"
	c.LicenseKey = "ISC"
	c.Mixins = []string{"EventMixin", "UserInterfaceMixin"}
	c.Frontend = project.Frontend{
		Enabled:  true,
		Packages: []string{"@mantine/charts"},
		Features: map[string]bool{"dashboard": false, "panel": true, "settings": true},
	}
	c.CIMode = project.CIGitLab
	c.Derive()
	return c
}

func TestLoadMissingFileReturnsBase(t *testing.T) {
	s := newTestStore(t, "1.0.0")
	base := project.Defaults("1.0.0")

	loaded, err := s.Load(base)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Found {
		t.Error("Found should be false for a missing file")
	}
	if len(loaded.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", loaded.Warnings)
	}
	if !reflect.DeepEqual(loaded.Context.Values(), base.Values()) {
		t.Errorf("Load() = %v, want base %v", loaded.Context.Values(), base.Values())
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	s := newTestStore(t, "1.0.0")
	want := sampleContext("1.0.0")

	if err := s.Save(want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := s.Load(project.Defaults("1.0.0"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !loaded.Found {
		t.Fatal("Found should be true after Save")
	}
	if loaded.StoredVersion != "1.0.0" {
		t.Errorf("StoredVersion = %q, want %q", loaded.StoredVersion, "1.0.0")
	}
	if !reflect.DeepEqual(loaded.Context.Values(), want.Values()) {
		t.Errorf("round trip mismatch\n got: %v\nwant: %v", loaded.Context.Values(), want.Values())
	}
	if loaded.Context.PackageName != "stock_helper" {
		t.Errorf("PackageName = %q, derived names should be recomputed", loaded.Context.PackageName)
	}
}

func TestSaveOverwritesWholesale(t *testing.T) {
	s := newTestStore(t, "1.0.0")
	first := sampleContext("1.0.0")
	if err := s.Save(first); err != nil {
		t.Fatal(err)
	}

	second := project.Defaults("1.0.0")
	second.Mixins = []string{}
	if err := s.Save(second); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.Load(project.Defaults("1.0.0"))
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Context.Mixins) != 0 {
		t.Errorf("Mixins = %v, want none", loaded.Context.Mixins)
	}
	if loaded.Context.PluginTitle != "Custom Plugin" {
		t.Errorf("PluginTitle = %q, want value from second save", loaded.Context.PluginTitle)
	}
}

func TestLoadPartialFileKeepsBaseForMissingKeys(t *testing.T) {
	s := newTestStore(t, "1.0.0")
	writeConfig(t, s.Path(), "author_name: Someone Else\n")

	loaded, err := s.Load(project.Defaults("1.0.0"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Context.AuthorName != "Someone Else" {
		t.Errorf("AuthorName = %q", loaded.Context.AuthorName)
	}
	if loaded.Context.PluginTitle != "Custom Plugin" {
		t.Errorf("PluginTitle = %q, want default", loaded.Context.PluginTitle)
	}
	if !loaded.Context.Frontend.Features["panel"] {
		t.Error("features should fall back to defaults")
	}
}

func TestLoadInvalidSchemaIsIgnored(t *testing.T) {
	s := newTestStore(t, "1.0.0")
	writeConfig(t, s.Path(), "author_name: Someone\nci_mode: jenkins\nfrontend:\n  enabled: maybe\n")

	loaded, err := s.Load(project.Defaults("1.0.0"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Found {
		t.Error("an invalid file must not be applied")
	}
	if loaded.Context.AuthorName != "Plugin Author" {
		t.Errorf("AuthorName = %q, want default", loaded.Context.AuthorName)
	}
	joined := strings.Join(loaded.Warnings, "\n")
	if !strings.Contains(joined, "/ci_mode") || !strings.Contains(joined, "/frontend/enabled") {
		t.Errorf("warnings should name the bad keys, got:\n%s", joined)
	}
}

func TestLoadMalformedYAMLIsIgnored(t *testing.T) {
	s := newTestStore(t, "1.0.0")
	writeConfig(t, s.Path(), "author_name: [unterminated\n")

	loaded, err := s.Load(project.Defaults("1.0.0"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Found || len(loaded.Warnings) == 0 {
		t.Errorf("expected file to be ignored with a warning, got %+v", loaded)
	}
}

func TestLoadDropsUnknownOptions(t *testing.T) {
	s := newTestStore(t, "1.0.0")
	writeConfig(t, s.Path(), "license_key: WTFPL\nmixins: [EventMixin, TeleportMixin]\n")

	loaded, err := s.Load(project.Defaults("1.0.0"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Context.LicenseKey != "MIT" {
		t.Errorf("LicenseKey = %q, want fallback MIT", loaded.Context.LicenseKey)
	}
	if !reflect.DeepEqual(loaded.Context.Mixins, []string{"EventMixin"}) {
		t.Errorf("Mixins = %v", loaded.Context.Mixins)
	}
	if len(loaded.Warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", loaded.Warnings)
	}
}

func TestLoadWarnsOnNewerMajorVersion(t *testing.T) {
	s := newTestStore(t, "1.4.0")
	writeConfig(t, s.Path(), "version: 2.0.0\n")

	loaded, err := s.Load(project.Defaults("1.4.0"))
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Warnings) != 1 || !strings.Contains(loaded.Warnings[0], "newer than this tool") {
		t.Errorf("warnings = %v", loaded.Warnings)
	}
	if loaded.Context.Version != "1.4.0" {
		t.Errorf("Version = %q, want running version", loaded.Context.Version)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	s := newTestStore(t, "1.0.0")
	if err := s.Save(sampleContext("1.0.0")); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PLUGIN_CREATOR_AUTHOR_NAME", "From Env")
	t.Setenv("PLUGIN_CREATOR_FRONTEND_ENABLED", "false")
	t.Setenv("PLUGIN_CREATOR_MIXINS", "ScheduleMixin,AppMixin")

	loaded, err := s.Load(project.Defaults("1.0.0"))
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Context.AuthorName != "From Env" {
		t.Errorf("AuthorName = %q", loaded.Context.AuthorName)
	}
	if loaded.Context.Frontend.Enabled {
		t.Error("Frontend.Enabled should be overridden to false")
	}
	if !reflect.DeepEqual(loaded.Context.Mixins, []string{"AppMixin", "ScheduleMixin"}) {
		t.Errorf("Mixins = %v", loaded.Context.Mixins)
	}
}

func TestGetAndSet(t *testing.T) {
	s := newTestStore(t, "1.0.0")
	base := project.Defaults("1.0.0")

	if err := s.Set(base, "author_name", "Jane"); err != nil {
		t.Fatalf("Set(author_name) error: %v", err)
	}
	if err := s.Set(base, "frontend.enabled", "false"); err != nil {
		t.Fatalf("Set(frontend.enabled) error: %v", err)
	}
	if err := s.Set(base, "mixins", "EventMixin, SettingsMixin"); err != nil {
		t.Fatalf("Set(mixins) error: %v", err)
	}

	checks := map[string]string{
		"author_name":      "Jane",
		"frontend.enabled": "false",
		"mixins":           "EventMixin,SettingsMixin",
		"plugin_title":     "Custom Plugin",
	}
	for key, want := range checks {
		got, err := s.Get(base, key)
		if err != nil {
			t.Errorf("Get(%s) error: %v", key, err)
			continue
		}
		if got != want {
			t.Errorf("Get(%s) = %q, want %q", key, got, want)
		}
	}
}

func TestSetRejectsBadInput(t *testing.T) {
	s := newTestStore(t, "1.0.0")
	base := project.Defaults("1.0.0")

	if err := s.Set(base, "nope", "x"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Set(nope) error = %v, want ErrUnknownKey", err)
	}
	if err := s.Set(base, "version", "9.9.9"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Set(version) error = %v, want ErrUnknownKey", err)
	}
	if err := s.Set(base, "frontend.enabled", "perhaps"); err == nil {
		t.Error("expected error for non-boolean value")
	}
	if err := s.Set(base, "ci_mode", "jenkins"); err == nil {
		t.Error("expected schema error for unknown CI mode")
	}
	if err := s.Set(base, "license_key", "WTFPL"); err == nil {
		t.Error("expected error for unknown license")
	}
	if err := s.Set(base, "mixins", "SettingsMixin,Bogus"); err == nil || !strings.Contains(err.Error(), "Bogus") {
		t.Errorf("Set(mixins) error = %v, want unknown mixin", err)
	}
	if err := s.Set(base, "frontend.packages", "left-pad"); err == nil || !strings.Contains(err.Error(), "left-pad") {
		t.Errorf("Set(frontend.packages) error = %v, want unknown package", err)
	}
	if err := s.Set(base, "frontend.features.bogus", "true"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Set(frontend.features.bogus) error = %v, want ErrUnknownKey", err)
	}
	if err := s.Set(base, "frontend.features.panel", "maybe"); err == nil {
		t.Error("expected error for non-boolean feature value")
	}
	if _, err := os.Stat(s.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Error("rejected sets must not create the config file")
	}
}

func TestReset(t *testing.T) {
	s := newTestStore(t, "1.0.0")
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset() on missing file: %v", err)
	}
	if err := s.Save(project.Defaults("1.0.0")); err != nil {
		t.Fatal(err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset() error: %v", err)
	}
	if _, err := os.Stat(s.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Error("config file should be gone after Reset")
	}
}

func TestKeys(t *testing.T) {
	keys := Keys()
	for _, want := range []string{"author_name", "ci_mode", "frontend.enabled", "frontend.features.panel", "mixins"} {
		found := false
		for _, k := range keys {
			if k == want {
				found = true
			}
		}
		if !found {
			t.Errorf("Keys() missing %q: %v", want, keys)
		}
	}
}

func TestFilePathEnvOverride(t *testing.T) {
	t.Setenv("PLUGIN_CREATOR_CONFIG", "/tmp/custom.yaml")
	if got := FilePath(); got != "/tmp/custom.yaml" {
		t.Errorf("FilePath() = %q", got)
	}
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestNewStoreRejectsUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"config.yaml", "config.YML"} {
		if _, err := NewStore(filepath.Join(dir, name), "1.0.0"); err != nil {
			t.Errorf("NewStore(%s) error: %v", name, err)
		}
	}
	for _, name := range []string{"x.conf", "config.toml", "config"} {
		if _, err := NewStore(filepath.Join(dir, name), "1.0.0"); err == nil {
			t.Errorf("NewStore(%s) should fail", name)
		}
	}
}
