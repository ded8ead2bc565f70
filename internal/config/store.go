package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/inventree/plugin-creator/internal/branding"
	"github.com/inventree/plugin-creator/internal/license"
	"github.com/inventree/plugin-creator/internal/project"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"
)

// ErrUnknownKey is returned by Get and Set for keys that are not persisted.
var ErrUnknownKey = errors.New("unknown config key")

// Store reads and writes the persisted plugin context.
type Store struct {
	path    string
	version string
}

// NewStore returns a Store for the file at path. version is the running tool
// version, stamped into every saved file. Only YAML files are supported.
func NewStore(path, version string) (*Store, error) {
	if err := CheckPath(path); err != nil {
		return nil, err
	}
	return &Store{path: path, version: version}, nil
}

// Path returns the config file location.
func (s *Store) Path() string { return s.path }

// Loaded is the outcome of Store.Load.
type Loaded struct {
	Context       project.Context
	Found         bool     // a config file existed and was applied
	StoredVersion string   // version recorded in the file
	Warnings      []string // problems that caused values to be ignored
}

func (s *Store) newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load overlays the stored config and then environment variables on base.
// A missing file is not an error: base is returned with only environment
// overrides applied.
func (s *Store) Load(base project.Context) (*Loaded, error) {
	v := s.newViper()
	for k, val := range flatten(base.Values()) {
		v.SetDefault(k, val)
	}

	res := &Loaded{}

	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No prior defaults.
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", s.path, err)
	default:
		issues, verr := Validate(data)
		switch {
		case verr != nil:
			res.Warnings = append(res.Warnings, fmt.Sprintf("ignoring %s: %v", s.path, verr))
		case len(issues) > 0:
			for _, is := range issues {
				res.Warnings = append(res.Warnings, fmt.Sprintf("ignoring %s: %s", s.path, is))
			}
		default:
			if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", s.path, err)
			}
			res.Found = true
			res.StoredVersion = v.GetString("version")
			if w := versionWarning(res.StoredVersion, s.version); w != "" {
				res.Warnings = append(res.Warnings, w)
			}
		}
	}

	var out project.Context
	if err := v.Unmarshal(&out); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	res.Warnings = append(res.Warnings, normalize(&out, base)...)
	out.Version = base.Version
	out.Derive()

	res.Context = out
	return res, nil
}

// normalize drops values outside the closed option sets, reporting each one.
func normalize(c *project.Context, base project.Context) []string {
	var warnings []string

	if _, err := license.Find(c.LicenseKey); err != nil {
		warnings = append(warnings, fmt.Sprintf("unknown license %q, using %s", c.LicenseKey, base.LicenseKey))
		c.LicenseKey = base.LicenseKey
	}

	known := project.Known(project.Mixins, c.Mixins)
	for _, m := range c.Mixins {
		if !slices.Contains(known, m) {
			warnings = append(warnings, fmt.Sprintf("ignoring unknown mixin %q", m))
		}
	}
	c.Mixins = known

	packages := project.Known(project.FrontendPackages, c.Frontend.Packages)
	for _, p := range c.Frontend.Packages {
		if !slices.Contains(packages, p) {
			warnings = append(warnings, fmt.Sprintf("ignoring unknown frontend package %q", p))
		}
	}
	c.Frontend.Packages = packages

	features := project.NoFeatures()
	for id := range features {
		features[id] = c.Frontend.Features[id]
	}
	c.Frontend.Features = features

	if !slices.Contains(project.IDs(project.CIModes), c.CIMode) {
		warnings = append(warnings, fmt.Sprintf("unknown CI mode %q, using %s", c.CIMode, base.CIMode))
		c.CIMode = base.CIMode
	}
	return warnings
}

// Save writes every persisted key of c, replacing the file.
func (s *Store) Save(c project.Context) error {
	c.Version = s.version
	return s.write(flatten(c.Values()))
}

func (s *Store) write(values map[string]any) error {
	if err := ensureDir(s.path); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType(fileType)
	for k, val := range values {
		v.Set(k, val)
	}
	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Reset deletes the stored config. A missing file is not an error.
func (s *Store) Reset() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing config file: %w", err)
	}
	return nil
}

// Keys lists every persisted key in dotted form, sorted.
func Keys() []string {
	defaults := project.Defaults("")
	flat := flatten(defaults.Values())
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the effective value for a dotted key, as a display string.
func (s *Store) Get(base project.Context, key string) (string, error) {
	loaded, err := s.Load(base)
	if err != nil {
		return "", err
	}
	val, ok := flatten(loaded.Context.Values())[key]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownKey, key)
	}
	return format(val), nil
}

// Set updates a single dotted key and saves the result. The value is parsed
// according to the key's type: booleans, comma separated lists, or strings.
func (s *Store) Set(base project.Context, key, raw string) error {
	loaded, err := s.Load(base)
	if err != nil {
		return err
	}
	values := flatten(loaded.Context.Values())

	current, ok := values[key]
	if !ok || key == "version" {
		return fmt.Errorf("%w %q", ErrUnknownKey, key)
	}

	if key == "license_key" {
		if _, err := license.Find(raw); err != nil {
			return err
		}
	}

	switch current.(type) {
	case bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("value for %s must be true or false: %w", key, err)
		}
		values[key] = b
	case []string:
		values[key] = splitList(raw)
	default:
		values[key] = raw
	}
	values["version"] = s.version

	// Check the edited document before it replaces the file.
	doc, err := yaml.Marshal(unflatten(values))
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	issues, err := Validate(doc)
	if err != nil {
		return err
	}
	if len(issues) > 0 {
		return fmt.Errorf("invalid value for %s: %s", key, issues[0])
	}

	// Values the next Load would drop are rejected here instead.
	dec := viper.New()
	for k, val := range values {
		dec.Set(k, val)
	}
	var edited project.Context
	if err := dec.Unmarshal(&edited); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	if warnings := normalize(&edited, base); len(warnings) > 0 {
		return fmt.Errorf("invalid value for %s: %s", key, warnings[0])
	}

	return s.write(values)
}

func splitList(raw string) []string {
	out := []string{}
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func format(v any) string {
	switch val := v.(type) {
	case []string:
		return strings.Join(val, ",")
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

// flatten turns nested maps into dotted keys: {"frontend": {"enabled": x}}
// becomes {"frontend.enabled": x}.
func flatten(m map[string]any) map[string]any {
	out := make(map[string]any)
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for k, v := range m {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			if nested, ok := v.(map[string]any); ok {
				walk(key, nested)
				continue
			}
			out[key] = v
		}
	}
	walk("", m)
	return out
}

// unflatten is the inverse of flatten.
func unflatten(flat map[string]any) map[string]any {
	out := make(map[string]any)
	for key, v := range flat {
		parts := strings.Split(key, ".")
		m := out
		for _, p := range parts[:len(parts)-1] {
			next, ok := m[p].(map[string]any)
			if !ok {
				next = make(map[string]any)
				m[p] = next
			}
			m = next
		}
		m[parts[len(parts)-1]] = v
	}
	return out
}
