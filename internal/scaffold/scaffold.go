package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"github.com/Masterminds/semver/v3"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/inventree/plugin-creator/internal/project"
	"go.yaml.in/yaml/v3"
)

// ManifestFile is the template description at the root of a template tree.
// It is read by Render and never written to the output.
const ManifestFile = "template.yaml"

//go:embed all:template
var templateFS embed.FS

// Embedded returns the plugin template bundled with the binary.
func Embedded() fs.FS {
	// "template" is a valid path, so Sub cannot fail.
	sub, _ := fs.Sub(templateFS, "template")
	return sub
}

// Manifest describes a template tree.
type Manifest struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Requires    string   `yaml:"requires"` // semver constraint on the tool version
	Exclude     []string `yaml:"exclude"`  // globs of template paths never emitted
}

// Result holds the outcome of a render.
type Result struct {
	ProjectDir string
	Files      []string // slash separated, relative to ProjectDir
	Warnings   []string
}

var funcs = template.FuncMap{
	"join":      func(sep string, items []string) string { return strings.Join(items, sep) },
	"has":       func(items []string, v string) bool { return slices.Contains(items, v) },
	"lower":     strings.ToLower,
	"upper":     strings.ToUpper,
	"quote":     quote,
	"docstring": docstring,
}

// quote returns s as a double-quoted literal valid in both TOML and Python.
// Control characters become \uXXXX escapes, which both languages accept.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// docstring escapes s for use between triple double quotes in Python.
func docstring(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// ReadManifest parses the manifest at the root of fsys.
func ReadManifest(fsys fs.FS) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, ManifestFile)
	if err != nil {
		return nil, fmt.Errorf("reading template manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing template manifest: %w", err)
	}
	if m.Name == "" {
		return nil, errors.New("template manifest: name is required")
	}
	for _, pattern := range m.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("template manifest: invalid exclude pattern %q", pattern)
		}
	}
	return &m, nil
}

// excluded reports whether the source path rel, relative to the project
// directory, matches an exclude pattern.
func (m *Manifest) excluded(rel string) bool {
	for _, pattern := range m.Exclude {
		if doublestar.MatchUnvalidated(pattern, rel) {
			return true
		}
	}
	return false
}

// checkRequires reports whether toolVersion satisfies the manifest
// constraint. Development builds with no parsable version only warn.
func (m *Manifest) checkRequires(toolVersion string) (warning string, err error) {
	if m.Requires == "" {
		return "", nil
	}
	c, err := semver.NewConstraint(m.Requires)
	if err != nil {
		return "", fmt.Errorf("template %s: invalid requires %q: %w", m.Name, m.Requires, err)
	}
	v, err := semver.NewVersion(strings.TrimPrefix(toolVersion, "v"))
	if err != nil {
		return fmt.Sprintf("cannot check template requirement %q against version %q", m.Requires, toolVersion), nil
	}
	if !c.Check(v) {
		return "", fmt.Errorf("template %s requires version %s, running %s", m.Name, m.Requires, toolVersion)
	}
	return "", nil
}

// Render writes the template tree in fsys under outputDir. The tree must hold
// exactly one top-level directory, whose rendered name becomes the project
// directory. Existing files are overwritten.
func Render(fsys fs.FS, pc *project.Context, outputDir, toolVersion string) (*Result, error) {
	m, err := ReadManifest(fsys)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	warning, err := m.checkRequires(toolVersion)
	if err != nil {
		return nil, err
	}
	if warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}

	root, err := projectRoot(fsys)
	if err != nil {
		return nil, err
	}
	rootName, err := renderName(root, pc)
	if err != nil {
		return nil, err
	}
	if rootName == "" {
		return nil, fmt.Errorf("template root %q rendered to an empty name", root)
	}
	result.ProjectDir = filepath.Join(outputDir, rootName)

	if err := os.MkdirAll(result.ProjectDir, 0755); err != nil {
		return nil, fmt.Errorf("creating project directory: %w", err)
	}

	// Rendered names of the directories visited so far, keyed by source path.
	dirs := map[string]string{root: ""}

	err = fs.WalkDir(fsys, root, func(src string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if src == root {
			return nil
		}
		if m.excluded(strings.TrimPrefix(src, root+"/")) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		parent, ok := dirs[path.Dir(src)]
		if !ok {
			return fmt.Errorf("walking template: parent of %s not visited", src)
		}

		name, err := renderName(d.Name(), pc)
		if err != nil {
			return err
		}
		if !d.IsDir() {
			name = strings.TrimSuffix(name, ".tmpl")
		}
		if name == "" {
			// Conditional entry switched off.
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		rel := path.Join(parent, name)
		dest := filepath.Join(result.ProjectDir, filepath.FromSlash(rel))

		if d.IsDir() {
			dirs[src] = rel
			if err := os.MkdirAll(dest, 0755); err != nil {
				return fmt.Errorf("creating %s: %w", dest, err)
			}
			return nil
		}

		if err := renderFile(fsys, src, dest, pc); err != nil {
			return err
		}
		result.Files = append(result.Files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// projectRoot finds the single top-level directory of the template tree.
func projectRoot(fsys fs.FS) (string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return "", fmt.Errorf("reading template root: %w", err)
	}
	var roots []string
	for _, e := range entries {
		if e.Name() == ManifestFile {
			continue
		}
		if !e.IsDir() {
			return "", fmt.Errorf("template root holds file %s; only %s is allowed beside the project directory", e.Name(), ManifestFile)
		}
		roots = append(roots, e.Name())
	}
	if len(roots) != 1 {
		return "", fmt.Errorf("template must hold exactly one project directory, found %d", len(roots))
	}
	return roots[0], nil
}

// renderName executes a single path segment.
func renderName(segment string, pc *project.Context) (string, error) {
	if !strings.Contains(segment, "{{") {
		return segment, nil
	}
	out, err := execute(segment, segment, pc)
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(string(out))
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("path segment %q rendered to invalid name %q", segment, name)
	}
	return name, nil
}

func renderFile(fsys fs.FS, src, dest string, pc *project.Context) error {
	content, err := fs.ReadFile(fsys, src)
	if err != nil {
		return fmt.Errorf("reading template %s: %w", src, err)
	}

	if strings.HasSuffix(src, ".tmpl") {
		content, err = execute(src, string(content), pc)
		if err != nil {
			return err
		}
	}

	if err := os.WriteFile(dest, content, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return nil
}

func execute(name, text string, pc *project.Context) ([]byte, error) {
	tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, pc); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
