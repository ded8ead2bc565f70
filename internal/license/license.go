// Package license lists the licenses a generated plugin can be published under
// and renders their text for a given copyright holder.
package license

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.txt
var templatesFS embed.FS

// DefaultID is preselected in the license prompt.
const DefaultID = "MIT"

// ErrUnknown is returned for a license id that is not in the catalog.
var ErrUnknown = errors.New("unknown license")

// License describes one selectable license.
type License struct {
	ID   string // SPDX identifier, e.g. "MIT"
	Name string // Display name
}

var catalog = []License{
	{ID: "MIT", Name: "MIT License"},
	{ID: "Apache-2.0", Name: "Apache License 2.0"},
	{ID: "BSD-2-Clause", Name: "BSD 2-Clause \"Simplified\" License"},
	{ID: "BSD-3-Clause", Name: "BSD 3-Clause \"New\" or \"Revised\" License"},
	{ID: "ISC", Name: "ISC License"},
	{ID: "0BSD", Name: "BSD Zero Clause License"},
	{ID: "Unlicense", Name: "The Unlicense"},
}

// List returns the available licenses in display order.
func List() []License {
	out := make([]License, len(catalog))
	copy(out, catalog)
	return out
}

// Find looks up a license by id. Matching is case-insensitive.
func Find(id string) (License, error) {
	for _, l := range catalog {
		if strings.EqualFold(l.ID, id) {
			return l, nil
		}
	}
	return License{}, fmt.Errorf("%w %q", ErrUnknown, id)
}

// Holder formats the copyright holder line from an author name and optional email.
func Holder(name, email string) string {
	if email == "" {
		return name
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// Render returns the full license text for id with the copyright holder and
// year filled in.
func Render(id, name, email string, year int) (string, error) {
	l, err := Find(id)
	if err != nil {
		return "", err
	}

	raw, err := templatesFS.ReadFile("templates/" + l.ID + ".txt")
	if err != nil {
		return "", fmt.Errorf("reading license template %s: %w", l.ID, err)
	}

	tmpl, err := template.New(l.ID).Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("parsing license template %s: %w", l.ID, err)
	}

	var buf bytes.Buffer
	data := struct {
		Year   int
		Holder string
	}{Year: year, Holder: Holder(name, email)}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering license %s: %w", l.ID, err)
	}
	return buf.String(), nil
}
