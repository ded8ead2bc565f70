package naming

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrEmpty is returned when a required value is blank.
var ErrEmpty = errors.New("value must not be empty")

// ValidateTitle checks that a plugin title can be turned into a Python
// package name. The title must start with a letter and may contain only
// letters, digits and single spaces.
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmpty
	}

	prevSpace := false
	for i, r := range title {
		switch {
		case i == 0 && !unicode.IsLetter(r):
			return fmt.Errorf("title must start with a letter, got %q", r)
		case r == ' ':
			if prevSpace {
				return fmt.Errorf("title must not contain consecutive spaces")
			}
			prevSpace = true
			continue
		case r > unicode.MaxASCII:
			return fmt.Errorf("title must be ASCII, got %q", r)
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			return fmt.Errorf("title may only contain letters, digits and spaces, got %q", r)
		}
		prevSpace = false
	}
	return nil
}

// NotEmpty rejects blank input.
func NotEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrEmpty
	}
	return nil
}

// SingleLine rejects control characters such as newlines and escapes.
// Empty input is accepted.
func SingleLine(s string) error {
	for _, r := range s {
		if unicode.IsControl(r) {
			return fmt.Errorf("value must not contain control characters, got %q", r)
		}
	}
	return nil
}

// PlainText rejects blank input and control characters.
func PlainText(s string) error {
	if err := NotEmpty(s); err != nil {
		return err
	}
	return SingleLine(s)
}

// PluginName removes spaces from the title: "Custom Plugin" → "CustomPlugin".
func PluginName(title string) string {
	return strings.ReplaceAll(strings.TrimSpace(title), " ", "")
}

// Slug lowercases the title and hyphenates spaces: "Custom Plugin" → "custom-plugin".
func Slug(title string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(title), " ", "-"))
}

// PackageName converts the slug into a Python package name: "custom-plugin" → "custom_plugin".
func PackageName(title string) string {
	return strings.ReplaceAll(Slug(title), "-", "_")
}
