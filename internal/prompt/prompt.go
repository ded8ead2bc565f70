// Package prompt asks the user questions through an injectable Prompter, so
// the collection logic can be driven by a terminal, a plain line reader, or
// stored defaults without touching console I/O.
package prompt

import (
	"context"
	"errors"
	"os"
)

// ErrAborted is returned when input ends or the user cancels a prompt.
var ErrAborted = errors.New("prompt aborted")

// Validator rejects unacceptable text input with a user-facing reason.
type Validator func(string) error

// Choice is one selectable entry.
type Choice struct {
	Value string
	Label string
}

func (c Choice) display() string {
	if c.Label == "" || c.Label == c.Value {
		return c.Value
	}
	return c.Value + " - " + c.Label
}

// TextQuestion asks for free-form text.
type TextQuestion struct {
	Message  string
	Default  string
	Validate Validator
}

// ConfirmQuestion asks a yes/no question.
type ConfirmQuestion struct {
	Message string
	Default bool
}

// SelectQuestion asks for exactly one of Choices.
type SelectQuestion struct {
	Message string
	Choices []Choice
	Default string
}

// MultiSelectQuestion asks for any subset of Choices.
type MultiSelectQuestion struct {
	Message  string
	Choices  []Choice
	Defaults []string
}

// Prompter is implemented by every question source. Each method returns a
// value that already satisfies the question's constraints.
type Prompter interface {
	Text(q TextQuestion) (string, error)
	Confirm(q ConfirmQuestion) (bool, error)
	Select(q SelectQuestion) (string, error)
	MultiSelect(q MultiSelectQuestion) ([]string, error)
}

// New returns a Terminal prompter when in is an interactive terminal and a
// line-based Console otherwise. Cancelling ctx aborts the pending question.
func New(ctx context.Context, in *os.File, out *os.File) Prompter {
	if isTerminal(in) {
		return NewTerminal(ctx, in, out)
	}
	return NewConsoleContext(ctx, in, out)
}

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// indexOf returns the position of value in choices, or -1.
func indexOf(choices []Choice, value string) int {
	for i, c := range choices {
		if c.Value == value {
			return i
		}
	}
	return -1
}

// ordered returns the members of values present in choices, in choice order.
func ordered(choices []Choice, values []string) []string {
	want := make(map[string]bool, len(values))
	for _, v := range values {
		want[v] = true
	}
	out := []string{}
	for _, c := range choices {
		if want[c.Value] {
			out = append(out, c.Value)
		}
	}
	return out
}
