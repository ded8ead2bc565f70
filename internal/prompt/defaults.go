package prompt

import "fmt"

// Defaults answers every question with its default and never reads input.
type Defaults struct{}

func (Defaults) Text(q TextQuestion) (string, error) {
	if q.Validate != nil {
		if err := q.Validate(q.Default); err != nil {
			return "", fmt.Errorf("default for %q is invalid: %w", q.Message, err)
		}
	}
	return q.Default, nil
}

func (Defaults) Confirm(q ConfirmQuestion) (bool, error) {
	return q.Default, nil
}

func (Defaults) Select(q SelectQuestion) (string, error) {
	if len(q.Choices) == 0 {
		return "", fmt.Errorf("select %q has no choices", q.Message)
	}
	if indexOf(q.Choices, q.Default) < 0 {
		return q.Choices[0].Value, nil
	}
	return q.Default, nil
}

func (Defaults) MultiSelect(q MultiSelectQuestion) ([]string, error) {
	return ordered(q.Choices, q.Defaults), nil
}
