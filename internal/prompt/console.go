package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// Console asks questions with numbered menus on a line-oriented reader.
// Invalid answers print the reason and ask again. A cancelled context ends
// the pending read with ErrAborted.
type Console struct {
	ctx   context.Context
	in    *bufio.Reader
	out   io.Writer
	start sync.Once
	lines chan lineResult
}

type lineResult struct {
	line string
	err  error
}

// NewConsole returns a Console reading answers from r and writing prompts to w.
func NewConsole(r io.Reader, w io.Writer) *Console {
	return NewConsoleContext(context.Background(), r, w)
}

// NewConsoleContext is NewConsole bound to ctx.
func NewConsoleContext(ctx context.Context, r io.Reader, w io.Writer) *Console {
	return &Console{ctx: ctx, in: bufio.NewReader(r), out: w, lines: make(chan lineResult)}
}

func (c *Console) readLine() (string, error) {
	if c.ctx.Err() != nil {
		return "", ErrAborted
	}
	c.start.Do(func() { go c.readLoop() })

	select {
	case <-c.ctx.Done():
		return "", ErrAborted
	case res, ok := <-c.lines:
		if !ok {
			return "", ErrAborted
		}
		return res.line, res.err
	}
}

// readLoop feeds lines to readLine until the input fails or ends.
func (c *Console) readLoop() {
	defer close(c.lines)
	for {
		line, err := c.in.ReadString('\n')
		res := lineResult{line: strings.TrimSpace(line)}
		switch {
		case err == nil:
		case errors.Is(err, io.EOF) && line != "":
		case errors.Is(err, io.EOF):
			res.err = ErrAborted
		default:
			res.err = fmt.Errorf("reading answer: %w", err)
		}

		select {
		case c.lines <- res:
		case <-c.ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

func (c *Console) reject(reason error) {
	fmt.Fprintf(c.out, "  ! %v\n", reason)
}

// Text asks for a line of text. An empty answer selects the default.
func (c *Console) Text(q TextQuestion) (string, error) {
	for {
		if q.Default != "" {
			fmt.Fprintf(c.out, "? %s [%s]: ", q.Message, q.Default)
		} else {
			fmt.Fprintf(c.out, "? %s: ", q.Message)
		}

		answer, err := c.readLine()
		if err != nil {
			return "", err
		}
		if answer == "" {
			answer = q.Default
		}

		if q.Validate != nil {
			if err := q.Validate(answer); err != nil {
				c.reject(err)
				continue
			}
		}
		return answer, nil
	}
}

// Confirm asks a yes/no question.
func (c *Console) Confirm(q ConfirmQuestion) (bool, error) {
	hint := "y/N"
	if q.Default {
		hint = "Y/n"
	}

	for {
		fmt.Fprintf(c.out, "? %s [%s]: ", q.Message, hint)
		answer, err := c.readLine()
		if err != nil {
			return false, err
		}

		switch strings.ToLower(answer) {
		case "":
			return q.Default, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		c.reject(fmt.Errorf("answer yes or no, got %q", answer))
	}
}

// Select presents a numbered list. The answer may be a number or a value.
func (c *Console) Select(q SelectQuestion) (string, error) {
	if len(q.Choices) == 0 {
		return "", fmt.Errorf("select %q has no choices", q.Message)
	}
	def := indexOf(q.Choices, q.Default)
	if def < 0 {
		def = 0
	}

	for {
		fmt.Fprintf(c.out, "? %s\n", q.Message)
		for i, choice := range q.Choices {
			marker := " "
			if i == def {
				marker = "*"
			}
			fmt.Fprintf(c.out, " %s %d) %s\n", marker, i+1, choice.display())
		}
		fmt.Fprintf(c.out, "Enter number [1-%d] (default %d): ", len(q.Choices), def+1)

		answer, err := c.readLine()
		if err != nil {
			return "", err
		}
		if answer == "" {
			return q.Choices[def].Value, nil
		}

		idx, err := parseChoice(q.Choices, answer)
		if err != nil {
			c.reject(err)
			continue
		}
		return q.Choices[idx].Value, nil
	}
}

// MultiSelect presents a checklist. The answer is a comma separated list of
// numbers or values, "-" for none, or empty to keep the defaults.
func (c *Console) MultiSelect(q MultiSelectQuestion) ([]string, error) {
	defaults := ordered(q.Choices, q.Defaults)
	checked := make(map[string]bool, len(defaults))
	for _, v := range defaults {
		checked[v] = true
	}

	for {
		fmt.Fprintf(c.out, "? %s\n", q.Message)
		for i, choice := range q.Choices {
			box := "[ ]"
			if checked[choice.Value] {
				box = "[x]"
			}
			fmt.Fprintf(c.out, "  %s %d) %s\n", box, i+1, choice.display())
		}
		fmt.Fprint(c.out, "Enter numbers separated by commas, '-' for none (empty keeps [x]): ")

		answer, err := c.readLine()
		if err != nil {
			return nil, err
		}
		switch answer {
		case "":
			return defaults, nil
		case "-":
			return []string{}, nil
		}

		var picked []string
		var bad error
		for _, tok := range strings.Split(answer, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			idx, err := parseChoice(q.Choices, tok)
			if err != nil {
				bad = err
				break
			}
			picked = append(picked, q.Choices[idx].Value)
		}
		if bad != nil {
			c.reject(bad)
			continue
		}
		return ordered(q.Choices, picked), nil
	}
}

// parseChoice resolves a 1-based number or a case-insensitive value.
func parseChoice(choices []Choice, answer string) (int, error) {
	if n, err := strconv.Atoi(answer); err == nil {
		if n < 1 || n > len(choices) {
			return 0, fmt.Errorf("invalid selection %q: choose 1-%d", answer, len(choices))
		}
		return n - 1, nil
	}
	for i, choice := range choices {
		if strings.EqualFold(choice.Value, answer) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("invalid selection %q", answer)
}
