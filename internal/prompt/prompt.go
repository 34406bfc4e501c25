// internal/prompt/prompt.go
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompt is one question in an interactive provisioning sequence.
type Prompt struct {
	Key      string
	Label    string
	Required bool
	Default  string
	Secret   bool
}

// Ask walks the prompts on the terminal.
func Ask(prompts []Prompt) (map[string]string, error) {
	return AskFrom(os.Stdin, prompts)
}

// AskFrom reads answers from r in prompt order and returns them keyed by
// Prompt.Key. Empty answers fall back to the default; empty required answers
// are an error. Secret prompts hide input only when r is an interactive
// terminal; piped input is read as plain lines.
func AskFrom(r io.Reader, prompts []Prompt) (map[string]string, error) {
	reader := bufio.NewReader(r)
	values := make(map[string]string)

	for _, p := range prompts {
		var value string
		var err error

		if p.Secret && isTerminal(r) {
			value, err = askSecret(p)
		} else {
			value, err = askText(reader, p)
		}
		if err != nil {
			return nil, err
		}

		if value == "" && p.Default != "" {
			value = p.Default
		}

		if value == "" && p.Required {
			return nil, fmt.Errorf("%s is required", p.Key)
		}

		values[p.Key] = value
	}

	return values, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func askText(reader *bufio.Reader, p Prompt) (string, error) {
	label := p.Label
	if p.Default != "" {
		label = fmt.Sprintf("%s [%s]", label, p.Default)
	}
	fmt.Printf("  ? %s: ", label)

	input, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

func askSecret(p Prompt) (string, error) {
	fmt.Printf("  ? %s: ", p.Label)
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println() // newline after hidden input
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// SplitList splits a comma-separated answer into trimmed, non-empty items.
func SplitList(answer string) []string {
	var items []string
	for _, part := range strings.Split(answer, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}
