package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/pterm/pterm"
)

// Question is one setting asked for by a Prompter
type Question struct {
	Key     string
	Label   string
	Default string
	Options []string // when set, the answer must be one of these
}

// Prompter handles user interaction
type Prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewPrompterFrom creates a prompter on arbitrary streams
func NewPrompterFrom(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{reader: bufio.NewReader(in), out: out}
}

// Ask prompts for one value; an empty answer selects the default
func (p *Prompter) Ask(q Question) (string, error) {
	hint := ""
	switch {
	case len(q.Options) > 0 && q.Default != "":
		hint = fmt.Sprintf(" [%s] (%s)", strings.Join(q.Options, "/"), q.Default)
	case len(q.Options) > 0:
		hint = fmt.Sprintf(" [%s]", strings.Join(q.Options, "/"))
	case q.Default != "":
		hint = fmt.Sprintf(" (%s)", q.Default)
	}

	for {
		fmt.Fprint(p.out, pterm.FgWhite.Sprint(q.Label)+Dim(hint+": "))
		input, err := p.reader.ReadString('\n')
		input = strings.TrimSpace(input)
		// at end of input a partial last line is still an answer, and an
		// empty one takes the default
		if err != nil && !(errors.Is(err, io.EOF) && (input != "" || q.Default != "")) {
			return "", fmt.Errorf("read %s: %w", q.Key, err)
		}

		if input == "" {
			input = q.Default
		}
		if len(q.Options) > 0 && !slices.Contains(q.Options, strings.ToLower(input)) {
			fmt.Fprintf(p.out, "  %s %q\n", pterm.FgRed.Sprint("Not one of the options:"), input)
			if err != nil {
				return "", fmt.Errorf("read %s: %w", q.Key, err)
			}
			continue
		}
		if len(q.Options) > 0 {
			input = strings.ToLower(input)
		}
		return input, nil
	}
}

// AskAll asks every question in order and returns the answers by key
func (p *Prompter) AskAll(questions []Question) (map[string]string, error) {
	answers := make(map[string]string, len(questions))
	for _, q := range questions {
		v, err := p.Ask(q)
		if err != nil {
			return nil, err
		}
		answers[q.Key] = v
	}
	return answers, nil
}

// AskYesNo asks a yes/no question; anything but y/yes is no
func (p *Prompter) AskYesNo(prompt string) (bool, error) {
	fmt.Fprint(p.out, pterm.FgWhite.Sprint(prompt)+Dim(" [y/n]: "))
	input, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}

	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes", nil
}
