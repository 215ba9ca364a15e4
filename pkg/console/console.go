package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/stefanpenner/labbook/pkg/tracker"
)

// cancelWords abort the current prompt.
var cancelWords = map[string]bool{"q": true, "quit": true, "cancel": true}

// Console reads answers from in and writes prompts and output to out.
// It implements tracker.Prompter.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

var _ tracker.Prompter = (*Console)(nil)

// New creates a Console.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

func (c *Console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", tracker.ErrCancelled
		}
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question. Empty input means no.
func (c *Console) Confirm(question string) (bool, error) {
	for {
		fmt.Fprintf(c.out, "%s %s ", PromptStyle.Render(question), MutedStyle.Render("[y/n]"))
		answer, err := c.readLine()
		if err != nil {
			return false, err
		}
		answer = strings.ToLower(answer)
		switch {
		case cancelWords[answer]:
			return false, tracker.ErrCancelled
		case answer == "y" || answer == "yes":
			return true, nil
		case answer == "" || answer == "n" || answer == "no":
			return false, nil
		}
		c.Warn("Please answer y or n (q to cancel).")
	}
}

// PromptText asks for free text. Empty input yields def.
func (c *Console) PromptText(question, def string) (string, error) {
	hint := "(q to cancel)"
	if def != "" {
		hint = fmt.Sprintf("[%s] (q to cancel)", def)
	}
	fmt.Fprintf(c.out, "%s %s: ", PromptStyle.Render(question), MutedStyle.Render(hint))
	answer, err := c.readLine()
	if err != nil {
		return "", err
	}
	if cancelWords[strings.ToLower(answer)] {
		return "", tracker.ErrCancelled
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Display prints an informational line.
func (c *Console) Display(msg string) {
	fmt.Fprintln(c.out, InfoStyle.Render(msg))
}

// Header prints a boxed section title.
func (c *Console) Header(text string) {
	fmt.Fprintln(c.out, HeaderStyle.Render(text))
}

// Success prints a confirmation line.
func (c *Console) Success(msg string) {
	fmt.Fprintln(c.out, SuccessStyle.Render(msg))
}

// Warn prints a warning line.
func (c *Console) Warn(msg string) {
	fmt.Fprintln(c.out, WarnStyle.Render(msg))
}

// Print writes a pre-rendered block.
func (c *Console) Print(block string) {
	fmt.Fprintln(c.out, block)
}
