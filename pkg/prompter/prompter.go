// Package prompter reads interactive input for commands that need it.
package prompter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter reads answers from In and writes labels to Out. Hidden input
// goes through ReadPassword, which defaults to the terminal.
type Prompter struct {
	In           *bufio.Reader
	Out          io.Writer
	ReadPassword func() ([]byte, error)
}

// New creates a prompter over r and w. Password input is read from r as
// a plain line unless r is the terminal.
func New(r io.Reader, w io.Writer) *Prompter {
	p := &Prompter{In: bufio.NewReader(r), Out: w}
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		p.ReadPassword = func() ([]byte, error) { return term.ReadPassword(fd) }
	}
	return p
}

func (p *Prompter) readLine() (string, error) {
	input, err := p.In.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", err
	}
	return strings.TrimRight(input, "\r\n"), nil
}

// String prompts user for a string input
func (p *Prompter) String(label string) (string, error) {
	fmt.Fprint(p.Out, label)
	input, err := p.readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// Password prompts user for a password (hidden input)
func (p *Prompter) Password(label string) (string, error) {
	fmt.Fprint(p.Out, label)

	if p.ReadPassword == nil {
		return p.readLine()
	}
	// Read password without echoing
	bytepw, err := p.ReadPassword()
	if err != nil {
		return "", err
	}
	fmt.Fprintln(p.Out) // New line after password input
	return string(bytepw), nil
}

// Confirm prompts user for yes/no confirmation
func (p *Prompter) Confirm(label string) (bool, error) {
	fmt.Fprint(p.Out, label+" (y/n) ")
	input, err := p.readLine()
	if err != nil {
		return false, err
	}

	response := strings.TrimSpace(strings.ToLower(input))
	return response == "y" || response == "yes", nil
}

// Select prompts user to select from options and returns its index
func (p *Prompter) Select(label string, options []string) (int, error) {
	fmt.Fprintln(p.Out, label)
	for i, opt := range options {
		fmt.Fprintf(p.Out, "%d) %s\n", i+1, opt)
	}

	fmt.Fprint(p.Out, "Select option: ")
	input, err := p.readLine()
	if err != nil {
		return -1, err
	}

	var selection int
	if _, err := fmt.Sscanf(strings.TrimSpace(input), "%d", &selection); err != nil {
		return -1, err
	}
	if selection < 1 || selection > len(options) {
		return -1, fmt.Errorf("invalid selection")
	}
	return selection - 1, nil
}

// Multiline reads lines until an empty line or maxLines
func (p *Prompter) Multiline(label string, maxLines int) (string, error) {
	fmt.Fprintf(p.Out, "%s (finish with an empty line):\n", label)

	var lines []string
	for i := 0; i < maxLines; i++ {
		line, err := p.readLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}
