package cmd

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/HaiFongPan/hanbatbox-cli/internal/notice"
)

// readPassword returns flagValue, or prompts for a password without echo on a terminal
func readPassword(flagValue, prompt string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("password is required (use --password)")
	}

	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}

// confirm asks a yes/no question on stdin
func confirm(question string) bool {
	fmt.Printf("%s (y/N): ", question)
	var response string
	fmt.Scanln(&response)
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

// printNotices writes every open notice except skip to stdout and closes it
func printNotices(reg *notice.Registry, skip string) {
	for _, id := range reg.OpenIDs() {
		if id == skip {
			continue
		}
		if n, ok := reg.Get(id); ok {
			fmt.Printf("%s: %s\n", n.Header, n.Body)
		}
		reg.Close(id)
	}
}
