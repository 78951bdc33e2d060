package utils

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// promptPassword reads a line from the terminal without echoing it.
// When stdin is not a terminal the line is read in the clear, so
// piped passwords still work.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	var line strings.Builder
	var buf [1]byte
	for {
		n, err := os.Stdin.Read(buf[:])
		if n > 0 {
			if buf[0] == '\n' {
				break
			}
			line.WriteByte(buf[0])
		}
		if err != nil {
			break
		}
	}
	return strings.TrimSuffix(line.String(), "\r"), nil
}

// GetPassPhrase displays the given text(prompt) to the user and
// requests some textual data to be entered, but one which must not be
// echoed out into the terminal. The method returns the input provided
// by the user.
func GetPassPhrase(text string, confirmation bool) string {
	if text != "" {
		fmt.Fprintln(os.Stderr, text)
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		Fatalf("Failed to read password: %v", err)
	}
	if confirmation {
		confirm, err := promptPassword("Repeat password: ")
		if err != nil {
			Fatalf("Failed to read password confirmation: %v", err)
		}
		if password != confirm {
			Fatalf("Passwords do not match")
		}
	}
	return password
}

// GetPassPhraseWithList retrieves the password associated with an
// account, either fetched from a list of preloaded passphrases, or
// requested interactively from the user.
func GetPassPhraseWithList(text string, confirmation bool, index int, passwords []string) string {
	if len(passwords) > 0 {
		if index < len(passwords) {
			return passwords[index]
		}
		return passwords[len(passwords)-1]
	}
	return GetPassPhrase(text, confirmation)
}
