package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// getSimpleText is an indirection used to facilitate testing.
var getSimpleText = GetSimpleText

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPIN prints a prompt to w and reads a PIN from the user's terminal
// without echo. A newline is printed after the read to keep the UI tidy.
func GetPIN(w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, "Enter PIN: "); err != nil {
		return "", err
	}
	pin, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(pin)), nil
}

// GetMultiline prints a prompt to w and reads multiple lines until an empty
// line is entered. The trailing newline on each line is trimmed.
//
// This helper is used for URL lists (gallery images, TV video sets).
func GetMultiline(reader *bufio.Reader, prompt string, w io.Writer) ([]string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n(press Enter on an empty line to finish)\n"); err != nil {
		return nil, err
	}

	var lines []string
	for {
		line, _ := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
	}

	return lines, nil
}
