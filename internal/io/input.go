package io

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadText collects the text to search for: piped stdin, then --file contents, then CLI args.
// Sources are separated by a blank line; stdin and file contents lose trailing whitespace
// but CLI args are kept as typed.
func ReadText(stdin *os.File, args []string, files []string) (string, error) {
	var parts []string

	piped, err := readPiped(stdin)
	if err != nil {
		return "", err
	}
	if piped != "" {
		parts = append(parts, piped)
	}

	for _, path := range files {
		if path == "" {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read text file %q: %w", path, err)
		}
		if text := trimTrailing(string(content)); text != "" {
			parts = append(parts, text)
		}
	}

	if joined := strings.Join(args, " "); joined != "" {
		parts = append(parts, joined)
	}

	return strings.Join(parts, "\n\n"), nil
}

// readPiped reads stdin only when it is not a terminal
func readPiped(stdin *os.File) (string, error) {
	if stdin == nil {
		return "", nil
	}

	stat, err := stdin.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat stdin: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice != 0 {
		return "", nil
	}

	content, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read from stdin: %w", err)
	}
	return trimTrailing(string(content)), nil
}

func trimTrailing(s string) string {
	return strings.TrimRight(s, "\r\n\t ")
}
