// Package importer turns delimited roster text into student names.
//
// The format is deliberately loose: one record per line, the student name in
// the first comma-separated field, and an optional header row whose first
// field is literally "Name". Anything that does not yield a name is dropped
// rather than reported.
package importer

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// HeaderToken is the first field of an optional header row. The match is
// exact and case-sensitive.
const HeaderToken = "Name"

// ParseNames extracts one candidate name per line of text, in order.
// Empty lines, blank first fields and header rows are skipped.
func ParseNames(text string) []string {
	return CleanNames(strings.Split(text, "\n"))
}

// CleanNames reduces each candidate record to its trimmed first
// comma-separated field and keeps those that are neither empty nor the
// header token. Input order is preserved and duplicates are kept.
func CleanNames(candidates []string) []string {
	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		first, _, _ := strings.Cut(c, ",")
		name := strings.TrimSpace(first)
		if name == "" || name == HeaderToken {
			continue
		}
		names = append(names, name)
	}
	return names
}

// ReadNames reads all of r and parses it with ParseNames. The only error
// returned is a read failure; malformed content never fails.
func ReadNames(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	return ParseNames(string(data)), nil
}

// ReadFile parses the roster file at path.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster file: %w", err)
	}
	defer f.Close()
	return ReadNames(f)
}
