// Package changelog appends bullet entries to the Unreleased section of a
// Markdown changelog.
package changelog

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Heading is the top-level changelog heading.
	Heading = "# Changelog"
	// UnreleasedHeading collects entries not yet assigned to a version.
	UnreleasedHeading = "## Unreleased"

	bullet        = "- "
	sectionPrefix = "## "
)

// ErrInvariant signals that the changelog headings were not where the
// inserter had just put them. It indicates a bug, not bad input.
var ErrInvariant = errors.New("changelog invariant violated")

// NormalizeEntry trims entry and prefixes it with "- " unless already present.
func NormalizeEntry(entry string) string {
	stripped := strings.TrimSpace(entry)
	if strings.HasPrefix(stripped, bullet) {
		return stripped
	}
	return bullet + stripped
}

// Insert appends entry as the last bullet of the Unreleased section.
//
// Missing "# Changelog" and "## Unreleased" headings are created. When the
// normalized entry already appears as a line anywhere in the changelog, the
// text is returned unchanged apart from trailing newline normalization.
func Insert(text, entry string) (string, error) {
	entryLine := NormalizeEntry(entry)
	lines := splitLines(text)

	if findLine(lines, entryLine) >= 0 {
		return renderLines(lines), nil
	}

	lines = ensureHeading(lines)

	unreleased := findLine(lines, UnreleasedHeading)
	if unreleased < 0 {
		heading := findLine(lines, Heading)
		if heading < 0 {
			return "", fmt.Errorf("%w: missing %q after normalization", ErrInvariant, Heading)
		}
		lines = insertAt(lines, heading+1, "", UnreleasedHeading)
		unreleased = findLine(lines, UnreleasedHeading)
		if unreleased < 0 {
			return "", fmt.Errorf("%w: failed to create %q section", ErrInvariant, UnreleasedHeading)
		}
	}

	end := len(lines)
	for i := unreleased + 1; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], sectionPrefix) {
			end = i
			break
		}
	}

	at := end
	for at > unreleased+1 && strings.TrimSpace(lines[at-1]) == "" {
		at--
	}

	return renderLines(insertAt(lines, at, entryLine)), nil
}

// ensureHeading prepends the changelog heading and a blank line if missing.
func ensureHeading(lines []string) []string {
	if findLine(lines, Heading) >= 0 {
		return lines
	}
	return append([]string{Heading, ""}, lines...)
}

// findLine returns the index of the first line equal to expected after
// trimming, or -1.
func findLine(lines []string, expected string) int {
	for i, line := range lines {
		if strings.TrimSpace(line) == expected {
			return i
		}
	}
	return -1
}

func insertAt(lines []string, index int, values ...string) []string {
	out := make([]string, 0, len(lines)+len(values))
	out = append(out, lines[:index]...)
	out = append(out, values...)
	return append(out, lines[index:]...)
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func renderLines(lines []string) string {
	return strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n"
}
