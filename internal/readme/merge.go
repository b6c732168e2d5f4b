// Package readme keeps a generated block inside a Markdown README in sync
// with project metadata.
package readme

import "strings"

const (
	// StartMarker marks the start of the generated README block.
	StartMarker = "<!-- AVCP:README:START -->"
	// EndMarker marks the end of the generated README block.
	EndMarker = "<!-- AVCP:README:END -->"
)

// Merge returns document with rendered placed between the README markers.
//
// If the document already holds a start marker line followed later by an end
// marker line, the first such span (markers included) is replaced. Otherwise
// the block is inserted after the first level-1 heading, or at the top of the
// document when there is none. The result ends with exactly one newline.
func Merge(document, rendered string) string {
	block := controlledBlock(rendered)
	lines := splitLines(document)

	if start, end, ok := findMarkedSpan(lines); ok {
		merged := make([]string, 0, len(lines)-(end-start+1)+len(block))
		merged = append(merged, lines[:start]...)
		merged = append(merged, block...)
		merged = append(merged, lines[end+1:]...)
		return joinLines(merged)
	}

	return insertNearTop(lines, block)
}

// controlledBlock wraps rendered text in the marker lines. The rendered text
// always occupies at least one line, so an empty block keeps a blank line
// between the markers.
func controlledBlock(rendered string) []string {
	return splitLines(StartMarker + "\n" + rendered + "\n" + EndMarker)
}

// findMarkedSpan locates the first start marker line and the first end marker
// line after it. Lines are compared after trimming surrounding whitespace.
func findMarkedSpan(lines []string) (start, end int, ok bool) {
	start = -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if start < 0 {
			if trimmed == StartMarker {
				start = i
			}
			continue
		}
		if trimmed == EndMarker {
			return start, i, true
		}
	}
	return 0, 0, false
}

// insertNearTop places block after the first "# " heading, separated by blank
// lines, or prepends it when the document has no level-1 heading.
func insertNearTop(lines, block []string) string {
	if len(lines) == 0 {
		return joinLines(block)
	}

	heading := -1
	for i, line := range lines {
		if strings.HasPrefix(line, "# ") {
			heading = i
			break
		}
	}

	merged := make([]string, 0, len(lines)+len(block)+2)
	if heading < 0 {
		merged = append(merged, block...)
		merged = append(merged, "")
		merged = append(merged, lines...)
		return joinLines(merged)
	}

	merged = append(merged, lines[:heading+1]...)
	merged = append(merged, "")
	merged = append(merged, block...)
	if suffix := lines[heading+1:]; len(suffix) > 0 {
		merged = append(merged, "")
		merged = append(merged, suffix...)
	}
	return joinLines(merged)
}

// splitLines splits text into lines without their terminators.
// A final newline does not produce a trailing empty line.
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

// joinLines joins lines and normalizes the result to one trailing newline.
func joinLines(lines []string) string {
	return SingleTrailingNewline(strings.Join(lines, "\n"))
}

// SingleTrailingNewline strips trailing newlines and appends exactly one.
func SingleTrailingNewline(text string) string {
	return strings.TrimRight(text, "\n") + "\n"
}
