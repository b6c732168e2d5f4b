package output

import (
	"fmt"
	"io"
	"os"
)

// Accepted values for the --color flag.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ValidateColorMode rejects --color values other than auto, always and never.
func ValidateColorMode(colorMode string) error {
	switch colorMode {
	case ColorAuto, ColorAlways, ColorNever:
		return nil
	default:
		return NewUserError(fmt.Sprintf("--color must be %q, %q or %q", ColorAuto, ColorAlways, ColorNever))
	}
}

// ResolveColorMode determines the effective isTTY value based on the --color
// flag and actual TTY detection:
//   - "never":  always disable colors (returns false)
//   - "always": always enable colors (returns true)
//   - anything else: use the detected isTTY value
func ResolveColorMode(colorMode string, isTTY bool) bool {
	switch colorMode {
	case ColorNever:
		return false
	case ColorAlways:
		return true
	default:
		return isTTY
	}
}

// IsTTY checks if a writer is a terminal.
// Returns true only for os.File that is a terminal.
func IsTTY(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	stat, err := file.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
