// Package render fills text templates with project metadata.
//
// Templates use Go text/template syntax and refer to metadata keys as
// {{ .title }}. Referencing a key that the metadata does not define is an
// error rather than an empty string.
package render

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"text/template"
)

// ErrTemplateNotFound is returned when the template file does not exist.
// It also matches fs.ErrNotExist.
var ErrTemplateNotFound = fmt.Errorf("missing README template file: %w", fs.ErrNotExist)

// ErrTemplate is returned when a template fails to parse or execute,
// including references to undefined metadata keys.
var ErrTemplate = errors.New("invalid template")

// File renders the template at path with data.
func File(path string, data map[string]any) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
		}
		return "", fmt.Errorf("reading template %s: %w", path, err)
	}
	return String(filepath.Base(path), string(content), data)
}

// String renders template text with data. Leading and trailing newlines are
// stripped from the result.
func String(name, text string, data map[string]any) (string, error) {
	tmpl, err := template.New(name).
		Option("missingkey=error").
		Funcs(funcs()).
		Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing template %s: %w: %w", name, ErrTemplate, err)
	}

	var builder strings.Builder
	if err := tmpl.Execute(&builder, data); err != nil {
		return "", fmt.Errorf("rendering template %s: %w: %w", name, ErrTemplate, err)
	}
	return strings.Trim(builder.String(), "\n"), nil
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"join":    join,
		"default": defaultValue,
	}
}

// join renders the elements of a list separated by sep.
// Usage: {{ join ", " .datasets }}
func join(sep string, list any) (string, error) {
	if list == nil {
		return "", nil
	}
	value := reflect.ValueOf(list)
	if value.Kind() != reflect.Slice && value.Kind() != reflect.Array {
		return "", fmt.Errorf("join: expected a list, got %T", list)
	}
	parts := make([]string, 0, value.Len())
	for i := range value.Len() {
		parts = append(parts, fmt.Sprint(value.Index(i).Interface()))
	}
	return strings.Join(parts, sep), nil
}

// defaultValue returns fallback when value is nil or an empty string.
// Usage: {{ .stage | default "draft" }}
func defaultValue(fallback, value any) any {
	if value == nil {
		return fallback
	}
	if s, ok := value.(string); ok && s == "" {
		return fallback
	}
	return value
}
