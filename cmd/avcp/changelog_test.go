package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorewood/avcp/internal/output"
)

func TestChangelogCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs", "dev_log.md")

	stdout, _, err := execute(t, "changelog", "--entry", "feat: init", "--file", path)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(stdout, "Added - feat: init") {
		t.Errorf("stdout = %q", stdout)
	}

	stdout, stderr, err := execute(t, "changelog", "--entry", "- feat: init", "--file", path)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !strings.Contains(stdout, "No changes to") {
		t.Errorf("stdout = %q", stdout)
	}
	if !strings.Contains(stderr, `Warning: entry "- feat: init" already present`) {
		t.Errorf("stderr = %q", stderr)
	}

	got, _ := os.ReadFile(path)
	want := "# Changelog\n\n## Unreleased\n- feat: init\n"
	if string(got) != want {
		t.Errorf("changelog = %q, want %q", got, want)
	}
}

func TestChangelogCommand_EntryRequired(t *testing.T) {
	_, _, err := execute(t, "changelog", "--file", filepath.Join(t.TempDir(), "dev_log.md"))
	if err == nil || !strings.Contains(err.Error(), "entry") {
		t.Errorf("error = %v, want missing --entry", err)
	}
}

func TestChangelogCommand_EmptyEntry(t *testing.T) {
	_, _, err := execute(t, "changelog", "--entry", "  ", "--file", filepath.Join(t.TempDir(), "dev_log.md"))
	if code := output.GetExitCode(err); code != output.ExitUserError {
		t.Errorf("exit code = %d, want %d", code, output.ExitUserError)
	}
}
