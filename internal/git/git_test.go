package git

import (
	"errors"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/gorewood/avcp/internal/output"
)

// initRepo creates a repository with one empty commit in a temp dir and
// changes into it. Skips the test if git is not installed.
func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	t.Chdir(dir)

	for _, args := range [][]string{
		{"init", "--quiet"},
		{"-c", "user.name=avcp", "-c", "user.email=avcp@example.com", "commit", "--quiet", "--allow-empty", "-m", "init"},
	} {
		if _, err := Run(args...); err != nil {
			t.Fatalf("git %v: %v", args, err)
		}
	}
	return dir
}

// chdirOutsideRepo changes into a temp dir that is not a git repository.
func chdirOutsideRepo(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	t.Chdir(dir)
	if IsRepo() {
		t.Skip("temp dir is inside a git repository")
	}
}

func TestRun(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	tests := []struct {
		name     string
		args     []string
		wantErr  bool
		wantCode int
	}{
		{name: "git version succeeds", args: []string{"version"}},
		{name: "invalid git command", args: []string{"invalid-command-that-does-not-exist"}, wantErr: true, wantCode: output.ExitSystemError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Run(tt.args...)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Run() unexpected error: %v", err)
				}
				if out == "" {
					t.Error("Run() expected non-empty output")
				}
				return
			}

			var exitErr *output.ExitError
			if !errors.As(err, &exitErr) {
				t.Fatalf("Run() error should be *output.ExitError, got %T", err)
			}
			if exitErr.Code != tt.wantCode {
				t.Errorf("Run() exit code = %d, want %d", exitErr.Code, tt.wantCode)
			}
		})
	}
}

func TestInRepo(t *testing.T) {
	dir := initRepo(t)

	if !IsRepo() {
		t.Error("IsRepo() = false, expected true")
	}

	root, err := RepoRoot()
	if err != nil {
		t.Fatalf("RepoRoot() error = %v", err)
	}
	want, _ := filepath.EvalSymlinks(dir)
	got, _ := filepath.EvalSymlinks(root)
	if got != want {
		t.Errorf("RepoRoot() = %q, want %q", got, want)
	}

	sha, err := HEAD()
	if err != nil {
		t.Fatalf("HEAD() error = %v", err)
	}
	if len(sha) != 40 {
		t.Errorf("HEAD() returned SHA of length %d, expected 40", len(sha))
	}
	if got := HeadCommitOr("unknown"); got != sha {
		t.Errorf("HeadCommitOr() = %q, want %q", got, sha)
	}
}

func TestOutsideRepo(t *testing.T) {
	chdirOutsideRepo(t)

	if IsRepo() {
		t.Error("IsRepo() = true, expected false outside git repo")
	}

	_, err := RepoRoot()
	var exitErr *output.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != output.ExitSystemError {
		t.Errorf("RepoRoot() error = %v, want system ExitError", err)
	}

	if _, err := HEAD(); err == nil {
		t.Error("HEAD() expected error outside git repo")
	}
	if got := HeadCommitOr("unknown"); got != "unknown" {
		t.Errorf("HeadCommitOr() = %q, want fallback", got)
	}
}
