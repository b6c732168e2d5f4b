package changelog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/gorewood/avcp/internal/atomicfile"
	"github.com/gorewood/avcp/internal/logging"
)

// DefaultFile is the changelog path used when none is given.
const DefaultFile = "docs/dev_log.md"

// ErrEmptyEntry is returned for entries that are blank after trimming.
var ErrEmptyEntry = errors.New("changelog entry must not be empty")

// Result describes the outcome of an Update.
type Result struct {
	Path    string `json:"path"`
	Entry   string `json:"entry"`
	Changed bool   `json:"changed"`
	Created bool   `json:"created"`
}

// Updater applies entries to changelog files on disk.
type Updater struct {
	log *log.Logger
}

// NewUpdater creates an Updater logging through logs.
func NewUpdater(logs *logging.Provider) *Updater {
	return &Updater{log: logs.Logger("avcp.changelog")}
}

// Update inserts entry into the changelog at path. A missing file is created
// holding only the changelog heading before the entry is inserted.
func (u *Updater) Update(path, entry string) (Result, error) {
	if path == "" {
		path = DefaultFile
	}
	result := Result{Path: path, Entry: NormalizeEntry(entry)}

	if strings.TrimSpace(entry) == "" {
		return result, ErrEmptyEntry
	}

	created, err := ensureFile(path)
	if err != nil {
		return result, err
	}
	result.Created = created
	if created {
		u.log.Info("created changelog", "path", path)
	}

	existing, err := os.ReadFile(path)
	if err != nil {
		return result, fmt.Errorf("reading changelog %s: %w", path, err)
	}

	updated, err := Insert(string(existing), entry)
	if err != nil {
		return result, err
	}
	result.Changed = updated != string(existing)

	if err := atomicfile.WriteFile(path, strings.NewReader(updated), atomicfile.DefaultPerm); err != nil {
		return result, fmt.Errorf("writing changelog %s: %w", path, err)
	}

	if result.Changed {
		u.log.Info("added changelog entry", "path", path, "entry", result.Entry)
	} else {
		u.log.Info("changelog entry already present", "path", path, "entry", result.Entry)
	}
	return result, nil
}

// ensureFile creates path (and its parent directories) with a bare heading
// when it does not exist. It reports whether the file was created.
func ensureFile(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("checking changelog %s: %w", path, err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("creating changelog directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(Heading+"\n"), 0o644); err != nil { //nolint:gosec // changelog is a tracked docs file
		return false, fmt.Errorf("creating changelog %s: %w", path, err)
	}
	return true, nil
}
