package readme

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/gorewood/avcp/internal/atomicfile"
	"github.com/gorewood/avcp/internal/logging"
	"github.com/gorewood/avcp/internal/metadata"
	"github.com/gorewood/avcp/internal/render"
)

// ErrStale is returned in check mode when the README differs from what the
// generator would write.
var ErrStale = errors.New("README is out of date")

// Default file locations, relative to the working directory.
const (
	DefaultProjectFile  = "project.yaml"
	DefaultTemplateFile = "docs/readme.template.md"
	DefaultReadmeFile   = "README.md"
)

// RegenerateHint is logged alongside a stale README.
const RegenerateHint = "avcp readme"

// Options selects the input files and mode for a generator run.
type Options struct {
	ProjectFile  string
	TemplateFile string
	ReadmeFile   string

	// Check compares instead of writing.
	Check bool
}

// withDefaults fills empty paths with the default locations.
func (o Options) withDefaults() Options {
	if o.ProjectFile == "" {
		o.ProjectFile = DefaultProjectFile
	}
	if o.TemplateFile == "" {
		o.TemplateFile = DefaultTemplateFile
	}
	if o.ReadmeFile == "" {
		o.ReadmeFile = DefaultReadmeFile
	}
	return o
}

// Result describes the outcome of a generator run.
type Result struct {
	Path    string `json:"path"`
	Changed bool   `json:"changed"`
	Stale   bool   `json:"stale"`
	// Created is set when a missing README was written.
	Created bool `json:"created"`
}

// Generator renders the README block from project metadata.
type Generator struct {
	log *log.Logger
}

// NewGenerator creates a Generator logging through logs.
func NewGenerator(logs *logging.Provider) *Generator {
	return &Generator{log: logs.Logger("avcp.readme")}
}

// Run loads metadata, renders the template and merges it into the README.
// In check mode nothing is written and ErrStale is returned if the README
// would change. A missing README is treated as empty.
func (g *Generator) Run(opts Options) (Result, error) {
	opts = opts.withDefaults()
	result := Result{Path: opts.ReadmeFile}

	project, err := metadata.Load(opts.ProjectFile)
	if err != nil {
		return result, err
	}

	rendered, err := render.File(opts.TemplateFile, project)
	if err != nil {
		return result, err
	}

	current, exists, err := readOptional(opts.ReadmeFile)
	if err != nil {
		return result, err
	}

	expected := Merge(current, rendered)
	normalized := ""
	if current != "" {
		normalized = SingleTrailingNewline(current)
	}
	result.Changed = normalized != expected

	if opts.Check {
		if result.Changed {
			result.Stale = true
			g.log.Error("README is out of date", "path", opts.ReadmeFile, "run", RegenerateHint)
			return result, fmt.Errorf("%w: %s", ErrStale, opts.ReadmeFile)
		}
		g.log.Info("README is up to date", "path", opts.ReadmeFile)
		return result, nil
	}

	if err := atomicfile.WriteFile(opts.ReadmeFile, strings.NewReader(expected), atomicfile.DefaultPerm); err != nil {
		return result, fmt.Errorf("writing README %s: %w", opts.ReadmeFile, err)
	}
	result.Created = !exists
	g.log.Info("updated README markers", "path", opts.ReadmeFile)
	return result, nil
}

// readOptional returns the file content with CRLF line endings translated to
// LF. A missing file reads as "" with exists false.
func readOptional(path string) (content string, exists bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading README %s: %w", path, err)
	}
	return strings.ReplaceAll(string(data), "\r\n", "\n"), true, nil
}
