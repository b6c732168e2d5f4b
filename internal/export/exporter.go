package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/gorewood/avcp/internal/atomicfile"
	"github.com/gorewood/avcp/internal/config"
	"github.com/gorewood/avcp/internal/contract"
	"github.com/gorewood/avcp/internal/logging"
	"github.com/gorewood/avcp/internal/table"
)

// Defaults applied to empty Options fields.
const (
	DefaultPrimaryKey = "row_id"
	Unknown           = "unknown"
)

// Supported data file extensions.
const (
	ExtParquet = ".parquet"
	ExtCSV     = ".csv"
)

// Options controls an export.
type Options struct {
	// ConfigPath is the YAML config file. Defaults to config/config.yaml.
	ConfigPath string

	// RepoRoot, when set, anchors a relative interim_viz_dir instead of the
	// config path heuristic.
	RepoRoot string

	// PrimaryKey names the key column. Defaults to row_id. If the table has
	// no such column, one is synthesized.
	PrimaryKey string

	ProvenanceScript string
	GitCommit        string
}

func (o Options) withDefaults() Options {
	if o.ConfigPath == "" {
		o.ConfigPath = config.DefaultConfigPath
	}
	if o.PrimaryKey == "" {
		o.PrimaryKey = DefaultPrimaryKey
	}
	if o.ProvenanceScript == "" {
		o.ProvenanceScript = Unknown
	}
	if o.GitCommit == "" {
		o.GitCommit = Unknown
	}
	return o
}

// Result holds the absolute paths of the written files.
type Result struct {
	DataPath string `json:"data_path"`
	MetaPath string `json:"meta_path"`
}

// Exporter writes tables and their sidecars.
type Exporter struct {
	log *log.Logger
}

// NewExporter creates an Exporter logging through logs.
func NewExporter(logs *logging.Provider) *Exporter {
	return &Exporter{log: logs.Logger("avcp.export")}
}

// ExportForVisualization writes t to filename inside the configured interim
// directory (or to filename itself when it is absolute), followed by its
// sidecar. Contract violations, including an unsupported extension, match
// contract.ErrViolation.
func (e *Exporter) ExportForVisualization(t *table.Table, filename string, opts Options) (Result, error) {
	opts = opts.withDefaults()

	configPath, err := filepath.Abs(opts.ConfigPath)
	if err != nil {
		return Result{}, fmt.Errorf("resolving config path %s: %w", opts.ConfigPath, err)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return Result{}, err
	}

	outDir := config.ResolveOutputDir(cfg, configPath, opts.RepoRoot)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("creating output directory %s: %w", outDir, err)
	}

	dataPath := outputPath(outDir, filename)
	ext := dataExt(dataPath)
	if ext != ExtParquet && ext != ExtCSV {
		return Result{}, contract.NewViolation(contract.ReasonFormat, "filename must end with .parquet or .csv")
	}

	t, err = e.ensurePrimaryKey(t, opts.PrimaryKey)
	if err != nil {
		return Result{}, err
	}
	if err := contract.Validate(t, opts.PrimaryKey); err != nil {
		return Result{}, err
	}

	e.log.Info("saving table", "rows", t.Rows(), "cols", len(t.Columns()), "path", dataPath)
	if err := writeData(dataPath, ext, t); err != nil {
		return Result{}, err
	}

	sidecar := newSidecar(dataPath, opts.PrimaryKey, t, Provenance{
		Script:    opts.ProvenanceScript,
		GitCommit: opts.GitCommit,
		Config:    configPath,
	})
	buf, err := sidecar.encode()
	if err != nil {
		return Result{}, err
	}
	metaPath := SidecarPath(dataPath)
	if err := atomicfile.WriteFile(metaPath, buf, atomicfile.DefaultPerm); err != nil {
		return Result{}, fmt.Errorf("writing sidecar %s: %w", metaPath, err)
	}
	e.log.Info("wrote meta sidecar", "path", metaPath)

	return Result{DataPath: dataPath, MetaPath: metaPath}, nil
}

// ensurePrimaryKey returns t with a 0..n-1 key column inserted first when
// the key column is absent. A nil table is returned as is for the validator
// to reject.
func (e *Exporter) ensurePrimaryKey(t *table.Table, primaryKey string) (*table.Table, error) {
	if t == nil || t.HasColumn(primaryKey) {
		return t, nil
	}
	e.log.Info("primary key missing; synthesizing sequential ids", "primary_key", primaryKey)
	withKey, err := t.WithColumnAt(0, table.Sequence(primaryKey, t.Rows()))
	if err != nil {
		return nil, fmt.Errorf("adding primary key %q: %w", primaryKey, err)
	}
	return withKey, nil
}

// outputPath places filename inside outDir. An absolute filename is used as
// given.
func outputPath(outDir, filename string) string {
	if filepath.IsAbs(filename) {
		return filepath.Clean(filename)
	}
	return filepath.Join(outDir, filename)
}

// dataExt returns the lowercased extension of path. A name that is only an
// extension, such as ".csv", has none.
func dataExt(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == base {
		return ""
	}
	return strings.ToLower(ext)
}

func writeData(path, ext string, t *table.Table) error {
	var buf bytes.Buffer
	var err error
	switch ext {
	case ExtParquet:
		err = table.WriteParquet(&buf, t)
	default:
		err = table.WriteCSV(&buf, t)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := atomicfile.WriteFile(path, &buf, atomicfile.DefaultPerm); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
