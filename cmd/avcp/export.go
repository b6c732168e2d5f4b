package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/avcp/internal/config"
	"github.com/gorewood/avcp/internal/export"
	"github.com/gorewood/avcp/internal/git"
	"github.com/gorewood/avcp/internal/output"
	"github.com/gorewood/avcp/internal/table"
)

// exportFlags holds the export command flags.
type exportFlags struct {
	input      string
	filename   string
	configPath string
	primaryKey string
	script     string
	gitCommit  string
	repoRoot   string
}

// newExportCmd creates the export command.
func newExportCmd(a *app) *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a table for visualization with a JSON sidecar",
		Long: `Read a CSV or parquet table and write it to the configured interim
visualization directory (paths.interim_viz_dir, default data/interim_viz),
followed by a <stem>_meta.json sidecar with column types and provenance.

A missing primary key column is synthesized as sequential ids starting at 0.
Without --git-commit the current HEAD is recorded, or "unknown" outside a
repository.

Examples:
  avcp export --input data/clean.csv --filename clean.parquet
  avcp export --input raw.parquet --filename viz.csv --primary-key id --script analysis/clean.R`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, a, flags)
		},
	}

	cmd.Flags().StringVar(&flags.input, "input", "", "Input table (.csv or .parquet, required)")
	cmd.Flags().StringVar(&flags.filename, "filename", "", "Output file name ending in .parquet or .csv (required)")
	cmd.Flags().StringVar(&flags.configPath, "config", config.DefaultConfigPath, "Config file")
	cmd.Flags().StringVar(&flags.primaryKey, "primary-key", export.DefaultPrimaryKey, "Primary key column")
	cmd.Flags().StringVar(&flags.script, "script", export.Unknown, "Provenance script recorded in the sidecar")
	cmd.Flags().StringVar(&flags.gitCommit, "git-commit", "", "Provenance commit (default: current HEAD)")
	cmd.Flags().StringVar(&flags.repoRoot, "repo-root", "", "Root for a relative interim_viz_dir")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("filename")

	return cmd
}

// runExport executes the export command.
func runExport(cmd *cobra.Command, a *app, flags exportFlags) error {
	printer := newPrinter(cmd)

	tbl, err := readTable(flags.input)
	if err != nil {
		return toExitError(err)
	}

	gitCommit := flags.gitCommit
	if gitCommit == "" {
		gitCommit = git.HeadCommitOr(export.Unknown)
	}

	result, err := export.NewExporter(a.logs).ExportForVisualization(tbl, flags.filename, export.Options{
		ConfigPath:       flags.configPath,
		RepoRoot:         resolveRepoRoot(flags),
		PrimaryKey:       flags.primaryKey,
		ProvenanceScript: flags.script,
		GitCommit:        gitCommit,
	})
	if err != nil {
		return toExitError(err)
	}

	return printer.Success(map[string]any{
		"message":   fmt.Sprintf("Exported %d rows to %s", tbl.Rows(), result.DataPath),
		"rows":      tbl.Rows(),
		"data_path": result.DataPath,
		"meta_path": result.MetaPath,
	})
}

// resolveRepoRoot returns --repo-root, or the git toplevel when the config
// path does not follow the config/config.yaml convention. An empty result
// leaves resolution to the exporter.
func resolveRepoRoot(flags exportFlags) string {
	if flags.repoRoot != "" {
		return flags.repoRoot
	}
	if strings.HasSuffix(filepath.ToSlash(flags.configPath), config.DefaultConfigPath) || !git.IsRepo() {
		return ""
	}
	root, err := git.RepoRoot()
	if err != nil {
		return ""
	}
	return root
}

// readTable loads a CSV or parquet file by extension.
func readTable(path string) (*table.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, output.NewUserErrorWithCause("input file not found: "+path, err)
		}
		return nil, fmt.Errorf("opening input %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck // read-only

	switch strings.ToLower(filepath.Ext(path)) {
	case export.ExtCSV:
		tbl, err := table.ReadCSV(file)
		if err != nil {
			return nil, output.NewUserErrorWithCause(fmt.Sprintf("reading %s: %v", path, err), err)
		}
		return tbl, nil
	case export.ExtParquet:
		info, err := file.Stat()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		tbl, err := table.ReadParquet(file, info.Size())
		if err != nil {
			return nil, output.NewUserErrorWithCause(fmt.Sprintf("reading %s: %v", path, err), err)
		}
		return tbl, nil
	default:
		return nil, output.NewUserError("input must end with .csv or .parquet: " + path)
	}
}
