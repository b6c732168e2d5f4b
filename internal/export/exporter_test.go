package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gorewood/avcp/internal/config"
	"github.com/gorewood/avcp/internal/contract"
	"github.com/gorewood/avcp/internal/logging"
	"github.com/gorewood/avcp/internal/table"
)

// writeConfig creates <dir>/config/config.yaml.
func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func mustTable(t *testing.T, columns ...table.Column) *table.Table {
	t.Helper()
	tbl, err := table.New(columns...)
	if err != nil {
		t.Fatalf("table.New() error = %v", err)
	}
	return tbl
}

func readSidecar(t *testing.T, path string) Sidecar {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading sidecar: %v", err)
	}
	var meta Sidecar
	if err := json.Unmarshal(data, &meta); err != nil {
		t.Fatalf("decoding sidecar: %v", err)
	}
	return meta
}

func TestExport_ParquetWithSynthesizedKey(t *testing.T) {
	t.Setenv("AVCP_INTERIM_VIZ_DIR", "")
	root := t.TempDir()
	vizDir := filepath.Join(root, "viz")
	cfgPath := writeConfig(t, root, "paths:\n  interim_viz_dir: "+filepath.ToSlash(vizDir)+"\n")

	src := mustTable(t,
		table.Column{Name: "a", Type: table.Int, Values: []any{int64(1), int64(2), int64(3)}},
		table.Column{Name: "b", Type: table.String, Values: []any{"x", "y", "z"}},
	)

	var logs bytes.Buffer
	exporter := NewExporter(logging.NewProvider(&logs, logging.WithTimestamp(false)))
	result, err := exporter.ExportForVisualization(src, "example.parquet", Options{
		ConfigPath:       cfgPath,
		ProvenanceScript: "internal/export/exporter_test.go",
	})
	if err != nil {
		t.Fatalf("ExportForVisualization() error = %v", err)
	}

	if result.DataPath != filepath.Join(vizDir, "example.parquet") {
		t.Errorf("DataPath = %q", result.DataPath)
	}
	if result.MetaPath != filepath.Join(vizDir, "example_meta.json") {
		t.Errorf("MetaPath = %q", result.MetaPath)
	}
	if src.HasColumn("row_id") {
		t.Error("source table must not gain the synthesized key")
	}

	meta := readSidecar(t, result.MetaPath)
	want := Sidecar{
		File:       "example.parquet",
		PrimaryKey: "row_id",
		Columns:    map[string]string{"row_id": "int64", "a": "int64", "b": "string"},
		Provenance: Provenance{
			Script:    "internal/export/exporter_test.go",
			GitCommit: "unknown",
			Config:    cfgPath,
		},
	}
	if diff := cmp.Diff(want, meta); diff != "" {
		t.Errorf("sidecar mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(result.DataPath)
	if err != nil {
		t.Fatal(err)
	}
	back, err := table.ReadParquet(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("ReadParquet() error = %v", err)
	}
	if back.Rows() != 3 {
		t.Errorf("Rows() = %d, want 3", back.Rows())
	}
	if diff := cmp.Diff([]string{"a", "b", "row_id"}, back.Names()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	key, _ := back.Column("row_id")
	if diff := cmp.Diff([]any{int64(0), int64(1), int64(2)}, key.Values); diff != "" {
		t.Errorf("row_id mismatch (-want +got):\n%s", diff)
	}

	if !strings.Contains(logs.String(), "synthesizing") {
		t.Errorf("expected key synthesis to be logged, got %q", logs.String())
	}
}

func TestExport_CSVResolvesRelativeFromRepoRoot(t *testing.T) {
	t.Setenv("AVCP_INTERIM_VIZ_DIR", "")
	root := t.TempDir()
	cfgPath := writeConfig(t, root, "paths:\n  interim_viz_dir: data/interim_viz\n")

	src := mustTable(t,
		table.Column{Name: "row_id", Type: table.Int, Values: []any{int64(1), int64(2)}},
		table.Column{Name: "value", Type: table.Int, Values: []any{int64(10), int64(20)}},
	)

	result, err := NewExporter(logging.Discard()).ExportForVisualization(src, "example.csv", Options{ConfigPath: cfgPath})
	if err != nil {
		t.Fatalf("ExportForVisualization() error = %v", err)
	}

	want := filepath.Join(root, "data", "interim_viz", "example.csv")
	if result.DataPath != want {
		t.Errorf("DataPath = %q, want %q", result.DataPath, want)
	}

	data, err := os.ReadFile(result.DataPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "row_id,value\n1,10\n2,20\n" {
		t.Errorf("CSV = %q", data)
	}
	if _, err := os.Stat(result.MetaPath); err != nil {
		t.Errorf("sidecar missing: %v", err)
	}
}

func TestExport_ExplicitRepoRoot(t *testing.T) {
	t.Setenv("AVCP_INTERIM_VIZ_DIR", "")
	cfgDir := t.TempDir()
	cfgPath := filepath.Join(cfgDir, "export.yaml")
	if err := os.WriteFile(cfgPath, []byte("paths:\n  interim_viz_dir: out\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	repo := t.TempDir()

	src := mustTable(t, table.Column{Name: "row_id", Type: table.String, Values: []any{"a"}})
	result, err := NewExporter(logging.Discard()).ExportForVisualization(src, "one.csv", Options{
		ConfigPath: cfgPath,
		RepoRoot:   repo,
	})
	if err != nil {
		t.Fatalf("ExportForVisualization() error = %v", err)
	}
	if result.DataPath != filepath.Join(repo, "out", "one.csv") {
		t.Errorf("DataPath = %q", result.DataPath)
	}
}

func TestExport_RejectsInvalidExtension(t *testing.T) {
	root := t.TempDir()
	cfgPath := writeConfig(t, root, "paths:\n  interim_viz_dir: data/interim_viz\n")
	src := mustTable(t, table.Column{Name: "row_id", Type: table.Int, Values: []any{int64(1)}})

	for _, filename := range []string{"bad.json", ".csv", "noext"} {
		t.Run(filename, func(t *testing.T) {
			_, err := NewExporter(logging.Discard()).ExportForVisualization(src, filename, Options{ConfigPath: cfgPath})
			if !errors.Is(err, contract.ErrViolation) {
				t.Fatalf("error = %v, want contract violation", err)
			}
			if !strings.Contains(err.Error(), "filename must end with .parquet or .csv") {
				t.Errorf("message = %q", err.Error())
			}
			if reason, _ := contract.ReasonOf(err); reason != contract.ReasonFormat {
				t.Errorf("reason = %q, want %q", reason, contract.ReasonFormat)
			}
		})
	}
}

func TestExport_AbsoluteFilename(t *testing.T) {
	root := t.TempDir()
	cfgPath := writeConfig(t, root, "paths:\n  interim_viz_dir: data/interim_viz\n")
	target := filepath.Join(t.TempDir(), "elsewhere.CSV")
	src := mustTable(t, table.Column{Name: "row_id", Type: table.Int, Values: []any{int64(1)}})

	result, err := NewExporter(logging.Discard()).ExportForVisualization(src, target, Options{ConfigPath: cfgPath})
	if err != nil {
		t.Fatalf("ExportForVisualization() error = %v", err)
	}
	if result.DataPath != target {
		t.Errorf("DataPath = %q, want %q", result.DataPath, target)
	}
	for _, path := range []string{result.DataPath, result.MetaPath} {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat %s: %v", path, err)
		}
		if perm := info.Mode().Perm(); perm != 0o644 {
			t.Errorf("%s mode = %o, want 644", filepath.Base(path), perm)
		}
	}
}

func TestExport_PropagatesViolations(t *testing.T) {
	root := t.TempDir()
	cfgPath := writeConfig(t, root, "")

	tests := []struct {
		name       string
		table      *table.Table
		wantReason contract.Reason
	}{
		{name: "nil table", table: nil, wantReason: contract.ReasonNotTable},
		{
			name:       "empty",
			table:      mustTable(t, table.Column{Name: "value", Type: table.Int}),
			wantReason: contract.ReasonEmpty,
		},
		{
			name:       "duplicate key",
			table:      mustTable(t, table.Column{Name: "row_id", Type: table.Int, Values: []any{int64(1), int64(1)}}),
			wantReason: contract.ReasonKeyDuplicate,
		},
		{
			name:       "null key",
			table:      mustTable(t, table.Column{Name: "row_id", Type: table.Int, Values: []any{nil}}),
			wantReason: contract.ReasonKeyNull,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExporter(logging.Discard()).ExportForVisualization(tt.table, "out.csv", Options{ConfigPath: cfgPath})
			reason, ok := contract.ReasonOf(err)
			if !ok || reason != tt.wantReason {
				t.Errorf("error = %v, want reason %q", err, tt.wantReason)
			}
		})
	}
}

func TestExport_MissingConfig(t *testing.T) {
	src := mustTable(t, table.Column{Name: "row_id", Type: table.Int, Values: []any{int64(1)}})
	_, err := NewExporter(logging.Discard()).ExportForVisualization(src, "out.csv", Options{
		ConfigPath: filepath.Join(t.TempDir(), "config", "config.yaml"),
	})
	if !errors.Is(err, config.ErrNotFound) {
		t.Errorf("error = %v, want config.ErrNotFound", err)
	}
}

func TestSidecar_Encode(t *testing.T) {
	s := Sidecar{
		File:       "été.csv",
		PrimaryKey: "id",
		Columns:    map[string]string{"id": "int64"},
		Provenance: Provenance{Script: "a<b>.go", GitCommit: "unknown", Config: "/c.yaml"},
	}
	buf, err := s.encode()
	if err != nil {
		t.Fatalf("encode() error = %v", err)
	}
	want := `{
  "file": "été.csv",
  "primary_key": "id",
  "columns": {
    "id": "int64"
  },
  "provenance": {
    "script": "a<b>.go",
    "git_commit": "unknown",
    "config": "/c.yaml"
  }
}
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("sidecar mismatch (-want +got):\n%s", diff)
	}
}

func TestSidecarPath(t *testing.T) {
	if got := SidecarPath(filepath.Join("viz", "example.parquet")); got != filepath.Join("viz", "example_meta.json") {
		t.Errorf("SidecarPath() = %q", got)
	}
}
