package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gorewood/avcp/internal/table"
)

// metaSuffix is appended to the data file stem to name the sidecar.
const metaSuffix = "_meta.json"

// Sidecar is the metadata document written next to an exported data file.
type Sidecar struct {
	File       string            `json:"file"`
	PrimaryKey string            `json:"primary_key"`
	Columns    map[string]string `json:"columns"`
	Provenance Provenance        `json:"provenance"`
}

// Provenance records where an export came from.
type Provenance struct {
	Script    string `json:"script"`
	GitCommit string `json:"git_commit"`
	Config    string `json:"config"`
}

// SidecarPath returns the sidecar path for a data file path.
func SidecarPath(dataPath string) string {
	base := filepath.Base(dataPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(dataPath), stem+metaSuffix)
}

func newSidecar(dataPath, primaryKey string, t *table.Table, provenance Provenance) Sidecar {
	columns := make(map[string]string, len(t.Columns()))
	for _, col := range t.Columns() {
		columns[col.Name] = col.Type.String()
	}
	return Sidecar{
		File:       filepath.Base(dataPath),
		PrimaryKey: primaryKey,
		Columns:    columns,
		Provenance: provenance,
	}
}

// encode renders the sidecar indented two spaces, leaving non-ASCII and HTML
// characters unescaped.
func (s Sidecar) encode() (*bytes.Buffer, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encoding sidecar: %w", err)
	}
	return &buf, nil
}
