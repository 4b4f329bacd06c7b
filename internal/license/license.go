// Package license accumulates archive provenance for the license report
// generated after a full run.
package license

import (
	"encoding/json"
	"os"
)

// Record describes one downloaded source archive.
type Record struct {
	Name     string `json:"name"` // "<dependency>-<version>"
	Type     string `json:"type"` // archive kind, currently always "raw"
	Archive  string `json:"archive"`
	URL      string `json:"url"`
	Checksum string `json:"sha256sum"`
}

// Manifest is the ordered accumulator of provenance records for a run.
type Manifest struct {
	records []Record
}

func (m *Manifest) Add(r Record) {
	m.records = append(m.records, r)
}

func (m *Manifest) Records() []Record {
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}

// WriteFile serializes the manifest once at the end of a run.
func (m *Manifest) WriteFile(path string) error {
	data, err := json.MarshalIndent(m.records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
