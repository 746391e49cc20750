package turf

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"golang.org/x/crypto/blake2b"
)

// ManifestFileName is written alongside the CSV files.
const ManifestFileName = "manifest.yaml"

// File kinds recorded in the manifest.
const (
	KindMaster = "master"
	KindRegion = "region"
	KindTurf   = "turf"
)

// ManifestFile describes one written file. Overwritten files keep only the
// entry of the last write.
type ManifestFile struct {
	Name     string `json:"name" yaml:"name"`
	Kind     string `json:"kind" yaml:"kind"`
	Region   string `json:"region,omitempty" yaml:"region,omitempty"`
	Turf     string `json:"turf,omitempty" yaml:"turf,omitempty"`
	TurfID   string `json:"turf_id,omitempty" yaml:"turf_id,omitempty"`
	Rows     int    `json:"rows" yaml:"rows"`
	Checksum string `json:"blake2b" yaml:"blake2b"`
}

// Manifest lists the output of one export. It carries no timestamps so an
// identical run produces an identical manifest.
type Manifest struct {
	CRS       string         `json:"crs" yaml:"crs"`
	Namespace string         `json:"namespace" yaml:"namespace"`
	Files     []ManifestFile `json:"files" yaml:"files"`
}

// Lookup finds a file entry by name.
func (m Manifest) Lookup(name string) (ManifestFile, bool) {
	for _, f := range m.Files {
		if f.Name == name {
			return f, true
		}
	}
	return ManifestFile{}, false
}

func (m *Manifest) put(f ManifestFile) {
	for i := range m.Files {
		if m.Files[i].Name == f.Name {
			m.Files[i] = f
			return
		}
	}
	m.Files = append(m.Files, f)
}

func (m Manifest) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// LoadManifest reads a manifest.yaml written by CSVWriter.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return m, nil
}

// Checksum is the blake2b-256 of the CSV encoding of a table.
func Checksum(columns []string, rows [][]string) (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if err := EncodeCSV(h, columns, rows); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
