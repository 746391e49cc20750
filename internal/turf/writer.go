package turf

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Writer persists one named table. Naming is decided by the caller.
type Writer interface {
	WriteTable(name string, columns []string, rows [][]string) error
}

// ManifestWriter is implemented by writers that can also store the manifest.
type ManifestWriter interface {
	WriteManifest(m Manifest) error
}

// EncodeCSV writes a header and rows as CSV.
func EncodeCSV(w io.Writer, columns []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// CSVWriter writes tables as CSV files under Dir.
type CSVWriter struct {
	Dir string
}

// NewCSVWriter creates dir if needed.
func NewCSVWriter(dir string) (*CSVWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &CSVWriter{Dir: dir}, nil
}

func (c *CSVWriter) WriteTable(name string, columns []string, rows [][]string) error {
	return c.writeFile(name, func(w io.Writer) error {
		return EncodeCSV(w, columns, rows)
	})
}

func (c *CSVWriter) WriteManifest(m Manifest) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	return c.writeFile(ManifestFileName, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

func (c *CSVWriter) writeFile(name string, fill func(io.Writer) error) error {
	path := filepath.Join(c.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if err := fill(bw); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// MemoryTable is a table captured by MemoryWriter.
type MemoryTable struct {
	Columns []string
	Rows    [][]string
}

// MemoryWriter keeps tables in memory, for dry runs and tests. Later writes
// to the same name replace earlier ones, like files do.
type MemoryWriter struct {
	Tables   map[string]MemoryTable
	Manifest *Manifest
	Order    []string
}

func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{Tables: map[string]MemoryTable{}}
}

func (m *MemoryWriter) WriteTable(name string, columns []string, rows [][]string) error {
	m.Tables[name] = MemoryTable{Columns: columns, Rows: rows}
	m.Order = append(m.Order, name)
	return nil
}

func (m *MemoryWriter) WriteManifest(mf Manifest) error {
	m.Manifest = &mf
	return nil
}

// Names lists stored table names, sorted.
func (m *MemoryWriter) Names() []string {
	names := make([]string, 0, len(m.Tables))
	for n := range m.Tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
