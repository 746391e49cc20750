package source

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/EmpoweredVote/turf-shapes/internal/turf"
)

// ReadTable loads a CSV file with a header row into a turf.Table.
func ReadTable(path string) (turf.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return turf.Table{}, err
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return turf.Table{}, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return turf.Table{}, errors.New("csv has no header row")
	}

	header := records[0]
	// Handle BOM on first header cell
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	return turf.Table{Columns: header, Rows: records[1:]}, nil
}

// AttributeCSV reads attribute rows from a local export of the warehouse
// table.
type AttributeCSV struct {
	Path string
}

func (a AttributeCSV) FetchAttributes(ctx context.Context) (turf.Table, error) {
	start := time.Now()
	t, err := ReadTable(a.Path)
	if err != nil {
		LogError("attributes-csv", "read", err)
		return turf.Table{}, err
	}
	if err := t.Require(turf.RequiredColumns...); err != nil {
		return turf.Table{}, fmt.Errorf("%s: %w", a.Path, err)
	}
	LogLoad("attributes-csv", a.Path, t.Len(), time.Since(start))
	return t, nil
}
