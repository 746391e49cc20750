package turf

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

// Column names the pipeline reads. Everything else passes through untouched.
const (
	ColGEOID      = "GEOID"
	ColRegion     = "Region"
	ColTurf       = "fo_name"
	ColPrecinctID = "van_precinct_id"
	ColVoters     = "voters"
	ColDoors      = "doors"
	ColTargets    = "targets"

	ColGeometry = "geometry"
	ColWKT      = "WKT"
)

// RequiredColumns must be present on every attribute dataset.
var RequiredColumns = []string{
	ColGEOID, ColRegion, ColTurf, ColPrecinctID, ColVoters, ColDoors, ColTargets,
}

var (
	ErrMissingColumn     = errors.New("missing required column")
	ErrNameCollision     = errors.New("output file name collision")
	ErrUnmatchedGeometry = errors.New("attribute row has no matching geometry")
)

// Table is an attribute dataset: one row per precinct-level canvassing unit.
// Values are carried as text; a SQL NULL is the empty string.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Index returns the position of column name, or -1.
func (t Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Require checks that every named column exists.
func (t Table) Require(names ...string) error {
	for _, n := range names {
		if t.Index(n) < 0 {
			return fmt.Errorf("%w: %s", ErrMissingColumn, n)
		}
	}
	return nil
}

// Len is the number of rows.
func (t Table) Len() int { return len(t.Rows) }

func (t Table) clone() Table {
	out := Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = append([]string(nil), r...)
	}
	return out
}

// cell tolerates short (ragged) rows.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// GeometryRecord is one precinct shape from the boundary source.
type GeometryRecord struct {
	GEOID      string
	CountyName string
	PrcnctName string
	Geometry   orb.Geometry // nil when the source row has no shape
	WKT        string
}

// GeometrySet is the boundary dataset plus its spatial reference system.
type GeometrySet struct {
	CRS     string // e.g. "EPSG:4326"; empty when unknown
	Records []GeometryRecord
}

// JoinedRow is one attribute row plus its matched geometry, if any.
type JoinedRow struct {
	Values   []string
	Geometry orb.Geometry
	WKT      string
}

// Joined is the result of Join and Encode. Every row shares CRS.
type Joined struct {
	Columns []string
	Rows    []JoinedRow
	CRS     string
}

// Index returns the position of an attribute column, or -1.
func (j Joined) Index(name string) int {
	return Table{Columns: j.Columns}.Index(name)
}

// Len is the number of rows.
func (j Joined) Len() int { return len(j.Rows) }

// OutputColumns is the CSV header: attribute columns, then geometry and WKT.
func (j Joined) OutputColumns() []string {
	cols := make([]string, 0, len(j.Columns)+2)
	for _, c := range j.Columns {
		if c == ColGeometry || c == ColWKT {
			continue
		}
		cols = append(cols, c)
	}
	return append(cols, ColGeometry, ColWKT)
}

// Records renders rows in OutputColumns order.
func (j Joined) Records(rows []JoinedRow) [][]string {
	keep := make([]int, 0, len(j.Columns))
	for i, c := range j.Columns {
		if c == ColGeometry || c == ColWKT {
			continue
		}
		keep = append(keep, i)
	}

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		rec := make([]string, 0, len(keep)+2)
		for _, i := range keep {
			rec = append(rec, cell(r.Values, i))
		}
		rec = append(rec, r.WKT, r.WKT)
		out = append(out, rec)
	}
	return out
}

// FromExport rebuilds a Joined from a table previously written by Export.
// Geometry stays nil; the WKT text is carried over as-is.
func FromExport(t Table, crs string) Joined {
	wktIdx := t.Index(ColWKT)
	geomIdx := t.Index(ColGeometry)

	out := Joined{CRS: crs, Rows: make([]JoinedRow, 0, len(t.Rows))}
	keep := make([]int, 0, len(t.Columns))
	for i, c := range t.Columns {
		if i == wktIdx || i == geomIdx {
			continue
		}
		keep = append(keep, i)
		out.Columns = append(out.Columns, c)
	}
	for _, r := range t.Rows {
		jr := JoinedRow{Values: make([]string, 0, len(keep)), WKT: cell(r, wktIdx)}
		for _, i := range keep {
			jr.Values = append(jr.Values, cell(r, i))
		}
		out.Rows = append(out.Rows, jr)
	}
	return out
}
