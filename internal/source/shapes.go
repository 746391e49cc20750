package source

import (
	"context"
	"fmt"
	"time"

	"github.com/EmpoweredVote/turf-shapes/internal/turf"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

// DefaultCRS is assumed for shape files that do not carry one.
const DefaultCRS = "EPSG:4326"

// Shape columns read from the boundary dataset.
const (
	colCountyName = "CountyName"
	colPrcnctName = "PrcnctName"
)

// ShapesCSV reads precinct boundaries from a CSV whose geometry is WKT text,
// taken from a "geometry" column when present and "WKT" otherwise.
type ShapesCSV struct {
	Path string
	CRS  string
}

func (s ShapesCSV) LoadGeometry(ctx context.Context) (turf.GeometrySet, error) {
	start := time.Now()
	t, err := ReadTable(s.Path)
	if err != nil {
		LogError("shapes-csv", "read", err)
		return turf.GeometrySet{}, err
	}
	if err := t.Require(colCountyName, colPrcnctName, turf.ColGEOID); err != nil {
		return turf.GeometrySet{}, fmt.Errorf("%s: %w", s.Path, err)
	}

	geomCol := t.Index(turf.ColGeometry)
	if geomCol < 0 {
		geomCol = t.Index(turf.ColWKT)
	}
	if geomCol < 0 {
		return turf.GeometrySet{}, fmt.Errorf("%s: %w: %s or %s", s.Path, turf.ErrMissingColumn, turf.ColGeometry, turf.ColWKT)
	}

	var (
		gid    = t.Index(turf.ColGEOID)
		county = t.Index(colCountyName)
		name   = t.Index(colPrcnctName)
		wktCol = t.Index(turf.ColWKT)
	)
	get := func(rec []string, i int) string {
		if i < 0 || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	set := turf.GeometrySet{CRS: s.CRS, Records: make([]turf.GeometryRecord, 0, t.Len())}
	if set.CRS == "" {
		set.CRS = DefaultCRS
	}
	for i, rec := range t.Rows {
		g, err := parseWKT(get(rec, geomCol))
		if err != nil {
			return turf.GeometrySet{}, fmt.Errorf("%s row %d: %w", s.Path, i+2, err)
		}
		set.Records = append(set.Records, turf.GeometryRecord{
			GEOID:      get(rec, gid),
			CountyName: get(rec, county),
			PrcnctName: get(rec, name),
			Geometry:   g,
			WKT:        get(rec, wktCol),
		})
	}

	LogLoad("shapes-csv", s.Path, len(set.Records), time.Since(start))
	return set, nil
}

func parseWKT(s string) (orb.Geometry, error) {
	if s == "" {
		return nil, nil
	}
	g, err := wkt.Unmarshal(s)
	if err != nil {
		return nil, fmt.Errorf("parse wkt: %w", err)
	}
	return g, nil
}
