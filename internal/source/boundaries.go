package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/EmpoweredVote/turf-shapes/internal/turf"
	"gorm.io/gorm"
)

// ErrMixedSRID means the boundary table holds more than one SRID. The joined
// dataset carries a single CRS, so this cannot be exported.
var ErrMixedSRID = errors.New("boundary table mixes SRIDs")

// BoundaryRow is one precinct polygon as stored in PostGIS. The geometry
// column is POLYGON or MULTIPOLYGON, usually SRID 4326.
type BoundaryRow struct {
	GeoID string `gorm:"column:geo_id"`
	Name  string `gorm:"column:name"`
	State string `gorm:"column:state"`
	MTFCC string `gorm:"column:mtfcc"`
	WKT   string `gorm:"column:wkt"`
	SRID  int    `gorm:"column:srid"`
}

// Boundaries loads precinct shapes from a PostGIS boundary table such as
// essentials.geofence_boundaries. MTFCC narrows the feature class (G5240 is
// a voting district); empty loads every row.
type Boundaries struct {
	DB    *gorm.DB
	Table string
	MTFCC string
}

// BoundaryQuery builds the select for table and an optional MTFCC filter.
func BoundaryQuery(table, mtfcc string) (string, []interface{}) {
	query := fmt.Sprintf(`
		SELECT
			geo_id,
			COALESCE(name, '') AS name,
			COALESCE(state, '') AS state,
			COALESCE(mtfcc, '') AS mtfcc,
			COALESCE(ST_AsText(geometry), '') AS wkt,
			COALESCE(ST_SRID(geometry), 0) AS srid
		FROM %s`, QuoteTable(table))
	if mtfcc == "" {
		return query + "\n\t\tORDER BY geo_id", nil
	}
	return query + "\n\t\tWHERE mtfcc = ?\n\t\tORDER BY geo_id", []interface{}{mtfcc}
}

func (b Boundaries) LoadGeometry(ctx context.Context) (turf.GeometrySet, error) {
	start := time.Now()
	query, args := BoundaryQuery(b.Table, b.MTFCC)
	LogQuery("postgis", b.Table, map[string]interface{}{"mtfcc": b.MTFCC})

	var rows []BoundaryRow
	if err := b.DB.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		LogError("postgis", "query", err)
		return turf.GeometrySet{}, fmt.Errorf("boundary lookup failed: %w", err)
	}

	set, err := BoundarySet(rows)
	if err != nil {
		return turf.GeometrySet{}, fmt.Errorf("%s: %w", b.Table, err)
	}
	LogLoad("postgis", b.Table, len(set.Records), time.Since(start))
	return set, nil
}

// BoundarySet converts scanned rows. County names are not stored in the
// boundary table and stay empty.
func BoundarySet(rows []BoundaryRow) (turf.GeometrySet, error) {
	set := turf.GeometrySet{Records: make([]turf.GeometryRecord, 0, len(rows))}
	srid := 0
	for _, r := range rows {
		if r.SRID != 0 {
			if srid != 0 && r.SRID != srid {
				return turf.GeometrySet{}, fmt.Errorf("%w: %d and %d", ErrMixedSRID, srid, r.SRID)
			}
			srid = r.SRID
		}
		g, err := parseWKT(r.WKT)
		if err != nil {
			return turf.GeometrySet{}, fmt.Errorf("geo_id %s: %w", r.GeoID, err)
		}
		set.Records = append(set.Records, turf.GeometryRecord{
			GEOID:      r.GeoID,
			PrcnctName: r.Name,
			Geometry:   g,
			WKT:        r.WKT,
		})
	}
	set.CRS = DefaultCRS
	if srid != 0 {
		set.CRS = fmt.Sprintf("EPSG:%d", srid)
	}
	return set, nil
}
