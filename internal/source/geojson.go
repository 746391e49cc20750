package source

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/EmpoweredVote/turf-shapes/internal/turf"
	"github.com/paulmach/orb/geojson"
)

// GeoJSON reads precinct boundaries from a FeatureCollection. GEOID,
// CountyName and PrcnctName come from each feature's properties and must be
// present; the shape is the feature geometry, so no WKT property is needed.
type GeoJSON struct {
	Path string
	CRS  string // overrides the file's crs member
}

func (g GeoJSON) LoadGeometry(ctx context.Context) (turf.GeometrySet, error) {
	start := time.Now()
	data, err := os.ReadFile(g.Path)
	if err != nil {
		LogError("geojson", "read", err)
		return turf.GeometrySet{}, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return turf.GeometrySet{}, fmt.Errorf("parse %s: %w", g.Path, err)
	}

	set := turf.GeometrySet{CRS: g.CRS, Records: make([]turf.GeometryRecord, 0, len(fc.Features))}
	if set.CRS == "" {
		set.CRS = collectionCRS(fc)
	}

	for i, f := range fc.Features {
		for _, key := range []string{turf.ColGEOID, colCountyName, colPrcnctName} {
			if _, ok := f.Properties[key]; !ok {
				return turf.GeometrySet{}, fmt.Errorf("%s feature %d: %w: %s", g.Path, i, turf.ErrMissingColumn, key)
			}
		}
		id := f.Properties[turf.ColGEOID]
		set.Records = append(set.Records, turf.GeometryRecord{
			GEOID:      turf.KeyString(id),
			CountyName: f.Properties.MustString(colCountyName, ""),
			PrcnctName: f.Properties.MustString(colPrcnctName, ""),
			Geometry:   f.Geometry,
			WKT:        f.Properties.MustString(turf.ColWKT, ""),
		})
	}

	LogLoad("geojson", g.Path, len(set.Records), time.Since(start))
	return set, nil
}

// collectionCRS reads the legacy "crs" member, e.g.
// {"type":"name","properties":{"name":"urn:ogc:def:crs:EPSG::2965"}}.
// RFC 7946 collections without one are WGS84.
func collectionCRS(fc *geojson.FeatureCollection) string {
	member, ok := fc.ExtraMembers["crs"].(map[string]interface{})
	if !ok {
		return DefaultCRS
	}
	props, ok := member["properties"].(map[string]interface{})
	if !ok {
		return DefaultCRS
	}
	name, _ := props["name"].(string)
	return CRSName(name)
}

// CRSName reduces OGC URNs to the "EPSG:<code>" form. CRS84 is WGS84.
func CRSName(name string) string {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return DefaultCRS
	case strings.HasSuffix(name, "CRS84"):
		return DefaultCRS
	case strings.HasPrefix(name, "urn:ogc:def:crs:EPSG:"):
		code := name[strings.LastIndex(name, ":")+1:]
		return "EPSG:" + code
	}
	return name
}

// IsGeoJSON reports whether path looks like a GeoJSON file.
func IsGeoJSON(path string) bool {
	p := strings.ToLower(path)
	return strings.HasSuffix(p, ".geojson") || strings.HasSuffix(p, ".json")
}
