package source

import (
	"fmt"

	"github.com/EmpoweredVote/turf-shapes/internal/config"
	"github.com/EmpoweredVote/turf-shapes/internal/turf"
	"gorm.io/gorm"
)

// Deps carries what a source constructor may need beyond the config.
// DB is nil unless the configuration needs the database.
type Deps struct {
	Config config.Config
	DB     *gorm.DB
}

var attributeSources = map[string]func(Deps) (turf.AttributeSource, error){
	config.AttributesWarehouse: func(d Deps) (turf.AttributeSource, error) {
		if d.DB == nil {
			return nil, config.ErrMissingDSN
		}
		c := d.Config
		return NewWarehouse(d.DB, c.WarehouseTable, c.Regions, c.PageSize, c.QueriesPerSecond), nil
	},
	config.AttributesCSV: func(d Deps) (turf.AttributeSource, error) {
		return AttributeCSV{Path: d.Config.AttributesPath}, nil
	},
}

var geometrySources = map[string]func(Deps) (turf.GeometrySource, error){
	config.ShapesCSV: func(d Deps) (turf.GeometrySource, error) {
		return ShapesCSV{Path: d.Config.ShapesPath, CRS: d.Config.ShapesCRS}, nil
	},
	config.ShapesGeoJSON: func(d Deps) (turf.GeometrySource, error) {
		return GeoJSON{Path: d.Config.ShapesPath, CRS: d.Config.ShapesCRS}, nil
	},
	config.ShapesPostGIS: func(d Deps) (turf.GeometrySource, error) {
		if d.DB == nil {
			return nil, config.ErrMissingDSN
		}
		return Boundaries{DB: d.DB, Table: d.Config.BoundariesTable, MTFCC: d.Config.BoundariesMTFCC}, nil
	},
}

// NewAttributeSource builds the attribute source named by the configuration.
func NewAttributeSource(d Deps) (turf.AttributeSource, error) {
	ctor, ok := attributeSources[d.Config.AttributesSource]
	if !ok {
		return nil, fmt.Errorf("%w: attributes %q", config.ErrUnknownSource, d.Config.AttributesSource)
	}
	return ctor(d)
}

// NewGeometrySource builds the shape source named by the configuration.
func NewGeometrySource(d Deps) (turf.GeometrySource, error) {
	ctor, ok := geometrySources[d.Config.ShapesSource]
	if !ok {
		return nil, fmt.Errorf("%w: shapes %q", config.ErrUnknownSource, d.Config.ShapesSource)
	}
	return ctor(d)
}
