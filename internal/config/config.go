package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
)

// Attribute source kinds.
const (
	AttributesWarehouse = "warehouse"
	AttributesCSV       = "csv"
)

// Shape source kinds.
const (
	ShapesCSV     = "csv"
	ShapesGeoJSON = "geojson"
	ShapesPostGIS = "postgis"
)

var (
	ErrMissingDSN            = errors.New("DATABASE_URL is required for warehouse and postgis sources")
	ErrMissingAttributesPath = errors.New("ATTRIBUTES_PATH is required for the csv attribute source")
	ErrMissingShapesPath     = errors.New("SHAPES_PATH is required for csv and geojson shape sources")
	ErrUnknownSource         = errors.New("unknown source type")
	ErrInvalidNamespace      = errors.New("TURF_NAMESPACE must be a uuid")
	ErrInvalidPaging         = errors.New("WAREHOUSE_PAGE_SIZE and WAREHOUSE_QPS must be positive")
)

// Config holds everything a turf export run needs.
type Config struct {
	AttributesSource string   `env:"ATTRIBUTES_SOURCE" yaml:"attributes_source"`
	DatabaseURL      string   `env:"DATABASE_URL" yaml:"database_url"`
	WarehouseTable   string   `env:"WAREHOUSE_TABLE" yaml:"warehouse_table"`
	Regions          []string `env:"REGIONS" envSeparator:"," yaml:"regions"`
	PageSize         int      `env:"WAREHOUSE_PAGE_SIZE" yaml:"page_size"`
	QueriesPerSecond float64  `env:"WAREHOUSE_QPS" yaml:"queries_per_second"`
	AttributesPath   string   `env:"ATTRIBUTES_PATH" yaml:"attributes_path"`

	ShapesSource    string `env:"SHAPES_SOURCE" yaml:"shapes_source"`
	ShapesPath      string `env:"SHAPES_PATH" yaml:"shapes_path"`
	ShapesCRS       string `env:"SHAPES_CRS" yaml:"shapes_crs"`
	BoundariesTable string `env:"BOUNDARIES_TABLE" yaml:"boundaries_table"`
	BoundariesMTFCC string `env:"BOUNDARIES_MTFCC" yaml:"boundaries_mtfcc"`

	OutputDir       string `env:"OUTPUT_DIR" yaml:"output_dir"`
	Namespace       string `env:"TURF_NAMESPACE" yaml:"namespace"`
	StrictNames     bool   `env:"STRICT_NAMES" yaml:"strict_names"`
	RequireGeometry bool   `env:"REQUIRE_GEOMETRY" yaml:"require_geometry"`

	Port string `env:"PORT" yaml:"port"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		AttributesSource: AttributesWarehouse,
		WarehouseTable:   "turf.all_regions_turfs",
		PageSize:         5000,
		QueriesPerSecond: 2,
		ShapesSource:     ShapesCSV,
		ShapesPath:       "data/master_precinct_shapes.csv",
		BoundariesTable:  "essentials.geofence_boundaries",
		BoundariesMTFCC:  "G5240",
		OutputDir:        "output",
		Port:             "5050",
	}
}

// Load builds the configuration from defaults, then the optional YAML file at
// path, then environment variables. Later layers win.
//
// Environment variables:
//   - ATTRIBUTES_SOURCE: "warehouse" or "csv" (default: "warehouse")
//   - DATABASE_URL: Postgres DSN for the warehouse and postgis sources
//   - WAREHOUSE_TABLE: schema-qualified attribute table (default: turf.all_regions_turfs)
//   - REGIONS: comma separated Region filter (default: all)
//   - SHAPES_SOURCE: "csv", "geojson" or "postgis" (default: "csv")
//   - SHAPES_PATH, SHAPES_CRS, OUTPUT_DIR, TURF_NAMESPACE, STRICT_NAMES, REQUIRE_GEOMETRY
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) normalize() {
	c.AttributesSource = strings.ToLower(strings.TrimSpace(c.AttributesSource))
	c.ShapesSource = strings.ToLower(strings.TrimSpace(c.ShapesSource))
	regions := c.Regions[:0]
	for _, r := range c.Regions {
		if r = strings.TrimSpace(r); r != "" {
			regions = append(regions, r)
		}
	}
	c.Regions = regions
}

// NeedsDatabase reports whether either source reads from Postgres.
func (c Config) NeedsDatabase() bool {
	return c.AttributesSource == AttributesWarehouse || c.ShapesSource == ShapesPostGIS
}

// TurfNamespace parses Namespace; empty means uuid.Nil.
func (c Config) TurfNamespace() (uuid.UUID, error) {
	if c.Namespace == "" {
		return uuid.Nil, nil
	}
	ns, err := uuid.Parse(c.Namespace)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidNamespace, err)
	}
	return ns, nil
}

// Validate checks the configuration for the selected sources.
func (c Config) Validate() error {
	switch c.AttributesSource {
	case AttributesWarehouse:
		if c.PageSize <= 0 || c.QueriesPerSecond <= 0 {
			return ErrInvalidPaging
		}
	case AttributesCSV:
		if c.AttributesPath == "" {
			return ErrMissingAttributesPath
		}
	default:
		return fmt.Errorf("%w: attributes %q", ErrUnknownSource, c.AttributesSource)
	}

	switch c.ShapesSource {
	case ShapesCSV, ShapesGeoJSON:
		if c.ShapesPath == "" {
			return ErrMissingShapesPath
		}
	case ShapesPostGIS:
	default:
		return fmt.Errorf("%w: shapes %q", ErrUnknownSource, c.ShapesSource)
	}

	if c.NeedsDatabase() && c.DatabaseURL == "" {
		return ErrMissingDSN
	}
	if _, err := c.TurfNamespace(); err != nil {
		return err
	}
	return nil
}
