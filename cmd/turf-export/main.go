package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/EmpoweredVote/turf-shapes/internal/config"
	"github.com/EmpoweredVote/turf-shapes/internal/db"
	"github.com/EmpoweredVote/turf-shapes/internal/source"
	"github.com/EmpoweredVote/turf-shapes/internal/turf"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load(".env.local")

	var (
		configPath = flag.String("config", "", "optional YAML config file")
		outDir     = flag.String("out", "", "output directory (default: env OUTPUT_DIR or ./output)")
		attrsPath  = flag.String("attributes", "", "read attributes from this CSV instead of the warehouse")
		shapesPath = flag.String("shapes", "", "precinct shapes file (.csv with WKT or .geojson)")
		dryRun     = flag.Bool("dry-run", false, "run the pipeline and print the summary; write nothing")
		strict     = flag.Bool("strict-names", false, "fail when two turf labels map to the same file")
		requireGeo = flag.Bool("require-geometry", false, "fail when an attribute row has no shape")
		showTurfs  = flag.Bool("turfs", false, "print the per-turf breakdown in the summary")
	)
	flag.Parse()

	err := run(*configPath, *dryRun, *showTurfs, func(cfg *config.Config) {
		applyFlags(cfg, *outDir, *attrsPath, *shapesPath, *strict, *requireGeo)
	})
	if err != nil {
		log.Fatal(err)
	}
}

// run does one export. Only main exits the process.
func run(configPath string, dryRun, showTurfs bool, override func(*config.Config)) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	override(&cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	ns, _ := cfg.TurfNamespace()

	var gdb *gorm.DB
	if cfg.NeedsDatabase() {
		gdb, err = db.Open(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close(gdb)
	}

	deps := source.Deps{Config: cfg, DB: gdb}
	attrs, err := source.NewAttributeSource(deps)
	if err != nil {
		return err
	}
	shapes, err := source.NewGeometrySource(deps)
	if err != nil {
		return err
	}

	var w turf.Writer
	if dryRun {
		fmt.Println("Mode: DRY RUN (no files written)")
		w = turf.NewMemoryWriter()
	} else {
		cw, err := turf.NewCSVWriter(cfg.OutputDir)
		if err != nil {
			return err
		}
		w = cw
	}

	res, err := turf.Run(context.Background(), attrs, shapes, w, turf.Options{
		Export: turf.ExportOptions{
			Progress:    os.Stdout,
			StrictNames: cfg.StrictNames,
			Namespace:   ns,
		},
		RequireGeometry: cfg.RequireGeometry,
	})
	if err != nil {
		return err
	}

	if err := turf.Render(os.Stdout, res.Summary, showTurfs); err != nil {
		return err
	}
	if missing := turf.Unmatched(res.Joined); len(missing) > 0 {
		fmt.Printf("\n%d precincts had no matching shape (empty WKT)\n", len(missing))
	}
	return nil
}

// applyFlags lets explicit flags win over env and the config file.
func applyFlags(cfg *config.Config, outDir, attrsPath, shapesPath string, strict, requireGeo bool) {
	if outDir != "" {
		cfg.OutputDir = outDir
	}
	if attrsPath != "" {
		cfg.AttributesSource = config.AttributesCSV
		cfg.AttributesPath = attrsPath
	}
	if shapesPath != "" {
		cfg.ShapesPath = shapesPath
		cfg.ShapesSource = config.ShapesCSV
		if source.IsGeoJSON(shapesPath) {
			cfg.ShapesSource = config.ShapesGeoJSON
		}
	}
	if strict {
		cfg.StrictNames = true
	}
	if requireGeo {
		cfg.RequireGeometry = true
	}
}
