package turf

import (
	"context"
	"fmt"
	"time"
)

// AttributeSource retrieves the canvassing attribute rows.
type AttributeSource interface {
	FetchAttributes(ctx context.Context) (Table, error)
}

// GeometrySource retrieves precinct boundaries and their CRS.
type GeometrySource interface {
	LoadGeometry(ctx context.Context) (GeometrySet, error)
}

// Options configures Run.
type Options struct {
	Export ExportOptions
	// RequireGeometry makes an attribute row without a shape fatal.
	RequireGeometry bool
}

// Result is what a successful Run produced.
type Result struct {
	Joined   Joined
	Manifest Manifest
	Summary  Summary
}

// Run executes the whole pipeline once: fetch, normalize, join, encode,
// export, summarize. Any error aborts the run.
func Run(ctx context.Context, attrs AttributeSource, geoms GeometrySource, w Writer, opts Options) (Result, error) {
	start := time.Now()
	table, err := attrs.FetchAttributes(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetch attributes: %w", err)
	}
	if err := table.Require(RequiredColumns...); err != nil {
		return Result{}, fmt.Errorf("attributes: %w", err)
	}
	LogStage("fetch attributes", table.Len(), time.Since(start))

	start = time.Now()
	shapes, err := geoms.LoadGeometry(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load geometry: %w", err)
	}
	LogStage("load geometry", len(shapes.Records), time.Since(start))

	table, err = NormalizeKey(table, ColGEOID)
	if err != nil {
		return Result{}, err
	}
	shapes = NormalizeGeometryKeys(shapes)

	joined, err := Join(table, shapes)
	if err != nil {
		return Result{}, err
	}
	if opts.RequireGeometry {
		if missing := Unmatched(joined); len(missing) > 0 {
			return Result{}, fmt.Errorf("%w: %d rows, first GEOID %q", ErrUnmatchedGeometry, len(missing), missing[0])
		}
	}
	joined = Encode(joined, shapes.CRS)

	// Aggregate before writing so bad metrics abort before any file exists.
	summary, err := Summarize(joined)
	if err != nil {
		return Result{}, err
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	start = time.Now()
	manifest, err := Export(joined, w, opts.Export)
	if err != nil {
		return Result{}, err
	}
	if mw, ok := w.(ManifestWriter); ok {
		if err := mw.WriteManifest(manifest); err != nil {
			return Result{}, err
		}
	}
	LogStage("export", len(manifest.Files), time.Since(start))

	return Result{Joined: joined, Manifest: manifest, Summary: summary}, nil
}
