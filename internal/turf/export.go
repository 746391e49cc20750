package turf

import (
	"fmt"
	"io"

	"github.com/google/uuid"
)

// ExportOptions tunes Export.
type ExportOptions struct {
	// Progress receives the human-readable "Saved ..." lines. Nil discards them.
	Progress io.Writer
	// StrictNames fails the export instead of overwriting when two labels
	// map to the same file name.
	StrictNames bool
	// Namespace seeds turf ids; uuid.Nil means DefaultNamespace.
	Namespace uuid.UUID
}

type exporter struct {
	j        Joined
	w        Writer
	opts     ExportOptions
	cols     []string
	owner    map[string]string
	manifest Manifest
}

// Export writes one file per region, one per turf within each region, and
// the master file, in that order. It returns the manifest of what was
// written. Files written before an error are left in place.
func Export(j Joined, w Writer, opts ExportOptions) (Manifest, error) {
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}
	if opts.Namespace == uuid.Nil {
		opts.Namespace = DefaultNamespace
	}

	e := &exporter{
		j:        j,
		w:        w,
		opts:     opts,
		cols:     j.OutputColumns(),
		owner:    map[string]string{},
		manifest: Manifest{CRS: j.CRS, Namespace: opts.Namespace.String()},
	}

	for _, region := range Partition(j) {
		fmt.Fprintf(opts.Progress, "Processing %s...\n", region.Name)
		name := RegionFileName(region.Name)
		if err := e.write(name, "region "+region.Name, region.Rows, ManifestFile{
			Kind:   KindRegion,
			Region: region.Name,
		}); err != nil {
			return Manifest{}, err
		}
		fmt.Fprintf(opts.Progress, "Saved %s with %d rows\n", name, len(region.Rows))

		for _, t := range region.Turfs {
			name := TurfFileName(t.Name)
			if err := e.write(name, "turf "+region.Name+"/"+t.Name, t.Rows, ManifestFile{
				Kind:   KindTurf,
				Region: region.Name,
				Turf:   t.Name,
				TurfID: TurfID(opts.Namespace, region.Name, t.Name).String(),
			}); err != nil {
				return Manifest{}, err
			}
			fmt.Fprintf(opts.Progress, "  Saved %s with %d rows\n", name, len(t.Rows))
		}
	}

	if err := e.write(MasterFileName, "master", j.Rows, ManifestFile{Kind: KindMaster}); err != nil {
		return Manifest{}, err
	}
	fmt.Fprintf(opts.Progress, "Saved master file %s with %d rows\n", MasterFileName, len(j.Rows))

	return e.manifest, nil
}

func (e *exporter) write(name, label string, rows []JoinedRow, entry ManifestFile) error {
	if prev, taken := e.owner[name]; taken {
		if e.opts.StrictNames {
			return fmt.Errorf("%w: %s from %q and %q", ErrNameCollision, name, prev, label)
		}
		LogCollision(name, prev, label)
	}
	e.owner[name] = label

	records := e.j.Records(rows)
	sum, err := Checksum(e.cols, records)
	if err != nil {
		return fmt.Errorf("checksum %s: %w", name, err)
	}
	if err := e.w.WriteTable(name, e.cols, records); err != nil {
		return err
	}

	entry.Name = name
	entry.Rows = len(rows)
	entry.Checksum = sum
	e.manifest.put(entry)
	return nil
}
