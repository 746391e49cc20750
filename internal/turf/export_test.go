package turf_test

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/EmpoweredVote/turf-shapes/internal/turf"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func scenarioJoined(t *testing.T) turf.Joined {
	t.Helper()
	table, geoms := scenarioInputs()
	j, err := turf.Join(table, geoms)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	return turf.Encode(j, geoms.CRS)
}

func TestExport_Scenario(t *testing.T) {
	w := turf.NewMemoryWriter()
	var progress bytes.Buffer

	m, err := turf.Export(scenarioJoined(t), w, turf.ExportOptions{Progress: &progress})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	want := []string{"all_regions_turf_shapes.csv", "north_turf_shapes.csv", "team_a.csv"}
	if diff := cmp.Diff(want, w.Names()); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
	for _, name := range want {
		if n := len(w.Tables[name].Rows); n != 2 {
			t.Errorf("%s has %d rows, want 2", name, n)
		}
	}

	// Region first, then its turfs, then master.
	if diff := cmp.Diff([]string{"north_turf_shapes.csv", "team_a.csv", "all_regions_turf_shapes.csv"}, w.Order); diff != "" {
		t.Errorf("write order mismatch (-want +got):\n%s", diff)
	}

	master := w.Tables[turf.MasterFileName]
	wantCols := append(append([]string(nil), attrColumns...), "geometry", "WKT")
	if diff := cmp.Diff(wantCols, master.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	wktCol := len(wantCols) - 1
	for _, rec := range master.Rows {
		switch rec[0] {
		case "001":
			if !strings.HasPrefix(rec[wktCol], "POLYGON") {
				t.Errorf("001 WKT = %q", rec[wktCol])
			}
		case "002":
			if rec[wktCol] != "" || rec[wktCol-1] != "" {
				t.Errorf("002 should have empty geometry, got %q / %q", rec[wktCol-1], rec[wktCol])
			}
		}
	}

	if len(m.Files) != 3 {
		t.Fatalf("manifest has %d files, want 3", len(m.Files))
	}
	tf, ok := m.Lookup("team_a.csv")
	if !ok {
		t.Fatal("team_a.csv missing from manifest")
	}
	if tf.Kind != turf.KindTurf || tf.Region != "North" || tf.Turf != "Team A" || tf.Rows != 2 {
		t.Errorf("unexpected turf entry: %+v", tf)
	}
	if tf.TurfID != turf.TurfID(turf.DefaultNamespace, "North", "Team A").String() {
		t.Errorf("turf id = %s", tf.TurfID)
	}

	out := progress.String()
	for _, line := range []string{
		"Processing North...",
		"Saved north_turf_shapes.csv with 2 rows",
		"  Saved team_a.csv with 2 rows",
		"Saved master file all_regions_turf_shapes.csv with 2 rows",
	} {
		if !strings.Contains(out, line) {
			t.Errorf("progress missing %q:\n%s", line, out)
		}
	}
}

// The union of region files is the master file, and the union of a region's
// turf files is that region file.
func TestExport_FileUnions(t *testing.T) {
	w := turf.NewMemoryWriter()
	j := mixedJoined(t)
	// Drop the rows without region or turf so the unions are exact.
	j.Rows = slices.DeleteFunc(slices.Clone(j.Rows), func(r turf.JoinedRow) bool {
		return r.Values[1] == "" || r.Values[2] == ""
	})

	if _, err := turf.Export(j, w, turf.ExportOptions{}); err != nil {
		t.Fatalf("Export: %v", err)
	}

	ids := func(name string) []string {
		var out []string
		for _, r := range w.Tables[name].Rows {
			out = append(out, r[0])
		}
		return out
	}
	sorted := func(s []string) []string {
		s = slices.Clone(s)
		slices.Sort(s)
		return s
	}

	regions := append(ids("north_turf_shapes.csv"), ids("south_turf_shapes.csv")...)
	if diff := cmp.Diff(sorted(ids(turf.MasterFileName)), sorted(regions)); diff != "" {
		t.Errorf("region union mismatch (-master +regions):\n%s", diff)
	}

	north := append(ids("team_a.csv"), ids("team_b.csv")...)
	if diff := cmp.Diff(sorted(ids("north_turf_shapes.csv")), sorted(north)); diff != "" {
		t.Errorf("north turf union mismatch (-region +turfs):\n%s", diff)
	}
}

// Turf files share one directory, so the same turf name in two regions maps
// to the same file.
func collidingJoined(t *testing.T) turf.Joined {
	t.Helper()
	table := attrs(
		[]string{"001", "North", "Team A", "1", "1", "1", "1"},
		[]string{"002", "South", "Team A", "2", "1", "1", "1"},
		[]string{"003", "South", "team-a", "3", "1", "1", "1"},
	)
	j, err := turf.Join(table, turf.GeometrySet{})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	return turf.Encode(j, "")
}

func TestExport_CollisionOverwrites(t *testing.T) {
	w := turf.NewMemoryWriter()

	m, err := turf.Export(collidingJoined(t), w, turf.ExportOptions{})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	// North/Team A is overwritten by South/Team A.
	got := w.Tables["team_a.csv"].Rows
	if len(got) != 1 || got[0][0] != "002" {
		t.Errorf("team_a.csv should hold the later write (002), got %v", got)
	}
	if n := len(w.Tables["teama.csv"].Rows); n != 1 {
		t.Errorf("teama.csv has %d rows, want 1", n)
	}

	f, _ := m.Lookup("team_a.csv")
	if f.Region != "South" || f.Rows != 1 {
		t.Errorf("manifest should describe the last write, got %+v", f)
	}
	if n := len(m.Files); n != 5 {
		t.Errorf("manifest has %d files, want 5 (one entry per name)", n)
	}
}

func TestExport_StrictNames(t *testing.T) {
	w := turf.NewMemoryWriter()
	_, err := turf.Export(collidingJoined(t), w, turf.ExportOptions{StrictNames: true})
	if !errors.Is(err, turf.ErrNameCollision) {
		t.Fatalf("expected ErrNameCollision, got %v", err)
	}
	if _, ok := w.Tables[turf.MasterFileName]; ok {
		t.Errorf("master file written despite collision")
	}
	if got := w.Tables["team_a.csv"].Rows; len(got) != 1 || got[0][0] != "001" {
		t.Errorf("colliding file should not have been overwritten, got %v", got)
	}
}

func TestExport_Deterministic(t *testing.T) {
	ns := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	a, err := turf.Export(mixedJoined(t), turf.NewMemoryWriter(), turf.ExportOptions{Namespace: ns})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	b, err := turf.Export(mixedJoined(t), turf.NewMemoryWriter(), turf.ExportOptions{Namespace: ns})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("manifests differ between identical runs:\n%s", diff)
	}
	if a.Namespace != ns.String() {
		t.Errorf("namespace = %s", a.Namespace)
	}
}

func TestCSVWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "output")
	w, err := turf.NewCSVWriter(dir)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}

	m, err := turf.Export(scenarioJoined(t), w, turf.ExportOptions{})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if err := w.WriteManifest(m); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "team_a.csv"))
	if err != nil {
		t.Fatalf("read team_a.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("team_a.csv has %d lines, want header + 2", len(lines))
	}
	if lines[0] != "GEOID,Region,fo_name,van_precinct_id,voters,doors,targets,geometry,WKT" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasSuffix(lines[2], ",,") {
		t.Errorf("row without shape should end in empty geometry and WKT: %q", lines[2])
	}

	loaded, err := turf.LoadManifest(filepath.Join(dir, turf.ManifestFileName))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if diff := cmp.Diff(m, loaded); diff != "" {
		t.Errorf("manifest round trip mismatch (-written +loaded):\n%s", diff)
	}

	f, _ := loaded.Lookup("team_a.csv")
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse team_a.csv: %v", err)
	}
	sum, err := turf.Checksum(records[0], records[1:])
	if err != nil {
		t.Fatalf("Checksum: %v", err)
	}
	if sum != f.Checksum {
		t.Errorf("checksum of file on disk %s != manifest %s", sum, f.Checksum)
	}
}
