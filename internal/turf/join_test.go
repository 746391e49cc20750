package turf_test

import (
	"bytes"
	"errors"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/EmpoweredVote/turf-shapes/internal/turf"
	"github.com/google/go-cmp/cmp"
)

func TestJoin_PreservesCardinality(t *testing.T) {
	table := attrs(
		[]string{"001", "North", "Team A", "1", "1", "1", "1"},
		[]string{"001", "North", "Team B", "2", "1", "1", "1"},
		[]string{"003", "South", "Team C", "3", "1", "1", "1"},
	)
	geoms := turf.GeometrySet{CRS: "EPSG:4326", Records: []turf.GeometryRecord{
		{GEOID: "001", Geometry: square(0, 0)},
		{GEOID: "999", Geometry: square(5, 5)},
	}}

	j, err := turf.Join(table, geoms)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if j.Len() != table.Len() {
		t.Fatalf("joined %d rows, want %d", j.Len(), table.Len())
	}
	if j.Rows[0].Geometry == nil || j.Rows[1].Geometry == nil {
		t.Errorf("attribute duplicates of 001 should both match")
	}
	if j.Rows[2].Geometry != nil {
		t.Errorf("003 has no shape, got %v", j.Rows[2].Geometry)
	}
	if diff := cmp.Diff([]string{"003"}, turf.Unmatched(j)); diff != "" {
		t.Errorf("Unmatched mismatch (-want +got):\n%s", diff)
	}
	if j.CRS != "EPSG:4326" {
		t.Errorf("CRS = %q", j.CRS)
	}
}

func TestJoin_KeepsRowOrderAndValues(t *testing.T) {
	table := attrs(
		[]string{"002", "North", "Team A", "2", "1", "1", "1"},
		[]string{"001", "North", "Team A", "1", "1", "1", "1"},
	)
	j, err := turf.Join(table, turf.GeometrySet{})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	for i, r := range j.Rows {
		if diff := cmp.Diff(table.Rows[i], r.Values); diff != "" {
			t.Errorf("row %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestJoin_DuplicateGeometryFirstWins(t *testing.T) {
	first, second := square(0, 0), square(9, 9)
	table := attrs([]string{"001", "North", "Team A", "1", "1", "1", "1"})
	geoms := turf.GeometrySet{Records: []turf.GeometryRecord{
		{GEOID: "001", Geometry: first},
		{GEOID: "001", Geometry: second},
	}}

	j, err := turf.Join(table, geoms)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if j.Len() != 1 {
		t.Fatalf("joined %d rows, want 1", j.Len())
	}
	if diff := cmp.Diff(first, j.Rows[0].Geometry); diff != "" {
		t.Errorf("expected first geometry (-want +got):\n%s", diff)
	}
}

func TestJoin_MissingKey(t *testing.T) {
	_, err := turf.Join(turf.Table{Columns: []string{"Region"}}, turf.GeometrySet{})
	if !errors.Is(err, turf.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

// A geometry record with an empty shape joins but does not count as matched,
// so the join log agrees with Unmatched.
func TestJoin_EmptyShapeIsUnmatched(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	table := attrs(
		[]string{"001", "North", "Team A", "1", "1", "1", "1"},
		[]string{"002", "North", "Team A", "2", "1", "1", "1"},
	)
	geoms := turf.GeometrySet{Records: []turf.GeometryRecord{
		{GEOID: "001", Geometry: square(0, 0)},
		{GEOID: "002"},
	}}

	j, err := turf.Join(table, geoms)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if diff := cmp.Diff([]string{"002"}, turf.Unmatched(j)); diff != "" {
		t.Errorf("Unmatched mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(buf.String(), "2 rows, 1 matched geometry, 1 without") {
		t.Errorf("join log disagrees with Unmatched: %s", buf.String())
	}
}
