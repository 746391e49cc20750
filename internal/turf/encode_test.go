package turf_test

import (
	"testing"

	"github.com/EmpoweredVote/turf-shapes/internal/turf"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

func TestEncode_WKTRoundTrips(t *testing.T) {
	table, geoms := scenarioInputs()
	j, err := turf.Join(table, geoms)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}

	enc := turf.Encode(j, geoms.CRS)
	if enc.CRS != "EPSG:4326" {
		t.Errorf("CRS = %q, want EPSG:4326", enc.CRS)
	}

	matched := enc.Rows[0]
	if matched.WKT == "" {
		t.Fatal("matched row has empty WKT")
	}
	back, err := wkt.Unmarshal(matched.WKT)
	if err != nil {
		t.Fatalf("WKT does not parse: %v", err)
	}
	if !orb.Equal(back, matched.Geometry) {
		t.Errorf("round trip changed geometry: %v vs %v", back, matched.Geometry)
	}

	if enc.Rows[1].WKT != "" {
		t.Errorf("unmatched row WKT = %q, want empty", enc.Rows[1].WKT)
	}
}

func TestEncode_OverwritesPriorWKT(t *testing.T) {
	j := turf.Joined{
		Columns: attrColumns,
		Rows: []turf.JoinedRow{
			{Values: []string{"001"}, Geometry: orb.Point{1, 2}, WKT: "stale"},
			{Values: []string{"002"}, WKT: "stale"},
		},
	}

	enc := turf.Encode(j, "EPSG:2965")
	if enc.Rows[0].WKT != wkt.MarshalString(orb.Point{1, 2}) {
		t.Errorf("WKT = %q", enc.Rows[0].WKT)
	}
	if enc.Rows[1].WKT != "" {
		t.Errorf("WKT for absent geometry = %q, want empty", enc.Rows[1].WKT)
	}
	if j.Rows[0].WKT != "stale" {
		t.Errorf("input was mutated")
	}
	if enc.CRS != "EPSG:2965" {
		t.Errorf("CRS = %q", enc.CRS)
	}
}
