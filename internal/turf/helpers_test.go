package turf_test

import (
	"context"

	"github.com/EmpoweredVote/turf-shapes/internal/turf"
	"github.com/paulmach/orb"
)

var attrColumns = []string{"GEOID", "Region", "fo_name", "van_precinct_id", "voters", "doors", "targets"}

func square(x, y float64) orb.Polygon {
	return orb.Polygon{{{x, y}, {x + 1, y}, {x + 1, y + 1}, {x, y + 1}, {x, y}}}
}

func attrs(rows ...[]string) turf.Table {
	return turf.Table{Columns: append([]string(nil), attrColumns...), Rows: rows}
}

// scenarioInputs is two North precincts in one turf, only "001" has a shape.
func scenarioInputs() (turf.Table, turf.GeometrySet) {
	t := attrs(
		[]string{"001", "North", "Team A", "101", "120", "80", "30"},
		[]string{"002", "North", "Team A", "102", "200", "150", "45"},
	)
	g := turf.GeometrySet{
		CRS: "EPSG:4326",
		Records: []turf.GeometryRecord{
			{GEOID: "001", CountyName: "Monroe", PrcnctName: "Bloomington 1", Geometry: square(0, 0)},
		},
	}
	return t, g
}

type staticAttributes struct {
	table turf.Table
	err   error
}

func (s staticAttributes) FetchAttributes(ctx context.Context) (turf.Table, error) {
	return s.table, s.err
}

type staticGeometry struct {
	set turf.GeometrySet
	err error
}

func (s staticGeometry) LoadGeometry(ctx context.Context) (turf.GeometrySet, error) {
	return s.set, s.err
}
